// birdcam - save snapshots of birds moving in front of a camera
//  Copyright (C) 2020, The Cacophony Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package motion

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoChangeGivesNoRegions(t *testing.T) {
	engine := NewDiffEngine(40, 500)
	background := uniformGray(200, 150, backgroundVal)

	result, err := engine.Compute(background, uniformGray(200, 150, backgroundVal))
	require.NoError(t, err)
	assert.Empty(t, result.Regions)
}

func TestChangeAtThresholdIsIgnored(t *testing.T) {
	engine := NewDiffEngine(40, 0)
	background := uniformGray(200, 150, backgroundVal)
	search := fillGray(uniformGray(200, 150, backgroundVal), image.Rect(50, 50, 80, 80), backgroundVal+40)

	result, err := engine.Compute(background, search)
	require.NoError(t, err)
	assert.Empty(t, result.Regions)
}

func TestRegionIsDilated(t *testing.T) {
	engine := NewDiffEngine(40, 500)
	background := uniformGray(200, 150, backgroundVal)
	search := fillGray(uniformGray(200, 150, backgroundVal), image.Rect(50, 50, 80, 80), 200)

	result, err := engine.Compute(background, search)
	require.NoError(t, err)
	require.Len(t, result.Regions, 1)
	assert.Equal(t, image.Rect(48, 48, 82, 82), result.Regions[0].Bounds)
	assert.Equal(t, 34*34, result.Regions[0].Area)
}

func TestDarkerChangeIsDetected(t *testing.T) {
	engine := NewDiffEngine(40, 500)
	background := uniformGray(200, 150, 200)
	search := fillGray(uniformGray(200, 150, 200), image.Rect(50, 50, 80, 80), 20)

	result, err := engine.Compute(background, search)
	require.NoError(t, err)
	assert.Len(t, result.Regions, 1)
}

func TestSmallRegionsAreExcluded(t *testing.T) {
	background := uniformGray(200, 150, backgroundVal)
	search := uniformGray(200, 150, backgroundVal)
	fillGray(search, image.Rect(10, 10, 15, 15), 255)    // 9x9 after dilation
	fillGray(search, image.Rect(100, 60, 140, 100), 255) // 44x44 after dilation

	result, err := NewDiffEngine(40, 500).Compute(background, search)
	require.NoError(t, err)
	require.Len(t, result.Regions, 1)
	assert.Equal(t, image.Rect(98, 58, 142, 102), result.Regions[0].Bounds)
	for _, r := range result.Regions {
		assert.GreaterOrEqual(t, r.Area, 500)
	}

	result, err = NewDiffEngine(40, 0).Compute(background, search)
	require.NoError(t, err)
	assert.Len(t, result.Regions, 2)
}

func TestDiagonalPixelsAreConnected(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 4, 4))
	mask.SetGray(0, 0, maskOn)
	mask.SetGray(1, 1, maskOn)
	mask.SetGray(3, 0, maskOn)

	regions := connectedRegions(mask)
	require.Len(t, regions, 2)
	assert.Equal(t, Region{Bounds: image.Rect(0, 0, 2, 2), Area: 2}, regions[0])
	assert.Equal(t, Region{Bounds: image.Rect(3, 0, 4, 1), Area: 1}, regions[1])
}

func TestRegionInsideRingIsPartOfRing(t *testing.T) {
	background := uniformGray(200, 150, backgroundVal)
	search := uniformGray(200, 150, backgroundVal)
	fillGray(search, image.Rect(20, 20, 120, 120), 255)
	fillGray(search, image.Rect(23, 23, 117, 117), backgroundVal)
	fillGray(search, image.Rect(60, 60, 80, 80), 255)

	result, err := NewDiffEngine(40, 0).Compute(background, search)
	require.NoError(t, err)
	require.Len(t, result.Regions, 1)
	assert.Equal(t, image.Rect(18, 18, 122, 122), result.Regions[0].Bounds)
	assert.Equal(t, 104*104, result.Regions[0].Area)
}

func TestFillHolesKeepsOpenBackground(t *testing.T) {
	// A "U" shape has no enclosed pixels; a closed square does.
	mask := image.NewGray(image.Rect(0, 0, 6, 6))
	for y := 1; y <= 4; y++ {
		mask.SetGray(1, y, maskOn)
		mask.SetGray(4, y, maskOn)
	}
	mask.SetGray(2, 4, maskOn)
	mask.SetGray(3, 4, maskOn)

	regions := connectedRegions(fillHoles(mask))
	require.Len(t, regions, 1)
	assert.Equal(t, 10, regions[0].Area)

	mask.SetGray(2, 1, maskOn)
	mask.SetGray(3, 1, maskOn)
	regions = connectedRegions(fillHoles(mask))
	require.Len(t, regions, 1)
	assert.Equal(t, 16, regions[0].Area)
}

func TestDimensionMismatch(t *testing.T) {
	engine := NewDiffEngine(40, 500)
	_, err := engine.Compute(uniformGray(200, 150, 0), uniformGray(200, 113, 0))
	assert.Equal(t, ErrDimensionMismatch, err)
}

var maskOn = color.Gray{Y: 255}
