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
	"image/draw"
)

const (
	fullWidth  = 800
	fullHeight = 600

	backgroundVal = 100
	brightSpotVal = 255
)

func uniformGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func fillGray(img *image.Gray, r image.Rectangle, v uint8) *image.Gray {
	draw.Draw(img, r, &image.Uniform{C: color.Gray{Y: v}}, image.Point{}, draw.Src)
	return img
}

func makeFullFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))
	c := color.RGBA{backgroundVal, backgroundVal, backgroundVal, 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func makeFullFrameWithBrightSpot(r image.Rectangle) *image.RGBA {
	return addBrightSpot(makeFullFrame(), r)
}

func addBrightSpot(img *image.RGBA, r image.Rectangle) *image.RGBA {
	c := color.RGBA{brightSpotVal, brightSpotVal, brightSpotVal, 255}
	draw.Draw(img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}
