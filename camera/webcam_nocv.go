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

//go:build !withcv
// +build !withcv

package camera

import (
	"image"

	"github.com/pkg/errors"
)

var errNoCV = errors.New("webcam support requires building with -tags withcv")

// Webcam is unavailable when built without OpenCV; the pipeline then
// falls back to the placeholder image.
type Webcam struct{}

func OpenWebcam(device int) (*Webcam, error) {
	return nil, errNoCV
}

func (*Webcam) NextFrame() (image.Image, error) { return nil, errNoCV }
func (*Webcam) Close() error                    { return nil }
