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

package camera

import (
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"github.com/pkg/errors"
)

const (
	placeholderWidth  = 640
	placeholderHeight = 480

	logInterval = time.Minute
)

// Placeholder always returns the same image. It stands in for the camera
// when no frames can be read.
type Placeholder struct {
	img image.Image
}

// LoadPlaceholder decodes the placeholder from a PNG or JPEG file. With
// no filename a plain grey frame is used.
func LoadPlaceholder(filename string) (*Placeholder, error) {
	if filename == "" {
		return NewPlaceholder(uniformFrame(placeholderWidth, placeholderHeight, color.RGBA{128, 128, 128, 255})), nil
	}
	img, err := decodeFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "loading placeholder image")
	}
	return NewPlaceholder(img), nil
}

func NewPlaceholder(img image.Image) *Placeholder {
	return &Placeholder{img: img}
}

func (p *Placeholder) NextFrame() (image.Image, error) {
	return p.img, nil
}

func (p *Placeholder) Close() error {
	return nil
}

func uniformFrame(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func decodeFile(filename string) (image.Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", filename)
	}
	return img, nil
}
