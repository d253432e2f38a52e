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

	"github.com/disintegration/gift"
	"github.com/nfnt/resize"
)

// blurSigma gives the same smoothing as a 21x21 Gaussian kernel with the
// sigma derived from the kernel size.
const blurSigma = 3.5

// Preprocessor turns full resolution frames into search frames: scaled
// to the search width, grey and blurred. It holds no state between
// calls, so the same input always gives the same output.
type Preprocessor struct {
	width  int
	filter *gift.GIFT
}

func NewPreprocessor(searchWidth int) *Preprocessor {
	return &Preprocessor{
		width: searchWidth,
		filter: gift.New(
			gift.Grayscale(),
			gift.GaussianBlur(blurSigma),
		),
	}
}

func (p *Preprocessor) Width() int {
	return p.width
}

func (p *Preprocessor) Process(full image.Image) *image.Gray {
	small := resize.Resize(uint(p.width), 0, full, resize.Bilinear)
	search := image.NewGray(p.filter.Bounds(small.Bounds()))
	p.filter.Draw(search, small)
	return search
}
