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
	"github.com/pkg/errors"
)

var ErrDimensionMismatch = errors.New("background and search frame dimensions differ")

// dilateIterations of a 3x3 square kernel join nearby changed pixels
// into one region.
const dilateIterations = 2

// Region is an area of change found in a search frame.
type Region struct {
	Bounds image.Rectangle
	// Area is the number of pixels inside the region's outer boundary,
	// holes included.
	Area int
}

type DiffResult struct {
	Delta   *image.Gray
	Mask    *image.Gray
	Regions []Region
}

// DiffEngine compares search frames against the background and reports
// regions of change that are at least minArea pixels.
type DiffEngine struct {
	thresh  uint8
	minArea int
	dilate  *gift.GIFT
}

func NewDiffEngine(thresh uint8, minArea int) *DiffEngine {
	filters := make([]gift.Filter, dilateIterations)
	for i := range filters {
		filters[i] = gift.Maximum(3, false)
	}
	return &DiffEngine{
		thresh:  thresh,
		minArea: minArea,
		dilate:  gift.New(filters...),
	}
}

func (d *DiffEngine) Compute(background, search *image.Gray) (*DiffResult, error) {
	if background.Bounds().Size() != search.Bounds().Size() {
		return nil, ErrDimensionMismatch
	}
	delta := absDiff(background, search)
	binary := threshold(delta, d.thresh)
	mask := image.NewGray(d.dilate.Bounds(binary.Bounds()))
	d.dilate.Draw(mask, binary)

	var regions []Region
	for _, r := range connectedRegions(fillHoles(mask)) {
		if r.Area >= d.minArea {
			regions = append(regions, r)
		}
	}
	return &DiffResult{
		Delta:   delta,
		Mask:    mask,
		Regions: regions,
	}, nil
}

func absDiff(a, b *image.Gray) *image.Gray {
	size := a.Bounds().Size()
	out := image.NewGray(image.Rectangle{Max: size})
	ab, bb := a.Bounds().Min, b.Bounds().Min
	for y := 0; y < size.Y; y++ {
		ra := a.Pix[a.PixOffset(ab.X, ab.Y+y):]
		rb := b.Pix[b.PixOffset(bb.X, bb.Y+y):]
		ro := out.Pix[out.PixOffset(0, y):]
		for x := 0; x < size.X; x++ {
			if ra[x] > rb[x] {
				ro[x] = ra[x] - rb[x]
			} else {
				ro[x] = rb[x] - ra[x]
			}
		}
	}
	return out
}

// threshold sets pixels strictly above thresh to 255 and the rest to 0.
func threshold(img *image.Gray, thresh uint8) *image.Gray {
	out := image.NewGray(img.Bounds())
	for i, v := range img.Pix {
		if v > thresh {
			out.Pix[i] = 255
		}
	}
	return out
}

// fillHoles returns a copy of mask where background pixels that can't be
// reached from the border are set, so a region swallows anything it
// encloses. Background is 4-connected to match 8-connected regions.
func fillHoles(mask *image.Gray) *image.Gray {
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	filled := image.NewGray(image.Rect(0, 0, w, h))
	for i := range filled.Pix {
		filled.Pix[i] = 255
	}

	var queue []image.Point
	visit := func(x, y int) {
		if mask.Pix[y*mask.Stride+x] != 0 || filled.Pix[y*w+x] == 0 {
			return
		}
		filled.Pix[y*w+x] = 0
		queue = append(queue, image.Pt(x, y))
	}
	for x := 0; x < w; x++ {
		visit(x, 0)
		visit(x, h-1)
	}
	for y := 0; y < h; y++ {
		visit(0, y)
		visit(w-1, y)
	}
	for len(queue) > 0 {
		p := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if p.X > 0 {
			visit(p.X-1, p.Y)
		}
		if p.X < w-1 {
			visit(p.X+1, p.Y)
		}
		if p.Y > 0 {
			visit(p.X, p.Y-1)
		}
		if p.Y < h-1 {
			visit(p.X, p.Y+1)
		}
	}
	return filled
}

// connectedRegions labels the 8-connected groups of non-zero pixels in
// mask, which must have its origin at (0, 0).
func connectedRegions(mask *image.Gray) []Region {
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	seen := make([]bool, w*h)
	var regions []Region
	var queue []image.Point

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if seen[i] || mask.Pix[y*mask.Stride+x] == 0 {
				continue
			}
			seen[i] = true
			queue = append(queue[:0], image.Pt(x, y))
			bounds := image.Rect(x, y, x+1, y+1)
			area := 0
			for len(queue) > 0 {
				p := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				area++
				bounds = bounds.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := p.X+dx, p.Y+dy
						if nx < 0 || ny < 0 || nx >= w || ny >= h {
							continue
						}
						ni := ny*w + nx
						if seen[ni] || mask.Pix[ny*mask.Stride+nx] == 0 {
							continue
						}
						seen[ni] = true
						queue = append(queue, image.Pt(nx, ny))
					}
				}
			}
			regions = append(regions, Region{Bounds: bounds, Area: area})
		}
	}
	return regions
}
