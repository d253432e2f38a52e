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

import "image"

// paddingPercent of the full frame size is added on each side of a
// remapped region.
const paddingPercent = 5

// ScaleROI maps a region found in a search frame of searchWidth pixels
// onto a full frame with the given bounds, padding it by 5% of the full
// frame size on each side. The result may extend outside the frame.
func ScaleROI(region image.Rectangle, searchWidth int, full image.Rectangle) image.Rectangle {
	fw, fh := full.Dx(), full.Dy()
	scale := float64(fw) / float64(searchWidth)
	padX := float64(fw) * paddingPercent / 100
	padY := float64(fh) * paddingPercent / 100

	x := int(float64(region.Min.X)*scale - padX)
	y := int(float64(region.Min.Y)*scale - padY)
	w := int(float64(region.Dx())*scale + 2*padX)
	h := int(float64(region.Dy())*scale + 2*padY)
	return image.Rect(x, y, x+w, y+h)
}

// RemapROI is ScaleROI clamped to the full frame. The origin is clamped
// into the frame first and the size is then cut to what remains.
func RemapROI(region image.Rectangle, searchWidth int, full image.Rectangle) image.Rectangle {
	box := ScaleROI(region, searchWidth, full)
	fw, fh := full.Dx(), full.Dy()

	x := clamp(box.Min.X, 0, fw-1)
	y := clamp(box.Min.Y, 0, fh-1)
	w := clamp(box.Dx(), 0, fw-x)
	h := clamp(box.Dy(), 0, fh-y)

	return image.Rect(x, y, x+w, y+h).Add(full.Min)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
