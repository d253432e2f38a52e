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

// Classifier decides whether a region of interest shows something worth
// capturing.
type Classifier interface {
	IsSubject(roi image.Image) bool
}

// AlwaysSubject approves every region.
type AlwaysSubject struct{}

func (AlwaysSubject) IsSubject(image.Image) bool {
	return true
}
