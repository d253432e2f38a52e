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

package throttle

import (
	"log"
	"time"

	"github.com/TheCacophonyProject/birdcam/events"
)

// ThrottledEventRecorder queues a "throttle" event each time a capture
// is throttled.
type ThrottledEventRecorder struct{}

func (er ThrottledEventRecorder) WhenThrottled() {
	if err := events.Queue("throttle", nil, time.Now()); err != nil {
		log.Printf("Could not record throttle event: %s", err)
	}
}
