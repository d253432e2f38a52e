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
	"time"

	"github.com/pkg/errors"
)

type MotionConfig struct {
	WaitSecs       int   `yaml:"wait-secs"`
	BaseUpdateSecs int   `yaml:"base-update-secs"`
	MinArea        int   `yaml:"min-area"`
	SearchWidth    int   `yaml:"search-width"`
	DeltaThresh    uint8 `yaml:"delta-thresh"`
	Verbose        bool  `yaml:"-"`
}

func DefaultMotionConfig() MotionConfig {
	return MotionConfig{
		WaitSecs:       15,
		BaseUpdateSecs: 60,
		MinArea:        500,
		SearchWidth:    200,
		DeltaThresh:    40,
	}
}

func (conf *MotionConfig) Validate() error {
	if conf.WaitSecs < 0 {
		return errors.New("wait-secs can't be negative")
	}
	if conf.BaseUpdateSecs <= 0 {
		return errors.New("base-update-secs must be greater than 0")
	}
	if conf.MinArea < 0 {
		return errors.New("min-area can't be negative")
	}
	if conf.SearchWidth <= 0 {
		return errors.New("search-width must be greater than 0")
	}
	return nil
}

// WaitTime is the minimum time between persisted captures.
func (conf *MotionConfig) WaitTime() time.Duration {
	return time.Duration(conf.WaitSecs) * time.Second
}

func (conf *MotionConfig) BaseUpdateInterval() time.Duration {
	return time.Duration(conf.BaseUpdateSecs) * time.Second
}
