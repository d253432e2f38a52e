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

package loglimiter

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// New returns a new LogLimiter with the configured minimum log interval.
func New(interval time.Duration) *LogLimiter {
	return &LogLimiter{
		interval: interval,
		nowFunc:  time.Now,
		entries:  make(map[string]*entry),
	}
}

// LogLimiter suppresses a log message if the same message was logged
// within the interval. Several distinct messages are tracked at once
// so that messages interleaved within one detection cycle are each
// limited on their own. When a suppressed message is let through again
// the number of suppressed repeats is appended.
type LogLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	nowFunc  func() time.Time
	entries  map[string]*entry
}

type entry struct {
	logged     time.Time
	suppressed int
}

func (limiter *LogLimiter) Printf(format string, v ...interface{}) {
	limiter.Print(fmt.Sprintf(format, v...))
}

func (limiter *LogLimiter) Print(s string) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	now := limiter.nowFunc()
	e := limiter.entries[s]
	if e != nil && now.Sub(e.logged) < limiter.interval {
		e.suppressed++
		return
	}
	limiter.prune(now)

	if e != nil && e.suppressed > 0 {
		log.Printf("%s (repeated %d times)", s, e.suppressed)
	} else {
		log.Print(s)
	}
	limiter.entries[s] = &entry{logged: now}
}

// prune forgets messages that have not been seen for a few intervals.
func (limiter *LogLimiter) prune(now time.Time) {
	for s, e := range limiter.entries {
		if e.suppressed == 0 && now.Sub(e.logged) >= 4*limiter.interval {
			delete(limiter.entries, s)
		}
	}
}
