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
	"context"
	"image"
	"log"
	"sync/atomic"
	"time"
)

// Background is the reference frame motion is measured against. The
// frame it holds is never modified; a refresh swaps in a new frame so
// readers always see a complete one.
type Background struct {
	frame atomic.Pointer[image.Gray]
}

// Load returns the current background frame, or nil if none has been
// set yet.
func (b *Background) Load() *image.Gray {
	return b.frame.Load()
}

func (b *Background) Swap(frame *image.Gray) {
	b.frame.Store(frame)
}

// SearchFrameFunc returns a search frame, or nil if none is available.
type SearchFrameFunc func() *image.Gray

// AcquireFunc derives a fresh search frame from the frame source.
type AcquireFunc func() (*image.Gray, error)

// Refresher periodically replaces the background with the most recent
// search frame. When the detection loop has not produced a search frame
// yet it acquires one itself.
type Refresher struct {
	background *Background
	interval   time.Duration
	latest     SearchFrameFunc
	acquire    AcquireFunc
}

func NewRefresher(background *Background, interval time.Duration, latest SearchFrameFunc, acquire AcquireFunc) *Refresher {
	return &Refresher{
		background: background,
		interval:   interval,
		latest:     latest,
		acquire:    acquire,
	}
}

// Refresh updates the background once. On error the previous background
// is kept.
func (r *Refresher) Refresh() error {
	frame := r.latest()
	if frame == nil {
		log.Print("no search frame yet, acquiring one for the background")
		var err error
		frame, err = r.acquire()
		if err != nil {
			return err
		}
	}
	r.background.Swap(frame)
	return nil
}

// Run refreshes the background every interval until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Refresh(); err != nil {
				log.Printf("background refresh skipped: %v", err)
			}
		}
	}
}
