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

package capture

import (
	"fmt"
	"image"
	"strings"
	"sync"
	"time"
)

const dateFormat = "02-01-2006"

// Namer supplies the label a capture is saved under.
type Namer interface {
	Label() string
}

// Record describes a capture that was persisted.
type Record struct {
	Label string
	Time  time.Time
	Seq   int
	Path  string
}

// Debouncer enforces a minimum time between persisted captures. The
// last capture time and the sequence counter only change when the store
// confirms a write, so a failed write never uses up the capture slot.
// The first capture after startup is never debounced.
type Debouncer struct {
	mu          sync.Mutex
	wait        time.Duration
	store       Store
	namer       Namer
	lastCapture time.Time
	captured    bool
	count       int
}

func NewDebouncer(wait time.Duration, store Store, namer Namer) *Debouncer {
	return &Debouncer{
		wait:  wait,
		store: store,
		namer: namer,
	}
}

// Ready reports whether a capture at now would be persisted.
func (d *Debouncer) Ready(now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ready(now)
}

func (d *Debouncer) ready(now time.Time) bool {
	return !d.captured || now.Sub(d.lastCapture) >= d.wait
}

// Capture persists img if the wait time has passed since the last
// persisted capture. It returns a nil Record when the capture was
// debounced.
func (d *Debouncer) Capture(img image.Image, now time.Time) (*Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.ready(now) {
		return nil, nil
	}

	label := d.namer.Label()
	name := Filename(label, now, d.count)
	path, err := d.store.Write(name, img)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Label: label,
		Time:  now,
		Seq:   d.count,
		Path:  path,
	}
	d.lastCapture = now
	d.captured = true
	d.count++
	return rec, nil
}

// LastCapture returns the time of the last persisted capture, or the
// zero time if nothing has been persisted.
func (d *Debouncer) LastCapture() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastCapture
}

func (d *Debouncer) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// Filename composes the file name for a capture from its label, date and
// sequence number.
func Filename(label string, t time.Time, seq int) string {
	return fmt.Sprintf("%s_%s_%d.jpg", sanitiseLabel(label), t.Format(dateFormat), seq)
}

func sanitiseLabel(label string) string {
	label = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == 0:
			return '-'
		case r < ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(label))
	label = strings.TrimLeft(label, ".")
	if label == "" {
		return "unknown"
	}
	return label
}
