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

package main

import (
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	snapshotName          = "still.png"
	allowedSnapshotPeriod = 500 * time.Millisecond
)

// snapshotter saves the most recent full resolution frame on request so
// the camera view can be checked while the recorder is running.
type snapshotter struct {
	mu       sync.Mutex
	dir      string
	frame    func() image.Image
	previous image.Image
	last     time.Time
	now      func() time.Time
}

func newSnapshotter(dir string, frame func() image.Image) *snapshotter {
	return &snapshotter{
		dir:   dir,
		frame: frame,
		now:   time.Now,
	}
}

func (s *snapshotter) Take() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.now().Sub(s.last) < allowedSnapshotPeriod {
		return nil
	}

	f := s.frame()
	if f == nil {
		return errors.New("no frames yet")
	}
	// Check if frame had already been saved
	if f == s.previous {
		return nil
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	filename := filepath.Join(s.dir, snapshotName)
	tempName := filename + ".temp"
	out, err := os.Create(tempName)
	if err != nil {
		return err
	}
	if err := png.Encode(out, f); err != nil {
		out.Close()
		os.Remove(tempName)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tempName)
		return err
	}
	if err := os.Rename(tempName, filename); err != nil {
		return err
	}

	// the time will be changed only if the attempt is successful
	s.previous = f
	s.last = s.now()
	return nil
}

func deleteSnapshot(dir string) {
	if err := os.Remove(filepath.Join(dir, snapshotName)); err != nil && !os.IsNotExist(err) {
		log.Printf("error deleting snapshot image: %v", err)
	}
}
