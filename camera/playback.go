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

package camera

import (
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var playbackExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Playback replays the images in a directory in name order, starting
// again from the first once the last has been returned. It is used to
// try out motion settings on recorded footage.
type Playback struct {
	mu     sync.Mutex
	files  []string
	next   int
	Frames int
}

func NewPlayback(dir string) (*Playback, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "reading playback directory")
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if playbackExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no images found in %s", dir)
	}
	sort.Strings(files)
	return &Playback{files: files}, nil
}

func (p *Playback) NextFrame() (image.Image, error) {
	p.mu.Lock()
	filename := p.files[p.next]
	p.next = (p.next + 1) % len(p.files)
	p.Frames++
	p.mu.Unlock()

	return decodeFile(filename)
}

func (p *Playback) Close() error {
	return nil
}
