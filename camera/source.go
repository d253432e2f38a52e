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

// Package camera supplies full resolution frames to the motion pipeline.
package camera

import (
	"image"
	"log"

	"github.com/TheCacophonyProject/birdcam/loglimiter"
)

// Source yields the next full resolution frame. Frames returned must not
// be modified by the caller or the source afterwards.
type Source interface {
	NextFrame() (image.Image, error)
	Close() error
}

type Config struct {
	Device      int
	Placeholder string
	PlaybackDir string
}

// Open decides once which source is used for the whole run. A playback
// directory wins over the webcam. If the chosen source cannot be opened
// the placeholder image is used instead.
func Open(conf Config) (Source, error) {
	placeholder, err := LoadPlaceholder(conf.Placeholder)
	if err != nil {
		return nil, err
	}

	var live Source
	if conf.PlaybackDir != "" {
		live, err = NewPlayback(conf.PlaybackDir)
	} else {
		live, err = openWebcamSource(conf.Device)
	}
	if err != nil {
		log.Printf("camera unavailable, using placeholder image: %v", err)
		return placeholder, nil
	}
	return NewFallback(live, placeholder), nil
}

func openWebcamSource(device int) (Source, error) {
	w, err := OpenWebcam(device)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Fallback substitutes the placeholder for any frame the live source
// fails to deliver.
type Fallback struct {
	live        Source
	placeholder *Placeholder
	log         *loglimiter.LogLimiter
}

func NewFallback(live Source, placeholder *Placeholder) *Fallback {
	return &Fallback{
		live:        live,
		placeholder: placeholder,
		log:         loglimiter.New(logInterval),
	}
}

func (f *Fallback) NextFrame() (image.Image, error) {
	frame, err := f.live.NextFrame()
	if err != nil {
		f.log.Printf("frame acquisition failed, using placeholder: %v", err)
		return f.placeholder.NextFrame()
	}
	return frame, nil
}

func (f *Fallback) Close() error {
	return f.live.Close()
}
