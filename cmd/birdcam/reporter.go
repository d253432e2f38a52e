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
	"log"

	"github.com/coreos/go-systemd/daemon"

	"github.com/TheCacophonyProject/birdcam/capture"
	"github.com/TheCacophonyProject/birdcam/events"
)

const (
	framesHz = 10 // approx

	framesPerSdNotify        = 5 * framesHz
	frameLogIntervalFirstMin = 15 * framesHz
	frameLogInterval         = 60 * 5 * framesHz
)

// captureReporter keeps systemd's watchdog fed and queues an event for
// every saved capture.
type captureReporter struct {
	reportEvents bool
	notifyCount  int
	frames       int
	notify       func(state string)
	queue        func(rec *capture.Record) error
}

func (r *captureReporter) FrameProcessed() {
	r.frames++
	if r.frames%frameLogIntervalFirstMin == 0 && r.frames <= 60*framesHz ||
		r.frames%frameLogInterval == 0 {
		log.Printf("%d frames processed", r.frames)
	}
	if r.notifyCount++; r.notifyCount >= framesPerSdNotify {
		r.sdNotify(daemon.SdNotifyWatchdog)
		r.notifyCount = 0
	}
}

func (r *captureReporter) MotionDetected(regions int) {}

func (r *captureReporter) Captured(rec *capture.Record) {
	if !r.reportEvents {
		return
	}
	queue := r.queue
	if queue == nil {
		queue = queueCaptureEvent
	}
	if err := queue(rec); err != nil {
		log.Printf("could not queue capture event: %v", err)
	}
}

func (r *captureReporter) sdNotify(state string) {
	if r.notify != nil {
		r.notify(state)
		return
	}
	daemon.SdNotify(false, state)
}

func queueCaptureEvent(rec *capture.Record) error {
	return events.Queue("birdCapture", map[string]interface{}{
		"label": rec.Label,
		"file":  rec.Path,
		"seq":   rec.Seq,
	}, rec.Time)
}
