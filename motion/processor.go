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
	"image/draw"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/TheCacophonyProject/window"

	"github.com/TheCacophonyProject/birdcam/capture"
	"github.com/TheCacophonyProject/birdcam/loglimiter"
)

const (
	minLogInterval = time.Minute
	errorBackoff   = time.Second
)

// Source delivers full resolution frames.
type Source interface {
	NextFrame() (image.Image, error)
}

// Capturer persists a region of interest, subject to debouncing. A nil
// Record with a nil error means the capture was debounced.
type Capturer interface {
	Capture(roi image.Image, now time.Time) (*capture.Record, error)
}

type CaptureListener interface {
	FrameProcessed()
	MotionDetected(regions int)
	Captured(rec *capture.Record)
}

func NewMotionProcessor(
	conf MotionConfig,
	source Source,
	capturer Capturer,
	win *window.Window,
	listener CaptureListener,
) *MotionProcessor {
	mp := &MotionProcessor{
		conf:         conf,
		source:       source,
		preprocessor: NewPreprocessor(conf.SearchWidth),
		diffEngine:   NewDiffEngine(conf.DeltaThresh, conf.MinArea),
		background:   new(Background),
		classifier:   AlwaysSubject{},
		capturer:     capturer,
		window:       win,
		listener:     listener,
		log:          loglimiter.New(minLogInterval),
		now:          time.Now,
	}
	mp.refresher = NewRefresher(mp.background, conf.BaseUpdateInterval(), mp.latestSearch, mp.acquireSearch)
	return mp
}

// MotionProcessor runs the detection pipeline: each frame is reduced to
// a search frame, compared against the background, and every region of
// change that the classifier approves is offered to the capturer.
type MotionProcessor struct {
	conf         MotionConfig
	source       Source
	sourceMu     sync.Mutex
	preprocessor *Preprocessor
	diffEngine   *DiffEngine
	background   *Background
	refresher    *Refresher
	classifier   Classifier
	capturer     Capturer
	window       *window.Window
	listener     CaptureListener
	log          *loglimiter.LogLimiter
	now          func() time.Time

	mu     sync.Mutex
	search *image.Gray
	recent image.Image

	frames atomic.Int64
}

// SetClassifier replaces the default classifier, which approves every
// region.
func (mp *MotionProcessor) SetClassifier(c Classifier) {
	mp.classifier = c
}

func (mp *MotionProcessor) Background() *Background {
	return mp.background
}

func (mp *MotionProcessor) Refresher() *Refresher {
	return mp.refresher
}

// RecentFrame returns the most recently processed full resolution frame,
// or nil if no frame has been processed.
func (mp *MotionProcessor) RecentFrame() image.Image {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.recent
}

// Frames returns the number of frames processed.
func (mp *MotionProcessor) Frames() int64 {
	return mp.frames.Load()
}

func (mp *MotionProcessor) latestSearch() *image.Gray {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.search
}

func (mp *MotionProcessor) acquireSearch() (*image.Gray, error) {
	full, err := mp.nextFrame()
	if err != nil {
		return nil, err
	}
	return mp.preprocessor.Process(full), nil
}

func (mp *MotionProcessor) nextFrame() (image.Image, error) {
	mp.sourceMu.Lock()
	defer mp.sourceMu.Unlock()
	return mp.source.NextFrame()
}

// windowActive reports whether captures may be saved now. Without a
// window captures are always allowed.
func (mp *MotionProcessor) windowActive() bool {
	return mp.window == nil || mp.window.NoWindow || mp.window.Active()
}

// ProcessFrame runs one detection cycle on full. It returns the captures
// persisted during the cycle. A capture error does not stop the other
// regions from being tried; the first one is returned.
func (mp *MotionProcessor) ProcessFrame(full image.Image) ([]*capture.Record, error) {
	search := mp.preprocessor.Process(full)
	mp.mu.Lock()
	mp.search = search
	mp.recent = full
	mp.mu.Unlock()
	mp.frames.Add(1)
	if mp.listener != nil {
		defer mp.listener.FrameProcessed()
	}

	background := mp.background.Load()
	if background == nil {
		mp.log.Print("no background frame yet")
		return nil, nil
	}
	result, err := mp.diffEngine.Compute(background, search)
	if err != nil {
		return nil, err
	}
	if len(result.Regions) == 0 {
		return nil, nil
	}
	if mp.conf.Verbose {
		log.Printf("motion detected in %d regions", len(result.Regions))
	}
	if mp.listener != nil {
		mp.listener.MotionDetected(len(result.Regions))
	}

	var records []*capture.Record
	var firstErr error
	for _, region := range result.Regions {
		box := RemapROI(region.Bounds, mp.conf.SearchWidth, full.Bounds())
		if box.Empty() {
			continue
		}
		roi := crop(full, box)
		if !mp.classifier.IsSubject(roi) {
			continue
		}
		if !mp.windowActive() {
			mp.log.Print("motion detected but outside of capture window")
			continue
		}
		rec, err := mp.capturer.Capture(roi, mp.now())
		if err != nil {
			mp.log.Printf("capture failed: %v", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if rec == nil {
			continue
		}
		log.Printf("captured %s", rec.Path)
		records = append(records, rec)
		if mp.listener != nil {
			mp.listener.Captured(rec)
		}
	}
	return records, firstErr
}

// Run refreshes the background once, then processes frames until ctx is
// cancelled. The background refresher runs alongside and is stopped
// before Run returns.
func (mp *MotionProcessor) Run(ctx context.Context) error {
	start := time.Now()
	startFrames := mp.Frames()

	if err := mp.refresher.Refresh(); err != nil {
		log.Printf("initial background refresh failed: %v", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		mp.refresher.Run(ctx)
	}()
	defer func() {
		cancel()
		wg.Wait()
		elapsed := time.Since(start)
		frames := mp.Frames() - startFrames
		log.Printf("elapsed time: %.2fs", elapsed.Seconds())
		if elapsed > 0 {
			log.Printf("approx. FPS: %.2f", float64(frames)/elapsed.Seconds())
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		full, err := mp.nextFrame()
		if err != nil {
			mp.log.Printf("failed to get frame: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(errorBackoff):
			}
			continue
		}
		if _, err := mp.ProcessFrame(full); err == ErrDimensionMismatch {
			mp.log.Printf("skipping frame: %v", err)
		}
	}
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// crop returns the part of img inside r, sharing pixels when the image
// type allows it.
func crop(img image.Image, r image.Rectangle) image.Image {
	if s, ok := img.(subImager); ok {
		return s.SubImage(r)
	}
	dst := image.NewRGBA(image.Rectangle{Max: r.Size()})
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}
