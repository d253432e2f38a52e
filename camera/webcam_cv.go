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

//go:build withcv
// +build withcv

package camera

import (
	"image"
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Webcam reads frames from a video capture device through OpenCV.
type Webcam struct {
	mu  sync.Mutex
	cap *gocv.VideoCapture
	mat gocv.Mat
}

// OpenWebcam opens the device and reads one frame to check that the
// camera is actually delivering images.
func OpenWebcam(device int) (*Webcam, error) {
	cap, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, errors.Wrapf(err, "opening video device %d", device)
	}
	w := &Webcam{
		cap: cap,
		mat: gocv.NewMat(),
	}
	if _, err := w.NextFrame(); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

func (w *Webcam) NextFrame() (image.Image, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if ok := w.cap.Read(&w.mat); !ok {
		return nil, errors.New("video device closed")
	}
	if w.mat.Empty() {
		return nil, errors.New("empty frame from video device")
	}
	// ToImage copies the pixels so the returned frame is independent of
	// the reused Mat.
	img, err := w.mat.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "converting frame")
	}
	return img, nil
}

// Close frees resources used by gocv. It has to be done manually,
// due to gocv using c-go.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mat.Close()
	return w.cap.Close()
}
