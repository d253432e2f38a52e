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

package throttle

import (
	"image"
	"log"
	"time"

	"github.com/juju/ratelimit"

	"github.com/TheCacophonyProject/birdcam/capture"
)

// ThrottledStore wraps a capture store so that it stops saving (ie gets
// throttled) when asked to save too often. On a windy day or with a bird
// sitting on the feeder for an hour the extra captures are near duplicates
// of the earlier ones and add no information.
//
// The token bucket holds one token per capture. It starts full and is
// refilled with one token every refill interval.
func NewThrottledStore(
	store capture.Store,
	conf *ThrottlerConfig,
	listener ThrottledEventListener,
) *ThrottledStore {
	return NewThrottledStoreWithClock(store, conf, listener, new(realClock))
}

func NewThrottledStoreWithClock(
	store capture.Store,
	conf *ThrottlerConfig,
	listener ThrottledEventListener,
	clock ratelimit.Clock,
) *ThrottledStore {
	refillRate := 1 / conf.RefillInterval.Seconds()
	bucket := ratelimit.NewBucketWithRateAndClock(refillRate, conf.BucketSize, clock)

	if listener == nil {
		listener = new(nullListener)
	}

	return &ThrottledStore{
		store:    store,
		listener: listener,
		bucket:   bucket,
	}
}

type ThrottledStore struct {
	store    capture.Store
	listener ThrottledEventListener
	bucket   *ratelimit.Bucket
}

type ThrottledEventListener interface {
	WhenThrottled()
}

type nullListener struct{}

func (lis *nullListener) WhenThrottled() {}

func (throttler *ThrottledStore) CheckCanWrite() error {
	return throttler.store.CheckCanWrite()
}

// Write saves img only when a token is available. The token is spent
// after the underlying store succeeds so failed writes cost nothing.
func (throttler *ThrottledStore) Write(name string, img image.Image) (string, error) {
	if throttler.bucket.Available() < 1 {
		log.Print("capture throttled")
		throttler.listener.WhenThrottled()
		return "", capture.ErrThrottled
	}
	path, err := throttler.store.Write(name, img)
	if err != nil {
		return "", err
	}
	throttler.bucket.TakeAvailable(1)
	return path, nil
}

// Available returns the number of captures that can be saved right now.
func (throttler *ThrottledStore) Available() int64 {
	return throttler.bucket.Available()
}

// realClock implements ratelimit.Clock in terms of standard time functions.
type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
