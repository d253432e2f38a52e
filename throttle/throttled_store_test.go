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
	"errors"
	"image"
	"testing"
	"time"

	"github.com/juju/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/birdcam/capture"
)

const (
	bucketSize     = 3
	refillInterval = time.Minute
)

func newTestConfig() *ThrottlerConfig {
	return &ThrottlerConfig{
		ApplyThrottling: true,
		BucketSize:      bucketSize,
		RefillInterval:  refillInterval,
	}
}

type writeStore struct {
	capture.NoWriteStore
	writes   int
	writeErr error
}

func (s *writeStore) Write(name string, _ image.Image) (string, error) {
	if s.writeErr != nil {
		return "", s.writeErr
	}
	s.writes++
	return name, nil
}

type throttleListener struct {
	events int
}

func (tl *throttleListener) WhenThrottled() {
	tl.events++
}

func newTestThrottledStore() (*writeStore, *throttleListener, *ThrottledStore, *testClock) {
	clock := &testClock{now: time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := new(writeStore)
	listener := new(throttleListener)
	return store, listener, NewThrottledStoreWithClock(store, newTestConfig(), listener, clock), clock
}

func writeN(s *ThrottledStore, n int) (written, throttled int) {
	for i := 0; i < n; i++ {
		_, err := s.Write("x.jpg", nil)
		if err == capture.ErrThrottled {
			throttled++
		} else if err == nil {
			written++
		}
	}
	return
}

func TestWritesUntilBucketEmpty(t *testing.T) {
	store, listener, throttled, _ := newTestThrottledStore()

	written, rejected := writeN(throttled, 5)
	assert.Equal(t, bucketSize, written)
	assert.Equal(t, 2, rejected)
	assert.Equal(t, bucketSize, store.writes)
	assert.Equal(t, 2, listener.events)
}

func TestBucketRefills(t *testing.T) {
	_, _, throttled, clock := newTestThrottledStore()

	writeN(throttled, bucketSize)
	assert.Equal(t, int64(0), throttled.Available())

	clock.Sleep(refillInterval)
	assert.Equal(t, int64(1), throttled.Available())
	written, rejected := writeN(throttled, 2)
	assert.Equal(t, 1, written)
	assert.Equal(t, 1, rejected)
}

func TestBucketOnlyFillsToSize(t *testing.T) {
	_, _, throttled, clock := newTestThrottledStore()

	writeN(throttled, bucketSize)
	clock.Sleep(100 * refillInterval)
	assert.Equal(t, int64(bucketSize), throttled.Available())
}

func TestFailedWriteDoesNotUseToken(t *testing.T) {
	store, _, throttled, _ := newTestThrottledStore()

	store.writeErr = errors.New("broken")
	_, err := throttled.Write("x.jpg", nil)
	require.EqualError(t, err, "broken")
	assert.Equal(t, int64(bucketSize), throttled.Available())
}

func TestDebouncerWithThrottledStore(t *testing.T) {
	_, _, throttled, _ := newTestThrottledStore()
	d := capture.NewDebouncer(time.Second, throttled, namer("Kea"))

	now := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < bucketSize; i++ {
		rec, err := d.Capture(nil, now)
		require.NoError(t, err)
		require.NotNil(t, rec)
		now = now.Add(time.Second)
	}

	rec, err := d.Capture(nil, now)
	assert.Equal(t, capture.ErrThrottled, err)
	assert.Nil(t, rec)
	assert.Equal(t, bucketSize, d.Count())
}

func TestValidate(t *testing.T) {
	conf := DefaultThrottlerConfig()
	assert.NoError(t, conf.Validate())

	conf.ApplyThrottling = true
	conf.BucketSize = 0
	assert.EqualError(t, conf.Validate(), "throttler bucket-size should be at least 1")

	conf.BucketSize = 1
	conf.RefillInterval = 0
	assert.EqualError(t, conf.Validate(), "throttler refill-interval should be positive")
}

type namer string

func (n namer) Label() string { return string(n) }

var _ ratelimit.Clock = new(realClock)
var _ ratelimit.Clock = new(testClock)

// testClock implements a fake ratelimit.Clock for testing.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
}
