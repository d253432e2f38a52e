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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/birdcam/location"
	"github.com/TheCacophonyProject/birdcam/motion"
	"github.com/TheCacophonyProject/birdcam/throttle"
)

func TestAllDefaults(t *testing.T) {
	conf, err := ParseConfig([]byte(""))
	require.NoError(t, err)
	require.NoError(t, conf.Validate())

	assert.Equal(t, Config{
		OutputDir:    "/var/spool/birdcam",
		MinDiskSpace: 200,
		Motion: motion.MotionConfig{
			WaitSecs:       15,
			BaseUpdateSecs: 60,
			MinArea:        500,
			SearchWidth:    200,
			DeltaThresh:    40,
		},
		Throttler: throttle.ThrottlerConfig{
			ApplyThrottling: false,
			BucketSize:      20,
			RefillInterval:  3 * time.Minute,
		},
	}, *conf)
}

func TestAllSet(t *testing.T) {
	config := []byte(`
output-dir: "/some/where"
min-disk-space-mb: 321
device: 2
placeholder: "/etc/birdcam/offline.png"
playback-dir: "/some/frames"
names-file: "/etc/birdcam/names.csv"
window-start: "05:30"
window-end: "21:15"
report-events: true
motion:
    wait-secs: 5
    base-update-secs: 30
    min-area: 250
    search-width: 320
    delta-thresh: 25
throttler:
    apply-throttling: true
    bucket-size: 5
    refill-interval: 10m
`)

	conf, err := ParseConfig(config)
	require.NoError(t, err)

	assert.Equal(t, Config{
		OutputDir:    "/some/where",
		MinDiskSpace: 321,
		Device:       2,
		Placeholder:  "/etc/birdcam/offline.png",
		PlaybackDir:  "/some/frames",
		NamesFile:    "/etc/birdcam/names.csv",
		WindowStart:  "05:30",
		WindowEnd:    "21:15",
		ReportEvents: true,
		Motion: motion.MotionConfig{
			WaitSecs:       5,
			BaseUpdateSecs: 30,
			MinArea:        250,
			SearchWidth:    320,
			DeltaThresh:    25,
		},
		Throttler: throttle.ThrottlerConfig{
			ApplyThrottling: true,
			BucketSize:      5,
			RefillInterval:  10 * time.Minute,
		},
	}, *conf)
}

func TestPartialMotionConfigKeepsDefaults(t *testing.T) {
	conf, err := ParseConfig([]byte("motion:\n    wait-secs: 2\n"))
	require.NoError(t, err)

	expected := motion.DefaultMotionConfig()
	expected.WaitSecs = 2
	assert.Equal(t, expected, conf.Motion)
}

func TestInvalidConfig(t *testing.T) {
	for _, buf := range []string{
		"output-dir: \"\"\n",
		"device: -1\n",
		"window-start: \"05:30\"\n",
		"window-end: \"21:15\"\n",
		"motion:\n    search-width: 0\n",
		"throttler:\n    apply-throttling: true\n    bucket-size: 0\n",
		"motion: [1, 2]\n",
	} {
		_, err := ParseConfig([]byte(buf))
		assert.Error(t, err, buf)
	}
}

func TestParseConfigFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "birdcam.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("output-dir: /tmp/birds\n"), 0644))

	conf, err := ParseConfigFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/birds", conf.OutputDir)

	_, err = ParseConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNoWindowConfigured(t *testing.T) {
	conf, err := ParseConfig([]byte(""))
	require.NoError(t, err)
	loc := location.DefaultLocationConfig()

	win, err := newWindow(conf, &loc)
	require.NoError(t, err)
	assert.Nil(t, win)
}

func TestWindowFromConfig(t *testing.T) {
	conf, err := ParseConfig([]byte("window-start: \"20:00\"\nwindow-end: \"20:00\"\n"))
	require.NoError(t, err)
	loc := location.DefaultLocationConfig()

	win, err := newWindow(conf, &loc)
	require.NoError(t, err)
	require.NotNil(t, win)
	assert.True(t, win.Active())
}
