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
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/TheCacophonyProject/window"
	arg "github.com/alexflint/go-arg"
	"github.com/coreos/go-systemd/daemon"

	"github.com/TheCacophonyProject/birdcam/camera"
	"github.com/TheCacophonyProject/birdcam/capture"
	"github.com/TheCacophonyProject/birdcam/location"
	"github.com/TheCacophonyProject/birdcam/motion"
	"github.com/TheCacophonyProject/birdcam/naming"
	"github.com/TheCacophonyProject/birdcam/throttle"
)

var version = "<not set>"

type Args struct {
	ConfigFile   string `arg:"-c,--config" help:"path to configuration file"`
	LocationFile string `arg:"-l,--location" help:"path to location file"`
	Timestamps   bool   `arg:"-t,--timestamps" help:"include timestamps in log output"`
	Verbose      bool   `arg:"-v,--verbose" help:"make logging more verbose"`
	DryRun       bool   `arg:"--dry-run" help:"detect motion but don't save any captures"`
}

func (Args) Version() string {
	return version
}

func procArgs() Args {
	var args Args
	args.ConfigFile = "/etc/birdcam.yaml"
	args.LocationFile = location.DefaultLocationFile()
	arg.MustParse(&args)
	return args
}

func main() {
	err := runMain()
	if err != nil {
		log.Fatal(err)
	}
}

func runMain() error {
	args := procArgs()

	if !args.Timestamps {
		log.SetFlags(0) // Removes default timestamp flag
	}

	log.Printf("running version: %s", version)
	conf, err := ParseConfigFile(args.ConfigFile)
	if err != nil {
		return err
	}
	conf.Motion.Verbose = args.Verbose
	logConfig(conf)

	loc, err := location.ParseConfigFile(args.LocationFile)
	if err != nil {
		return err
	}
	win, err := newWindow(conf, loc)
	if err != nil {
		return err
	}

	catalog, err := naming.Load(conf.NamesFile)
	if err != nil {
		return err
	}
	log.Printf("loaded %d capture names", catalog.Len())

	log.Println("deleting temp files")
	if err := capture.DeleteTempFiles(conf.OutputDir); err != nil {
		return err
	}
	deleteSnapshot(conf.OutputDir)

	store := newStore(conf, args.DryRun)
	debouncer := capture.NewDebouncer(conf.Motion.WaitTime(), store, catalog)

	source, err := camera.Open(conf.Camera())
	if err != nil {
		return err
	}
	defer source.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := &captureReporter{reportEvents: conf.ReportEvents}
	processor := motion.NewMotionProcessor(conf.Motion, source, debouncer, win, reporter)

	log.Println("starting d-bus service")
	if err := startService(newSnapshotter(conf.OutputDir, processor.RecentFrame), stop); err != nil {
		return err
	}

	daemon.SdNotify(false, daemon.SdNotifyReady)
	log.Print("processing frames")
	err = processor.Run(ctx)
	log.Printf("stopped after %d captures", debouncer.Count())
	return err
}

// newWindow returns nil when no capture window is configured.
func newWindow(conf *Config, loc *location.LocationConfig) (*window.Window, error) {
	if conf.WindowStart == "" && conf.WindowEnd == "" {
		return nil, nil
	}
	return window.New(conf.WindowStart, conf.WindowEnd, float64(loc.Latitude), float64(loc.Longitude))
}

func newStore(conf *Config, dryRun bool) capture.Store {
	var store capture.Store
	if dryRun {
		log.Print("dry run, captures will not be saved")
		store = new(capture.NoWriteStore)
	} else {
		store = capture.NewDirStore(conf.OutputDir, conf.MinDiskSpace)
	}
	if conf.Throttler.ApplyThrottling {
		var listener throttle.ThrottledEventListener
		if conf.ReportEvents {
			listener = new(throttle.ThrottledEventRecorder)
		}
		store = throttle.NewThrottledStore(store, &conf.Throttler, listener)
	}
	return store
}

func logConfig(conf *Config) {
	log.Printf("output dir: %s", conf.OutputDir)
	log.Printf("minimum disk space: %dMB", conf.MinDiskSpace)
	if conf.PlaybackDir != "" {
		log.Printf("playback dir: %s", conf.PlaybackDir)
	} else {
		log.Printf("video device: %d", conf.Device)
	}
	if conf.Placeholder != "" {
		log.Printf("placeholder image: %s", conf.Placeholder)
	}
	if conf.NamesFile != "" {
		log.Printf("names file: %s", conf.NamesFile)
	}
	log.Printf("motion: %+v", conf.Motion)
	log.Printf("throttler: %+v", conf.Throttler)
	if conf.WindowStart != "" {
		log.Printf("capture window: %s to %s", conf.WindowStart, conf.WindowEnd)
	}
}
