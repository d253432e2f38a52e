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

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/TheCacophonyProject/birdcam/camera"
	"github.com/TheCacophonyProject/birdcam/motion"
	"github.com/TheCacophonyProject/birdcam/throttle"
)

type Config struct {
	OutputDir    string                   `yaml:"output-dir"`
	MinDiskSpace uint64                   `yaml:"min-disk-space-mb"`
	Device       int                      `yaml:"device"`
	Placeholder  string                   `yaml:"placeholder"`
	PlaybackDir  string                   `yaml:"playback-dir"`
	NamesFile    string                   `yaml:"names-file"`
	WindowStart  string                   `yaml:"window-start"`
	WindowEnd    string                   `yaml:"window-end"`
	ReportEvents bool                     `yaml:"report-events"`
	Motion       motion.MotionConfig      `yaml:"motion"`
	Throttler    throttle.ThrottlerConfig `yaml:"throttler"`
}

func (conf *Config) Validate() error {
	if conf.OutputDir == "" {
		return errors.New("output-dir must be set")
	}
	if conf.WindowStart != "" && conf.WindowEnd == "" {
		return errors.New("window-start is set but window-end isn't")
	}
	if conf.WindowEnd != "" && conf.WindowStart == "" {
		return errors.New("window-end is set but window-start isn't")
	}
	if conf.Device < 0 {
		return errors.New("device can't be negative")
	}
	if err := conf.Motion.Validate(); err != nil {
		return err
	}
	if err := conf.Throttler.Validate(); err != nil {
		return err
	}
	return nil
}

func (conf *Config) Camera() camera.Config {
	return camera.Config{
		Device:      conf.Device,
		Placeholder: conf.Placeholder,
		PlaybackDir: conf.PlaybackDir,
	}
}

var defaultConfig = Config{
	OutputDir:    "/var/spool/birdcam",
	MinDiskSpace: 200,
	Motion:       motion.DefaultMotionConfig(),
	Throttler:    throttle.DefaultThrottlerConfig(),
}

func ParseConfigFile(filename string) (*Config, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConfig(buf)
}

func ParseConfig(buf []byte) (*Config, error) {
	conf := defaultConfig
	if err := yaml.Unmarshal(buf, &conf); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}
