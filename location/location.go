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

// Package location holds the device position used to work out sunrise
// and sunset relative capture windows.
package location

import (
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

const (
	defaultConfig = "/etc/cacophony/location.yaml"
	maxLatitude   = 90
	maxLongitude  = 180

	//Christchurch
	defaultLatitude  = -43.5321
	defaultLongitude = 172.6362
)

type LocationConfig struct {
	Latitude  float32 `yaml:"latitude"`
	Longitude float32 `yaml:"longitude"`
}

func DefaultLocationFile() string {
	return defaultConfig
}

func DefaultLocationConfig() LocationConfig {
	return LocationConfig{
		Latitude:  defaultLatitude,
		Longitude: defaultLongitude,
	}
}

func (conf *LocationConfig) IsLocationEmpty() bool {
	return conf.Latitude == 0 && conf.Longitude == 0
}

// ParseConfig reads the location from yaml bytes. A missing or (0,0)
// location falls back to the default.
func ParseConfig(buf []byte) (*LocationConfig, error) {
	var conf LocationConfig
	if err := yaml.Unmarshal(buf, &conf); err != nil {
		return nil, errors.Wrap(err, "parsing location")
	}
	if conf.IsLocationEmpty() {
		conf = DefaultLocationConfig()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// ParseConfigFile is ParseConfig for a file. A missing file gives the
// default location.
func ParseConfigFile(filename string) (*LocationConfig, error) {
	buf, err := os.ReadFile(filename)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return ParseConfig(buf)
}

func (conf *LocationConfig) Validate() error {
	if conf.Latitude < -maxLatitude || conf.Latitude > maxLatitude {
		return errors.New("latitude outside of normal range")
	}
	if conf.Longitude < -maxLongitude || conf.Longitude > maxLongitude {
		return errors.New("longitude outside of normal range")
	}
	return nil
}
