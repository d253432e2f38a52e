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

// Package events queues events with the Cacophony event reporter over
// the dbus system bus.
package events

import (
	"encoding/json"
	"time"

	"github.com/godbus/dbus"
	"github.com/pkg/errors"
)

const (
	dbusDest   = "org.cacophony.Events"
	dbusPath   = "/org/cacophony/Events"
	dbusMethod = "org.cacophony.Events.Queue"
)

// Details returns the JSON payload for an event of the given type.
func Details(eventType string, fields map[string]interface{}) ([]byte, error) {
	description := map[string]interface{}{
		"type": eventType,
	}
	if len(fields) > 0 {
		description["details"] = fields
	}
	return json.Marshal(map[string]interface{}{
		"description": description,
	})
}

// Queue hands an event to the event reporter.
func Queue(eventType string, fields map[string]interface{}, ts time.Time) error {
	detailsJSON, err := Details(eventType, fields)
	if err != nil {
		return errors.Wrap(err, "encoding event")
	}

	conn, err := dbus.SystemBus()
	if err != nil {
		return errors.Wrap(err, "connecting to system bus")
	}

	obj := conn.Object(dbusDest, dbusPath)
	call := obj.Call(dbusMethod, 0, detailsJSON, ts.UnixNano())
	return call.Err
}
