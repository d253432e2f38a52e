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

// Package naming picks labels for captured snapshots from a fixed
// catalog of names.
package naming

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"io"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

//go:embed names.csv
var defaultNames []byte

// Catalog hands out names chosen uniformly at random.
type Catalog struct {
	mu    sync.Mutex
	names []string
	rand  *rand.Rand
}

// Load reads a catalog from a CSV file. The first column of each row is
// used as a name. An empty filename loads the built in catalog.
func Load(filename string) (*Catalog, error) {
	if filename == "" {
		return Parse(bytes.NewReader(defaultNames))
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening names file")
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	var names []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading names")
		}
		if len(row) == 0 {
			continue
		}
		if name := strings.TrimSpace(row[0]); name != "" {
			names = append(names, name)
		}
	}
	return New(names, rand.NewSource(time.Now().UnixNano()))
}

func New(names []string, src rand.Source) (*Catalog, error) {
	if len(names) == 0 {
		return nil, errors.New("names catalog is empty")
	}
	return &Catalog{
		names: names,
		rand:  rand.New(src),
	}, nil
}

// Label returns a name from the catalog.
func (c *Catalog) Label() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.names[c.rand.Intn(len(c.names))]
}

func (c *Catalog) Len() int {
	return len(c.names)
}
