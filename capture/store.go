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

package capture

import (
	"image"
	"image/jpeg"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"syscall"

	"github.com/pkg/errors"
)

const (
	tempExt     = ".temp"
	jpegQuality = 90
)

var (
	ErrNotEnoughSpace = errors.New("not enough free disk space to save capture")
	ErrThrottled      = errors.New("capture throttled")
)

// Store persists capture images.
type Store interface {
	CheckCanWrite() error
	Write(name string, img image.Image) (string, error)
}

// NoWriteStore accepts every capture and writes nothing.
type NoWriteStore struct{}

func (*NoWriteStore) CheckCanWrite() error { return nil }
func (*NoWriteStore) Write(name string, _ image.Image) (string, error) {
	return name, nil
}

// DirStore writes captures as JPEG files into a directory, creating the
// directory when needed. Files are written under a temporary name and
// renamed once complete so a partial file is never visible.
type DirStore struct {
	dir          string
	minDiskSpace uint64
}

// NewDirStore returns a store writing to dir. minDiskSpaceMB of zero
// disables the free space check.
func NewDirStore(dir string, minDiskSpaceMB uint64) *DirStore {
	return &DirStore{
		dir:          dir,
		minDiskSpace: minDiskSpaceMB,
	}
}

func (s *DirStore) Dir() string {
	return s.dir
}

func (s *DirStore) CheckCanWrite() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrapf(err, "creating output directory %s", s.dir)
	}
	if s.minDiskSpace == 0 {
		return nil
	}
	enough, err := checkDiskSpace(s.minDiskSpace, s.dir)
	if err != nil {
		return errors.Wrap(err, "checking disk space")
	}
	if !enough {
		return ErrNotEnoughSpace
	}
	return nil
}

func (s *DirStore) Write(name string, img image.Image) (string, error) {
	if err := s.CheckCanWrite(); err != nil {
		return "", err
	}
	finalName := filepath.Join(s.dir, name)
	tempName := finalName + tempExt

	f, err := os.Create(tempName)
	if err != nil {
		return "", errors.Wrap(err, "creating capture file")
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		f.Close()
		os.Remove(tempName)
		return "", errors.Wrap(err, "encoding capture")
	}
	if err := f.Close(); err != nil {
		os.Remove(tempName)
		return "", errors.Wrap(err, "closing capture file")
	}
	if err := os.Rename(tempName, finalName); err != nil {
		os.Remove(tempName)
		return "", errors.Wrap(err, "renaming capture file")
	}
	return finalName, nil
}

var reTempName = regexp.MustCompile(`\.jpg` + regexp.QuoteMeta(tempExt) + `$`)

// DeleteTempFiles removes captures left half written by a previous run.
func DeleteTempFiles(dir string) error {
	matches, _ := filepath.Glob(filepath.Join(dir, "*"+tempExt))
	for _, filename := range matches {
		if !reTempName.MatchString(filename) {
			continue
		}
		log.Printf("deleting temp file %s", filename)
		if err := os.Remove(filename); err != nil {
			return err
		}
	}
	return nil
}

func checkDiskSpace(mb uint64, dir string) (bool, error) {
	var fs syscall.Statfs_t
	if err := syscall.Statfs(dir, &fs); err != nil {
		return false, err
	}
	return fs.Bavail*uint64(fs.Bsize)/1024/1024 >= mb, nil
}
