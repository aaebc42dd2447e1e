// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
)

const (
	DefaultCacheDirName = ".openrdap"
)

// DiskCache persists Service Registry documents under Dir, one JSON file per
// kind plus a sibling ".etag" file (used for conditional If-None-Match
// requests). Saves are atomic: a temp file is written and renamed over the
// target, so a reader never observes a partially written document.
type DiskCache struct {
	Timeout time.Duration
	Dir     string

	lastLoadedModTime map[string]time.Time
}

func NewDiskCache() *DiskCache {
	d := &DiskCache{
		lastLoadedModTime: make(map[string]time.Time),
		Timeout:           time.Hour * 24,
	}

	dir, err := homedir.Dir()
	if err != nil {
		panic("Can't determine your home directory")
	}

	d.Dir = filepath.Join(dir, DefaultCacheDirName)

	return d
}

func (d *DiskCache) InitDir() error {
	fileInfo, err := os.Stat(d.Dir)
	if err == nil {
		if fileInfo.IsDir() {
			return nil
		}
		return errors.New("cache dir is not a dir")
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(d.Dir, 0775)
	}
	return err
}

func (d *DiskCache) SetTimeout(timeout time.Duration) {
	d.Timeout = timeout
}

// Save atomically writes data to filename via a temp file + rename.
func (d *DiskCache) Save(filename string, data []byte) error {
	if err := d.InitDir(); err != nil {
		return err
	}

	if err := atomicWrite(d.cacheDirPath(filename), data); err != nil {
		return fmt.Errorf("file %s failed to save correctly: %s", filename, err)
	}

	fileModTime, err := d.modTime(filename)
	if err != nil {
		return fmt.Errorf("file %s failed to save correctly: %s", filename, err)
	}
	d.lastLoadedModTime[filename] = fileModTime

	return nil
}

// SaveETag writes the ETag sibling file (<filename>.etag) for filename.
func (d *DiskCache) SaveETag(filename string, etag string) error {
	if etag == "" {
		return nil
	}
	if err := d.InitDir(); err != nil {
		return err
	}
	return atomicWrite(d.cacheDirPath(filename+".etag"), []byte(etag))
}

// ETag returns the previously saved ETag for filename, or "" if absent.
func (d *DiskCache) ETag(filename string) string {
	data, err := os.ReadFile(d.cacheDirPath(filename + ".etag"))
	if err != nil {
		return ""
	}
	return string(data)
}

func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0664); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}

func (d *DiskCache) Load(filename string) ([]byte, error) {
	if err := d.InitDir(); err != nil {
		return nil, err
	}

	fileModTime, err := d.modTime(filename)
	if err != nil {
		return nil, fmt.Errorf("unable to load %s: %s", filename, err)
	}

	data, err := os.ReadFile(d.cacheDirPath(filename))
	if err != nil {
		return nil, err
	}

	d.lastLoadedModTime[filename] = fileModTime

	return data, nil
}

func (d *DiskCache) State(filename string) FileState {
	if err := d.InitDir(); err != nil {
		return Absent
	}

	expiry := time.Now().Add(-d.Timeout)
	state := Absent

	fileModTime, err := d.modTime(filename)
	if err == nil {
		if fileModTime.After(expiry) {
			state = ShouldReload

			lastLoadedModTime, haveLoaded := d.lastLoadedModTime[filename]
			if haveLoaded && !fileModTime.After(lastLoadedModTime) {
				state = Good
			}
		} else {
			state = Expired
		}
	}

	return state
}

func (d *DiskCache) modTime(filename string) (time.Time, error) {
	fileInfo, err := os.Stat(d.cacheDirPath(filename))
	if err != nil {
		return time.Time{}, err
	}
	return fileInfo.ModTime(), nil
}

func (d *DiskCache) cacheDirPath(filename string) string {
	return filepath.Join(d.Dir, filename)
}
