package tz

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Zones is the set of timezone names users may pick from.
type Zones interface {
	Contains(name string) bool
}

type nameSet map[string]struct{}

func (s nameSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// NewZones returns a fixed set, mostly useful in tests.
func NewZones(names ...string) Zones {
	s := make(nameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

var zoneDirs = []string{
	"/usr/share/zoneinfo",
	"/usr/lib/zoneinfo",
	"/usr/share/lib/zoneinfo",
	"/etc/zoneinfo",
}

var (
	systemOnce  sync.Once
	systemZones Zones
)

// SystemZones lists the IANA names of the host tz database. When no
// database directory is found it falls back to names the embedded
// copy in time/tzdata can load.
func SystemZones() Zones {
	systemOnce.Do(func() {
		dirs := zoneDirs
		if z := os.Getenv("ZONEINFO"); z != "" {
			dirs = append([]string{z}, dirs...)
		}
		for _, dir := range dirs {
			if s := scanDir(dir); len(s) > 0 {
				systemZones = s
				return
			}
		}
		systemZones = loadable{}
	})
	return systemZones
}

var tzifMagic = []byte("TZif")

func scanDir(root string) nameSet {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}
	s := nameSet{}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name, _ := filepath.Rel(root, path)
		name = filepath.ToSlash(name)
		if d.IsDir() {
			// posix/ and right/ duplicate the main tree with other leap-second rules
			if name == "posix" || name == "right" {
				return filepath.SkipDir
			}
			return nil
		}
		if name == "localtime" || name == "posixrules" || name == "Factory" {
			return nil
		}
		if isTZif(path) {
			s[name] = struct{}{}
		}
		return nil
	})
	return s
}

func isTZif(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	head := make([]byte, len(tzifMagic))
	if _, err := f.Read(head); err != nil {
		return false
	}
	return bytes.Equal(head, tzifMagic)
}

type loadable struct{}

func (loadable) Contains(name string) bool {
	if name == "" || name == "Local" || strings.HasPrefix(name, "/") || strings.Contains(name, "..") {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}
