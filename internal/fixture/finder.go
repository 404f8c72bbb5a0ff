package fixture

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// DefaultInclude matches fixture source files by base name. Recorded
// parser outputs and other sidecar files living next to the sources do
// not match.
var DefaultInclude = []string{"*.src", "*.src.*"}

// Finder lists the fixture files of a corpus.
type Finder interface {
	// List returns every fixture path under prefix, relative to the corpus
	// root and sorted. A prefix that does not exist yields fs.ErrNotExist.
	List(prefix string) ([]string, error)
}

// DirFinder walks an fs.FS rooted at the corpus directory.
type DirFinder struct {
	FS      fs.FS
	Include []string // base-name patterns (path.Match syntax)
}

// NewDirFinder returns a finder over fsys. With no include patterns,
// DefaultInclude is used.
func NewDirFinder(fsys fs.FS, include ...string) *DirFinder {
	if len(include) == 0 {
		include = DefaultInclude
	}
	return &DirFinder{FS: fsys, Include: include}
}

// List walks prefix and returns the fixture files below it.
// fs.WalkDir visits entries in lexical order, so the result is sorted.
func (f *DirFinder) List(prefix string) ([]string, error) {
	info, err := fs.Stat(f.FS, prefix)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", prefix)
	}

	var files []string
	err = fs.WalkDir(f.FS, prefix, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ok, err := f.matches(path.Base(p))
		if err != nil {
			return err
		}
		if ok {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (f *DirFinder) matches(base string) (bool, error) {
	for _, pattern := range f.Include {
		ok, err := path.Match(pattern, base)
		if err != nil {
			return false, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// isNotExist reports whether err means the prefix is simply absent.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
