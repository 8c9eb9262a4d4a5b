// Package fsutil provides file system utility functions.
package fsutil

import (
	"os"
	"time"
)

// Exists reports whether path names an existing regular file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ModTime returns the modification time of path and whether the file exists.
func ModTime(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Stale reports whether the artifact at objPath must be rebuilt from
// srcPath. An artifact is stale when it does not exist or when its
// modification time is strictly older than the source's. Equal timestamps
// count as fresh, so a false-fresh can only occur if the source is modified
// within the filesystem's timestamp resolution after a build.
func Stale(srcPath, objPath string) bool {
	objTime, ok := ModTime(objPath)
	if !ok {
		return true
	}
	srcTime, ok := ModTime(srcPath)
	if !ok {
		// Source vanished; nothing sensible to rebuild from. Treat the
		// existing artifact as current.
		return false
	}
	return objTime.Before(srcTime)
}

// Size returns the byte size of path, or 0 if it cannot be read.
func Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
