// Package paths locates sprite archive files by short name, so commands can
// refer to "mon_0025.wan" without caring where the data directory lives.
package paths

import (
	"io"

	"github.com/golang/glog"
)

// Find locates the passed datafile shortname and returns an absolute or
// relative path to find the datafile at.
//
// For example, for "mon_0025.wan" it may return "datafiles/mon_0025.wan".
func Find(fileName string) string {
	for _, path := range getPossiblePaths(fileName) {
		if pathExists(path) {
			glog.Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}

	return ""
}

// Open locates the passed file in the same locations that Find would look,
// and opens it. If the file is nowhere to be found, the shortname itself is
// tried as a path before giving up.
func Open(fileName string) (interface {
	io.ReadCloser
	io.Seeker
}, error) {
	if found := Find(fileName); found != "" {
		fileName = found
	}
	return NoFindOpen(fileName)
}

// NoFindOpen opens the passed path directly, without searching the data
// directories first.
func NoFindOpen(fileName string) (interface {
	io.ReadCloser
	io.Seeker
}, error) {
	return openFS(fileName)
}
