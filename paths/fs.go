package paths

import (
	"io"
	"os"
	"path/filepath"
)

// DataDirEnv names the environment variable overriding the data directory
// search path. It may hold several directories separated by the platform's
// list separator.
const DataDirEnv = "WAN_DATA_PATH"

func getPossiblePathDirs() []string {
	dirs := []string{".", "datafiles"}
	if env := os.Getenv(DataDirEnv); env != "" {
		dirs = append(filepath.SplitList(env), dirs...)
	}
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		dirs = append(dirs, exeDir, filepath.Join(exeDir, "datafiles"))
	}
	return dirs
}

func getPossiblePaths(fileName string) []string {
	dirs := getPossiblePathDirs()
	paths := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		paths = append(paths, filepath.Join(dir, fileName))
	}
	return paths
}

func pathExists(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

func openFS(fileName string) (interface {
	io.ReadCloser
	io.Seeker
}, error) {
	return os.Open(fileName)
}
