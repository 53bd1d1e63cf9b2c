package paths

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var (
	cache     map[string]*bytes.Buffer
	cacheLock sync.Mutex
)

// IsURL reports whether the passed name should be fetched over HTTP rather
// than looked up on disk.
func IsURL(fileName string) bool {
	return strings.HasPrefix(fileName, "http://") || strings.HasPrefix(fileName, "https://")
}

// OpenURL fetches the passed URL into an in-memory buffer and returns a
// seekable reader over it. Fetched files are cached for the process
// lifetime; archives get decoded with lots of small seeks, so a streaming
// body would not do.
func OpenURL(fileName string) (interface {
	io.ReadCloser
	io.Seeker
}, error) {
	cacheLock.Lock()
	defer cacheLock.Unlock()

	if cache == nil {
		cache = make(map[string]*bytes.Buffer)
	}
	if buf, ok := cache[fileName]; ok {
		glog.V(1).Infof("paths.OpenURL(%q): returning reader for cached buffer", fileName)
		return &bytesReaderWithDummyClose{bytes.NewReader(buf.Bytes())}, nil
	}

	glog.V(1).Infof("paths.OpenURL(%q): fetching", fileName)
	response, err := http.Get(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %q", fileName)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		e := os.ErrInvalid
		if response.StatusCode == http.StatusNotFound {
			e = os.ErrNotExist
		}
		return nil, errors.Wrapf(e, "fetching %q: http response.StatusCode=%v, want 200", fileName, response.StatusCode)
	}

	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, response.Body); err != nil {
		return nil, errors.Wrap(err, "copying response to seekable buffer")
	}

	cache[fileName] = buf
	return &bytesReaderWithDummyClose{bytes.NewReader(buf.Bytes())}, nil
}

type bytesReaderWithDummyClose struct {
	*bytes.Reader
}

func (bytesReaderWithDummyClose) Close() error {
	return nil
}
