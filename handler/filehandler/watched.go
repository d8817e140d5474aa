package filehandler

import (
	"io"
	"os"
)

// WatchedFileHandler is a FileHandler that notices when its file is
// removed or renamed, for example by an external log rotation tool, and
// reopens the path before the next write.
//
// Every write first compares the open handle with the file currently at
// the path. A record is never appended to a file that has been moved
// away, however soon after the rotation it is written.
type WatchedFileHandler struct {
	*FileHandler
}

// NewWatched creates a watched file handler.
func NewWatched(cfg Config) (*WatchedFileHandler, error) {
	fh, err := newFileHandler(cfg)
	if err != nil {
		return nil, err
	}
	h := &WatchedFileHandler{FileHandler: fh}
	fh.stale = h.changedOnDisk

	if cfg.Delay {
		return h, nil
	}
	fh.mu.Lock()
	err = fh.ensureOpen()
	fh.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return h, nil
}

// changedOnDisk reports whether w and the path refer to different files.
func (h *WatchedFileHandler) changedOnDisk(w io.WriteCloser) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	pathInfo, err := os.Stat(h.filename)
	if err != nil {
		return true
	}
	openInfo, err := f.Stat()
	if err != nil {
		return true
	}
	return !os.SameFile(pathInfo, openInfo)
}
