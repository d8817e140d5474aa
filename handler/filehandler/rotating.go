package filehandler

import (
	"io"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotatingConfig holds configuration for the rotating file handler.
// Rotating files are always appended to; Mode and Delay are ignored.
type RotatingConfig struct {
	Config
	// MaxSizeMB is the size in megabytes that triggers rotation (default: 100)
	MaxSizeMB int
	// MaxAge removes backups older than this, rounded up to whole days
	// (0 = keep regardless of age)
	MaxAge time.Duration
	// MaxBackups is the number of old files to retain (0 = keep all)
	MaxBackups int
	// LocalTime names backups with local instead of UTC timestamps
	LocalTime bool
	// Compress gzips rotated files
	Compress bool
}

// RotatingFileHandler is a FileHandler whose output is rotated by size,
// with old backups pruned by count and age.
type RotatingFileHandler struct {
	*FileHandler
	rotator *lumberjack.Logger
}

// NewRotating creates a rotating file handler.
func NewRotating(cfg RotatingConfig) (*RotatingFileHandler, error) {
	fh, err := newFileHandler(cfg.Config)
	if err != nil {
		return nil, err
	}
	lj := &lumberjack.Logger{
		Filename:   fh.filename,
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     ageInDays(cfg.MaxAge),
		MaxBackups: cfg.MaxBackups,
		LocalTime:  cfg.LocalTime,
		Compress:   cfg.Compress,
	}
	fh.open = func(bool) (io.WriteCloser, error) { return lj, nil }
	return &RotatingFileHandler{FileHandler: fh, rotator: lj}, nil
}

func ageInDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	day := 24 * time.Hour
	return int((d + day - 1) / day)
}

// Rotate closes the current file, moves it aside and starts a new one.
func (h *RotatingFileHandler) Rotate() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rotator.Rotate()
}
