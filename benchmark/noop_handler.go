package benchmark

import (
	"github.com/philipp01105/tracelog/core"
	"github.com/philipp01105/tracelog/handler"
)

// noopHandler measures the logger without any formatting or output. The
// entry is returned to the pool by the logger.
type noopHandler struct{}

func newNoopHandler() handler.Handler {
	return &noopHandler{}
}

func (h *noopHandler) Handle(e *core.Entry) error {
	_ = len(e.Message) + len(e.Context)
	return nil
}

func (h *noopHandler) Close() error {
	return nil
}
