package hierarchy

import (
	"log"

	"github.com/sarchlab/cachesim/sim"
)

// RequestLogger is a hook that prints when requests start, which level
// serves them, and when they end.
type RequestLogger struct {
	sim.LogHookBase
}

// NewRequestLogger returns a new RequestLogger which will write into the
// logger.
func NewRequestLogger(logger *log.Logger) *RequestLogger {
	h := new(RequestLogger)
	h.Logger = logger

	return h
}

// Func writes the request information into the logger.
func (h *RequestLogger) Func(ctx sim.HookCtx) {
	where := ""
	if named, ok := ctx.Domain.(sim.Named); ok {
		where = named.Name()
	}

	switch item := ctx.Item.(type) {
	case sim.TaskStart:
		h.Printf("%d, %s, start %s %s", ctx.Now, where, item.What, item.ID)
	case sim.TaskTag:
		h.Printf("%d, %s, %s %s %s",
			ctx.Now, where, item.What, item.TaskID, item.Detail)
	case sim.TaskEnd:
		h.Printf("%d, %s, end %s", ctx.Now, where, item.ID)
	}
}
