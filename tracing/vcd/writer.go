// Package vcd writes the per-cycle signals of a cache hierarchy as a
// value change dump that waveform viewers can open.
package vcd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/xid"
	"github.com/sarchlab/cachesim/mem/cache/hierarchy"
	"github.com/sarchlab/cachesim/sim"
	"github.com/tebeka/atexit"
)

type variable struct {
	id    string
	name  string
	width int
	value func(s hierarchy.Signals) uint64
}

func bit(b bool) uint64 {
	if b {
		return 1
	}

	return 0
}

var variables = []variable{
	{"#", "addr", 32, func(s hierarchy.Signals) uint64 { return uint64(s.Addr) }},
	{"$", "wdata", 32, func(s hierarchy.Signals) uint64 { return uint64(s.WData) }},
	{"%", "rdata", 32, func(s hierarchy.Signals) uint64 { return uint64(s.RData) }},
	{"&", "r", 1, func(s hierarchy.Signals) uint64 { return bit(s.Read) }},
	{"'", "w", 1, func(s hierarchy.Signals) uint64 { return bit(s.Write) }},
	{"(", "ready", 1, func(s hierarchy.Signals) uint64 { return bit(s.Ready) }},
	{")", "miss", 1, func(s hierarchy.Signals) uint64 { return bit(s.Miss) }},
}

const clockID = "!"

// Writer is a hook that records hierarchy.Signals at sim.HookPosSignals.
// Each cycle spans two time units, the clock being high in the first.
type Writer struct {
	lock     sync.Mutex
	out      *bufio.Writer
	closer   io.Closer
	filename string
	scope    string

	headerWritten bool
	last          []uint64
	err           error
}

// NewWriter creates a Writer that writes into w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		out:   bufio.NewWriter(w),
		scope: "cachesim",
	}
}

// Create creates the file at path and returns a Writer into it. A ".vcd"
// extension is appended when missing. An empty path picks a unique name.
// The file is flushed and closed when the program exits through atexit.
func Create(path string) (*Writer, error) {
	if path == "" {
		path = "cachesim_" + xid.New().String()
	}

	if !strings.HasSuffix(path, ".vcd") {
		path += ".vcd"
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := NewWriter(f)
	w.closer = f
	w.filename = path

	atexit.Register(func() {
		_ = w.Close()
	})

	return w, nil
}

// Filename returns the name of the file written, empty when the Writer was
// not created by Create.
func (w *Writer) Filename() string {
	return w.filename
}

// WithScope sets the module name that encloses the variables.
func (w *Writer) WithScope(scope string) *Writer {
	w.scope = scope
	return w
}

// Func records the signals carried by the hook context.
func (w *Writer) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosSignals {
		return
	}

	signals, ok := ctx.Item.(hierarchy.Signals)
	if !ok {
		return
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	if w.err != nil {
		return
	}

	if !w.headerWritten {
		w.writeHeader()
	}

	w.writeCycle(uint64(ctx.Now), signals)
}

func (w *Writer) writeHeader() {
	w.printf("$timescale 1 ns $end\n")
	w.printf("$scope module %s $end\n", w.scope)
	w.printf("$var wire 1 %s clk $end\n", clockID)

	for _, v := range variables {
		w.printf("$var wire %d %s %s $end\n", v.width, v.id, v.name)
	}

	w.printf("$upscope $end\n")
	w.printf("$enddefinitions $end\n")

	w.headerWritten = true
}

func (w *Writer) writeCycle(cycle uint64, s hierarchy.Signals) {
	w.printf("#%d\n", 2*cycle)

	if w.last == nil {
		w.printf("$dumpvars\n")
	}

	w.printf("1%s\n", clockID)

	for i, v := range variables {
		value := v.value(s)
		if w.last != nil && w.last[i] == value {
			continue
		}

		w.writeValue(v, value)
	}

	if w.last == nil {
		w.printf("$end\n")
		w.last = make([]uint64, len(variables))
	}

	for i, v := range variables {
		w.last[i] = v.value(s)
	}

	w.printf("#%d\n", 2*cycle+1)
	w.printf("0%s\n", clockID)
}

func (w *Writer) writeValue(v variable, value uint64) {
	if v.width == 1 {
		w.printf("%d%s\n", value, v.id)
		return
	}

	w.printf("b%s %s\n", strconv.FormatUint(value, 2), v.id)
}

func (w *Writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}

	_, w.err = fmt.Fprintf(w.out, format, args...)
}

// Flush writes the buffered changes out.
func (w *Writer) Flush() error {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.err != nil {
		return w.err
	}

	w.err = w.out.Flush()

	return w.err
}

// Close flushes the writer and closes the file opened by Create. Closing
// twice is a no-op.
func (w *Writer) Close() error {
	err := w.Flush()

	w.lock.Lock()
	defer w.lock.Unlock()

	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}

		w.closer = nil
	}

	return err
}
