package debug

import (
	"bufio"
	"fmt"
	"os"
)

// TraceWriter appends one line per CPU step to a file: the program
// counter, the opcode byte fetched there, and the cycles it cost. This
// is the advisory per-step trace the spec allows for debugging; it is
// never consulted by the core itself.
type TraceWriter struct {
	f *os.File
	w *bufio.Writer
}

// NewTraceWriter opens (truncating) the file at path for trace output.
func NewTraceWriter(path string) (*TraceWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("debug: cannot open trace file %q: %w", path, err)
	}
	return &TraceWriter{f: f, w: bufio.NewWriter(f)}, nil
}

// Step records one executed instruction.
func (t *TraceWriter) Step(pc uint16, opcode uint8, cycles uint32) {
	fmt.Fprintf(t.w, "PC=%04X OP=%02X CYC=%d\n", pc, opcode, cycles)
}

// Close flushes buffered output and closes the underlying file.
func (t *TraceWriter) Close() error {
	if err := t.w.Flush(); err != nil {
		t.f.Close()
		return err
	}
	return t.f.Close()
}
