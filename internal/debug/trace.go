package debug

import (
	"fmt"
	"io"
	"strings"

	"github.com/kristofer/loxgo/internal/value"
)

// TraceInstruction prints the value stack followed by the single
// instruction about to execute at offset, the shape
// DEBUG_TRACE_EXECUTION calls for: a snapshot of machine state just
// before each dispatch, not after.
func TraceInstruction(w io.Writer, c *value.Chunk, offset int, stack []value.Value) {
	var b strings.Builder
	b.WriteString("          ")
	for _, v := range stack {
		fmt.Fprintf(&b, "[ %s ]", value.Format(v))
	}
	fmt.Fprintln(w, b.String())

	_, row := disassembleInstruction(c, offset)
	fmt.Fprintf(w, "%-6s %-6s %-18s %s\n", row[0], row[1], row[2], row[3])
}
