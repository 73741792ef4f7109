package vm

import "github.com/kristofer/loxgo/internal/value"

// FormatValue renders v the way PRINT and the REPL do.
func FormatValue(v value.Value) string {
	return value.Format(v)
}
