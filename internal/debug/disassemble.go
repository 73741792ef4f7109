// Package debug implements loxgo's two DEBUG_* build flags: a
// disassembler that lists a compiled chunk's instructions
// (DEBUG_PRINT_CODE) and an execution tracer that prints each
// dispatched instruction and the value stack before it runs
// (DEBUG_TRACE_EXECUTION). Neither is on the hot path — both are
// gated by internal/config flags that default off.
package debug

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/kristofer/loxgo/internal/chunk"
	"github.com/kristofer/loxgo/internal/value"
)

func itoa(n int) string { return strconv.Itoa(n) }

// Disassemble renders every instruction in c as a table: offset, line
// number, opcode name, and decoded operand (constant index resolved to
// its printed value, jump offsets resolved to absolute targets).
func Disassemble(w io.Writer, c *value.Chunk, name string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"OFFSET", "LINE", "OP", "OPERAND"})
	table.SetAutoWrapText(false)

	offset := 0
	for offset < len(c.Code) {
		next, row := disassembleInstruction(c, offset)
		table.Append(row)
		if chunk.OpCode(c.Code[offset]) == chunk.OpClosure {
			for _, capture := range closureCaptureRows(c, offset) {
				table.Append(capture)
			}
		}
		offset = next
	}

	io.WriteString(w, "== "+name+" ==\n")
	table.Render()
}

func disassembleInstruction(c *value.Chunk, offset int) (int, []string) {
	op := chunk.OpCode(c.Code[offset])
	line := c.Lines[offset]
	lineCol := lineLabel(c, offset, line)

	if op == chunk.OpClosure {
		return disassembleClosure(c, offset, lineCol)
	}

	switch op.ArgWidth() {
	case 0:
		return offset + 1, []string{itoa(offset), lineCol, op.String(), ""}
	case 1:
		arg := c.Code[offset+1]
		operand := itoa(int(arg))
		if isConstantOp(op) {
			operand = itoa(int(arg)) + " (" + formatConstant(c.Constants[arg]) + ")"
		}
		return offset + 2, []string{itoa(offset), lineCol, op.String(), operand}
	case 2:
		hi, lo := c.Code[offset+1], c.Code[offset+2]
		jump := int(hi)<<8 | int(lo)
		target := offset + 3 + jump
		if op == chunk.OpLoop {
			target = offset + 3 - jump
		}
		return offset + 3, []string{itoa(offset), lineCol, op.String(), "-> " + itoa(target)}
	default:
		return offset + 1, []string{itoa(offset), lineCol, op.String(), "?"}
	}
}

// disassembleClosure decodes OP_CLOSURE, whose true width isn't in
// ArgWidth's table: one function-constant byte, then a further
// upvalue_count pairs of (isLocal, index) bytes, where upvalue_count is
// only known by reading the function constant itself (clox's debug.c
// does the same lookup). The main row looks like any other
// constant-indexed instruction; closureCaptureRows prints the capture
// pairs as their own follow-on rows.
func disassembleClosure(c *value.Chunk, offset int, lineCol string) (int, []string) {
	constIdx := c.Code[offset+1]
	fn := c.Constants[constIdx].(*value.ObjFunction)
	operand := itoa(int(constIdx)) + " (" + formatConstant(fn) + ")"
	next := offset + 2 + 2*fn.UpvalueCount
	return next, []string{itoa(offset), lineCol, chunk.OpClosure.String(), operand}
}

// closureCaptureRows renders each (isLocal, index) pair following an
// OP_CLOSURE's function-constant byte as its own table row.
func closureCaptureRows(c *value.Chunk, offset int) [][]string {
	constIdx := c.Code[offset+1]
	fn := c.Constants[constIdx].(*value.ObjFunction)

	rows := make([][]string, 0, fn.UpvalueCount)
	pos := offset + 2
	for i := 0; i < fn.UpvalueCount; i++ {
		isLocal, index := c.Code[pos], c.Code[pos+1]
		kind := "upvalue"
		if isLocal != 0 {
			kind = "local"
		}
		rows = append(rows, []string{itoa(pos), "   |", "", kind + " " + itoa(int(index))})
		pos += 2
	}
	return rows
}

// isConstantOp reports whether op's 1-byte operand is a constant-pool
// index worth resolving and printing. OP_CLOSURE also takes a leading
// constant index but never reaches here — disassembleInstruction routes
// it to disassembleClosure before this switch runs.
func isConstantOp(op chunk.OpCode) bool {
	switch op {
	case chunk.OpConstant, chunk.OpGetGlobal, chunk.OpDefineGlobal, chunk.OpSetGlobal,
		chunk.OpGetProperty, chunk.OpSetProperty, chunk.OpClass, chunk.OpMethod:
		return true
	default:
		return false
	}
}

// lineLabel prints "|" for an instruction sharing its predecessor's
// source line, matching original_source's disassembleChunk convention
// of only repeating the line number when it changes.
func lineLabel(c *value.Chunk, offset, line int) string {
	if offset > 0 && c.Lines[offset-1] == line {
		return "   |"
	}
	return itoa(line)
}

func formatConstant(v value.Value) string {
	return value.Format(v)
}
