package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kristofer/loxgo/internal/chunk"
	"github.com/kristofer/loxgo/internal/value"
)

func buildChunk() *value.Chunk {
	c := value.NewChunk()
	idx := c.AddConstant(value.Number(1))
	c.WriteOp(chunk.OpConstant, 1)
	c.Write(byte(idx), 1)
	c.WriteOp(chunk.OpPrint, 1)
	c.WriteOp(chunk.OpReturn, 2)
	return c
}

func TestDisassembleListsEveryInstruction(t *testing.T) {
	var buf bytes.Buffer
	Disassemble(&buf, buildChunk(), "test chunk")
	output := buf.String()

	require.Contains(t, output, "test chunk")
	require.Contains(t, output, "OP_CONSTANT")
	require.Contains(t, output, "OP_PRINT")
	require.Contains(t, output, "OP_RETURN")
}

func TestDisassembleInstructionResolvesConstantOperand(t *testing.T) {
	next, row := disassembleInstruction(buildChunk(), 0)
	require.Equal(t, 2, next)
	require.Contains(t, row[3], "(1)")
}

func TestDisassembleInstructionZeroOperandAdvancesByOne(t *testing.T) {
	c := buildChunk()
	next, row := disassembleInstruction(c, 2)
	require.Equal(t, 3, next)
	require.Equal(t, "OP_PRINT", row[2])
}

func TestLineLabelRepeatsOnlyOnChange(t *testing.T) {
	c := buildChunk()
	_, row0 := disassembleInstruction(c, 0)
	_, row2 := disassembleInstruction(c, 2)
	require.Equal(t, "1", row0[1])
	require.Equal(t, "   |", row2[1])
}

func TestJumpOperandResolvesForwardTarget(t *testing.T) {
	c := value.NewChunk()
	c.WriteOp(chunk.OpJumpIfFalse, 1)
	c.Write(0, 1)
	c.Write(2, 1)
	_, row := disassembleInstruction(c, 0)
	require.Equal(t, "-> 5", row[3])
}

func TestLoopOperandResolvesBackwardTarget(t *testing.T) {
	c := value.NewChunk()
	c.Write(0, 1) // padding so the loop has somewhere to jump back to
	c.WriteOp(chunk.OpLoop, 1)
	c.Write(0, 1)
	c.Write(2, 1)
	_, row := disassembleInstruction(c, 1)
	require.Equal(t, "-> 2", row[3])
}

// buildClosureChunk mimics what OP_CLOSURE for a function capturing two
// upvalues actually looks like: a function-constant byte followed by
// two (isLocal, index) pairs, with a trailing instruction right after so
// a miscounted width would either swallow it or read garbage as an op.
func buildClosureChunk() (*value.Chunk, *value.ObjFunction) {
	c := value.NewChunk()
	heap := value.NewHeap()
	fn := heap.NewFunction()
	fn.UpvalueCount = 2

	idx := c.AddConstant(fn)
	c.WriteOp(chunk.OpClosure, 1)
	c.Write(byte(idx), 1)
	c.Write(1, 1) // isLocal = true
	c.Write(0, 1) // index 0
	c.Write(0, 1) // isLocal = false
	c.Write(3, 1) // index 3
	c.WriteOp(chunk.OpReturn, 2)
	return c, fn
}

func TestDisassembleInstructionSkipsPastClosureUpvaluePairs(t *testing.T) {
	c, _ := buildClosureChunk()
	next, row := disassembleInstruction(c, 0)
	require.Equal(t, "OP_CLOSURE", row[2])
	require.Equal(t, 6, next, "must land on the trailing OP_RETURN, not mid-upvalue-pair")

	_, trailing := disassembleInstruction(c, next)
	require.Equal(t, "OP_RETURN", trailing[2])
}

func TestClosureCaptureRowsDescribeEachUpvalue(t *testing.T) {
	c, _ := buildClosureChunk()
	rows := closureCaptureRows(c, 0)
	require.Len(t, rows, 2)
	require.Equal(t, "local 0", rows[0][3])
	require.Equal(t, "upvalue 3", rows[1][3])
}

func TestDisassembleRendersClosureWithoutPanicking(t *testing.T) {
	c, _ := buildClosureChunk()
	var buf bytes.Buffer
	require.NotPanics(t, func() { Disassemble(&buf, c, "closure chunk") })

	output := buf.String()
	require.Contains(t, output, "OP_CLOSURE")
	require.Contains(t, output, "local 0")
	require.Contains(t, output, "upvalue 3")
	require.Contains(t, output, "OP_RETURN")
}
