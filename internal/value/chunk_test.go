package value

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kristofer/loxgo/internal/chunk"
)

func TestWriteOpRecordsByteAndLine(t *testing.T) {
	c := NewChunk()
	c.WriteOp(chunk.OpReturn, 7)

	require.Equal(t, []byte{byte(chunk.OpReturn)}, c.Code)
	require.Equal(t, []int{7}, c.Lines)
	require.Equal(t, 1, c.Count())
}

func TestAddConstantAppendsWithoutDeduplicating(t *testing.T) {
	c := NewChunk()
	first := c.AddConstant(Number(1))
	second := c.AddConstant(Number(1))

	require.Equal(t, 0, first)
	require.Equal(t, 1, second, "AddConstant always appends, dedup is the caller's job")
	require.Len(t, c.Constants, 2)
}

func TestWriteAppendsRawBytesInOrder(t *testing.T) {
	c := NewChunk()
	c.Write(10, 1)
	c.Write(20, 1)
	require.Equal(t, []byte{10, 20}, c.Code)
	require.Equal(t, 2, c.Count())
}
