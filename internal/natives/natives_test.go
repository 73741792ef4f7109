package natives

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kristofer/loxgo/internal/value"
)

func TestAllReturnsClockStrLen(t *testing.T) {
	h := value.NewHeap()
	defs := All(h)
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	require.Equal(t, []string{"clock", "str", "len"}, names)
}

func TestClockReturnsNonNegativeNumber(t *testing.T) {
	v, err := clockNative(nil)
	require.NoError(t, err)
	n, ok := v.(value.Number)
	require.True(t, ok)
	require.GreaterOrEqual(t, float64(n), 0.0)
}

func TestClockRejectsArguments(t *testing.T) {
	_, err := clockNative([]value.Value{value.Number(1)})
	require.Error(t, err)
}

func TestStrFormatsEachValueKind(t *testing.T) {
	h := value.NewHeap()
	str := strNative(h)

	v, err := str([]value.Value{value.Number(42)})
	require.NoError(t, err)
	require.Equal(t, "42", v.(*value.ObjString).Chars)

	v, err = str([]value.Value{value.NilValue})
	require.NoError(t, err)
	require.Equal(t, "nil", v.(*value.ObjString).Chars)

	v, err = str([]value.Value{value.Bool(true)})
	require.NoError(t, err)
	require.Equal(t, "true", v.(*value.ObjString).Chars)
}

func TestStrRequiresExactlyOneArgument(t *testing.T) {
	h := value.NewHeap()
	str := strNative(h)
	_, err := str(nil)
	require.Error(t, err)
	_, err = str([]value.Value{value.Number(1), value.Number(2)})
	require.Error(t, err)
}

func TestLenOfString(t *testing.T) {
	h := value.NewHeap()
	s := h.InternString("hello")
	v, err := lenNative([]value.Value{s})
	require.NoError(t, err)
	require.Equal(t, value.Number(5), v)
}

func TestLenRejectsNonString(t *testing.T) {
	_, err := lenNative([]value.Value{value.Number(1)})
	require.Error(t, err)
}
