// Package chunk defines the bytecode instruction set for loxgo: a single
// byte opcode followed by 0, 1, or 2 operand bytes (spec §6). It holds no
// notion of Value or constant pools itself — see internal/value.Chunk for
// the container that pairs this instruction set with a constant pool,
// which keeps this package free of a dependency on the value model.
//
// There is no persisted wire format here — spec.md explicitly excludes
// bytecode persistence from scope, so a chunk lives only in memory for
// the one interpretation that produced it (see DESIGN.md).
package chunk

// OpCode is a single bytecode instruction operation.
type OpCode byte

// Opcodes. Each is followed by 0, 1, or 2 operand bytes, per spec §6.
const (
	OpConstant      OpCode = iota // 1 byte: constant pool index
	OpNil                         // push nil
	OpTrue                        // push true
	OpFalse                       // push false
	OpPop                         // discard top
	OpGetLocal                    // 1 byte: slot
	OpSetLocal                    // 1 byte: slot
	OpGetGlobal                   // 1 byte: constant index (name)
	OpDefineGlobal                // 1 byte: constant index (name)
	OpSetGlobal                   // 1 byte: constant index (name)
	OpGetUpvalue                  // 1 byte: upvalue index
	OpSetUpvalue                  // 1 byte: upvalue index
	OpGetProperty                 // 1 byte: constant index (name)
	OpSetProperty                 // 1 byte: constant index (name)
	OpEqual
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNot
	OpNegate
	OpPrint
	OpJump         // 2 bytes: big-endian forward offset
	OpJumpIfFalse  // 2 bytes: big-endian forward offset
	OpLoop         // 2 bytes: big-endian backward offset
	OpCall         // 1 byte: argument count
	OpClosure      // 1 byte: function constant index, then upvalue-count pairs of (isLocal, index)
	OpCloseUpvalue // close the upvalue (if any) referring to the current stack top, then pop
	OpReturn
	OpClass  // 1 byte: constant index (name)
	OpMethod // 1 byte: constant index (name)
)

var names = map[OpCode]string{
	OpConstant:     "OP_CONSTANT",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpPop:          "OP_POP",
	OpGetLocal:     "OP_GET_LOCAL",
	OpSetLocal:     "OP_SET_LOCAL",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpDefineGlobal: "OP_DEFINE_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpGetUpvalue:   "OP_GET_UPVALUE",
	OpSetUpvalue:   "OP_SET_UPVALUE",
	OpGetProperty:  "OP_GET_PROPERTY",
	OpSetProperty:  "OP_SET_PROPERTY",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLess:         "OP_LESS",
	OpAdd:          "OP_ADD",
	OpSubtract:     "OP_SUBTRACT",
	OpMultiply:     "OP_MULTIPLY",
	OpDivide:       "OP_DIVIDE",
	OpNot:          "OP_NOT",
	OpNegate:       "OP_NEGATE",
	OpPrint:        "OP_PRINT",
	OpJump:         "OP_JUMP",
	OpJumpIfFalse:  "OP_JUMP_IF_FALSE",
	OpLoop:         "OP_LOOP",
	OpCall:         "OP_CALL",
	OpClosure:      "OP_CLOSURE",
	OpCloseUpvalue: "OP_CLOSE_UPVALUE",
	OpReturn:       "OP_RETURN",
	OpClass:        "OP_CLASS",
	OpMethod:       "OP_METHOD",
}

// String implements fmt.Stringer, used by the disassembler.
func (op OpCode) String() string {
	if name, ok := names[op]; ok {
		return name
	}
	return "OP_UNKNOWN"
}

// ArgWidth reports how many fixed operand bytes follow this opcode: 0, 1,
// or 2. OP_CLOSURE is the one exception: it reports 1 (its leading
// function-constant byte) but is actually followed by a further
// upvalue_count pairs of (isLocal, index) bytes whose count is only known
// by reading that function constant's UpvalueCount at decode time — the
// opcode byte alone can't express it, so callers that need the true
// instruction width (the disassembler, the VM's decoder) must special-case
// OP_CLOSURE rather than trust ArgWidth for it.
func (op OpCode) ArgWidth() int {
	switch op {
	case OpJump, OpJumpIfFalse, OpLoop:
		return 2
	case OpNil, OpTrue, OpFalse, OpPop, OpEqual, OpGreater, OpLess, OpAdd,
		OpSubtract, OpMultiply, OpDivide, OpNot, OpNegate, OpPrint,
		OpCloseUpvalue, OpReturn:
		return 0
	default:
		return 1
	}
}
