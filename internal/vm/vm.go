// Package vm implements loxgo's stack-based bytecode virtual machine:
// a fixed value stack, a call-frame stack, the open-upvalue list, and
// the opcode dispatch loop (spec §4.2).
//
// The overall shape — a VM struct owning a value stack, a stack
// pointer, a globals table, and a call stack for error reporting — is
// grounded on kristofer-smog's pkg/vm/vm.go; the RuntimeError and
// stack-trace formatting is grounded on kristofer-smog's pkg/vm/errors.go.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/kristofer/loxgo/internal/chunk"
	"github.com/kristofer/loxgo/internal/debug"
	"github.com/kristofer/loxgo/internal/table"
	"github.com/kristofer/loxgo/internal/value"
)

const (
	framesMax  = 64
	stackMax   = framesMax * 256
)

// CallFrame is one activation record: the closure being run, the
// return instruction pointer within it, and the base stack slot its
// locals start at (spec §4.2: "(closure, return_ip, slots_base)").
type CallFrame struct {
	closure   *value.ObjClosure
	ip        int
	slotsBase int
}

// VM is the one process-wide interpreter instance (spec §5: "One
// process-wide VM instance"). The stack, frames, open-upvalue list,
// globals, and intern table it reaches through Heap are all owned
// exclusively here.
type VM struct {
	heap *value.Heap

	stack []value.Value
	top   int

	frames     []CallFrame
	frameCount int

	openUpvalues *value.ObjUpvalue // head of descending-address list

	globals *table.Table[value.Value]

	initString *value.ObjString

	out, errOut io.Writer

	// TraceExecution gates printing the stack and the disassembled
	// instruction before each dispatch (DEBUG_TRACE_EXECUTION).
	TraceExecution bool
}

// SetOutput redirects PRINT output and runtime-error reporting,
// letting tests capture both instead of writing to the real stdout/
// stderr.
func (vm *VM) SetOutput(out, errOut io.Writer) {
	vm.out = out
	vm.errOut = errOut
}

// New creates a VM with natives registered and ready to Interpret.
func New(heap *value.Heap) *VM {
	vm := &VM{
		heap:    heap,
		stack:   make([]value.Value, stackMax),
		frames:  make([]CallFrame, framesMax),
		globals: table.New[value.Value](),
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
	vm.initString = heap.InternString("init")
	defineNatives(vm)
	return vm
}

// Heap returns the heap this VM allocates into, for driver code that
// needs to compile into the same heap the VM runs against.
func (vm *VM) Heap() *value.Heap {
	return vm.heap
}

// RuntimeError is a failure during bytecode execution, reported with
// the faulting line and a call-stack trace (spec §4.2).
type RuntimeError struct {
	Message string
	Trace   []string
}

func (e *RuntimeError) Error() string {
	s := e.Message
	for _, line := range e.Trace {
		s += "\n" + line
	}
	return s
}

// Interpret compiles nothing itself — it runs an already-compiled
// top-level script function to completion.
func (vm *VM) Interpret(script *value.ObjFunction) error {
	closure := vm.heap.NewClosure(script)
	vm.push(closure)
	if err := vm.callValue(closure, 0); err != nil {
		return err
	}
	return vm.run()
}

func (vm *VM) push(v value.Value) {
	vm.stack[vm.top] = v
	vm.top++
}

func (vm *VM) pop() value.Value {
	vm.top--
	return vm.stack[vm.top]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.top-1-distance]
}

func (vm *VM) resetStack() {
	vm.top = 0
	vm.frameCount = 0
	vm.openUpvalues = nil
}

// run is the dispatch loop: read one opcode byte, switch on it. Spec
// §4.2 lists the per-opcode contract this mirrors exactly.
func (vm *VM) run() error {
	frame := &vm.frames[vm.frameCount-1]

	readByte := func() byte {
		b := frame.closure.Function.Chunk.Code[frame.ip]
		frame.ip++
		return b
	}
	readShort := func() int {
		hi := readByte()
		lo := readByte()
		return int(hi)<<8 | int(lo)
	}
	readConstant := func() value.Value {
		return frame.closure.Function.Chunk.Constants[readByte()]
	}
	readString := func() *value.ObjString {
		return readConstant().(*value.ObjString)
	}

	for {
		if vm.TraceExecution {
			debug.TraceInstruction(vm.out, frame.closure.Function.Chunk, frame.ip, vm.stack[:vm.top])
		}
		op := chunk.OpCode(readByte())
		switch op {
		case chunk.OpConstant:
			vm.push(readConstant())

		case chunk.OpNil:
			vm.push(value.NilValue)
		case chunk.OpTrue:
			vm.push(value.True)
		case chunk.OpFalse:
			vm.push(value.False)
		case chunk.OpPop:
			vm.pop()

		case chunk.OpGetLocal:
			slot := readByte()
			vm.push(vm.stack[frame.slotsBase+int(slot)])
		case chunk.OpSetLocal:
			slot := readByte()
			vm.stack[frame.slotsBase+int(slot)] = vm.peek(0)

		case chunk.OpGetGlobal:
			name := readString()
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError(frame, "Undefined variable '%s'.", name.Chars)
			}
			vm.push(v)
		case chunk.OpDefineGlobal:
			name := readString()
			vm.globals.Set(name, vm.peek(0))
			vm.pop()
		case chunk.OpSetGlobal:
			name := readString()
			isNew := vm.globals.Set(name, vm.peek(0))
			if isNew {
				vm.globals.Delete(name)
				return vm.runtimeError(frame, "Undefined variable '%s'.", name.Chars)
			}

		case chunk.OpGetUpvalue:
			slot := readByte()
			vm.push(*frame.closure.Upvalues[slot].Location)
		case chunk.OpSetUpvalue:
			slot := readByte()
			*frame.closure.Upvalues[slot].Location = vm.peek(0)

		case chunk.OpGetProperty:
			if err := vm.getProperty(frame, readString()); err != nil {
				return err
			}
		case chunk.OpSetProperty:
			if err := vm.setProperty(frame, readString()); err != nil {
				return err
			}

		case chunk.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.BoolOf(value.Equal(a, b)))
		case chunk.OpGreater:
			if err := vm.numericBinary(frame, func(a, b float64) value.Value { return value.BoolOf(a > b) }); err != nil {
				return err
			}
		case chunk.OpLess:
			if err := vm.numericBinary(frame, func(a, b float64) value.Value { return value.BoolOf(a < b) }); err != nil {
				return err
			}
		case chunk.OpAdd:
			if err := vm.add(frame); err != nil {
				return err
			}
		case chunk.OpSubtract:
			if err := vm.numericBinary(frame, func(a, b float64) value.Value { return value.Number(a - b) }); err != nil {
				return err
			}
		case chunk.OpMultiply:
			if err := vm.numericBinary(frame, func(a, b float64) value.Value { return value.Number(a * b) }); err != nil {
				return err
			}
		case chunk.OpDivide:
			if err := vm.numericBinary(frame, func(a, b float64) value.Value { return value.Number(a / b) }); err != nil {
				return err
			}
		case chunk.OpNot:
			vm.push(value.BoolOf(!value.Truthy(vm.pop())))
		case chunk.OpNegate:
			n, ok := vm.peek(0).(value.Number)
			if !ok {
				return vm.runtimeError(frame, "Operand must be a number.")
			}
			vm.pop()
			vm.push(-n)

		case chunk.OpPrint:
			fmt.Fprintln(vm.out, FormatValue(vm.pop()))

		case chunk.OpJump:
			offset := readShort()
			frame.ip += offset
		case chunk.OpJumpIfFalse:
			offset := readShort()
			if !value.Truthy(vm.peek(0)) {
				frame.ip += offset
			}
		case chunk.OpLoop:
			offset := readShort()
			frame.ip -= offset

		case chunk.OpCall:
			argCount := int(readByte())
			callee := vm.peek(argCount)
			if err := vm.callValue(callee, argCount); err != nil {
				return vm.runtimeError(frame, "%s", err.Error())
			}
			frame = &vm.frames[vm.frameCount-1]

		case chunk.OpClosure:
			fn := readConstant().(*value.ObjFunction)
			closure := vm.heap.NewClosure(fn)
			vm.push(closure)
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := readByte()
				index := readByte()
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(frame.slotsBase + int(index))
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}
		case chunk.OpCloseUpvalue:
			vm.closeUpvalues(vm.top - 1)
			vm.pop()

		case chunk.OpReturn:
			result := vm.pop()
			vm.closeUpvalues(frame.slotsBase)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop()
				return nil
			}
			vm.top = frame.slotsBase
			vm.push(result)
			frame = &vm.frames[vm.frameCount-1]

		case chunk.OpClass:
			name := readString()
			vm.push(vm.heap.NewClass(name))
		case chunk.OpMethod:
			vm.defineMethod(readString())

		default:
			return vm.runtimeError(frame, "Unknown opcode %d.", byte(op))
		}
	}
}

func (vm *VM) numericBinary(frame *CallFrame, f func(a, b float64) value.Value) error {
	bv, bok := vm.peek(0).(value.Number)
	av, aok := vm.peek(1).(value.Number)
	if !aok || !bok {
		return vm.runtimeError(frame, "Operands must be numbers.")
	}
	vm.pop()
	vm.pop()
	vm.push(f(float64(av), float64(bv)))
	return nil
}

func (vm *VM) add(frame *CallFrame) error {
	bStr, bIsStr := vm.peek(0).(*value.ObjString)
	aStr, aIsStr := vm.peek(1).(*value.ObjString)
	if aIsStr && bIsStr {
		vm.pop()
		vm.pop()
		vm.push(vm.heap.InternString(aStr.Chars + bStr.Chars))
		return nil
	}
	bNum, bIsNum := vm.peek(0).(value.Number)
	aNum, aIsNum := vm.peek(1).(value.Number)
	if aIsNum && bIsNum {
		vm.pop()
		vm.pop()
		vm.push(aNum + bNum)
		return nil
	}
	return vm.runtimeError(frame, "Operands must be two numbers or two strings.")
}
