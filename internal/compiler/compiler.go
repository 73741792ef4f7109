// Package compiler implements loxgo's single-pass, AST-less compiler:
// a recursive-descent parser with a Pratt-style precedence table for
// expressions (spec §5), emitting bytecode directly into the function
// being compiled as it goes. It never builds an intermediate tree.
//
// Lexical scoping, closures, and upvalue capture are all resolved
// during this single pass, grounded on original_source's compiler.c;
// the overall parser shape (current/previous token, panic-mode error
// recovery, a Parser that owns a lexer and walks its tokens one at a
// time) is grounded on kristofer-smog's pkg/parser.
package compiler

import (
	"fmt"
	"os"

	"github.com/kristofer/loxgo/internal/chunk"
	"github.com/kristofer/loxgo/internal/debug"
	"github.com/kristofer/loxgo/internal/lexer"
	"github.com/kristofer/loxgo/internal/value"
)

var stderr = os.Stderr

// DebugPrintCode gates disassembling each function's chunk right after
// it finishes compiling (DEBUG_PRINT_CODE), set once at startup from
// internal/config.
var DebugPrintCode bool

const (
	maxLocals   = 256
	maxUpvalues = 256
	maxArgs     = 255
)

// FunctionType tags what kind of body a FunctionCompiler frame is
// compiling, since methods, initializers, and the top-level script
// each get slightly different treatment (spec §5: this binding,
// implicit return).
type FunctionType int

const (
	TypeFunction FunctionType = iota
	TypeMethod
	TypeInitializer
	TypeScript
)

type local struct {
	name     string
	depth    int // -1 while declared but not yet initialized
	captured bool
}

type upvalueRef struct {
	index   byte
	isLocal bool
}

// FunctionCompiler is one frame of the compiler's frame stack (spec
// §5's "Compiler stack"): the function under construction, its locals
// and upvalues, and a link to the enclosing frame so resolution can
// walk outward.
type FunctionCompiler struct {
	enclosing  *FunctionCompiler
	function   *value.ObjFunction
	fnType     FunctionType
	locals     []local
	upvalues   []upvalueRef
	scopeDepth int
}

// classCompiler tracks the class currently being compiled, so `this`
// can be rejected outside of one (spec §5).
type classCompiler struct {
	enclosing *classCompiler
}

// Parser is the whole compilation's state: the token stream, the
// active function frame, the active class frame, and error-recovery
// flags. One Parser compiles one function-or-script body; nested
// function literals reuse the same Parser but push a new
// FunctionCompiler frame.
type Parser struct {
	lex *lexer.Lexer
	heap *value.Heap

	current  lexer.Token
	previous lexer.Token

	hadError  bool
	panicMode bool

	fc *FunctionCompiler
	cc *classCompiler
}

// Compile compiles source into a top-level script function. Each
// syntax/semantic problem is reported to stderr as it is found; if any
// was, Compile returns no function and a fixed "compilation failed"
// error (spec §5: had_error causes compile to return no function).
func Compile(source string, heap *value.Heap) (*value.ObjFunction, error) {
	p := &Parser{lex: lexer.New(source), heap: heap}
	p.pushCompiler(TypeScript)

	activeParser = p
	defer func() { activeParser = nil }()

	p.advance()
	for !p.match(lexer.TokenEOF) {
		p.declaration()
	}
	p.consume(lexer.TokenEOF, "Expect end of expression.")

	fn, _ := p.popCompiler()
	if p.hadError {
		return nil, fmt.Errorf("compilation failed")
	}
	return fn, nil
}

func (p *Parser) pushCompiler(fnType FunctionType) {
	fc := &FunctionCompiler{
		enclosing: p.fc,
		function:  p.heap.NewFunction(),
		fnType:    fnType,
	}
	// Slot 0 is reserved: `this` for methods/initializers, an unnamed
	// placeholder for plain functions and the top-level script.
	if fnType == TypeMethod || fnType == TypeInitializer {
		fc.locals = append(fc.locals, local{name: "this", depth: 0})
	} else {
		fc.locals = append(fc.locals, local{name: "", depth: 0})
	}
	// Link the frame before interning the name: that allocation can
	// trigger a collection, and the new function is only reachable
	// through the frame stack.
	p.fc = fc
	if fnType != TypeScript {
		fc.function.Name = p.heap.InternString(p.previous.Lexeme)
	}
}

func (p *Parser) popCompiler() (*value.ObjFunction, []upvalueRef) {
	p.emitReturn()
	fn := p.fc.function
	upvalues := p.fc.upvalues
	fn.UpvalueCount = len(upvalues)
	if DebugPrintCode && !p.hadError {
		name := "<script>"
		if fn.Name != nil {
			name = fn.Name.Chars
		}
		debug.Disassemble(os.Stdout, fn.Chunk, name)
	}
	p.fc = p.fc.enclosing
	return fn, upvalues
}

// --- token stream -----------------------------------------------------

func (p *Parser) advance() {
	p.previous = p.current
	for {
		p.current = p.lex.Next()
		if p.current.Kind != lexer.TokenError {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
}

func (p *Parser) check(kind lexer.TokenKind) bool {
	return p.current.Kind == kind
}

func (p *Parser) match(kind lexer.TokenKind) bool {
	if !p.check(kind) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(kind lexer.TokenKind, message string) {
	if p.current.Kind == kind {
		p.advance()
		return
	}
	p.errorAtCurrent(message)
}

func (p *Parser) errorAtCurrent(message string) { p.errorAt(p.current, message) }
func (p *Parser) error(message string)          { p.errorAt(p.previous, message) }

func (p *Parser) errorAt(tok lexer.Token, message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true
	where := fmt.Sprintf("at '%s'", tok.Lexeme)
	if tok.Kind == lexer.TokenEOF {
		where = "at end"
	} else if tok.Kind == lexer.TokenError {
		where = ""
	}
	if where == "" {
		fmt.Fprintf(stderr, "[line %d] Error: %s\n", tok.Line, message)
	} else {
		fmt.Fprintf(stderr, "[line %d] Error %s: %s\n", tok.Line, where, message)
	}
}

// synchronize discards tokens until it reaches what looks like a
// statement boundary, so one syntax error doesn't cascade into a wall
// of spurious follow-on errors (spec §5, §9).
func (p *Parser) synchronize() {
	p.panicMode = false
	for p.current.Kind != lexer.TokenEOF {
		if p.previous.Kind == lexer.TokenSemicolon {
			return
		}
		switch p.current.Kind {
		case lexer.TokenClass, lexer.TokenFun, lexer.TokenVar, lexer.TokenFor,
			lexer.TokenIf, lexer.TokenWhile, lexer.TokenPrint, lexer.TokenReturn:
			return
		}
		p.advance()
	}
}

// --- bytecode emission -------------------------------------------------

func (p *Parser) currentChunk() *value.Chunk { return p.fc.function.Chunk }

func (p *Parser) emitByte(b byte) { p.currentChunk().Write(b, p.previous.Line) }
func (p *Parser) emitOp(op chunk.OpCode) { p.currentChunk().WriteOp(op, p.previous.Line) }

func (p *Parser) emitOpByte(op chunk.OpCode, arg byte) {
	p.emitOp(op)
	p.emitByte(arg)
}

func (p *Parser) emitReturn() {
	if p.fc.fnType == TypeInitializer {
		p.emitOpByte(chunk.OpGetLocal, 0)
	} else {
		p.emitOp(chunk.OpNil)
	}
	p.emitOp(chunk.OpReturn)
}

func (p *Parser) makeConstant(v value.Value) byte {
	idx := p.currentChunk().AddConstant(v)
	if idx > 255 {
		p.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

func (p *Parser) emitConstant(v value.Value) {
	p.emitOpByte(chunk.OpConstant, p.makeConstant(v))
}

// emitJump writes a jump opcode with a two-byte placeholder operand
// and returns the offset of the first placeholder byte, for patchJump
// to fix up once the jump target is known.
func (p *Parser) emitJump(op chunk.OpCode) int {
	p.emitOp(op)
	p.emitByte(0xff)
	p.emitByte(0xff)
	return p.currentChunk().Count() - 2
}

func (p *Parser) patchJump(offset int) {
	jump := p.currentChunk().Count() - offset - 2
	if jump > 0xffff {
		p.error("Too much code to jump over.")
	}
	code := p.currentChunk().Code
	code[offset] = byte(jump >> 8)
	code[offset+1] = byte(jump & 0xff)
}

func (p *Parser) emitLoop(loopStart int) {
	p.emitOp(chunk.OpLoop)
	offset := p.currentChunk().Count() - loopStart + 2
	if offset > 0xffff {
		p.error("Loop body too large.")
	}
	p.emitByte(byte(offset >> 8))
	p.emitByte(byte(offset & 0xff))
}
