package compiler

import (
	"github.com/kristofer/loxgo/internal/chunk"
	"github.com/kristofer/loxgo/internal/lexer"
)

// declaration parses one top-level-or-block production: a class, fun,
// or var declaration, or a plain statement. On a syntax error it
// synchronizes to the next statement boundary rather than unwinding
// the whole parse (spec §5, §9).
func (p *Parser) declaration() {
	switch {
	case p.match(lexer.TokenClass):
		p.classDeclaration()
	case p.match(lexer.TokenFun):
		p.funDeclaration()
	case p.match(lexer.TokenVar):
		p.varDeclaration()
	default:
		p.statement()
	}
	if p.panicMode {
		p.synchronize()
	}
}

func (p *Parser) statement() {
	switch {
	case p.match(lexer.TokenPrint):
		p.printStatement()
	case p.match(lexer.TokenFor):
		p.forStatement()
	case p.match(lexer.TokenIf):
		p.ifStatement()
	case p.match(lexer.TokenReturn):
		p.returnStatement()
	case p.match(lexer.TokenWhile):
		p.whileStatement()
	case p.match(lexer.TokenLeftBrace):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *Parser) block() {
	for !p.check(lexer.TokenRightBrace) && !p.check(lexer.TokenEOF) {
		p.declaration()
	}
	p.consume(lexer.TokenRightBrace, "Expect '}' after block.")
}

func (p *Parser) printStatement() {
	p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after value.")
	p.emitOp(chunk.OpPrint)
}

func (p *Parser) expressionStatement() {
	p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after expression.")
	p.emitOp(chunk.OpPop)
}

// ifStatement emits a forward OP_JUMP_IF_FALSE that peeks the
// condition (doesn't pop it), a pop of the condition for the
// then-branch, an unconditional jump around any else branch, and a pop
// of the condition preceding the else branch — exactly the shape spec
// §5's emission policy describes.
func (p *Parser) ifStatement() {
	p.consume(lexer.TokenLeftParen, "Expect '(' after 'if'.")
	p.expression()
	p.consume(lexer.TokenRightParen, "Expect ')' after condition.")

	thenJump := p.emitJump(chunk.OpJumpIfFalse)
	p.emitOp(chunk.OpPop)
	p.statement()

	elseJump := p.emitJump(chunk.OpJump)
	p.patchJump(thenJump)
	p.emitOp(chunk.OpPop)

	if p.match(lexer.TokenElse) {
		p.statement()
	}
	p.patchJump(elseJump)
}

func (p *Parser) whileStatement() {
	loopStart := p.currentChunk().Count()
	p.consume(lexer.TokenLeftParen, "Expect '(' after 'while'.")
	p.expression()
	p.consume(lexer.TokenRightParen, "Expect ')' after condition.")

	exitJump := p.emitJump(chunk.OpJumpIfFalse)
	p.emitOp(chunk.OpPop)
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(chunk.OpPop)
}

// forStatement desugars `for (init; cond; inc) body` into
// `{ init; while (cond) { body; inc; } }`, with the jump-over-increment
// trick spec §5 calls for: the increment is emitted first (before the
// body, textually, within the loop) but jumped over on entry, and the
// body's own loop-back target is rewritten to the increment so it runs
// after the body despite appearing before it in the bytecode stream.
func (p *Parser) forStatement() {
	p.beginScope()
	p.consume(lexer.TokenLeftParen, "Expect '(' after 'for'.")

	switch {
	case p.match(lexer.TokenSemicolon):
		// no initializer
	case p.match(lexer.TokenVar):
		p.varDeclaration()
	default:
		p.expressionStatement()
	}

	loopStart := p.currentChunk().Count()
	exitJump := -1
	if !p.match(lexer.TokenSemicolon) {
		p.expression()
		p.consume(lexer.TokenSemicolon, "Expect ';' after loop condition.")
		exitJump = p.emitJump(chunk.OpJumpIfFalse)
		p.emitOp(chunk.OpPop)
	}

	if !p.match(lexer.TokenRightParen) {
		bodyJump := p.emitJump(chunk.OpJump)
		incrementStart := p.currentChunk().Count()
		p.expression()
		p.emitOp(chunk.OpPop)
		p.consume(lexer.TokenRightParen, "Expect ')' after for clauses.")

		p.emitLoop(loopStart)
		loopStart = incrementStart
		p.patchJump(bodyJump)
	}

	p.statement()
	p.emitLoop(loopStart)

	if exitJump != -1 {
		p.patchJump(exitJump)
		p.emitOp(chunk.OpPop)
	}
	p.endScope()
}

func (p *Parser) returnStatement() {
	if p.fc.fnType == TypeScript {
		p.error("Can't return from top-level code.")
	}
	if p.match(lexer.TokenSemicolon) {
		p.emitReturn()
		return
	}
	if p.fc.fnType == TypeInitializer {
		p.error("Can't return a value from an initializer.")
	}
	p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after return value.")
	p.emitOp(chunk.OpReturn)
}

func (p *Parser) varDeclaration() {
	global := p.parseVariable("Expect variable name.")
	if p.match(lexer.TokenEqual) {
		p.expression()
	} else {
		p.emitOp(chunk.OpNil)
	}
	p.consume(lexer.TokenSemicolon, "Expect ';' after variable declaration.")
	p.defineVariable(global)
}

// parseVariable consumes an identifier and, for a global, interns its
// name as a constant; for a local it just declares the slot (locals
// are identified by stack position, never by name, at runtime).
func (p *Parser) parseVariable(message string) byte {
	p.consume(lexer.TokenIdentifier, message)
	p.declareVariable()
	if p.fc.scopeDepth > 0 {
		return 0
	}
	return p.identifierConstant(p.previous.Lexeme)
}

func (p *Parser) identifierConstant(name string) byte {
	return p.makeConstant(p.heap.InternString(name))
}

func (p *Parser) defineVariable(global byte) {
	if p.fc.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitOpByte(chunk.OpDefineGlobal, global)
}

func (p *Parser) funDeclaration() {
	global := p.parseVariable("Expect function name.")
	p.markInitialized()
	p.function(TypeFunction)
	p.defineVariable(global)
}

// function compiles a parameter list and body into a fresh
// FunctionCompiler frame, then emits OP_CLOSURE with the upvalue
// capture descriptors the frame accumulated (spec §5: "Function calls
// and closures").
func (p *Parser) function(fnType FunctionType) {
	p.pushCompiler(fnType)
	p.beginScope()

	p.consume(lexer.TokenLeftParen, "Expect '(' after function name.")
	if !p.check(lexer.TokenRightParen) {
		for {
			p.fc.function.Arity++
			if p.fc.function.Arity > maxArgs {
				p.errorAtCurrent("Can't have more than 255 parameters.")
			}
			constant := p.parseVariable("Expect parameter name.")
			p.defineVariable(constant)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.consume(lexer.TokenRightParen, "Expect ')' after parameters.")
	p.consume(lexer.TokenLeftBrace, "Expect '{' before function body.")
	p.block()

	fn, upvalues := p.popCompiler()
	p.emitOpByte(chunk.OpClosure, p.makeConstant(fn))
	for _, u := range upvalues {
		if u.isLocal {
			p.emitByte(1)
		} else {
			p.emitByte(0)
		}
		p.emitByte(u.index)
	}
}

func (p *Parser) classDeclaration() {
	p.consume(lexer.TokenIdentifier, "Expect class name.")
	nameTok := p.previous
	nameConstant := p.identifierConstant(nameTok.Lexeme)
	p.declareVariable()

	p.emitOpByte(chunk.OpClass, nameConstant)
	p.defineVariable(nameConstant)

	cc := &classCompiler{enclosing: p.cc}
	p.cc = cc

	p.namedVariable(nameTok, false)
	p.consume(lexer.TokenLeftBrace, "Expect '{' before class body.")
	for !p.check(lexer.TokenRightBrace) && !p.check(lexer.TokenEOF) {
		p.method()
	}
	p.consume(lexer.TokenRightBrace, "Expect '}' after class body.")
	p.emitOp(chunk.OpPop)

	p.cc = cc.enclosing
}

func (p *Parser) method() {
	p.consume(lexer.TokenIdentifier, "Expect method name.")
	nameTok := p.previous
	constant := p.identifierConstant(nameTok.Lexeme)

	fnType := TypeMethod
	if nameTok.Lexeme == "init" {
		fnType = TypeInitializer
	}
	p.function(fnType)
	p.emitOpByte(chunk.OpMethod, constant)
}
