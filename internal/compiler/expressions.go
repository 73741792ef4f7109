package compiler

import (
	"strconv"

	"github.com/kristofer/loxgo/internal/chunk"
	"github.com/kristofer/loxgo/internal/lexer"
	"github.com/kristofer/loxgo/internal/value"
)

func (p *Parser) expression() {
	p.parsePrecedence(PrecAssignment)
}

// parsePrecedence is the Pratt engine spec §5 describes: consume a
// token, run its prefix rule (allowing it to also act as an assignment
// target only when we're at or below ASSIGNMENT precedence), then keep
// consuming infix operators whose precedence is at least minPrec.
func (p *Parser) parsePrecedence(minPrec Precedence) {
	p.advance()
	prefix := getRule(p.previous.Kind).prefix
	if prefix == nil {
		p.error("Expect expression.")
		return
	}
	canAssign := minPrec <= PrecAssignment
	prefix(p, canAssign)

	for minPrec <= getRule(p.current.Kind).precedence {
		p.advance()
		infix := getRule(p.previous.Kind).infix
		infix(p, canAssign)
	}

	if canAssign && p.match(lexer.TokenEqual) {
		p.error("Invalid assignment target.")
	}
}

func (p *Parser) number(_ bool) {
	n, err := strconv.ParseFloat(p.previous.Lexeme, 64)
	if err != nil {
		p.error("Invalid number literal.")
		return
	}
	p.emitConstant(value.Number(n))
}

func (p *Parser) string(_ bool) {
	lexeme := p.previous.Lexeme
	chars := lexeme[1 : len(lexeme)-1] // strip the surrounding quotes
	p.emitConstant(p.heap.InternString(chars))
}

func (p *Parser) literal(_ bool) {
	switch p.previous.Kind {
	case lexer.TokenFalse:
		p.emitOp(chunk.OpFalse)
	case lexer.TokenTrue:
		p.emitOp(chunk.OpTrue)
	case lexer.TokenNil:
		p.emitOp(chunk.OpNil)
	}
}

func (p *Parser) grouping(_ bool) {
	p.expression()
	p.consume(lexer.TokenRightParen, "Expect ')' after expression.")
}

func (p *Parser) unary(_ bool) {
	op := p.previous.Kind
	p.parsePrecedence(PrecUnary)
	switch op {
	case lexer.TokenMinus:
		p.emitOp(chunk.OpNegate)
	case lexer.TokenBang:
		p.emitOp(chunk.OpNot)
	}
}

func (p *Parser) binary(_ bool) {
	op := p.previous.Kind
	rule := getRule(op)
	p.parsePrecedence(rule.precedence + 1)

	switch op {
	case lexer.TokenBangEqual:
		p.emitOp(chunk.OpEqual)
		p.emitOp(chunk.OpNot)
	case lexer.TokenEqualEqual:
		p.emitOp(chunk.OpEqual)
	case lexer.TokenGreater:
		p.emitOp(chunk.OpGreater)
	case lexer.TokenGreaterEqual:
		p.emitOp(chunk.OpLess)
		p.emitOp(chunk.OpNot)
	case lexer.TokenLess:
		p.emitOp(chunk.OpLess)
	case lexer.TokenLessEqual:
		p.emitOp(chunk.OpGreater)
		p.emitOp(chunk.OpNot)
	case lexer.TokenPlus:
		p.emitOp(chunk.OpAdd)
	case lexer.TokenMinus:
		p.emitOp(chunk.OpSubtract)
	case lexer.TokenStar:
		p.emitOp(chunk.OpMultiply)
	case lexer.TokenSlash:
		p.emitOp(chunk.OpDivide)
	}
}

// and_ short-circuits: if the left operand is falsy, skip the right
// operand entirely and leave the falsy left value as the result.
func (p *Parser) and_(_ bool) {
	endJump := p.emitJump(chunk.OpJumpIfFalse)
	p.emitOp(chunk.OpPop)
	p.parsePrecedence(PrecAnd)
	p.patchJump(endJump)
}

// or_ short-circuits the other way: if the left operand is truthy,
// skip the right operand.
func (p *Parser) or_(_ bool) {
	elseJump := p.emitJump(chunk.OpJumpIfFalse)
	endJump := p.emitJump(chunk.OpJump)
	p.patchJump(elseJump)
	p.emitOp(chunk.OpPop)
	p.parsePrecedence(PrecOr)
	p.patchJump(endJump)
}

func (p *Parser) call(_ bool) {
	argCount := p.argumentList()
	p.emitOpByte(chunk.OpCall, argCount)
}

func (p *Parser) argumentList() byte {
	var count int
	if !p.check(lexer.TokenRightParen) {
		for {
			p.expression()
			if count == maxArgs {
				p.error("Can't have more than 255 arguments.")
			}
			count++
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.consume(lexer.TokenRightParen, "Expect ')' after arguments.")
	return byte(count)
}

// dot compiles property access/assignment: `expr.name`, `expr.name =
// value`, or — when followed by a call — a straight OP_GET_PROPERTY
// plus OP_CALL (loxgo has no OP_INVOKE fast path; this spec's
// Non-goals exclude bytecode optimization).
func (p *Parser) dot(canAssign bool) {
	p.consume(lexer.TokenIdentifier, "Expect property name after '.'.")
	name := p.identifierConstant(p.previous.Lexeme)

	if canAssign && p.match(lexer.TokenEqual) {
		p.expression()
		p.emitOpByte(chunk.OpSetProperty, name)
		return
	}
	p.emitOpByte(chunk.OpGetProperty, name)
}

func (p *Parser) this_(_ bool) {
	if p.cc == nil {
		p.error("Can't use 'this' outside of a class.")
		return
	}
	p.variable(false)
}

func (p *Parser) variable(canAssign bool) {
	p.namedVariable(p.previous, canAssign)
}

// namedVariable resolves an identifier to a local slot, an upvalue, or
// a global, in that order (spec §5), emitting the matching get/set
// opcode pair.
func (p *Parser) namedVariable(name lexer.Token, canAssign bool) {
	var getOp, setOp chunk.OpCode
	arg := resolveLocal(p.fc, name.Lexeme)
	if arg != -1 {
		if p.fc.locals[arg].depth == -1 {
			p.error("Can't read local variable in its own initializer.")
		}
		getOp, setOp = chunk.OpGetLocal, chunk.OpSetLocal
	} else if arg = p.resolveUpvalue(p.fc, name.Lexeme); arg != -1 {
		getOp, setOp = chunk.OpGetUpvalue, chunk.OpSetUpvalue
	} else {
		arg = int(p.identifierConstant(name.Lexeme))
		getOp, setOp = chunk.OpGetGlobal, chunk.OpSetGlobal
	}

	if canAssign && p.match(lexer.TokenEqual) {
		p.expression()
		p.emitOpByte(setOp, byte(arg))
	} else {
		p.emitOpByte(getOp, byte(arg))
	}
}
