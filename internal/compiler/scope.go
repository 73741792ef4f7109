package compiler

import "github.com/kristofer/loxgo/internal/chunk"

func (p *Parser) beginScope() { p.fc.scopeDepth++ }

// endScope pops every local declared in the scope just exited. Any
// local that was captured by a closure must be closed (promoted to the
// heap) rather than simply popped, per spec §6's OP_CLOSE_UPVALUE.
func (p *Parser) endScope() {
	p.fc.scopeDepth--
	for len(p.fc.locals) > 0 && p.fc.locals[len(p.fc.locals)-1].depth > p.fc.scopeDepth {
		if p.fc.locals[len(p.fc.locals)-1].captured {
			p.emitOp(chunk.OpCloseUpvalue)
		} else {
			p.emitOp(chunk.OpPop)
		}
		p.fc.locals = p.fc.locals[:len(p.fc.locals)-1]
	}
}

func (p *Parser) addLocal(name string) {
	if len(p.fc.locals) >= maxLocals {
		p.error("Too many local variables in function.")
		return
	}
	p.fc.locals = append(p.fc.locals, local{name: name, depth: -1})
}

// declareVariable registers the variable named by p.previous as a
// local if we're inside a scope (globals need no declaration step:
// they're looked up by name at runtime). Shadowing an outer scope's
// local is fine; redeclaring within the *same* scope is an error (spec
// §9's "duplicate local in same scope").
func (p *Parser) declareVariable() {
	if p.fc.scopeDepth == 0 {
		return
	}
	name := p.previous.Lexeme
	for i := len(p.fc.locals) - 1; i >= 0; i-- {
		l := p.fc.locals[i]
		if l.depth != -1 && l.depth < p.fc.scopeDepth {
			break
		}
		if l.name == name {
			p.error("Already a variable with this name in this scope.")
		}
	}
	p.addLocal(name)
}

func (p *Parser) markInitialized() {
	if p.fc.scopeDepth == 0 {
		return
	}
	p.fc.locals[len(p.fc.locals)-1].depth = p.fc.scopeDepth
}

// resolveLocal implements spec §5's resolve_local: scan the frame's
// locals top-down by lexeme; a local seen with depth -1 is still being
// initialized by its own initializer, which is an error.
func resolveLocal(fc *FunctionCompiler, name string) int {
	for i := len(fc.locals) - 1; i >= 0; i-- {
		if fc.locals[i].name == name {
			return i
		}
	}
	return -1
}

// resolveUpvalue implements spec §5's resolve_upvalue: recurse into
// the enclosing frame. If the name resolves to a local there, mark it
// captured and record an is_local upvalue; if it resolves to an
// upvalue there, record an is_local=false upvalue referring to that
// index. Either way, addUpvalue dedupes against upvalues already
// recorded for this frame.
func (p *Parser) resolveUpvalue(fc *FunctionCompiler, name string) int {
	if fc.enclosing == nil {
		return -1
	}
	if local := resolveLocal(fc.enclosing, name); local != -1 {
		fc.enclosing.locals[local].captured = true
		return p.addUpvalue(fc, byte(local), true)
	}
	if up := p.resolveUpvalue(fc.enclosing, name); up != -1 {
		return p.addUpvalue(fc, byte(up), false)
	}
	return -1
}

func (p *Parser) addUpvalue(fc *FunctionCompiler, index byte, isLocal bool) int {
	for i, u := range fc.upvalues {
		if u.index == index && u.isLocal == isLocal {
			return i
		}
	}
	if len(fc.upvalues) >= maxUpvalues {
		p.error("Too many closure variables in function.")
		return 0
	}
	fc.upvalues = append(fc.upvalues, upvalueRef{index: index, isLocal: isLocal})
	return len(fc.upvalues) - 1
}
