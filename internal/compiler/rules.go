package compiler

import "github.com/kristofer/loxgo/internal/lexer"

// Precedence orders binding power from loosest to tightest, per spec
// §5's 11-level Pratt table (NONE through PRIMARY).
type Precedence int

const (
	PrecNone       Precedence = iota
	PrecAssignment            // =
	PrecOr                    // or
	PrecAnd                   // and
	PrecEquality              // == !=
	PrecComparison            // < > <= >=
	PrecTerm                  // + -
	PrecFactor                // * /
	PrecUnary                 // ! -
	PrecCall                  // . ()
	PrecPrimary
)

// parseFn is either a prefix or infix parse action. canAssign is only
// meaningful to rules that might also produce assignment targets (the
// variable prefix rule and the dot infix rule); rules that ignore it
// still need to match the signature to live in the same table.
type parseFn func(p *Parser, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// rules is the static TokenKind -> (prefix?, infix?, precedence) map
// spec §5 calls for. Built once in init rather than as a map literal at
// package scope, because the parse functions it holds read rules back
// through getRule, which a package-level initializer would turn into an
// initialization cycle.
var rules map[lexer.TokenKind]parseRule

func init() {
	rules = map[lexer.TokenKind]parseRule{
		lexer.TokenLeftParen:    {prefix: (*Parser).grouping, infix: (*Parser).call, precedence: PrecCall},
		lexer.TokenDot:          {infix: (*Parser).dot, precedence: PrecCall},
		lexer.TokenMinus:        {prefix: (*Parser).unary, infix: (*Parser).binary, precedence: PrecTerm},
		lexer.TokenPlus:         {infix: (*Parser).binary, precedence: PrecTerm},
		lexer.TokenSlash:        {infix: (*Parser).binary, precedence: PrecFactor},
		lexer.TokenStar:         {infix: (*Parser).binary, precedence: PrecFactor},
		lexer.TokenBang:         {prefix: (*Parser).unary},
		lexer.TokenBangEqual:    {infix: (*Parser).binary, precedence: PrecEquality},
		lexer.TokenEqual:        {},
		lexer.TokenEqualEqual:   {infix: (*Parser).binary, precedence: PrecEquality},
		lexer.TokenGreater:      {infix: (*Parser).binary, precedence: PrecComparison},
		lexer.TokenGreaterEqual: {infix: (*Parser).binary, precedence: PrecComparison},
		lexer.TokenLess:         {infix: (*Parser).binary, precedence: PrecComparison},
		lexer.TokenLessEqual:    {infix: (*Parser).binary, precedence: PrecComparison},
		lexer.TokenIdentifier:   {prefix: (*Parser).variable},
		lexer.TokenString:       {prefix: (*Parser).string},
		lexer.TokenNumber:       {prefix: (*Parser).number},
		lexer.TokenAnd:          {infix: (*Parser).and_, precedence: PrecAnd},
		lexer.TokenOr:           {infix: (*Parser).or_, precedence: PrecOr},
		lexer.TokenFalse:        {prefix: (*Parser).literal},
		lexer.TokenTrue:         {prefix: (*Parser).literal},
		lexer.TokenNil:          {prefix: (*Parser).literal},
		lexer.TokenThis:         {prefix: (*Parser).this_},
	}
}

func getRule(kind lexer.TokenKind) parseRule {
	return rules[kind]
}
