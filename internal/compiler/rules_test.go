package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kristofer/loxgo/internal/lexer"
)

func TestGetRuleReturnsPrecedenceForKnownTokens(t *testing.T) {
	require.Equal(t, PrecTerm, getRule(lexer.TokenPlus).precedence)
	require.Equal(t, PrecFactor, getRule(lexer.TokenStar).precedence)
	require.Equal(t, PrecComparison, getRule(lexer.TokenLess).precedence)
	require.Equal(t, PrecEquality, getRule(lexer.TokenEqualEqual).precedence)
	require.Equal(t, PrecAnd, getRule(lexer.TokenAnd).precedence)
	require.Equal(t, PrecOr, getRule(lexer.TokenOr).precedence)
}

func TestGetRuleHasNoInfixForAssignment(t *testing.T) {
	rule := getRule(lexer.TokenEqual)
	require.Nil(t, rule.infix)
	require.Nil(t, rule.prefix)
	require.Equal(t, PrecNone, rule.precedence)
}

func TestGetRuleUnknownTokenHasNoRule(t *testing.T) {
	rule := getRule(lexer.TokenEOF)
	require.Nil(t, rule.prefix)
	require.Nil(t, rule.infix)
}

func TestGetRulePrefixesArePresentForLiterals(t *testing.T) {
	require.NotNil(t, getRule(lexer.TokenNumber).prefix)
	require.NotNil(t, getRule(lexer.TokenString).prefix)
	require.NotNil(t, getRule(lexer.TokenTrue).prefix)
	require.NotNil(t, getRule(lexer.TokenFalse).prefix)
	require.NotNil(t, getRule(lexer.TokenNil).prefix)
	require.NotNil(t, getRule(lexer.TokenIdentifier).prefix)
	require.NotNil(t, getRule(lexer.TokenThis).prefix)
}

func TestGetRuleMinusHasBothPrefixAndInfix(t *testing.T) {
	rule := getRule(lexer.TokenMinus)
	require.NotNil(t, rule.prefix, "unary negation")
	require.NotNil(t, rule.infix, "binary subtraction")
	require.Equal(t, PrecTerm, rule.precedence)
}

func TestGetRuleDotAndCallShareCallPrecedence(t *testing.T) {
	require.Equal(t, PrecCall, getRule(lexer.TokenDot).precedence)
	require.Equal(t, PrecCall, getRule(lexer.TokenLeftParen).precedence)
}
