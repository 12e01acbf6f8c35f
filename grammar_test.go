package ometa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammarDigitFlattensLoneByte(t *testing.T) {
	g, err := Compile("t", "digit ::= '0'|'1'|'2'|'3'|'4'|'5'|'6'|'7'|'8'|'9'\n")
	require.NoError(t, err)

	v, err := NewWrapper(g).Rule("digit")("7")
	require.NoError(t, err)
	assert.Equal(t, "7", v)

	_, err = NewWrapper(g).Rule("digit")("a")
	assert.Error(t, err)

	_, err = NewWrapper(g).Rule("digit")("")
	assert.Error(t, err)
}

func TestGrammarNumAcceptsDigitsOnly(t *testing.T) {
	g, err := Compile("t", "digit ::= '0'|'1'|'2'|'3'|'4'|'5'|'6'|'7'|'8'|'9'\nnum ::= <digit>+\n")
	require.NoError(t, err)

	w := NewWrapper(g)
	num := w.Rule("num")

	v, err := num("12345")
	require.NoError(t, err)
	assert.Equal(t, "12345", v)

	_, err = num("12a")
	assert.Error(t, err, "trailing non-digit must fail as trailing garbage")
}

func TestGrammarGreetSkipsWhitespace(t *testing.T) {
	// A bare (action-less) sequence yields its last child's value, per
	// the grounded sequence semantics (compiler.go's SequenceNode); an
	// explicit action is the unambiguous way to produce "hi" rather than
	// the trailing <ws> match.
	text := "ws ::= ' '*\ngreet ::= <ws> 'h' 'i' <ws> => \"hi\"\n"
	g, err := Compile("t", text)
	require.NoError(t, err)

	v, err := NewWrapper(g).Rule("greet")("   hi   ")
	require.NoError(t, err)
	assert.Equal(t, "hi", v)
}

func TestGrammarPairBindsAndBuildsTuple(t *testing.T) {
	text := "pair ::= <letter>:a <letter>:b => (a, b)\n"
	g, err := Compile("t", text)
	require.NoError(t, err)

	v, err := g.Apply("pair", "xy")
	require.NoError(t, err)
	assert.Equal(t, Tuple{byte('x'), byte('y')}, v)
}

func TestGrammarExprEvaluatesArithmetic(t *testing.T) {
	text := "digit ::= '0'|'1'|'2'|'3'|'4'|'5'|'6'|'7'|'8'|'9'\n" +
		"num ::= <digit>+\n" +
		"expr ::= <num>:a '+' <num>:b => int(a) + int(b)\n"
	g, err := Compile("t", text)
	require.NoError(t, err)

	v, err := g.Apply("expr", "12+30")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestGrammarNotAEnforcesLookahead(t *testing.T) {
	text := "notA ::= ~'a' <anything>\n"
	g, err := Compile("t", text)
	require.NoError(t, err)

	v, err := NewWrapper(g).Rule("notA")("b")
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	_, err = g.Apply("notA", "a")
	assert.Error(t, err)
}

func TestGrammarUnknownRuleErrors(t *testing.T) {
	g, err := Compile("t", "digit ::= '0'\n")
	require.NoError(t, err)

	_, err = g.Apply("nope", "0")
	assert.Error(t, err)
}

func TestGrammarRuleNamesSorted(t *testing.T) {
	g, err := Compile("t", "b ::= 'x'\na ::= 'y'\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, g.RuleNames())
}
