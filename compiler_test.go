package ometa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRule(t *testing.T, body Node, rules map[string]RuleFunc, input string) (Value, error) {
	t.Helper()
	if rules == nil {
		rules = map[string]RuleFunc{}
	}
	fn := CompileRule(body)
	rules["START"] = fn
	stream := NewByteStream("t", input)
	in := NewInterpreter(stream, rules)
	return fn(in)
}

func TestCompileExactly(t *testing.T) {
	b := NewBuilder("t")
	v, err := runRule(t, b.Exactly(byte('a')), nil, "a")
	require.NoError(t, err)
	assert.Equal(t, byte('a'), v)
}

func TestCompileSequence(t *testing.T) {
	b := NewBuilder("t")
	body := b.Sequence([]Node{b.Exactly(byte('a')), b.Exactly(byte('b'))})
	v, err := runRule(t, body, nil, "ab")
	require.NoError(t, err)
	assert.Equal(t, byte('b'), v, "sequence yields its last child's value")
}

func TestCompileManyAcceptsZero(t *testing.T) {
	b := NewBuilder("t")
	body := b.Many(b.Exactly(byte('a')))
	v, err := runRule(t, body, nil, "")
	require.NoError(t, err)
	assert.Equal(t, Sequence{}, v)
}

func TestCompileMany1RequiresOne(t *testing.T) {
	b := NewBuilder("t")
	body := b.Many1(b.Exactly(byte('a')))
	_, err := runRule(t, body, nil, "")
	assert.Error(t, err)
}

func TestCompileOrBacktracks(t *testing.T) {
	b := NewBuilder("t")
	body := b.Or([]Node{b.Exactly(byte('x')), b.Exactly(byte('y'))})
	v, err := runRule(t, body, nil, "y")
	require.NoError(t, err)
	assert.Equal(t, byte('y'), v)
}

func TestCompileNotLeavesInputUnconsumed(t *testing.T) {
	b := NewBuilder("t")
	body := b.Sequence([]Node{b.Not(b.Exactly(byte('a'))), b.Exactly(byte('b'))})
	v, err := runRule(t, body, nil, "b")
	require.NoError(t, err)
	assert.Equal(t, byte('b'), v)
}

func TestCompileBindStoresInEnv(t *testing.T) {
	b := NewBuilder("t")
	hostNode, err := b.CompileHostExpr("START", "x")
	require.NoError(t, err)
	body := b.Sequence([]Node{b.Bind(b.Exactly(byte('a')), "x"), hostNode})
	v, err := runRule(t, body, nil, "a")
	require.NoError(t, err)
	assert.Equal(t, byte('a'), v)
}

func TestCompileApplyDispatchesRecursively(t *testing.T) {
	b := NewBuilder("t")
	digit := b.Or([]Node{
		b.Exactly(byte('0')), b.Exactly(byte('1')), b.Exactly(byte('2')),
		b.Exactly(byte('3')), b.Exactly(byte('4')), b.Exactly(byte('5')),
		b.Exactly(byte('6')), b.Exactly(byte('7')), b.Exactly(byte('8')),
		b.Exactly(byte('9')),
	})
	rules := map[string]RuleFunc{"digit": CompileRule(digit)}
	body := b.Many1(b.Apply("digit"))
	v, err := runRule(t, body, rules, "42")
	require.NoError(t, err)
	assert.Equal(t, Sequence{byte('4'), byte('2')}, v)
}
