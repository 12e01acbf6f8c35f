package ometa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonValue is the tagged result a small JSON-like grammar below builds
// through registered host functions, rather than through Go combinator
// calls — a grammar text string stands in for what the teacher's
// json_test.go built by chaining Alt/Seq/WithAction.
type jsonValue struct {
	kind string
	num  int
	str  string
	b    bool
}

func init() {
	RegisterHostFunc("mkNum", func(args ...Value) (Value, error) {
		return jsonValue{kind: "number", num: args[0].(int)}, nil
	})
	RegisterHostFunc("mkStr", func(args ...Value) (Value, error) {
		s, _ := valueToString(args[0]).(string)
		return jsonValue{kind: "string", str: s}, nil
	})
	RegisterHostFunc("mkNull", func(args ...Value) (Value, error) {
		return jsonValue{kind: "null"}, nil
	})
	RegisterHostFunc("mkBool", func(args ...Value) (Value, error) {
		return jsonValue{kind: "bool", b: args[0].(int) != 0}, nil
	})
}

func TestJSONLikeGrammarNumber(t *testing.T) {
	text := "digit ::= '0'|'1'|'2'|'3'|'4'|'5'|'6'|'7'|'8'|'9'\n" +
		"number ::= <digit>+:a => mkNum(int(a))\n"
	g, err := Compile("t", text)
	require.NoError(t, err)

	v, err := g.Apply("number", "42")
	require.NoError(t, err)
	assert.Equal(t, jsonValue{kind: "number", num: 42}, v)
}

func TestJSONLikeGrammarNull(t *testing.T) {
	text := "jnull ::= 'n' 'u' 'l' 'l' => mkNull()\n"
	g, err := Compile("t", text)
	require.NoError(t, err)

	v, err := g.Apply("jnull", "null")
	require.NoError(t, err)
	assert.Equal(t, jsonValue{kind: "null"}, v)
}

func TestJSONLikeGrammarBool(t *testing.T) {
	text := "jtrue ::= 't' 'r' 'u' 'e' => mkBool(1)\n" +
		"jfalse ::= 'f' 'a' 'l' 's' 'e' => mkBool(0)\n"
	g, err := Compile("t", text)
	require.NoError(t, err)

	v, err := g.Apply("jtrue", "true")
	require.NoError(t, err)
	assert.Equal(t, jsonValue{kind: "bool", b: true}, v)

	v, err = g.Apply("jfalse", "false")
	require.NoError(t, err)
	assert.Equal(t, jsonValue{kind: "bool", b: false}, v)
}

func TestJSONLikeGrammarString(t *testing.T) {
	text := "strChar ::= ~'\"' <anything>\n" +
		"jstring ::= '\"' <strChar>*:a '\"' => mkStr(a)\n"
	g, err := Compile("t", text)
	require.NoError(t, err)

	v, err := g.Apply("jstring", "\"hi\"")
	require.NoError(t, err)
	assert.Equal(t, jsonValue{kind: "string", str: "hi"}, v)
}

func TestJSONLikeGrammarRejectsMalformed(t *testing.T) {
	text := "jnull ::= 'n' 'u' 'l' 'l' => mkNull()\n"
	g, err := Compile("t", text)
	require.NoError(t, err)

	_, err = g.Apply("jnull", "nul")
	assert.Error(t, err)
}
