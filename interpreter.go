package ometa

import (
	"fmt"
	"strings"
)

// RuleFunc is a compiled rule body: a zero-argument method on the
// interpreter that returns the rule's result value and may fail
// (spec.md §4.2, "Rule invocation contract"). Arguments, when present,
// are communicated through the stream: the caller pushes them in Apply,
// the callee retrieves them by calling Anything as its first matches.
type RuleFunc func(in *Interpreter) (Value, error)

// Interpreter is the abstract parsing machine (spec.md §4.2): the
// primitive combinators, operating against one Stream and one rule
// table. All primitives are methods here; they read and mutate the
// Stream and signal failure with a *ParseFailure.
type Interpreter struct {
	Stream *Stream
	Rules  map[string]RuleFunc

	callStack []string

	// Farthest successful-consumption position seen across the whole
	// parse, used only for diagnostics (spec.md §7: "annotated with ...
	// the position of the farthest successful consumption").
	farthest     Loc
	farthestRule string
}

// NewInterpreter builds an Interpreter over stream, dispatching named
// rule applications through rules.
func NewInterpreter(stream *Stream, rules map[string]RuleFunc) *Interpreter {
	return &Interpreter{Stream: stream, Rules: rules, farthest: stream.Loc()}
}

func (in *Interpreter) currentRule() string {
	if len(in.callStack) == 0 {
		return "<root>"
	}
	return in.callStack[len(in.callStack)-1]
}

func (in *Interpreter) fail(format string, args ...interface{}) error {
	loc := in.Stream.Loc()
	if loc.Offset >= in.farthest.Offset {
		in.farthest = loc
		in.farthestRule = in.currentRule()
	}
	return failure(in.currentRule(), loc, format, args...)
}

// Farthest reports the farthest position reached and the rule that was
// executing there, for use in a top-level error message.
func (in *Interpreter) Farthest() (Loc, string) {
	return in.farthest, in.farthestRule
}

// builtinRules are the primitives a grammar can invoke by name through
// `<name>` application syntax (spec.md §8's `notA ::= ~'a' <anything>`),
// distinct from the word-rules a grammar author writes. A user rule of
// the same name takes precedence, mirroring the original's reflection
// lookup of rule_<name>, where a user-defined method and a built-in
// method occupy the same namespace.
var builtinRules = map[string]RuleFunc{
	"anything":      func(in *Interpreter) (Value, error) { return in.Anything() },
	"letter":        func(in *Interpreter) (Value, error) { return in.Letter() },
	"letterOrDigit": func(in *Interpreter) (Value, error) { return in.LetterOrDigit() },
}

// Apply invokes another rule by name. Each argument is pushed back onto
// the stream in reverse order first, so the callee can retrieve them (in
// the order given) via Anything (spec.md §4.2).
func (in *Interpreter) Apply(name string, args ...Value) (Value, error) {
	rule, ok := in.Rules[name]
	if !ok {
		rule, ok = builtinRules[name]
	}
	if !ok {
		panic(fmt.Sprintf("ometa: no rule named %q", name))
	}
	for i := len(args) - 1; i >= 0; i-- {
		in.Stream.Push(args[i])
	}
	in.callStack = append(in.callStack, name)
	defer func() { in.callStack = in.callStack[:len(in.callStack)-1] }()
	return rule(in)
}

// Anything matches rule_anything: returns one token, failing on
// end-of-input.
func (in *Interpreter) Anything() (Value, error) {
	tok, ok := in.Stream.Next()
	if !ok {
		return nil, in.fail("unexpected end of input")
	}
	return tok, nil
}

// Exactly reads one token; if it equals want, returns it, else pushes it
// back and fails.
func (in *Interpreter) Exactly(want Value) (Value, error) {
	tok, ok := in.Stream.Next()
	if !ok {
		return nil, in.fail("expected %v, got end of input", want)
	}
	if tok == want {
		return tok, nil
	}
	in.Stream.Prev()
	return nil, in.fail("expected %v", want)
}

// Many builds a Sequence from initial, then repeatedly: marks, runs f; on
// success, unmarks and appends the result; on failure, rewinds and
// stops. Many always succeeds.
func (in *Interpreter) Many(f func() (Value, error), initial ...Value) (Value, error) {
	results := append(Sequence{}, initial...)
	for {
		m := in.Stream.Mark()
		v, err := f()
		if err != nil {
			in.Stream.Rewind(m)
			return results, nil
		}
		in.Stream.Unmark(m)
		results = append(results, v)
	}
}

// Many1 requires the first application of f to succeed, calling it
// unguarded (matching original_source/pymeta.py's many(fn, fn()), where
// the seed value is produced outside of any mark/rewind), then delegates
// the rest to Many.
func (in *Interpreter) Many1(f func() (Value, error)) (Value, error) {
	first, err := f()
	if err != nil {
		return nil, err
	}
	return in.Many(f, first)
}

// Or tries each alternative under its own mark; the first success
// commits and returns, the rest rewind and try the next; if all fail, Or
// fails.
func (in *Interpreter) Or(alts ...func() (Value, error)) (Value, error) {
	for _, f := range alts {
		m := in.Stream.Mark()
		v, err := f()
		if err == nil {
			in.Stream.Unmark(m)
			return v, nil
		}
		in.Stream.Rewind(m)
	}
	return nil, in.fail("no alternative matched")
}

// Not evaluates f under a mark that is always rewound, so success never
// leaks consumption; if f fails, Not succeeds without consuming, if f
// succeeds, Not fails.
func (in *Interpreter) Not(f func() (Value, error)) (Value, error) {
	m := in.Stream.Mark()
	_, err := f()
	in.Stream.Rewind(m)
	if err != nil {
		return true, nil
	}
	return nil, in.fail("negative lookahead matched")
}

// EatWhitespace consumes while the current token is whitespace; always
// succeeds; pushes back the first non-whitespace token.
func (in *Interpreter) EatWhitespace() (Value, error) {
	for {
		tok, ok := in.Stream.Next()
		if !ok {
			break
		}
		if b, isByte := tok.(byte); isByte && isSpace(b) {
			continue
		}
		in.Stream.Prev()
		break
	}
	return true, nil
}

// Newline consumes trailing spaces up to and including a
// line-terminator, then any following run of line-terminators (so a
// CRLF pair is treated as one newline event, per spec.md's Open
// Question on CR/LF); fails if a non-whitespace, non-newline token is
// encountered before a terminator.
func (in *Interpreter) Newline() (Value, error) {
	for {
		tok, ok := in.Stream.Next()
		if !ok {
			return nil, in.fail("expected newline, got end of input")
		}
		b, isByte := tok.(byte)
		if isByte && (b == '\r' || b == '\n') {
			break
		}
		if isByte && isSpace(b) {
			continue
		}
		in.Stream.Prev()
		return nil, in.fail("expected newline")
	}
	for {
		tok, ok := in.Stream.Next()
		if !ok {
			break
		}
		if b, isByte := tok.(byte); isByte && (b == '\r' || b == '\n') {
			continue
		}
		in.Stream.Prev()
		break
	}
	return true, nil
}

// Token first eats whitespace, then matches each character of s exactly;
// failure anywhere rewinds to the start of the call.
func (in *Interpreter) Token(s string) (Value, error) {
	m := in.Stream.Mark()
	if _, err := in.EatWhitespace(); err != nil {
		in.Stream.Rewind(m)
		return nil, err
	}
	for i := 0; i < len(s); i++ {
		if _, err := in.Exactly(s[i]); err != nil {
			in.Stream.Rewind(m)
			return nil, err
		}
	}
	in.Stream.Unmark(m)
	return s, nil
}

// Letter matches a single alphabetic character, pushing back on failure.
func (in *Interpreter) Letter() (Value, error) {
	tok, ok := in.Stream.Next()
	if !ok {
		return nil, in.fail("expected letter, got end of input")
	}
	if b, isByte := tok.(byte); isByte && isAlpha(b) {
		return b, nil
	}
	in.Stream.Prev()
	return nil, in.fail("expected letter")
}

// LetterOrDigit matches a single alphanumeric character or underscore.
func (in *Interpreter) LetterOrDigit() (Value, error) {
	tok, ok := in.Stream.Next()
	if !ok {
		return nil, in.fail("expected letter or digit, got end of input")
	}
	if b, isByte := tok.(byte); isByte && (isAlpha(b) || isDigit(b) || b == '_') {
		return b, nil
	}
	in.Stream.Prev()
	return nil, in.fail("expected letter or digit")
}

// PythonExpr scans a balanced host-language expression: a run of
// characters terminated by a newline outside any bracketing (), [], {}
// or string "…"/'…'. Bracket and quote tracking is literal; a closing
// bracket without a matching opener fails, an unclosed bracket at
// newline fails. Returns the trimmed expression text.
//
// Mirrors original_source/pymeta.py's pythonExpr exactly, including its
// lack of escape-sequence handling inside quoted strings (spec.md's Open
// Question #3): a backslash immediately before the closing quote does
// not protect it, matching the original's behavior.
func (in *Interpreter) PythonExpr() (Value, error) {
	closerFor := map[byte]byte{'(': ')', '[': ']', '{': '}'}
	var expr []byte
	var stack []byte
	for {
		tokv, ok := in.Stream.Next()
		if !ok {
			if len(stack) > 0 {
				return nil, in.fail("unclosed %q in host expression", string(stack[len(stack)-1]))
			}
			break
		}
		c := tokv.(byte)
		if (c == '\r' || c == '\n') && len(stack) == 0 {
			in.Stream.Prev()
			break
		}
		expr = append(expr, c)
		if closer, isOpen := closerFor[c]; isOpen {
			stack = append(stack, closer)
		} else if len(stack) > 0 && c == stack[len(stack)-1] {
			stack = stack[:len(stack)-1]
		} else if isCloser(c) {
			return nil, in.fail("unmatched %q in host expression", string(c))
		} else if c == '"' || c == '\'' {
			for {
				sc, ok := in.Stream.Next()
				if !ok {
					return nil, in.fail("unterminated string in host expression")
				}
				sb := sc.(byte)
				expr = append(expr, sb)
				if sb == c {
					break
				}
			}
		}
	}
	if len(stack) > 0 {
		return nil, in.fail("unclosed bracket in host expression")
	}
	return strings.TrimSpace(string(expr)), nil
}

func isCloser(c byte) bool { return c == ')' || c == ']' || c == '}' }
func isSpace(b byte) bool  { return b == ' ' || b == '\t' || b == '\r' || b == '\n' }
func isAlpha(b byte) bool  { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isDigit(b byte) bool  { return b >= '0' && b <= '9' }
