package ometa

import "strings"

// Wrapper is the user-facing convenience layer named in spec.md §1's
// Out-of-scope list ("the user-facing convenience wrapper that flattens
// results") — thin and uninteresting next to the interpreter and
// compiler, but still implemented since every end-to-end scenario in
// spec.md §8 depends on its flattening behavior. It exposes one callable
// per rule name.
type Wrapper struct {
	g *Grammar
}

// NewWrapper builds a Wrapper around a compiled Grammar.
func NewWrapper(g *Grammar) *Wrapper { return &Wrapper{g: g} }

// Rule returns a function that runs the named rule against a string and
// flattens its result.
func (w *Wrapper) Rule(name string) func(input string) (Value, error) {
	return func(input string) (Value, error) {
		result, err := w.g.Apply(name, input)
		if err != nil {
			return nil, err
		}
		return Flatten(result), nil
	}
}

// Flatten mirrors original_source/pymeta.py's HandyWrapper.doIt: it joins
// a Sequence into a string only when every element is a single byte
// (Python's ''.join on a list of one-character strings); any other Value
// — including a Sequence with a non-byte element — passes through
// unchanged. A lone byte result (e.g. a rule whose body is a single
// Exactly or a <anything> match) is the length-1 case of the same
// ''.join behavior, so it is turned into a one-character string too.
func Flatten(v Value) Value {
	if b, ok := v.(byte); ok {
		return string(b)
	}
	seq, ok := v.(Sequence)
	if !ok {
		return v
	}
	var sb strings.Builder
	for _, e := range seq {
		b, ok := e.(byte)
		if !ok {
			return v
		}
		sb.WriteByte(b)
	}
	return sb.String()
}
