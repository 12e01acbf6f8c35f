package ometa

import "strings"

// MetaParser (MP) is an Interpreter instance whose rule methods are
// hand-written rather than compiled, recognizing the OMeta textual
// grammar syntax and emitting IR via Builder (spec.md §4.4). It mirrors
// original_source/pymeta.py's OMetaGrammar class method-for-method:
// application, character, name, expr1 through expr4, expr, ruleValue,
// semanticAction, rulePart, rule, grammar.
//
// Where the original relies on Python exceptions unwinding through
// plain multi-statement try blocks (which, read literally, sometimes
// leaves the stream advanced past a partially-matched prefix on
// failure — e.g. rule_expr3's trailing ":" name bind, and rule_expr2's
// leading "~"), this port always brackets an optional sequence in an
// explicit Mark/Rewind pair, or routes it through Interpreter.Or. That
// is the same backtracking contract the interpreter's own primitives
// already provide; it is not a behavioral change visible to any valid
// grammar, only a defense against the original's latent partial-commit
// bug on ill-formed input.
type MetaParser struct {
	in *Interpreter
	ab *Builder
}

// ruleDef pairs a rule name with its compiled body, the Go analogue of
// the original's (name, ast) tuples.
type ruleDef struct {
	name string
	body Node
}

func (mp *MetaParser) enter(name string) func() {
	mp.in.callStack = append(mp.in.callStack, name)
	return func() { mp.in.callStack = mp.in.callStack[:len(mp.in.callStack)-1] }
}

// application ::= "<" ws name ">"
func (mp *MetaParser) application() (Node, error) {
	defer mp.enter("application")()
	if _, err := mp.in.Token("<"); err != nil {
		return nil, err
	}
	if _, err := mp.in.EatWhitespace(); err != nil {
		return nil, err
	}
	name, err := mp.name()
	if err != nil {
		return nil, err
	}
	if _, err := mp.in.Token(">"); err != nil {
		return nil, err
	}
	return mp.ab.Apply(name), nil
}

// character ::= "'" anything "'"
func (mp *MetaParser) character() (Node, error) {
	defer mp.enter("character")()
	if _, err := mp.in.Token("'"); err != nil {
		return nil, err
	}
	r, err := mp.in.Anything()
	if err != nil {
		return nil, err
	}
	if _, err := mp.in.Token("'"); err != nil {
		return nil, err
	}
	return mp.ab.Exactly(r), nil
}

// name ::= letter letterOrDigit*
func (mp *MetaParser) name() (string, error) {
	defer mp.enter("name")()
	x, err := mp.in.Letter()
	if err != nil {
		return "", err
	}
	rest, err := mp.in.Many(func() (Value, error) { return mp.in.LetterOrDigit() })
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteByte(x.(byte))
	for _, v := range rest.(Sequence) {
		sb.WriteByte(v.(byte))
	}
	return sb.String(), nil
}

// expr1 ::= application | semanticAction | character
func (mp *MetaParser) expr1() (Node, error) {
	defer mp.enter("expr1")()
	v, err := mp.in.Or(
		func() (Value, error) { return mp.application() },
		func() (Value, error) { return mp.semanticAction() },
		func() (Value, error) { return mp.character() },
	)
	if err != nil {
		return nil, err
	}
	return v.(Node), nil
}

// expr2 ::= "~" expr2 | expr1
func (mp *MetaParser) expr2() (Node, error) {
	defer mp.enter("expr2")()
	v, err := mp.in.Or(
		func() (Value, error) {
			if _, err := mp.in.Token("~"); err != nil {
				return nil, err
			}
			child, err := mp.expr2()
			if err != nil {
				return nil, err
			}
			return mp.ab.Not(child), nil
		},
		func() (Value, error) { return mp.expr1() },
	)
	if err != nil {
		return nil, err
	}
	return v.(Node), nil
}

// expr3 ::= expr2 ( "*" | "+" )? ( ":" name )?
func (mp *MetaParser) expr3() (Node, error) {
	defer mp.enter("expr3")()
	r, err := mp.expr2()
	if err != nil {
		return nil, err
	}

	mStar := mp.in.Stream.Mark()
	if _, err := mp.in.Token("*"); err == nil {
		mp.in.Stream.Unmark(mStar)
		r = mp.ab.Many(r)
	} else {
		mp.in.Stream.Rewind(mStar)
		mPlus := mp.in.Stream.Mark()
		if _, err := mp.in.Token("+"); err == nil {
			mp.in.Stream.Unmark(mPlus)
			r = mp.ab.Many1(r)
		} else {
			mp.in.Stream.Rewind(mPlus)
		}
	}

	mBind := mp.in.Stream.Mark()
	if _, err := mp.in.Exactly(byte(':')); err == nil {
		name, nerr := mp.name()
		if nerr != nil {
			mp.in.Stream.Rewind(mBind)
		} else {
			mp.in.Stream.Unmark(mBind)
			r = mp.ab.Bind(r, name)
		}
	} else {
		mp.in.Stream.Rewind(mBind)
	}

	return r, nil
}

// expr4 ::= expr3*
func (mp *MetaParser) expr4() (Node, error) {
	defer mp.enter("expr4")()
	v, err := mp.in.Many(func() (Value, error) { return mp.expr3() })
	if err != nil {
		return nil, err
	}
	seq := v.(Sequence)
	children := make([]Node, len(seq))
	for i, c := range seq {
		children[i] = c.(Node)
	}
	return mp.ab.Sequence(children), nil
}

// expr ::= expr4 ( "|" expr4 )*
func (mp *MetaParser) expr() (Node, error) {
	defer mp.enter("expr")()
	first, err := mp.expr4()
	if err != nil {
		return nil, err
	}
	alts := []Node{first}
	for {
		m := mp.in.Stream.Mark()
		if _, err := mp.in.Token("|"); err != nil {
			mp.in.Stream.Rewind(m)
			break
		}
		next, err := mp.expr4()
		if err != nil {
			mp.in.Stream.Rewind(m)
			break
		}
		mp.in.Stream.Unmark(m)
		alts = append(alts, next)
	}
	return mp.ab.Or(alts), nil
}

// ruleValue ::= "=>" hostExpr
func (mp *MetaParser) ruleValue() (string, error) {
	defer mp.enter("ruleValue")()
	if _, err := mp.in.Token("=>"); err != nil {
		return "", err
	}
	text, err := mp.in.PythonExpr()
	if err != nil {
		return "", err
	}
	return text.(string), nil
}

// semanticAction is reserved but never accepted: spec.md's Open Question
// #1 says to keep the production and always fail it, rather than
// inventing inline-action syntax.
func (mp *MetaParser) semanticAction() (Node, error) {
	defer mp.enter("semanticAction")()
	return nil, mp.in.fail("inline semantic actions are not supported")
}

// rulePart ::= name "::=" expr ruleValue?
func (mp *MetaParser) rulePart() (ruleDef, error) {
	defer mp.enter("rulePart")()
	name, err := mp.name()
	if err != nil {
		return ruleDef{}, err
	}
	if _, err := mp.in.Token("::="); err != nil {
		return ruleDef{}, err
	}
	body, err := mp.expr()
	if err != nil {
		return ruleDef{}, err
	}

	m := mp.in.Stream.Mark()
	text, err := mp.ruleValue()
	if err != nil {
		mp.in.Stream.Rewind(m)
	} else {
		mp.in.Stream.Unmark(m)
		hostNode, cerr := mp.ab.CompileHostExpr(name, text)
		if cerr != nil {
			return ruleDef{}, cerr
		}
		body = mp.ab.Sequence([]Node{body, hostNode})
	}
	return ruleDef{name: name, body: body}, nil
}

// rule ::= ws rulePart ( newline rulePart )*
func (mp *MetaParser) rule() ([]ruleDef, error) {
	defer mp.enter("rule")()
	if _, err := mp.in.EatWhitespace(); err != nil {
		return nil, err
	}
	first, err := mp.rulePart()
	if err != nil {
		return nil, err
	}
	parts := []ruleDef{first}
	for {
		m := mp.in.Stream.Mark()
		if _, err := mp.in.Newline(); err != nil {
			mp.in.Stream.Rewind(m)
			break
		}
		next, err := mp.rulePart()
		if err != nil {
			mp.in.Stream.Rewind(m)
			break
		}
		mp.in.Stream.Unmark(m)
		parts = append(parts, next)
	}
	return parts, nil
}

// grammar ::= rule*
func (mp *MetaParser) grammar() (map[string]Node, error) {
	defer mp.enter("grammar")()
	v, err := mp.in.Many(func() (Value, error) { return mp.rule() })
	if err != nil {
		return nil, err
	}
	rules := make(map[string]Node)
	for _, item := range v.(Sequence) {
		for _, rd := range item.([]ruleDef) {
			rules[rd.name] = rd.body
		}
	}
	return rules, nil
}

// ParseGrammar parses grammar text into a mapping from rule name to IR
// Node (spec.md §4.4, "MP's output is a mapping from rule name to IR
// Node"). filename is used only for diagnostics.
func ParseGrammar(filename, text string) (map[string]Node, error) {
	stream := NewByteStream(filename, text)
	in := NewInterpreter(stream, nil)
	mp := &MetaParser{in: in, ab: NewBuilder(filename)}

	rules, err := mp.grammar()
	if err != nil {
		farthest, rule := in.Farthest()
		return nil, failure(rule, farthest, "failed to parse grammar: %v", err)
	}
	// Whitespace after the last rule (such as the text's final newline) is
	// insignificant, not trailing garbage.
	in.EatWhitespace()
	if _, ok := stream.Next(); ok {
		return nil, &TrailingGarbageError{Rule: "grammar", At: stream.Loc()}
	}
	return rules, nil
}
