package ometa

import "fmt"

// Loc identifies a position in an input stream for diagnostics. Modeled
// on the teacher's own Loc (bshepherdson-psec's parser.go), which pairs a
// source name with a human line/column; this engine tracks a plain token
// offset instead, since the Stream abstracts over arbitrary token types
// and not only text with lines.
type Loc struct {
	Source string
	Offset int
}

func (l Loc) String() string {
	if l.Source == "" {
		return fmt.Sprintf("offset %d", l.Offset)
	}
	return fmt.Sprintf("%s@%d", l.Source, l.Offset)
}

// ParseFailure is the single error kind the interpreter raises (spec.md
// §7): "this alternative did not match here". It is a control-flow
// signal caught at every decision point (Or, Many, Not, and MP's own
// ordered choices) and either retried or propagated; an uncaught
// ParseFailure at the top level is the user-visible "input did not
// match" error, annotated with the rule name attempted.
type ParseFailure struct {
	Rule string
	At   Loc
	msg  string
}

func (e *ParseFailure) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("%s: parse failed in rule %q", e.At, e.Rule)
	}
	return fmt.Sprintf("%s: %s (in rule %q)", e.At, e.msg, e.Rule)
}

func failure(rule string, at Loc, format string, args ...interface{}) *ParseFailure {
	return &ParseFailure{Rule: rule, At: at, msg: fmt.Sprintf(format, args...)}
}

// TrailingGarbageError is raised by the Grammar Factory, not the
// interpreter (spec.md §7, "trailing-garbage is a separate end-of-parse
// check"), when a rule succeeds but input remains afterward.
type TrailingGarbageError struct {
	Rule string
	At   Loc
}

func (e *TrailingGarbageError) Error() string {
	return fmt.Sprintf("%s: trailing garbage after rule %q succeeded", e.At, e.Rule)
}
