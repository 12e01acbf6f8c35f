package ometa

import "fmt"

// Node is a tagged variant representing one compiled expression (spec.md
// §3 "IR Node"). Builder (the AST Builder, AB) is the sole vocabulary MP
// uses to describe a grammar — MP never constructs a Node directly,
// which lets the IR layer be replaced without touching MP (spec.md
// §4.3).
type Node interface {
	isNode()
}

// ApplyNode invokes another rule by name. The meta-grammar's own
// `application` production never supplies arguments (spec.md §4.4's
// grammar has no argument syntax), but the node and the underlying
// Interpreter.Apply primitive both support them, for grammars built
// programmatically rather than parsed from text.
type ApplyNode struct {
	Rule string
	Args []Node
}

// ExactlyNode matches a single literal token.
type ExactlyNode struct{ Token Value }

// SequenceNode evaluates children in order, yielding the value of the
// last one; earlier children are evaluated for effect only.
type SequenceNode struct{ Children []Node }

// ManyNode is zero-or-more: it accumulates results into a Sequence.
type ManyNode struct{ Child Node }

// Many1Node is one-or-more: the first match is required.
type Many1Node struct{ Child Node }

// OrNode is ordered choice with backtracking.
type OrNode struct{ Alternatives []Node }

// NotNode is negative lookahead: it consumes nothing on success.
type NotNode struct{ Child Node }

// BindNode evaluates Child, stores its result under Name in the current
// rule's local environment, and yields that result.
type BindNode struct {
	Child Node
	Name  string
}

// HostExprNode evaluates a precompiled host-language expression in the
// scope of the current rule's local environment; its value becomes the
// node's value.
type HostExprNode struct {
	RuleName string
	Compiled *CompiledExpr
}

func (ApplyNode) isNode()    {}
func (ExactlyNode) isNode()  {}
func (SequenceNode) isNode() {}
func (ManyNode) isNode()     {}
func (Many1Node) isNode()    {}
func (OrNode) isNode()       {}
func (NotNode) isNode()      {}
func (BindNode) isNode()     {}
func (HostExprNode) isNode() {}

// Builder is the AST Builder (AB): a factory producing IR nodes. Each
// factory method is trivial in isolation; the design point is that
// Builder is the *only* vocabulary the Meta-Parser uses, so swapping the
// IR representation never requires touching the meta-grammar (spec.md
// §4.3).
type Builder struct {
	filename string
}

// NewBuilder constructs a Builder that attributes compile errors to
// filename.
func NewBuilder(filename string) *Builder {
	return &Builder{filename: filename}
}

func (b *Builder) Apply(rule string, args ...Node) Node { return ApplyNode{Rule: rule, Args: args} }
func (b *Builder) Exactly(tok Value) Node { return ExactlyNode{Token: tok} }
func (b *Builder) Sequence(children []Node) Node { return SequenceNode{Children: children} }
func (b *Builder) Many(child Node) Node { return ManyNode{Child: child} }
func (b *Builder) Many1(child Node) Node { return Many1Node{Child: child} }
func (b *Builder) Or(alts []Node) Node { return OrNode{Alternatives: alts} }
func (b *Builder) Not(child Node) Node { return NotNode{Child: child} }
func (b *Builder) Bind(child Node, name string) Node { return BindNode{Child: child, Name: name} }

// CompileHostExpr precompiles the scanned host-expression text (from
// Interpreter.PythonExpr) into a HostExprNode. The compiled form is
// opaque to everything but the Rule Compiler (spec.md §4.3).
func (b *Builder) CompileHostExpr(ruleName, text string) (Node, error) {
	compiled, err := CompileExpr(text)
	if err != nil {
		return nil, fmt.Errorf("ometa: compiling host expression for rule %q in %s: %w", ruleName, b.filename, err)
	}
	return HostExprNode{RuleName: ruleName, Compiled: compiled}, nil
}
