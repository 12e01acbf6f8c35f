package ometa

import "fmt"

// evalFunc is the lowered form of a Node: a function of the interpreter
// and the current rule's local environment. Splitting it from RuleFunc
// lets every IR node share one environment across an entire rule body,
// including across nested Many/Or/Not thunks.
type evalFunc func(in *Interpreter, env map[string]Value) (Value, error)

// CompileRule lowers an IR Node into an executable RuleFunc (spec.md
// §4.5, Rule Compiler). Every rule body evaluates in a fresh local
// environment, allocated here once per invocation.
func CompileRule(body Node) RuleFunc {
	eval := lower(body)
	return func(in *Interpreter) (Value, error) {
		env := make(map[string]Value)
		return eval(in, env)
	}
}

// lower is the heart of RC. The critical design decision is thunking:
// Many, Or, and Not need to retry their subexpressions, so their
// children are lowered once (at compile time) and then wrapped, at
// evaluation time, as zero-argument closures that capture the live
// environment and re-invoke the lowered child on every retry. Evaluating
// a child once and passing its value would be incorrect: backtracking
// requires re-running the child against the rewound stream.
func lower(n Node) evalFunc {
	switch node := n.(type) {
	case ApplyNode:
		argFns := make([]evalFunc, len(node.Args))
		for i, a := range node.Args {
			argFns[i] = lower(a)
		}
		return func(in *Interpreter, env map[string]Value) (Value, error) {
			args := make([]Value, len(argFns))
			for i, argFn := range argFns {
				v, err := argFn(in, env)
				if err != nil {
					return nil, err
				}
				args[i] = v
			}
			return in.Apply(node.Rule, args...)
		}

	case ExactlyNode:
		return func(in *Interpreter, env map[string]Value) (Value, error) {
			return in.Exactly(node.Token)
		}

	case SequenceNode:
		children := make([]evalFunc, len(node.Children))
		for i, c := range node.Children {
			children[i] = lower(c)
		}
		return func(in *Interpreter, env map[string]Value) (Value, error) {
			var last Value
			for _, child := range children {
				v, err := child(in, env)
				if err != nil {
					return nil, err
				}
				last = v
			}
			return last, nil
		}

	case ManyNode:
		child := lower(node.Child)
		return func(in *Interpreter, env map[string]Value) (Value, error) {
			return in.Many(func() (Value, error) { return child(in, env) })
		}

	case Many1Node:
		child := lower(node.Child)
		return func(in *Interpreter, env map[string]Value) (Value, error) {
			return in.Many1(func() (Value, error) { return child(in, env) })
		}

	case OrNode:
		alts := make([]evalFunc, len(node.Alternatives))
		for i, a := range node.Alternatives {
			alts[i] = lower(a)
		}
		return func(in *Interpreter, env map[string]Value) (Value, error) {
			thunks := make([]func() (Value, error), len(alts))
			for i := range alts {
				alt := alts[i]
				thunks[i] = func() (Value, error) { return alt(in, env) }
			}
			return in.Or(thunks...)
		}

	case NotNode:
		child := lower(node.Child)
		return func(in *Interpreter, env map[string]Value) (Value, error) {
			return in.Not(func() (Value, error) { return child(in, env) })
		}

	case BindNode:
		child := lower(node.Child)
		name := node.Name
		return func(in *Interpreter, env map[string]Value) (Value, error) {
			v, err := child(in, env)
			if err != nil {
				return nil, err
			}
			env[name] = v
			return v, nil
		}

	case HostExprNode:
		compiled := node.Compiled
		return func(in *Interpreter, env map[string]Value) (Value, error) {
			return compiled.Eval(env)
		}

	default:
		panic(fmt.Sprintf("ometa: unknown IR node %T", n))
	}
}
