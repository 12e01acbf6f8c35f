package ometa

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/google/uuid"
)

// Grammar is the Grammar Factory's product (GF, spec.md §4.6): a
// compiled rule table plus the metadata needed to apply a named rule to
// fresh input. Building one runs the full pipeline once — grammar text
// through MP, each rule's IR through RC — so applying a rule repeatedly
// afterward never re-parses the grammar itself.
type Grammar struct {
	name  string
	rules map[string]RuleFunc
	names *treeset.Set
	id    uuid.UUID
}

// Compile parses grammarText with MP, lowers every rule's IR with RC,
// and assembles a Grammar whose rule table is shared by every
// invocation — including recursive and mutually-recursive rule
// references, since Interpreter.Apply dispatches through this same map
// (spec.md §4.6, "assembles a new grammar type whose instances carry ...
// all rule methods").
func Compile(name, grammarText string) (*Grammar, error) {
	id := uuid.New()
	log := compileLogger(name, id)
	log.Info().Msg("compiling grammar")

	ir, err := ParseGrammar(name, grammarText)
	if err != nil {
		log.Error().Err(err).Msg("grammar parse failed")
		return nil, err
	}

	rules := make(map[string]RuleFunc, len(ir))
	names := treeset.NewWith(utils.StringComparator)
	for ruleName, body := range ir {
		rules[ruleName] = CompileRule(body)
		names.Add(ruleName)
	}

	log.Info().Int("ruleCount", len(rules)).Msg("grammar compiled")
	return &Grammar{name: name, rules: rules, names: names, id: id}, nil
}

// RuleNames returns the grammar's declared rule names, sorted.
func (g *Grammar) RuleNames() []string {
	out := make([]string, 0, g.names.Size())
	for _, v := range g.names.Values() {
		out = append(out, v.(string))
	}
	return out
}

// Apply runs the named rule against input and asserts the stream is
// exhausted afterward — a successful partial match followed by leftover
// input is a failure (spec.md §7, "trailing garbage"). This is the core
// entry point; Wrapper.Rule builds a flattening convenience layer on
// top of it.
func (g *Grammar) Apply(rule, input string) (Value, error) {
	fn, ok := g.rules[rule]
	if !ok {
		return nil, fmt.Errorf("ometa: grammar %q has no rule named %q", g.name, rule)
	}

	id := uuid.New()
	log := parseLogger(g.name, id, rule)
	log.Debug().Msg("starting parse")

	stream := NewByteStream(g.name, input)
	in := NewInterpreter(stream, g.rules)

	result, err := fn(in)
	if err != nil {
		farthest, farRule := in.Farthest()
		log.Debug().Str("farthestRule", farRule).Msg("parse failed")
		return nil, failure(farRule, farthest, "rule %q failed: %v", rule, err)
	}
	if _, ok := stream.Next(); ok {
		log.Debug().Msg("trailing garbage after successful parse")
		return nil, &TrailingGarbageError{Rule: rule, At: stream.Loc()}
	}
	log.Debug().Msg("parse succeeded")
	return result, nil
}
