// Package ir defines the grammar intermediate representation consumed by
// the engine: an ordered sequence of rules, each a (name, production) pair,
// where Production is a small closed sum type (Sequence, Alternation,
// Group, Repeat, Terminal, Class, Ref).
//
// The IR is the stable boundary of this module. How a textual grammar
// surface is compiled down to these types is the job of an external
// collaborator (a code generator); this package only ever consumes
// already-built IR values.
package ir

import "github.com/dekarrin/ebnflow/span"

// Grammar is an ordered sequence of rules. The first rule is the start rule
// unless Start names a different rule explicitly.
type Grammar struct {
	Rules []Rule

	// Start optionally names the start rule by name. When nil, the first
	// rule in Rules is the start rule.
	Start *string
}

// Rule is a named production, with an optional source span for diagnostics
// pointing back at wherever this rule was defined (by the external
// generator, typically).
type Rule struct {
	Name       string
	Production Production
	Span       *span.Span
}

// GetRule returns the first rule with the given name, and whether it was
// found. Duplicate rule names are permitted (see Validator); lookups always
// resolve to the first rule in declaration order.
func (g *Grammar) GetRule(name string) (Rule, bool) {
	for _, r := range g.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// StartRule returns the grammar's start rule: the rule named by Start if
// set, otherwise the first rule in Rules. The second return is false when
// the grammar has no rules, or Start names a rule that does not exist.
func (g *Grammar) StartRule() (Rule, bool) {
	if g.Start != nil {
		return g.GetRule(*g.Start)
	}
	if len(g.Rules) == 0 {
		return Rule{}, false
	}
	return g.Rules[0], true
}

// RuleNames returns the set of names defined by this grammar, in
// declaration order with duplicates removed.
func (g *Grammar) RuleNames() []string {
	seen := make(map[string]bool, len(g.Rules))
	names := make([]string, 0, len(g.Rules))
	for _, r := range g.Rules {
		if seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		names = append(names, r.Name)
	}
	return names
}
