// Package validate performs static analysis over a grammar IR: undefined
// rule references, left recursion, and pure-reference (infinite, no
// progress) cycles. All three analyses run to completion and report every
// violation found rather than stopping at the first.
package validate

import (
	"fmt"

	"github.com/dekarrin/ebnflow/internal/collect"
	"github.com/dekarrin/ebnflow/ir"
)

// GrammarError is a single static-validation failure. Message is always
// the same string Validate would have placed in its return slice; Kind and
// Rules let callers that want structure (e.g. a build tool reporting one
// diagnostic per offending rule) avoid re-parsing Message.
type GrammarError struct {
	Kind    string
	Rules   []string
	Message string
}

func (e GrammarError) Error() string {
	return e.Message
}

// Kinds of GrammarError.
const (
	KindEmptyGrammar    = "empty_grammar"
	KindMissingStart    = "missing_start"
	KindUndefinedRef    = "undefined_ref"
	KindLeftRecursion   = "left_recursion"
	KindCyclicPureRef   = "cyclic_pure_ref"
	KindDuplicateRuleID = "duplicate_rule"
)

// Validate runs all static analyses over g and returns every error message
// found. An empty grammar short-circuits with a single "grammar has no
// rules" message. Validate is idempotent: calling it twice on the same
// Grammar yields the same messages in the same order.
func Validate(g *ir.Grammar) []string {
	errs := ValidateErrors(g)
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return msgs
}

// ValidateErrors is Validate with structured results instead of plain
// strings.
func ValidateErrors(g *ir.Grammar) []GrammarError {
	var errs []GrammarError

	if len(g.Rules) == 0 {
		return []GrammarError{{Kind: KindEmptyGrammar, Message: "grammar has no rules"}}
	}

	if g.Start != nil {
		if _, ok := g.GetRule(*g.Start); !ok {
			errs = append(errs, GrammarError{
				Kind:    KindMissingStart,
				Rules:   []string{*g.Start},
				Message: fmt.Sprintf("start rule %q not found", *g.Start),
			})
		}
	}

	errs = append(errs, checkUndefinedRefs(g)...)
	errs = append(errs, checkLeftRecursion(g)...)
	errs = append(errs, checkPureRefCycles(g)...)

	return errs
}

func ruleSet(g *ir.Grammar) *collect.Set[string] {
	names := collect.NewSet[string]()
	for _, r := range g.Rules {
		names.Add(r.Name)
	}
	return names
}
