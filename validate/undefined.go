package validate

import (
	"fmt"

	"github.com/dekarrin/ebnflow/ir"
)

// checkUndefinedRefs walks every production in the grammar and reports each
// Ref whose name is not in the rule name set.
func checkUndefinedRefs(g *ir.Grammar) []GrammarError {
	defined := ruleSet(g)

	var errs []GrammarError
	for _, r := range g.Rules {
		walkRefs(r.Production, func(name string) {
			if !defined.Has(name) {
				errs = append(errs, GrammarError{
					Kind:    KindUndefinedRef,
					Rules:   []string{name},
					Message: fmt.Sprintf("undefined rule '%s'", name),
				})
			}
		})
	}
	return errs
}

// walkRefs visits every Ref node reachable from p, in any position
// (leftmost or not), calling fn with its name.
func walkRefs(p ir.Production, fn func(name string)) {
	switch v := p.(type) {
	case ir.Sequence:
		for _, it := range v.Items {
			walkRefs(it, fn)
		}
	case ir.Alternation:
		for _, it := range v.Items {
			walkRefs(it, fn)
		}
	case ir.Group:
		walkRefs(v.Inner, fn)
	case ir.Repeat:
		walkRefs(v.Item, fn)
	case ir.Terminal, ir.Class:
		// no references
	case ir.Ref:
		fn(v.Name)
	}
}
