package validate

import (
	"fmt"
	"strings"

	"github.com/dekarrin/ebnflow/internal/collect"
	"github.com/dekarrin/ebnflow/ir"
)

// checkLeftRecursion runs a DFS along leftmost derivations from every rule,
// reporting a "left recursion detected" error for each cycle found. Repeat
// with Min==0 is nullable and does not count as a leftmost contribution
// (see spec §4.1 for the rationale behind this simplification).
//
// The message for each detected cycle is built from the DFS path at the
// exact moment the repeated rule is encountered, not reconstructed after
// the traversal backtracks - by the time a caller frame has popped its own
// entry, the path no longer reflects the cycle that triggered the report.
func checkLeftRecursion(g *ir.Grammar) []GrammarError {
	ruleProd := make(map[string]ir.Production, len(g.Rules))
	for _, r := range g.Rules {
		if _, ok := ruleProd[r.Name]; !ok {
			ruleProd[r.Name] = r.Production
		}
	}

	var errs []GrammarError
	for _, r := range g.Rules {
		lr := &leftRecursionDFS{ruleProd: ruleProd, onPath: collect.NewSet[string]()}
		lr.visit(r.Name)
		errs = append(errs, lr.found...)
	}
	return errs
}

type leftRecursionDFS struct {
	ruleProd map[string]ir.Production
	onPath   *collect.Set[string]
	path     []string
	found    []GrammarError
}

func (d *leftRecursionDFS) visit(ruleName string) bool {
	d.path = append(d.path, ruleName)

	if d.onPath.Has(ruleName) {
		cycle := append([]string(nil), d.path...)
		d.found = append(d.found, GrammarError{
			Kind:    KindLeftRecursion,
			Rules:   cycle,
			Message: fmt.Sprintf("left recursion detected: %s", strings.Join(cycle, " -> ")),
		})
		d.path = d.path[:len(d.path)-1]
		return true
	}

	prod, ok := d.ruleProd[ruleName]
	if !ok {
		d.path = d.path[:len(d.path)-1]
		return false
	}

	d.onPath.Add(ruleName)
	result := d.leftmost(prod)
	d.onPath.Remove(ruleName)

	d.path = d.path[:len(d.path)-1]
	return result
}

func (d *leftRecursionDFS) leftmost(p ir.Production) bool {
	switch v := p.(type) {
	case ir.Sequence:
		if len(v.Items) == 0 {
			return false
		}
		return d.leftmost(v.Items[0])
	case ir.Alternation:
		any := false
		for _, alt := range v.Items {
			if d.leftmost(alt) {
				any = true
			}
		}
		return any
	case ir.Group:
		return d.leftmost(v.Inner)
	case ir.Repeat:
		if v.Quant.Min == 0 {
			return false
		}
		return d.leftmost(v.Item)
	case ir.Terminal, ir.Class:
		return false
	case ir.Ref:
		return d.visit(v.Name)
	}
	return false
}
