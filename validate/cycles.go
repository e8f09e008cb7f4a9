package validate

import (
	"fmt"
	"strings"

	"github.com/dekarrin/ebnflow/internal/collect"
	"github.com/dekarrin/ebnflow/ir"
)

// checkPureRefCycles builds the directed graph where an edge A -> B exists
// iff A's production contains Ref{B} anywhere (not only leftmost), then
// three-colors it with DFS. A back-edge closes a cycle; the cycle is only
// reported if every rule on it is a pure reference with no Terminal or
// Class anywhere in its production (a cycle with at least one terminal
// makes progress each time around and is a legitimate expression grammar).
func checkPureRefCycles(g *ir.Grammar) []GrammarError {
	ruleProd := make(map[string]ir.Production, len(g.Rules))
	for _, r := range g.Rules {
		if _, ok := ruleProd[r.Name]; !ok {
			ruleProd[r.Name] = r.Production
		}
	}

	d := &cycleDFS{
		ruleProd:       ruleProd,
		visiting:       collect.NewSet[string](),
		fullyProcessed: collect.NewSet[string](),
	}
	for _, r := range g.Rules {
		if d.fullyProcessed.Has(r.Name) {
			continue
		}
		d.visit(r.Name)
	}
	return d.found
}

type cycleDFS struct {
	ruleProd       map[string]ir.Production
	visiting       *collect.Set[string]
	fullyProcessed *collect.Set[string]
	path           []string
	found          []GrammarError
}

func (d *cycleDFS) visit(ruleName string) bool {
	if d.fullyProcessed.Has(ruleName) {
		return false
	}

	if d.visiting.Has(ruleName) {
		start := 0
		for i, n := range d.path {
			if n == ruleName {
				start = i
				break
			}
		}
		cycleMembers := d.path[start:]
		isPure := d.isPureReferenceCycle(cycleMembers)
		if isPure {
			cycle := append(append([]string(nil), cycleMembers...), ruleName)
			d.found = append(d.found, GrammarError{
				Kind:    KindCyclicPureRef,
				Rules:   cycle,
				Message: fmt.Sprintf("cyclic dependency detected: %s", strings.Join(cycle, " -> ")),
			})
		}
		return isPure
	}

	d.path = append(d.path, ruleName)
	d.visiting.Add(ruleName)

	prod, ok := d.ruleProd[ruleName]
	if !ok {
		d.visiting.Remove(ruleName)
		d.path = d.path[:len(d.path)-1]
		return false
	}

	var refs []string
	collectRefs(prod, &refs)

	found := false
	for _, ref := range refs {
		if d.visit(ref) {
			found = true
		}
	}

	d.visiting.Remove(ruleName)
	d.fullyProcessed.Add(ruleName)
	d.path = d.path[:len(d.path)-1]
	return found
}

// isPureReferenceCycle reports whether every rule in members (the portion
// of the DFS stack that forms the closed cycle) has zero Terminal or Class
// nodes anywhere in its production.
func (d *cycleDFS) isPureReferenceCycle(members []string) bool {
	for _, name := range members {
		prod, ok := d.ruleProd[name]
		if !ok {
			continue
		}
		if hasTerminal(prod) {
			return false
		}
	}
	return true
}

func hasTerminal(p ir.Production) bool {
	switch v := p.(type) {
	case ir.Sequence:
		for _, it := range v.Items {
			if hasTerminal(it) {
				return true
			}
		}
		return false
	case ir.Alternation:
		for _, it := range v.Items {
			if hasTerminal(it) {
				return true
			}
		}
		return false
	case ir.Group:
		return hasTerminal(v.Inner)
	case ir.Repeat:
		return hasTerminal(v.Item)
	case ir.Terminal, ir.Class:
		return true
	case ir.Ref:
		return false
	}
	return false
}

func collectRefs(p ir.Production, refs *[]string) {
	switch v := p.(type) {
	case ir.Sequence:
		for _, it := range v.Items {
			collectRefs(it, refs)
		}
	case ir.Alternation:
		for _, it := range v.Items {
			collectRefs(it, refs)
		}
	case ir.Group:
		collectRefs(v.Inner, refs)
	case ir.Repeat:
		collectRefs(v.Item, refs)
	case ir.Terminal, ir.Class:
	case ir.Ref:
		*refs = append(*refs, v.Name)
	}
}
