// Package visit implements the visitor pattern over ast.Node trees: a
// read-only Visitor for collecting information without touching the
// tree, and a MutatingVisitor for rewriting it in place.
//
// Unlike the visitor pattern familiar from languages with virtual method
// dispatch, a Go interface method promoted through an embedded struct
// does not call back into the outer type, so Walk itself (not the
// per-node hooks) owns the decision to recurse into children. Embed
// BaseVisitor (or BaseVisitorMut) to pick up no-op defaults for whichever
// hooks a particular visitor doesn't care about.
package visit

import "github.com/dekarrin/ebnflow/ast"

// Visitor observes an ast.Node tree without modifying it.
type Visitor interface {
	VisitTerminal(n ast.Terminal)
	VisitSequence(n ast.Sequence)
	VisitAlternation(n ast.Alternation)
	VisitRepetition(n ast.Repetition)
	VisitRule(n ast.Rule)
}

// Walk visits n and every descendant, depth first, calling the matching
// hook on v for each node before descending into its children.
func Walk(v Visitor, n ast.Node) {
	switch x := n.(type) {
	case ast.Terminal:
		v.VisitTerminal(x)
	case ast.Sequence:
		v.VisitSequence(x)
		for _, c := range x.Nodes {
			Walk(v, c)
		}
	case ast.Alternation:
		v.VisitAlternation(x)
		for _, c := range x.Nodes {
			Walk(v, c)
		}
	case ast.Repetition:
		v.VisitRepetition(x)
		for _, c := range x.Nodes {
			Walk(v, c)
		}
	case ast.Rule:
		v.VisitRule(x)
		Walk(v, x.Node)
	}
}

// WalkAst visits every node of a.
func WalkAst(v Visitor, a *ast.Ast) {
	Walk(v, a.Root)
}

// BaseVisitor supplies no-op hooks; embed it to implement Visitor while
// only overriding the methods a particular visitor actually needs.
type BaseVisitor struct{}

func (BaseVisitor) VisitTerminal(ast.Terminal)       {}
func (BaseVisitor) VisitSequence(ast.Sequence)       {}
func (BaseVisitor) VisitAlternation(ast.Alternation) {}
func (BaseVisitor) VisitRepetition(ast.Repetition)   {}
func (BaseVisitor) VisitRule(ast.Rule)               {}
