package visit

import "github.com/dekarrin/ebnflow/ast"

// MutatingVisitor rewrites an ast.Node tree in place.
type MutatingVisitor interface {
	VisitTerminal(n *ast.Terminal)
	VisitSequence(n *ast.Sequence)
	VisitAlternation(n *ast.Alternation)
	VisitRepetition(n *ast.Repetition)
	VisitRule(n *ast.Rule)
}

// WalkMut visits *n and every descendant, depth first, calling the
// matching hook on v before descending into children, and writing any
// changes back into *n once the subtree has been processed.
func WalkMut(v MutatingVisitor, n *ast.Node) {
	switch x := (*n).(type) {
	case ast.Terminal:
		v.VisitTerminal(&x)
		*n = x
	case ast.Sequence:
		v.VisitSequence(&x)
		for i := range x.Nodes {
			WalkMut(v, &x.Nodes[i])
		}
		*n = x
	case ast.Alternation:
		v.VisitAlternation(&x)
		for i := range x.Nodes {
			WalkMut(v, &x.Nodes[i])
		}
		*n = x
	case ast.Repetition:
		v.VisitRepetition(&x)
		for i := range x.Nodes {
			WalkMut(v, &x.Nodes[i])
		}
		*n = x
	case ast.Rule:
		v.VisitRule(&x)
		WalkMut(v, &x.Node)
		*n = x
	}
}

// WalkAstMut visits and rewrites every node of a.
func WalkAstMut(v MutatingVisitor, a *ast.Ast) {
	WalkMut(v, &a.Root)
}

// BaseVisitorMut supplies no-op hooks; embed it to implement
// MutatingVisitor while only overriding the methods a particular visitor
// actually needs.
type BaseVisitorMut struct{}

func (BaseVisitorMut) VisitTerminal(*ast.Terminal)       {}
func (BaseVisitorMut) VisitSequence(*ast.Sequence)       {}
func (BaseVisitorMut) VisitAlternation(*ast.Alternation) {}
func (BaseVisitorMut) VisitRepetition(*ast.Repetition)   {}
func (BaseVisitorMut) VisitRule(*ast.Rule)               {}
