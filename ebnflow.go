// Package ebnflow provides streaming, non-recursive parsing against
// EBNF-style grammars: validate a grammar once, then drive an Engine over
// any byte source to get a stream of parse events, or build a complete
// Ast in one call when the input is small enough to hold in memory.
package ebnflow

import (
	"io"

	"github.com/dekarrin/ebnflow/ast"
	"github.com/dekarrin/ebnflow/engine"
	"github.com/dekarrin/ebnflow/event"
	"github.com/dekarrin/ebnflow/ir"
	"github.com/dekarrin/ebnflow/validate"
)

// defaultCache memoizes Validate results across calls sharing a Grammar
// value (by content fingerprint), so repeatedly parsing with the same
// generated grammar doesn't re-run structural checks every time.
var defaultCache validate.Cache

// Validate runs every static check (undefined references, left
// recursion, pure reference cycles, a resolvable start rule) against
// grammar and returns the human-readable messages, if any. Results are
// cached by grammar content fingerprint.
func Validate(grammar *ir.Grammar) []string {
	errs := defaultCache.Validate(grammar)
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return msgs
}

// NewEngine constructs a streaming Engine over src against grammar's
// start rule. Callers that skip Validate are responsible for ensuring
// grammar is well-formed; New does not re-validate.
func NewEngine(grammar *ir.Grammar, src io.Reader, opts ...engine.Options) *engine.Engine {
	return engine.New(grammar, src, opts...)
}

// Parse drives a full parse of src against grammar and returns every
// event produced, in order. An Error event, if present, is always last.
func Parse(grammar *ir.Grammar, src io.Reader) ([]event.Event, error) {
	eng := engine.New(grammar, src)
	var events []event.Event
	for {
		ev, err := eng.NextEvent()
		if err == io.EOF {
			break
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
		if errEv, ok := ev.(event.Error); ok {
			return events, errEv
		}
	}
	return events, nil
}

// Build drives a full parse of src against grammar and constructs the
// resulting Ast. inputLength should be the total byte length of src.
func Build(grammar *ir.Grammar, src io.Reader, inputLength int) (*ast.Ast, error) {
	eng := engine.New(grammar, src)
	return ast.BuildFromEvents(eng, inputLength)
}
