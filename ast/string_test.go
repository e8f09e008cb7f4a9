package ast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ebnflow/span"
)

func Test_Ast_String(t *testing.T) {
	assert := assert.New(t)

	tree := &Ast{Root: Rule{
		Name: "root",
		Node: Sequence{
			Nodes: []Node{
				Terminal{Value: "a", Span: span.New(0, 1)},
				Terminal{Value: "b", Span: span.New(1, 2)},
			},
			Span: span.New(0, 2),
		},
		Span: span.New(0, 2),
	}}

	out := tree.String()

	assert.True(strings.HasPrefix(out, "( RULE root )"))
	assert.Contains(out, `(TERM "a")`)
	assert.Contains(out, `(TERM "b")`)
	assert.Equal(4, strings.Count(out, "\n")+1)
}

func Test_Ast_String_SingleTerminal(t *testing.T) {
	assert := assert.New(t)

	tree := &Ast{Root: Terminal{Value: "x", Span: span.New(0, 1)}}
	out := tree.String()

	assert.Equal(`(TERM "x")`, out)
}
