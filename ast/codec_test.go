package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ebnflow/span"
)

func Test_Ast_EncodeDecode_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		tree *Ast
	}{
		{
			name: "single terminal",
			tree: &Ast{
				Root:     Terminal{Value: "hi", Span: span.New(0, 2)},
				Metadata: Metadata{InputLength: 2, TokenCount: 1, Success: true},
			},
		},
		{
			name: "nested rule with alternation and repetition",
			tree: &Ast{
				Root: Rule{
					Name: "root",
					Node: Alternation{
						Nodes: []Node{
							Repetition{Nodes: []Node{
								Terminal{Value: "a", Span: span.New(0, 1)},
							}, Span: span.New(0, 1)},
							Terminal{Value: "b", Span: span.New(0, 1)},
						},
						Span: span.New(0, 1),
					},
					Span: span.New(0, 1),
				},
				Metadata: Metadata{InputLength: 1, TokenCount: 1, Success: true},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			data := Encode(tc.tree)
			got, err := Decode(data)
			assert.NoError(err)
			if err != nil {
				return
			}

			assert.Equal(tc.tree.Metadata, got.Metadata)
			assert.Equal(tc.tree.String(), got.String())
		})
	}
}

func Test_Ast_Decode_UnknownTag(t *testing.T) {
	assert := assert.New(t)

	tree := &Ast{Root: Terminal{Value: "x", Span: span.New(0, 1)}}
	data := Encode(tree)

	corrupted := append([]byte(nil), data...)
	for i := range corrupted {
		corrupted[i] = 0xFF
	}

	_, err := Decode(corrupted)
	assert.Error(err)
}
