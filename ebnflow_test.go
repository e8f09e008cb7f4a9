package ebnflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ebnflow/event"
	"github.com/dekarrin/ebnflow/ir"
)

func greetingGrammar() *ir.Grammar {
	return &ir.Grammar{Rules: []ir.Rule{
		{Name: "root", Production: ir.Sequence{Items: []ir.Production{
			ir.Ref{Name: "greeting"},
			ir.Terminal{Kind: ir.CharLiteral(' ')},
			ir.Terminal{Kind: ir.StrLiteral("world")},
		}}},
		{Name: "greeting", Production: ir.Terminal{Kind: ir.StrLiteral("hello")}},
	}}
}

func Test_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		grammar   *ir.Grammar
		expectAny bool
	}{
		{
			name:      "well formed grammar has no errors",
			grammar:   greetingGrammar(),
			expectAny: false,
		},
		{
			name: "undefined reference is reported",
			grammar: &ir.Grammar{Rules: []ir.Rule{
				{Name: "root", Production: ir.Ref{Name: "ghost"}},
			}},
			expectAny: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			msgs := Validate(tc.grammar)
			if tc.expectAny {
				assert.NotEmpty(msgs)
			} else {
				assert.Empty(msgs)
			}
		})
	}
}

func Test_Parse(t *testing.T) {
	assert := assert.New(t)

	events, err := Parse(greetingGrammar(), strings.NewReader("hello world"))
	assert.NoError(err)

	var toks int
	for _, ev := range events {
		if _, ok := ev.(event.Token); ok {
			toks++
		}
	}
	assert.Equal(3, toks)
}

func Test_Parse_ReturnsErrorEvent(t *testing.T) {
	assert := assert.New(t)

	events, err := Parse(greetingGrammar(), strings.NewReader("goodbye world"))
	assert.Error(err)
	assert.NotEmpty(events)
	_, isErrEvent := events[len(events)-1].(event.Error)
	assert.True(isErrEvent)
}

func Test_Build(t *testing.T) {
	assert := assert.New(t)

	input := "hello world"
	tree, err := Build(greetingGrammar(), strings.NewReader(input), len(input))
	assert.NoError(err)
	if err != nil {
		return
	}

	assert.Equal([]string{"hello", " ", "world"}, tree.CollectTerminals())
}

func Test_NewEngine(t *testing.T) {
	assert := assert.New(t)

	eng := NewEngine(greetingGrammar(), strings.NewReader("hello world"))
	assert.NotNil(eng)

	ev, err := eng.NextEvent()
	assert.NoError(err)
	start, ok := ev.(event.Start)
	assert.True(ok)
	assert.Equal("root", start.Rule)
}
