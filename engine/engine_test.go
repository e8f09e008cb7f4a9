package engine

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ebnflow/event"
	"github.com/dekarrin/ebnflow/ir"
)

func drainEvents(t *testing.T, e *Engine) []event.Event {
	t.Helper()
	var out []event.Event
	for {
		ev, err := e.NextEvent()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("unexpected NextEvent error: %v", err)
		}
		out = append(out, ev)
	}
}

func Test_Engine_Terminal(t *testing.T) {
	testCases := []struct {
		name      string
		grammar   *ir.Grammar
		input     string
		expectErr bool
	}{
		{
			name: "exact string literal matches",
			grammar: &ir.Grammar{Rules: []ir.Rule{
				{Name: "root", Production: ir.Terminal{Kind: ir.StrLiteral("hello")}},
			}},
			input:     "hello",
			expectErr: false,
		},
		{
			name: "mismatched string literal fails",
			grammar: &ir.Grammar{Rules: []ir.Rule{
				{Name: "root", Production: ir.Terminal{Kind: ir.StrLiteral("hello")}},
			}},
			input:     "goodbye",
			expectErr: true,
		},
		{
			name: "single char literal matches",
			grammar: &ir.Grammar{Rules: []ir.Rule{
				{Name: "root", Production: ir.Terminal{Kind: ir.CharLiteral('x')}},
			}},
			input:     "x",
			expectErr: false,
		},
		{
			name: "empty input fails char literal",
			grammar: &ir.Grammar{Rules: []ir.Rule{
				{Name: "root", Production: ir.Terminal{Kind: ir.CharLiteral('x')}},
			}},
			input:     "",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			e := New(tc.grammar, strings.NewReader(tc.input))
			events := drainEvents(t, e)

			_, lastIsErr := events[len(events)-1].(event.Error)
			assert.Equal(tc.expectErr, lastIsErr)
		})
	}
}

func Test_Engine_Alternation_Backtracks(t *testing.T) {
	assert := assert.New(t)

	grammar := &ir.Grammar{Rules: []ir.Rule{
		{Name: "root", Production: ir.Alternation{Items: []ir.Production{
			ir.Terminal{Kind: ir.StrLiteral("ab")},
			ir.Terminal{Kind: ir.StrLiteral("ac")},
		}}},
	}}

	e := New(grammar, strings.NewReader("ac"))
	events := drainEvents(t, e)

	var tok event.Token
	found := false
	for _, ev := range events {
		if t2, ok := ev.(event.Token); ok {
			tok = t2
			found = true
		}
	}
	assert.True(found, "expected a token event")
	assert.Equal(event.StrKind("ac"), tok.Kind)
}

func Test_Engine_Alternation_AllFail(t *testing.T) {
	assert := assert.New(t)

	grammar := &ir.Grammar{Rules: []ir.Rule{
		{Name: "root", Production: ir.Alternation{Items: []ir.Production{
			ir.Terminal{Kind: ir.StrLiteral("ab")},
			ir.Terminal{Kind: ir.StrLiteral("cd")},
		}}},
	}}

	e := New(grammar, strings.NewReader("xy"))
	events := drainEvents(t, e)

	assert.NotEmpty(events)
	errEv, ok := events[len(events)-1].(event.Error)
	assert.True(ok, "expected an error event")
	if ok {
		assert.Equal(0, errEv.Position)
	}
}

func Test_Engine_Repeat(t *testing.T) {
	two := 2

	testCases := []struct {
		name       string
		quant      ir.RepeatQuant
		input      string
		expectErr  bool
		expectToks int
	}{
		{
			name:       "star matches zero",
			quant:      ir.RepeatQuant{Min: 0, Max: nil},
			input:      "",
			expectErr:  false,
			expectToks: 0,
		},
		{
			name:       "star matches several",
			quant:      ir.RepeatQuant{Min: 0, Max: nil},
			input:      "111",
			expectErr:  false,
			expectToks: 3,
		},
		{
			name:       "plus requires at least one",
			quant:      ir.RepeatQuant{Min: 1, Max: nil},
			input:      "",
			expectErr:  true,
			expectToks: 0,
		},
		{
			name:       "bounded max stops early",
			quant:      ir.RepeatQuant{Min: 0, Max: &two},
			input:      "1111",
			expectErr:  false,
			expectToks: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			grammar := &ir.Grammar{Rules: []ir.Rule{
				{Name: "root", Production: ir.Repeat{
					Item:  ir.Terminal{Kind: ir.CharLiteral('1')},
					Quant: tc.quant,
				}},
			}}

			e := New(grammar, strings.NewReader(tc.input))
			events := drainEvents(t, e)

			var lastErr bool
			var tokCount int
			for _, ev := range events {
				switch ev.(type) {
				case event.Token:
					tokCount++
				case event.Error:
					lastErr = true
				}
			}
			assert.Equal(tc.expectErr, lastErr)
			assert.Equal(tc.expectToks, tokCount)
		})
	}
}

func Test_Engine_RuleBracketing(t *testing.T) {
	assert := assert.New(t)

	grammar := &ir.Grammar{Rules: []ir.Rule{
		{Name: "root", Production: ir.Sequence{Items: []ir.Production{
			ir.Ref{Name: "word"},
		}}},
		{Name: "word", Production: ir.Terminal{Kind: ir.StrLiteral("go")}},
	}}

	e := New(grammar, strings.NewReader("go"))
	events := drainEvents(t, e)

	assert.Len(events, 5)
	rootStart, ok := events[0].(event.Start)
	assert.True(ok)
	assert.Equal("root", rootStart.Rule)

	wordStart, ok := events[1].(event.Start)
	assert.True(ok)
	assert.Equal("word", wordStart.Rule)

	_, isTok := events[2].(event.Token)
	assert.True(isTok)

	wordEnd, ok := events[3].(event.End)
	assert.True(ok)
	assert.Equal("word", wordEnd.Rule)

	rootEnd, ok := events[4].(event.End)
	assert.True(ok)
	assert.Equal("root", rootEnd.Rule)
}

func Test_Engine_CharClass(t *testing.T) {
	assert := assert.New(t)

	grammar := &ir.Grammar{Rules: []ir.Rule{
		{Name: "root", Production: ir.Class{CharClass: ir.CharClass{
			Negated: true,
			Chars:   []rune{'x'},
		}}},
	}}

	e := New(grammar, strings.NewReader("y"))
	events := drainEvents(t, e)
	_, isErr := events[len(events)-1].(event.Error)
	assert.False(isErr)

	e2 := New(grammar, strings.NewReader("x"))
	events2 := drainEvents(t, e2)
	_, isErr2 := events2[len(events2)-1].(event.Error)
	assert.True(isErr2)
}

func Test_Engine_UnresolvableStartRule(t *testing.T) {
	assert := assert.New(t)

	missing := "nope"
	grammar := &ir.Grammar{Start: &missing}

	e := New(grammar, strings.NewReader(""))
	events := drainEvents(t, e)

	assert.Len(events, 1)
	_, ok := events[0].(event.Error)
	assert.True(ok)
}

func Test_Engine_SlidingWindow_LargeInput(t *testing.T) {
	assert := assert.New(t)

	grammar := &ir.Grammar{Rules: []ir.Rule{
		{Name: "root", Production: ir.Repeat{
			Item:  ir.Terminal{Kind: ir.CharLiteral('a')},
			Quant: ir.RepeatQuant{Min: 0, Max: nil},
		}},
	}}

	input := strings.Repeat("a", 3*DefaultMaxBufferSize)
	opts := NewOptions()
	opts.MaxBufferSize = 1024
	opts.MinSlideSize = 256

	e := New(grammar, strings.NewReader(input), opts)
	events := drainEvents(t, e)

	tokCount := 0
	for _, ev := range events {
		if _, ok := ev.(event.Token); ok {
			tokCount++
		}
	}
	assert.Equal(len(input), tokCount)
}
