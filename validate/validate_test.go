package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ebnflow/ir"
)

func Test_Validate(t *testing.T) {
	testCases := []struct {
		name       string
		grammar    *ir.Grammar
		expectMsgs []string
	}{
		{
			name:       "empty grammar",
			grammar:    &ir.Grammar{},
			expectMsgs: []string{"grammar has no rules"},
		},
		{
			name: "well-formed grammar has no errors",
			grammar: &ir.Grammar{
				Rules: []ir.Rule{
					{Name: "root", Production: ir.Sequence{Items: []ir.Production{
						ir.Terminal{Kind: ir.StrLiteral("a")},
						ir.Ref{Name: "tail"},
					}}},
					{Name: "tail", Production: ir.Terminal{Kind: ir.StrLiteral("b")}},
				},
			},
			expectMsgs: nil,
		},
		{
			name: "missing explicit start rule",
			grammar: &ir.Grammar{
				Start: strPtrV(),
				Rules: []ir.Rule{
					{Name: "root", Production: ir.Terminal{Kind: ir.StrLiteral("a")}},
				},
			},
			expectMsgs: []string{`start rule "missing" not found`},
		},
		{
			name: "undefined ref",
			grammar: &ir.Grammar{
				Rules: []ir.Rule{
					{Name: "root", Production: ir.Ref{Name: "ghost"}},
				},
			},
			expectMsgs: []string{"undefined rule 'ghost'"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			msgs := Validate(tc.grammar)
			assert.Equal(tc.expectMsgs, msgs)
		})
	}
}

func strPtrV() *string {
	s := "missing"
	return &s
}

func Test_checkLeftRecursion(t *testing.T) {
	testCases := []struct {
		name      string
		grammar   *ir.Grammar
		expectAny bool
	}{
		{
			name: "direct left recursion",
			grammar: &ir.Grammar{
				Rules: []ir.Rule{
					{Name: "expr", Production: ir.Sequence{Items: []ir.Production{
						ir.Ref{Name: "expr"},
						ir.Terminal{Kind: ir.StrLiteral("+")},
					}}},
				},
			},
			expectAny: true,
		},
		{
			name: "indirect left recursion through two rules",
			grammar: &ir.Grammar{
				Rules: []ir.Rule{
					{Name: "a", Production: ir.Ref{Name: "b"}},
					{Name: "b", Production: ir.Ref{Name: "a"}},
				},
			},
			expectAny: true,
		},
		{
			name: "right recursion is not left recursion",
			grammar: &ir.Grammar{
				Rules: []ir.Rule{
					{Name: "expr", Production: ir.Sequence{Items: []ir.Production{
						ir.Terminal{Kind: ir.StrLiteral("(")},
						ir.Ref{Name: "expr"},
					}}},
				},
			},
			expectAny: false,
		},
		{
			name: "nullable repeat in leading position does not count",
			grammar: &ir.Grammar{
				Rules: []ir.Rule{
					{Name: "expr", Production: ir.Sequence{Items: []ir.Production{
						ir.Repeat{Item: ir.Terminal{Kind: ir.CharLiteral(' ')}, Quant: ir.RepeatQuant{Min: 0}},
						ir.Ref{Name: "expr"},
					}}},
				},
			},
			expectAny: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			errs := checkLeftRecursion(tc.grammar)
			if tc.expectAny {
				assert.NotEmpty(errs)
				for _, e := range errs {
					assert.Equal(KindLeftRecursion, e.Kind)
				}
			} else {
				assert.Empty(errs)
			}
		})
	}
}

func Test_checkPureRefCycles(t *testing.T) {
	testCases := []struct {
		name      string
		grammar   *ir.Grammar
		expectAny bool
	}{
		{
			name: "pure reference cycle with no progress",
			grammar: &ir.Grammar{
				Rules: []ir.Rule{
					{Name: "a", Production: ir.Ref{Name: "b"}},
					{Name: "b", Production: ir.Ref{Name: "a"}},
				},
			},
			expectAny: true,
		},
		{
			name: "cycle with a terminal makes progress, not reported",
			grammar: &ir.Grammar{
				Rules: []ir.Rule{
					{Name: "a", Production: ir.Sequence{Items: []ir.Production{
						ir.Terminal{Kind: ir.CharLiteral('x')},
						ir.Ref{Name: "b"},
					}}},
					{Name: "b", Production: ir.Ref{Name: "a"}},
				},
			},
			expectAny: false,
		},
		{
			name: "no cycle at all",
			grammar: &ir.Grammar{
				Rules: []ir.Rule{
					{Name: "a", Production: ir.Ref{Name: "b"}},
					{Name: "b", Production: ir.Terminal{Kind: ir.CharLiteral('x')}},
				},
			},
			expectAny: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			errs := checkPureRefCycles(tc.grammar)
			if tc.expectAny {
				assert.NotEmpty(errs)
				for _, e := range errs {
					assert.Equal(KindCyclicPureRef, e.Kind)
				}
			} else {
				assert.Empty(errs)
			}
		})
	}
}
