package dhparser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolRegistryDefineAndLookup(t *testing.T) {
	r := NewSymbolRegistry()
	r.Define("digit", RE(`[0-9]`))

	n, ok := r.Lookup("digit")
	require.True(t, ok)
	assert.Equal(t, "digit", n.symbol())
}

func TestSymbolRegistryRedefineWarns(t *testing.T) {
	r := NewSymbolRegistry()
	r.Define("digit", RE(`[0-9]`))
	r.Define("digit", RE(`[a-f0-9]`))
	assert.Len(t, r.Warnings(), 1)
}

func TestSymbolRegistryForwardRefResolves(t *testing.T) {
	r := NewSymbolRegistry()
	fwd := r.ForwardRef("expr")
	r.Define("expr", T("x"))

	errs := r.ResolveForwards()
	assert.Empty(t, errs)
	assert.Equal(t, "expr", fwd.symbol())
}

func TestSymbolRegistryForwardRefUndefinedSymbol(t *testing.T) {
	r := NewSymbolRegistry()
	r.ForwardRef("ghost")

	errs := r.ResolveForwards()
	require.Len(t, errs, 1)
	assert.Equal(t, CodeUndefinedSymbol, errs[0].Code)
}

func TestSymbolRegistryForwardRefIsIdempotent(t *testing.T) {
	r := NewSymbolRegistry()
	a := r.ForwardRef("x")
	b := r.ForwardRef("x")
	assert.Same(t, a, b)
}

func TestBuildGrammarWiresDirectivesAndRunsAnalysis(t *testing.T) {
	r := NewSymbolRegistry()
	digit := r.Define("digit", RE(`[0-9]`))
	number := r.Define("number", OneOrMore(digit))
	paren := r.Define("paren", Series([]Parser{T("("), number, T(")")}, 2))

	d := NewDirectives()
	d.SetErrorMessage("paren", "expected closing paren")
	d.SetSkipRules("paren", SkipOnRegexp(`\)`))

	g, errs, ok := BuildGrammar(r, d, "paren", DefaultConfig())
	require.True(t, ok)
	assert.Empty(t, errs)

	root, err := g.Parse(context.Background(), "(123")
	require.NoError(t, err)
	require.NotEmpty(t, root.Errors)
	assert.Equal(t, "expected closing paren", root.Errors[0].Message)
}

func TestBuildGrammarFailsOnUndefinedRoot(t *testing.T) {
	r := NewSymbolRegistry()
	r.Define("x", T("x"))

	_, errs, ok := BuildGrammar(r, nil, "nonexistent", DefaultConfig())
	assert.False(t, ok)
	assert.True(t, hasCode(errs, CodeUndefinedSymbol))
}

func TestApplyDropSetMarksDropContent(t *testing.T) {
	r := NewSymbolRegistry()
	r.Define("ws", RE(`[ \t]*`))

	d := NewDirectives()
	d.DropSet["ws"] = true

	_, _, ok := BuildGrammar(r, d, "ws", DefaultConfig())
	require.True(t, ok)

	n, _ := r.Lookup("ws")
	assert.True(t, n.dropContent)
}
