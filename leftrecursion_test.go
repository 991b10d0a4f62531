package dhparser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildIndirectLeftRecursion wires A -> B -> A, an indirect left-recursive
// cycle routed through an intermediate named rule rather than recursing
// directly, exercising the re-entrant-call detection in growSeed (the
// re-entry can arrive through any number of intermediate parsers).
func buildIndirectLeftRecursion() *Grammar {
	aFwd := NewForward()
	num := NewNamed("num", RE(`[0-9]+`))
	b := NewNamed("b", aFwd)
	a := NewNamed("a", Alt(
		Seq(b, T("+"), num),
		num,
	))
	aFwd.Resolve(a)
	return NewGrammar(a, DefaultConfig())
}

func TestIndirectLeftRecursionGrowsThroughIntermediateRule(t *testing.T) {
	g := buildIndirectLeftRecursion()
	root, err := g.Parse(context.Background(), "1+2+3")
	require.NoError(t, err)
	require.False(t, root.HasErrorsAbove(SeverityError))
	assert.Equal(t, len("1+2+3"), root.Node.Len())
}

func TestLRFrameShortCircuitsReentrantCall(t *testing.T) {
	g := buildIndirectLeftRecursion()
	g.Reset()
	g.input = NewInputView("9")

	key := memoKey{eqClass: "sym:a", loc: 0}
	g.lrStack[key] = &lrFrame{key: key, seed: nil, seedLoc: 0, seedOk: false}

	node, newLoc, ok := g.invoke(g.root, 0)
	assert.Nil(t, node)
	assert.Equal(t, 0, newLoc)
	assert.False(t, ok)
	assert.True(t, g.lrStack[key].detected)
}
