package dhparser

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestMemoCacheGetSetReset(t *testing.T) {
	c := newMemoCache()
	key := memoKey{eqClass: "sym:foo", loc: 3}

	_, ok := c.get(key)
	require.False(t, ok)

	c.set(key, memoEntry{newLoc: 5, ok: true})
	entry, ok := c.get(key)
	require.True(t, ok)
	require.Equal(t, 5, entry.newLoc)

	c.reset()
	_, ok = c.get(key)
	require.False(t, ok)
}

func TestStructuralKeySharesAcrossEquivalentConstruction(t *testing.T) {
	a := T("foo")
	b := T("foo")
	require.Equal(t, a.eqKey(), b.eqKey())

	c := T("bar")
	require.NotEqual(t, a.eqKey(), c.eqKey())
}

// buildDigitsGrammar returns a small grammar where a failing Alt branch
// consumes the same sub-rule at the same location as a later branch, the
// scenario packrat memoization exists for. Memoization is suspended at
// offset 0 while pair's seed-and-grow frame is open there, so the second
// branch re-runs digits at offset 0, but its digit calls at offsets 1 and
// beyond are cache hits when memoization is enabled.
func buildDigitsGrammar() *Grammar {
	digit := NewNamed("digit", RE(`[0-9]`))
	digits := NewNamed("digits", OneOrMore(digit))
	pair := NewNamed("pair", Alt(
		Seq(digits, T("!")),
		digits,
	))
	return NewGrammar(pair, DefaultConfig())
}

func TestMemoizationTransparency(t *testing.T) {
	memoized := buildDigitsGrammar()
	root, err := memoized.Parse(context.Background(), "123456")
	require.NoError(t, err)

	unmemoized := buildDigitsGrammar()
	unmemoized.config.DisableMemo = true
	rootNoMemo, err := unmemoized.Parse(context.Background(), "123456")
	require.NoError(t, err)

	if diff := cmp.Diff(root.Node, rootNoMemo.Node, nodeCmpOpts); diff != "" {
		t.Errorf("memoized and unmemoized trees differ (-memo +nomemo):\n%s", diff)
	}
	require.Equal(t, len(root.Errors), len(rootNoMemo.Errors))
}

func TestMemoizationTransparencyOnFailingInput(t *testing.T) {
	memoized := buildDigitsGrammar()
	root, err := memoized.Parse(context.Background(), "12x")
	require.NoError(t, err)

	unmemoized := buildDigitsGrammar()
	unmemoized.config.DisableMemo = true
	rootNoMemo, err := unmemoized.Parse(context.Background(), "12x")
	require.NoError(t, err)

	require.Equal(t, root.MaxSeverity(), rootNoMemo.MaxSeverity())
	if diff := cmp.Diff(root.Node, rootNoMemo.Node, nodeCmpOpts); diff != "" {
		t.Errorf("memoized and unmemoized trees differ on partial match (-memo +nomemo):\n%s", diff)
	}
}
