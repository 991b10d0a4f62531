package dhparser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureStacksPushPopTop(t *testing.T) {
	cs := newCaptureStacks()
	cs.push("tag", "div")
	cs.push("tag", "span")
	require.Equal(t, 2, cs.total)

	top, ok := cs.top("tag")
	require.True(t, ok)
	assert.Equal(t, "span", top)

	v, ok := cs.pop("tag")
	require.True(t, ok)
	assert.Equal(t, "span", v)
	assert.Equal(t, 1, cs.total)

	assert.Equal(t, []string{"tag"}, cs.nonEmptySymbols())
	_, _ = cs.pop("tag")
	assert.Empty(t, cs.nonEmptySymbols())
}

func TestCaptureStacksPopEmptyFails(t *testing.T) {
	cs := newCaptureStacks()
	_, ok := cs.pop("missing")
	assert.False(t, ok)
	_, ok = cs.top("missing")
	assert.False(t, ok)
}

// buildBracketGrammar matches a bracketed run: '(' inner ')' where inner is
// any run of letters, using Capture/Pop through BracketFilter, the
// canonical context-sensitive scenario (§4.2).
func buildBracketGrammar() *Grammar {
	open := RE(`[([{]`)
	inner := RE(`[A-Za-z]*`)
	filter := BracketFilter(map[string]string{"(": ")", "[": "]", "{": "}"})
	bracketed := NewNamed("bracketed", Seq(
		Capture("bracket", open),
		inner,
		Pop("bracket", filter, false),
	))
	return NewGrammar(bracketed, DefaultConfig())
}

func TestCaptureRetrievePopRoundTrip(t *testing.T) {
	g := buildBracketGrammar()
	root, err := g.Parse(context.Background(), "(hello)")
	require.NoError(t, err)
	require.False(t, root.HasErrorsAbove(SeverityError))
	assert.Empty(t, g.captures.nonEmptySymbols())
}

func TestCaptureStackBalancedAfterBacktrackedAlternative(t *testing.T) {
	// The first Alt branch captures and fails past the Pop (mismatched
	// bracket), so rollback must undo the Capture's push; the second
	// branch then starts from an empty "bracket" stack.
	open := RE(`[([{]`)
	inner := RE(`[A-Za-z]*`)
	filter := BracketFilter(map[string]string{"(": ")", "[": "]", "{": "}"})

	mismatched := Seq(Capture("bracket", open), inner, T("]"))
	matched := Seq(Capture("bracket", open), inner, Pop("bracket", filter, false))

	top := NewNamed("top", Alt(mismatched, matched))
	g := NewGrammar(top, DefaultConfig())

	root, err := g.Parse(context.Background(), "(hi)")
	require.NoError(t, err)
	require.False(t, root.HasErrorsAbove(SeverityError))
	assert.Empty(t, g.captures.nonEmptySymbols(), "rollback must undo the failed branch's Capture push")
}

func countCode(errs []Error, code int) int {
	n := 0
	for _, e := range errs {
		if e.Code == code {
			n++
		}
	}
	return n
}

func TestEmptyCaptureWarnsOnceThenResetsPerParse(t *testing.T) {
	empty := RE(`x?`)
	capture := Capture("maybe", empty)
	loop := NewNamed("top", Seq(capture, capture, capture))
	g := NewGrammar(loop, DefaultConfig())

	root, err := g.Parse(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 1, countCode(root.Errors, CodeEmptyCapture),
		"warns once per Capture parser even though it matched empty three times")
	assert.Equal(t, SeverityWarning, SeverityOf(CodeEmptyCapture))

	// Reusing the same Grammar for an independent parse must re-arm the
	// warning rather than leaving it permanently silenced by the first.
	root2, err := g.Parse(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, countCode(root2.Errors, CodeEmptyCapture))
}

func TestRollbackLogMarkPushRollback(t *testing.T) {
	rl := newRollbackLog()
	undone := 0

	mark := rl.mark()
	rl.push(0, func() { undone++ })
	rl.push(1, func() { undone++ })
	require.Equal(t, 2, rl.size())

	rl.rollbackTo(mark)
	assert.Equal(t, 2, undone)
	assert.Equal(t, 0, rl.size())
}

func TestRollbackLogPartialRewind(t *testing.T) {
	rl := newRollbackLog()
	var order []int

	rl.push(0, func() { order = append(order, 0) })
	mark := rl.mark()
	rl.push(1, func() { order = append(order, 1) })
	rl.push(2, func() { order = append(order, 2) })

	rl.rollbackTo(mark)
	assert.Equal(t, []int{2, 1}, order, "undo entries run in LIFO order")
	assert.Equal(t, 1, rl.size())
}
