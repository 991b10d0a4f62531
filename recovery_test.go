package dhparser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetErrorMessageCustomizesText(t *testing.T) {
	site := Series([]Parser{T("("), T(")")}, 1)
	g := NewGrammar(NewNamed("top", site), DefaultConfig())
	g.SetErrorMessage(site, "unbalanced parens")

	root, err := g.Parse(context.Background(), "(x")
	require.NoError(t, err)
	require.NotEmpty(t, root.Errors)
	assert.Equal(t, "unbalanced parens", root.Errors[0].Message)
}

func TestSetErrorMessageDefaultsToExpectedDescription(t *testing.T) {
	site := Series([]Parser{T("("), T(")")}, 1)
	g := NewGrammar(NewNamed("top", site), DefaultConfig())

	root, err := g.Parse(context.Background(), "(x")
	require.NoError(t, err)
	require.NotEmpty(t, root.Errors)
	assert.Contains(t, root.Errors[0].Message, `")"`)
}

func TestSkipOnParserScansForSubParserMatch(t *testing.T) {
	site := Series([]Parser{T("a"), T("b")}, 1)
	g := NewGrammar(NewNamed("top", site), DefaultConfig())
	g.SetSkipRules(site, SkipOnParser(T(";")))

	root, err := g.Parse(context.Background(), "aXX;")
	require.NoError(t, err)
	assert.True(t, root.HasErrorsAbove(SeverityError))
	assert.False(t, root.HasErrorsAbove(SeverityFatal))
}

func TestScanSkipPrefersEarliestMatchAmongRules(t *testing.T) {
	site := Series([]Parser{T("a"), T("b")}, 1)
	g := NewGrammar(NewNamed("top", site), DefaultConfig())
	g.Reset()
	g.input = NewInputView("aXYcXd")

	// "c" is at offset 3, "d" at offset 5; scanSkip must pick the nearer one
	// regardless of the order the rules were registered in.
	g.SetSkipRules(site, SkipOnRegexp(`d`), SkipOnRegexp(`c`))
	resumeAt, ok := g.scanSkip(site, 1)
	require.True(t, ok)
	assert.Equal(t, 4, resumeAt) // just past the 'c'
}

func TestScanResumeAppliesCallersFollowSet(t *testing.T) {
	site := Series([]Parser{T("a")}, 0)
	g := NewGrammar(NewNamed("top", site), DefaultConfig())
	g.Reset()
	g.input = NewInputView("xxx;yyy")
	g.SetResumeRules(site, ResumeOnRegexp(`;`))

	resumeAt, ok := g.ScanResume(site, 0)
	require.True(t, ok)
	assert.Equal(t, 4, resumeAt)
}

func TestResumeRecoversAtParseLevelWhenNoSkipRuleIsConfigured(t *testing.T) {
	// No skip rule at all: the only way this Series can avoid failing
	// outright is resume's own follow-set pattern, exercised through a
	// full Grammar.Parse rather than a direct ScanResume call.
	site := Series([]Parser{T("a"), T("b")}, 1)
	g := NewGrammar(NewNamed("top", site), DefaultConfig())
	g.SetResumeRules(site, ResumeOnRegexp(`;`))

	root, err := g.Parse(context.Background(), "aXXX;c")
	require.NoError(t, err)
	assert.True(t, root.HasErrorsAbove(SeverityError))
	assert.False(t, root.HasErrorsAbove(SeverityFatal))

	var zombie *Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.IsZombie() {
			zombie = n
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root.Node)
	assert.NotNil(t, zombie, "resume recovery should still leave a zombie placeholder")
}

func TestSkipIsPreferredOverResumeWhenBothMatch(t *testing.T) {
	// Skip lands right after the nearer "X" (offset 2), leaving the third
	// element (T("X")) able to match there; resume's ";" would instead
	// land on "c" at offset 5, where T("X") could never match, producing a
	// second mandatory failure. So if recover tried resume first, or
	// preferred it over skip, this parse would record two errors instead
	// of one.
	site := Series([]Parser{T("a"), T("b"), T("X")}, 1)
	g := NewGrammar(NewNamed("top", site), DefaultConfig())
	g.SetSkipRules(site, SkipOnRegexp(`X`))
	g.SetResumeRules(site, ResumeOnRegexp(`;`))

	root, err := g.Parse(context.Background(), "aXXX;c")
	require.NoError(t, err)
	assert.Len(t, root.Errors, 1)
}

func TestZombieNodeMarksRecoveryPoint(t *testing.T) {
	z := newZombie(7)
	assert.True(t, z.IsZombie())
	assert.Equal(t, 7, z.Position)
}

func TestBracketFilterMapsOpenToClose(t *testing.T) {
	f := BracketFilter(map[string]string{"(": ")", "[": "]"})
	assert.Equal(t, ")", f("("))
	assert.Equal(t, "]", f("["))
	assert.Equal(t, "?", f("?"), "unrecognized input passes through unchanged")
}
