package minixml_test

import (
	"context"
	"testing"

	"github.com/parsekit/dhparser"
	"github.com/parsekit/dhparser/example/minixml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchingTagsParseCleanly(t *testing.T) {
	g := minixml.Build()
	root, err := g.Parse(context.Background(), "<tag>hello</tag>")
	require.NoError(t, err)
	assert.False(t, root.HasErrorsAbove(dhparser.SeverityError))
	assert.Equal(t, "tag", minixml.TagName(root.Node))
	assert.Equal(t, len("<tag>hello</tag>"), root.Node.Len())
}

func TestNestedElements(t *testing.T) {
	g := minixml.Build()
	root, err := g.Parse(context.Background(), "<outer><inner>x</inner></outer>")
	require.NoError(t, err)
	require.False(t, root.HasErrorsAbove(dhparser.SeverityError))
	assert.Equal(t, "outer", minixml.TagName(root.Node))

	var found *dhparser.Node
	for _, c := range root.Node.Children {
		if c.Name == "content" {
			for _, cc := range c.Children {
				if cc.Name == "element" {
					found = cc
				}
			}
		}
	}
	require.NotNil(t, found, "expected the inner element as a content child")
	assert.Equal(t, "inner", minixml.TagName(found))
}

func TestMismatchedClosingTagIsReportedAndRecovered(t *testing.T) {
	g := minixml.Build()
	root, err := g.Parse(context.Background(), "<tag>hello</tga>")
	require.NoError(t, err)
	assert.True(t, root.HasErrorsAbove(dhparser.SeverityError))

	found := false
	for _, e := range root.Errors {
		if e.Message == "closing tag mismatch" {
			found = true
		}
	}
	assert.True(t, found, "expected the custom error message configured via SetErrorMessage")
}

func TestMismatchedClosingTagStillClosesTheElement(t *testing.T) {
	// The skip rule scans up to, but not including, the next '>', leaving
	// that bracket for the Series' own trailing T(">") to match, so local
	// recovery at the Pop lets the element close normally afterwards.
	g := minixml.Build()
	root, err := g.Parse(context.Background(), "<tag>hello</tga>")
	require.NoError(t, err)

	found := false
	for _, e := range root.Errors {
		if e.Message == "closing tag mismatch" {
			found = true
		}
	}
	assert.True(t, found, "exactly one mismatch, at the Pop; the closing '>' itself still matches")

	var zombie *dhparser.Node
	var walk func(n *dhparser.Node)
	walk = func(n *dhparser.Node) {
		if n.IsZombie() {
			zombie = n
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root.Node)
	assert.NotNil(t, zombie, "expected a zombie placeholder marking the recovery point")
}

func TestEmptyElementBody(t *testing.T) {
	g := minixml.Build()
	root, err := g.Parse(context.Background(), "<br></br>")
	require.NoError(t, err)
	assert.False(t, root.HasErrorsAbove(dhparser.SeverityError))
	assert.Equal(t, "br", minixml.TagName(root.Node))
}
