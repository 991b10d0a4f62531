// Package minixml is a worked example of context-sensitive parsing
// (scenario 2): a minimal XML-like language where a closing tag must match
// its opening tag exactly, enforced with Capture/Pop rather than a
// hand-written symbol table, with mandatory-marker recovery on mismatch.
package minixml

import (
	"github.com/parsekit/dhparser"
)

const tagSymbol = "tag"

var elementSeries dhparser.Parser

// Build constructs the grammar:
//
//	element := '<' tagname '>' content '</' §tagname-again '>'
//	content  := (element | text)*
//	text     := one or more non-'<' runes
//
// tagname is pushed onto the "tag" capture stack by Capture when the
// opening tag matches; the closing tag's Pop requires the exact same text
// and is marked mandatory ("§"), so a mismatch ("</tga>" closing "<tag>")
// is reported as an Error at the mismatch's position rather than a silent
// non-match, with local recovery configured to skip to the next '>'.
func Build() *dhparser.Grammar {
	tagName := dhparser.RE(`[A-Za-z][A-Za-z0-9_-]*`)

	elementFwd := dhparser.NewForward()

	text := dhparser.NewNamed("text", dhparser.RE(`[^<]+`))

	content := dhparser.NewNamed("content", dhparser.ZeroOrMore(dhparser.Alt(elementFwd, text)))

	elementSeries = dhparser.Series([]dhparser.Parser{
		dhparser.T("<"),
		dhparser.Capture(tagSymbol, tagName),
		dhparser.T(">"),
		content,
		dhparser.T("</"),
		dhparser.Pop(tagSymbol, nil, true),
		dhparser.T(">"),
	}, 5) // "§" before the closing-tag Pop at index 5
	element := dhparser.NewNamed("element", elementSeries)
	elementFwd.Resolve(element)

	g := dhparser.NewGrammar(element, dhparser.DefaultConfig())
	g.SetErrorMessage(elementSeries, "closing tag mismatch")
	// Skip runs up to, but not including, the next '>': local recovery
	// advances past whatever it matches (§4.5 step 2), so matching the
	// bracket itself here would leave nothing for this Series' own
	// following element (the closing T(">")) to consume.
	g.SetSkipRules(elementSeries, dhparser.SkipOnRegexp(`[^>]*`))
	return g
}

// TagName extracts the captured tag name of an "element" node produced by
// Build's grammar: the second child is the Capture wrapper (an unnamed
// node holding the matched tagname leaf directly beneath it).
func TagName(n *dhparser.Node) string {
	for _, c := range n.Children {
		if c.Name != "" || c.IsLeaf() {
			continue
		}
		if len(c.Children) == 1 && c.Children[0].IsLeaf() {
			return c.Children[0].Leaf
		}
	}
	return ""
}
