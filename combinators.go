package dhparser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/exp/slices"
)

// --- Text ----------------------------------------------------------------

// textPattern matches a literal string (§4.1 Text).
type textPattern struct {
	base
	Text string
}

// T builds a Text parser.
func T(text string) Parser {
	p := &textPattern{Text: text}
	p.key = structuralKey("text", struct{ T string }{text})
	return p
}

func (p *textPattern) parse(g *Grammar, loc int) (*Node, int, bool) {
	if !matchLiteralAt(g.input, loc, p.Text) {
		return nil, loc, false
	}
	end := loc + len(p.Text)
	return &Node{Name: anonymousPrefix + "text", Leaf: p.Text, Position: loc, length: len(p.Text), disposable: true}, end, true
}

func (p *textPattern) String() string { return fmt.Sprintf("%q", p.Text) }

// --- RegExp ----------------------------------------------------------------

// regexpPattern matches a compiled regular expression anchored at the
// current location (§4.1 RegExp). IsWhitespace marks the distinguished
// Whitespace variant, whose content may be dropped by directives.
type regexpPattern struct {
	base
	Source       string
	re           *regexp.Regexp
	IsWhitespace bool
}

// RE builds a RegExp parser from a Perl-compatible pattern, always anchored
// to the current position (a leading "^" is implied; a pattern that already
// starts with "^" is compiled as given).
func RE(pattern string) Parser {
	anchored := pattern
	if !strings.HasPrefix(anchored, "^") {
		anchored = "^(?:" + anchored + ")"
	}
	re := regexp.MustCompile(anchored)
	p := &regexpPattern{Source: pattern, re: re}
	p.key = structuralKey("regexp", struct{ P string }{pattern})
	return p
}

// Whitespace builds the distinguished whitespace RegExp variant (§4.1).
func Whitespace(pattern string) Parser {
	p := RE(pattern).(*regexpPattern)
	p.IsWhitespace = true
	p.dropContent = true
	return p
}

func (p *regexpPattern) parse(g *Grammar, loc int) (*Node, int, bool) {
	text := g.input.At(loc)
	m := p.re.FindStringIndex(text)
	if m == nil || m[0] != 0 {
		return nil, loc, false
	}
	matched := text[:m[1]]
	end := loc + len(matched)
	n := &Node{Name: anonymousPrefix + "re", Leaf: matched, Position: loc, length: len(matched), disposable: true, dropContent: p.dropContent}
	return n, end, true
}

func (p *regexpPattern) String() string { return fmt.Sprintf("/%s/", p.Source) }

// --- PreprocessorToken -----------------------------------------------------

// preprocessorTokenPattern matches a sentinel-wrapped token emitted by an
// external preprocessor (§4.1, §6), carrying its textual value through.
// Tokens are assumed wrapped as "\x02name\x1fvalue\x03" by the Preprocessor
// collaborator; see the tokenSentinel constants below.
type preprocessorTokenPattern struct {
	base
	TokenName string
}

// PreprocessorToken builds a parser matching a named preprocessor token.
func PreprocessorToken(name string) Parser {
	p := &preprocessorTokenPattern{TokenName: name}
	p.key = structuralKey("pptoken", struct{ N string }{name})
	return p
}

func (p *preprocessorTokenPattern) parse(g *Grammar, loc int) (*Node, int, bool) {
	text := g.input.At(loc)
	prefix := tokenSentinelOpen + p.TokenName + tokenSentinelSep
	if !strings.HasPrefix(text, prefix) {
		return nil, loc, false
	}
	rest := text[len(prefix):]
	end := strings.IndexByte(rest, tokenSentinelClose)
	if end < 0 {
		return nil, loc, false
	}
	value := rest[:end]
	total := len(prefix) + end + 1
	return &Node{Name: anonymousPrefix + "pptoken", Leaf: value, Position: loc, length: total}, loc + total, true
}

func (p *preprocessorTokenPattern) String() string { return fmt.Sprintf("PreprocessorToken(%q)", p.TokenName) }

// --- Option ----------------------------------------------------------------

// optionPattern matches A or the empty string, always succeeding (§4.1 Option).
type optionPattern struct {
	base
	Sub Parser
}

// Option builds an Option (A?) combinator.
func Option(sub Parser) Parser {
	p := &optionPattern{Sub: sub}
	p.key = structuralKey("option", struct{ S string }{sub.String()})
	return p
}

func (p *optionPattern) parse(g *Grammar, loc int) (*Node, int, bool) {
	mark := g.rollback.mark()
	node, newLoc, ok := g.invoke(p.Sub, loc)
	if !ok {
		g.rollback.rollbackTo(mark)
		return nil, loc, true
	}
	return node, newLoc, true
}

func (p *optionPattern) String() string { return fmt.Sprintf("%s?", p.Sub) }

// --- ZeroOrMore / OneOrMore / Counted ---------------------------------------

// repeatPattern implements ZeroOrMore, OneOrMore and Counted (§4.1): it
// matches Sub repeatedly, refusing to iterate when Sub matches empty (the
// infinite-loop guard), and succeeds only if the match count falls in
// [Min, Max] (Max < 0 means unbounded).
type repeatPattern struct {
	base
	Sub      Parser
	Min, Max int
}

// ZeroOrMore builds {A}.
func ZeroOrMore(sub Parser) Parser { return newRepeat(sub, 0, -1) }

// OneOrMore builds A+.
func OneOrMore(sub Parser) Parser { return newRepeat(sub, 1, -1) }

// Counted builds A{m,n}.
func Counted(sub Parser, m, n int) Parser { return newRepeat(sub, m, n) }

func newRepeat(sub Parser, min, max int) Parser {
	p := &repeatPattern{Sub: sub, Min: min, Max: max}
	p.key = structuralKey("repeat", struct {
		S        string
		Min, Max int
	}{sub.String(), min, max})
	return p
}

func (p *repeatPattern) parse(g *Grammar, loc int) (*Node, int, bool) {
	var children []*Node
	at := loc
	count := 0
	for p.Max < 0 || count < p.Max {
		if g.config.LoopLimit > 0 && count >= g.config.LoopLimit {
			break
		}
		mark := g.rollback.mark()
		node, newLoc, ok := g.invoke(p.Sub, at)
		if !ok {
			g.rollback.rollbackTo(mark)
			break
		}
		if newLoc == at {
			// Sub matched empty: stop iterating rather than loop forever,
			// logging a notice the first time this happens for this
			// combinator instance (§4.1 ZeroOrMore).
			if node != nil {
				children = append(children, node)
				count++
			}
			g.warnOnce(p, at, CodeInfiniteLoopGuard,
				"repetition body matched empty string, stopping after %d iteration(s)", count)
			break
		}
		if node != nil {
			children = append(children, node)
		}
		at = newLoc
		count++
	}

	if count < p.Min {
		return nil, loc, false
	}
	n := NewBranch(anonymousPrefix+"repeat", loc, children)
	n.disposable = true
	return n, at, true
}

func (p *repeatPattern) String() string {
	switch {
	case p.Min == 0 && p.Max < 0:
		return fmt.Sprintf("%s*", p.Sub)
	case p.Min == 1 && p.Max < 0:
		return fmt.Sprintf("%s+", p.Sub)
	default:
		return fmt.Sprintf("%s{%d,%d}", p.Sub, p.Min, p.Max)
	}
}

// --- Series ------------------------------------------------------------

// seriesPattern matches its operands in order (§4.1 Series). Mandatory is
// the "§" index: operands before it simply propagate a non-match; from
// Mandatory onward a non-match is escalated to a recorded error with
// skip/resume recovery (§4.5, implemented in recovery.go).
type seriesPattern struct {
	base
	Subs      []Parser
	Mandatory int // len(Subs) if there is no mandatory marker
}

// Seq builds a Series with no mandatory marker.
func Seq(subs ...Parser) Parser {
	return Series(subs, len(subs))
}

// Series builds a Series with mandatory marker at index k (§ placed before
// the operand at zero-based index k, so k == len(subs) means "no marker").
func Series(subs []Parser, k int) Parser {
	if len(subs) == 0 {
		return True
	}
	p := &seriesPattern{Subs: subs, Mandatory: k}
	strs := make([]string, len(subs))
	for i, s := range subs {
		strs[i] = s.String()
	}
	p.key = structuralKey("series", struct {
		Subs []string
		K    int
	}{strs, k})
	return p
}

func (p *seriesPattern) parse(g *Grammar, loc int) (*Node, int, bool) {
	var children []*Node
	at := loc
	for i, sub := range p.Subs {
		mark := g.rollback.mark()
		node, newLoc, ok := g.invoke(sub, at)
		if ok {
			if node != nil {
				children = append(children, node)
			}
			at = newLoc
			continue
		}

		g.rollback.rollbackTo(mark)
		if i < p.Mandatory {
			return nil, loc, false
		}

		// Mandatory failure: emit an error, attempt local (skip) recovery,
		// otherwise fail the whole Series so the caller's resume rules
		// take over (§4.5).
		zombie, resumeAt, recovered := g.recoverSeries(p, sub, i, at)
		children = append(children, zombie)
		if !recovered {
			return nil, loc, false
		}
		at = resumeAt
	}
	n := NewBranch(anonymousPrefix+"series", loc, children)
	n.disposable = true
	return n, at, true
}

func (p *seriesPattern) String() string {
	strs := make([]string, len(p.Subs))
	for i, s := range p.Subs {
		mark := ""
		if i == p.Mandatory {
			mark = "§ "
		}
		strs[i] = mark + s.String()
	}
	return "(" + strings.Join(strs, " ") + ")"
}

// --- Alternative -------------------------------------------------------

// alternativePattern matches the first of its choices that matches
// (§4.1 Alternative).
type alternativePattern struct {
	base
	Choices []Parser
}

// Alt builds an ordered-choice Alternative.
func Alt(choices ...Parser) Parser {
	if len(choices) == 0 {
		return False
	}
	p := &alternativePattern{Choices: choices}
	strs := make([]string, len(choices))
	for i, c := range choices {
		strs[i] = c.String()
	}
	p.key = structuralKey("alt", struct{ Choices []string }{strs})
	return p
}

func (p *alternativePattern) parse(g *Grammar, loc int) (*Node, int, bool) {
	for _, choice := range p.Choices {
		mark := g.rollback.mark()
		node, newLoc, ok := g.invoke(choice, loc)
		if ok {
			return node, newLoc, true
		}
		g.rollback.rollbackTo(mark)
	}
	return nil, loc, false
}

func (p *alternativePattern) String() string {
	strs := make([]string, len(p.Choices))
	for i, c := range p.Choices {
		strs[i] = c.String()
	}
	return "(" + strings.Join(strs, " | ") + ")"
}

// textAlternativePattern specializes Alternative for choices that are all
// constant-prefix Text parsers (§4.1 TextAlternative). It checks the first
// input byte against a sorted table of the choices' first bytes by binary
// search, then scans the choices that share that byte; the dispatch is
// O(log n) in the number of distinct first bytes, not O(1).
type textAlternativePattern struct {
	base
	texts   []string // sorted
	choices map[string]Parser
	firstBytes []byte // sorted, deduplicated, parallel-searched via slices.BinarySearch
}

// TextAlternative builds the specialized form; every choice must be a
// constant string. Unlike Alt, the order of choices does not matter: the
// longest choice that matches at the current position wins. Dispatch uses a
// sorted first-byte table built with golang.org/x/exp/slices.
func TextAlternative(choices ...string) Parser {
	sorted := append([]string(nil), choices...)
	sort.Strings(sorted)

	firstBytes := make([]byte, 0, len(sorted))
	seen := make(map[byte]bool)
	for _, s := range sorted {
		if s == "" {
			continue
		}
		b := s[0]
		if !seen[b] {
			seen[b] = true
			firstBytes = append(firstBytes, b)
		}
	}
	slices.Sort(firstBytes)

	p := &textAlternativePattern{texts: sorted, choices: make(map[string]Parser), firstBytes: firstBytes}
	for _, s := range sorted {
		p.choices[s] = T(s)
	}
	p.key = structuralKey("textalt", struct{ Choices []string }{sorted})
	return p
}

func (p *textAlternativePattern) parse(g *Grammar, loc int) (*Node, int, bool) {
	text := g.input.At(loc)
	if text == "" {
		return nil, loc, false
	}
	first := text[0]
	if _, found := slices.BinarySearch(p.firstBytes, first); !found {
		return nil, loc, false
	}
	// Longest-match-first among candidates sharing this first byte.
	var best string
	for _, s := range p.texts {
		if len(s) == 0 || s[0] != first {
			continue
		}
		if strings.HasPrefix(text, s) && len(s) > len(best) {
			best = s
		}
	}
	if best == "" {
		return nil, loc, false
	}
	return g.invoke(p.choices[best], loc)
}

func (p *textAlternativePattern) String() string {
	return "(" + strings.Join(p.texts, " | ") + ")"
}

// --- Lookahead / Lookbehind --------------------------------------------

// lookPattern implements positive/negative Lookahead and Lookbehind
// (§4.1): it consumes zero input and returns match/non-match based on
// Sub's outcome either at the current location (lookahead) or against the
// reversed input view (lookbehind), per §9's design note.
type lookPattern struct {
	base
	Sub      Parser
	Not      bool
	Backward bool
}

// Lookahead builds a positive or negative zero-width lookahead.
func Lookahead(sub Parser, not bool) Parser {
	p := &lookPattern{Sub: sub, Not: not}
	p.key = structuralKey("look", struct {
		S   string
		N,B bool
	}{sub.String(), not, false})
	return p
}

// Lookbehind builds a positive or negative zero-width lookbehind. sub must
// be written to match the reversed form of the intended text (§9).
func Lookbehind(sub Parser, not bool) Parser {
	p := &lookPattern{Sub: sub, Not: not, Backward: true}
	p.key = structuralKey("look", struct {
		S   string
		N,B bool
	}{sub.String(), not, true})
	return p
}

func (p *lookPattern) parse(g *Grammar, loc int) (*Node, int, bool) {
	var ok bool
	if p.Backward {
		rv := g.reversedView()
		saved := g.input
		g.input = rv
		_, _, matched := g.invoke(p.Sub, rv.mirrorOffset(loc))
		g.input = saved
		ok = matched
	} else {
		mark := g.rollback.mark()
		_, _, matched := g.invoke(p.Sub, loc)
		g.rollback.rollbackTo(mark)
		ok = matched
	}
	if p.Not {
		ok = !ok
	}
	if !ok {
		return nil, loc, false
	}
	return nil, loc, true
}

func (p *lookPattern) String() string {
	sym := "?"
	if p.Not {
		sym = "!"
	}
	if p.Backward {
		sym += "<"
	}
	return fmt.Sprintf("%s%s", sym, p.Sub)
}

// --- Synonym -------------------------------------------------------------

// synonymPattern gives a symbol name to another parser without an extra
// tree level when in reduced mode (§4.1 Synonym).
type synonymPattern struct {
	base
	Sub Parser
}

// Synonym builds a transparent renaming wrapper.
func Synonym(name string, sub Parser) Parser {
	p := &synonymPattern{Sub: sub}
	p.name = name
	p.disposable = true
	p.key = "sym:" + name
	return p
}

func (p *synonymPattern) parse(g *Grammar, loc int) (*Node, int, bool) {
	return g.invoke(p.Sub, loc)
}

func (p *synonymPattern) String() string { return p.name }

// --- Inject --------------------------------------------------------------

// injectPattern re-examines the text matched by Sub through a Go validator
// function, the escape hatch for checks a grammar cannot express
// declaratively (numeric range checks, greedy-match disambiguation) without
// letting external packages implement Parser directly, since Parser's
// methods are unexported on purpose (§4.1's combinator set is closed; this
// is the one place native Go logic may still participate).
type injectPattern struct {
	base
	Sub      Parser
	Validate func(matched string) (length int, ok bool)
}

// Inject builds a parser that runs sub, then passes its matched text to
// validate; validate's returned length becomes the combinator's actual
// match length (it may be shorter than sub's match, never longer), and its
// bool return can still turn a syntactic match into a semantic non-match.
func Inject(validate func(matched string) (int, bool), sub Parser) Parser {
	p := &injectPattern{Sub: sub, Validate: validate}
	p.key = structuralKey("inject", struct{ S string }{sub.String()})
	return p
}

func (p *injectPattern) parse(g *Grammar, loc int) (*Node, int, bool) {
	node, newLoc, ok := g.invoke(p.Sub, loc)
	if !ok {
		return nil, loc, false
	}
	matched := g.input.Slice(loc, newLoc)
	length, valid := p.Validate(matched)
	if !valid || length > len(matched) {
		return nil, loc, false
	}
	end := loc + length
	if end == newLoc {
		return node, end, true
	}
	return &Node{Name: anonymousPrefix + "inject", Leaf: matched[:length], Position: loc, length: length, disposable: true}, end, true
}

func (p *injectPattern) String() string { return fmt.Sprintf("Inject(%s)", p.Sub) }

// --- True / False predicates shared across the combinator set -----------

type boolPattern struct {
	base
	ok bool
}

// True always matches, consuming no text.
var True Parser = &boolPattern{ok: true}

// False always dismatches.
var False Parser = &boolPattern{ok: false}

func init() {
	True.(*boolPattern).key = "true"
	False.(*boolPattern).key = "false"
}

func (p *boolPattern) parse(g *Grammar, loc int) (*Node, int, bool) {
	return nil, loc, p.ok
}

func (p *boolPattern) String() string {
	if p.ok {
		return "true"
	}
	return "false"
}

const (
	tokenSentinelOpen  = "\x02"
	tokenSentinelSep   = "\x1f"
	tokenSentinelClose = '\x03'
)
