package dhparser

import "fmt"

// FilterFunc transforms a captured value before Retrieve/Pop compares it
// against the input, e.g. the bracket-pairing filter in §4.2's example
// ("matching `)` against a captured `(`").
type FilterFunc func(captured string) (expected string)

// captureStacks holds, per captured symbol, the stack of strings pushed by
// Capture and consumed by Retrieve/Pop (§4.2). Every mutation is paired
// with an entry on the grammar's rollback log so that backtracking past
// the mutation's call location restores the stacks exactly (§8 property 2).
type captureStacks struct {
	stacks map[string][]string
	total  int // sum of all stack lengths; see Grammar.invoke
}

func newCaptureStacks() *captureStacks {
	return &captureStacks{stacks: make(map[string][]string)}
}

func (cs *captureStacks) push(symbol, value string) {
	cs.stacks[symbol] = append(cs.stacks[symbol], value)
	cs.total++
}

func (cs *captureStacks) pop(symbol string) (string, bool) {
	s := cs.stacks[symbol]
	if len(s) == 0 {
		return "", false
	}
	v := s[len(s)-1]
	cs.stacks[symbol] = s[:len(s)-1]
	cs.total--
	return v, true
}

func (cs *captureStacks) top(symbol string) (string, bool) {
	s := cs.stacks[symbol]
	if len(s) == 0 {
		return "", false
	}
	return s[len(s)-1], true
}

// nonEmptySymbols returns the names of every capture stack still holding
// values, used to detect the "malformed grammar" runtime anomaly (§4.2
// invariant, §7 Runtime anomaly): at the end of a successful parse every
// capture stack must be empty.
func (cs *captureStacks) nonEmptySymbols() []string {
	var names []string
	for name, s := range cs.stacks {
		if len(s) > 0 {
			names = append(names, name)
		}
	}
	return names
}

// --- Capture -----------------------------------------------------------

// capturePattern matches its sub-parser and, on success, pushes the
// matched text onto the stack for Symbol (§4.2 Capture).
type capturePattern struct {
	base
	Symbol     string
	Sub        Parser
	AllowEmpty bool // suppress the empty-capture warning
}

// Capture builds a Capture operator: on a successful match of sub, the
// matched text is pushed onto the capture stack named symbol.
func Capture(symbol string, sub Parser) Parser {
	p := &capturePattern{Symbol: symbol, Sub: sub}
	p.key = structuralKey("capture:"+symbol, struct{ S string }{sub.String()})
	return p
}

func (p *capturePattern) parse(g *Grammar, loc int) (*Node, int, bool) {
	node, newLoc, ok := g.invoke(p.Sub, loc)
	if !ok {
		return nil, loc, false
	}
	text := g.input.Slice(loc, newLoc)
	if text == "" && !p.AllowEmpty && !g.emptyCaptureWarned[p] {
		g.emptyCaptureWarned[p] = true
		g.addError(newError(CodeEmptyCapture, g.input.Position(loc),
			"capture %q matched an empty string", p.Symbol))
	}

	g.captures.push(p.Symbol, text)
	symbol := p.Symbol
	g.rollback.push(loc, func() {
		// Undo exactly the push this invocation performed, regardless of
		// what has been pushed/popped on top of it since (§4.2).
		s := g.captures.stacks[symbol]
		if len(s) > 0 {
			g.captures.stacks[symbol] = s[:len(s)-1]
			g.captures.total--
		}
	})

	wrapped := wrapNode(p.name, node, loc, newLoc, p.dropContent)
	return wrapped, newLoc, true
}

func (p *capturePattern) String() string {
	return fmt.Sprintf("Capture(%q, %s)", p.Symbol, p.Sub)
}

// --- Retrieve ------------------------------------------------------------

// retrievePattern matches the input literally against the current top of
// Symbol's capture stack, optionally through a Filter (§4.2 Retrieve).
type retrievePattern struct {
	base
	Symbol string
	Filter FilterFunc
}

// Retrieve builds a Retrieve operator.
func Retrieve(symbol string, filter FilterFunc) Parser {
	p := &retrievePattern{Symbol: symbol, Filter: filter}
	p.key = structuralKey("retrieve:"+symbol, struct{}{})
	return p
}

func (p *retrievePattern) parse(g *Grammar, loc int) (*Node, int, bool) {
	captured, ok := g.captures.top(p.Symbol)
	if !ok {
		return nil, loc, false
	}
	expect := captured
	if p.Filter != nil {
		expect = p.Filter(captured)
	}
	if !matchLiteralAt(g.input, loc, expect) {
		return nil, loc, false
	}
	newLoc := loc + len(expect)
	return &Node{Name: anonymousPrefix + "retrieve", Leaf: expect, Position: loc, length: len(expect)}, newLoc, true
}

func (p *retrievePattern) String() string {
	return fmt.Sprintf("Retrieve(%q)", p.Symbol)
}

// --- Pop -----------------------------------------------------------------

// popPattern behaves like Retrieve but also pops the stack on match
// (§4.2 Pop). PopAlways pops regardless of whether the match succeeded.
type popPattern struct {
	base
	Symbol    string
	Filter    FilterFunc
	PopAlways bool
}

// Pop builds a Pop operator.
func Pop(symbol string, filter FilterFunc, popAlways bool) Parser {
	p := &popPattern{Symbol: symbol, Filter: filter, PopAlways: popAlways}
	p.key = structuralKey("pop:"+symbol, struct{ A bool }{popAlways})
	return p
}

func (p *popPattern) parse(g *Grammar, loc int) (*Node, int, bool) {
	captured, ok := g.captures.top(p.Symbol)
	if !ok {
		return nil, loc, false
	}
	expect := captured
	if p.Filter != nil {
		expect = p.Filter(captured)
	}
	matched := matchLiteralAt(g.input, loc, expect)

	if matched || p.PopAlways {
		popped, _ := g.captures.pop(p.Symbol)
		symbol := p.Symbol
		g.rollback.push(loc, func() {
			g.captures.stacks[symbol] = append(g.captures.stacks[symbol], popped)
			g.captures.total++
		})
	}

	if !matched {
		return nil, loc, false
	}
	newLoc := loc + len(expect)
	return &Node{Name: anonymousPrefix + "pop", Leaf: expect, Position: loc, length: len(expect)}, newLoc, true
}

func (p *popPattern) String() string {
	return fmt.Sprintf("Pop(%q)", p.Symbol)
}

func matchLiteralAt(in *InputView, loc int, text string) bool {
	if text == "" {
		return true
	}
	end := loc + len(text)
	if end > in.Len() {
		return false
	}
	return in.Slice(loc, end) == text
}

// BracketFilter builds a FilterFunc pairing each opening bracket rune with
// its closing counterpart, the canonical example from §4.2.
func BracketFilter(pairs map[string]string) FilterFunc {
	return func(captured string) string {
		if closing, ok := pairs[captured]; ok {
			return closing
		}
		return captured
	}
}
