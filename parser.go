package dhparser

// Parser is the single interface every combinator in the grammar graph
// implements (§4.1). Every call goes through Grammar.invoke rather than
// calling parse directly, so memoization, left-recursion handling and the
// call-stack/rollback bookkeeping are centralized in one place (§3 Grammar,
// §4.3, §4.4).
//
// parse itself must be a pure function of (g, loc) plus whatever g's
// mutable runtime state says: on non-match it returns (nil, loc, false)
// without having mutated g in any way that survives rollback, apart from
// diagnostics: Error records from mandatory-marker failures and
// farthest-failure/history updates are kept.
type Parser interface {
	parse(g *Grammar, loc int) (*Node, int, bool)
	String() string

	// symbol returns the grammar symbol name if this parser was produced
	// by Named, or "" for an anonymous combinator.
	symbol() string

	// eqKey returns the memoization equivalence-class key (§4.3): the
	// symbol name for named parsers, a structural hash for anonymous ones.
	eqKey() string
}

// base is embedded by every concrete parser type to carry the flags and
// bookkeeping shared across the whole combinator graph (§3 Parser).
type base struct {
	name        string // grammar symbol name, "" if anonymous
	disposable  bool
	dropContent bool
	key         string // cached equivalence-class key
}

func (b *base) symbol() string { return b.name }
func (b *base) eqKey() string  { return b.key }

// Named wraps pat with a symbol name, keying its memoization by that name
// (two calls to the same *Named share a memo bucket regardless of
// structural equality; so do two distinct *Named values given the same
// name) and making it a valid left-recursion
// participant (§4.4: "recursion counter per named parser").
type Named struct {
	base
	Target Parser
}

// NewNamed names an existing parser. Grammar construction (the external
// EBNF-compiler collaborator, §6) is expected to call this once per
// grammar rule and register the result in a symbol table so Forward
// parsers can resolve by name.
func NewNamed(name string, target Parser) *Named {
	n := &Named{Target: target}
	n.name = name
	n.key = "sym:" + name
	return n
}

func (n *Named) parse(g *Grammar, loc int) (*Node, int, bool) {
	node, newLoc, ok := g.invoke(n.Target, loc)
	if !ok {
		return nil, loc, false
	}
	if n.disposable {
		return node, newLoc, true
	}
	wrapped := wrapNode(n.name, node, loc, newLoc, n.dropContent)
	return wrapped, newLoc, true
}

func (n *Named) String() string { return n.name }

// wrapNode assembles the result node a named parser (or any combinator
// that introduces a tree level) returns for its sub-match, honoring
// drop-content (§4.6).
func wrapNode(name string, sub *Node, from, to int, drop bool) *Node {
	if drop {
		return &Node{Name: name, Leaf: "", Position: from, length: to - from, dropContent: true}
	}
	if sub == nil {
		return &Node{Name: name, Leaf: "", Position: from}
	}
	return &Node{Name: name, Children: []*Node{sub}, Position: from}
}

// Forward is a placeholder filled in after construction to close grammar
// cycles (§4.1, §9). Grammar construction creates one Forward per
// recursive rule reference, then calls Resolve once every parser exists.
type Forward struct {
	base
	target Parser
}

// NewForward creates an unresolved placeholder.
func NewForward() *Forward {
	return &Forward{}
}

// Resolve closes the cycle. Calling Resolve twice, or parsing through an
// unresolved Forward, is a programmer error.
func (f *Forward) Resolve(target Parser) {
	f.target = target
	if named, ok := target.(*Named); ok {
		f.name = named.name
		f.key = named.key
	} else {
		f.key = "fwd:" + target.String()
	}
}

func (f *Forward) parse(g *Grammar, loc int) (*Node, int, bool) {
	if f.target == nil {
		panic(errUnresolvedForwardPanic)
	}
	return g.invoke(f.target, loc)
}

func (f *Forward) String() string {
	if f.target == nil {
		return "<unresolved>"
	}
	return f.target.String()
}

var errUnresolvedForwardPanic = errorf("forward parser used before Resolve")
