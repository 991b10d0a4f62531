package dhparser

import (
	"fmt"
	"strings"
)

// ReductionLevel controls how aggressively anonymous nodes are removed
// during tree assembly (§4.6).
type ReductionLevel int

const (
	ReductionNone ReductionLevel = iota
	ReductionFlatten
	ReductionMergeTreetops
	ReductionMerge
)

// anonymousPrefix marks a node name as anonymous, i.e. synthesized by a
// combinator rather than named in the grammar (§3 Node).
const anonymousPrefix = ":"

// Node is a single element of a concrete (or, after transformation,
// abstract) syntax tree. Its result is either a leaf string or an ordered
// sequence of children, never both at once, though either may be empty.
//
// Invariant: when Children is non-nil, Len() equals the sum of the
// children's Len()s, and Position is monotonically non-decreasing across a
// preorder traversal of any well-formed tree (§3 Node, §8 property 4).
type Node struct {
	Name     string
	Leaf     string
	Children []*Node

	Position int
	length   int // only meaningful when Children == nil; see Len()

	Attributes map[string]string

	disposable  bool
	dropContent bool
	zombie      bool
}

// NewLeaf builds a leaf node holding literal matched text.
func NewLeaf(name string, pos int, text string) *Node {
	return &Node{Name: name, Leaf: text, Position: pos, length: len(text)}
}

// NewBranch builds a branch node from already-assembled children. The
// caller is responsible for the span invariant; use Node.recomputeSpan to
// restore it after mutating Children.
func NewBranch(name string, pos int, children []*Node) *Node {
	n := &Node{Name: name, Position: pos, Children: children}
	return n
}

// IsLeaf reports whether this node holds literal text rather than children.
func (n *Node) IsLeaf() bool {
	return n.Children == nil
}

// IsAnonymous reports whether the node's name begins with the reserved
// anonymous sentinel.
func (n *Node) IsAnonymous() bool {
	return strings.HasPrefix(n.Name, anonymousPrefix)
}

// IsDisposable reports whether the node may be elided during tree
// reduction (§4.6).
func (n *Node) IsDisposable() bool {
	return n.disposable
}

// IsZombie reports whether this node is a placeholder inserted at an
// error-recovery point (§4.5, GLOSSARY: Zombie node).
func (n *Node) IsZombie() bool {
	return n.zombie
}

// Len returns the number of source bytes this node's span covers.
func (n *Node) Len() int {
	if n.IsLeaf() {
		return n.length
	}
	total := 0
	for _, c := range n.Children {
		total += c.Len()
	}
	return total
}

// recomputeSpan recomputes length from children, restoring the content-
// length invariant after Children has been spliced/merged (§4.6).
func (n *Node) recomputeSpan() {
	if n.IsLeaf() {
		return
	}
	total := 0
	for _, c := range n.Children {
		total += c.Len()
	}
	n.length = total
}

// Attr returns the value of an attribute, and whether it was present.
func (n *Node) Attr(key string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	v, ok := n.Attributes[key]
	return v, ok
}

// SetAttr attaches or overwrites an attribute.
func (n *Node) SetAttr(key, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[key] = value
}

// FullText reconstructs the full-content text covered by this node's span,
// including text under drop-content descendants, by simply re-slicing the
// original source over [Position, Position+Len()). This is what §8
// property 7 ("reduction preservation") actually verifies against.
func (n *Node) FullText(src *InputView) string {
	return src.Slice(n.Position, n.Position+n.Len())
}

func (n *Node) String() string {
	if n.IsLeaf() {
		return fmt.Sprintf("%s@%d(%q)", n.Name, n.Position, n.Leaf)
	}
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s@%d(%s)", n.Name, n.Position, strings.Join(parts, " "))
}

// RootNode specializes Node to additionally carry the complete error list
// produced by a parse, an index from error position to node, the source's
// line-break table (exposed indirectly via Input), and a stage tag naming
// the current processing phase (§3 RootNode).
type RootNode struct {
	*Node

	Input *InputView
	Errors []Error

	// errorIndex maps a source byte offset to the errors recorded there,
	// for O(1) "what went wrong here" queries.
	errorIndex map[int][]*Error

	Stage string

	// RunID correlates this parse with its structured log lines (see
	// logging.go); minted once per Grammar.Reset via uuid.New().
	RunID string

	// SourceMap is empty unless a Preprocessor recorded runs (§6); maps
	// positions in the parsed (preprocessed) text back to the original.
	SourceMap SourceMap
}

// AddError appends an error to the root node's error list and index.
func (r *RootNode) AddError(e Error) {
	r.Errors = append(r.Errors, e)
	if r.errorIndex == nil {
		r.errorIndex = make(map[int][]*Error)
	}
	r.errorIndex[e.Position.Offset] = append(r.errorIndex[e.Position.Offset], &r.Errors[len(r.Errors)-1])
}

// ErrorsAt returns the errors recorded at a given source offset.
func (r *RootNode) ErrorsAt(offset int) []*Error {
	return r.errorIndex[offset]
}

// HasErrorsAbove reports whether any recorded error has severity >= min.
func (r *RootNode) HasErrorsAbove(min Severity) bool {
	for _, e := range r.Errors {
		if e.Severity >= min {
			return true
		}
	}
	return false
}

// MaxSeverity returns the highest severity among recorded errors, or
// SeverityNotice if there are none (the zero value is intentionally the
// mildest severity, so an empty list never look likes "fatal").
func (r *RootNode) MaxSeverity() Severity {
	max := SeverityNotice
	for _, e := range r.Errors {
		if e.Severity > max {
			max = e.Severity
		}
	}
	return max
}
