package dhparser

// Reduce applies the tree reduction policy described in §4.6 to a finished
// parse tree, returning a (possibly) new tree. It is a separate pass
// rather than something every combinator does while assembling its own
// node, which keeps the packrat/left-recursion/capture machinery
// (combinators.go, leftrecursion.go) free of tree-shape concerns and lets
// the same raw tree be reduced at different levels for inspection.
func Reduce(root *Node, level ReductionLevel) *Node {
	if root == nil || level == ReductionNone {
		return root
	}
	reduced := reduceNode(root, level, true)
	if reduced == nil {
		return root
	}
	return reduced
}

// reduceNode reduces one node bottom-up. atTop distinguishes the
// merge-treetops case (only merge leaves adjacent at the top of an
// anonymous subtree) from full merge (everywhere).
func reduceNode(n *Node, level ReductionLevel, atTop bool) *Node {
	if n == nil || n.IsLeaf() {
		return n
	}

	children := make([]*Node, 0, len(n.Children))
	childAtTop := atTop && n.IsAnonymous()
	for _, c := range n.Children {
		rc := reduceNode(c, level, childAtTop)
		if rc == nil {
			continue
		}
		children = append(children, rc)
	}

	// flatten: splice an anonymous, disposable single-child node into its
	// parent's child list in place of itself.
	if level >= ReductionFlatten {
		children = flattenChildren(children)
	}

	if level >= ReductionMergeTreetops {
		mergeTop := level >= ReductionMerge || atTop
		children = mergeAdjacentLeaves(children, mergeTop)
	}

	out := *n
	out.Children = children
	out.recomputeSpan()

	// A disposable anonymous wrapper with exactly one child and no
	// attributes of its own contributes nothing but structure once
	// flattened; let the caller splice it away entirely.
	if level >= ReductionFlatten && out.disposable && out.IsAnonymous() && len(out.Children) == 1 && len(out.Attributes) == 0 {
		return out.Children[0]
	}

	return &out
}

func flattenChildren(children []*Node) []*Node {
	out := make([]*Node, 0, len(children))
	for _, c := range children {
		if c.disposable && c.IsAnonymous() && !c.IsLeaf() {
			out = append(out, c.Children...)
			continue
		}
		out = append(out, c)
	}
	return out
}

func mergeAdjacentLeaves(children []*Node, everywhere bool) []*Node {
	if len(children) < 2 {
		return children
	}
	out := make([]*Node, 0, len(children))
	for _, c := range children {
		if len(out) > 0 {
			prev := out[len(out)-1]
			if everywhere && prev.IsLeaf() && c.IsLeaf() && prev.IsAnonymous() && c.IsAnonymous() {
				merged := &Node{
					Name:     prev.Name,
					Leaf:     prev.Leaf + c.Leaf,
					Position: prev.Position,
					length:   prev.length + c.length,
				}
				out[len(out)-1] = merged
				continue
			}
		}
		out = append(out, c)
	}
	return out
}
