// Package arithmetic is a worked example of a left-recursive expression
// grammar running on the dhparser engine (scenarios 1 and 4 of the
// evaluation properties): expr and term are both directly left-recursive,
// resolved entirely by the engine's seed-and-grow algorithm
// (leftrecursion.go) without any special-casing here.
package arithmetic

import (
	"fmt"
	"strconv"

	"github.com/parsekit/dhparser"
	"github.com/parsekit/dhparser/dhutil"
)

// Build constructs the grammar:
//
//	expr   := expr ('+'|'-') term | term
//	term   := term ('*'|'/') factor | factor
//	factor := number | '(' expr ')'
func Build() *dhparser.Grammar {
	ws := dhparser.Whitespace(`[ \t\r\n]*`)

	exprFwd := dhparser.NewForward()
	termFwd := dhparser.NewForward()

	number := dhparser.NewNamed("number", dhutil.Number)

	factor := dhparser.NewNamed("factor", dhparser.Alt(
		number,
		dhparser.Series([]dhparser.Parser{
			dhparser.T("("), ws, exprFwd, ws, dhparser.T(")"),
		}, 5),
	))

	addop := dhparser.NewNamed("addop", dhparser.Alt(dhparser.T("+"), dhparser.T("-")))
	mulop := dhparser.NewNamed("mulop", dhparser.Alt(dhparser.T("*"), dhparser.T("/")))

	term := dhparser.NewNamed("term", dhparser.Alt(
		dhparser.Seq(termFwd, ws, mulop, ws, factor),
		factor,
	))
	termFwd.Resolve(term)

	expr := dhparser.NewNamed("expr", dhparser.Alt(
		dhparser.Seq(exprFwd, ws, addop, ws, term),
		term,
	))
	exprFwd.Resolve(expr)

	return dhparser.NewGrammar(expr, dhparser.DefaultConfig())
}

// Eval walks a tree produced by Build's grammar and computes its value.
// It recognizes exactly the node shapes that grammar can produce; a
// generic tree-transformation framework is out of scope (§1 Non-goals).
func Eval(n *dhparser.Node) (float64, error) {
	switch n.Name {
	case "number":
		return strconv.ParseFloat(firstLeafText(n), 64)

	case "factor":
		kids := meaningfulChildren(n)
		if len(kids) != 1 {
			return 0, fmt.Errorf("factor: expected exactly one operand, got %d", len(kids))
		}
		return Eval(kids[0])

	case "term", "expr":
		kids := meaningfulChildren(n)
		switch len(kids) {
		case 1:
			return Eval(kids[0])
		case 3:
			left, err := Eval(kids[0])
			if err != nil {
				return 0, err
			}
			right, err := Eval(kids[2])
			if err != nil {
				return 0, err
			}
			return applyOp(firstLeafText(kids[1]), left, right)
		default:
			return 0, fmt.Errorf("%s: unexpected shape with %d children", n.Name, len(kids))
		}

	default:
		return 0, fmt.Errorf("unexpected node %q", n.Name)
	}
}

func applyOp(op string, left, right float64) (float64, error) {
	switch op {
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		if right == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return left / right, nil
	default:
		return 0, fmt.Errorf("unknown operator %q", op)
	}
}

// meaningfulChildren drops the anonymous whitespace/literal nodes a Series
// leaves behind after flatten-level reduction, keeping only the named
// operand/operator sub-trees.
func meaningfulChildren(n *dhparser.Node) []*dhparser.Node {
	var out []*dhparser.Node
	for _, c := range n.Children {
		if !c.IsAnonymous() {
			out = append(out, c)
		}
	}
	return out
}

// firstLeafText descends to the first leaf under n and returns its text,
// regardless of how many Named wrapper levels sit above it.
func firstLeafText(n *dhparser.Node) string {
	for !n.IsLeaf() {
		if len(n.Children) == 0 {
			return ""
		}
		n = n.Children[0]
	}
	return n.Leaf
}
