package dhparser

import (
	"fmt"
	"strings"
)

// interleaveOperand is one member of an Interleave, with its own
// repetition range (§4.1 Interleave: "each operand may carry a repetition
// range").
type interleaveOperand struct {
	Sub      Parser
	Min, Max int // Max < 0 means unbounded
}

// interleavePattern matches its operands in any order, each position in
// the sequence consumed within its configured repetition range, until no
// operand can make further progress (§4.1 Interleave). Mandatory marking
// applies per operand exactly as for Series (§4.5).
type interleavePattern struct {
	base
	Operands  []interleaveOperand
	Mandatory map[int]bool // indices (into Operands) that are "§"-marked
}

// Operand builds one Interleave member with an explicit repetition range.
func Operand(sub Parser, min, max int) interleaveOperand {
	return interleaveOperand{Sub: sub, Min: min, Max: max}
}

// Interleave builds the A ° B ° C operator. mandatory names the zero-based
// operand indices that are "§"-marked.
func Interleave(operands []interleaveOperand, mandatory ...int) Parser {
	p := &interleavePattern{Operands: operands, Mandatory: make(map[int]bool)}
	for _, i := range mandatory {
		p.Mandatory[i] = true
	}
	strs := make([]string, len(operands))
	for i, o := range operands {
		strs[i] = fmt.Sprintf("%s{%d,%d}", o.Sub, o.Min, o.Max)
	}
	p.key = structuralKey("interleave", struct{ Ops []string }{strs})
	return p
}

func (p *interleavePattern) parse(g *Grammar, loc int) (*Node, int, bool) {
	counts := make([]int, len(p.Operands))
	var children []*Node
	at := loc

	for {
		progressed := false
		for i, op := range p.Operands {
			if op.Max >= 0 && counts[i] >= op.Max {
				continue
			}
			mark := g.rollback.mark()
			node, newLoc, ok := g.invoke(op.Sub, at)
			if !ok {
				g.rollback.rollbackTo(mark)
				if p.Mandatory[i] && counts[i] < op.Min {
					zombie, resumeAt, recovered := g.recoverOperand(p, op.Sub, i, at)
					children = append(children, zombie)
					counts[i]++
					if !recovered {
						return nil, loc, false
					}
					at = resumeAt
					progressed = true
				}
				continue
			}
			if node != nil {
				children = append(children, node)
			}
			at = newLoc
			counts[i]++
			progressed = true
		}
		if !progressed {
			break
		}
	}

	for i, op := range p.Operands {
		if counts[i] < op.Min {
			return nil, loc, false
		}
	}
	n := NewBranch(anonymousPrefix+"interleave", loc, children)
	n.disposable = true
	return n, at, true
}

func (p *interleavePattern) String() string {
	strs := make([]string, len(p.Operands))
	for i, o := range p.Operands {
		strs[i] = o.Sub.String()
	}
	return "(" + strings.Join(strs, " ° ") + ")"
}
