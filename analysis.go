package dhparser

import (
	"github.com/emirpasic/gods/sets/hashset"
)

// Analyze walks the grammar graph reachable from the root, populating the
// reachable-parser set and running the static checks of §4.7: unreachable
// alternatives, non-terminating repetitions, undefined symbols (dangling
// Forward parsers), infinite left recursion without a base case, and
// mandatory markers placed before any element that could never fail.
// Errors (severity >= error) block Grammar.Parse; warnings do not.
func (g *Grammar) Analyze() []Error {
	g.parsers = hashset.New()
	var errs []Error

	visited := make(map[Parser]bool)
	var walk func(p Parser)
	walk = func(p Parser) {
		if p == nil || visited[p] {
			return
		}
		visited[p] = true
		g.parsers.Add(p)
		for _, sub := range subParsers(p) {
			walk(sub)
		}
	}
	if g.root != nil {
		walk(g.root)
	}

	emptyCache := make(map[Parser]int) // 0=unknown/visiting, 1=yes, 2=no

	g.parsers.Each(func(_ int, v interface{}) {
		p := v.(Parser)
		switch pp := p.(type) {
		case *Forward:
			if pp.target == nil {
				errs = append(errs, newError(CodeUndefinedSymbol, Position{},
					"forward parser referenced but never resolved"))
			}
		case *repeatPattern:
			if canMatchEmpty(pp.Sub, emptyCache) {
				errs = append(errs, newError(CodeEmptyLoopStatic, Position{},
					"repetition body %s can match the empty string: risk of non-terminating loop", pp.Sub))
			}
		case *alternativePattern:
			errs = append(errs, checkUnreachableAlternatives(pp.Choices)...)
		case *seriesPattern:
			errs = append(errs, checkMandatoryPlacement(pp)...)
		}
	})

	errs = append(errs, checkLeftRecursionBaseCase(g.root, make(map[Parser]bool))...)

	g.analysisErrs = errs
	return errs
}

// AnalysisErrors returns the diagnostics from the most recent Analyze
// call (Parse runs it automatically if it has not been run yet).
func (g *Grammar) AnalysisErrors() []Error {
	return g.analysisErrs
}

// subParsers enumerates the immediate sub-parsers of p, for the graph
// walk. Parser variants own their children directly except across
// grammar cycles, where Forward provides the indirection (§3 Ownership).
func subParsers(p Parser) []Parser {
	switch pp := p.(type) {
	case *Named:
		return []Parser{pp.Target}
	case *Forward:
		if pp.target != nil {
			return []Parser{pp.target}
		}
		return nil
	case *optionPattern:
		return []Parser{pp.Sub}
	case *repeatPattern:
		return []Parser{pp.Sub}
	case *seriesPattern:
		return pp.Subs
	case *alternativePattern:
		return pp.Choices
	case *interleavePattern:
		subs := make([]Parser, len(pp.Operands))
		for i, o := range pp.Operands {
			subs[i] = o.Sub
		}
		return subs
	case *lookPattern:
		return []Parser{pp.Sub}
	case *synonymPattern:
		return []Parser{pp.Sub}
	case *capturePattern:
		return []Parser{pp.Sub}
	default:
		return nil
	}
}

// canMatchEmpty conservatively determines whether p can match the empty
// string at some position, used by the non-terminating-repetition check.
// Cycles (left recursion without consuming input first) are treated as
// "cannot prove empty" to keep analysis itself terminating, so an
// empty-matching cycle is not reported.
func canMatchEmpty(p Parser, cache map[Parser]int) bool {
	if state, ok := cache[p]; ok {
		return state == 1
	}
	cache[p] = 2 // assume no while visiting, to break cycles
	result := false
	switch pp := p.(type) {
	case *textPattern:
		result = pp.Text == ""
	case *regexpPattern:
		result = pp.re.MatchString("")
	case *optionPattern:
		result = true
	case *repeatPattern:
		result = pp.Min == 0
	case *seriesPattern:
		result = true
		for _, s := range pp.Subs {
			if !canMatchEmpty(s, cache) {
				result = false
				break
			}
		}
	case *alternativePattern:
		for _, c := range pp.Choices {
			if canMatchEmpty(c, cache) {
				result = true
				break
			}
		}
	case *boolPattern:
		result = pp.ok
	case *Named:
		result = canMatchEmpty(pp.Target, cache)
	case *Forward:
		if pp.target != nil {
			result = canMatchEmpty(pp.target, cache)
		}
	case *synonymPattern:
		result = canMatchEmpty(pp.Sub, cache)
	case *lookPattern:
		result = true // zero-width by construction
	}
	if result {
		cache[p] = 1
	} else {
		cache[p] = 2
	}
	return result
}

// checkUnreachableAlternatives flags an Alt where an earlier choice always
// matches a constant prefix that a later choice extends (§4.7, §9 Common
// mistakes "Alt(T('match'), T('match more'))").
func checkUnreachableAlternatives(choices []Parser) []Error {
	var errs []Error
	for i, earlier := range choices {
		et, ok := earlier.(*textPattern)
		if !ok {
			continue
		}
		for j := i + 1; j < len(choices); j++ {
			if lt, ok := choices[j].(*textPattern); ok {
				if len(lt.Text) > len(et.Text) && hasPrefixStr(lt.Text, et.Text) {
					errs = append(errs, newError(CodeUnreachableBranch, Position{},
						"alternative %d (%q) can never be reached: alternative %d (%q) matches its prefix first",
						j, lt.Text, i, et.Text))
				}
			}
		}
	}
	return errs
}

func hasPrefixStr(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// checkMandatoryPlacement flags a "§" marker that covers an element which
// can never fail (e.g. True), making the marker vacuous (§4.7).
func checkMandatoryPlacement(p *seriesPattern) []Error {
	var errs []Error
	for i := p.Mandatory; i < len(p.Subs); i++ {
		if bp, ok := p.Subs[i].(*boolPattern); ok && bp.ok {
			errs = append(errs, newError(CodeMandatoryMisplaced, Position{},
				"mandatory marker covers element %d which can never fail", i))
		}
	}
	return errs
}

// checkLeftRecursionBaseCase looks for a left-recursive rule with no
// alternative that can start by consuming input or terminating (§4.7
// "infinite left-recursion without a base case"). It checks p and the
// rules reached from p through Named/Forward parsers that directly wrap
// another rule; rules reachable only from inside other combinators
// (Series, Alternative, repetitions, ...) are not checked.
func checkLeftRecursionBaseCase(p Parser, visiting map[Parser]bool) []Error {
	named, ok := p.(*Named)
	if !ok {
		if fwd, ok := p.(*Forward); ok && fwd.target != nil {
			return checkLeftRecursionBaseCase(fwd.target, visiting)
		}
		return nil
	}
	if visiting[named] {
		return nil
	}
	visiting[named] = true
	defer delete(visiting, named)

	if alt, ok := named.Target.(*alternativePattern); ok {
		hasBase := false
		for _, choice := range alt.Choices {
			if !leftRecursesInto(choice, named, make(map[Parser]bool)) {
				hasBase = true
			}
		}
		if !hasBase {
			return []Error{newError(CodeLeftRecNoBase, Position{},
				"rule %q is left-recursive with no alternative that can terminate it", named.name)}
		}
	}

	var errs []Error
	for _, sub := range subParsers(p) {
		errs = append(errs, checkLeftRecursionBaseCase(sub, visiting)...)
	}
	return errs
}

// leftRecursesInto reports whether p's leftmost sub-parser chain can reach
// target before consuming any input.
func leftRecursesInto(p Parser, target *Named, seen map[Parser]bool) bool {
	if p == target {
		return true
	}
	if seen[p] {
		return false
	}
	seen[p] = true

	switch pp := p.(type) {
	case *Named:
		return leftRecursesInto(pp.Target, target, seen)
	case *Forward:
		if pp.target != nil {
			return leftRecursesInto(pp.target, target, seen)
		}
	case *seriesPattern:
		if len(pp.Subs) > 0 {
			return leftRecursesInto(pp.Subs[0], target, seen)
		}
	case *alternativePattern:
		for _, c := range pp.Choices {
			if leftRecursesInto(c, target, seen) {
				return true
			}
		}
	case *synonymPattern:
		return leftRecursesInto(pp.Sub, target, seen)
	}
	return false
}
