package dhparser

import "regexp"

// SkipRule is one entry of a mandatory marker's local-recovery
// configuration (§4.5 step 2): an ordered list of regexes or sub-parser
// references is scanned forward from the failure location; the first one
// that matches determines where local recovery resumes.
type SkipRule struct {
	Pattern *regexp.Regexp
	Sub     Parser // alternative to Pattern; exactly one should be set
}

// SkipOnRegexp builds a skip rule that scans forward for a regular
// expression match.
func SkipOnRegexp(pattern string) SkipRule {
	return SkipRule{Pattern: regexp.MustCompile(pattern)}
}

// SkipOnParser builds a skip rule that scans forward for the first
// position where sub matches.
func SkipOnParser(sub Parser) SkipRule {
	return SkipRule{Sub: sub}
}

// ResumeRule is one entry of a mandatory marker's non-local recovery
// configuration (§4.5 step 3): the caller's own follow-set patterns.
type ResumeRule struct {
	Pattern *regexp.Regexp
	Sub     Parser
}

// ResumeOnRegexp builds a resume rule matching a regular expression.
func ResumeOnRegexp(pattern string) ResumeRule {
	return ResumeRule{Pattern: regexp.MustCompile(pattern)}
}

// ResumeOnParser builds a resume rule matching a sub-parser.
func ResumeOnParser(sub Parser) ResumeRule {
	return ResumeRule{Sub: sub}
}

// SetErrorMessage configures the error message text emitted for a
// mandatory-marker failure at a specific call site (§4.5 step 1, §6
// "per-symbol error... configurations").
func (g *Grammar) SetErrorMessage(site Parser, message string) {
	g.errorMsgs[site] = message
}

// SetSkipRules configures local-recovery rules for a mandatory-marker call
// site (§4.5 step 2, §6).
func (g *Grammar) SetSkipRules(site Parser, rules ...SkipRule) {
	g.skipRules[site] = rules
}

// SetResumeRules configures non-local-recovery rules for a call site
// (§4.5 step 3, §6).
func (g *Grammar) SetResumeRules(site Parser, rules ...ResumeRule) {
	g.resumeRules[site] = rules
}

// recoverSeries implements the error-recovery protocol of §4.5 for one
// failed mandatory element of a Series: emit the error, try local skip
// recovery, then fall back to resume recovery, in that order. Returns the
// zombie node to splice in, the location parsing should continue from, and
// whether recovery succeeded (true) or the Series must fail outright
// (false, with resumeAt best-effort set to the failure position).
func (g *Grammar) recoverSeries(site Parser, failed Parser, index, at int) (*Node, int, bool) {
	return g.recover(site, failed, at)
}

// recoverOperand is the Interleave-operand counterpart of recoverSeries.
func (g *Grammar) recoverOperand(site Parser, failed Parser, index, at int) (*Node, int, bool) {
	return g.recover(site, failed, at)
}

func (g *Grammar) recover(site Parser, failed Parser, at int) (*Node, int, bool) {
	pos := g.input.Position(at)
	msg, ok := g.errorMsgs[site]
	if !ok {
		msg = "expected " + failed.String()
	}
	g.addError(newError(CodeMandatoryFailure, pos, "%s", msg))

	g.dropoutCount++
	if g.config.DropoutLimit > 0 && g.dropoutCount > g.config.DropoutLimit {
		g.addError(newError(CodeDropoutExceeded, pos,
			"parse abandoned: dropout counter exceeded %d", g.config.DropoutLimit))
		return newZombie(at), at, false
	}

	if resumeAt, found := g.scanSkip(site, at); found {
		g.logRecovery("skip", at, true)
		return newZombie(at), resumeAt, true
	}

	// Local skip found nothing: escalate to site's own resume configuration
	// (§4.5 step 3) before giving up. This is what lets the Series continue
	// with its own next sibling even though the failed element's local skip
	// rules couldn't resynchronize.
	if resumeAt, found := g.ScanResume(site, at); found {
		g.logRecovery("resume", at, true)
		return newZombie(at), resumeAt, true
	}

	g.logRecovery("skip", at, false)
	return newZombie(at), at, false
}

// scanSkip scans forward from `at` trying each configured skip rule in
// order, returning the position just past the first match found anywhere
// at or after `at` (§4.5 step 2: "scans forward... trying each until one
// matches").
func (g *Grammar) scanSkip(site Parser, at int) (int, bool) {
	rules := g.skipRules[site]
	best := -1
	for _, r := range rules {
		if pos, ok := g.firstMatchFrom(r.Pattern, r.Sub, at); ok {
			if best < 0 || pos < best {
				best = pos
			}
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// ScanResume applies site's configured resume rules (§4.5 step 3),
// returning the position where site's own next sibling should continue.
// Called from recover once scanSkip finds nothing: local recovery gives
// the failed element one more chance to resynchronize against the
// caller's follow set before the whole Series is forced to fail outright.
// Exported so a caller that wants to decide resume eligibility itself
// (rather than go through recover) can invoke it directly.
func (g *Grammar) ScanResume(site Parser, at int) (int, bool) {
	rules := g.resumeRules[site]
	best := -1
	for _, r := range rules {
		if pos, ok := g.firstMatchFrom(r.Pattern, r.Sub, at); ok {
			if best < 0 || pos < best {
				best = pos
			}
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

func (g *Grammar) firstMatchFrom(pattern *regexp.Regexp, sub Parser, at int) (int, bool) {
	text := g.input.Text()
	if pattern != nil {
		loc := pattern.FindStringIndex(text[at:])
		if loc == nil {
			return 0, false
		}
		return at + loc[1], true
	}
	if sub != nil {
		for pos := at; pos <= len(text); pos++ {
			mark := g.rollback.mark()
			_, newLoc, ok := g.invoke(sub, pos)
			g.rollback.rollbackTo(mark)
			if ok {
				return newLoc, true
			}
		}
	}
	return 0, false
}

// newZombie builds a placeholder node inserted at a recovery point so the
// tree remains well-formed and positions stay monotonic (§4.5 step 4,
// GLOSSARY: Zombie node).
func newZombie(at int) *Node {
	return &Node{Name: anonymousPrefix + "zombie", Position: at, zombie: true}
}
