package dhparser

import "regexp"

// LiteralSide selects which side of a Text literal implicit whitespace is
// consumed from (§6 "literal-whitespace side (left/right/both/none)").
type LiteralSide int

const (
	LiteralWhitespaceNone LiteralSide = iota
	LiteralWhitespaceLeft
	LiteralWhitespaceRight
	LiteralWhitespaceBoth
)

// Directives is the out-of-band metadata a grammar-construction collaborator
// attaches to a set of named parsers (§6): whitespace/comment handling,
// case sensitivity, the disposable/drop sets, the reduction level, and the
// preprocessor-token vocabulary. The EBNF compiler that builds these from
// grammar source is an external collaborator (§1, §6); Directives is the
// plain-data shape it populates.
type Directives struct {
	Whitespace      Parser
	Comment         Parser
	LiteralSide     LiteralSide
	CaseInsensitive bool

	// DropSet names symbols whose matched content is discarded (dropContent)
	// once compiled, typically whitespace/comment/delimiter rules.
	DropSet map[string]bool

	// DisposablePattern names (by regex over the symbol name) rules that are
	// always anonymous/disposable for reduction purposes, e.g. internal
	// helper rules following a naming convention.
	DisposablePattern *regexp.Regexp

	ReductionLevel ReductionLevel

	// PreprocessorTokens lists the token names a Preprocessor is expected to
	// emit (§6). BuildGrammar does not read it: PreprocessorToken parsers
	// referencing an unlisted name are not flagged.
	PreprocessorTokens map[string]bool

	symbolErrors map[string]string
	symbolSkip   map[string][]SkipRule
	symbolResume map[string][]ResumeRule
	symbolFilter map[string]FilterFunc
}

// NewDirectives returns an empty Directives with every required field
// defaulted (§6 "missing required directives default"): no whitespace or
// comment skipping, case-sensitive, flatten-level reduction.
func NewDirectives() *Directives {
	return &Directives{
		DropSet:            make(map[string]bool),
		ReductionLevel:     ReductionFlatten,
		PreprocessorTokens: make(map[string]bool),
		symbolErrors:       make(map[string]string),
		symbolSkip:         make(map[string][]SkipRule),
		symbolResume:       make(map[string][]ResumeRule),
		symbolFilter:       make(map[string]FilterFunc),
	}
}

// SetErrorMessage configures the mandatory-marker failure message used for
// every call site inside the named rule (§6 "per-symbol error... configurations").
func (d *Directives) SetErrorMessage(symbol, message string) { d.symbolErrors[symbol] = message }

// SetSkipRules configures local-recovery rules for the named rule (§6).
func (d *Directives) SetSkipRules(symbol string, rules ...SkipRule) { d.symbolSkip[symbol] = rules }

// SetResumeRules configures non-local-recovery rules for the named rule (§6).
func (d *Directives) SetResumeRules(symbol string, rules ...ResumeRule) {
	d.symbolResume[symbol] = rules
}

// SetFilter registers a named Retrieve/Pop filter (§6 "per-symbol filter
// functions"); Retrieve/Pop built by the compiler reference it by name.
func (d *Directives) SetFilter(name string, fn FilterFunc) { d.symbolFilter[name] = fn }

// Filter looks up a named filter, for use building Retrieve/Pop parsers.
func (d *Directives) Filter(name string) (FilterFunc, bool) {
	fn, ok := d.symbolFilter[name]
	return fn, ok
}

// SymbolRegistry is the single named registry grammar construction wires
// references through (§6): every Named rule the compiler creates is
// registered here under its symbol name, and Forward placeholders are
// resolved against it once every rule exists.
type SymbolRegistry struct {
	named    map[string]*Named
	forwards map[string]*Forward
	warnings []Error
}

// NewSymbolRegistry returns an empty registry.
func NewSymbolRegistry() *SymbolRegistry {
	return &SymbolRegistry{named: make(map[string]*Named), forwards: make(map[string]*Forward)}
}

// Define registers a completed rule under name. Redefining a name is a
// construction-time warning (§6 "unknown directives yield warnings" — the
// same leniency extends to accidental rule redefinition).
func (r *SymbolRegistry) Define(name string, target Parser) *Named {
	n := NewNamed(name, target)
	if _, dup := r.named[name]; dup {
		r.warnings = append(r.warnings, newError(CodeUnreachableBranch, Position{},
			"symbol %q redefined, earlier definition discarded", name))
	}
	r.named[name] = n
	return n
}

// ForwardRef returns a placeholder for a rule referenced before it is
// defined, e.g. inside a recursive descent (§6 "Forward parsers are
// assigned their targets after all parsers exist").
func (r *SymbolRegistry) ForwardRef(name string) *Forward {
	if f, ok := r.forwards[name]; ok {
		return f
	}
	f := NewForward()
	r.forwards[name] = f
	return f
}

// Lookup returns the *Named registered under name, if any.
func (r *SymbolRegistry) Lookup(name string) (*Named, bool) {
	n, ok := r.named[name]
	return n, ok
}

// ResolveForwards closes every Forward created via ForwardRef against its
// now-defined target. Names never defined become CodeUndefinedSymbol
// errors rather than panics, since this runs at grammar-construction time,
// before any parse (§4.7, §6).
func (r *SymbolRegistry) ResolveForwards() []Error {
	var errs []Error
	for name, f := range r.forwards {
		target, ok := r.named[name]
		if !ok {
			errs = append(errs, newError(CodeUndefinedSymbol, Position{},
				"symbol %q is referenced but never defined", name))
			continue
		}
		f.Resolve(target)
	}
	return errs
}

// Warnings returns construction-time warnings accumulated by Define.
func (r *SymbolRegistry) Warnings() []Error {
	return r.warnings
}

// BuildGrammar assembles a Grammar rooted at rootSymbol, applying the given
// Directives' per-symbol error/skip/resume configurations and reduction
// level, and running Analyze before returning so construction-time and
// static-analysis problems surface together (§4.7, §6). The bool return is
// false if rootSymbol is undefined or static analysis found a blocking
// error; callers should inspect the returned errors either way.
func BuildGrammar(r *SymbolRegistry, d *Directives, rootSymbol string, cfg Config) (*Grammar, []Error, bool) {
	var errs []Error
	errs = append(errs, r.Warnings()...)
	errs = append(errs, r.ResolveForwards()...)

	root, ok := r.Lookup(rootSymbol)
	if !ok {
		errs = append(errs, newError(CodeUndefinedSymbol, Position{},
			"root symbol %q is undefined", rootSymbol))
		return nil, errs, false
	}

	if d != nil {
		cfg.ReductionLevel = d.ReductionLevel
	}
	g := NewGrammar(root, cfg)

	if d != nil {
		for name, msg := range d.symbolErrors {
			if n, ok := r.Lookup(name); ok {
				g.SetErrorMessage(n.Target, msg)
			} else {
				errs = append(errs, newError(CodeUndefinedSymbol, Position{},
					"error-message directive for undefined symbol %q", name))
			}
		}
		for name, rules := range d.symbolSkip {
			if n, ok := r.Lookup(name); ok {
				g.SetSkipRules(n.Target, rules...)
			}
		}
		for name, rules := range d.symbolResume {
			if n, ok := r.Lookup(name); ok {
				g.SetResumeRules(n.Target, rules...)
			}
		}
		for name, fn := range d.symbolFilter {
			g.RegisterFilter(name, fn)
		}
		applyDropSet(r, d)
	}

	analysisErrs := g.Analyze()
	errs = append(errs, analysisErrs...)
	return g, errs, !hasBlockingError(analysisErrs)
}

// applyDropSet marks every registered rule named in d.DropSet (or matching
// d.DisposablePattern) as content-dropping/disposable, the compiled form of
// §6's "global drop set" and "disposable regex" directives.
func applyDropSet(r *SymbolRegistry, d *Directives) {
	for name, n := range r.named {
		if d.DropSet[name] {
			n.dropContent = true
		}
		if d.DisposablePattern != nil && d.DisposablePattern.MatchString(name) {
			n.disposable = true
		}
	}
}
