package dhparser

import (
	"context"
	"fmt"

	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config holds the grammar-internal tunables described in §3 Grammar(i)
// and used throughout §4. Loading these *from* a file or environment is
// explicitly out of scope (§1); this is the in-process struct the external
// collaborator would populate.
type Config struct {
	// CallstackLimit bounds recursion depth; zero or negative disables
	// the check entirely.
	CallstackLimit int

	// LoopLimit bounds qualifier iteration counts (infinite-loop guard).
	LoopLimit int

	// DropoutLimit bounds how many mandatory-marker failures (§4.5) a
	// single parse tolerates before it is abandoned with a fatal error.
	DropoutLimit int

	// ReductionLevel controls tree-reduction aggressiveness (§4.6).
	ReductionLevel ReductionLevel

	// RecordHistory enables the call-frame ring buffer (§3(i)).
	RecordHistory bool
	HistorySize   int

	// DisableLineColumnCounting is accepted but not consulted by the
	// engine: every Position it produces carries line and column as well
	// as the byte offset, whatever this flag says.
	DisableLineColumnCounting bool

	// DisableMemo turns off packrat memoization entirely, producing an
	// unmemoized reference parse; used to verify memoization transparency
	// (§8 property 1) rather than as a normal runtime mode.
	DisableMemo bool
}

// DefaultConfig mirrors reasonable packrat-engine defaults.
func DefaultConfig() Config {
	return Config{
		CallstackLimit: 2000,
		LoopLimit:      10000,
		DropoutLimit:   50,
		ReductionLevel: ReductionFlatten,
		RecordHistory:  false,
		HistorySize:    256,
	}
}

// historyFrame is one entry of the optional call-history ring buffer
// (§3(i): "flags controlling history recording").
type historyFrame struct {
	Symbol string
	Loc    int
	Ok     bool
}

// Grammar is the shared runtime context for one parse (§3 Grammar). It
// owns every piece of mutable state a parse touches: the memo cache, the
// call stack, the rollback log, the capture stacks, the farthest-failure
// location, and the left-recursion bookkeeping. A Grammar is not safe for
// concurrent use; distinct instances (or distinct Reset cycles of the same
// instance) are independent (§5).
type Grammar struct {
	root Parser

	// parsers is the set of all reachable parsers, populated by Analyze
	// (§3(c), §4.7). Built with gods' hashset to match the spec's own
	// "set of all reachable parsers" phrasing with a concrete set type.
	parsers *hashset.Set

	input *InputView

	config Config

	memo     *memoCache
	rollback *rollbackLog
	captures *captureStacks

	// callstack mirrors the nesting of invoke calls (pushed and popped
	// there, not otherwise read); CallstackLimit is checked against depth.
	// The actual control flow is ordinary Go recursion through invoke.
	callstack *arraystack.Stack
	depth     int

	lrStack    map[memoKey]*lrFrame
	lrSuspend  map[int]int // loc -> number of active LR growth cycles there

	farthest      Position
	farthestSet   bool
	dropoutCount  int

	history []historyFrame

	loopWarned         map[Parser]bool // first-occurrence infinite-loop notice (§4.1)
	emptyCaptureWarned map[Parser]bool // first-occurrence empty-capture warning (§4.2)

	errs []Error

	// filters is the named Retrieve-filter registry (§6 "per-symbol
	// filter functions").
	filters map[string]FilterFunc

	// skip/resume configuration per mandatory-marker call site, keyed by
	// the Series/Interleave's identity (§4.5, §6).
	skipRules   map[Parser][]SkipRule
	resumeRules map[Parser][]ResumeRule
	errorMsgs   map[Parser]string

	logger zerolog.Logger
	runID  string

	reversedInput *InputView // built lazily for Lookbehind

	cancel func() bool

	analysisErrs []Error

	preprocessor Preprocessor
	sourceMap    SourceMap
}

// SetPreprocessor installs a Preprocessor run over the source text before
// every Parse call (§6). The resulting SourceMap is attached to the
// returned RootNode.
func (g *Grammar) SetPreprocessor(p Preprocessor) {
	g.preprocessor = p
}

// NewGrammar constructs a Grammar around root with the given Config. Call
// Analyze once before the first Parse to populate the reachable-parser set
// and catch static-analysis problems (§4.7); Parse calls it automatically
// if it has not been run yet.
func NewGrammar(root Parser, cfg Config) *Grammar {
	g := &Grammar{
		root:        root,
		config:      cfg,
		filters:     make(map[string]FilterFunc),
		skipRules:   make(map[Parser][]SkipRule),
		resumeRules: make(map[Parser][]ResumeRule),
		errorMsgs:   make(map[Parser]string),
		logger:      zerolog.Nop(),
	}
	return g
}

// SetLogger installs a structured logger (ambient stack; see logging.go).
// By default Grammar logs nowhere.
func (g *Grammar) SetLogger(logger zerolog.Logger) {
	g.logger = logger
}

// RegisterFilter names a FilterFunc for use by Retrieve/Pop built via the
// directives layer (directives.go).
func (g *Grammar) RegisterFilter(name string, fn FilterFunc) {
	g.filters[name] = fn
}

// Reset clears every piece of per-parse mutable state so the same Grammar
// instance can be reused for another, independent parse (§5: "if a grammar
// object is reused across parses it must be reset"). The parser graph
// itself, directives and registries survive a Reset.
func (g *Grammar) Reset() {
	g.memo = newMemoCache()
	g.rollback = newRollbackLog()
	g.captures = newCaptureStacks()
	g.callstack = arraystack.New()
	g.depth = 0
	g.lrStack = make(map[memoKey]*lrFrame)
	g.lrSuspend = make(map[int]int)
	g.farthestSet = false
	g.dropoutCount = 0
	g.history = nil
	g.loopWarned = make(map[Parser]bool)
	g.emptyCaptureWarned = make(map[Parser]bool)
	g.errs = nil
	g.runID = uuid.New().String()
	g.reversedInput = nil
}

// Parse runs a full parse of text against g's root parser, honoring an
// optional cancellation predicate polled between top-level combinator
// calls (§5). A non-nil error here is always a programmer-misuse error
// (§7); ordinary grammar-driven failures surface as entries in the
// returned RootNode's Errors.
func (g *Grammar) Parse(ctx context.Context, text string) (*RootNode, error) {
	if g == nil {
		return nil, errNilGrammar
	}
	if g.root == nil {
		return nil, errNilRootParser
	}
	if g.parsers == nil {
		g.Analyze()
	}
	if hasBlockingError(g.analysisErrs) {
		return nil, errGrammarHasErrors
	}

	g.Reset()
	if g.preprocessor != nil {
		processed, sm, err := g.preprocessor.Process(text)
		if err != nil {
			return nil, errorf("preprocessor failed: %v", err)
		}
		text = processed
		g.sourceMap = sm
	} else {
		g.sourceMap = SourceMap{}
	}
	g.input = NewInputView(text)
	if ctx != nil {
		done := ctx.Done()
		g.cancel = func() bool {
			select {
			case <-done:
				return true
			default:
				return false
			}
		}
	} else {
		g.cancel = nil
	}

	node, newLoc, ok := g.invoke(g.root, 0)
	if node == nil {
		node = &Node{Name: anonymousPrefix + "empty", Position: 0}
	}
	node = Reduce(node, g.config.ReductionLevel)

	root := &RootNode{
		Node:      node,
		Input:     g.input,
		RunID:     g.runID,
		Stage:     "parse",
		SourceMap: g.sourceMap,
	}
	_ = newLoc
	root.Errors = append(root.Errors, g.errs...)
	for i := range root.Errors {
		e := &root.Errors[i]
		if root.errorIndex == nil {
			root.errorIndex = make(map[int][]*Error)
		}
		root.errorIndex[e.Position.Offset] = append(root.errorIndex[e.Position.Offset], e)
	}

	if !ok {
		root.AddError(newError(CodeMandatoryFailure, g.input.Position(0),
			"parse failed: no match for the root parser"))
	}
	if leftover := g.captures.nonEmptySymbols(); len(leftover) > 0 {
		root.AddError(newError(CodeCaptureStackLeft, g.farthestOrZero(),
			"capture stacks non-empty at end of parse: %v", leftover))
	}

	return root, nil
}

func (g *Grammar) farthestOrZero() Position {
	if g.farthestSet {
		return g.farthest
	}
	return Position{}
}

// invoke is the single recursive entry point every combinator must call
// instead of p.parse directly (§4.3, §4.4): it consults/populates the
// memo cache, detects and drives left-recursion seed growth, enforces the
// callstack limit, and records history/farthest-failure.
func (g *Grammar) invoke(p Parser, loc int) (*Node, int, bool) {
	if g.cancel != nil && g.cancel() {
		g.addError(newError(CodeCancelled, g.input.Position(loc), "parse cancelled"))
		return nil, loc, false
	}

	if g.config.CallstackLimit > 0 && g.depth >= g.config.CallstackLimit {
		g.addError(newError(CodeCallstackOverflow, g.input.Position(loc), "parser callstack overflow"))
		return nil, loc, false
	}

	key := memoKey{eqClass: p.eqKey(), loc: loc}
	suspended := g.config.DisableMemo || g.lrSuspend[loc] > 0 || g.captures.total > 0

	if !suspended {
		if entry, ok := g.memo.get(key); ok {
			g.replayErrors(entry.errs)
			g.recordFarthest(loc, entry.ok)
			return entry.node, entry.newLoc, entry.ok
		}
	}

	if frame, onStack := g.lrStack[key]; onStack {
		frame.detected = true
		return frame.seed, frame.seedLoc, frame.seedOk
	}

	errsBefore := len(g.errs)
	g.depth++
	g.callstack.Push(key)

	var node *Node
	var newLoc int
	var ok bool
	if named, isNamed := p.(*Named); isNamed {
		node, newLoc, ok = g.growSeed(p, key, named)
	} else if fwd, isFwd := p.(*Forward); isFwd && !suspended {
		if fwd.target == nil {
			panic(errUnresolvedForwardPanic)
		}
		if _, isFwdNamed := fwd.target.(*Named); isFwdNamed {
			node, newLoc, ok = g.growSeed(p, key, fwd.target)
		} else {
			node, newLoc, ok = fwd.target.parse(g, loc)
		}
	} else {
		node, newLoc, ok = p.parse(g, loc)
	}

	g.callstack.Pop()
	g.depth--

	g.recordFarthest(loc, ok)
	if g.config.RecordHistory {
		g.pushHistory(p, loc, ok)
	}

	if !suspended {
		g.memo.set(key, memoEntry{
			node:   node,
			newLoc: newLoc,
			ok:     ok,
			errs:   append([]Error(nil), g.errs[errsBefore:]...),
		})
	}

	return node, newLoc, ok
}

func (g *Grammar) replayErrors(errs []Error) {
	g.errs = append(g.errs, errs...)
}

func (g *Grammar) recordFarthest(loc int, ok bool) {
	if ok {
		return
	}
	if !g.farthestSet || loc > g.farthest.Offset {
		g.farthest = g.input.Position(loc)
		g.farthestSet = true
	}
}

func (g *Grammar) pushHistory(p Parser, loc int, ok bool) {
	if g.config.HistorySize > 0 && len(g.history) >= g.config.HistorySize {
		g.history = g.history[1:]
	}
	g.history = append(g.history, historyFrame{Symbol: p.symbol(), Loc: loc, Ok: ok})
}

// History returns the recorded call frames, most recent last; empty
// unless Config.RecordHistory is set.
func (g *Grammar) History() []historyFrame {
	return g.history
}

func (g *Grammar) addError(e Error) {
	g.errs = append(g.errs, e)
}

// warnOnce logs/records the first-occurrence notice for a given parser
// instance (used by ZeroOrMore's infinite-loop guard, §4.1).
func (g *Grammar) warnOnce(p Parser, loc int, code int, format string, args ...interface{}) {
	if g.loopWarned[p] {
		return
	}
	g.loopWarned[p] = true
	g.addError(newError(code, g.input.Position(loc), format, args...))
	g.logger.Debug().Str("run", g.runID).Int("loc", loc).Msg(fmt.Sprintf(format, args...))
}

// reversedView lazily builds the byte-reversed InputView used by
// Lookbehind (§9 design note).
func (g *Grammar) reversedView() *InputView {
	if g.reversedInput == nil {
		g.reversedInput = NewInputView(reverseString(g.input.Text()))
	}
	return g.reversedInput
}

func hasBlockingError(errs []Error) bool {
	for _, e := range errs {
		if e.Severity >= SeverityError {
			return true
		}
	}
	return false
}
