package dhparser

import "sort"

// Preprocessor transforms source text before it reaches Grammar.Parse,
// returning the transformed text plus a SourceMap back to the original
// (§6 "preprocessing... source mapping"). A typical preprocessor strips
// comments, expands includes, or replaces keyword-like regions with
// sentinel-wrapped preprocessor tokens (see PreprocessorToken in
// combinators.go).
type Preprocessor interface {
	// Process returns the text Grammar.Parse should actually run against,
	// plus the mapping needed to translate positions in that text back to
	// positions in src.
	Process(src string) (text string, sm SourceMap, err error)
}

// sourceMapping is one contiguous run during which offsets in the
// preprocessed text differ from the original by a constant Delta
// (original = preprocessed + Delta over [PPStart, PPEnd)).
type sourceMapping struct {
	PPStart, PPEnd int
	Delta          int
}

// SourceMap records how byte offsets in preprocessed text correspond to
// byte offsets in the original source, as a sorted list of constant-offset
// runs (§6). The zero value is the identity mapping.
type SourceMap struct {
	runs []sourceMapping
}

// NewSourceMap builds an empty (identity) SourceMap. Callers build one up
// with Record as they emit each contiguous preprocessed run.
func NewSourceMap() SourceMap {
	return SourceMap{}
}

// Record adds a run: preprocessed offsets in [ppStart, ppEnd) map to
// original offsets starting at origStart. Runs must be recorded in
// increasing ppStart order.
func (sm *SourceMap) Record(ppStart, ppEnd, origStart int) {
	sm.runs = append(sm.runs, sourceMapping{
		PPStart: ppStart,
		PPEnd:   ppEnd,
		Delta:   origStart - ppStart,
	})
}

// Original maps an offset in the preprocessed text back to the
// corresponding offset in the original source text. Offsets outside every
// recorded run are passed through unchanged (identity), which keeps an
// unmapped SourceMap a safe default.
func (sm SourceMap) Original(ppOffset int) int {
	if len(sm.runs) == 0 {
		return ppOffset
	}
	i := sort.Search(len(sm.runs), func(i int) bool {
		return sm.runs[i].PPEnd > ppOffset
	})
	if i == len(sm.runs) || ppOffset < sm.runs[i].PPStart {
		return ppOffset
	}
	return ppOffset + sm.runs[i].Delta
}

// IsEmpty reports whether the map carries no recorded runs, i.e. the
// preprocessed text is identical to the original.
func (sm SourceMap) IsEmpty() bool {
	return len(sm.runs) == 0
}

// IdentityPreprocessor is the no-op Preprocessor, used when no source
// transformation is configured.
type IdentityPreprocessor struct{}

func (IdentityPreprocessor) Process(src string) (string, SourceMap, error) {
	return src, SourceMap{}, nil
}
