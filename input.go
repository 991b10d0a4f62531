package dhparser

import "unicode/utf8"

// InputView is an immutable, zero-copy view over a source text plus its
// line-break offsets, computed lazily on demand. It never holds a mutated copy of the
// text: slicing and position mapping both work off the original string.
type InputView struct {
	text  string
	pcalc positionCalculator
}

// NewInputView builds an InputView over text, precomputing nothing eagerly:
// the line-break table is filled in lazily, on demand, by positionCalculator.
func NewInputView(text string) *InputView {
	return &InputView{
		text:  text,
		pcalc: positionCalculator{text: text},
	}
}

// Text returns the full source text.
func (v *InputView) Text() string {
	return v.text
}

// Len returns the byte length of the source text.
func (v *InputView) Len() int {
	return len(v.text)
}

// Slice returns text[from:to], a zero-copy substring.
func (v *InputView) Slice(from, to int) string {
	return v.text[from:to]
}

// At returns the text starting at offset.
func (v *InputView) At(offset int) string {
	return v.text[offset:]
}

// Position maps an absolute byte offset to a (line, column) pair.
func (v *InputView) Position(offset int) Position {
	return v.pcalc.calculate(offset)
}

// ReadRune decodes the rune starting at offset, returning its width in bytes.
func (v *InputView) ReadRune(offset int) (r rune, size int) {
	if offset >= len(v.text) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(v.text[offset:])
}

// reversedInput holds a byte-reversed InputView of the same text (the view
// Lookbehind uses is built lazily by Grammar.reversedView): matching a
// reversed sub-pattern against the reversed view at the mirrored offset is
// how variable-length lookbehind is made available without a second regex
// engine.
type reversedInput struct {
	view *InputView
}

func reverseString(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// mirrorOffset maps an offset in the forward text to the corresponding offset in
// the reversed text, i.e. the point the reversed pattern should start
// matching from to examine the bytes immediately preceding offset.
func (v *InputView) mirrorOffset(offset int) int {
	return len(v.text) - offset
}
