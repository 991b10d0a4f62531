// Package dhutil provides ready-made parser fragments for grammars built
// on top of the dhparser engine, mirroring the convenience library a PEG
// toolkit typically ships alongside its core combinators: rune classes,
// bare-literal syntax, and common lexical tokens.
//
// The API surface here is intentionally small and may grow; nothing in
// dhutil is required to use the core engine.
package dhutil

import "github.com/parsekit/dhparser"

// Digit classes, expressed as anchored character-class regexes since the
// engine's RegExp combinator is the idiomatic way to match a single rune
// out of a set (§4.1 RegExp).
var (
	OctDigit = dhparser.RE(`[0-7]`)
	DecDigit = dhparser.RE(`[0-9]`)
	HexDigit = dhparser.RE(`[0-9a-fA-F]`)
)

// ASCII rune classes.
var (
	ASCIIWhitespace    = dhparser.RE(`[ \t\n\r\v\f]`)
	ASCIINotWhitespace = dhparser.RE(`[^ \t\n\r\v\f]`)
	ASCIIDigit         = dhparser.RE(`[0-9]`)
	ASCIILetter        = dhparser.RE(`[a-zA-Z]`)
	ASCIILower         = dhparser.RE(`[a-z]`)
	ASCIIUpper         = dhparser.RE(`[A-Z]`)
	ASCIILetterDigit   = dhparser.RE(`[a-zA-Z0-9]`)
	ASCIIControl       = dhparser.RE(`[\x00-\x1f\x7f]`)
	ASCIINotControl    = dhparser.RE(`[\x20-\x7e]`)
)

// Unicode rune classes, built on Go regexp's \p{...} classes rather than a
// bespoke rune-range table (the engine has no separate Unicode-class
// combinator; RegExp already gives \p{L} etc for free).
var (
	UnicodeWhitespace = dhparser.RE(`\s`)
	UnicodeDigit      = dhparser.RE(`\p{Nd}`)
	UnicodeLetter     = dhparser.RE(`\p{L}`)
	UnicodeLower      = dhparser.RE(`\p{Ll}`)
	UnicodeUpper      = dhparser.RE(`\p{Lu}`)
	UnicodeLetterOrDigit = dhparser.RE(`[\p{L}\p{Nd}]`)
)

// Newline matches either line-ending convention.
var Newline = dhparser.RE(`\r\n|\n|\r`)

// NewlineRune matches a single newline byte (not CRLF as a unit).
var NewlineRune = dhparser.RE(`[\n\r]`)

// Spaces matches one-or-more whitespace runs; AnySpaces additionally
// matches the empty string (§4.1 Whitespace is normally built from one of
// these via dhparser.Whitespace).
var (
	Spaces    = dhparser.OneOrMore(ASCIIWhitespace)
	AnySpaces = dhparser.ZeroOrMore(ASCIIWhitespace)
)
