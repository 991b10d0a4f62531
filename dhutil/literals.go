package dhutil

import (
	"strconv"
	"strings"

	"github.com/parsekit/dhparser"
)

// Bare integers, decimal/hex/octal, no sign and no leading "0x"/"0" marker
// (mirrors a PEG toolkit's DecInteger/HexInteger/OctInteger family).
var (
	DecInteger = dhparser.OneOrMore(DecDigit)
	HexInteger = dhparser.OneOrMore(HexDigit)
	OctInteger = dhparser.OneOrMore(OctDigit)
)

// Integer matches a Go-style integer literal: decimal, or 0x/0X hex, or a
// leading-zero octal.
var Integer = dhparser.Alt(
	dhparser.RE(`0[xX][0-9a-fA-F]+`),
	dhparser.RE(`0[0-7]*`),
	dhparser.RE(`[1-9][0-9]*`),
)

// Decimal matches a decimal-point number with an optional integer or
// fractional part missing (e.g. "1.", ".1", "1.1"), but requires the dot.
var Decimal = dhparser.RE(`[0-9]*\.[0-9]*`)

// Float matches a floating-point literal with a mandatory exponent or
// decimal point, e.g. "1.1", "1e-3", "0.1E3".
var Float = dhparser.RE(`[0-9]+\.[0-9]*([eE][+-]?[0-9]+)?|\.[0-9]+([eE][+-]?[0-9]+)?|[0-9]+[eE][+-]?[0-9]+`)

// Number matches Integer, Float, or Decimal, longest-reasonable-match via
// ordered choice (Float before Decimal before Integer so "1.1" does not
// stop at "1").
var Number = dhparser.Alt(Float, Decimal, Integer)

// Identifier matches a Go/C-style identifier: a letter or underscore
// followed by letters, digits or underscores, Unicode letters included.
var Identifier = dhparser.RE(`[\p{L}_][\p{L}\p{Nd}_]*`)

// String matches a double-quoted string literal with backslash escapes,
// not validating the escape's target character beyond "anything but an
// unescaped quote or raw newline".
var String = dhparser.RE(`"(\\.|[^"\\\n])*"`)

// DecIntegerBetween matches DecInteger only when its numeric value falls
// in [lo, hi]; out-of-range or unparseable text is a non-match rather than
// a silently-accepted value (the Inject validator, combinators.go, is the
// engine's hook for this kind of semantic check).
func DecIntegerBetween(lo, hi int64) dhparser.Parser {
	return dhparser.Inject(func(matched string) (int, bool) {
		v, err := strconv.ParseInt(matched, 10, 64)
		if err != nil || v < lo || v > hi {
			return 0, false
		}
		return len(matched), true
	}, DecInteger)
}

// IntegerBetween is DecIntegerBetween's counterpart over Integer, accepting
// Go-style 0x/0-prefixed literals via strconv's base-0 parsing.
func IntegerBetween(lo, hi int64) dhparser.Parser {
	return dhparser.Inject(func(matched string) (int, bool) {
		v, err := strconv.ParseInt(matched, 0, 64)
		if err != nil || v < lo || v > hi {
			return 0, false
		}
		return len(matched), true
	}, Integer)
}

// NoRedundantZeroes rejects a match beginning with "0" followed by another
// digit, unless the whole match is exactly "0" (so DecInteger keeps
// matching "0" itself but not "0123").
func NoRedundantZeroes(sub dhparser.Parser) dhparser.Parser {
	return dhparser.Inject(func(matched string) (int, bool) {
		if len(matched) > 1 && strings.HasPrefix(matched, "0") {
			return 0, false
		}
		return len(matched), true
	}, sub)
}
