package dhutil

import "github.com/parsekit/dhparser"

// Scope collects every ready-made parser this package exports, keyed by
// name, the way a grammar-construction collaborator (§6) would look one up
// by its textual name from grammar source (e.g. an EBNF rule body reading
// `identifier = dhutil.Identifier`).
var Scope = map[string]dhparser.Parser{
	"OctDigit": OctDigit,
	"DecDigit": DecDigit,
	"HexDigit": HexDigit,

	"ASCIIWhitespace":    ASCIIWhitespace,
	"ASCIINotWhitespace": ASCIINotWhitespace,
	"ASCIIDigit":         ASCIIDigit,
	"ASCIILetter":        ASCIILetter,
	"ASCIILower":         ASCIILower,
	"ASCIIUpper":         ASCIIUpper,
	"ASCIILetterDigit":   ASCIILetterDigit,
	"ASCIIControl":       ASCIIControl,
	"ASCIINotControl":    ASCIINotControl,

	"UnicodeWhitespace":    UnicodeWhitespace,
	"UnicodeDigit":         UnicodeDigit,
	"UnicodeLetter":        UnicodeLetter,
	"UnicodeLower":         UnicodeLower,
	"UnicodeUpper":         UnicodeUpper,
	"UnicodeLetterOrDigit": UnicodeLetterOrDigit,

	"Newline":     Newline,
	"NewlineRune": NewlineRune,
	"Spaces":      Spaces,
	"AnySpaces":   AnySpaces,

	"DecInteger": DecInteger,
	"HexInteger": HexInteger,
	"OctInteger": OctInteger,
	"Integer":    Integer,
	"Decimal":    Decimal,
	"Float":      Float,
	"Number":     Number,
	"Identifier": Identifier,
	"String":     String,

	"IPv4":   IPv4,
	"CIDRv4": CIDRv4,
	"Slug":   Slug,
	"Domain": Domain,
	"EMail":  EMail,
}
