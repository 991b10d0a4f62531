// Package jsonrecover is a worked example of mandatory-marker error
// recovery (scenario 3): parsing a JSON-like object survives a malformed
// value by skipping to the next ',' or '}' and leaving a zombie placeholder
// in its place, rather than failing the whole parse.
package jsonrecover

import "github.com/parsekit/dhparser"

// Build constructs a grammar for a reduced JSON object/array/scalar
// language:
//
//	object := '{' (pair (',' pair)*)? '}'
//	pair   := string ':' §value
//	array  := '[' (value (',' value)*)? ']'
//	value  := object | array | string | number | "true" | "false" | "null"
//
// The "§" before value in pair means a failed value there is a mandatory-
// marker failure (§4.5): Build configures a skip rule that scans forward to
// the next ',' or '}', so one bad value doesn't abort the whole object.
func Build() *dhparser.Grammar {
	ws := dhparser.Whitespace(`[ \t\r\n]*`)

	stringLit := dhparser.NewNamed("string", dhparser.RE(`"(\\.|[^"\\\n])*"`))
	number := dhparser.NewNamed("number", dhparser.RE(`-?[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?`))
	boolLit := dhparser.NewNamed("bool", dhparser.Alt(dhparser.T("true"), dhparser.T("false")))
	nullLit := dhparser.NewNamed("null", dhparser.T("null"))

	valueFwd := dhparser.NewForward()
	objectFwd := dhparser.NewForward()
	arrayFwd := dhparser.NewForward()

	value := dhparser.NewNamed("value", dhparser.Alt(
		objectFwd, arrayFwd, stringLit, number, boolLit, nullLit,
	))
	valueFwd.Resolve(value)

	pair := dhparser.Series([]dhparser.Parser{
		stringLit, ws, dhparser.T(":"), ws, valueFwd,
	}, 4) // "§" before the value at index 4
	pairNamed := dhparser.NewNamed("pair", pair)

	object := dhparser.NewNamed("object", dhparser.Series([]dhparser.Parser{
		dhparser.T("{"), ws,
		dhparser.Option(dhparser.Seq(pairNamed, ws, dhparser.ZeroOrMore(
			dhparser.Seq(dhparser.T(","), ws, pairNamed, ws)))),
		dhparser.T("}"),
	}, 4))
	objectFwd.Resolve(object)

	array := dhparser.NewNamed("array", dhparser.Series([]dhparser.Parser{
		dhparser.T("["), ws,
		dhparser.Option(dhparser.Seq(valueFwd, ws, dhparser.ZeroOrMore(
			dhparser.Seq(dhparser.T(","), ws, valueFwd, ws)))),
		dhparser.T("]"),
	}, 4))
	arrayFwd.Resolve(array)

	g := dhparser.NewGrammar(object, dhparser.DefaultConfig())
	g.SetErrorMessage(pair, "expected a JSON value after ':'")
	// Skip runs up to, but not including, the next ',' or '}': local
	// recovery advances past whatever it matches (§4.5 step 2), so matching
	// the delimiter itself here would consume the very comma or brace the
	// enclosing object/array structure still needs to see.
	g.SetSkipRules(pair, dhparser.SkipOnRegexp(`[^,}]*`))
	return g
}
