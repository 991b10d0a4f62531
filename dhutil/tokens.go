package dhutil

import "github.com/parsekit/dhparser"

// IPv4 matches a dot-decimal IPv4 address, each octet range-checked so
// "999.1.1.1" is rejected rather than over-matching greedily.
var IPv4 = dhparser.Seq(
	DecIntegerBetween(0, 255),
	dhparser.T("."),
	DecIntegerBetween(0, 255),
	dhparser.T("."),
	DecIntegerBetween(0, 255),
	dhparser.T("."),
	DecIntegerBetween(0, 255),
)

// CIDRv4 matches an IPv4 address with a /prefix subnet mask.
var CIDRv4 = dhparser.Seq(IPv4, dhparser.T("/"), DecIntegerBetween(0, 32))

// Slug matches a URL slug: letters, digits and hyphens.
var Slug = dhparser.OneOrMore(dhparser.RE(`[a-zA-Z0-9-]`))

// Domain matches a DNS domain name: dot-separated labels of up to 63
// characters each, optional trailing dot.
var Domain = dhparser.RE(`[a-zA-Z0-9-]{1,63}(\.[a-zA-Z0-9-]{1,63})*\.?`)

// EMail matches a simplified RFC 5322 mailbox: local@domain, local limited
// to the common unquoted character set.
var EMail = dhparser.Seq(
	dhparser.OneOrMore(dhparser.RE(`[a-zA-Z0-9.!#$%&'*+/=?^_`+"`"+`{|}~-]`)),
	dhparser.T("@"),
	Domain,
)

// LineComment builds a parser for a comment running from prefix to the end
// of the line, the common case directives.go's Comment directive expects.
func LineComment(prefix string) dhparser.Parser {
	return dhparser.Seq(dhparser.T(prefix), dhparser.RE(`[^\n]*`))
}

// BlockComment builds a non-nesting block comment running from open to end.
func BlockComment(open, end string) dhparser.Parser {
	return dhparser.RE(`(?s)` + regexpQuote(open) + `.*?` + regexpQuote(end))
}

func regexpQuote(s string) string {
	special := `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s)*2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		for _, sp := range []byte(special) {
			if c == sp {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, c)
	}
	return string(out)
}
