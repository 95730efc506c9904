package proto

import "strings"

// Parameter is a single named query parameter, substituted server-side
// into a query of the form "SELECT {name:Type}" (spec §4.8 step 5,
// gated by FeatureParameters).
type Parameter struct {
	Key   string
	Value string
}

// EncodeParameters writes parameters the same way settings are written:
// key, importance flag (always 1, parameters are always "important" so
// older proxies do not silently drop them), value; terminated by an
// empty key.
func EncodeParameters(b *Buffer, params []Parameter) {
	for _, p := range params {
		b.PutString(p.Key)
		b.PutUVarint(1)
		b.PutString(p.Value)
	}
	b.PutString("")
}

// LiteralWriter renders a single Go value as the textual ClickHouse
// literal used for parameter substitution (spec §4.7
// create_literal_writer<T>()).
type LiteralWriter interface {
	WriteLiteral(v any) (string, error)
}

// QuoteLiteralString escapes s for embedding inside single quotes in a
// ClickHouse literal, backslash-escaping backslash and quote characters.
func QuoteLiteralString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\', '\'':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}
