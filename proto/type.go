package proto

import (
	"strconv"
	"strings"
)

// TypeInfo is the tree form of a parsed type expression (spec §3 Data
// Model / §4.6). It decorates the ColumnType string algebra with the
// generic-argument/type-argument split the wire protocol and the column
// registry need: Array(Int32) has one generic (Int32) and one type
// argument (the rendered inner type); Decimal(35,10) has zero generics
// and two scalar type arguments; Tuple(a UInt32, b String) has N generics
// and N name/type pairs as type arguments.
type TypeInfo struct {
	Name     string     // canonical type_name, e.g. "Array", "Decimal"
	Generics []*TypeInfo
	Args     []TypeArg
}

// TypeArgKind tags the payload carried by a TypeArg.
type TypeArgKind int

const (
	ArgInt TypeArgKind = iota
	ArgString
	ArgNamed
	ArgType
)

// TypeArg is one scalar/type argument inside a type's parentheses: a bare
// integer (Decimal(35,10)), a quoted string (DateTime64(3,'UTC')'s tz, or
// an Enum member key), or a name+type pair (Tuple(a UInt32, ...) members,
// or name+integer for Enum members, carried via Name/Int).
type TypeArg struct {
	Kind    TypeArgKind
	Int     int64
	Str     string
	Name    string
	Type    *TypeInfo
	HasType bool // true when Named carries a nested TypeInfo (Tuple), false for an Enum member (Named+Int)
}

// ComplexTypeName renders t using canonical whitespace: a single space
// after every comma, no space immediately inside parentheses. Parsing
// this string again must reproduce an equal tree (spec §3 round-trip
// invariant).
func (t *TypeInfo) ComplexTypeName() string {
	var b strings.Builder
	t.render(&b)
	return b.String()
}

func (t *TypeInfo) render(b *strings.Builder) {
	b.WriteString(t.Name)
	if len(t.Args) == 0 {
		return
	}
	b.WriteByte('(')
	for i, a := range t.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.render(b)
	}
	b.WriteByte(')')
}

func (a TypeArg) render(b *strings.Builder) {
	switch a.Kind {
	case ArgInt:
		b.WriteString(strconv.FormatInt(a.Int, 10))
	case ArgString:
		b.WriteByte('\'')
		b.WriteString(escapeQuoted(a.Str, '\''))
		b.WriteByte('\'')
	case ArgType:
		a.Type.render(b)
	case ArgNamed:
		if a.HasType {
			// Tuple-style named member: `name Type`, backtick-quoted only
			// when the name is not a bare identifier.
			if needsBacktick(a.Name) {
				b.WriteByte('`')
				b.WriteString(escapeQuoted(a.Name, '`'))
				b.WriteByte('`')
			} else {
				b.WriteString(a.Name)
			}
			b.WriteByte(' ')
			a.Type.render(b)
		} else {
			// Enum member: always single-quoted, matching EnumValues.render
			// in col_enum.go so parse(render(t)) is fixed-point (spec §3/§8).
			b.WriteByte('\'')
			b.WriteString(escapeQuoted(a.Name, '\''))
			b.WriteByte('\'')
			b.WriteString(" = ")
			b.WriteString(strconv.FormatInt(a.Int, 10))
		}
	}
}

func needsBacktick(name string) bool {
	if name == "" {
		return true
	}
	for i, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return true
	}
	return false
}

func escapeQuoted(s string, quote byte) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case quote:
			b.WriteByte('\\')
			b.WriteByte(quote)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// ParseType parses a textual ClickHouse type expression into a TypeInfo
// tree, per the grammar in spec §4.6.
func ParseType(s string) (*TypeInfo, error) {
	p := &typeParser{s: s}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.i != len(p.s) {
		return nil, ErrMalformedTypeName("unexpected trailing input %q", p.s[p.i:])
	}
	return t, nil
}

type typeParser struct {
	s string
	i int
}

func (p *typeParser) skipSpace() {
	for p.i < len(p.s) && p.s[p.i] == ' ' {
		p.i++
	}
}

func (p *typeParser) peek() (byte, bool) {
	if p.i >= len(p.s) {
		return 0, false
	}
	return p.s[p.i], true
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func (p *typeParser) parseIdent() (string, error) {
	p.skipSpace()
	start := p.i
	if p.i >= len(p.s) || !isIdentStart(p.s[p.i]) {
		return "", ErrMalformedTypeName("expected identifier at position %d", p.i)
	}
	p.i++
	for p.i < len(p.s) && isIdentCont(p.s[p.i]) {
		p.i++
	}
	return p.s[start:p.i], nil
}

// parseType parses `ident ( '(' args ')' )?`.
func (p *typeParser) parseType() (*TypeInfo, error) {
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	t := &TypeInfo{Name: name}
	p.skipSpace()
	b, ok := p.peek()
	if !ok || b != '(' {
		return t, nil
	}
	p.i++ // consume '('

	isEnum := name == "Enum8" || name == "Enum16"
	for {
		p.skipSpace()
		b, ok := p.peek()
		if !ok {
			return nil, ErrMalformedTypeName("unterminated argument list for %q", name)
		}
		if b == ')' {
			p.i++
			break
		}
		arg, genericChild, err := p.parseArg(isEnum)
		if err != nil {
			return nil, err
		}
		t.Args = append(t.Args, arg)
		if genericChild != nil {
			t.Generics = append(t.Generics, genericChild)
		}
		p.skipSpace()
		b, ok = p.peek()
		if !ok {
			return nil, ErrMalformedTypeName("unterminated argument list for %q", name)
		}
		switch b {
		case ',':
			p.i++
			continue
		case ')':
			p.i++
		default:
			return nil, ErrMalformedTypeName("expected ',' or ')' at position %d", p.i)
		}
		break
	}
	return t, nil
}

// parseArg parses one element of an argument list: for Enum8/Enum16,
// always `quoted_string '=' integer`; otherwise a nested type, a quoted
// string, a bare integer, or `name type` (Tuple named members). Returns
// the TypeArg and, when the argument is itself a nested (unnamed) type, that
// TypeInfo so the caller can also record it as a generic.
func (p *typeParser) parseArg(isEnum bool) (TypeArg, *TypeInfo, error) {
	p.skipSpace()
	if isEnum {
		name, err := p.parseQuoted('\'')
		if err != nil {
			return TypeArg{}, nil, err
		}
		p.skipSpace()
		if b, ok := p.peek(); !ok || b != '=' {
			return TypeArg{}, nil, ErrMalformedTypeName("expected '=' in enum member at position %d", p.i)
		}
		p.i++
		p.skipSpace()
		n, err := p.parseSignedInt()
		if err != nil {
			return TypeArg{}, nil, err
		}
		return TypeArg{Kind: ArgNamed, Name: name, Int: n}, nil, nil
	}

	b, ok := p.peek()
	if !ok {
		return TypeArg{}, nil, ErrMalformedTypeName("unexpected end of input")
	}

	switch {
	case b == '\'':
		s, err := p.parseQuoted('\'')
		if err != nil {
			return TypeArg{}, nil, err
		}
		return TypeArg{Kind: ArgString, Str: s}, nil, nil
	case b == '`':
		name, err := p.parseQuoted('`')
		if err != nil {
			return TypeArg{}, nil, err
		}
		p.skipSpace()
		nested, err := p.parseType()
		if err != nil {
			return TypeArg{}, nil, err
		}
		return TypeArg{Kind: ArgNamed, Name: name, Type: nested, HasType: true}, nested, nil
	case b == '-' || (b >= '0' && b <= '9'):
		// Could be a bare integer argument, OR the start of a named
		// tuple member whose name happens to look numeric-prefixed —
		// ClickHouse identifiers cannot start with a digit, so a
		// leading digit always means a bare integer here.
		n, err := p.parseSignedInt()
		if err != nil {
			return TypeArg{}, nil, err
		}
		return TypeArg{Kind: ArgInt, Int: n}, nil, nil
	case isIdentStart(b):
		start := p.i
		ident, err := p.parseIdent()
		if err != nil {
			return TypeArg{}, nil, err
		}
		p.skipSpace()
		// Disambiguate `name Type` (named tuple/member) from a bare
		// nested type `Type(...)` or a bare nullary type name: a named
		// member is followed (after whitespace) by another identifier
		// that starts a type. A bare type is followed directly by '('
		// (its own arguments) or by ',' / ')' (end of this argument).
		if nb, ok := p.peek(); ok && isIdentStart(nb) {
			nested, err := p.parseType()
			if err != nil {
				return TypeArg{}, nil, err
			}
			return TypeArg{Kind: ArgNamed, Name: ident, Type: nested, HasType: true}, nested, nil
		}
		// Not a named member: rewind and parse as a plain type
		// expression (ident optionally followed by '(...)').
		p.i = start
		nested, err := p.parseType()
		if err != nil {
			return TypeArg{}, nil, err
		}
		return TypeArg{Kind: ArgType, Type: nested}, nested, nil
	default:
		return TypeArg{}, nil, ErrMalformedTypeName("unexpected character %q at position %d", b, p.i)
	}
}

// parseQuoted reads a quote-delimited string starting at the current
// position (the opening quote must be the next byte) and returns its
// decoded contents. Recognised escapes: \t \n \r \\ and \<quote>; any
// other backslash-prefixed character passes through as the literal two
// characters backslash+char (spec §4.6).
func (p *typeParser) parseQuoted(quote byte) (string, error) {
	if b, ok := p.peek(); !ok || b != quote {
		return "", ErrMalformedTypeName("expected %q at position %d", quote, p.i)
	}
	p.i++
	var b strings.Builder
	for {
		if p.i >= len(p.s) {
			return "", ErrMalformedTypeName("unterminated quoted string")
		}
		c := p.s[p.i]
		if c == quote {
			p.i++
			return b.String(), nil
		}
		if c == '\\' && p.i+1 < len(p.s) {
			next := p.s[p.i+1]
			switch next {
			case 't':
				b.WriteByte('\t')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case '\\':
				b.WriteByte('\\')
			case quote:
				b.WriteByte(quote)
			default:
				b.WriteByte('\\')
				b.WriteByte(next)
			}
			p.i += 2
			continue
		}
		b.WriteByte(c)
		p.i++
	}
}

func (p *typeParser) parseSignedInt() (int64, error) {
	start := p.i
	if p.i < len(p.s) && p.s[p.i] == '-' {
		p.i++
	}
	digitsStart := p.i
	for p.i < len(p.s) && p.s[p.i] >= '0' && p.s[p.i] <= '9' {
		p.i++
	}
	if p.i == digitsStart {
		return 0, ErrMalformedTypeName("expected integer at position %d", start)
	}
	n, err := strconv.ParseInt(p.s[start:p.i], 10, 64)
	if err != nil {
		return 0, ErrMalformedTypeName("integer overflow at position %d: %v", start, err)
	}
	return n, nil
}
