package proto

import "strings"

// ColumnType is ClickHouse's type name represented as a tagged string,
// with algebra methods layered on top (Array/Elem/With/Sub/Conflicts).
// This mirrors the teacher's actual design (see column_test.go:
// ColumnTypeInt16.Array(), v.Elem(), ColumnTypeDateTime.With("UTC"),
// ColumnTypeArray.Sub(ColumnTypeInt32), tt.A.Conflicts(tt.B)) rather than
// a boxed AST; TypeInfo (type.go) layers the generic/type-argument
// split spec.md's data model needs on top of this string algebra.
type ColumnType string

// Base names of the catalogue in spec §4.7.
const (
	ColumnTypeNone ColumnType = ""

	ColumnTypeInt8   ColumnType = "Int8"
	ColumnTypeInt16  ColumnType = "Int16"
	ColumnTypeInt32  ColumnType = "Int32"
	ColumnTypeInt64  ColumnType = "Int64"
	ColumnTypeInt128 ColumnType = "Int128"
	ColumnTypeInt256 ColumnType = "Int256"

	ColumnTypeUInt8   ColumnType = "UInt8"
	ColumnTypeUInt16  ColumnType = "UInt16"
	ColumnTypeUInt32  ColumnType = "UInt32"
	ColumnTypeUInt64  ColumnType = "UInt64"
	ColumnTypeUInt128 ColumnType = "UInt128"
	ColumnTypeUInt256 ColumnType = "UInt256"

	ColumnTypeFloat32 ColumnType = "Float32"
	ColumnTypeFloat64 ColumnType = "Float64"

	ColumnTypeBool ColumnType = "Bool"

	ColumnTypeString      ColumnType = "String"
	ColumnTypeFixedString ColumnType = "FixedString"

	ColumnTypeDate       ColumnType = "Date"
	ColumnTypeDate32     ColumnType = "Date32"
	ColumnTypeDateTime   ColumnType = "DateTime"
	ColumnTypeDateTime64 ColumnType = "DateTime64"

	ColumnTypeDecimal    ColumnType = "Decimal"
	ColumnTypeDecimal32  ColumnType = "Decimal32"
	ColumnTypeDecimal64  ColumnType = "Decimal64"
	ColumnTypeDecimal128 ColumnType = "Decimal128"
	ColumnTypeDecimal256 ColumnType = "Decimal256"

	ColumnTypeEnum8  ColumnType = "Enum8"
	ColumnTypeEnum16 ColumnType = "Enum16"

	ColumnTypeUUID ColumnType = "UUID"
	ColumnTypeIPv4 ColumnType = "IPv4"
	ColumnTypeIPv6 ColumnType = "IPv6"

	ColumnTypeNullable       ColumnType = "Nullable"
	ColumnTypeLowCardinality ColumnType = "LowCardinality"
	ColumnTypeArray          ColumnType = "Array"
	ColumnTypeTuple          ColumnType = "Tuple"
	ColumnTypeNothing        ColumnType = "Nothing"
	ColumnTypeMap            ColumnType = "Map"
)

// Base returns the type name without any parenthesised arguments, e.g.
// "Array(Int32)".Base() == "Array".
func (c ColumnType) Base() ColumnType {
	if i := strings.IndexByte(string(c), '('); i >= 0 {
		return c[:i]
	}
	return c
}

// With appends a single parenthesised argument, e.g.
// ColumnTypeDateTime.With("'UTC'") == "DateTime('UTC')" when arg needs
// quoting, or ColumnTypeFixedString.With("42") == "FixedString(42)" for a
// bare scalar. Callers pass the argument exactly as it should render.
func (c ColumnType) With(arg string) ColumnType {
	return ColumnType(string(c) + "(" + arg + ")")
}

// Sub wraps inner as this type's single generic argument, e.g.
// ColumnTypeArray.Sub(ColumnTypeInt32) == "Array(Int32)".
func (c ColumnType) Sub(inner ColumnType) ColumnType {
	return ColumnType(string(c) + "(" + string(inner) + ")")
}

// Array returns this type wrapped in Array(...).
func (c ColumnType) Array() ColumnType {
	return ColumnTypeArray.Sub(c)
}

// Nullable returns this type wrapped in Nullable(...).
func (c ColumnType) Nullable() ColumnType {
	return ColumnTypeNullable.Sub(c)
}

// IsArray reports whether the base name is "Array".
func (c ColumnType) IsArray() bool { return c.Base() == ColumnTypeArray }

// IsNullable reports whether the base name is "Nullable".
func (c ColumnType) IsNullable() bool { return c.Base() == ColumnTypeNullable }

// IsLowCardinality reports whether the base name is "LowCardinality".
func (c ColumnType) IsLowCardinality() bool { return c.Base() == ColumnTypeLowCardinality }

// Elem returns the single generic argument of a parametric type with
// exactly one, e.g. Array(Int16).Elem() == Int16, Nullable(String).Elem()
// == String. Returns ColumnTypeNone for non-matching or non-parametric
// types.
func (c ColumnType) Elem() ColumnType {
	s := string(c)
	i := strings.IndexByte(s, '(')
	if i < 0 || !strings.HasSuffix(s, ")") {
		return ColumnTypeNone
	}
	inner := s[i+1 : len(s)-1]
	return ColumnType(inner)
}

// Args returns the raw, comma-split contents of this type's parenthesised
// argument list, respecting nested parens and quotes. Returns nil for a
// non-parametric type.
func (c ColumnType) Args() []string {
	s := string(c)
	i := strings.IndexByte(s, '(')
	if i < 0 || !strings.HasSuffix(s, ")") {
		return nil
	}
	return splitArgs(s[i+1 : len(s)-1])
}

func splitArgs(s string) []string {
	var out []string
	depth := 0
	inQuote := false
	var quoteCh byte
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case inQuote:
			if ch == '\\' {
				i++ // skip escaped char
				continue
			}
			if ch == quoteCh {
				inQuote = false
			}
		case ch == '\'' || ch == '`':
			inQuote = true
			quoteCh = ch
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case ch == ',' && depth == 0:
			out = append(out, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, strings.TrimSpace(s[start:]))
	}
	return out
}

// Conflicts reports whether two type names are definitely incompatible
// for the same column. It is intentionally permissive: two blank types
// never conflict (a blank type against a named one does), a base
// Enum name is compatible with any fully-specified Enum of the same
// width, a DateTime is compatible with any time-zoned DateTime, and a
// fully-specified Enum is compatible with its backing integer width
// (Enum8 ~ Int8, Enum16 ~ Int16, but not across widths). Other types
// with the same base name conflict when their arguments do, so
// Array(Int32) and Array(Int64) conflict. This matches the teacher's
// test matrix in column_test.go.
func (c ColumnType) Conflicts(d ColumnType) bool {
	if c == "" && d == "" {
		return false
	}
	if c == d {
		return false
	}
	cb, db := c.Base(), d.Base()
	if cb == db {
		// Time zones and enum member lists do not change the wire layout;
		// for other types the arguments are compared pairwise.
		if cb == ColumnTypeDateTime || cb == ColumnTypeEnum8 || cb == ColumnTypeEnum16 {
			return false
		}
		ca, da := c.Args(), d.Args()
		if len(ca) != len(da) {
			return true
		}
		for i := range ca {
			if ColumnType(ca[i]).Conflicts(ColumnType(da[i])) {
				return true
			}
		}
		return false
	}
	// A bare Decimal256 is treated as compatible with any Decimal(P, S);
	// the teacher's test table treats Decimal256 ~ Decimal(76,38) as
	// compatible.
	if (cb == ColumnTypeDecimal256 && db == ColumnTypeDecimal) ||
		(db == ColumnTypeDecimal256 && cb == ColumnTypeDecimal) {
		return false
	}
	// A fully-specified Enum is wire-compatible with its backing integer
	// width: Enum8(...) ~ Int8, Enum16(...) ~ Int16, but not across widths.
	if (cb == ColumnTypeEnum8 && db == ColumnTypeInt8) ||
		(db == ColumnTypeEnum8 && cb == ColumnTypeInt8) {
		return false
	}
	if (cb == ColumnTypeEnum16 && db == ColumnTypeInt16) ||
		(db == ColumnTypeEnum16 && cb == ColumnTypeInt16) {
		return false
	}
	return true
}

// String implements fmt.Stringer.
func (c ColumnType) String() string { return string(c) }
