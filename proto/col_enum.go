package proto

import "strings"

// EnumValues is the bidirectional string<->integer map an Enum8/Enum16
// type carries (spec §4.7), built from the type grammar's named integer
// arguments (TypeArg{Kind: ArgNamed, Name, Int}).
type EnumValues struct {
	byName  map[string]int64
	byValue map[int64]string
	order   []string // preserves declaration order for rendering
}

// NewEnumValues builds an EnumValues map from parsed type arguments. It
// errors with TypeNotFullySpecified if no members are given (spec §7).
func NewEnumValues(args []TypeArg) (*EnumValues, error) {
	if len(args) == 0 {
		return nil, ErrTypeNotFullySpecified("enum type has no members")
	}
	e := &EnumValues{byName: map[string]int64{}, byValue: map[int64]string{}}
	for _, a := range args {
		if a.Kind != ArgNamed || a.HasType {
			return nil, ErrMalformedTypeName("enum member must be 'name' = integer")
		}
		e.byName[a.Name] = a.Int
		e.byValue[a.Int] = a.Name
		e.order = append(e.order, a.Name)
	}
	return e, nil
}

// Name returns the member name for v, or "" if unknown.
func (e *EnumValues) Name(v int64) (string, bool) {
	s, ok := e.byValue[v]
	return s, ok
}

// Value returns the integer for member name, or an error if unknown.
func (e *EnumValues) Value(name string) (int64, error) {
	v, ok := e.byName[name]
	if !ok {
		return 0, ErrTypeNotSupported("enum member " + name)
	}
	return v, nil
}

func (e *EnumValues) render(base ColumnType) ColumnType {
	var b strings.Builder
	b.WriteString(string(base))
	b.WriteByte('(')
	for i, name := range e.order {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		b.WriteString(escapeQuoted(name, '\''))
		b.WriteString("' = ")
		writeInt(&b, e.byName[name])
	}
	b.WriteByte(')')
	return ColumnType(b.String())
}

func writeInt(b *strings.Builder, v int64) {
	if v < 0 {
		b.WriteByte('-')
		v = -v
	}
	b.WriteString(itoa(int(v)))
}

// ColEnum8 is an Enum8 column: one signed byte per row, mapped through
// Values.
type ColEnum8 struct {
	Values *EnumValues
	data   []int8
}

func NewColEnum8(values *EnumValues) *ColEnum8 { return &ColEnum8{Values: values} }

func (c *ColEnum8) Type() ColumnType { return c.Values.render(ColumnTypeEnum8) }
func (c *ColEnum8) Rows() int        { return len(c.data) }
func (c *ColEnum8) Reset()           { c.data = c.data[:0] }

// Row returns the member name for row i, or the raw numeric string if
// the value has no matching name (ClickHouse allows enum columns to
// carry values outside the declared set).
func (c *ColEnum8) Row(i int) string {
	name, ok := c.Values.Name(int64(c.data[i]))
	if !ok {
		return itoa(int(c.data[i]))
	}
	return name
}

func (c *ColEnum8) Append(name string) error {
	v, err := c.Values.Value(name)
	if err != nil {
		return err
	}
	c.data = append(c.data, int8(v))
	return nil
}

func (c *ColEnum8) EncodeColumn(b *Buffer) {
	for _, v := range c.data {
		b.PutInt8(v)
	}
}
func (c *ColEnum8) WriteColumn(w *Writer) error { return writeColumnVia(w, c.EncodeColumn) }
func (c *ColEnum8) DecodeColumn(r *Reader, rows int) error {
	for i := 0; i < rows; i++ {
		v, err := r.ReadInt8()
		if err != nil {
			return err
		}
		c.data = append(c.data, v)
	}
	return nil
}

// ColEnum16 is an Enum16 column: one signed little-endian int16 per row.
type ColEnum16 struct {
	Values *EnumValues
	data   []int16
}

func NewColEnum16(values *EnumValues) *ColEnum16 { return &ColEnum16{Values: values} }

func (c *ColEnum16) Type() ColumnType { return c.Values.render(ColumnTypeEnum16) }
func (c *ColEnum16) Rows() int        { return len(c.data) }
func (c *ColEnum16) Reset()           { c.data = c.data[:0] }
func (c *ColEnum16) Row(i int) string {
	name, ok := c.Values.Name(int64(c.data[i]))
	if !ok {
		return itoa(int(c.data[i]))
	}
	return name
}
func (c *ColEnum16) Append(name string) error {
	v, err := c.Values.Value(name)
	if err != nil {
		return err
	}
	c.data = append(c.data, int16(v))
	return nil
}

func (c *ColEnum16) EncodeColumn(b *Buffer) {
	for _, v := range c.data {
		b.PutInt16(v)
	}
}
func (c *ColEnum16) WriteColumn(w *Writer) error { return writeColumnVia(w, c.EncodeColumn) }
func (c *ColEnum16) DecodeColumn(r *Reader, rows int) error {
	for i := 0; i < rows; i++ {
		v, err := r.ReadInt16()
		if err != nil {
			return err
		}
		c.data = append(c.data, v)
	}
	return nil
}
