package proto

// ColNullable wraps an inner Column with a null-mask sub-column written
// first (spec §4.7: "sub-column of nulls mask then values"). The inner
// column still carries a (arbitrary) value for null rows; ClickHouse
// writes zero values there and this driver does the same.
type ColNullable struct {
	Inner Column
	nulls []bool
}

// NewColNullable wraps inner, which must already be empty.
func NewColNullable(inner Column) *ColNullable {
	return &ColNullable{Inner: inner}
}

func (c *ColNullable) Type() ColumnType { return ColumnTypeNullable.Sub(c.Inner.Type()) }
func (c *ColNullable) Rows() int        { return len(c.nulls) }
func (c *ColNullable) Reset() {
	c.nulls = c.nulls[:0]
	c.Inner.Reset()
}

// IsNull reports whether row i is null.
func (c *ColNullable) IsNull(i int) bool { return c.nulls[i] }

// appendMask records whether the next row is null; the caller must also
// append a value (a discarded placeholder for a null row) to Inner to
// keep row counts aligned, mirroring how ClickHouse itself always
// carries a value under a null.
func (c *ColNullable) appendMask(null bool) { c.nulls = append(c.nulls, null) }

func (c *ColNullable) EncodeColumn(b *Buffer) {
	for _, n := range c.nulls {
		b.PutBool(n)
	}
	c.Inner.EncodeColumn(b)
}

func (c *ColNullable) WriteColumn(w *Writer) error {
	for _, n := range c.nulls {
		if err := w.WriteBool(n); err != nil {
			return err
		}
	}
	if ci, ok := c.Inner.(ColInput); ok {
		return ci.WriteColumn(w)
	}
	return writeColumnVia(w, c.Inner.EncodeColumn)
}

func (c *ColNullable) DecodeColumn(r *Reader, rows int) error {
	for i := 0; i < rows; i++ {
		v, err := r.ReadBool()
		if err != nil {
			return err
		}
		c.nulls = append(c.nulls, v)
	}
	return c.Inner.DecodeColumn(r, rows)
}

// ColNullableOf is a typed convenience over ColNullable for callers who
// know the inner native type at compile time, so Row(i) can return
// (T, bool) instead of requiring a separate IsNull + untyped cast.
type ColNullableOf[T any] struct {
	*ColNullable
	inner ColumnOf[T]
}

// NewColNullableOf wraps a concrete ColumnOf[T] inner column.
func NewColNullableOf[T any](inner ColumnOf[T]) *ColNullableOf[T] {
	return &ColNullableOf[T]{ColNullable: NewColNullable(inner), inner: inner}
}

// Row returns the row's value and whether it is null. When null, the
// returned value is the inner column's placeholder (typically zero).
func (c *ColNullableOf[T]) Row(i int) (T, bool) {
	return c.inner.Row(i), c.IsNull(i)
}

// Append appends a non-null value.
func (c *ColNullableOf[T]) Append(v T) {
	c.appendMask(false)
	c.inner.Append(v)
}

// AppendNull appends a null row, with the zero value as Inner's placeholder.
func (c *ColNullableOf[T]) AppendNull() {
	var zero T
	c.appendMask(true)
	c.inner.Append(zero)
}
