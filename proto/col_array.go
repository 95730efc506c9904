package proto

// ColArray wraps an inner Column with a cumulative UInt64 offsets
// sub-column written first, followed by the inner column flattened
// across all rows' elements (spec §4.7 Array(T), §3 round-trip
// invariant for Array(Nullable(T))).
type ColArray struct {
	Inner   Column
	offsets []uint64 // cumulative; offsets[i] is the end of row i's elements
}

// NewColArray wraps inner, which must already be empty.
func NewColArray(inner Column) *ColArray {
	return &ColArray{Inner: inner}
}

func (c *ColArray) Type() ColumnType { return ColumnTypeArray.Sub(c.Inner.Type()) }
func (c *ColArray) Rows() int        { return len(c.offsets) }
func (c *ColArray) Reset() {
	c.offsets = c.offsets[:0]
	c.Inner.Reset()
}

// Bounds returns the half-open [start, end) range of inner-column row
// indices that make up row i's slice.
func (c *ColArray) Bounds(i int) (start, end int) {
	if i == 0 {
		return 0, int(c.offsets[0])
	}
	return int(c.offsets[i-1]), int(c.offsets[i])
}

// AppendOffset records that the next n elements (already appended to
// Inner by the caller) belong to the next row.
func (c *ColArray) AppendOffset(n int) {
	prev := uint64(0)
	if len(c.offsets) > 0 {
		prev = c.offsets[len(c.offsets)-1]
	}
	c.offsets = append(c.offsets, prev+uint64(n))
}

func (c *ColArray) EncodeColumn(b *Buffer) {
	for _, off := range c.offsets {
		b.PutUInt64(off)
	}
	c.Inner.EncodeColumn(b)
}

func (c *ColArray) WriteColumn(w *Writer) error {
	for _, off := range c.offsets {
		if err := w.WriteUInt64(off); err != nil {
			return err
		}
	}
	if ci, ok := c.Inner.(ColInput); ok {
		return ci.WriteColumn(w)
	}
	return writeColumnVia(w, c.Inner.EncodeColumn)
}

func (c *ColArray) DecodeColumn(r *Reader, rows int) error {
	for i := 0; i < rows; i++ {
		off, err := r.ReadUInt64()
		if err != nil {
			return err
		}
		c.offsets = append(c.offsets, off)
	}
	total := 0
	if rows > 0 {
		total = int(c.offsets[len(c.offsets)-1])
	}
	return c.Inner.DecodeColumn(r, total)
}

// ColArrayOf is a typed convenience over ColArray.
type ColArrayOf[T any] struct {
	*ColArray
	inner ColumnOf[T]
}

func NewColArrayOf[T any](inner ColumnOf[T]) *ColArrayOf[T] {
	return &ColArrayOf[T]{ColArray: NewColArray(inner), inner: inner}
}

// Row returns the slice of values at row i, copied out of the
// underlying column so callers can retain it past the block's lifetime.
func (c *ColArrayOf[T]) Row(i int) []T {
	start, end := c.Bounds(i)
	out := make([]T, 0, end-start)
	for j := start; j < end; j++ {
		out = append(out, c.inner.Row(j))
	}
	return out
}

// Append appends one row containing vs.
func (c *ColArrayOf[T]) Append(vs []T) {
	for _, v := range vs {
		c.inner.Append(v)
	}
	c.AppendOffset(len(vs))
}
