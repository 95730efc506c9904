package proto

import "strconv"

// ColFixedStr is a FixedString(N) column: N raw bytes per row, zero
// padded. Writes of longer inputs error; shorter inputs are padded with
// zero bytes (spec §8 boundary case).
type ColFixedStr struct {
	N    int
	data [][]byte
}

// NewColFixedStr returns an empty FixedString(n) column.
func NewColFixedStr(n int) *ColFixedStr {
	return &ColFixedStr{N: n}
}

func (c *ColFixedStr) Type() ColumnType {
	return ColumnTypeFixedString.With(strconv.Itoa(c.N))
}
func (c *ColFixedStr) Rows() int      { return len(c.data) }
func (c *ColFixedStr) Reset()         { c.data = c.data[:0] }
func (c *ColFixedStr) Row(i int) []byte { return c.data[i] }

// Append pads v with trailing zero bytes up to N, and errors if v is
// longer than N.
func (c *ColFixedStr) Append(v []byte) error {
	if len(v) > c.N {
		return ErrOverflow("FixedString(%d): input of %d bytes does not fit", c.N, len(v))
	}
	row := make([]byte, c.N)
	copy(row, v)
	c.data = append(c.data, row)
	return nil
}

func (c *ColFixedStr) EncodeColumn(b *Buffer) {
	for _, v := range c.data {
		b.PutRaw(v)
	}
}

func (c *ColFixedStr) WriteColumn(w *Writer) error { return writeColumnVia(w, c.EncodeColumn) }

func (c *ColFixedStr) DecodeColumn(r *Reader, rows int) error {
	for i := 0; i < rows; i++ {
		v, err := r.ReadRaw(c.N)
		if err != nil {
			return err
		}
		c.data = append(c.data, v)
	}
	return nil
}

func skipFixedStr(n int) func(r *Reader, rows int) error {
	return func(r *Reader, rows int) error {
		for i := 0; i < rows; i++ {
			if _, err := r.ReadRaw(n); err != nil {
				return err
			}
		}
		return nil
	}
}
