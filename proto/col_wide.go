package proto

// ColInt128, ColInt256, ColUInt128, ColUInt256 are the concrete wide
// integer column types; Go lacks generic const-sized array parameters
// tied to a true numeric constant usable both as a type param and a
// length, so each width gets its own named type wrapping a fixed-size
// backing array column instead of instantiating ColWide[N] generically
// (Go 1.21 does not support non-type array-length inference this way).
type (
	ColInt128  struct{ ColFixedBytes16 }
	ColUInt128 struct{ ColFixedBytes16 }
	ColInt256  struct{ ColFixedBytes32 }
	ColUInt256 struct{ ColFixedBytes32 }
)

func NewColInt128() *ColInt128   { return &ColInt128{ColFixedBytes16{typ: ColumnTypeInt128}} }
func NewColUInt128() *ColUInt128 { return &ColUInt128{ColFixedBytes16{typ: ColumnTypeUInt128}} }
func NewColInt256() *ColInt256   { return &ColInt256{ColFixedBytes32{typ: ColumnTypeInt256}} }
func NewColUInt256() *ColUInt256 { return &ColUInt256{ColFixedBytes32{typ: ColumnTypeUInt256}} }

// ColFixedBytes16/32 back the 128/256-bit integer and decimal columns:
// a packed array of raw little-endian byte groups, with no numeric
// interpretation performed by the codec itself.
type ColFixedBytes16 struct {
	typ  ColumnType
	data [][16]byte
}

func (c *ColFixedBytes16) Type() ColumnType      { return c.typ }
func (c *ColFixedBytes16) Rows() int             { return len(c.data) }
func (c *ColFixedBytes16) Reset()                { c.data = c.data[:0] }
func (c *ColFixedBytes16) Row(i int) [16]byte     { return c.data[i] }
func (c *ColFixedBytes16) Append(v [16]byte)      { c.data = append(c.data, v) }
func (c *ColFixedBytes16) EncodeColumn(b *Buffer) {
	for _, v := range c.data {
		b.Buf = append(b.Buf, v[:]...)
	}
}
func (c *ColFixedBytes16) WriteColumn(w *Writer) error { return writeColumnVia(w, c.EncodeColumn) }
func (c *ColFixedBytes16) DecodeColumn(r *Reader, rows int) error {
	for i := 0; i < rows; i++ {
		raw, err := r.ReadRaw(16)
		if err != nil {
			return err
		}
		var v [16]byte
		copy(v[:], raw)
		c.data = append(c.data, v)
	}
	return nil
}

type ColFixedBytes32 struct {
	typ  ColumnType
	data [][32]byte
}

func (c *ColFixedBytes32) Type() ColumnType  { return c.typ }
func (c *ColFixedBytes32) Rows() int         { return len(c.data) }
func (c *ColFixedBytes32) Reset()            { c.data = c.data[:0] }
func (c *ColFixedBytes32) Row(i int) [32]byte { return c.data[i] }
func (c *ColFixedBytes32) Append(v [32]byte)  { c.data = append(c.data, v) }
func (c *ColFixedBytes32) EncodeColumn(b *Buffer) {
	for _, v := range c.data {
		b.Buf = append(b.Buf, v[:]...)
	}
}
func (c *ColFixedBytes32) WriteColumn(w *Writer) error { return writeColumnVia(w, c.EncodeColumn) }
func (c *ColFixedBytes32) DecodeColumn(r *Reader, rows int) error {
	for i := 0; i < rows; i++ {
		raw, err := r.ReadRaw(32)
		if err != nil {
			return err
		}
		var v [32]byte
		copy(v[:], raw)
		c.data = append(c.data, v)
	}
	return nil
}
