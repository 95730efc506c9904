package proto

import "github.com/google/uuid"

// ColUUID is a UUID column: 16 bytes per row, laid out as two
// little-endian uint64 halves (ClickHouse's historical UUID wire order,
// not RFC 4122 byte order) exactly as the teacher's real ch-go encodes
// it, grounded on the teacher's direct import of github.com/google/uuid
// for the native representation (query.go).
type ColUUID struct {
	data []uuid.UUID
}

func NewColUUID() *ColUUID { return &ColUUID{} }

func (c *ColUUID) Type() ColumnType   { return ColumnTypeUUID }
func (c *ColUUID) Rows() int          { return len(c.data) }
func (c *ColUUID) Reset()             { c.data = c.data[:0] }
func (c *ColUUID) Row(i int) uuid.UUID { return c.data[i] }
func (c *ColUUID) Append(v uuid.UUID) { c.data = append(c.data, v) }

func encodeUUID(v uuid.UUID) [16]byte {
	var out [16]byte
	// High 8 bytes of the UUID become the first little-endian uint64 on
	// the wire, low 8 bytes the second — ClickHouse swaps both the
	// halves and their internal byte order relative to RFC 4122 text form.
	for i := 0; i < 8; i++ {
		out[i] = v[7-i]
		out[8+i] = v[15-i]
	}
	return out
}

func decodeUUID(b []byte) uuid.UUID {
	var v uuid.UUID
	for i := 0; i < 8; i++ {
		v[7-i] = b[i]
		v[15-i] = b[8+i]
	}
	return v
}

func (c *ColUUID) EncodeColumn(b *Buffer) {
	for _, v := range c.data {
		raw := encodeUUID(v)
		b.PutRaw(raw[:])
	}
}

func (c *ColUUID) WriteColumn(w *Writer) error { return writeColumnVia(w, c.EncodeColumn) }

func (c *ColUUID) DecodeColumn(r *Reader, rows int) error {
	for i := 0; i < rows; i++ {
		raw, err := r.ReadRaw(16)
		if err != nil {
			return err
		}
		c.data = append(c.data, decodeUUID(raw))
	}
	return nil
}
