package proto

import "net"

// ColIPv4 is an IPv4 column: a 4-byte address stored as an unsigned
// 32-bit integer whose most significant byte is the address's first
// octet; on the wire that integer is written little-endian like every
// other fixed-width field.
type ColIPv4 struct {
	data []uint32
}

func NewColIPv4() *ColIPv4 { return &ColIPv4{} }

func (c *ColIPv4) Type() ColumnType { return ColumnTypeIPv4 }
func (c *ColIPv4) Rows() int        { return len(c.data) }
func (c *ColIPv4) Reset()           { c.data = c.data[:0] }

// Row reinterprets the stored network-order uint32 as a net.IP.
func (c *ColIPv4) Row(i int) net.IP {
	v := c.data[i]
	return net.IPv4(byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// ReinterpretAsUInt32 exposes the raw wire integers without the net.IP
// conversion, the coercion spec §4.7 calls try_reinterpret; it cannot
// fail.
func (c *ColIPv4) ReinterpretAsUInt32() []uint32 { return c.data }

func (c *ColIPv4) Append(ip net.IP) {
	ip4 := ip.To4()
	v := uint32(ip4[0])<<24 | uint32(ip4[1])<<16 | uint32(ip4[2])<<8 | uint32(ip4[3])
	c.data = append(c.data, v)
}

func (c *ColIPv4) EncodeColumn(b *Buffer) {
	for _, v := range c.data {
		// Stored network-order logically, but the wire integer itself
		// is written little-endian like every other fixed-width field;
		// PutUInt32 already does that.
		b.PutUInt32(v)
	}
}

func (c *ColIPv4) WriteColumn(w *Writer) error { return writeColumnVia(w, c.EncodeColumn) }

func (c *ColIPv4) DecodeColumn(r *Reader, rows int) error {
	for i := 0; i < rows; i++ {
		v, err := r.ReadUInt32()
		if err != nil {
			return err
		}
		c.data = append(c.data, v)
	}
	return nil
}

// ColIPv6 is an IPv6 column: 16 raw bytes per row, no byte-order
// conversion.
type ColIPv6 struct {
	data [][16]byte
}

func NewColIPv6() *ColIPv6 { return &ColIPv6{} }

func (c *ColIPv6) Type() ColumnType { return ColumnTypeIPv6 }
func (c *ColIPv6) Rows() int        { return len(c.data) }
func (c *ColIPv6) Reset()           { c.data = c.data[:0] }
func (c *ColIPv6) Row(i int) net.IP { return net.IP(c.data[i][:]) }
func (c *ColIPv6) Append(ip net.IP) {
	var v [16]byte
	copy(v[:], ip.To16())
	c.data = append(c.data, v)
}

func (c *ColIPv6) EncodeColumn(b *Buffer) {
	for _, v := range c.data {
		b.PutRaw(v[:])
	}
}
func (c *ColIPv6) WriteColumn(w *Writer) error { return writeColumnVia(w, c.EncodeColumn) }
func (c *ColIPv6) DecodeColumn(r *Reader, rows int) error {
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
