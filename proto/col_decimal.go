package proto

import "math/big"

// Decimal is the native value ColDecimal* columns materialise: an
// unscaled integer plus the number of fractional digits it represents,
// matching ClickHouse's fixed-point on-wire representation (spec §4.7
// Decimal32/64/128/256(scale), Decimal(precision, scale)).
type Decimal struct {
	Unscaled *big.Int
	Scale    int
}

// String renders the decimal with its implied decimal point.
func (d Decimal) String() string {
	if d.Scale == 0 {
		return d.Unscaled.String()
	}
	neg := d.Unscaled.Sign() < 0
	abs := new(big.Int).Abs(d.Unscaled)
	s := abs.String()
	for len(s) <= d.Scale {
		s = "0" + s
	}
	cut := len(s) - d.Scale
	out := s[:cut] + "." + s[cut:]
	if neg {
		out = "-" + out
	}
	return out
}

// ColDecimal is a Decimal column backed by a fixed-width little-endian
// integer storage (4/8/16/32 bytes), dispatched by Width.
type ColDecimal struct {
	typ   ColumnType
	Width int // 4, 8, 16, or 32
	Scale int

	small *ColNum[int64]      // Width==4 (widened) or Width==8
	wide16 *ColFixedBytes16   // Width==16
	wide32 *ColFixedBytes32   // Width==32
}

// NewColDecimal32/64/128/256 construct a Decimal column of the given
// scale backed by the matching storage width.
func NewColDecimal32(scale int) *ColDecimal {
	return &ColDecimal{typ: ColumnTypeDecimal32.With(itoa(scale)), Width: 4, Scale: scale, small: NewColNum[int64](ColumnTypeInt64)}
}
func NewColDecimal64(scale int) *ColDecimal {
	return &ColDecimal{typ: ColumnTypeDecimal64.With(itoa(scale)), Width: 8, Scale: scale, small: NewColNum[int64](ColumnTypeInt64)}
}
func NewColDecimal128(scale int) *ColDecimal {
	return &ColDecimal{typ: ColumnTypeDecimal128.With(itoa(scale)), Width: 16, Scale: scale, wide16: &ColFixedBytes16{typ: ColumnTypeInt128}}
}
func NewColDecimal256(scale int) *ColDecimal {
	return &ColDecimal{typ: ColumnTypeDecimal256.With(itoa(scale)), Width: 32, Scale: scale, wide32: &ColFixedBytes32{typ: ColumnTypeInt256}}
}

func itoa(n int) string {
	var buf Buffer
	neg := n < 0
	if neg {
		n = -n
	}
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	buf.PutRaw(digits)
	if neg {
		return "-" + string(buf.Buf)
	}
	return string(buf.Buf)
}

func (c *ColDecimal) Type() ColumnType { return c.typ }

func (c *ColDecimal) Rows() int {
	switch c.Width {
	case 4, 8:
		return c.small.Rows()
	case 16:
		return c.wide16.Rows()
	default:
		return c.wide32.Rows()
	}
}

func (c *ColDecimal) Reset() {
	switch c.Width {
	case 4, 8:
		c.small.Reset()
	case 16:
		c.wide16.Reset()
	default:
		c.wide32.Reset()
	}
}

// Row returns the decimal at row i.
func (c *ColDecimal) Row(i int) Decimal {
	switch c.Width {
	case 4, 8:
		return Decimal{Unscaled: big.NewInt(c.small.Row(i)), Scale: c.Scale}
	case 16:
		return Decimal{Unscaled: leBytesToBigInt(c.wide16.Row(i)[:]), Scale: c.Scale}
	default:
		return Decimal{Unscaled: leBytesToBigInt(c.wide32.Row(i)[:]), Scale: c.Scale}
	}
}

// Append appends an unscaled value interpreted with this column's scale.
// Values outside Width's range are rejected with an Overflow error and
// nothing is appended.
func (c *ColDecimal) Append(unscaled *big.Int) error {
	switch c.Width {
	case 4:
		if !unscaled.IsInt64() || unscaled.Int64() > 1<<31-1 || unscaled.Int64() < -(1<<31) {
			return ErrOverflow("decimal32 value %s out of range", unscaled)
		}
		c.small.Append(unscaled.Int64())
	case 8:
		if !unscaled.IsInt64() {
			return ErrOverflow("decimal64 value %s out of range", unscaled)
		}
		c.small.Append(unscaled.Int64())
	case 16:
		b, err := bigIntToLEBytes(unscaled, 16)
		if err != nil {
			return err
		}
		var v [16]byte
		copy(v[:], b)
		c.wide16.Append(v)
	default:
		b, err := bigIntToLEBytes(unscaled, 32)
		if err != nil {
			return err
		}
		var v [32]byte
		copy(v[:], b)
		c.wide32.Append(v)
	}
	return nil
}

func (c *ColDecimal) EncodeColumn(b *Buffer) {
	switch c.Width {
	case 4:
		for i := 0; i < c.small.Rows(); i++ {
			b.PutInt32(int32(c.small.Row(i)))
		}
	case 8:
		c.small.EncodeColumn(b)
	case 16:
		c.wide16.EncodeColumn(b)
	default:
		c.wide32.EncodeColumn(b)
	}
}

func (c *ColDecimal) WriteColumn(w *Writer) error { return writeColumnVia(w, c.EncodeColumn) }

func (c *ColDecimal) DecodeColumn(r *Reader, rows int) error {
	switch c.Width {
	case 4:
		for i := 0; i < rows; i++ {
			v, err := r.ReadInt32()
			if err != nil {
				return err
			}
			c.small.Append(int64(v))
		}
		return nil
	case 8:
		return c.small.DecodeColumn(r, rows)
	case 16:
		return c.wide16.DecodeColumn(r, rows)
	default:
		return c.wide32.DecodeColumn(r, rows)
	}
}

func leBytesToBigInt(le []byte) *big.Int {
	be := make([]byte, len(le))
	for i, b := range le {
		be[len(le)-1-i] = b
	}
	neg := len(be) > 0 && be[0]&0x80 != 0
	v := new(big.Int).SetBytes(be)
	if neg {
		max := new(big.Int).Lsh(big.NewInt(1), uint(len(le)*8))
		v.Sub(v, max)
	}
	return v
}

func bigIntToLEBytes(v *big.Int, width int) ([]byte, error) {
	x := new(big.Int).Set(v)
	if x.Sign() < 0 {
		max := new(big.Int).Lsh(big.NewInt(1), uint(width*8))
		x.Add(x, max)
	}
	be := x.Bytes()
	if len(be) > width {
		return nil, ErrOverflow("decimal value %s does not fit in %d bytes", v, width)
	}
	le := make([]byte, width)
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	return le, nil
}
