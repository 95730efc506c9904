package proto

// ColLowCardinality is the dictionary-index pair described in spec §4.7:
// a small dictionary of distinct values plus a packed array of indices
// into it, one per row. K is constrained to comparable so the column can
// maintain its own value->index map while appending; this covers the
// overwhelming majority of real usage, LowCardinality(String), which is
// the case this type is built for.
//
// Header layout (meta/dictSize/numRows as raw 8-byte little-endian
// UInt64, matching the width ClickHouse itself uses for this
// sub-header): meta's low byte is the index width code (0=UInt8,
// 1=UInt16, 2=UInt32, 3=UInt64), bit 9 (0x200) is the "has additional
// keys" flag this driver always sets, since it always ships a full
// dictionary rather than relying on a previously-transmitted global one.
type ColLowCardinality[K comparable] struct {
	Inner    ColumnType
	newInner func() ColumnOf[K]

	dict    ColumnOf[K]
	index   map[K]int
	indices []uint64
}

const lowCardinalityHasAdditionalKeys = 1 << 9

// NewColLowCardinality returns an empty LowCardinality column over an
// inner type whose blank instances newInner produces.
func NewColLowCardinality[K comparable](inner ColumnType, newInner func() ColumnOf[K]) *ColLowCardinality[K] {
	return &ColLowCardinality[K]{
		Inner:    inner,
		newInner: newInner,
		dict:     newInner(),
		index:    map[K]int{},
	}
}

func (c *ColLowCardinality[K]) Type() ColumnType {
	return ColumnTypeLowCardinality.Sub(c.Inner)
}
func (c *ColLowCardinality[K]) Rows() int { return len(c.indices) }
func (c *ColLowCardinality[K]) Reset() {
	c.dict = c.newInner()
	c.index = map[K]int{}
	c.indices = c.indices[:0]
}

// Row returns the dictionary value for row i.
func (c *ColLowCardinality[K]) Row(i int) K {
	return c.dict.Row(int(c.indices[i]))
}

// Append adds v, reusing an existing dictionary entry when v was seen
// before.
func (c *ColLowCardinality[K]) Append(v K) {
	idx, ok := c.index[v]
	if !ok {
		idx = c.dict.Rows()
		c.dict.Append(v)
		c.index[v] = idx
	}
	c.indices = append(c.indices, uint64(idx))
}

func indexWidthCode(dictSize int) int {
	switch {
	case dictSize <= 1<<8:
		return 0
	case dictSize <= 1<<16:
		return 1
	case dictSize <= 1<<32:
		return 2
	default:
		return 3
	}
}

func (c *ColLowCardinality[K]) EncodeColumn(b *Buffer) {
	width := indexWidthCode(c.dict.Rows())
	meta := uint64(width) | lowCardinalityHasAdditionalKeys
	b.PutUInt64(meta)
	b.PutUInt64(uint64(c.dict.Rows()))
	c.dict.EncodeColumn(b)
	b.PutUInt64(uint64(len(c.indices)))
	for _, idx := range c.indices {
		putIndexByWidth(b, width, idx)
	}
}

func putIndexByWidth(b *Buffer, width int, v uint64) {
	switch width {
	case 0:
		b.PutByte(byte(v))
	case 1:
		b.PutUInt16(uint16(v))
	case 2:
		b.PutUInt32(uint32(v))
	default:
		b.PutUInt64(v)
	}
}

func (c *ColLowCardinality[K]) WriteColumn(w *Writer) error { return writeColumnVia(w, c.EncodeColumn) }

func (c *ColLowCardinality[K]) DecodeColumn(r *Reader, rows int) error {
	meta, err := r.ReadUInt64()
	if err != nil {
		return err
	}
	width := int(meta & 0xff)

	dictSize, err := r.ReadUInt64()
	if err != nil {
		return err
	}
	c.dict = c.newInner()
	if err := c.dict.DecodeColumn(r, int(dictSize)); err != nil {
		return err
	}

	numRows, err := r.ReadUInt64()
	if err != nil {
		return err
	}
	c.index = map[K]int{}
	for i := 0; i < c.dict.Rows(); i++ {
		c.index[c.dict.Row(i)] = i
	}
	for i := uint64(0); i < numRows; i++ {
		idx, err := readIndexByWidth(r, width)
		if err != nil {
			return err
		}
		c.indices = append(c.indices, idx)
	}
	return nil
}

func readIndexByWidth(r *Reader, width int) (uint64, error) {
	switch width {
	case 0:
		v, err := r.ReadUInt8()
		return uint64(v), err
	case 1:
		v, err := r.ReadUInt16()
		return uint64(v), err
	case 2:
		v, err := r.ReadUInt32()
		return uint64(v), err
	default:
		return r.ReadUInt64()
	}
}
