package proto

import "encoding/binary"

// Buffer is an append-only byte accumulator used by column and message
// encoders. It mirrors the teacher's proto.Buffer{Buf: []byte} shape:
// callers build a Buffer value, call the Put* helpers, and hand Buf to a
// Writer or compare it directly in tests (see column_test.go's
// data.EncodeColumn(&expect) pattern).
type Buffer struct {
	Buf []byte
}

// Reset truncates the buffer to zero length, retaining its capacity.
func (b *Buffer) Reset() {
	b.Buf = b.Buf[:0]
}

// PutByte appends a single byte.
func (b *Buffer) PutByte(v byte) {
	b.Buf = append(b.Buf, v)
}

// PutBool appends a single byte, 1 for true and 0 for false.
func (b *Buffer) PutBool(v bool) {
	if v {
		b.PutByte(1)
	} else {
		b.PutByte(0)
	}
}

// PutUInt8 appends a single byte.
func (b *Buffer) PutUInt8(v uint8) { b.PutByte(v) }

// PutUInt16 appends v little-endian.
func (b *Buffer) PutUInt16(v uint16) {
	b.Buf = binary.LittleEndian.AppendUint16(b.Buf, v)
}

// PutUInt32 appends v little-endian.
func (b *Buffer) PutUInt32(v uint32) {
	b.Buf = binary.LittleEndian.AppendUint32(b.Buf, v)
}

// PutUInt64 appends v little-endian.
func (b *Buffer) PutUInt64(v uint64) {
	b.Buf = binary.LittleEndian.AppendUint64(b.Buf, v)
}

// PutInt8, PutInt16, PutInt32, PutInt64 append v little-endian as signed integers.
func (b *Buffer) PutInt8(v int8)   { b.PutByte(byte(v)) }
func (b *Buffer) PutInt16(v int16) { b.PutUInt16(uint16(v)) }
func (b *Buffer) PutInt32(v int32) { b.PutUInt32(uint32(v)) }
func (b *Buffer) PutInt64(v int64) { b.PutUInt64(uint64(v)) }

// PutUVarint appends u using ClickHouse's varint encoding.
func (b *Buffer) PutUVarint(u uint64) {
	var tmp [MaxVarintLen64]byte
	n := PutUvarint(tmp[:], u)
	b.Buf = append(b.Buf, tmp[:n]...)
}

// PutString appends the varint byte length of s followed by its UTF-8 bytes.
func (b *Buffer) PutString(s string) {
	b.PutUVarint(uint64(len(s)))
	b.Buf = append(b.Buf, s...)
}

// PutRaw appends p without any length prefix.
func (b *Buffer) PutRaw(p []byte) {
	b.Buf = append(b.Buf, p...)
}

// PutLen appends the varint-encoded count n, the convention the column
// codecs use for element/offset counts that are not byte lengths.
func (b *Buffer) PutLen(n int) {
	b.PutUVarint(uint64(n))
}

// Len returns the number of bytes currently buffered.
func (b *Buffer) Len() int { return len(b.Buf) }
