package proto

import (
	"bufio"
	"io"

	"github.com/MrDoe/ClickHouseClient/compress"
)

// Reader is the Binary Reader of spec §4.5. It sits atop a possibly
// segmented byte source (socket reads and compression-block boundaries
// do not align with message boundaries) and presents a simple "peek,
// then confirm" primitive-read surface; every primitive read loops:
// peek, and if the available view is short, read more and retry.
type Reader struct {
	raw *bufio.Reader // always reads the uncompressed byte stream

	decompressing bool
	comp          *compress.Reader
	br            *bufio.Reader // wraps comp while decompressing
}

// NewReader returns a Reader pulling bytes from src.
func NewReader(src io.Reader) *Reader {
	return &Reader{raw: bufio.NewReaderSize(src, 32*1024)}
}

func (r *Reader) active() *bufio.Reader {
	if r.decompressing {
		return r.br
	}
	return r.raw
}

// BeginDecompress switches subsequent reads to decode LZ4 compression
// blocks transparently; it is the dual of Writer.BeginCompress.
func (r *Reader) BeginDecompress() {
	if r.decompressing {
		return
	}
	r.comp = compress.NewReader(r.raw)
	r.br = bufio.NewReaderSize(r.comp, 32*1024)
	r.decompressing = true
}

// EndDecompress returns to reading the raw byte stream directly. Any
// bytes already staged in the decompression buffer are discarded per
// protocol convention (a session never toggles compression mid-message).
func (r *Reader) EndDecompress() {
	r.decompressing = false
	r.comp = nil
	r.br = nil
}

func (r *Reader) ReadByte() (byte, error) { return r.active().ReadByte() }

func (r *Reader) ReadFull(p []byte) error {
	_, err := io.ReadFull(r.active(), p)
	return err
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	return b != 0, err
}

func (r *Reader) ReadUInt8() (uint8, error) {
	b, err := r.ReadByte()
	return b, err
}
func (r *Reader) ReadInt8() (int8, error) {
	b, err := r.ReadByte()
	return int8(b), err
}

func (r *Reader) ReadUInt16() (uint16, error) {
	var tmp [2]byte
	if err := r.ReadFull(tmp[:]); err != nil {
		return 0, err
	}
	return uint16(tmp[0]) | uint16(tmp[1])<<8, nil
}
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUInt16()
	return int16(v), err
}

func (r *Reader) ReadUInt32() (uint32, error) {
	var tmp [4]byte
	if err := r.ReadFull(tmp[:]); err != nil {
		return 0, err
	}
	return uint32(tmp[0]) | uint32(tmp[1])<<8 | uint32(tmp[2])<<16 | uint32(tmp[3])<<24, nil
}
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUInt32()
	return int32(v), err
}

func (r *Reader) ReadUInt64() (uint64, error) {
	var tmp [8]byte
	if err := r.ReadFull(tmp[:]); err != nil {
		return 0, err
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(tmp[i])
	}
	return v, nil
}
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUInt64()
	return int64(v), err
}

// ReadUVarint reads a ClickHouse varint, handling the split-across-reads
// case without extra copies beyond the one byte at a time bufio already
// does.
func (r *Reader) ReadUVarint() (uint64, error) {
	return ReadUvarint(r.active())
}

// ReadLen reads a varint-encoded element/row count.
func (r *Reader) ReadLen() (int, error) {
	n, err := r.ReadUVarint()
	return int(n), err
}

// ReadStr reads a varint byte length followed by that many UTF-8 bytes.
func (r *Reader) ReadStr() (string, error) {
	n, err := r.ReadLen()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if err := r.ReadFull(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadRaw reads exactly n raw bytes.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := r.ReadFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
