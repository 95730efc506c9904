package proto

import (
	"io"

	"github.com/MrDoe/ClickHouseClient/compress"
)

// Writer is the Binary Writer of spec §4.4: a set of little-endian
// primitive encoders layered over an accumulation Buffer, with an
// optional LZ4 compression stage that can be switched in and out
// mid-stream. NewWriter's signature (dst io.Writer, buf *Buffer) mirrors
// the teacher's own constructor, exercised directly in column_test.go:
// `w := NewWriter(&got, new(Buffer))`.
type Writer struct {
	dst io.Writer
	buf *Buffer

	compressing bool
	comp        *compress.Writer
}

// NewWriter returns a Writer flushing to dst, staging primitive writes in buf.
func NewWriter(dst io.Writer, buf *Buffer) *Writer {
	if buf == nil {
		buf = new(Buffer)
	}
	return &Writer{dst: dst, buf: buf}
}

// Write implements io.Writer: raw bytes either join the accumulation
// buffer, or, while compression is active, feed the LZ4 staging writer.
func (w *Writer) Write(p []byte) (int, error) {
	if w.compressing {
		return w.comp.Write(p)
	}
	w.buf.PutRaw(p)
	return len(p), nil
}

func (w *Writer) WriteByte(b byte) error { _, err := w.Write([]byte{b}); return err }
func (w *Writer) WriteBool(v bool) error {
	if v {
		return w.WriteByte(1)
	}
	return w.WriteByte(0)
}

func (w *Writer) WriteUInt8(v uint8) error   { return w.WriteByte(v) }
func (w *Writer) WriteInt8(v int8) error     { return w.WriteByte(byte(v)) }

func (w *Writer) WriteUInt16(v uint16) error {
	var tmp [2]byte
	tmp[0], tmp[1] = byte(v), byte(v>>8)
	_, err := w.Write(tmp[:])
	return err
}
func (w *Writer) WriteInt16(v int16) error { return w.WriteUInt16(uint16(v)) }

func (w *Writer) WriteUInt32(v uint32) error {
	var tmp [4]byte
	tmp[0], tmp[1], tmp[2], tmp[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
	_, err := w.Write(tmp[:])
	return err
}
func (w *Writer) WriteInt32(v int32) error { return w.WriteUInt32(uint32(v)) }

func (w *Writer) WriteUInt64(v uint64) error {
	var tmp [8]byte
	for i := 0; i < 8; i++ {
		tmp[i] = byte(v >> (8 * i))
	}
	_, err := w.Write(tmp[:])
	return err
}
func (w *Writer) WriteInt64(v int64) error { return w.WriteUInt64(uint64(v)) }

// WriteUVarint writes u using ClickHouse's 7-bit continuation varint.
func (w *Writer) WriteUVarint(u uint64) error {
	var tmp [MaxVarintLen64]byte
	n := PutUvarint(tmp[:], u)
	_, err := w.Write(tmp[:n])
	return err
}

// WriteStr writes the varint byte length of s followed by its UTF-8 bytes.
func (w *Writer) WriteStr(s string) error {
	if err := w.WriteUVarint(uint64(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

// WriteRaw hands a writable window of at least hint bytes to f, which
// must return the number of bytes it actually produced. If f reports zero
// progress, WriteRaw retries with an at-least-doubled window; the spec's
// "fatal out-of-memory" terminal condition is represented here as
// ErrInternal once the window exceeds a sane bound, since Go slices grow
// without the fixed ceilings spec.md's host systems have.
func (w *Writer) WriteRaw(hint int, f func(dst []byte) (n int, err error)) error {
	if hint <= 0 {
		hint = 4096
	}
	const maxWindow = 1 << 30
	for {
		window := make([]byte, hint)
		n, err := f(window)
		if err != nil {
			return err
		}
		if n > 0 {
			_, werr := w.Write(window[:n])
			return werr
		}
		if hint >= maxWindow {
			return ErrInternal("write_raw: callback made no progress with a %d-byte window", hint)
		}
		hint *= 2
	}
}

// BeginCompress switches subsequent primitive writes into the LZ4
// staging buffer. It is a fatal internal error to call it while already
// compressing.
func (w *Writer) BeginCompress(blockSize int) error {
	if w.compressing {
		return ErrInternal("begin_compress called while already compressing")
	}
	w.comp = compress.NewWriter(writerFunc(func(p []byte) (int, error) {
		w.buf.PutRaw(p)
		return len(p), nil
	}))
	if blockSize > 0 {
		w.comp.BlockSize = blockSize
	}
	w.compressing = true
	return nil
}

// EndCompress flushes any partial compression block and returns to
// writing bytes raw into the accumulation buffer.
func (w *Writer) EndCompress() error {
	if !w.compressing {
		return nil
	}
	if err := w.comp.Flush(); err != nil {
		return err
	}
	w.compressing = false
	w.comp = nil
	return nil
}

// Flush copies all bytes accumulated in buf to dst and then resets buf.
// Calling Flush while compression is active is a fatal internal error
// (spec §4.4): callers must EndCompress first.
func (w *Writer) Flush() (int, error) {
	if w.compressing {
		return 0, ErrInternal("flush called while compression is active")
	}
	n, err := w.dst.Write(w.buf.Buf)
	w.buf.Reset()
	return n, err
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
