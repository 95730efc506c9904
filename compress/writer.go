package compress

import (
	"encoding/binary"
	"io"
)

// Writer accumulates plaintext up to BlockSize bytes and flushes it to
// the underlying io.Writer as a single compression block: 16-byte
// checksum, 1-byte method, 4-byte compressed-size-with-header, 4-byte
// uncompressed size, payload.
type Writer struct {
	dst       io.Writer
	BlockSize int

	staging []byte // accumulated plaintext awaiting a block
	out     []byte // reusable compressed-block scratch buffer
}

// NewWriter returns a Writer that emits compression blocks of at most
// DefaultBlockSize plaintext bytes to dst.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{
		dst:       dst,
		BlockSize: DefaultBlockSize,
		staging:   make([]byte, 0, DefaultBlockSize),
	}
}

// Write appends p to the staging buffer, flushing whole blocks as the
// buffer crosses BlockSize. It never blocks for longer than dst.Write does.
func (w *Writer) Write(p []byte) (int, error) {
	total := len(p)
	for len(p) > 0 {
		room := w.BlockSize - len(w.staging)
		n := len(p)
		if n > room {
			n = room
		}
		w.staging = append(w.staging, p[:n]...)
		p = p[n:]
		if len(w.staging) >= w.BlockSize {
			if err := w.flushBlock(); err != nil {
				return total - len(p), err
			}
		}
	}
	return total, nil
}

// Flush emits any partially-filled block as its own compression block.
// Called at the end of a logical message; a zero-length staging buffer
// is a no-op.
func (w *Writer) Flush() error {
	if len(w.staging) == 0 {
		return nil
	}
	return w.flushBlock()
}

func (w *Writer) flushBlock() error {
	src := w.staging
	bound := CompressBlockBound(len(src))
	need := HeaderSize + ChecksumSize + bound
	if cap(w.out) < need {
		w.out = make([]byte, need)
	}
	buf := w.out[:need]

	body := buf[ChecksumSize:]
	body[0] = byte(MethodLZ4)
	n := CompressBlock(src, body[HeaderSize:])
	compressedSizeWithHeader := HeaderSize + n
	binary.LittleEndian.PutUint32(body[1:5], uint32(compressedSizeWithHeader))
	binary.LittleEndian.PutUint32(body[5:9], uint32(len(src)))

	checksum(buf[:ChecksumSize], body[:compressedSizeWithHeader])

	frame := buf[:ChecksumSize+compressedSizeWithHeader]
	if _, err := w.dst.Write(frame); err != nil {
		return err
	}
	w.staging = w.staging[:0]
	return nil
}
