package compress

import (
	"encoding/binary"
	"io"
)

// Reader decodes a stream of compression blocks from src and presents
// the decompressed bytes as a plain io.Reader, as though they had never
// been compressed. A single logical protocol message may span many
// compression blocks and a single block may carry more than one message;
// Reader only concerns itself with block boundaries.
type Reader struct {
	src io.Reader

	header   [ChecksumSize + HeaderSize]byte
	body     []byte // compressed payload scratch, reused across blocks
	decoded  []byte // decompressed current block
	pos      int    // read position within decoded
}

// NewReader returns a Reader that decodes compression blocks read from src.
func NewReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

// Read implements io.Reader, transparently decompressing block-by-block
// and verifying the CityHash-128 checksum of every block it reads.
func (r *Reader) Read(p []byte) (int, error) {
	if r.pos >= len(r.decoded) {
		if err := r.readBlock(); err != nil {
			return 0, err
		}
	}
	n := copy(p, r.decoded[r.pos:])
	r.pos += n
	return n, nil
}

func (r *Reader) readBlock() error {
	if _, err := io.ReadFull(r.src, r.header[:]); err != nil {
		return err
	}
	body := r.header[ChecksumSize:]
	method := Method(body[0])
	compressedSizeWithHeader := int(binary.LittleEndian.Uint32(body[1:5]))
	uncompressedSize := int(binary.LittleEndian.Uint32(body[5:9]))

	if method != MethodLZ4 {
		return ErrLZ4("unsupported compression method 0x%02x", byte(method))
	}
	if compressedSizeWithHeader < HeaderSize {
		return ErrLZ4("compressed size %d smaller than header", compressedSizeWithHeader)
	}
	payloadSize := compressedSizeWithHeader - HeaderSize

	if cap(r.body) < compressedSizeWithHeader {
		r.body = make([]byte, compressedSizeWithHeader)
	}
	full := r.body[:compressedSizeWithHeader]
	copy(full, body)
	if _, err := io.ReadFull(r.src, full[HeaderSize:]); err != nil {
		return err
	}

	if !verifyChecksum(r.header[:ChecksumSize], full) {
		return ErrLZ4("cityhash-128 checksum mismatch decoding compression block")
	}

	if cap(r.decoded) < uncompressedSize {
		r.decoded = make([]byte, uncompressedSize)
	}
	r.decoded = r.decoded[:uncompressedSize]
	n, err := DecompressBlock(full[HeaderSize:HeaderSize+payloadSize], r.decoded)
	if err != nil {
		return err
	}
	if n != uncompressedSize {
		return ErrLZ4("decompressed %d bytes, header declared %d", n, uncompressedSize)
	}
	r.pos = 0
	return nil
}
