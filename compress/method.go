// Package compress implements the LZ4 compression-block framing ClickHouse
// uses on its native wire protocol (spec §4.3): a 9-byte header (algorithm
// tag + compressed/uncompressed sizes) followed by the compressed payload,
// prefixed by a 16-byte CityHash-128 checksum covering the header and the
// payload together.
package compress

// Method is the one-byte algorithm tag carried in the compression-block
// header.
type Method byte

const (
	// MethodNone means no compression is in effect; only used for
	// internal bookkeeping, never written to the wire (an uncompressed
	// session skips the compress.Writer entirely).
	MethodNone Method = 0x00
	// MethodLZ4 is ClickHouse's default and the only algorithm this
	// driver writes.
	MethodLZ4 Method = 0x82
	// MethodZSTD exists on the wire but is not implemented by this
	// driver; reads of a ZSTD-tagged block fail with a Compression error.
	MethodZSTD Method = 0x90
)

func (m Method) String() string {
	switch m {
	case MethodLZ4:
		return "LZ4"
	case MethodZSTD:
		return "ZSTD"
	default:
		return "None"
	}
}

// HeaderSize is the size in bytes of the compression-block header that
// the checksum covers, excluding the 16-byte checksum itself: 1 byte
// algorithm tag + 4 bytes compressed size + 4 bytes uncompressed size.
const HeaderSize = 9

// ChecksumSize is the size in bytes of the CityHash-128 checksum prefix.
const ChecksumSize = 16

// DefaultBlockSize is the default amount of plaintext accumulated by a
// Writer before a compression block is emitted.
const DefaultBlockSize = 1 << 20 // 1 MiB
