package compress

import "github.com/pierrec/lz4/v4"

// This file adapts the ClickHouse native compression-block payload (spec
// §4.3/§6) onto github.com/pierrec/lz4/v4, the LZ4 block codec the rest
// of the retrieval pack reaches for (the vendored kshvakov/clickhouse
// driver lists github.com/pierrec/lz4 in its go.mod alongside its own
// cityhash102 port, and it is the same library the real ch-go uses). Only
// the raw LZ4 block form is needed here, not pierrec's frame format:
// ClickHouse's own 9-byte header plus CityHash-128 checksum (checksum.go)
// already supplies the framing a Writer/Reader pair needs.

// CompressBlockBound returns the maximum size a compressed LZ4 block of
// srcLen bytes of input could occupy, used to size the staging buffer.
func CompressBlockBound(srcLen int) int {
	return lz4.CompressBlockBound(srcLen)
}

// CompressBlock compresses src into dst (which must have capacity
// CompressBlockBound(len(src))) and returns the number of bytes written.
func CompressBlock(src []byte, dst []byte) int {
	var c lz4.Compressor
	n, err := c.CompressBlock(src, dst)
	if err != nil {
		// Only returned for a dst buffer smaller than CompressBlockBound
		// would produce, which callers never pass.
		panic("compress: lz4 CompressBlock: " + err.Error())
	}
	if n == 0 {
		// pierrec signals "not worth compressing" with n == 0 rather than
		// emitting a literal-only block; ClickHouse's wire format still
		// needs a well-formed LZ4 block in that case, so write one
		// directly as a single all-literals sequence.
		return writeRawLiteralBlock(src, dst)
	}
	return n
}

// writeRawLiteralBlock emits src as a single LZ4 sequence with no match,
// the block form for data pierrec.CompressBlock declined to compress.
func writeRawLiteralBlock(src, dst []byte) int {
	di := 0
	litLen := len(src)
	hi := litLen
	if hi > 15 {
		hi = 15
	}
	dst[di] = byte(hi) << 4
	di++
	if litLen >= 15 {
		rem := litLen - 15
		for rem >= 255 {
			dst[di] = 255
			di++
			rem -= 255
		}
		dst[di] = byte(rem)
		di++
	}
	di += copy(dst[di:], src)
	return di
}

// DecompressBlock decompresses an LZ4 block from src into dst, which
// must be exactly uncompressedSize bytes long, and returns the number of
// bytes written (== len(dst) on success).
func DecompressBlock(src []byte, dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return 0, ErrLZ4("lz4 decompress: %v", err)
	}
	if n != len(dst) {
		return n, ErrLZ4("decompressed %d bytes, header declared %d", n, len(dst))
	}
	return n, nil
}
