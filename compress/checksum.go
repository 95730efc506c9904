package compress

import (
	"encoding/binary"

	"github.com/go-faster/city"
)

// checksum computes the CityHash-128 (ClickHouse v1.0.2 variant) over
// header||payload and writes it into the first 16 bytes of dst as two
// little-endian uint64 halves, matching the layout ClickHouse puts on the
// wire (spec §3 Compression Block, §6).
func checksum(dst []byte, headerAndPayload []byte) {
	h := city.CH128(headerAndPayload)
	binary.LittleEndian.PutUint64(dst[0:8], h.Low)
	binary.LittleEndian.PutUint64(dst[8:16], h.High)
}

// verifyChecksum reports whether want (the 16 bytes read off the wire)
// matches the CityHash-128 of headerAndPayload.
func verifyChecksum(want []byte, headerAndPayload []byte) bool {
	h := city.CH128(headerAndPayload)
	gotLow := binary.LittleEndian.Uint64(want[0:8])
	gotHigh := binary.LittleEndian.Uint64(want[8:16])
	return gotLow == h.Low && gotHigh == h.High
}
