package compress

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLZ4RoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("a"),
		[]byte("hello world, hello world, hello world"),
		bytes.Repeat([]byte("abcабвгд"), 5000),
	}
	rnd := rand.New(rand.NewSource(1))
	randomBytes := make([]byte, 1<<20)
	rnd.Read(randomBytes)
	cases = append(cases, randomBytes)

	for i, src := range cases {
		bound := CompressBlockBound(len(src))
		dst := make([]byte, bound)
		n := CompressBlock(src, dst)

		out := make([]byte, len(src))
		got, err := DecompressBlock(dst[:n], out)
		require.NoError(t, err, "case %d", i)
		require.Equal(t, len(src), got, "case %d", i)
		require.Equal(t, src, out, "case %d", i)
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.BlockSize = 128 // force multiple blocks

	msg := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 1000)
	_, err := w.Write(msg)
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	r := NewReader(&buf)
	got := make([]byte, len(msg))
	_, err = readFull(r, got)
	require.NoError(t, err)
	require.Equal(t, msg, got)
}

func readFull(r *Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

func TestChecksumRejectsCorruption(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	_, err := w.Write([]byte("corrupt me"))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	corrupted := buf.Bytes()
	corrupted[ChecksumSize+HeaderSize+2] ^= 0xFF // flip the bits of one byte inside the compressed payload

	r := NewReader(bytes.NewReader(corrupted))
	_, err = r.Read(make([]byte, 4))
	require.Error(t, err)
}
