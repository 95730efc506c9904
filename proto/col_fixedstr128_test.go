package proto

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrDoe/ClickHouseClient/internal/gold"
)

func newByte128(v int) []byte {
	row := make([]byte, 128)
	row[0] = byte(v)
	return row
}

func TestColFixedStr128_DecodeColumn(t *testing.T) {
	t.Parallel()
	const rows = 50
	data := NewColFixedStr(128)
	for i := 0; i < rows; i++ {
		v := newByte128(i)
		require.NoError(t, data.Append(v))
		require.Equal(t, v, data.Row(i))
	}

	var buf Buffer
	data.EncodeColumn(&buf)
	t.Run("Golden", func(t *testing.T) {
		t.Parallel()
		gold.Bytes(t, buf.Buf, "col_byte128")
	})
	t.Run("Ok", func(t *testing.T) {
		br := bytes.NewReader(buf.Buf)
		r := NewReader(br)

		dec := NewColFixedStr(128)
		require.NoError(t, dec.DecodeColumn(r, rows))
		require.Equal(t, data.data, dec.data)
		require.Equal(t, rows, dec.Rows())
		dec.Reset()
		require.Equal(t, 0, dec.Rows())

		require.Equal(t, ColumnTypeFixedString.With("128"), dec.Type())
	})
	t.Run("ZeroRows", func(t *testing.T) {
		r := NewReader(bytes.NewReader(nil))

		dec := NewColFixedStr(128)
		require.NoError(t, dec.DecodeColumn(r, 0))
	})
	t.Run("EOF", func(t *testing.T) {
		r := NewReader(bytes.NewReader(nil))

		dec := NewColFixedStr(128)
		require.ErrorIs(t, dec.DecodeColumn(r, rows), io.EOF)
	})
}
