package proto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlock_EncodeDecode(t *testing.T) {
	ids := NewColNum[int32](ColumnTypeInt32)
	ids.Append(1)
	ids.Append(2)
	ids.Append(3)

	names := NewColStr()
	names.Append("a")
	names.Append("bb")
	names.Append("ccc")

	input := Input{
		{Name: "id", Data: ids},
		{Name: "name", Data: names},
	}

	var buf Buffer
	var b Block
	require.NoError(t, b.EncodeBlock(&buf, ProtocolVersion, input))

	gotIDs := NewColNum[int32](ColumnTypeInt32)
	gotNames := NewColStr()
	result := Result{
		{Name: "id", Data: gotIDs},
		{Name: "name", Data: gotNames},
	}

	var decoded Block
	r := NewReader(bytes.NewReader(buf.Buf))
	require.NoError(t, decoded.DecodeBlock(r, ProtocolVersion, result))

	require.Equal(t, 2, decoded.Columns)
	require.Equal(t, 3, decoded.Rows)
	require.False(t, decoded.End())
	require.Equal(t, ids.Rows(), gotIDs.Rows())
	for i := 0; i < ids.Rows(); i++ {
		require.Equal(t, ids.Row(i), gotIDs.Row(i))
		require.Equal(t, names.Row(i), gotNames.Row(i))
	}
}

func TestBlock_SkipsUnrequestedColumns(t *testing.T) {
	ids := NewColNum[int32](ColumnTypeInt32)
	ids.Append(10)
	extra := NewColStr()
	extra.Append("discard me")

	input := Input{
		{Name: "id", Data: ids},
		{Name: "extra", Data: extra},
	}

	var buf Buffer
	var b Block
	require.NoError(t, b.EncodeBlock(&buf, ProtocolVersion, input))

	gotIDs := NewColNum[int32](ColumnTypeInt32)
	result := Result{{Name: "id", Data: gotIDs}}

	var decoded Block
	r := NewReader(bytes.NewReader(buf.Buf))
	require.NoError(t, decoded.DecodeBlock(r, ProtocolVersion, result))

	require.Equal(t, 1, gotIDs.Rows())
	require.Equal(t, int32(10), gotIDs.Row(0))
}

func TestBlock_EndMarker(t *testing.T) {
	var buf Buffer
	var b Block
	require.NoError(t, b.EncodeBlock(&buf, ProtocolVersion, nil))

	var decoded Block
	r := NewReader(bytes.NewReader(buf.Buf))
	require.NoError(t, decoded.DecodeBlock(r, ProtocolVersion, nil))
	require.True(t, decoded.End())
}

func TestBlock_WriteBlockMatchesEncodeBlock(t *testing.T) {
	ids := NewColNum[int32](ColumnTypeInt32)
	ids.Append(7)
	input := Input{{Name: "id", Data: ids}}

	var expect Buffer
	var b Block
	require.NoError(t, b.EncodeBlock(&expect, ProtocolVersion, input))

	var got bytes.Buffer
	w := NewWriter(&got, new(Buffer))
	require.NoError(t, b.WriteBlock(w, ProtocolVersion, input))
	_, err := w.Flush()
	require.NoError(t, err)

	require.Equal(t, expect.Buf, got.Bytes())
}
