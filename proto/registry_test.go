package proto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_RoundTrip(t *testing.T) {
	for _, typ := range []ColumnType{
		ColumnTypeInt32,
		ColumnTypeString,
		ColumnTypeArray.Sub(ColumnTypeInt32),
		ColumnTypeNullable.Sub(ColumnTypeString),
		ColumnTypeLowCardinality.Sub(ColumnTypeString),
	} {
		t.Run(string(typ), func(t *testing.T) {
			col, err := NewColumn(typ)
			require.NoError(t, err)
			require.Equal(t, typ, col.Type())
			require.Equal(t, 0, col.Rows())
		})
	}
}

func TestRegistry_UnknownType(t *testing.T) {
	_, err := NewColumn(ColumnType("NotAType(Foo)"))
	require.Error(t, err)
}

func TestNewSkippingColumn_DiscardsRows(t *testing.T) {
	src := NewColNum[int32](ColumnTypeInt32)
	src.Append(1)
	src.Append(2)
	var buf Buffer
	src.EncodeColumn(&buf)

	sk, err := NewSkippingColumn(ColumnTypeInt32)
	require.NoError(t, err)
	r := NewReader(bytes.NewReader(buf.Buf))
	require.NoError(t, sk.DecodeColumn(r, 2))
}
