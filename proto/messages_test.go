package proto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHello_ServerHello_RoundTrip(t *testing.T) {
	var buf Buffer
	Hello{
		Name:            "ch-clickhouse-go",
		Major:           1,
		Minor:           0,
		ProtocolVersion: ProtocolVersion,
		Database:        "default",
		User:            "default",
		Password:        "",
	}.Encode(&buf)

	r := NewReader(bytes.NewReader(buf.Buf))
	code, err := ReadServerCode(r)
	require.NoError(t, err) // client and server Hello share opcode 0
	require.Equal(t, ServerCodeHello, code)
}

func TestServerHello_Decode(t *testing.T) {
	var buf Buffer
	buf.PutString("ClickHouse")
	buf.PutUVarint(23)
	buf.PutUVarint(8)
	buf.PutUVarint(uint64(MinRevisionWithDisplayName))
	buf.PutString("Europe/Moscow")
	buf.PutString("chnode01")

	r := NewReader(bytes.NewReader(buf.Buf))
	var h ServerHello
	require.NoError(t, h.Decode(r))
	require.Equal(t, "ClickHouse", h.Name)
	require.Equal(t, 23, h.Major)
	require.Equal(t, 8, h.Minor)
	require.Equal(t, MinRevisionWithDisplayName, h.Revision)
	require.Equal(t, "Europe/Moscow", h.Timezone)
	require.Equal(t, "chnode01", h.DisplayName)
}

func TestReadServerCode_RejectsUnsupportedOpcodes(t *testing.T) {
	var buf Buffer
	buf.PutUVarint(uint64(ServerCodePartUUIDs))
	r := NewReader(bytes.NewReader(buf.Buf))
	_, err := ReadServerCode(r)
	require.Error(t, err)
}

func TestReadServerCode_AllowsOrdinaryOpcodes(t *testing.T) {
	var buf Buffer
	buf.PutUVarint(uint64(ServerCodeData))
	r := NewReader(bytes.NewReader(buf.Buf))
	code, err := ReadServerCode(r)
	require.NoError(t, err)
	require.Equal(t, ServerCodeData, code)
}

func TestDecodeException(t *testing.T) {
	var buf Buffer
	buf.PutInt32(42)
	buf.PutString("DB::Exception")
	buf.PutString("boom")
	buf.PutString("stack trace here")
	buf.PutBool(false) // has_nested

	r := NewReader(bytes.NewReader(buf.Buf))
	exc, err := DecodeException(r)
	require.NoError(t, err)
	require.Equal(t, int32(42), exc.Code)
	require.Equal(t, "DB::Exception", exc.Name)
	require.Contains(t, exc.Message, "boom")
}
