package ch

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MrDoe/ClickHouseClient/proto"
)

// fakeServerHello writes a minimal ServerHello reply (opcode + name +
// major/minor/revision, then the timezone, display name and version
// patch that ServerHello.Decode also reads at the current revision) onto
// conn.
func fakeServerHello(t *testing.T, conn net.Conn, revision int) {
	t.Helper()
	var buf proto.Buffer
	buf.PutUVarint(uint64(proto.ServerCodeHello))
	buf.PutString("ClickHouse")
	buf.PutUVarint(1)
	buf.PutUVarint(1)
	buf.PutUVarint(uint64(revision))
	buf.PutString("UTC")        // timezone
	buf.PutString("ClickHouse") // display name
	buf.PutUVarint(0)           // version patch
	if _, err := conn.Write(buf.Buf); err != nil {
		t.Logf("fake server write: %v", err)
	}
}

func TestSession_StateMachine(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		accepted <- conn
	}()

	go func() {
		conn := <-accepted
		defer conn.Close()
		// drain the client Hello, then reply with a ServerHello.
		buf := make([]byte, 4096)
		_, _ = conn.Read(buf)
		fakeServerHello(t, conn, proto.ProtocolVersion)
		// keep the connection open for Ping/Close below.
		time.Sleep(50 * time.Millisecond)
		_, _ = conn.Read(buf)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	sess, err := Dial(ctx, ln.Addr().String(), Options{DialTimeout: time.Second})
	require.NoError(t, err)
	require.False(t, sess.IsClosed())
	require.Equal(t, proto.ProtocolVersion, sess.ServerInfo().Revision)

	require.NoError(t, sess.Close())
	require.True(t, sess.IsClosed())
	require.NoError(t, sess.Close()) // Close is idempotent
}

func TestIsException(t *testing.T) {
	require.False(t, IsException(nil))
	require.False(t, IsException(ErrClosed))
	var exc error = &Exception{Code: 1, Name: "TEST", Message: "boom"}
	require.True(t, IsException(exc))
}
