package chpool

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ch "github.com/MrDoe/ClickHouseClient"
	"github.com/MrDoe/ClickHouseClient/proto"
)

// PoolConn returns a Pool dialing the server named by the
// CH_TEST_ADDR environment variable, skipping the test when it is
// unset since these tests talk to a live ClickHouse instance.
func PoolConn(t *testing.T) *Pool {
	t.Helper()
	addr := os.Getenv("CH_TEST_ADDR")
	if addr == "" {
		t.Skip("CH_TEST_ADDR not set, skipping integration test")
	}
	return New(Config{
		Addr:     addr,
		MaxConns: 4,
		Options: ch.Options{
			Database:    os.Getenv("CH_TEST_DATABASE"),
			DialTimeout: 5 * time.Second,
		},
	})
}

// testDo runs a trivial query against conn and asserts it completes
// without error, exercising the full send/receive cycle through a
// pooled connection.
func testDo(t *testing.T, conn *Conn) {
	t.Helper()
	var blocks int
	err := conn.Query(context.Background(), ch.Query{
		Body: "SELECT 1",
		OnResult: func(ctx context.Context, b proto.Block) error {
			blocks++
			return nil
		},
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, blocks, 1)
}
