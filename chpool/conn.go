package chpool

import (
	"context"

	ch "github.com/MrDoe/ClickHouseClient"
)

// Conn is a pooled session checked out via Pool.Acquire. It must be
// Released (or Closed) exactly once.
type Conn struct {
	pool *Pool
	sess *ch.Session
}

// client exposes the underlying Session for package-internal use and
// for tests that want to assert on its low-level state (e.g.
// conn.client().IsClosed()).
func (c *Conn) client() *ch.Session { return c.sess }

// Query runs q on the pooled session.
func (c *Conn) Query(ctx context.Context, q ch.Query) error {
	return c.sess.Query(ctx, q)
}

// Ping checks the pooled session is still responsive.
func (c *Conn) Ping(ctx context.Context) error {
	return c.sess.Ping(ctx)
}

// Release returns the connection to its pool for reuse.
func (c *Conn) Release() {
	c.pool.release(c)
}

// Close closes the underlying session immediately; the connection is
// not returned to the pool and counts against MaxConns are adjusted.
func (c *Conn) Close() error {
	err := c.sess.Close()
	c.pool.release(c)
	return err
}
