// Package chpool is a small connection pool over ch.Session, grounded on
// the same acquire/release idiom as the teacher's retrieved
// client_test.go (PoolConn, p.Acquire, conn.Release).
package chpool

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"golang.org/x/time/rate"

	ch "github.com/MrDoe/ClickHouseClient"
)

// Config configures a Pool.
type Config struct {
	// Addr is the "host:port" of the ClickHouse server every pooled
	// Session dials.
	Addr string
	// Options are passed to ch.Dial for every pooled connection.
	Options ch.Options
	// MaxConns bounds how many live sessions the pool will hold at once.
	MaxConns int
	// AcquireRate, if non-zero, throttles how fast Acquire is served,
	// whether it reuses an idle connection or dials a new one, smoothing
	// a thundering herd of callers against a cold server.
	AcquireRate rate.Limit
}

func (c *Config) setDefaults() {
	if c.MaxConns <= 0 {
		c.MaxConns = 10
	}
}

// Pool hands out pooled *ch.Session connections, dialing lazily up to
// MaxConns and reusing released ones.
type Pool struct {
	cfg Config

	limiter *rate.Limiter
	metrics *Metrics

	mu    sync.Mutex
	idle  []*Conn
	count int
}

// New constructs a Pool. It does not dial eagerly; the first Acquire
// performs the first Dial.
func New(cfg Config) *Pool {
	cfg.setDefaults()
	p := &Pool{cfg: cfg, metrics: NewMetrics()}
	if cfg.AcquireRate > 0 {
		p.limiter = rate.NewLimiter(cfg.AcquireRate, 1)
	}
	return p
}

// Acquire returns a Conn, either an idle one from the pool or a freshly
// dialed one if the pool has not reached MaxConns.
func (p *Pool) Acquire(ctx context.Context) (*Conn, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "acquire rate limit")
		}
	}

	p.mu.Lock()
	for len(p.idle) > 0 {
		c := p.idle[len(p.idle)-1]
		p.idle = p.idle[:len(p.idle)-1]
		p.mu.Unlock()
		if !c.sess.IsClosed() {
			p.metrics.acquired.Inc()
			return c, nil
		}
		p.mu.Lock()
		p.count--
	}
	if p.count >= p.cfg.MaxConns {
		p.mu.Unlock()
		return nil, errors.New("chpool: pool exhausted")
	}
	p.count++
	p.mu.Unlock()

	sess, err := ch.Dial(ctx, p.cfg.Addr, p.cfg.Options)
	if err != nil {
		p.mu.Lock()
		p.count--
		p.mu.Unlock()
		p.metrics.dialErrors.Inc()
		return nil, errors.Wrap(err, "dial")
	}
	p.metrics.dialed.Inc()
	p.metrics.acquired.Inc()
	return &Conn{pool: p, sess: sess}, nil
}

// release returns c to the idle list, or drops it (and its slot) if it
// is no longer usable.
func (p *Pool) release(c *Conn) {
	p.metrics.released.Inc()
	if c.sess.IsClosed() {
		p.mu.Lock()
		p.count--
		p.mu.Unlock()
		return
	}
	p.mu.Lock()
	p.idle = append(p.idle, c)
	p.mu.Unlock()
}

// Close closes every idle connection. In-flight acquired connections are
// unaffected; it is the caller's responsibility to release or close them.
func (p *Pool) Close() error {
	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	var err error
	for _, c := range idle {
		if cerr := c.sess.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}
	return err
}

// Stat reports the pool's current size relative to its configured
// ceiling, for diagnostics (cmd/chinspect).
type Stat struct {
	AcquiredOrIdle int
	MaxConns       int
}

func (p *Pool) Stat() Stat {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stat{AcquiredOrIdle: p.count, MaxConns: p.cfg.MaxConns}
}
