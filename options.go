package ch

import (
	"crypto/tls"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/MrDoe/ClickHouseClient/proto"
)

// Options configures Dial (spec §6 External Interfaces).
type Options struct {
	// Database, User, Password authenticate the Hello handshake.
	Database string
	User     string
	Password string

	// Settings are applied to every query run on the session unless a
	// query overrides them with its own Setting of the same Key.
	Settings []Setting

	// Compression enables LZ4 block compression for data blocks.
	Compression proto.Compression

	// TLS, if non-nil, wraps the dialed connection in a TLS client.
	TLS *tls.Config

	// DialTimeout bounds the initial TCP connect.
	DialTimeout time.Duration
	// WriteTimeout, if set, bounds every flush to the socket; otherwise
	// the context's deadline (if any) is used instead. ReadTimeout, if
	// set, bounds the wait for Ping's reply; the handshake and Query
	// reads are given no read deadline.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Logger receives structured session diagnostics. Defaults to
	// zap.NewNop() so a caller need not configure logging to use Dial.
	Logger *zap.Logger

	// Tracer, if non-nil, wraps Session.Query in an OpenTelemetry span
	// (see otelch package).
	Tracer trace.Tracer

	// Metrics, if non-nil, is fed one Observe call per completed Query.
	Metrics *SessionMetrics
}

func (o *Options) setDefaults() {
	if o.DialTimeout == 0 {
		o.DialTimeout = 10 * time.Second
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.User == "" {
		o.User = "default"
	}
}
