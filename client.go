// Package ch is a client for the ClickHouse native TCP protocol: it
// dials a server, performs the handshake, and runs queries by streaming
// typed proto.Block columns in both directions.
package ch

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/MrDoe/ClickHouseClient/proto"
)

// ErrClosed is returned by any operation attempted on a Session that has
// already moved to the Closed state.
var ErrClosed = errors.New("ch: session is closed")

// Exception is a server-originated error: the native-protocol Exception
// message, decoded into Go. It does not break the session (spec §4.9,
// §7: server errors are non-fatal).
type Exception = proto.ServerError

// IsException reports whether err is (or wraps) a server Exception.
func IsException(err error) bool {
	var exc *Exception
	return errors.As(err, &exc)
}

// Setting is a session- or query-scoped server setting, e.g.
// ("max_threads", "4", important=false).
type Setting struct {
	Key       string
	Value     string
	Important bool
}

// state is the Session State Machine of spec §4.9.
type state int32

const (
	stateNew state = iota
	stateHandshakingOut
	stateHandshakingIn
	stateReady
	stateSendingQuery
	stateSendingData
	stateReceivingResult
	stateBroken
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateNew:
		return "New"
	case stateHandshakingOut:
		return "HandshakingOut"
	case stateHandshakingIn:
		return "HandshakingIn"
	case stateReady:
		return "Ready"
	case stateSendingQuery:
		return "SendingQuery"
	case stateSendingData:
		return "SendingData"
	case stateReceivingResult:
		return "ReceivingResult"
	case stateBroken:
		return "Broken"
	case stateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// ServerInfo is the identity the server reported in its Hello reply.
type ServerInfo struct {
	Name            string
	Major, Minor, Patch int
	Revision        int
	Timezone        string
	DisplayName     string
}

// Session is one ClickHouse native-protocol connection. It is not safe
// for concurrent use: spec §5 scopes it to single-threaded cooperative
// scheduling, one byte stream per Session.
type Session struct {
	conn net.Conn
	lg   *zap.Logger

	writer *proto.Writer
	reader *proto.Reader

	state           atomic.Int32
	protocolVersion int
	server          ServerInfo
	compression     proto.Compression

	database string
	user     string
	password string
	settings []Setting

	otel    bool
	tracer  trace.Tracer
	metrics *SessionMetrics

	readTimeout  time.Duration
	writeTimeout time.Duration

	mu sync.Mutex // guards cancel-in-flight bookkeeping
}

// Dial opens a TCP connection to addr and runs the handshake
// (New -> HandshakingOut -> HandshakingIn -> Ready, spec §4.9).
func Dial(ctx context.Context, addr string, opts Options) (*Session, error) {
	opts.setDefaults()

	dialer := net.Dialer{Timeout: opts.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "dial")
	}
	if opts.TLS != nil {
		conn = tls.Client(conn, opts.TLS)
	}

	s := &Session{
		conn:            conn,
		lg:              opts.Logger,
		writer:          proto.NewWriter(conn, new(proto.Buffer)),
		reader:          proto.NewReader(conn),
		protocolVersion: proto.ProtocolVersion,
		compression:     opts.Compression,
		database:        opts.Database,
		user:            opts.User,
		password:        opts.Password,
		settings:        opts.Settings,
		otel:            opts.Tracer != nil,
		tracer:          opts.Tracer,
		metrics:         opts.Metrics,
		readTimeout:     opts.ReadTimeout,
		writeTimeout:    opts.WriteTimeout,
	}
	s.setState(stateNew)

	if err := s.handshake(ctx, opts); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) setState(v state) { s.state.Store(int32(v)) }
func (s *Session) getState() state  { return state(s.state.Load()) }

// IsClosed reports whether the session has reached a terminal state.
func (s *Session) IsClosed() bool {
	st := s.getState()
	return st == stateClosed || st == stateBroken
}

func (s *Session) fail(err error) error {
	if err != nil && proto.IsFatal(err) {
		s.setState(stateBroken)
	}
	return err
}

// handshake performs the New->Ready transition: write Hello, flush,
// read the server's Hello, latch its revision/timezone (spec §4.9).
func (s *Session) handshake(ctx context.Context, opts Options) error {
	s.setState(stateHandshakingOut)

	hello := proto.Hello{
		Name:            "ch-clickhouse-go",
		Major:           1,
		Minor:           0,
		ProtocolVersion: proto.ProtocolVersion,
		Database:        opts.Database,
		User:            opts.User,
		Password:        opts.Password,
	}
	var buf proto.Buffer
	hello.Encode(&buf)
	if _, err := s.writer.Write(buf.Buf); err != nil {
		return s.fail(proto.WrapIO(err, "write hello"))
	}
	if _, err := s.flush(ctx); err != nil {
		return s.fail(err)
	}

	s.setState(stateHandshakingIn)
	code, err := proto.ReadServerCode(s.reader)
	if err != nil {
		return s.fail(proto.WrapIO(err, "read hello code"))
	}
	switch code {
	case proto.ServerCodeHello:
		var h proto.ServerHello
		if err := h.Decode(s.reader); err != nil {
			return s.fail(errors.Wrap(err, "decode hello"))
		}
		s.server = ServerInfo{
			Name: h.Name, Major: h.Major, Minor: h.Minor, Patch: h.VersionPatch,
			Revision: h.Revision, Timezone: h.Timezone, DisplayName: h.DisplayName,
		}
		if h.Revision < s.protocolVersion {
			s.protocolVersion = h.Revision
		}
	case proto.ServerCodeException:
		exc, err := proto.DecodeException(s.reader)
		if err != nil {
			return s.fail(errors.Wrap(err, "decode exception"))
		}
		s.setState(stateBroken)
		return exc
	default:
		return s.fail(proto.ErrProtocol("unexpected packet %s during handshake", code))
	}

	s.setState(stateReady)
	return nil
}

// flush writes the writer's staged bytes to the connection, honoring
// the configured write deadline (spec §5 Cancellation: a deadline may be
// attached to every write).
func (s *Session) flush(ctx context.Context) (int, error) {
	if s.writeTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	} else if dl, ok := ctx.Deadline(); ok {
		_ = s.conn.SetWriteDeadline(dl)
	}
	n, err := s.writer.Flush()
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return n, proto.ErrTimeout(s.writeTimeout.Milliseconds())
		}
		return n, proto.WrapIO(err, "flush")
	}
	return n, nil
}

// Ping sends a Ping and waits for the server's Pong, without disturbing
// any in-progress query state. Used by chpool health checks.
func (s *Session) Ping(ctx context.Context) error {
	if s.IsClosed() {
		return ErrClosed
	}
	var buf proto.Buffer
	proto.Ping{}.Encode(&buf)
	if _, err := s.writer.Write(buf.Buf); err != nil {
		return s.fail(proto.WrapIO(err, "write ping"))
	}
	if _, err := s.flush(ctx); err != nil {
		return s.fail(err)
	}
	if s.readTimeout > 0 {
		_ = s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	}
	code, err := proto.ReadServerCode(s.reader)
	if err != nil {
		return s.fail(proto.WrapIO(err, "read pong"))
	}
	if code != proto.ServerCodePong {
		return s.fail(proto.ErrProtocol("unexpected packet %s, want Pong", code))
	}
	return nil
}

// Close releases the underlying connection. Safe to call more than once.
func (s *Session) Close() error {
	if s.getState() == stateClosed {
		return nil
	}
	s.setState(stateClosed)
	return s.conn.Close()
}

// ServerInfo returns the identity latched from the handshake's server
// Hello. Only meaningful once Dial has returned successfully.
func (s *Session) ServerInfo() ServerInfo { return s.server }

// String implements fmt.Stringer for diagnostics (cmd/chinspect, pool
// debug logging).
func (s *Session) String() string {
	return fmt.Sprintf("ch.Session{state=%s, server=%s, rev=%d}", s.getState(), s.server.Name, s.protocolVersion)
}
