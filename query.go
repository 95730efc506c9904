package ch

import (
	"context"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MrDoe/ClickHouseClient/otelch"
	"github.com/MrDoe/ClickHouseClient/proto"
)

// Query describes one request-response cycle against ClickHouse: an
// optional input stream (INSERT), an optional result sink (SELECT), and
// the handlers invoked as server messages arrive.
type Query struct {
	// Body is the SQL text, e.g. "SELECT 1".
	Body string
	// QueryID identifies the query; defaults to a new UUIDv4.
	QueryID string
	// QuotaKey is an optional per-query quota key.
	QuotaKey string

	// Input columns for INSERT operations.
	Input proto.Input
	// OnInput is called to obtain more input blocks. Returning io.EOF
	// means no more data; if unset, a single block is sent from Input.
	OnInput func(ctx context.Context) error

	// Result columns for SELECT operations.
	Result proto.Result
	// OnResult is called once per received data block. Optional, but
	// receiving more than one block with no OnResult set is an error.
	OnResult func(ctx context.Context, block proto.Block) error

	// OnProgress, OnProfile are optional telemetry handlers.
	OnProgress func(ctx context.Context, p proto.Progress) error
	OnProfile  func(ctx context.Context, p proto.Profile) error
	// OnProfileEvents is called with each decoded ProfileEvents batch.
	OnProfileEvents func(ctx context.Context, e []proto.ProfileEvent) error
	// OnLogs is called with each decoded server Log batch.
	OnLogs func(ctx context.Context, l []proto.Log) error

	// Settings override the session's settings for this query only.
	Settings []Setting
	// Parameters substitutes named query parameters server-side.
	Parameters []proto.Parameter
	// Secret is the inter-server cluster secret for Distributed queries.
	Secret string
	// InitialUser is the initial user for Distributed queries.
	InitialUser string

	// Logger, if set, replaces the session logger for this query.
	Logger *zap.Logger
}

type queryMetrics struct {
	BlocksSent      int
	BlocksReceived  int
	RowsReceived    int
	ColumnsReceived int
	Rows            int
	Bytes           int
}

type ctxQueryKey struct{}

func (s *Session) metricsInc(ctx context.Context, m queryMetrics) {
	v, ok := ctx.Value(ctxQueryKey{}).(*queryMetrics)
	if !ok {
		return
	}
	v.BlocksSent += m.BlocksSent
	v.BlocksReceived += m.BlocksReceived
	v.RowsReceived += m.RowsReceived
	v.ColumnsReceived += m.ColumnsReceived
	v.Rows += m.Rows
	v.Bytes += m.Bytes
}

func (s *Session) querySettings(q Query) []proto.Setting {
	var result []proto.Setting
	for _, st := range s.settings {
		result = append(result, proto.Setting{Key: st.Key, Value: st.Value, Important: st.Important})
	}
	for _, st := range q.Settings {
		result = append(result, proto.Setting{Key: st.Key, Value: st.Value, Important: st.Important})
	}
	return result
}

// sendQuery writes the Query message and the trailing external-data
// blocks (spec §4.8). The caller owns flushing.
func (s *Session) sendQuery(ctx context.Context, q Query) error {
	if ce := s.lg.Check(zap.DebugLevel, "sendQuery"); ce != nil {
		ce.Write(zap.String("query", q.Body), zap.String("query_id", q.QueryID))
	}
	if s.IsClosed() {
		return ErrClosed
	}
	var buf proto.Buffer
	proto.Query{
		ID:          "",
		Body:        q.Body,
		Secret:      q.Secret,
		Stage:       proto.StageComplete,
		Compression: s.compression,
		Settings:    s.querySettings(q),
		Parameters:  q.Parameters,
		Info: proto.ClientInfo{
			ProtocolVersion: s.protocolVersion,
			Major:           1,
			Minor:           0,
			Interface:       proto.InterfaceTCP,
			Query:           proto.ClientQueryInitial,
			InitialUser:     q.InitialUser,
			InitialQueryID:  q.QueryID,
			InitialAddress:  s.conn.LocalAddr().String(),
			ClientName:      "ch-clickhouse-go",
			Span:            trace.SpanContextFromContext(ctx),
			QuotaKey:        q.QuotaKey,
		},
	}.Encode(&buf, s.protocolVersion)
	if _, err := s.writer.Write(buf.Buf); err != nil {
		return s.fail(proto.WrapIO(err, "write query"))
	}

	return s.encodeBlankBlock(ctx)
}

// encodeBlock writes one Data message: the client-data envelope followed
// by the block header and column bytes, compressed as a whole if the
// session negotiated compression (spec §4.4 begin_compress/end_compress).
func (s *Session) encodeBlock(ctx context.Context, tableName string, input proto.Input) error {
	var env proto.Buffer
	proto.ClientCodeData.Encode(&env)
	proto.ClientData{TableName: tableName}.EncodeAware(&env, s.protocolVersion)
	if _, err := s.writer.Write(env.Buf); err != nil {
		return s.fail(proto.WrapIO(err, "write data envelope"))
	}

	if len(input) > 0 {
		s.metricsInc(ctx, queryMetrics{BlocksSent: 1})
	}
	var b proto.Block
	b.Info.BucketNum = -1

	if s.compression == proto.CompressionDisabled {
		if err := b.WriteBlock(s.writer, s.protocolVersion, input); err != nil {
			return s.fail(errors.Wrap(err, "write block"))
		}
		return nil
	}
	if err := s.writer.BeginCompress(0); err != nil {
		return s.fail(err)
	}
	if err := b.WriteBlock(s.writer, s.protocolVersion, input); err != nil {
		return s.fail(errors.Wrap(err, "write compressed block"))
	}
	if err := s.writer.EndCompress(); err != nil {
		return s.fail(err)
	}
	return nil
}

// encodeBlankBlock writes the zero-column, zero-row block that signals
// "no more data" (spec §4.8).
func (s *Session) encodeBlankBlock(ctx context.Context) error {
	return s.encodeBlock(ctx, "", nil)
}

type decodeOptions struct {
	Handler      func(ctx context.Context, b proto.Block) error
	Result       proto.Result
	Compressible bool
}

func (s *Session) decodeBlock(ctx context.Context, opt decodeOptions) error {
	if proto.FeatureTempTables.In(s.protocolVersion) {
		v, err := s.reader.ReadStr()
		if err != nil {
			return errors.Wrap(err, "temp table")
		}
		if v != "" {
			return errors.Errorf("unexpected temp table %q", v)
		}
	}
	var block proto.Block
	if s.compression == proto.CompressionEnabled && opt.Compressible {
		s.reader.BeginDecompress()
		defer s.reader.EndDecompress()
	}
	if err := block.DecodeBlock(s.reader, s.protocolVersion, opt.Result); err != nil {
		return s.fail(errors.Wrap(err, "decode block"))
	}
	if ce := s.lg.Check(zap.DebugLevel, "Block"); ce != nil {
		ce.Write(zap.Int("rows", block.Rows), zap.Int("columns", block.Columns))
	}
	if block.End() {
		return nil
	}
	s.metricsInc(ctx, queryMetrics{BlocksReceived: 1, RowsReceived: block.Rows, ColumnsReceived: block.Columns})
	return opt.Handler(ctx, block)
}

func (s *Session) sendInput(ctx context.Context, q Query) error {
	if len(q.Input) == 0 {
		return nil
	}
	rows := q.Input[0].Data.Rows()
	f := q.OnInput
	if f != nil && rows == 0 {
		if err := f(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				return s.encodeBlankBlock(ctx)
			}
			return errors.Wrap(err, "input")
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "context")
		}
		if err := s.encodeBlock(ctx, "", q.Input); err != nil {
			return errors.Wrap(err, "write block")
		}
		if f == nil {
			break
		}
		if _, err := s.flush(ctx); err != nil {
			return errors.Wrap(err, "flush")
		}
		if err := f(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				if tailRows := q.Input[0].Data.Rows(); tailRows > 0 {
					f = nil
					continue
				}
				break
			}
			return errors.Wrap(err, "next input")
		}
	}
	return s.encodeBlankBlock(ctx)
}

func (s *Session) resultHandler(q Query) func(ctx context.Context, b proto.Block) error {
	if q.OnResult != nil {
		return q.OnResult
	}
	first := true
	return func(ctx context.Context, block proto.Block) error {
		if !first {
			return errors.New("no OnResult provided")
		}
		if block.Rows > 0 {
			first = false
		}
		return nil
	}
}

func (s *Session) handlePacket(ctx context.Context, p proto.ServerCode, q Query) error {
	switch p {
	case proto.ServerCodeException:
		exc, err := proto.DecodeException(s.reader)
		if err != nil {
			return errors.Wrap(err, "decode exception")
		}
		return exc
	case proto.ServerCodeProgress:
		var pr proto.Progress
		if err := pr.Decode(s.reader, s.protocolVersion); err != nil {
			return errors.Wrap(err, "progress")
		}
		s.metricsInc(ctx, queryMetrics{Rows: int(pr.Rows), Bytes: int(pr.Bytes)})
		if f := q.OnProgress; f != nil {
			return errors.Wrap(f(ctx, pr), "progress")
		}
		return nil
	case proto.ServerCodeProfile:
		var pf proto.Profile
		if err := pf.Decode(s.reader); err != nil {
			return errors.Wrap(err, "profile")
		}
		if f := q.OnProfile; f != nil {
			return errors.Wrap(f(ctx, pf), "profile")
		}
		return nil
	case proto.ServerCodeTableColumns:
		var info proto.TableColumns
		return errors.Wrap(info.Decode(s.reader), "table columns")
	case proto.ServerProfileEvents:
		var data proto.ProfileEvents
		onResult := func(ctx context.Context, b proto.Block) error {
			if q.OnProfileEvents == nil {
				return nil
			}
			events, err := data.All()
			if err != nil {
				return errors.Wrap(err, "events")
			}
			return errors.Wrap(q.OnProfileEvents(ctx, events), "profile events")
		}
		return errors.Wrap(s.decodeBlock(ctx, decodeOptions{
			Handler: onResult, Compressible: p.Compressible(), Result: data.Result(),
		}), "decode block")
	case proto.ServerCodeLog:
		var data proto.Logs
		onResult := func(ctx context.Context, b proto.Block) error {
			if q.OnLogs == nil {
				return nil
			}
			return errors.Wrap(q.OnLogs(ctx, data.All()), "logs")
		}
		return errors.Wrap(s.decodeBlock(ctx, decodeOptions{
			Handler: onResult, Compressible: p.Compressible(), Result: data.Result(),
		}), "decode block")
	default:
		return errors.Errorf("unexpected packet %q", p)
	}
}

// cancelQuery writes a Cancel message and closes the session; the
// teacher's original drains remaining server messages after cancel, but
// this driver favors the simpler, always-safe close since a cancelled
// session is not reused. Query sends the Cancel only after its reader
// loop has stopped on the cancelled context, and returns without reading
// the server messages that follow it.
func (s *Session) cancelQuery() error {
	s.lg.Warn("cancel query")
	var buf proto.Buffer
	proto.Cancel{}.Encode(&buf)

	var retErr error
	if _, err := s.writer.Write(buf.Buf); err != nil {
		retErr = errors.Join(retErr, errors.Wrap(err, "write cancel"))
	} else if _, err := s.flush(context.Background()); err != nil {
		retErr = errors.Join(retErr, errors.Wrap(err, "flush"))
	}
	if err := s.Close(); err != nil {
		retErr = errors.Join(retErr, errors.Wrap(err, "close"))
	}
	return retErr
}

// Query runs q to completion: sends the query and any input, streams
// results to q.OnResult/OnProgress/OnProfile/OnLogs, and returns once
// the server sends EndOfStream (spec §4.9 Ready->SendingQuery->
// SendingData->ReceivingResult->Ready).
func (s *Session) Query(ctx context.Context, q Query) (err error) {
	if s.IsClosed() {
		return ErrClosed
	}
	if len(q.Parameters) > 0 && !proto.FeatureParameters.In(s.protocolVersion) {
		return errors.Errorf("query parameters unsupported by server revision %d", s.protocolVersion)
	}
	if q.QueryID == "" {
		q.QueryID = uuid.New().String()
	}

	lg := s.lg
	defer func(v *zap.Logger) { s.lg = v }(lg)
	if q.Logger != nil {
		s.lg = q.Logger
	} else {
		s.lg = lg.With(zap.String("query_id", q.QueryID))
	}

	qm := new(queryMetrics)
	ctx = context.WithValue(ctx, ctxQueryKey{}, qm)
	if s.metrics != nil {
		defer func() { s.metrics.Observe(*qm, err) }()
	}

	if s.otel {
		var span trace.Span
		ctx, span = s.tracer.Start(ctx, "Query",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemKey.String("clickhouse"),
				semconv.DBStatementKey.String(q.Body),
				semconv.DBUserKey.String(s.user),
				semconv.DBNameKey.String(s.database),
				otelch.ProtocolVersion(s.protocolVersion),
				otelch.QuotaKey(q.QuotaKey),
				otelch.QueryID(q.QueryID),
			),
		)
		ctx = context.WithValue(ctx, ctxQueryKey{}, qm)
		defer func() {
			span.SetAttributes(
				otelch.BlocksSent(qm.BlocksSent), otelch.BlocksReceived(qm.BlocksReceived),
				otelch.RowsReceived(qm.RowsReceived), otelch.ColumnsReceived(qm.ColumnsReceived),
				otelch.Rows(qm.Rows), otelch.Bytes(qm.Bytes),
			)
			if err != nil {
				span.RecordError(err)
				status := "Failed"
				var exc *Exception
				if errors.As(err, &exc) {
					status = exc.Name
					span.SetAttributes(otelch.ErrorCode(int(exc.Code)), otelch.ErrorName(exc.Name))
				}
				span.SetStatus(codes.Error, status)
			} else {
				span.SetStatus(codes.Ok, "")
			}
			span.End()
		}()
	}

	s.setState(stateSendingQuery)
	g, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})
	var gotException atomic.Bool

	g.Go(func() error {
		if err := s.sendQuery(ctx, q); err != nil {
			return errors.Wrap(err, "send query")
		}
		if _, err := s.flush(ctx); err != nil {
			return errors.Wrap(err, "flush")
		}
		s.setState(stateSendingData)
		if err := s.sendInput(ctx, q); err != nil {
			return errors.Wrap(err, "send input")
		}
		if _, err := s.flush(ctx); err != nil {
			return errors.Wrap(err, "flush")
		}
		return nil
	})
	g.Go(func() error {
		defer close(done)
		s.setState(stateReceivingResult)
		onResult := s.resultHandler(q)
		for {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			code, err := proto.ReadServerCode(s.reader)
			if err != nil {
				var opErr *net.OpError
				if errors.As(err, &opErr) && opErr.Timeout() {
					continue
				}
				return errors.Wrap(err, "packet")
			}
			switch code {
			case proto.ServerCodeData, proto.ServerCodeTotals, proto.ServerCodeExtremes:
				if err := s.decodeBlock(ctx, decodeOptions{
					Handler: onResult, Result: q.Result, Compressible: code.Compressible(),
				}); err != nil {
					return errors.Wrap(err, "decode block")
				}
			case proto.ServerCodeEndOfStream:
				return nil
			default:
				if err := s.handlePacket(ctx, code, q); err != nil {
					if IsException(err) {
						gotException.Store(true)
					}
					return errors.Wrap(err, "handle packet")
				}
			}
		}
	})
	g.Go(func() error {
		<-done
		if ctx.Err() != nil && !gotException.Load() {
			return errors.Wrap(multierr.Append(ctx.Err(), s.cancelQuery()), "canceled")
		}
		return nil
	})
	err = g.Wait()
	if err == nil {
		s.setState(stateReady)
	}
	return err
}
