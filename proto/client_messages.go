package proto

import "go.opentelemetry.io/otel/trace"

// ClientCode is the varint opcode prefixing every client->server message
// (spec §4.8).
type ClientCode int

const (
	ClientCodeHello ClientCode = iota
	ClientCodeQuery
	ClientCodeData
	ClientCodeCancel
	ClientCodePing
	ClientCodeTablesStatusRequest
	ClientCodeKeepAlive
)

// Encode writes the opcode varint. Exercised directly in cancelQuery as
// `proto.ClientCodeCancel.Encode(&b)`.
func (c ClientCode) Encode(b *Buffer) { b.PutUVarint(uint64(c)) }

func (c ClientCode) String() string {
	switch c {
	case ClientCodeHello:
		return "Hello"
	case ClientCodeQuery:
		return "Query"
	case ClientCodeData:
		return "Data"
	case ClientCodeCancel:
		return "Cancel"
	case ClientCodePing:
		return "Ping"
	case ClientCodeTablesStatusRequest:
		return "TablesStatusRequest"
	case ClientCodeKeepAlive:
		return "KeepAlive"
	default:
		return "Unknown"
	}
}

// Interface identifies how the client connected (spec §4.8 step 3).
type Interface int

const InterfaceTCP Interface = 1

// ClientQueryKind is the "varint kind" of step 3: only InitialQuery is
// implemented. For any other kind ClientInfo.encode writes the kind
// varint alone, with none of the fields that follow it, and reports no
// error.
type ClientQueryKind int

const (
	ClientQueryInitial ClientQueryKind = 1
	ClientQuerySecondary ClientQueryKind = 2
)

// QueryStage is how far the server should carry a query before replying
// (spec §4.8 step 6); this driver always requests Complete.
type QueryStage int

const StageComplete QueryStage = 2

// Compression is the one-byte compression-enabled flag of spec §4.8 step 7.
type Compression byte

const (
	CompressionDisabled Compression = 0
	CompressionEnabled  Compression = 1
)

// ClientInfo is the handshake-derived identity block embedded in every
// Query message once FeatureClientInfo is negotiated.
type ClientInfo struct {
	ProtocolVersion int
	Major, Minor, Patch int
	Interface       Interface
	Query           ClientQueryKind

	InitialUser    string
	InitialQueryID string
	InitialAddress string
	OSUser         string
	ClientHostname string
	ClientName     string

	Span     trace.SpanContext
	QuotaKey string
}

func (ci ClientInfo) encode(b *Buffer, revision int) {
	b.PutUVarint(uint64(ci.Query))
	if ci.Query != ClientQueryInitial {
		return
	}
	b.PutString(ci.InitialUser)
	b.PutString(ci.InitialQueryID)
	b.PutString(ci.InitialAddress)
	if FeatureInitialQueryStartTime.In(revision) {
		b.PutInt64(0)
	}
	b.PutUVarint(uint64(ci.Interface))
	b.PutString(ci.OSUser)
	b.PutString(ci.ClientHostname)
	b.PutString(ci.ClientName)
	b.PutUVarint(uint64(ci.Major))
	b.PutUVarint(uint64(ci.Minor))
	b.PutUVarint(uint64(ci.ProtocolVersion))
	b.PutString("")
	if FeatureDistributedDepth.In(revision) {
		b.PutUVarint(0)
	}
	b.PutUVarint(uint64(ci.Patch))
	if FeatureOpenTelemetry.In(revision) {
		if ci.Span.IsValid() {
			b.PutByte(1)
			raw := ci.Span.TraceID()
			b.PutRaw(raw[:])
			spanID := ci.Span.SpanID()
			b.PutRaw(spanID[:])
			b.PutString("")
			b.PutByte(byte(ci.Span.TraceFlags()))
		} else {
			b.PutByte(0)
		}
	}
	if FeatureParallelReplicas.In(revision) {
		b.PutUVarint(0)
		b.PutUVarint(0)
		b.PutString("")
	}
}

// Query is the client Query message (spec §4.8's heavily revision-gated
// body). ID is currently always sent empty: the server allocates one and
// echoes it back in subsequent messages.
type Query struct {
	ID          string
	Body        string
	Secret      string
	Stage       QueryStage
	Compression Compression
	Settings    []Setting
	Parameters  []Parameter
	Info        ClientInfo
}

// Encode renders the Query message per spec §4.8 steps 1-8.
func (q Query) Encode(b *Buffer, revision int) {
	ClientCodeQuery.Encode(b)
	b.PutString(q.ID)
	q.Info.encode(b, revision)
	EncodeSettings(b, q.Settings)
	if FeatureInterserverSecret.In(revision) {
		b.PutString(q.Secret)
	}
	b.PutUVarint(uint64(q.Stage))
	b.PutByte(byte(q.Compression))
	b.PutString(q.Body)
	if FeatureParameters.In(revision) {
		EncodeParameters(b, q.Parameters)
	}
}

// ClientData is the small per-block envelope sent before a Data message's
// block bytes: the external-data table name this block belongs to (empty
// for ordinary query input/output).
type ClientData struct {
	TableName string
}

// EncodeAware writes the envelope, including the temp-table name once
// the negotiated revision carries it (spec §4.8, gated the same way the
// reader checks it in decodeBlock).
func (d ClientData) EncodeAware(b *Buffer, revision int) {
	if FeatureTempTables.In(revision) {
		b.PutString(d.TableName)
	}
}

// Hello is the client handshake message: client name/version plus the
// database/user/password to authenticate with.
type Hello struct {
	Name            string
	Major, Minor    int
	ProtocolVersion int
	Database        string
	User            string
	Password        string
}

func (h Hello) Encode(b *Buffer) {
	ClientCodeHello.Encode(b)
	b.PutString(h.Name)
	b.PutUVarint(uint64(h.Major))
	b.PutUVarint(uint64(h.Minor))
	b.PutUVarint(uint64(h.ProtocolVersion))
	b.PutString(h.Database)
	b.PutString(h.User)
	b.PutString(h.Password)
}

// Ping asks the server for a Pong; used for liveness checks (chpool
// health checks, spec §6).
type Ping struct{}

func (Ping) Encode(b *Buffer) { ClientCodePing.Encode(b) }

// Cancel requests the server abandon the in-flight query.
type Cancel struct{}

func (Cancel) Encode(b *Buffer) { ClientCodeCancel.Encode(b) }

// TablesStatusRequest asks for the replication/freshness state of a set
// of tables; optional per spec §4.8, used by connection-pool health
// probes that want more than a bare Ping.
type TablesStatusRequest struct {
	Tables []struct{ Database, Table string }
}

func (r TablesStatusRequest) Encode(b *Buffer) {
	ClientCodeTablesStatusRequest.Encode(b)
	b.PutUVarint(uint64(len(r.Tables)))
	for _, t := range r.Tables {
		b.PutString(t.Database)
		b.PutString(t.Table)
	}
}
