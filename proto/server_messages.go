package proto

import "github.com/go-faster/errors"

// ServerCode is the varint opcode prefixing every server->client message
// (spec §4.8, dual of the client catalogue).
type ServerCode int

const (
	ServerCodeHello ServerCode = iota
	ServerCodeData
	ServerCodeException
	ServerCodeProgress
	ServerCodePong
	ServerCodeEndOfStream
	ServerCodeProfile
	ServerCodeTotals
	ServerCodeExtremes
	ServerCodeTablesStatusResponse
	ServerCodeLog
	ServerCodeTableColumns
	ServerProfileEvents
	ServerCodePartUUIDs
	ServerCodeReadTaskRequest
	ServerCodeTimezoneUpdate
	ServerCodeMergeTreeAllRangesAnnouncement
	ServerCodeMergeTreeReadTaskRequest
)

func (c ServerCode) String() string {
	switch c {
	case ServerCodeHello:
		return "Hello"
	case ServerCodeData:
		return "Data"
	case ServerCodeException:
		return "Exception"
	case ServerCodeProgress:
		return "Progress"
	case ServerCodePong:
		return "Pong"
	case ServerCodeEndOfStream:
		return "EndOfStream"
	case ServerCodeProfile:
		return "Profile"
	case ServerCodeTotals:
		return "Totals"
	case ServerCodeExtremes:
		return "Extremes"
	case ServerCodeTablesStatusResponse:
		return "TablesStatusResponse"
	case ServerCodeLog:
		return "Log"
	case ServerCodeTableColumns:
		return "TableColumns"
	case ServerProfileEvents:
		return "ProfileEvents"
	case ServerCodePartUUIDs:
		return "PartUUIDs"
	case ServerCodeReadTaskRequest:
		return "ReadTaskRequest"
	case ServerCodeTimezoneUpdate:
		return "TimezoneUpdate"
	case ServerCodeMergeTreeAllRangesAnnouncement:
		return "MergeTreeAllRangesAnnouncement"
	case ServerCodeMergeTreeReadTaskRequest:
		return "MergeTreeReadTaskRequest"
	default:
		return "Unknown"
	}
}

// Compressible reports whether this message's body may be wrapped in an
// LZ4 compression frame; only bulk data-bearing messages are (spec §4.8,
// mirrored from query.go's `code.Compressible()` call sites).
func (c ServerCode) Compressible() bool {
	switch c {
	case ServerCodeData, ServerCodeTotals, ServerCodeExtremes, ServerProfileEvents, ServerCodeLog:
		return true
	default:
		return false
	}
}

// rejected reports the opcodes spec.md §9 singles out as unsupported:
// the session treats them as a fatal protocol violation rather than
// silently ignoring them, except Log, which is not rejected: the session
// decodes it as a data block and passes its rows to Query.OnLogs.
func (c ServerCode) rejected() bool {
	switch c {
	case ServerCodePartUUIDs, ServerCodeReadTaskRequest,
		ServerCodeMergeTreeAllRangesAnnouncement, ServerCodeMergeTreeReadTaskRequest:
		return true
	default:
		return false
	}
}

// ReadServerCode reads the next varint opcode and rejects it immediately
// if it is one of the permanently-unsupported codes.
func ReadServerCode(r *Reader) (ServerCode, error) {
	v, err := r.ReadUVarint()
	if err != nil {
		return 0, err
	}
	code := ServerCode(v)
	if code.rejected() {
		return code, ErrProtocol("unsupported server packet %s", code)
	}
	return code, nil
}

// ServerHello is the server's handshake reply: name/version, negotiated
// revision, and (once FeatureServerTimezone) its timezone name.
type ServerHello struct {
	Name                  string
	Major, Minor, Revision int
	Timezone              string
	DisplayName           string
	VersionPatch          int
}

func (h *ServerHello) Decode(r *Reader) error {
	var err error
	if h.Name, err = r.ReadStr(); err != nil {
		return errors.Wrap(err, "name")
	}
	major, err := r.ReadUVarint()
	if err != nil {
		return errors.Wrap(err, "major")
	}
	minor, err := r.ReadUVarint()
	if err != nil {
		return errors.Wrap(err, "minor")
	}
	rev, err := r.ReadUVarint()
	if err != nil {
		return errors.Wrap(err, "revision")
	}
	h.Major, h.Minor, h.Revision = int(major), int(minor), int(rev)
	if FeatureServerTimezone.In(h.Revision) {
		if h.Timezone, err = r.ReadStr(); err != nil {
			return errors.Wrap(err, "timezone")
		}
	}
	if FeatureDisplayName.In(h.Revision) {
		if h.DisplayName, err = r.ReadStr(); err != nil {
			return errors.Wrap(err, "display_name")
		}
	}
	if FeatureVersionPatch.In(h.Revision) {
		patch, err := r.ReadUVarint()
		if err != nil {
			return errors.Wrap(err, "version_patch")
		}
		h.VersionPatch = int(patch)
	}
	return nil
}

// Progress is the incremental read/write progress counters the server
// streams while a query runs.
type Progress struct {
	Rows       uint64
	Bytes      uint64
	TotalRows  uint64
	WroteRows  uint64
	WroteBytes uint64
}

func (p *Progress) Decode(r *Reader, revision int) error {
	var err error
	if p.Rows, err = r.ReadUVarint(); err != nil {
		return errors.Wrap(err, "rows")
	}
	if p.Bytes, err = r.ReadUVarint(); err != nil {
		return errors.Wrap(err, "bytes")
	}
	if p.TotalRows, err = r.ReadUVarint(); err != nil {
		return errors.Wrap(err, "total_rows")
	}
	if FeatureClientWriteInfo.In(revision) {
		if p.WroteRows, err = r.ReadUVarint(); err != nil {
			return errors.Wrap(err, "wrote_rows")
		}
		if p.WroteBytes, err = r.ReadUVarint(); err != nil {
			return errors.Wrap(err, "wrote_bytes")
		}
	}
	return nil
}

// Profile is the per-query summary statistics sent once after the data
// stream, independent of the streamed Progress.
type Profile struct {
	Rows                      uint64
	Blocks                    uint64
	Bytes                     uint64
	AppliedLimit              bool
	RowsBeforeLimit           uint64
	CalculatedRowsBeforeLimit bool
}

func (p *Profile) Decode(r *Reader) error {
	var err error
	if p.Rows, err = r.ReadUVarint(); err != nil {
		return errors.Wrap(err, "rows")
	}
	if p.Blocks, err = r.ReadUVarint(); err != nil {
		return errors.Wrap(err, "blocks")
	}
	if p.Bytes, err = r.ReadUVarint(); err != nil {
		return errors.Wrap(err, "bytes")
	}
	if p.AppliedLimit, err = r.ReadBool(); err != nil {
		return errors.Wrap(err, "applied_limit")
	}
	if p.RowsBeforeLimit, err = r.ReadUVarint(); err != nil {
		return errors.Wrap(err, "rows_before_limit")
	}
	if p.CalculatedRowsBeforeLimit, err = r.ReadBool(); err != nil {
		return errors.Wrap(err, "calculated_rows_before_limit")
	}
	return nil
}

// DecodeException reads the (possibly chained, via has_nested) server
// Exception message into a ServerError.
func DecodeException(r *Reader) (*ServerError, error) {
	e := &ServerError{}
	code, err := r.ReadUInt32()
	if err != nil {
		return nil, errors.Wrap(err, "code")
	}
	e.Code = int32(code)
	if e.Name, err = r.ReadStr(); err != nil {
		return nil, errors.Wrap(err, "name")
	}
	if e.Message, err = r.ReadStr(); err != nil {
		return nil, errors.Wrap(err, "message")
	}
	if e.StackTrace, err = r.ReadStr(); err != nil {
		return nil, errors.Wrap(err, "stack_trace")
	}
	hasNested, err := r.ReadBool()
	if err != nil {
		return nil, errors.Wrap(err, "has_nested")
	}
	if hasNested {
		nested, err := DecodeException(r)
		if err != nil {
			return nil, errors.Wrap(err, "nested")
		}
		e.Nested = nested
	}
	return e, nil
}

// ProfileEventType classifies a single row of the ProfileEvents system
// block: an incremental counter bump, a gauge snapshot, or driver-level
// metadata about the reporting host.
type ProfileEventType int8

const (
	ProfileEventIncrement ProfileEventType = 1
	ProfileEventGauge     ProfileEventType = 2
)

// ProfileEvent is one row of the ProfileEvents system block ClickHouse
// streams alongside query results when incremental profile events are
// negotiated.
type ProfileEvent struct {
	Host     string
	Time     int64
	Name     string
	Value    int64
	Type     ProfileEventType
}

// ProfileEvents decodes the ProfileEvents system block's fixed column
// layout into []ProfileEvent.
type ProfileEvents struct {
	Host  *ColStr
	Time  *ColNum[int64]
	Name  *ColStr
	Value *ColNum[int64]
	Type  *ColNum[int8]
}

// Result exposes the block's columns by their well-known system-table
// names so DecodeBlock can route each sub-column.
func (p *ProfileEvents) Result() Result {
	p.Host, p.Time, p.Name, p.Value, p.Type =
		NewColStr(), NewColNum[int64](ColumnTypeDateTime), NewColStr(), NewColNum[int64](ColumnTypeInt64), NewColNum[int8](ColumnTypeInt8)
	return Result{
		{Name: "host_name", Data: p.Host},
		{Name: "current_time", Data: p.Time},
		{Name: "name", Data: p.Name},
		{Name: "value", Data: p.Value},
		{Name: "type", Data: p.Type},
	}
}

// All materialises every decoded row as a ProfileEvent.
func (p *ProfileEvents) All() ([]ProfileEvent, error) {
	if p.Host == nil {
		return nil, nil
	}
	out := make([]ProfileEvent, 0, p.Host.Rows())
	for i := 0; i < p.Host.Rows(); i++ {
		out = append(out, ProfileEvent{
			Host:  p.Host.Row(i),
			Time:  p.Time.Row(i),
			Name:  p.Name.Row(i),
			Value: p.Value.Row(i),
			Type:  ProfileEventType(p.Type.Row(i)),
		})
	}
	return out, nil
}

// Log is one row of the server's textual log stream.
type Log struct {
	Time        int64
	ThreadID    uint64
	Priority    int8
	Source      string
	Text        string
}

// Logs decodes the Log system block.
type Logs struct {
	Time     *ColNum[int64]
	ThreadID *ColNum[uint64]
	Priority *ColNum[int8]
	Source   *ColStr
	Text     *ColStr
}

func (l *Logs) Result() Result {
	l.Time = NewColNum[int64](ColumnTypeDateTime)
	l.ThreadID = NewColNum[uint64](ColumnTypeUInt64)
	l.Priority = NewColNum[int8](ColumnTypeInt8)
	l.Source = NewColStr()
	l.Text = NewColStr()
	return Result{
		{Name: "event_time", Data: l.Time},
		{Name: "thread_id", Data: l.ThreadID},
		{Name: "priority", Data: l.Priority},
		{Name: "source", Data: l.Source},
		{Name: "text", Data: l.Text},
	}
}

func (l *Logs) All() []Log {
	if l.Time == nil {
		return nil
	}
	out := make([]Log, 0, l.Time.Rows())
	for i := 0; i < l.Time.Rows(); i++ {
		out = append(out, Log{
			Time:     l.Time.Row(i),
			ThreadID: l.ThreadID.Row(i),
			Priority: l.Priority.Row(i),
			Source:   l.Source.Row(i),
			Text:     l.Text.Row(i),
		})
	}
	return out
}

// TableColumns is the (currently ignored) table-column metadata the
// server sends with the TableColumns opcode.
type TableColumns struct {
	Table       string
	Description string
}

func (t *TableColumns) Decode(r *Reader) error {
	var err error
	if t.Table, err = r.ReadStr(); err != nil {
		return errors.Wrap(err, "table")
	}
	if t.Description, err = r.ReadStr(); err != nil {
		return errors.Wrap(err, "description")
	}
	return nil
}
