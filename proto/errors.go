package proto

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrorKind is the closed set of error kinds a caller can distinguish
// without parsing a message string.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindProtocolUnexpectedResponse
	KindMalformedTypeName
	KindTypeNotSupported
	KindTypeNotFullySpecified
	KindOverflow
	KindInternal
	KindCompression
	KindServer
	KindIO
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindProtocolUnexpectedResponse:
		return "ProtocolUnexpectedResponse"
	case KindMalformedTypeName:
		return "MalformedTypeName"
	case KindTypeNotSupported:
		return "TypeNotSupported"
	case KindTypeNotFullySpecified:
		return "TypeNotFullySpecified"
	case KindOverflow:
		return "Overflow"
	case KindInternal:
		return "InternalError"
	case KindCompression:
		return "Compression"
	case KindServer:
		return "ServerError"
	case KindIO:
		return "Io"
	case KindTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// Error is a typed driver error. Fatal errors break the session (move it
// to Broken); non-fatal errors are surfaced to the caller while the
// session stays usable.
type Error struct {
	Kind    ErrorKind
	Message string
	Fatal   bool
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newErr(kind ErrorKind, fatal bool, msg string, args ...interface{}) *Error {
	return &Error{Kind: kind, Fatal: fatal, Message: fmt.Sprintf(msg, args...)}
}

// ErrMalformedTypeName reports a type grammar parse failure. Non-fatal.
func ErrMalformedTypeName(msg string, args ...interface{}) error {
	return newErr(KindMalformedTypeName, false, msg, args...)
}

// ErrTypeNotSupported reports a wire type with no registry mapping. Non-fatal.
func ErrTypeNotSupported(name string) error {
	return newErr(KindTypeNotSupported, false, "type %q is not supported", name)
}

// ErrTypeNotFullySpecified reports a parametric type missing required arguments.
func ErrTypeNotFullySpecified(msg string, args ...interface{}) error {
	return newErr(KindTypeNotFullySpecified, false, msg, args...)
}

// ErrOverflow reports a value outside a column's representable range.
func ErrOverflow(msg string, args ...interface{}) error {
	return newErr(KindOverflow, false, msg, args...)
}

// ErrInternal reports a broken driver invariant. Fatal.
func ErrInternal(msg string, args ...interface{}) error {
	return newErr(KindInternal, true, msg, args...)
}

// ErrCompression reports a checksum mismatch or LZ4 decode failure. Fatal.
func ErrCompression(cause error, msg string, args ...interface{}) error {
	e := newErr(KindCompression, true, msg, args...)
	e.Cause = cause
	return e
}

// ErrProtocol reports an opcode or field inconsistent with the negotiated
// revision. Fatal.
func ErrProtocol(msg string, args ...interface{}) error {
	return newErr(KindProtocolUnexpectedResponse, true, msg, args...)
}

// ServerError is a server-originated Exception message.
type ServerError struct {
	Code       int32
	Name       string
	Message    string
	StackTrace string
	Nested     *ServerError
}

func (e *ServerError) Error() string {
	if e.Nested != nil {
		return fmt.Sprintf("clickhouse: code %d: %s: %s (caused by: %s)", e.Code, e.Name, e.Message, e.Nested)
	}
	return fmt.Sprintf("clickhouse: code %d: %s: %s", e.Code, e.Name, e.Message)
}

// Kind implements the typed-error protocol: server errors do not break
// the session.
func (e *ServerError) Kind() ErrorKind { return KindServer }

// ErrTimeout reports an I/O deadline expiry, embedding the configured
// deadline in the message per spec.
func ErrTimeout(deadlineMS int64) error {
	return newErr(KindTimeout, false, "i/o timeout after %dms", deadlineMS)
}

// WrapIO wraps a transport failure as a Kind=Io error.
func WrapIO(cause error, msg string, args ...interface{}) error {
	e := newErr(KindIO, false, msg, args...)
	e.Cause = cause
	return errors.Wrap(e, "io")
}

// IsFatal reports whether err should move the owning session to Broken.
func IsFatal(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Fatal
	}
	var se *ServerError
	if errors.As(err, &se) {
		return false
	}
	// Unknown errors that are not one of our typed kinds are treated as
	// fatal transport failures, matching §7's default policy.
	return true
}
