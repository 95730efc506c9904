package compress

import "fmt"

// Error reports a checksum mismatch or malformed LZ4 block. It is always
// fatal to the owning session (spec §7 Compression/Checksum).
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

// ErrLZ4 constructs a compress.Error.
func ErrLZ4(format string, args ...interface{}) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}
