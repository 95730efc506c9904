package proto

// Column is the minimal contract every wire-form column codec satisfies
// (spec §4.7): know your own rendered type, your row count, decode
// yourself from a Reader, encode yourself into a Buffer, and reset to
// empty for reuse across blocks.
type Column interface {
	Type() ColumnType
	Rows() int
	Reset()
	DecodeColumn(r *Reader, rows int) error
	EncodeColumn(b *Buffer)
}

// ColInput is satisfied by any column that can additionally stream
// itself through a Writer (staging through compression, if active)
// rather than only into an in-memory Buffer. Every concrete column type
// implements it, most of them via the writeColumnVia helper below.
type ColInput interface {
	Column
	WriteColumn(w *Writer) error
}

// ColumnOf is the row-addressable view over a materialised column,
// mirrored from the teacher's own generic access pattern (see
// column_test.go's requireEqual[T] helper: a.Rows(), a.Row(i)).
type ColumnOf[T any] interface {
	Column
	Row(i int) T
	Append(v T)
}

// writeColumnVia is the shared WriteColumn implementation: encode into a
// scratch Buffer, then copy into the Writer's staging area. Most
// columns' WriteColumn methods are a one-line call to this; ColStr,
// ColArray, ColNullable and ColTuple write through the Writer directly.
func writeColumnVia(w *Writer, encode func(*Buffer)) error {
	var buf Buffer
	encode(&buf)
	_, err := w.Write(buf.Buf)
	return err
}

// ColumnReader is a column materialised for reading: either a full
// ColumnOf[T] or a SkippingColumn that discards values without
// allocating row storage (spec §4.7 create_skipping_column_reader).
type ColumnReader interface {
	DecodeColumn(r *Reader, rows int) error
}

// SkippingColumn wraps a zero-allocation skip path: it knows how many
// bytes/elements a column of a given type occupies and simply consumes
// them from the Reader without producing row values. Used when the
// caller does not want a particular column materialised.
type SkippingColumn struct {
	typ ColumnType
	sk  func(r *Reader, rows int) error
}

func (s *SkippingColumn) Type() ColumnType                       { return s.typ }
func (s *SkippingColumn) Rows() int                               { return 0 }
func (s *SkippingColumn) Reset()                                  {}
func (s *SkippingColumn) EncodeColumn(b *Buffer)                  {}
func (s *SkippingColumn) DecodeColumn(r *Reader, rows int) error  { return s.sk(r, rows) }
