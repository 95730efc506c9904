package proto

import "strings"

// ColTuple is Tuple(T1, T2, ...) or the named form Tuple(name1 T1, ...):
// each element is a full sub-column written back-to-back, row-major
// within each sub-column (spec §4.7 Tuple, §3 round-trip invariant for
// named tuples).
type ColTuple struct {
	Names []string // empty when the tuple is unnamed
	Elems []Column
}

// NewColTuple builds a tuple column over elems, all of which must
// already be empty and share the same row count as they're appended to.
func NewColTuple(elems ...Column) *ColTuple {
	return &ColTuple{Elems: elems}
}

// NewColNamedTuple builds a named tuple column; names and elems must
// have equal length.
func NewColNamedTuple(names []string, elems ...Column) *ColTuple {
	return &ColTuple{Names: names, Elems: elems}
}

func (c *ColTuple) Type() ColumnType {
	var b strings.Builder
	b.WriteString(string(ColumnTypeTuple))
	b.WriteByte('(')
	for i, e := range c.Elems {
		if i > 0 {
			b.WriteString(", ")
		}
		if i < len(c.Names) && c.Names[i] != "" {
			b.WriteString(c.Names[i])
			b.WriteByte(' ')
		}
		b.WriteString(string(e.Type()))
	}
	b.WriteByte(')')
	return ColumnType(b.String())
}

func (c *ColTuple) Rows() int {
	if len(c.Elems) == 0 {
		return 0
	}
	return c.Elems[0].Rows()
}

func (c *ColTuple) Reset() {
	for _, e := range c.Elems {
		e.Reset()
	}
}

func (c *ColTuple) EncodeColumn(b *Buffer) {
	for _, e := range c.Elems {
		e.EncodeColumn(b)
	}
}

func (c *ColTuple) WriteColumn(w *Writer) error {
	for _, e := range c.Elems {
		if ei, ok := e.(ColInput); ok {
			if err := ei.WriteColumn(w); err != nil {
				return err
			}
			continue
		}
		if err := writeColumnVia(w, e.EncodeColumn); err != nil {
			return err
		}
	}
	return nil
}

func (c *ColTuple) DecodeColumn(r *Reader, rows int) error {
	for _, e := range c.Elems {
		if err := e.DecodeColumn(r, rows); err != nil {
			return err
		}
	}
	return nil
}
