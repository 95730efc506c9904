package proto

import "github.com/go-faster/errors"

// BlockInfo carries the small fixed header ClickHouse attaches to every
// data block: whether it is "overflows" (GROUP BY overflow marker) and
// which bucket number a two-level aggregation block belongs to (-1 when
// not applicable).
type BlockInfo struct {
	Overflows bool
	BucketNum int32
}

func (b BlockInfo) Encode(buf *Buffer) {
	// field 1: is_overflows
	buf.PutUVarint(1)
	buf.PutBool(b.Overflows)
	// field 2: bucket_num
	buf.PutUVarint(2)
	buf.PutInt32(b.BucketNum)
	// terminator
	buf.PutUVarint(0)
}

func (b *BlockInfo) Decode(r *Reader) error {
	b.BucketNum = -1
	for {
		field, err := r.ReadUVarint()
		if err != nil {
			return errors.Wrap(err, "field")
		}
		switch field {
		case 0:
			return nil
		case 1:
			v, err := r.ReadBool()
			if err != nil {
				return errors.Wrap(err, "overflows")
			}
			b.Overflows = v
		case 2:
			v, err := r.ReadInt32()
			if err != nil {
				return errors.Wrap(err, "bucket_num")
			}
			b.BucketNum = v
		default:
			return errors.Errorf("unknown block info field %d", field)
		}
	}
}

// InputColumn pairs a name with the materialised column data to send for
// an INSERT, or the column to use for a parameter literal.
type InputColumn struct {
	Name string
	Data ColInput
}

// Input is the full row of columns an INSERT sends, in order.
type Input []InputColumn

// Rows reports the row count of the first column, or zero if Input is
// empty. All columns in an Input must share the same row count.
func (i Input) Rows() int {
	if len(i) == 0 {
		return 0
	}
	return i[0].Data.Rows()
}

// Inferable is implemented by input columns whose wire representation
// depends on type information only the server can supply (e.g. an Enum
// column that does not yet know its member map). Infer is called once
// per query with the server's authoritative ColumnType before encoding.
type Inferable interface {
	Infer(t ColumnType) error
}

// ResultColumn is one column a Result wants materialised from a server
// Data block.
type ResultColumn struct {
	Name string
	Data ColumnReader
}

// Result is the destination for a SELECT's returned columns, addressed
// by name as each block arrives.
type Result []ResultColumn

// ColInfoInput is a list of column name/type pairs, with no values, for
// recording server-side inferred types (e.g. enum catalogues) before
// sending INSERT data (spec §4.8).
type ColInfoInput []struct {
	Name string
	Type ColumnType
}

// Block is one columnar chunk of a query's data stream: a BlockInfo
// header followed by column count, row count, and for each column its
// name, rendered type, and encoded bytes (spec §3 Data Block).
type Block struct {
	Info    BlockInfo
	Columns int
	Rows    int
}

// End reports whether this is the zero-columns/zero-rows "end of
// stream" marker block (spec §4.8's "blank block").
func (b Block) End() bool { return b.Columns == 0 && b.Rows == 0 }

// EncodeBlock writes the block header and every column's bytes into buf.
func (b Block) EncodeBlock(buf *Buffer, revision int, input Input) error {
	b.Info.Encode(buf)
	buf.PutUVarint(uint64(len(input)))
	rows := 0
	if len(input) > 0 {
		rows = input[0].Data.Rows()
	}
	buf.PutUVarint(uint64(rows))
	for _, col := range input {
		buf.PutString(col.Name)
		buf.PutString(string(col.Data.Type()))
		col.Data.EncodeColumn(buf)
	}
	return nil
}

// WriteBlock is EncodeBlock staged through a Writer instead of a bare
// Buffer, so compression (if enabled on w) applies.
func (b Block) WriteBlock(w *Writer, revision int, input Input) error {
	var infoBuf Buffer
	b.Info.Encode(&infoBuf)
	if _, err := w.Write(infoBuf.Buf); err != nil {
		return err
	}

	if err := w.WriteUVarint(uint64(len(input))); err != nil {
		return err
	}
	rows := 0
	if len(input) > 0 {
		rows = input[0].Data.Rows()
	}
	if err := w.WriteUVarint(uint64(rows)); err != nil {
		return err
	}
	for _, col := range input {
		if err := w.WriteStr(col.Name); err != nil {
			return err
		}
		if err := w.WriteStr(string(col.Data.Type())); err != nil {
			return err
		}
		if err := col.Data.WriteColumn(w); err != nil {
			return err
		}
	}
	return nil
}

// DecodeBlock reads a block header and, for each column named in
// result, decodes it into the matching ResultColumn; columns present on
// the wire but absent from result are decoded into a scratch column from
// NewSkippingColumn and their values discarded.
func (b *Block) DecodeBlock(r *Reader, revision int, result Result) error {
	if err := b.Info.Decode(r); err != nil {
		return errors.Wrap(err, "info")
	}
	cols, err := r.ReadUVarint()
	if err != nil {
		return errors.Wrap(err, "columns")
	}
	rows, err := r.ReadUVarint()
	if err != nil {
		return errors.Wrap(err, "rows")
	}
	b.Columns = int(cols)
	b.Rows = int(rows)

	byName := make(map[string]ColumnReader, len(result))
	for _, rc := range result {
		byName[rc.Name] = rc.Data
	}
	for i := 0; i < b.Columns; i++ {
		name, err := r.ReadStr()
		if err != nil {
			return errors.Wrap(err, "column name")
		}
		typ, err := r.ReadStr()
		if err != nil {
			return errors.Wrap(err, "column type")
		}
		dst, ok := byName[name]
		if !ok {
			sk, err := NewSkippingColumn(ColumnType(typ))
			if err != nil {
				return errors.Wrapf(err, "skip %q", name)
			}
			dst = sk
		}
		if err := dst.DecodeColumn(r, b.Rows); err != nil {
			return errors.Wrapf(err, "decode %q", name)
		}
	}
	return nil
}
