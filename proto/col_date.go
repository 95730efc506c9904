package proto

import (
	"strconv"
	"time"
)

var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// dateMax is 2149-06-06, the last day a 16-bit day count can represent
// (spec §4.7, §8 boundary case).
var dateMax = epoch.AddDate(0, 0, 1<<16-1)

// ColDate is a Date column: days since 1970-01-01 as an unsigned 16-bit
// integer, capped at 2149-06-06.
type ColDate struct {
	data []uint16
}

func NewColDate() *ColDate { return &ColDate{} }

func (c *ColDate) Type() ColumnType { return ColumnTypeDate }
func (c *ColDate) Rows() int        { return len(c.data) }
func (c *ColDate) Reset()           { c.data = c.data[:0] }

// Row returns the date at row i as a UTC midnight time.Time.
func (c *ColDate) Row(i int) time.Time {
	return epoch.AddDate(0, 0, int(c.data[i]))
}

// Append encodes t's UTC calendar day, erroring if it falls before the
// epoch or after 2149-06-06.
func (c *ColDate) Append(t time.Time) error {
	u := t.UTC()
	if u.Before(epoch) {
		return ErrOverflow("Date: %s is before the epoch 1970-01-01", t)
	}
	days := int(u.Sub(epoch).Hours() / 24)
	if days > 1<<16-1 {
		return ErrOverflow("Date: %s is after the maximum 2149-06-06", t)
	}
	c.data = append(c.data, uint16(days))
	return nil
}

func (c *ColDate) EncodeColumn(b *Buffer) {
	for _, v := range c.data {
		b.PutUInt16(v)
	}
}

func (c *ColDate) WriteColumn(w *Writer) error { return writeColumnVia(w, c.EncodeColumn) }

func (c *ColDate) DecodeColumn(r *Reader, rows int) error {
	for i := 0; i < rows; i++ {
		v, err := r.ReadUInt16()
		if err != nil {
			return err
		}
		c.data = append(c.data, v)
	}
	return nil
}

// ColDate32 is a Date32 column: days since the epoch as a signed 32-bit
// integer, supporting a wider (including pre-1970) range than Date.
type ColDate32 struct {
	data []int32
}

func NewColDate32() *ColDate32 { return &ColDate32{} }

func (c *ColDate32) Type() ColumnType { return ColumnTypeDate32 }
func (c *ColDate32) Rows() int        { return len(c.data) }
func (c *ColDate32) Reset()           { c.data = c.data[:0] }
func (c *ColDate32) Row(i int) time.Time {
	return epoch.AddDate(0, 0, int(c.data[i]))
}
func (c *ColDate32) Append(t time.Time) {
	days := int32(t.UTC().Sub(epoch).Hours() / 24)
	c.data = append(c.data, days)
}

func (c *ColDate32) EncodeColumn(b *Buffer) {
	for _, v := range c.data {
		b.PutInt32(v)
	}
}
func (c *ColDate32) WriteColumn(w *Writer) error { return writeColumnVia(w, c.EncodeColumn) }
func (c *ColDate32) DecodeColumn(r *Reader, rows int) error {
	for i := 0; i < rows; i++ {
		v, err := r.ReadInt32()
		if err != nil {
			return err
		}
		c.data = append(c.data, v)
	}
	return nil
}

// ColDateTime is a DateTime column: seconds since the epoch as an
// unsigned 32-bit integer, with an optional time-zone type argument
// (carried for rendering only — the wire value is always UTC seconds).
type ColDateTime struct {
	TZ   string
	data []uint32
}

func NewColDateTime(tz string) *ColDateTime { return &ColDateTime{TZ: tz} }

func (c *ColDateTime) Type() ColumnType {
	if c.TZ == "" {
		return ColumnTypeDateTime
	}
	return ColumnTypeDateTime.With("'" + escapeQuoted(c.TZ, '\'') + "'")
}
func (c *ColDateTime) Rows() int { return len(c.data) }
func (c *ColDateTime) Reset()    { c.data = c.data[:0] }
func (c *ColDateTime) Row(i int) time.Time {
	return time.Unix(int64(c.data[i]), 0).UTC()
}
func (c *ColDateTime) Append(t time.Time) {
	c.data = append(c.data, uint32(t.UTC().Unix()))
}

func (c *ColDateTime) EncodeColumn(b *Buffer) {
	for _, v := range c.data {
		b.PutUInt32(v)
	}
}
func (c *ColDateTime) WriteColumn(w *Writer) error { return writeColumnVia(w, c.EncodeColumn) }
func (c *ColDateTime) DecodeColumn(r *Reader, rows int) error {
	for i := 0; i < rows; i++ {
		v, err := r.ReadUInt32()
		if err != nil {
			return err
		}
		c.data = append(c.data, v)
	}
	return nil
}

// ColDateTime64 is a DateTime64(precision, tz?) column: ticks since the
// epoch at 10^-Precision-second resolution, stored as a signed 64-bit
// integer.
type ColDateTime64 struct {
	Precision int
	TZ        string
	data      []int64
}

func NewColDateTime64(precision int, tz string) *ColDateTime64 {
	return &ColDateTime64{Precision: precision, TZ: tz}
}

func (c *ColDateTime64) Type() ColumnType {
	args := strconv.Itoa(c.Precision)
	if c.TZ != "" {
		args += ", '" + escapeQuoted(c.TZ, '\'') + "'"
	}
	return ColumnTypeDateTime64.With(args)
}
func (c *ColDateTime64) Rows() int { return len(c.data) }
func (c *ColDateTime64) Reset()    { c.data = c.data[:0] }

func (c *ColDateTime64) scale() int64 {
	s := int64(1)
	for i := 0; i < c.Precision; i++ {
		s *= 10
	}
	return s
}

func (c *ColDateTime64) Row(i int) time.Time {
	scale := c.scale()
	ticks := c.data[i]
	sec := ticks / scale
	rem := ticks % scale
	if rem < 0 {
		rem += scale
		sec--
	}
	nsec := rem * (1_000_000_000 / scale)
	return time.Unix(sec, nsec).UTC()
}

func (c *ColDateTime64) Append(t time.Time) {
	scale := c.scale()
	t = t.UTC()
	ticks := t.Unix()*scale + int64(t.Nanosecond())/(1_000_000_000/scale)
	c.data = append(c.data, ticks)
}

func (c *ColDateTime64) EncodeColumn(b *Buffer) {
	for _, v := range c.data {
		b.PutInt64(v)
	}
}
func (c *ColDateTime64) WriteColumn(w *Writer) error { return writeColumnVia(w, c.EncodeColumn) }
func (c *ColDateTime64) DecodeColumn(r *Reader, rows int) error {
	for i := 0; i < rows; i++ {
		v, err := r.ReadInt64()
		if err != nil {
			return err
		}
		c.data = append(c.data, v)
	}
	return nil
}

// ReinterpretAsDateTime reinterprets a Date32 column as DateTime values
// at midnight UTC, the coercion named in spec §4.7 (try_reinterpret);
// it cannot fail.
func (c *ColDate32) ReinterpretAsDateTime() *ColDateTime {
	out := NewColDateTime("")
	for i := 0; i < c.Rows(); i++ {
		out.Append(c.Row(i))
	}
	return out
}
