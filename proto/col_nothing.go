package proto

// ColNothing is the Nothing column: the bottom type, zero width on the
// wire (spec §4.7). It only ever appears as the inner column of a
// Nullable(Nothing), which ClickHouse uses to represent a column of
// all-NULL values whose element type was never determined server-side.
type ColNothing struct {
	rows int
}

func NewColNothing() *ColNothing { return &ColNothing{} }

func (c *ColNothing) Type() ColumnType { return ColumnTypeNothing }
func (c *ColNothing) Rows() int        { return c.rows }
func (c *ColNothing) Reset()           { c.rows = 0 }

// Row always returns struct{}{}; Nothing carries no values.
func (c *ColNothing) Row(int) struct{} { return struct{}{} }

// Append adds one zero-width row.
func (c *ColNothing) Append(struct{}) { c.rows++ }

func (c *ColNothing) EncodeColumn(*Buffer) {}
func (c *ColNothing) WriteColumn(*Writer) error { return nil }

func (c *ColNothing) DecodeColumn(_ *Reader, rows int) error {
	c.rows += rows
	return nil
}
