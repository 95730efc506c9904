package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseType_Fixtures exercises the seed-test fixture table: for each
// input, the parser must produce the given type_name, generic_arg_count,
// and type_arg_count exactly.
func TestParseType_Fixtures(t *testing.T) {
	for _, tt := range []struct {
		input    string
		typeName string
		gen      int
		args     int
	}{
		{"Nullable(Nothing)", "Nullable", 1, 1},
		{"LowCardinality(Decimal(28, 10))", "LowCardinality", 1, 1},
		{"Tuple(Decimal(19,6), String, Nullable(String))", "Tuple", 3, 3},
		{"Array(Array(Nothing))", "Array", 1, 1},
		{"Decimal32(5)", "Decimal32", 0, 1},
		{"DateTime64(3, 'Africa/Addis_Ababa')", "DateTime64", 0, 2},
		{"FixedString(42)", "FixedString", 0, 1},
	} {
		t.Run(tt.input, func(t *testing.T) {
			info, err := ParseType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.typeName, info.Name)
			assert.Len(t, info.Generics, tt.gen)
			assert.Len(t, info.Args, tt.args)
		})
	}
}

// TestParseType_RenderFixedPoint checks the round-trip invariant: parsing
// render(t) yields a tree equal to t.
func TestParseType_RenderFixedPoint(t *testing.T) {
	for _, input := range []string{
		"Int32",
		"Nullable(Nothing)",
		"LowCardinality(Decimal(28, 10))",
		"Tuple(Decimal(19,6), String, Nullable(String))",
		"Array(Array(Nothing))",
		"Decimal32(5)",
		"DateTime64(3, 'Africa/Addis_Ababa')",
		"FixedString(42)",
		"Enum8('increment' = 1, 'gauge' = 2)",
	} {
		t.Run(input, func(t *testing.T) {
			first, err := ParseType(input)
			require.NoError(t, err)

			rendered := first.ComplexTypeName()
			second, err := ParseType(rendered)
			require.NoError(t, err, "re-parsing rendered %q", rendered)

			require.Equal(t, first, second, "parse(render(t)) must equal t")

			twiceRendered := second.ComplexTypeName()
			require.Equal(t, rendered, twiceRendered, "rendering must be fixed-point after one iteration")
		})
	}
}

// TestParseType_Enum8EscapedKeys is the §8 boundary vector for Enum8 with
// negative values and escaped single-quote/backslash/control-character
// keys.
func TestParseType_Enum8EscapedKeys(t *testing.T) {
	const raw = `Enum8('\'a\'' = -5, ' \tescaped \'value\' ({[ ' = -9, '\r\n\t\\d\\' = 18)`

	info, err := ParseType(raw)
	require.NoError(t, err)
	require.Equal(t, "Enum8", info.Name)
	require.Len(t, info.Args, 3)

	require.Equal(t, "'a'", info.Args[0].Name)
	require.Equal(t, int64(-5), info.Args[0].Int)

	require.Equal(t, " \tescaped 'value' ({[ ", info.Args[1].Name)
	require.Equal(t, int64(-9), info.Args[1].Int)

	require.Equal(t, "\r\n\t\\d\\", info.Args[2].Name)
	require.Equal(t, int64(18), info.Args[2].Int)

	// Fixed-point: re-parsing the rendered form must reproduce an equal
	// tree, even though the canonical renderer does not reproduce the
	// exact same backslash escapes byte-for-byte (spec §3/§8).
	rendered := info.ComplexTypeName()
	again, err := ParseType(rendered)
	require.NoError(t, err, "re-parsing rendered %q", rendered)
	require.Equal(t, info, again)
}

// TestParseType_TupleBacktickedName is the §8 boundary vector for a Tuple
// member whose back-ticked name contains escaped back-ticks and
// backslashes.
func TestParseType_TupleBacktickedName(t *testing.T) {
	const raw = "Tuple(`escaped \\`C\\` with \\\\\\` :)` Int32)"
	const wantName = "escaped `C` with \\` :)"

	info, err := ParseType(raw)
	require.NoError(t, err)
	require.Equal(t, "Tuple", info.Name)
	require.Len(t, info.Args, 1)
	require.Equal(t, ArgNamed, info.Args[0].Kind)
	require.True(t, info.Args[0].HasType)
	require.Equal(t, wantName, info.Args[0].Name)
	require.Equal(t, "Int32", info.Args[0].Type.Name)

	rendered := info.ComplexTypeName()
	again, err := ParseType(rendered)
	require.NoError(t, err, "re-parsing rendered %q", rendered)
	require.Equal(t, info, again)
}
