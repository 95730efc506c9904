// Package gold implements the golden-file comparison helper the column
// codec tests use to pin exact wire bytes (kept from the teacher's own
// internal/gold package, referenced directly in
// col_fixedstr128_gen_test.go's t.Run("Golden", ...)).
package gold

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "update golden files")

// Bytes compares data against testdata/<name>.bin, failing the test on
// mismatch. Run with -update to (re)write the golden file from data.
func Bytes(t *testing.T, data []byte, name string) {
	t.Helper()
	path := filepath.Join("testdata", name+".bin")
	if *update {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
		return
	}
	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
		return
	}
	require.NoError(t, err)
	require.Equal(t, want, data, "golden file %s differs; rerun with -update if the change is intentional", path)
}
