package pascalconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hubailmm/pascal/pascalconfig"
)

func write(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "run.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := write(t, `{"ni": 8, "nj": 8}`)
	c, err := pascalconfig.Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, c.NiProc)
	require.Equal(t, 1, c.NjProc)
}

func TestLoadRejectsNonPositiveGrid(t *testing.T) {
	path := write(t, `{"ni": 0, "nj": 8}`)
	_, err := pascalconfig.Load(path)
	require.Error(t, err)
}

func TestLoadPreservesExplicitProcessGrid(t *testing.T) {
	path := write(t, `{"ni": 8, "nj": 8, "niProc": 2, "njProc": 3, "verbose": true, "partitionerPath": "/bin/quarkflow"}`)
	c, err := pascalconfig.Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, c.NiProc)
	require.Equal(t, 3, c.NjProc)
	require.True(t, c.Verbose)
	require.Equal(t, "/bin/quarkflow", c.PartitionerPath)
}
