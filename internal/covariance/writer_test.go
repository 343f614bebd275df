package covariance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/dfs-covariance/internal/correlation"
)

func TestWriteCSV(t *testing.T) {
	m, err := correlation.NewPlayerMatrix([]string{"a", "b"})
	require.NoError(t, err)
	m.Set(0, 0, 64)
	m.Set(0, 1, 48)
	m.Set(1, 0, 48)
	m.Set(1, 1, 144)

	path := filepath.Join(t.TempDir(), "slates", "cov_2024-06-04.csv")
	require.NoError(t, WriteCSV(m, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Square, no header row, slate order.
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "64,48", lines[0])
	assert.Equal(t, "48,144", lines[1])
}

func TestWriteCSV_NoTempFileLeftBehind(t *testing.T) {
	m, err := correlation.NewPlayerMatrix([]string{"a"})
	require.NoError(t, err)
	m.Set(0, 0, 1)

	dir := t.TempDir()
	path := filepath.Join(dir, "cov.csv")
	require.NoError(t, WriteCSV(m, path))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "cov.csv", files[0].Name())
}
