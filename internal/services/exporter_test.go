package services

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterWritesFile(t *testing.T) {
	dir := t.TempDir()
	e := NewCSVExporter(dir, nil)

	err := e.Export(context.Background(), "leads.csv",
		[]string{"id", "name"},
		[][]string{{"l1", "Ana"}, {"l2", "Bruno"}})
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "leads.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"id", "name"}, records[0])
	assert.Equal(t, []string{"l2", "Bruno"}, records[2])
}

func TestCSVExporterNormalizesFilename(t *testing.T) {
	dir := t.TempDir()
	e := NewCSVExporter(dir, nil)

	// Path segments are stripped and the extension enforced.
	err := e.Export(context.Background(), "../../etc/passwd", []string{"id"}, nil)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "passwd.csv"))
	assert.NoError(t, err)
}
