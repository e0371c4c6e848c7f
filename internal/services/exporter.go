package services

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/dinehub/backend/usecase"
)

// CSVExporter writes exported rows into a spool directory as CSV files.
type CSVExporter struct {
	dir    string
	logger *zap.Logger
}

func NewCSVExporter(dir string, logger *zap.Logger) *CSVExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVExporter{dir: dir, logger: logger}
}

func (e *CSVExporter) Export(ctx context.Context, filename string, header []string, rows [][]string) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return err
	}
	if !strings.HasSuffix(filename, ".csv") {
		filename += ".csv"
	}
	path := filepath.Join(e.dir, filepath.Base(filename))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	e.logger.Info("export written", zap.String("path", path), zap.Int("rows", len(rows)))
	return nil
}

var _ usecase.Exporter = (*CSVExporter)(nil)
