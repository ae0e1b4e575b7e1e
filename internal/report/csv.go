package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ppiankov/biaslab/internal/logging"
)

// WriteCSV writes t to dir/<name>.csv and returns the path written
func WriteCSV(dir string, t Table) (string, error) {
	path := filepath.Join(dir, t.Name+".csv")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	logging.Debug("wrote csv", zap.String("path", path), zap.Int("rows", len(t.Rows)))
	return path, nil
}

// WriteCSVs writes each table to dir, returning the paths in table order
func WriteCSVs(dir string, tables []Table) ([]string, error) {
	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		p, err := WriteCSV(dir, t)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
