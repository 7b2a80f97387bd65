package export

import (
	"classutil-backend/internal/scrapers/classutil"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Exporter interface {
	// Export writes the schedule to w.
	Export(schedule *classutil.Schedule, w io.Writer) error
}

// ForPath picks an exporter from the extension of path.
func ForPath(path string) (Exporter, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSVExporter(), nil
	case ".json":
		return NewJsonExporter(), nil
	}
	return nil, fmt.Errorf("no exporter for '%s', expected a .csv or .json file", path)
}

func ExportFile(e Exporter, schedule *classutil.Schedule, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	err = e.Export(schedule, file)
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return file.Close()
}
