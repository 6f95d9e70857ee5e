package tabular

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteCSV persists a Dataset. The hashtags column is serialized as a
// JSON array per cell so the loader's JSON-array branch reconstructs the
// identical list on re-read. The output directory is created if absent.
func WriteCSV(d *Dataset, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(d.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	cells := make([]string, len(d.Columns))
	for _, row := range d.Rows {
		for i, col := range d.Columns {
			if col == "hashtags" {
				tags := row.Hashtags
				if tags == nil {
					tags = []string{}
				}
				encoded, err := json.Marshal(tags)
				if err != nil {
					return fmt.Errorf("encode hashtags: %w", err)
				}
				cells[i] = string(encoded)
				continue
			}
			cells[i] = row.Fields[col]
		}
		if err := w.Write(cells); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
