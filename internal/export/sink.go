package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteTotals serializes totals as pretty-printed JSON with a trailing
// newline. A non-empty path writes a file, creating parent directories as
// needed; an empty path writes to stdout.
func WriteTotals(totals Totals, path string) error {
	data, err := json.MarshalIndent(totals, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing totals: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing output file %s: %w", path, err)
	}
	return nil
}
