package exporters

import (
	"fmt"
	"os"
	"path/filepath"
)

// Result summarizes one export run.
type Result struct {
	FilesWritten   int `json:"files_written"`
	RecordsWritten int `json:"records_written"`
}

// ensureDir creates the destination directory (and parents) if needed.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// writeFileAtomic writes data to path via a temp file and rename, so a
// failed run never leaves a truncated export behind. Repeated runs with
// identical input produce byte-identical files.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize %s: %w", filepath.Base(path), err)
	}
	return nil
}
