package exporters

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mrlokans/goodreads-backup/internal/entities"
)

// ReviewsFileName is the fixed name of the review export file.
const ReviewsFileName = "goodreads_reviews.json"

// JSONExporter writes the review listing to a single indented JSON
// file. Reviews with neither a rating nor text are dropped unless
// KeepEmpty is set.
type JSONExporter struct {
	OutputDir string
	KeepEmpty bool
}

func NewJSONExporter(outputDir string, keepEmpty bool) *JSONExporter {
	return &JSONExporter{OutputDir: outputDir, KeepEmpty: keepEmpty}
}

// Export writes the reviews file and returns what was written.
// Overwrites any previous export at the same path.
func (e *JSONExporter) Export(reviews []entities.Review) (Result, error) {
	if err := ensureDir(e.OutputDir); err != nil {
		return Result{}, err
	}

	filtered := reviews
	if !e.KeepEmpty {
		filtered = make([]entities.Review, 0, len(reviews))
		for _, r := range reviews {
			if !r.Empty() {
				filtered = append(filtered, r)
			}
		}
	}

	data, err := json.MarshalIndent(filtered, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode reviews: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(e.OutputDir, ReviewsFileName)
	if err := writeFileAtomic(path, data); err != nil {
		return Result{}, err
	}

	return Result{FilesWritten: 1, RecordsWritten: len(filtered)}, nil
}
