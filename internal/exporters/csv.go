package exporters

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mrlokans/goodreads-backup/internal/entities"
	"github.com/mrlokans/goodreads-backup/internal/utils"
)

const (
	// ShelvesFileName is the fixed name of the shelf-list export file.
	ShelvesFileName = "shelves.csv"
	// StatusesFileName is the fixed name of the status export file.
	StatusesFileName = "statuses.csv"
)

// shelfBookColumns is the column set for per-shelf book files.
var shelfBookColumns = []string{
	"book_id",
	"title",
	"authors",
	"isbn",
	"isbn13",
	"my_rating",
	"date_added",
	"date_read",
}

// CSVExporter writes listings as CSV files under OutputDir.
type CSVExporter struct {
	OutputDir string
	// Header controls whether a column-name row is written first.
	Header bool
}

func NewCSVExporter(outputDir string) *CSVExporter {
	return &CSVExporter{OutputDir: outputDir, Header: true}
}

// ExportShelfBooks groups reviews by the shelves holding them and
// writes one CSV per shelf, named after the shelf. Within each file
// books keep the order the API reported them in.
func (e *CSVExporter) ExportShelfBooks(reviews []entities.Review) (Result, error) {
	if err := ensureDir(e.OutputDir); err != nil {
		return Result{}, err
	}

	grouped := make(map[string][]entities.Review)
	for _, r := range reviews {
		for _, shelf := range r.Bookshelves {
			grouped[shelf] = append(grouped[shelf], r)
		}
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	var result Result
	for _, name := range names {
		rows := make([][]string, 0, len(grouped[name]))
		for _, r := range grouped[name] {
			rows = append(rows, shelfBookRow(r))
		}

		path := filepath.Join(e.OutputDir, utils.SanitizeFilename(name)+".csv")
		if err := e.writeCSV(path, shelfBookColumns, rows); err != nil {
			return Result{}, err
		}
		result.FilesWritten++
		result.RecordsWritten += len(rows)
	}

	return result, nil
}

// ExportShelves writes the shelf listing to shelves.csv.
func (e *CSVExporter) ExportShelves(shelves []entities.ShelfEntry) (Result, error) {
	if err := ensureDir(e.OutputDir); err != nil {
		return Result{}, err
	}

	rows := make([][]string, 0, len(shelves))
	for _, s := range shelves {
		rows = append(rows, []string{
			s.ID,
			s.Name,
			strconv.Itoa(s.BookCount),
			strconv.FormatBool(s.Exclusive),
		})
	}

	path := filepath.Join(e.OutputDir, ShelvesFileName)
	columns := []string{"id", "name", "book_count", "exclusive"}
	if err := e.writeCSV(path, columns, rows); err != nil {
		return Result{}, err
	}

	return Result{FilesWritten: 1, RecordsWritten: len(rows)}, nil
}

// ExportStatuses writes the reading-status listing to statuses.csv.
func (e *CSVExporter) ExportStatuses(statuses []entities.StatusEntry) (Result, error) {
	if err := ensureDir(e.OutputDir); err != nil {
		return Result{}, err
	}

	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, []string{
			s.ID,
			s.BookID,
			s.BookTitle,
			strconv.Itoa(s.Page),
			strconv.Itoa(s.Percent),
			s.Body,
			s.UpdatedAt,
		})
	}

	path := filepath.Join(e.OutputDir, StatusesFileName)
	columns := []string{"id", "book_id", "book_title", "page", "percent", "body", "updated_at"}
	if err := e.writeCSV(path, columns, rows); err != nil {
		return Result{}, err
	}

	return Result{FilesWritten: 1, RecordsWritten: len(rows)}, nil
}

func (e *CSVExporter) writeCSV(path string, columns []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if e.Header {
		if err := w.Write(columns); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode CSV: %w", err)
	}

	return writeFileAtomic(path, buf.Bytes())
}

func shelfBookRow(r entities.Review) []string {
	rating := ""
	if r.Rating != nil {
		rating = strconv.Itoa(*r.Rating)
	}
	return []string{
		r.BookID,
		r.Title,
		strings.Join(r.Authors, "; "),
		r.ISBN,
		r.ISBN13,
		rating,
		r.DateAdded,
		r.DateRead,
	}
}
