package backup

import (
	"context"
	"fmt"
	"log"

	"github.com/mrlokans/goodreads-backup/internal/entities"
	"github.com/mrlokans/goodreads-backup/internal/exporters"
	"github.com/mrlokans/goodreads-backup/internal/goodreads"
)

// Runner exports the configured listing types one after another. Each
// listing is an independent sequential run: a fetch or parse failure
// aborts that listing only, while a filesystem failure aborts the whole
// backup.
type Runner struct {
	Client    *goodreads.Client
	Creds     goodreads.Credentials
	OutputDir string
	KeepEmpty bool
	Header    bool
	Listings  []entities.ListingType
}

// ListingResult is the outcome of one listing type's export.
type ListingResult struct {
	Listing entities.ListingType
	Records int
	Files   int
	Err     error
}

// Summary collects per-listing outcomes for the whole run.
type Summary struct {
	Results []ListingResult
}

// Failed returns the listings whose export did not complete.
func (s Summary) Failed() []ListingResult {
	var failed []ListingResult
	for _, r := range s.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Run exports every configured listing type in order. The returned
// error is non-nil only for fatal failures (output files could not be
// written); remote and parse failures are recorded in the summary.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	listings := r.Listings
	if len(listings) == 0 {
		listings = entities.AllListings
	}

	var summary Summary
	for _, listing := range listings {
		result := ListingResult{Listing: listing}

		batch, err := r.fetch(ctx, listing)
		if err != nil {
			result.Err = err
			log.Printf("backup: %s export failed: %v", listing, err)
			summary.Results = append(summary.Results, result)
			continue
		}

		files, err := r.export(batch)
		if err != nil {
			return summary, fmt.Errorf("exporting %s: %w", listing, err)
		}

		result.Records = batch.Len()
		result.Files = files
		log.Printf("backup: exported %d %s records to %d file(s)", result.Records, listing, result.Files)
		summary.Results = append(summary.Results, result)
	}

	return summary, nil
}

// fetch paginates one listing to exhaustion and returns the completed
// batch. The batch is only handed to the exporter once the whole
// listing fetched cleanly, so output files are never partially stale.
func (r *Runner) fetch(ctx context.Context, listing entities.ListingType) (entities.ExportBatch, error) {
	batch := entities.ExportBatch{Listing: listing}
	var err error

	switch listing {
	case entities.ListingReviews:
		batch.Reviews, err = r.Client.AllReviews(ctx, r.Creds)
	case entities.ListingShelves:
		batch.Shelves, err = r.Client.AllShelves(ctx, r.Creds)
	case entities.ListingStatuses:
		batch.Statuses, err = r.Client.AllStatuses(ctx, r.Creds)
	default:
		err = fmt.Errorf("unknown listing type: %s", listing)
	}

	return batch, err
}

// export writes a completed batch to disk and returns how many files
// were written. Any error here is a filesystem problem and fatal for
// the run.
func (r *Runner) export(batch entities.ExportBatch) (int, error) {
	csvExporter := &exporters.CSVExporter{OutputDir: r.OutputDir, Header: r.Header}

	switch batch.Listing {
	case entities.ListingReviews:
		jsonResult, err := exporters.NewJSONExporter(r.OutputDir, r.KeepEmpty).Export(batch.Reviews)
		if err != nil {
			return 0, err
		}
		shelfResult, err := csvExporter.ExportShelfBooks(batch.Reviews)
		if err != nil {
			return 0, err
		}
		return jsonResult.FilesWritten + shelfResult.FilesWritten, nil

	case entities.ListingShelves:
		result, err := csvExporter.ExportShelves(batch.Shelves)
		return result.FilesWritten, err

	case entities.ListingStatuses:
		result, err := csvExporter.ExportStatuses(batch.Statuses)
		return result.FilesWritten, err
	}

	return 0, nil
}
