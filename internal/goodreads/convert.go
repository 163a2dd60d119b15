package goodreads

import (
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/goodreads-backup/internal/entities"
)

// apiTimeLayout is the timestamp format the Goodreads API uses, e.g.
// "Mon Oct 24 12:26:31 -0700 2016".
const apiTimeLayout = "Mon Jan 2 15:04:05 -0700 2006"

// convertReviews flattens raw <review> elements into Review records,
// preserving the order the API reported them in.
func convertReviews(raw []reviewXML) ([]entities.Review, error) {
	records := make([]entities.Review, 0, len(raw))
	for _, r := range raw {
		record, err := convertReview(r)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func convertReview(r reviewXML) (entities.Review, error) {
	if r.Book.ID == "" {
		return entities.Review{}, &ParseError{Listing: "reviews", Reason: "review is missing book id"}
	}
	if r.Book.Title == "" {
		return entities.Review{}, &ParseError{Listing: "reviews", Reason: "book " + r.Book.ID + " is missing title"}
	}

	dateAdded, err := convertDate(r.DateAdded)
	if err != nil {
		return entities.Review{}, err
	}
	dateRead, err := convertDate(r.ReadAt)
	if err != nil {
		return entities.Review{}, err
	}
	rating, err := convertRating(r.Rating)
	if err != nil {
		return entities.Review{}, err
	}

	authors := make([]string, 0, len(r.Book.Authors))
	for _, a := range r.Book.Authors {
		authors = append(authors, a.Name)
	}

	shelves := make([]string, 0, len(r.Shelves))
	for _, s := range r.Shelves {
		shelves = append(shelves, s.Name)
	}

	return entities.Review{
		BookID:            r.Book.ID,
		Title:             r.Book.Title,
		Authors:           authors,
		ISBN:              r.Book.ISBN,
		ISBN13:            r.Book.ISBN13,
		AverageRating:     r.Book.AverageRating,
		Publisher:         r.Book.Publisher,
		Binding:           r.Book.Format,
		PageCount:         convertPageCount(r.Book.NumPages),
		PublicationYear:   r.Book.PublicationYear,
		OrigYearPublished: r.Book.Published,
		Rating:            rating,
		Body:              strings.TrimSpace(r.Body),
		Bookshelves:       shelves,
		DateAdded:         dateAdded,
		DateRead:          dateRead,
	}, nil
}

func convertShelves(raw []userShelfXML) ([]entities.ShelfEntry, error) {
	records := make([]entities.ShelfEntry, 0, len(raw))
	for _, s := range raw {
		if s.Name == "" {
			return nil, &ParseError{Listing: "shelves", Reason: "shelf is missing name"}
		}
		count, _ := strconv.Atoi(s.BookCount)
		records = append(records, entities.ShelfEntry{
			ID:        s.ID,
			Name:      s.Name,
			BookCount: count,
			Exclusive: s.ExclusiveFlag == "true",
		})
	}
	return records, nil
}

func convertStatuses(raw []userStatusXML) ([]entities.StatusEntry, error) {
	records := make([]entities.StatusEntry, 0, len(raw))
	for _, s := range raw {
		if s.ID == "" {
			return nil, &ParseError{Listing: "statuses", Reason: "status is missing id"}
		}
		updatedAt, err := convertDate(s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		page, _ := strconv.Atoi(s.Page)
		percent, _ := strconv.Atoi(s.Percent)
		records = append(records, entities.StatusEntry{
			ID:        s.ID,
			BookID:    s.BookID,
			BookTitle: s.BookTitle,
			Page:      page,
			Percent:   percent,
			Body:      strings.TrimSpace(s.Body),
			UpdatedAt: updatedAt,
		})
	}
	return records, nil
}

// convertDate converts an API timestamp into an RFC 3339 UTC string.
// The API omits dates it has no value for, e.g. read_at on a book that
// was never finished; those come through as the empty string.
func convertDate(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	t, err := time.Parse(apiTimeLayout, value)
	if err != nil {
		return "", &ParseError{Listing: "dates", Reason: "unrecognized timestamp " + strconv.Quote(value)}
	}
	return t.UTC().Format(time.RFC3339), nil
}

// convertRating maps the API's rating field to a nullable int. The API
// reports "0" for unrated books.
func convertRating(value string) (*int, error) {
	if value == "" || value == "0" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, &ParseError{Listing: "reviews", Reason: "unrecognized rating " + strconv.Quote(value)}
	}
	return &n, nil
}

func convertPageCount(value string) *int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}
