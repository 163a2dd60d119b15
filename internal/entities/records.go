package entities

// ListingType identifies one category of exportable Goodreads data.
// The type is picked once at the start of a run and drives which
// endpoint is paginated and which files get written.
type ListingType string

const (
	ListingReviews  ListingType = "reviews"
	ListingShelves  ListingType = "shelves"
	ListingStatuses ListingType = "statuses"
)

// AllListings lists every supported listing type in export order.
var AllListings = []ListingType{ListingReviews, ListingShelves, ListingStatuses}

// Review is one review record from the user's library, flattened from
// the API's nested <review>/<book> structure. Dates are RFC 3339 UTC
// strings, empty when the API had no value (e.g. date_read on an
// unfinished book).
type Review struct {
	BookID            string   `json:"book_id"`
	Title             string   `json:"title"`
	Authors           []string `json:"authors"`
	ISBN              string   `json:"isbn"`
	ISBN13            string   `json:"isbn13"`
	AverageRating     string   `json:"average_rating"`
	Publisher         string   `json:"publisher"`
	Binding           string   `json:"binding"`
	PageCount         *int     `json:"page_count"`
	PublicationYear   string   `json:"publication_year"`
	OrigYearPublished string   `json:"orig_year_published"`

	// Rating is nil for unrated books; the API reports those as "0".
	Rating      *int     `json:"my_rating"`
	Body        string   `json:"review"`
	Bookshelves []string `json:"bookshelves"`
	DateAdded   string   `json:"date_added"`
	DateRead    string   `json:"date_read"`
}

// Empty reports whether the review carries neither a rating nor text.
func (r Review) Empty() bool {
	return r.Rating == nil && r.Body == ""
}

// ShelfEntry is one shelf from the user's shelf list.
type ShelfEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BookCount int    `json:"book_count"`
	Exclusive bool   `json:"exclusive"`
}

// StatusEntry is one reading-status update.
type StatusEntry struct {
	ID        string `json:"id"`
	BookID    string `json:"book_id"`
	BookTitle string `json:"book_title"`
	Page      int    `json:"page"`
	Percent   int    `json:"percent"`
	Body      string `json:"body"`
	UpdatedAt string `json:"updated_at"`
}

// ExportBatch holds the full ordered record set for one listing type in
// one run. Exactly one of the record slices is populated, matching
// Listing. Records keep the order the API reported them in.
type ExportBatch struct {
	Listing  ListingType
	Reviews  []Review
	Shelves  []ShelfEntry
	Statuses []StatusEntry
}

// Len returns the number of records in the batch.
func (b ExportBatch) Len() int {
	switch b.Listing {
	case ListingReviews:
		return len(b.Reviews)
	case ListingShelves:
		return len(b.Shelves)
	case ListingStatuses:
		return len(b.Statuses)
	}
	return 0
}
