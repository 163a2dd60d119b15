package goodreads

import "encoding/xml"

// pageMeta carries the pagination attributes every listing element
// shares: <reviews start="1" end="200" total="431">. The API signals
// exhaustion with end >= total; total as reported by the most recent
// page is authoritative.
type pageMeta struct {
	Start int `xml:"start,attr"`
	End   int `xml:"end,attr"`
	Total int `xml:"total,attr"`
}

func (m pageMeta) exhausted() bool {
	return m.End >= m.Total
}

type reviewListPayload struct {
	XMLName xml.Name       `xml:"GoodreadsResponse"`
	Reviews reviewsElement `xml:"reviews"`
}

type reviewsElement struct {
	pageMeta
	Reviews []reviewXML `xml:"review"`
}

type reviewXML struct {
	Book      bookXML       `xml:"book"`
	Rating    string        `xml:"rating"`
	Shelves   []shelfRefXML `xml:"shelves>shelf"`
	DateAdded string        `xml:"date_added"`
	ReadAt    string        `xml:"read_at"`
	Body      string        `xml:"body"`
}

type shelfRefXML struct {
	Name string `xml:"name,attr"`
}

type bookXML struct {
	ID              string      `xml:"id"`
	Title           string      `xml:"title"`
	ISBN            string      `xml:"isbn"`
	ISBN13          string      `xml:"isbn13"`
	AverageRating   string      `xml:"average_rating"`
	Publisher       string      `xml:"publisher"`
	Format          string      `xml:"format"`
	NumPages        string      `xml:"num_pages"`
	PublicationYear string      `xml:"publication_year"`
	Published       string      `xml:"published"`
	Authors         []authorXML `xml:"authors>author"`
}

type authorXML struct {
	Name string `xml:"name"`
}

type shelfListPayload struct {
	XMLName xml.Name       `xml:"GoodreadsResponse"`
	Shelves shelvesElement `xml:"shelves"`
}

type shelvesElement struct {
	pageMeta
	Shelves []userShelfXML `xml:"user_shelf"`
}

type userShelfXML struct {
	ID            string `xml:"id"`
	Name          string `xml:"name"`
	BookCount     string `xml:"book_count"`
	ExclusiveFlag string `xml:"exclusive_flag"`
}

type statusListPayload struct {
	XMLName  xml.Name        `xml:"GoodreadsResponse"`
	Statuses statusesElement `xml:"user_statuses"`
}

type statusesElement struct {
	pageMeta
	Statuses []userStatusXML `xml:"user_status"`
}

type userStatusXML struct {
	ID        string `xml:"id"`
	Page      string `xml:"page"`
	Percent   string `xml:"percent"`
	Body      string `xml:"body"`
	UpdatedAt string `xml:"updated_at"`
	BookID    string `xml:"book>id"`
	BookTitle string `xml:"book>title"`
}
