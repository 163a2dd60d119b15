package goodreads

import (
	"errors"
	"testing"
)

func TestConvertDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "API format converts to UTC",
			input: "Mon Oct 24 12:26:31 -0700 2016",
			want:  "2016-10-24T19:26:31Z",
		},
		{
			name:  "missing date stays empty",
			input: "",
			want:  "",
		},
		{
			name:    "garbage is a parse error",
			input:   "yesterday-ish",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convertDate(tt.input)
			if tt.wantErr {
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("expected ParseError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("convertDate failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertRating(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *int
		wantErr bool
	}{
		{name: "zero means unrated", input: "0", want: nil},
		{name: "empty means unrated", input: "", want: nil},
		{name: "rated", input: "4", want: intPtr(4)},
		{name: "non-numeric is a parse error", input: "four", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convertRating(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("convertRating failed: %v", err)
			}
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("got %d, want %d", *got, *tt.want)
			}
		})
	}
}

func TestConvertReview_FlattensBookAndShelves(t *testing.T) {
	raw := reviewXML{
		Book: bookXML{
			ID:              "1234",
			Title:           "The Pragmatic Programmer",
			ISBN:            "020161622X",
			ISBN13:          "9780201616224",
			AverageRating:   "4.32",
			Publisher:       "Addison-Wesley",
			Format:          "Paperback",
			NumPages:        "352",
			PublicationYear: "1999",
			Published:       "1999",
			Authors: []authorXML{
				{Name: "Andrew Hunt"},
				{Name: "David Thomas"},
			},
		},
		Rating:    "5",
		Shelves:   []shelfRefXML{{Name: "read"}, {Name: "programming"}},
		DateAdded: "Mon Oct 24 12:26:31 -0700 2016",
		Body:      "  A classic.  \n",
	}

	record, err := convertReview(raw)
	if err != nil {
		t.Fatalf("convertReview failed: %v", err)
	}

	if record.BookID != "1234" || record.Title != "The Pragmatic Programmer" {
		t.Errorf("unexpected book fields: %+v", record)
	}
	if len(record.Authors) != 2 || record.Authors[1] != "David Thomas" {
		t.Errorf("unexpected authors: %v", record.Authors)
	}
	if len(record.Bookshelves) != 2 || record.Bookshelves[0] != "read" {
		t.Errorf("unexpected shelves: %v", record.Bookshelves)
	}
	if record.Rating == nil || *record.Rating != 5 {
		t.Errorf("unexpected rating: %v", record.Rating)
	}
	if record.PageCount == nil || *record.PageCount != 352 {
		t.Errorf("unexpected page count: %v", record.PageCount)
	}
	if record.Body != "A classic." {
		t.Errorf("body not trimmed: %q", record.Body)
	}
	if record.DateAdded != "2016-10-24T19:26:31Z" {
		t.Errorf("unexpected date_added: %s", record.DateAdded)
	}
	if record.DateRead != "" {
		t.Errorf("expected empty date_read, got %s", record.DateRead)
	}
}

func TestConvertReview_MissingRequiredFields(t *testing.T) {
	_, err := convertReview(reviewXML{Book: bookXML{Title: "No ID"}})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError for missing book id, got %v", err)
	}

	_, err = convertReview(reviewXML{Book: bookXML{ID: "42"}})
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError for missing title, got %v", err)
	}
}

func TestConvertPageCount(t *testing.T) {
	if got := convertPageCount("not-a-number"); got != nil {
		t.Errorf("expected nil for unparseable count, got %v", got)
	}
	if got := convertPageCount(""); got != nil {
		t.Errorf("expected nil for missing count, got %v", got)
	}
	if got := convertPageCount("200"); got == nil || *got != 200 {
		t.Errorf("expected 200, got %v", got)
	}
}

func intPtr(n int) *int { return &n }
