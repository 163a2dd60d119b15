package goodreads

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/time/rate"
)

// reviewsPage renders one page of the review listing with count
// records. Book IDs start at first so tests can assert ordering.
func reviewsPage(start, end, total, first, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<GoodreadsResponse><reviews start="%d" end="%d" total="%d">`, start, end, total)
	for i := 0; i < count; i++ {
		id := first + i
		fmt.Fprintf(&b, `<review>
			<book>
				<id>%d</id>
				<title>Book %d</title>
				<authors><author><name>Author %d</name></author></authors>
			</book>
			<rating>4</rating>
			<shelves><shelf name="read" exclusive="true"/></shelves>
			<date_added>Mon Oct 24 12:26:31 -0700 2016</date_added>
			<read_at></read_at>
			<body>review of book %d</body>
		</review>`, id, id, id, id)
	}
	b.WriteString(`</reviews></GoodreadsResponse>`)
	return b.String()
}

func newTestClient(serverURL string, pageSize int) *Client {
	c := NewClient(ClientConfig{BaseURL: serverURL, PageSize: pageSize})
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestAllReviews_PaginatesUntilExhaustion(t *testing.T) {
	var requested []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != reviewListPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "12345678" {
			t.Errorf("expected user id 12345678, got %s", got)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("expected api key test-key, got %s", got)
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		requested = append(requested, page)

		switch page {
		case 1:
			fmt.Fprint(w, reviewsPage(1, 10, 20, 1, 10))
		case 2:
			fmt.Fprint(w, reviewsPage(11, 20, 20, 11, 10))
		default:
			t.Errorf("requested page %d past exhaustion", page)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL, 10)
	creds := Credentials{UserID: "12345678", APIKey: "test-key"}

	reviews, err := client.AllReviews(context.Background(), creds)
	if err != nil {
		t.Fatalf("AllReviews failed: %v", err)
	}

	if len(reviews) != 20 {
		t.Fatalf("expected 20 reviews, got %d", len(reviews))
	}
	if len(requested) != 2 {
		t.Fatalf("expected exactly 2 page requests, got %v", requested)
	}
	for i, r := range reviews {
		if want := strconv.Itoa(i + 1); r.BookID != want {
			t.Errorf("review %d out of page order: book id %s, want %s", i, r.BookID, want)
		}
	}
}

func TestAllReviews_EmptyLibrary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, reviewsPage(0, 0, 0, 0, 0))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 10)

	reviews, err := client.AllReviews(context.Background(), Credentials{UserID: "1", APIKey: "k"})
	if err != nil {
		t.Fatalf("AllReviews failed: %v", err)
	}
	if len(reviews) != 0 {
		t.Fatalf("expected no reviews, got %d", len(reviews))
	}
}

func TestAllReviews_InvalidKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 10)

	_, err := client.AllReviews(context.Background(), Credentials{UserID: "1", APIKey: "bad"})
	if !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestAllReviews_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 10)

	_, err := client.AllReviews(context.Background(), Credentials{UserID: "1", APIKey: "k"})
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if serverErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", serverErr.StatusCode)
	}
}

func TestAllReviews_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<GoodreadsResponse><reviews start="1"`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 10)

	_, err := client.AllReviews(context.Background(), Credentials{UserID: "1", APIKey: "k"})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestAllShelves_Paginates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != shelfListPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		page := r.URL.Query().Get("page")
		if page == "1" {
			fmt.Fprint(w, `<GoodreadsResponse><shelves start="1" end="2" total="3">
				<user_shelf><id>1</id><name>read</name><book_count>12</book_count><exclusive_flag>true</exclusive_flag></user_shelf>
				<user_shelf><id>2</id><name>to-read</name><book_count>3</book_count><exclusive_flag>true</exclusive_flag></user_shelf>
			</shelves></GoodreadsResponse>`)
			return
		}
		fmt.Fprint(w, `<GoodreadsResponse><shelves start="3" end="3" total="3">
			<user_shelf><id>3</id><name>fiction</name><book_count>7</book_count><exclusive_flag>false</exclusive_flag></user_shelf>
		</shelves></GoodreadsResponse>`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2)

	shelves, err := client.AllShelves(context.Background(), Credentials{UserID: "1", APIKey: "k"})
	if err != nil {
		t.Fatalf("AllShelves failed: %v", err)
	}
	if len(shelves) != 3 {
		t.Fatalf("expected 3 shelves, got %d", len(shelves))
	}
	if shelves[2].Name != "fiction" || shelves[2].Exclusive {
		t.Errorf("unexpected last shelf: %+v", shelves[2])
	}
	if shelves[0].BookCount != 12 {
		t.Errorf("expected book count 12, got %d", shelves[0].BookCount)
	}
}

func TestAllStatuses_SinglePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != statusListPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `<GoodreadsResponse><user_statuses start="1" end="1" total="1">
			<user_status>
				<id>555</id>
				<page>120</page>
				<percent>40</percent>
				<body>halfway there</body>
				<updated_at>Mon Oct 24 12:26:31 -0700 2016</updated_at>
				<book><id>99</id><title>Some Book</title></book>
			</user_status>
		</user_statuses></GoodreadsResponse>`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 10)

	statuses, err := client.AllStatuses(context.Background(), Credentials{UserID: "1", APIKey: "k"})
	if err != nil {
		t.Fatalf("AllStatuses failed: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("expected 1 status, got %d", len(statuses))
	}
	s := statuses[0]
	if s.ID != "555" || s.BookID != "99" || s.BookTitle != "Some Book" {
		t.Errorf("unexpected status: %+v", s)
	}
	if s.Page != 120 || s.Percent != 40 {
		t.Errorf("unexpected progress: %+v", s)
	}
	if s.UpdatedAt != "2016-10-24T19:26:31Z" {
		t.Errorf("expected UTC timestamp, got %s", s.UpdatedAt)
	}
}
