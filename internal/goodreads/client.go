package goodreads

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mrlokans/goodreads-backup/internal/entities"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "https://www.goodreads.com"
	defaultPageSize = 200
	defaultTimeout  = 30 * time.Second

	reviewListPath = "/review/list.xml"
	shelfListPath  = "/shelf/list.xml"
	statusListPath = "/user_status/list.xml"
)

// Credentials identify the account being backed up.
type Credentials struct {
	UserID string
	APIKey string
}

// ClientConfig holds optional overrides for the API client. Zero values
// fall back to the production defaults.
type ClientConfig struct {
	BaseURL  string
	PageSize int
	Timeout  time.Duration
}

// Client interfaces with the Goodreads XML API
type Client struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new Goodreads API client
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		pageSize: cfg.PageSize,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		// The Goodreads API terms cap clients at one request per second.
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// AllReviews walks the review listing page by page until the API
// reports exhaustion and returns every record in page order. A fetch or
// parse failure aborts the whole listing; there is no partial result.
func (c *Client) AllReviews(ctx context.Context, creds Credentials) ([]entities.Review, error) {
	var all []entities.Review

	for page := 1; ; page++ {
		payload, err := fetchPage[reviewListPayload](ctx, c, reviewListPath, creds, page)
		if err != nil {
			return nil, err
		}

		records, err := convertReviews(payload.Reviews.Reviews)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)

		if payload.Reviews.exhausted() || len(payload.Reviews.Reviews) == 0 {
			break
		}
	}

	return all, nil
}

// AllShelves returns every shelf on the user's account in page order.
func (c *Client) AllShelves(ctx context.Context, creds Credentials) ([]entities.ShelfEntry, error) {
	var all []entities.ShelfEntry

	for page := 1; ; page++ {
		payload, err := fetchPage[shelfListPayload](ctx, c, shelfListPath, creds, page)
		if err != nil {
			return nil, err
		}

		records, err := convertShelves(payload.Shelves.Shelves)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)

		if payload.Shelves.exhausted() || len(payload.Shelves.Shelves) == 0 {
			break
		}
	}

	return all, nil
}

// AllStatuses returns every reading-status update in page order.
func (c *Client) AllStatuses(ctx context.Context, creds Credentials) ([]entities.StatusEntry, error) {
	var all []entities.StatusEntry

	for page := 1; ; page++ {
		payload, err := fetchPage[statusListPayload](ctx, c, statusListPath, creds, page)
		if err != nil {
			return nil, err
		}

		records, err := convertStatuses(payload.Statuses.Statuses)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)

		if payload.Statuses.exhausted() || len(payload.Statuses.Statuses) == 0 {
			break
		}
	}

	return all, nil
}

// fetchPage issues one GET for a single page of a listing and decodes
// the XML payload. It waits on the rate limiter first so sequential
// pagination stays under the API's request rate limits.
func fetchPage[T any](ctx context.Context, c *Client, path string, creds Credentials, page int) (*T, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	q := u.Query()
	q.Set("v", "2")
	q.Set("key", creds.APIKey)
	q.Set("id", creds.UserID)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.pageSize))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrInvalidKey
	}
	if resp.StatusCode >= 500 {
		return nil, &ServerError{StatusCode: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload T
	if err := xml.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &ParseError{Listing: path, Reason: err.Error()}
	}

	return &payload, nil
}
