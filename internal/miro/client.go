// Package miro is a thin client for the Miro REST API v2, scoped to one board.
package miro

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dyluth/easel/pkg/board"
)

const (
	// DefaultBaseURL is the public REST v2 endpoint.
	DefaultBaseURL = "https://api.miro.com/v2"

	// DefaultTimeout bounds every request.
	DefaultTimeout = 30 * time.Second

	// DefaultPageLimit is the page size used when listing items.
	DefaultPageLimit = 50

	// maxErrorBody caps the response body kept on an APIError.
	maxErrorBody = 2048
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	BoardID   string
	Token     string
	Timeout   time.Duration
	PageLimit int
}

// Client performs board-scoped REST calls with bearer authentication.
// Safe for concurrent use.
type Client struct {
	http      *http.Client
	baseURL   string
	boardID   string
	token     string
	pageLimit int
}

// NewClient creates a client for opts.BoardID. Zero-valued options take defaults.
func NewClient(opts Options) (*Client, error) {
	if opts.BoardID == "" {
		return nil, fmt.Errorf("board id cannot be empty")
	}
	if opts.Token == "" {
		return nil, fmt.Errorf("API token cannot be empty")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.PageLimit <= 0 {
		opts.PageLimit = DefaultPageLimit
	}

	return &Client{
		http:      &http.Client{Timeout: opts.Timeout},
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		boardID:   opts.BoardID,
		token:     opts.Token,
		pageLimit: opts.PageLimit,
	}, nil
}

// BoardID returns the board this client is scoped to.
func (c *Client) BoardID() string {
	return c.boardID
}

// boardURL joins path segments under /boards/{id}.
func (c *Client) boardURL(segments ...string) string {
	parts := append([]string{c.baseURL, "boards", url.PathEscape(c.boardID)}, segments...)
	return strings.Join(parts, "/")
}

// itemsPage is one page of GET /boards/{id}/items.
type itemsPage struct {
	Data   []board.RawItem `json:"data"`
	Cursor string          `json:"cursor"`
}

// ListItems fetches every item on the board, following cursor pagination.
func (c *Client) ListItems(ctx context.Context) ([]board.RawItem, error) {
	var items []board.RawItem
	seen := map[string]struct{}{}
	cursor := ""

	for {
		q := url.Values{}
		q.Set("limit", fmt.Sprintf("%d", c.pageLimit))
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var page itemsPage
		if err := c.do(ctx, http.MethodGet, c.boardURL("items")+"?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Data...)

		if page.Cursor == "" {
			break
		}
		if _, repeat := seen[page.Cursor]; repeat {
			log.Printf("[Miro] Cursor %q repeated, stopping pagination after %d items", page.Cursor, len(items))
			break
		}
		seen[page.Cursor] = struct{}{}
		cursor = page.Cursor
	}

	return items, nil
}

// do sends one JSON request and decodes a JSON response into out (if non-nil).
// Non-2xx responses become *APIError; network failures wrap ErrTransport.
func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s %s request: %w", method, rawURL, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s %s request: %w", method, rawURL, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Method:     method,
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Body:       string(detail),
		}
	}

	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s %s response: %v", ErrTransport, method, rawURL, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, rawURL, err)
	}
	return nil
}
