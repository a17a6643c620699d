// Package readstats pulls basic reading-list statistics from a Pocket-style
// HTTP API.
package readstats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// DefaultPageSize is the maximum item count requested per archive page.
const DefaultPageSize = 300

// Client talks to the reading-list API.
type Client struct {
	baseURL     string
	consumerKey string
	accessToken string
	pageSize    int
	httpc       *http.Client
	logger      *slog.Logger
}

// New creates a reading-list API client. A pageSize of zero or less falls
// back to DefaultPageSize.
func New(baseURL, consumerKey, accessToken string, pageSize int, logger *slog.Logger) *Client {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Client{
		baseURL:     baseURL,
		consumerKey: consumerKey,
		accessToken: accessToken,
		pageSize:    pageSize,
		httpc:       &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

// Stats summarizes the reading list.
type Stats struct {
	Unread   int `json:"unread"`
	Archived int `json:"archived"`
}

type page struct {
	List map[string]json.RawMessage `json:"list"`
}

type getRequest struct {
	ConsumerKey string `json:"consumer_key"`
	AccessToken string `json:"access_token"`
	State       string `json:"state"`
	DetailType  string `json:"detailType"`
	Offset      *int   `json:"offset,omitempty"`
	Count       *int   `json:"count,omitempty"`
}

// Stats fetches the unread queue size and pages through the archive until a
// short page signals the end.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	unread, err := c.get(ctx, "unread", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("readstats: fetch unread: %w", err)
	}

	archived := 0
	for offset := 0; ; offset += c.pageSize {
		pg, err := c.get(ctx, "archive", &offset, &c.pageSize)
		if err != nil {
			return nil, fmt.Errorf("readstats: fetch archive at offset %d: %w", offset, err)
		}
		archived += len(pg.List)
		c.logger.Info("requesting archived", slog.Int("total", archived))
		if len(pg.List) < c.pageSize {
			break
		}
	}

	return &Stats{Unread: len(unread.List), Archived: archived}, nil
}

func (c *Client) get(ctx context.Context, state string, offset, count *int) (*page, error) {
	body, err := json.Marshal(getRequest{
		ConsumerKey: c.consumerKey,
		AccessToken: c.accessToken,
		State:       state,
		DetailType:  "simple",
		Offset:      offset,
		Count:       count,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/get", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("X-Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var pg page
	if err := json.NewDecoder(resp.Body).Decode(&pg); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if pg.List == nil {
		return nil, fmt.Errorf("incorrect response from API: missing list")
	}
	return &pg, nil
}
