// Package wiki looks up article summaries on the Wikipedia REST API.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"noah/internal/httpkit"
)

const defaultBaseURL = "https://en.wikipedia.org/api/rest_v1"

// Sentinel errors the caller can branch on for user-facing phrasing.
var (
	// ErrNotFound means no article matches the topic.
	ErrNotFound = errors.New("wiki: page not found")
	// ErrAmbiguous means the topic resolves to a disambiguation page.
	ErrAmbiguous = errors.New("wiki: topic is ambiguous")
)

// Summary is the lead section of an article.
type Summary struct {
	Title   string
	Extract string
	URL     string
}

// Client fetches article summaries.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a Wikipedia client with sane timeouts.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: defaultBaseURL,
		http:    httpkit.NewClient(httpkit.WithTimeout(15 * time.Second)),
		logger:  logger.With("component", "wiki"),
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

type summaryResponse struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ExtractHTML string `json:"extract_html"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Lookup fetches the summary for topic. Returns ErrNotFound for
// missing pages and ErrAmbiguous for disambiguation pages.
func (c *Client) Lookup(ctx context.Context, topic string) (*Summary, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrNotFound
	}

	// The REST API wants underscores, not spaces, in the title slug.
	slug := url.PathEscape(strings.ReplaceAll(topic, " ", "_"))
	endpoint := fmt.Sprintf("%s/page/summary/%s", c.baseURL, slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("wiki: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wiki: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wiki: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("wiki: read response: %w", err)
	}

	var sr summaryResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("wiki: decode response: %w", err)
	}

	if sr.Type == "disambiguation" {
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, sr.Title)
	}

	extract := strings.TrimSpace(sr.Extract)
	if extract == "" {
		// Some mirrors populate only the HTML variant.
		extract = htmlToText(sr.ExtractHTML)
	}
	if extract == "" {
		return nil, ErrNotFound
	}

	c.logger.Debug("summary fetched", "topic", topic, "title", sr.Title)
	return &Summary{
		Title:   sr.Title,
		Extract: extract,
		URL:     sr.ContentURLs.Desktop.Page,
	}, nil
}

// FirstSentences returns at most n sentences of the extract. Wikipedia
// extracts use ". " between sentences often enough for a simple split.
func (s *Summary) FirstSentences(n int) string {
	if n <= 0 {
		return ""
	}
	parts := strings.SplitAfter(s.Extract, ". ")
	if len(parts) <= n {
		return s.Extract
	}
	return strings.TrimSpace(strings.Join(parts[:n], ""))
}
