// Package official is the client for the program's official podcast feed.
// It is the authority both for which episode pages exist and for the
// publish-date history used by the backfill step.
package official

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"tal-archive/pkg/dates"
	"tal-archive/pkg/logger"
)

// Entry is one feed item reduced to what the pipeline needs: the episode
// page URL and the publish date as the feed gave it.
type Entry struct {
	Link      string
	Published string
}

// DefaultWindow is how many most-recent entries an unrecognized fetch mode
// falls back to.
const DefaultWindow = 1

const fetchTimeout = 30 * time.Second

// Client fetches and parses the official feed.
type Client struct {
	url    string
	parser *gofeed.Parser
	client *http.Client
}

// NewClient creates a client for the given feed URL.
func NewClient(feedURL string) *Client {
	return &Client{
		url:    feedURL,
		parser: gofeed.NewParser(),
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// Fetch downloads and parses the feed, returning its entries in feed order
// (most recent first). Items without a link or publish date are skipped.
func (c *Client) Fetch(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "tal-archive/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch official feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("official feed returned HTTP %d", resp.StatusCode)
	}

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse official feed: %w", err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		published := item.Published
		if published == "" && item.PublishedParsed != nil {
			published = dates.ToWire(*item.PublishedParsed)
		}
		if published == "" {
			continue
		}
		entries = append(entries, Entry{Link: item.Link, Published: published})
	}
	return entries, nil
}

// Window applies the fetch mode to the entry list: "all" keeps everything,
// "latest" keeps the single most recent entry, a number keeps that many.
// Anything else falls back to the default window with a warning.
func Window(entries []Entry, mode string) []Entry {
	mode = strings.ToLower(strings.TrimSpace(mode))
	switch mode {
	case "all":
		return entries
	case "latest", "":
		return head(entries, DefaultWindow)
	default:
		n, err := strconv.Atoi(mode)
		if err != nil || n < 0 {
			logger.Warnf("unrecognized fetch mode %q, using latest %d", mode, DefaultWindow)
			return head(entries, DefaultWindow)
		}
		return head(entries, n)
	}
}

func head(entries []Entry, n int) []Entry {
	if len(entries) <= n {
		return entries
	}
	return entries[:n]
}
