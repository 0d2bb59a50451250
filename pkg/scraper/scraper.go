// Package scraper extracts episode records from the program's episode
// pages. Selectors target the site's Drupal field markup. A failed page
// fetch is tolerated by the caller (skip and continue); the scraper never
// returns a partial record.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"tal-archive/pkg/domain"
)

// ErrNoDownload marks an episode page without a standard audio download.
// Such pages are not persisted, matching the feed eligibility rule.
var ErrNoDownload = errors.New("episode page has no download link")

const (
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	fetchTimeout = 30 * time.Second
)

// actWords maps the spelled-out act labels used on episode pages to their
// numeric position. The prologue is act 0.
var actWords = map[string]int{
	"One": 1, "Two": 2, "Three": 3, "Four": 4, "Five": 5,
	"Six": 6, "Seven": 7, "Eight": 8, "Nine": 9, "Ten": 10,
}

var durationRe = regexp.MustCompile(`\((\d+)\s*minutes?\)`)
var durationStripRe = regexp.MustCompile(`\s*\(\d+\s*minutes?\)`)

// Scraper fetches and parses episode pages with a fixed politeness delay
// between requests.
type Scraper struct {
	client *http.Client
	delay  time.Duration
}

// New creates a scraper that waits delay between successive page fetches.
func New(delay time.Duration) *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: fetchTimeout},
		delay:  delay,
	}
}

// ScrapeEpisode fetches one episode page and builds its record. Returns
// ErrNoDownload when the page lacks a standard audio link.
func (s *Scraper) ScrapeEpisode(ctx context.Context, url string) (*domain.Episode, error) {
	doc, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return parseEpisode(doc, url)
}

func (s *Scraper) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned HTTP %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}

	// Politeness delay after every page fetch.
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return doc, nil
}

// parseEpisode pulls the episode fields out of a parsed page.
func parseEpisode(doc *goquery.Document, url string) (*domain.Episode, error) {
	download, ok := doc.Find("li.download a").First().Attr("href")
	if !ok || download == "" {
		return nil, ErrNoDownload
	}

	downloadClean := ""
	if href, ok := doc.Find(".field-name-field-notes a[href*='/clean/']").First().Attr("href"); ok {
		downloadClean = href
	}

	airDate := text(doc.Find(".field-name-field-radio-air-date .date-display-single").First())

	ep := &domain.Episode{
		Title:           text(doc.Find("h1").First()),
		Number:          text(doc.Find(".field-name-field-episode-number .field-item").First()),
		OriginalAirDate: airDate,
		EpisodeURL:      url,
		Synopsis:        text(doc.Find(".field-name-body .field-item").First()),
		Download:        download,
		DownloadClean:   downloadClean,
		// The flag is set exactly when a sanitized rendition exists; the
		// inverted polarity is preserved from the source data.
		Explicit: downloadClean != "",
		Acts:     parseActs(doc),
	}

	if src, ok := doc.Find("figure.tal-episode-image img").First().Attr("src"); ok && src != "" {
		ep.Image = &domain.Image{
			URL:    src,
			Credit: text(doc.Find("figure.tal-episode-image .credit a").First()),
		}
	}

	if airDate != "" {
		ep.PublishedDates = []string{airDate}
	}
	return ep, nil
}

// parseActs extracts the act records in page order.
func parseActs(doc *goquery.Document) []domain.Act {
	var acts []domain.Act
	doc.Find("article.node-act").Each(func(_ int, sel *goquery.Selection) {
		label := text(sel.Find(".field-name-field-act-label .field-item").First())
		actTitle := text(sel.Find("h2.act-header a").First())
		isPrologue := strings.Contains(strings.ToLower(actTitle), "prologue")
		if label == "" && !isPrologue {
			return
		}

		var act domain.Act
		if isPrologue {
			act.Number = 0
			act.NumberText = "Prologue"
			act.Title = actTitle
		} else {
			word := strings.TrimSpace(strings.NewReplacer("Act ", "", "Part ", "").Replace(label))
			act.Number = actNumber(word)
			act.NumberText = "Act " + word
			act.Title = act.NumberText + ": " + actTitle
		}

		summary := joinedText(sel.Find(".field-name-body .field-item").First())
		if m := durationRe.FindStringSubmatch(summary); m != nil {
			minutes, _ := strconv.Atoi(m[1])
			act.Duration = &minutes
		}
		act.Summary = strings.TrimSpace(durationStripRe.ReplaceAllString(summary, ""))

		sel.Find("div.field-name-field-contributor a").Each(func(_ int, a *goquery.Selection) {
			act.Contributors = append(act.Contributors, text(a))
		})

		acts = append(acts, act)
	})
	return acts
}

func actNumber(word string) int {
	if n, ok := actWords[word]; ok {
		return n
	}
	if n, err := strconv.Atoi(word); err == nil {
		return n
	}
	return 0
}

func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

// joinedText flattens an element's text with single spaces, the way the
// act summaries are laid out across nested markup.
func joinedText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}
