package domain

import (
	"fmt"
	"strings"
)

// Episode represents one broadcast unit of the radio archive.
// EpisodeURL is the canonical source URL and the sole dedup key for the
// persisted collection. Dates are kept as text until normalized; once
// normalized, PublishedDates holds wire-form (RFC-822) strings sorted
// ascending.
type Episode struct {
	Number          string   `json:"number"`
	Title           string   `json:"title"`
	OriginalAirDate string   `json:"original_air_date"`
	EpisodeURL      string   `json:"episode_url"`
	Explicit        bool     `json:"explicit"`
	Synopsis        string   `json:"synopsis"`
	Download        string   `json:"download,omitempty"`
	DownloadClean   string   `json:"download_clean,omitempty"`
	Image           *Image   `json:"image,omitempty"`
	Acts            []Act    `json:"acts"`
	PublishedDates  []string `json:"published_dates"`
}

// Act represents one segment of an episode. Number 0 is reserved for the
// prologue. Insertion order is broadcast order and must be preserved.
type Act struct {
	Number       int      `json:"number"`
	NumberText   string   `json:"number_text"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	Duration     *int     `json:"duration"`
	Contributors []string `json:"contributors"`
}

// Image is an optional episode illustration with its photo credit.
type Image struct {
	URL    string `json:"url"`
	Credit string `json:"credit,omitempty"`
}

// Eligible reports whether the episode can appear in the podcast feed.
// Episodes without a standard download URL are excluded, not an error.
func (e *Episode) Eligible() bool {
	return e.Download != ""
}

// HasClean reports whether a sanitized audio rendition exists, which
// causes a second feed entry to be emitted.
func (e *Episode) HasClean() bool {
	return e.DownloadClean != ""
}

// TotalMinutes sums the act durations; acts with no recorded duration
// count as zero.
func (e *Episode) TotalMinutes() int {
	total := 0
	for _, act := range e.Acts {
		if act.Duration != nil {
			total += *act.Duration
		}
	}
	return total
}

// PaddedNumber zero-pads an episode number to four characters. Numbers
// are stored as given and may contain non-numeric characters, so this is
// plain string padding, not numeric formatting.
func PaddedNumber(number string) string {
	if len(number) >= 4 {
		return number
	}
	return strings.Repeat("0", 4-len(number)) + number
}

// DisplayTitle is the "number: title" form used by both renderers.
func (e *Episode) DisplayTitle() string {
	return fmt.Sprintf("%s: %s", e.Number, e.Title)
}
