// Package dates normalizes the closed set of textual date formats found in
// the archive into UTC instants, and renders instants back into display or
// wire form. Unknown formats are rejected with a FormatError; there is no
// best-guess fallback.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// FormatError reports a date string that matched none of the known formats.
type FormatError struct {
	Text string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unknown date format: %q", e.Text)
}

const (
	wireLayout    = "Mon, 02 Jan 2006 15:04:05 -0700"
	displayLayout = "2006-01-02"
)

// layouts are tried in order; the first match wins. RFC-822 forms go first
// because their weekday prefix is unambiguous; the long month-name form goes
// last since its month tokens overlap with the RFC-822 ones.
var layouts = []string{
	wireLayout,
	time.RFC1123, // RFC-822 with a named zone (GMT), seen in some feeds
	displayLayout,
	"January 2, 2006",
}

// Parse converts one of the recognized textual date forms into a UTC
// instant. Forms without a time component default to midnight UTC.
func Parse(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &FormatError{Text: text}
}

// ToDisplay renders an instant as a YYYY-MM-DD calendar date.
func ToDisplay(t time.Time) string {
	return t.UTC().Format(displayLayout)
}

// ToWire renders an instant in the RFC-822 form the feed format requires,
// e.g. "Fri, 22 Aug 2008 00:00:00 +0000". This is also the canonical form
// stored in the persisted collection.
func ToWire(t time.Time) string {
	return t.UTC().Format(wireLayout)
}

// Latest returns the most recent instant among the given date strings, or
// fallback when the slice is empty. Any unparseable entry is an error: a
// malformed publish date cannot be defaulted without risking wrong
// chronological ordering downstream.
func Latest(texts []string, fallback time.Time) (time.Time, error) {
	if len(texts) == 0 {
		return fallback, nil
	}
	var latest time.Time
	for i, s := range texts {
		t, err := Parse(s)
		if err != nil {
			return time.Time{}, err
		}
		if i == 0 || t.After(latest) {
			latest = t
		}
	}
	return latest, nil
}
