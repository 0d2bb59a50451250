// Package merge folds freshly scraped episodes into the persisted
// collection and back-fills publish-date history from the official feed.
// The pipeline is append-only: existing records are never overwritten or
// removed, only extended with new publish dates.
package merge

import (
	"fmt"
	"sort"
	"time"

	"tal-archive/pkg/dates"
	"tal-archive/pkg/domain"
	"tal-archive/pkg/official"
)

// Merge appends incoming episodes whose URL is not already present.
// Re-encountering a known URL is a no-op, which makes the merge
// idempotent.
func Merge(existing, incoming []domain.Episode) []domain.Episode {
	seen := make(map[string]bool, len(existing))
	for _, ep := range existing {
		seen[ep.EpisodeURL] = true
	}

	merged := existing
	for _, ep := range incoming {
		if seen[ep.EpisodeURL] {
			continue
		}
		seen[ep.EpisodeURL] = true
		merged = append(merged, ep)
	}
	return merged
}

// BackfillPublishDates appends each feed entry's publish date, in wire
// form, to the matching episode's history. Entries whose URL has no
// matching episode are ignored: the official feed may list episodes not
// yet scraped.
func BackfillPublishDates(episodes []domain.Episode, entries []official.Entry) error {
	byURL := make(map[string]*domain.Episode, len(episodes))
	for i := range episodes {
		byURL[episodes[i].EpisodeURL] = &episodes[i]
	}

	for _, entry := range entries {
		ep, ok := byURL[entry.Link]
		if !ok {
			continue
		}
		t, err := dates.Parse(entry.Published)
		if err != nil {
			return fmt.Errorf("feed entry %s: %w", entry.Link, err)
		}
		appendUnique(ep, dates.ToWire(t))
	}
	return nil
}

// NormalizePublishDates parses every recorded publish date, deduplicates
// by instant, and rewrites the history in wire form sorted ascending. An
// episode with no history falls back to its original air date.
func NormalizePublishDates(ep *domain.Episode) error {
	texts := ep.PublishedDates
	if len(texts) == 0 {
		texts = []string{ep.OriginalAirDate}
	}

	seen := make(map[int64]bool, len(texts))
	instants := make([]int64, 0, len(texts))
	for _, s := range texts {
		t, err := dates.Parse(s)
		if err != nil {
			return fmt.Errorf("episode %s: publish date: %w", ep.EpisodeURL, err)
		}
		unix := t.Unix()
		if seen[unix] {
			continue
		}
		seen[unix] = true
		instants = append(instants, unix)
	}

	sort.Slice(instants, func(i, j int) bool { return instants[i] < instants[j] })

	normalized := make([]string, len(instants))
	for i, unix := range instants {
		normalized[i] = dates.ToWire(unixUTC(unix))
	}
	ep.PublishedDates = normalized
	return nil
}

func unixUTC(unix int64) time.Time {
	return time.Unix(unix, 0).UTC()
}

func appendUnique(ep *domain.Episode, date string) {
	for _, existing := range ep.PublishedDates {
		if existing == date {
			return
		}
	}
	ep.PublishedDates = append(ep.PublishedDates, date)
}
