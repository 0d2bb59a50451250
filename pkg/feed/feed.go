// Package feed renders the persisted episode collection into a podcast
// RSS 2.0 document with itunes extensions. Episodes without a standard
// download URL are excluded; episodes with a sanitized rendition produce a
// second "(Clean)" entry. A single unparseable date aborts the whole render
// so a partial feed is never written.
package feed

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
	"time"

	"tal-archive/pkg/dates"
	"tal-archive/pkg/domain"
)

// Channel is the fixed document envelope. Its content is configuration,
// not derived from the records.
type Channel struct {
	Title       string
	Link        string
	Description string
	Language    string
	Copyright   string
	ImageURL    string
}

const enclosureType = "audio/mpeg"

// entry pairs a rendered item with its sort key.
type entry struct {
	item    rssItem
	pubDate time.Time
}

// Render produces the complete feed document for the given episodes.
func Render(episodes []domain.Episode, ch Channel) ([]byte, error) {
	var entries []entry
	for i := range episodes {
		ep := &episodes[i]
		if !ep.Eligible() {
			continue
		}
		expanded, err := expandEpisode(ep)
		if err != nil {
			return nil, fmt.Errorf("episode %s: %w", ep.EpisodeURL, err)
		}
		entries = append(entries, expanded...)
	}

	// Most recent first. The sort is stable so entries sharing a publish
	// instant keep their original relative position.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].pubDate.After(entries[j].pubDate)
	})

	doc := rssDoc{
		Version:  "2.0",
		ItunesNS: "http://www.itunes.com/dtds/podcast-1.0.dtd",
		Channel: rssChannel{
			Title:       ch.Title,
			Link:        ch.Link,
			Description: ch.Description,
			Language:    ch.Language,
			Copyright:   ch.Copyright,
		},
	}
	if ch.ImageURL != "" {
		doc.Channel.Image = &itunesImage{Href: ch.ImageURL}
	}
	for _, e := range entries {
		doc.Channel.Items = append(doc.Channel.Items, e.item)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize feed: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// expandEpisode emits the standard entry for an eligible episode, plus the
// clean-variant entry when a sanitized rendition exists.
func expandEpisode(ep *domain.Episode) ([]entry, error) {
	airDate, err := dates.Parse(ep.OriginalAirDate)
	if err != nil {
		return nil, fmt.Errorf("original air date: %w", err)
	}
	latest, err := dates.Latest(ep.PublishedDates, airDate)
	if err != nil {
		return nil, fmt.Errorf("published dates: %w", err)
	}

	title := ep.DisplayTitle()
	if latest.Year() != airDate.Year() {
		title += " - Repeat"
	}

	guid := domain.PaddedNumber(ep.Number) + "-" + latest.Format("20060102")
	description := buildDescription(ep, airDate)
	duration := formatDuration(ep.TotalMinutes())

	base := rssItem{
		Link:        ep.EpisodeURL,
		Season:      airDate.Year(),
		Episode:     ep.Number,
		EpisodeType: "full",
		Description: cdata{description},
		PubDate:     dates.ToWire(latest),
		Duration:    duration,
	}
	if ep.Image != nil && ep.Image.URL != "" {
		base.Image = &itunesImage{Href: ep.Image.URL}
	}

	standard := base
	standard.Title = cdata{title}
	standard.GUID = guid
	// The explicit flag polarity is inherited from the source data: it is
	// set exactly when a clean rendition exists. Preserved as-is for
	// compatibility with existing subscribers.
	standard.Explicit = explicitValue(ep.Explicit)
	standard.Enclosure = enclosure{URL: ep.Download, Type: enclosureType}

	entries := []entry{{item: standard, pubDate: latest}}

	if ep.HasClean() {
		clean := base
		clean.Title = cdata{title + " (Clean)"}
		clean.GUID = guid + "-C"
		clean.Explicit = "clean"
		clean.Enclosure = enclosure{URL: ep.DownloadClean, Type: enclosureType}
		entries = append(entries, entry{item: clean, pubDate: latest})
	}

	return entries, nil
}

// buildDescription assembles the free-text body: the episode link, the
// synopsis, one block per act, and the original air date.
func buildDescription(ep *domain.Episode, airDate time.Time) string {
	lines := []string{
		fmt.Sprintf("<a href=%q>%s</a>", ep.EpisodeURL, ep.EpisodeURL),
		"",
		strings.TrimSpace(ep.Synopsis),
		"",
	}
	for _, act := range ep.Acts {
		lines = append(lines, act.NumberText)
		summary := strings.TrimSpace(act.Summary)
		if act.Duration != nil {
			summary += fmt.Sprintf(" (%d minutes)", *act.Duration)
		}
		if len(act.Contributors) > 0 {
			summary += " by " + strings.Join(act.Contributors, ", ")
		}
		lines = append(lines, summary, "")
	}
	lines = append(lines, "Originally Aired: "+dates.ToDisplay(airDate))
	return strings.Join(lines, "\n")
}

// formatDuration renders total minutes as zero-padded HH:MM:00.
func formatDuration(totalMinutes int) string {
	hours, minutes := totalMinutes/60, totalMinutes%60
	return fmt.Sprintf("%02d:%02d:00", hours, minutes)
}

func explicitValue(explicit bool) string {
	if explicit {
		return "true"
	}
	return "false"
}
