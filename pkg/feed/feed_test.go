package feed

import (
	"regexp"
	"strings"
	"testing"

	"tal-archive/pkg/domain"
)

func intPtr(n int) *int { return &n }

func testChannel() Channel {
	return Channel{
		Title:       "Test Archive",
		Link:        "https://example.com",
		Description: "Test feed",
		Language:    "en",
		ImageURL:    "https://example.com/cover.png",
	}
}

func baseEpisode() domain.Episode {
	return domain.Episode{
		Number:          "0001",
		Title:           "The First One",
		EpisodeURL:      "https://example.com/1",
		OriginalAirDate: "2008-08-22",
		PublishedDates:  []string{"2008-08-22"},
		Synopsis:        "An episode about beginnings.",
		Download:        "https://example.com/a.mp3",
		DownloadClean:   "https://example.com/a-clean.mp3",
		Explicit:        true,
		Acts: []domain.Act{
			{Number: 0, NumberText: "Prologue", Title: "Prologue", Summary: "Intro", Duration: intPtr(5), Contributors: []string{}},
		},
	}
}

func TestRender_EndToEnd(t *testing.T) {
	out, err := Render([]domain.Episode{baseEpisode()}, testChannel())
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	doc := string(out)

	if got := strings.Count(doc, "<item>"); got != 2 {
		t.Fatalf("expected 2 items, got %d\n%s", got, doc)
	}
	for _, want := range []string{
		"<guid>0001-20080822</guid>",
		"<guid>0001-20080822-C</guid>",
		"<![CDATA[0001: The First One]]>",
		"<![CDATA[0001: The First One (Clean)]]>",
		"<pubDate>Fri, 22 Aug 2008 00:00:00 +0000</pubDate>",
		"<itunes:duration>00:05:00</itunes:duration>",
		"<itunes:season>2008</itunes:season>",
		"<itunes:episode>0001</itunes:episode>",
		"<enclosure url=\"https://example.com/a.mp3\" type=\"audio/mpeg\"",
		"<enclosure url=\"https://example.com/a-clean.mp3\" type=\"audio/mpeg\"",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("feed missing %q", want)
		}
	}
}

func TestRender_FiltersEpisodesWithoutDownload(t *testing.T) {
	ep := baseEpisode()
	ep.Download = ""
	ep.DownloadClean = ""

	out, err := Render([]domain.Episode{ep}, testChannel())
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.Contains(string(out), "<item>") {
		t.Error("episode without download URL should be excluded from the feed")
	}
}

func TestRender_RepeatSuffix(t *testing.T) {
	ep := baseEpisode()
	ep.PublishedDates = []string{"2008-08-22", "2020-01-04"}

	out, err := Render([]domain.Episode{ep}, testChannel())
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	doc := string(out)
	if !strings.Contains(doc, "The First One - Repeat]]>") {
		t.Error("expected ' - Repeat' title suffix for episode republished in a later year")
	}
	if !strings.Contains(doc, "The First One - Repeat (Clean)]]>") {
		t.Error("clean variant should carry the repeat suffix before the (Clean) marker")
	}
	// The repeat republish also moves the GUID date and pubDate forward.
	if !strings.Contains(doc, "<guid>0001-20200104</guid>") {
		t.Error("GUID should use the latest publish date")
	}
}

func TestRender_NoRepeatSuffixSameYear(t *testing.T) {
	ep := baseEpisode()
	ep.PublishedDates = []string{"2008-08-22", "2008-12-01"}

	out, err := Render([]domain.Episode{ep}, testChannel())
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.Contains(string(out), "Repeat") {
		t.Error("episode republished within its air year must not be marked as a repeat")
	}
}

func TestRender_SortedByPublishInstantDescending(t *testing.T) {
	old := baseEpisode()
	old.Number = "0001"
	old.EpisodeURL = "https://example.com/1"
	old.DownloadClean = ""
	old.Explicit = false

	recent := baseEpisode()
	recent.Number = "0002"
	recent.EpisodeURL = "https://example.com/2"
	recent.OriginalAirDate = "2020-01-04"
	recent.PublishedDates = []string{"2020-01-04"}
	recent.DownloadClean = ""
	recent.Explicit = false

	out, err := Render([]domain.Episode{old, recent}, testChannel())
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	doc := string(out)

	guids := regexp.MustCompile(`<guid>([^<]+)</guid>`).FindAllStringSubmatch(doc, -1)
	if len(guids) != 2 {
		t.Fatalf("expected 2 guids, got %d", len(guids))
	}
	if guids[0][1] != "0002-20200104" || guids[1][1] != "0001-20080822" {
		t.Errorf("entries not sorted most recent first: %v, %v", guids[0][1], guids[1][1])
	}
}

// The explicit flag's polarity is inverted from the conventional meaning:
// the source marks an episode explicit exactly when a sanitized rendition
// exists. This test documents the observed behavior rather than fixing it.
func TestRender_ExplicitFlagPolarity(t *testing.T) {
	withClean := baseEpisode() // Explicit: true, DownloadClean present

	withoutClean := baseEpisode()
	withoutClean.Number = "0002"
	withoutClean.EpisodeURL = "https://example.com/2"
	withoutClean.DownloadClean = ""
	withoutClean.Explicit = false

	out, err := Render([]domain.Episode{withClean, withoutClean}, testChannel())
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	doc := string(out)

	if !strings.Contains(doc, "<itunes:explicit>true</itunes:explicit>") {
		t.Error("standard entry of an episode with a clean rendition should be explicit=true")
	}
	if !strings.Contains(doc, "<itunes:explicit>clean</itunes:explicit>") {
		t.Error("clean variant should be explicit=clean")
	}
	if !strings.Contains(doc, "<itunes:explicit>false</itunes:explicit>") {
		t.Error("episode without a clean rendition should be explicit=false")
	}
}

func TestRender_UnparseableDateAbortsWholeRender(t *testing.T) {
	good := baseEpisode()
	bad := baseEpisode()
	bad.Number = "0002"
	bad.EpisodeURL = "https://example.com/2"
	bad.OriginalAirDate = "sometime in august"

	out, err := Render([]domain.Episode{good, bad}, testChannel())
	if err == nil {
		t.Fatal("expected error for unparseable air date, got nil")
	}
	if out != nil {
		t.Error("no partial feed should be produced on a date format error")
	}
	if !strings.Contains(err.Error(), "https://example.com/2") {
		t.Errorf("error should identify the failing episode, got: %v", err)
	}
}

func TestRender_DescriptionTemplate(t *testing.T) {
	ep := baseEpisode()
	ep.Acts = []domain.Act{
		{Number: 0, NumberText: "Prologue", Title: "Prologue", Summary: "Intro", Duration: intPtr(5)},
		{Number: 1, NumberText: "Act One", Title: "Act One: The Act", Summary: "A story", Duration: intPtr(12), Contributors: []string{"Jane Doe", "John Roe"}},
		{Number: 2, NumberText: "Act Two", Title: "Act Two: Another", Summary: "No timing recorded"},
	}

	out, err := Render([]domain.Episode{ep}, testChannel())
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	doc := string(out)

	for _, want := range []string{
		`<a href="https://example.com/1">https://example.com/1</a>`,
		"An episode about beginnings.",
		"Prologue\nIntro (5 minutes)",
		"Act One\nA story (12 minutes) by Jane Doe, John Roe",
		"Act Two\nNo timing recorded",
		"Originally Aired: 2008-08-22",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("description missing %q", want)
		}
	}

	// Total duration: 5 + 12 + unknown(0) = 17 minutes.
	if !strings.Contains(doc, "<itunes:duration>00:17:00</itunes:duration>") {
		t.Error("expected aggregated duration 00:17:00")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "00:00:00"},
		{17, "00:17:00"},
		{60, "01:00:00"},
		{125, "02:05:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.minutes); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}
