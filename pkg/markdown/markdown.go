// Package markdown renders the episode collection as a browsable index
// table, sorted ascending by original air date. One row per episode; feed
// concerns like variant expansion and repeat-suffixing do not apply here.
package markdown

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"tal-archive/pkg/dates"
	"tal-archive/pkg/domain"
)

const placeholder = "-"

// Render produces the markdown index for the given episodes. Any episode
// whose air date cannot be parsed aborts the render.
func Render(episodes []domain.Episode) (string, error) {
	type row struct {
		episode *domain.Episode
		airDate time.Time
	}

	rows := make([]row, 0, len(episodes))
	for i := range episodes {
		ep := &episodes[i]
		airDate, err := dates.Parse(ep.OriginalAirDate)
		if err != nil {
			return "", fmt.Errorf("episode %s: air date: %w", ep.EpisodeURL, err)
		}
		rows = append(rows, row{episode: ep, airDate: airDate})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].airDate.Before(rows[j].airDate)
	})

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Title", "Release Date", "Download", "Clean", "Segments"})
	for _, r := range rows {
		ep := r.episode
		tw.AppendRow(table.Row{
			fmt.Sprintf("[%s](%s)", ep.DisplayTitle(), ep.EpisodeURL),
			dates.ToDisplay(r.airDate),
			downloadCell(ep.Download),
			downloadCell(ep.DownloadClean),
			segmentsCell(ep.Acts),
		})
	}

	return tw.RenderMarkdown() + "\n", nil
}

func downloadCell(url string) string {
	if url == "" {
		return placeholder
	}
	return fmt.Sprintf("[dl](%s)", url)
}

func segmentsCell(acts []domain.Act) string {
	titles := make([]string, 0, len(acts))
	for _, act := range acts {
		titles = append(titles, act.Title)
	}
	return strings.Join(titles, "; ")
}
