package main

import (
	"context"
	"errors"
	"time"

	"tal-archive/pkg/config"
	"tal-archive/pkg/domain"
	"tal-archive/pkg/feed"
	"tal-archive/pkg/logger"
	"tal-archive/pkg/markdown"
	"tal-archive/pkg/merge"
	"tal-archive/pkg/official"
	"tal-archive/pkg/scraper"
	"tal-archive/pkg/store"
)

// runScrape fetches the official feed, scrapes episode pages not yet in
// the collection, merges them in, backfills publish dates from the whole
// feed, and saves. The fetch-mode window limits scraping only; backfill
// always sees every feed entry.
func runScrape(ctx context.Context, cfg config.Config) error {
	episodes, err := store.Load(cfg.DataFile)
	if err != nil {
		return err
	}

	entries, err := official.NewClient(cfg.OfficialFeedURL).Fetch(ctx)
	if err != nil {
		return err
	}
	logger.Infof("official feed has %d entries, collection has %d episodes", len(entries), len(episodes))

	known := make(map[string]bool, len(episodes))
	for _, ep := range episodes {
		known[ep.EpisodeURL] = true
	}

	s := scraper.New(time.Duration(cfg.FetchDelaySeconds) * time.Second)
	var incoming []domain.Episode
	for _, entry := range official.Window(entries, cfg.FetchMode) {
		if known[entry.Link] {
			continue
		}
		ep, err := s.ScrapeEpisode(ctx, entry.Link)
		if err != nil {
			// A failed page is skipped, not fatal: the next run will
			// pick it up again since it was never persisted.
			if errors.Is(err, scraper.ErrNoDownload) {
				logger.Infof("skipping %s: no download link", entry.Link)
			} else {
				logger.Warnf("skipping %s: %v", entry.Link, err)
			}
			continue
		}
		logger.Infof("scraped %s: %s", ep.Number, ep.Title)
		incoming = append(incoming, *ep)
	}

	episodes = merge.Merge(episodes, incoming)
	if err := merge.BackfillPublishDates(episodes, entries); err != nil {
		return err
	}
	for i := range episodes {
		if err := merge.NormalizePublishDates(&episodes[i]); err != nil {
			return err
		}
	}

	logger.Infof("saving %d episodes (%d new)", len(episodes), len(incoming))
	return store.Save(cfg.DataFile, episodes)
}

// runFeed renders feed.xml. The render runs fully in memory and the file
// is replaced atomically, so a failed render leaves the old feed intact.
func runFeed(cfg config.Config) error {
	episodes, err := store.Load(cfg.DataFile)
	if err != nil {
		return err
	}

	out, err := feed.Render(episodes, feed.Channel{
		Title:       cfg.Channel.Title,
		Link:        cfg.Channel.Link,
		Description: cfg.Channel.Description,
		Language:    cfg.Channel.Language,
		Copyright:   cfg.Channel.Copyright,
		ImageURL:    cfg.Channel.ImageURL,
	})
	if err != nil {
		return err
	}

	if err := store.WriteFileAtomic(cfg.FeedFile, out); err != nil {
		return err
	}
	logger.Infof("wrote %s", cfg.FeedFile)
	return nil
}

// runMarkdown renders the episode index with the same no-partial-write
// guarantee as the feed.
func runMarkdown(cfg config.Config) error {
	episodes, err := store.Load(cfg.DataFile)
	if err != nil {
		return err
	}

	out, err := markdown.Render(episodes)
	if err != nil {
		return err
	}

	if err := store.WriteFileAtomic(cfg.MarkdownFile, []byte(out)); err != nil {
		return err
	}
	logger.Infof("wrote %s", cfg.MarkdownFile)
	return nil
}
