// Package config defines the explicit configuration passed into the
// pipeline: file locations, the official feed, the fetch mode, and the
// fixed channel envelope of the generated feed.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	// DataFile is the persisted episode collection, the single source of
	// truth between runs.
	DataFile     string `yaml:"data_file"`
	FeedFile     string `yaml:"feed_file"`
	MarkdownFile string `yaml:"markdown_file"`

	// OfficialFeedURL is the program's own podcast feed, used both to
	// discover episode pages and to backfill publish dates.
	OfficialFeedURL string `yaml:"official_feed_url"`

	// FetchMode selects how many most-recent feed entries to scrape:
	// "latest", "all", or a number. Unrecognized values fall back to the
	// default count.
	FetchMode string `yaml:"fetch_mode"`

	// FetchDelaySeconds is the politeness delay between page fetches.
	FetchDelaySeconds int `yaml:"fetch_delay_seconds"`

	Channel ChannelConfig `yaml:"channel"`
	Log     LogConfig     `yaml:"log"`
}

// ChannelConfig is the feed's fixed document envelope.
type ChannelConfig struct {
	Title       string `yaml:"title"`
	Link        string `yaml:"link"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
	Copyright   string `yaml:"copyright"`
	ImageURL    string `yaml:"image_url"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataFile:          "data.json",
		FeedFile:          "feed.xml",
		MarkdownFile:      "episodes.md",
		OfficialFeedURL:   "https://thisamericanlife.org/podcast/rss.xml",
		FetchMode:         "latest",
		FetchDelaySeconds: 1,
		Channel: ChannelConfig{
			Title:       "That American Archive",
			Link:        "https://www.thisamericanlife.org",
			Description: "Autogenerated feed of the This American Life archive with explicit and clean episodes.",
			Language:    "en",
			Copyright:   "Copyright © Ira Glass / This American Life",
			ImageURL:    "https://i.imgur.com/pTMCfn9.png",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the configuration file at path, filling unset fields with
// defaults. An empty path returns the defaults. The SCRAPE_MODE
// environment variable, when set, overrides the fetch mode.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		applyDefaults(&cfg)
	}

	if mode := os.Getenv("SCRAPE_MODE"); mode != "" {
		cfg.FetchMode = mode
	}
	return cfg, nil
}

// applyDefaults fills fields the file left empty.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.DataFile == "" {
		cfg.DataFile = def.DataFile
	}
	if cfg.FeedFile == "" {
		cfg.FeedFile = def.FeedFile
	}
	if cfg.MarkdownFile == "" {
		cfg.MarkdownFile = def.MarkdownFile
	}
	if cfg.OfficialFeedURL == "" {
		cfg.OfficialFeedURL = def.OfficialFeedURL
	}
	if cfg.FetchMode == "" {
		cfg.FetchMode = def.FetchMode
	}
	if cfg.FetchDelaySeconds <= 0 {
		cfg.FetchDelaySeconds = def.FetchDelaySeconds
	}
	if cfg.Channel.Title == "" {
		cfg.Channel = def.Channel
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
}
