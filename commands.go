package main

import (
	"github.com/spf13/cobra"

	"tal-archive/pkg/config"
	"tal-archive/pkg/logger"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var cfg config.Config

	root := &cobra.Command{
		Use:           "tal-archive",
		Short:         "Scrape the radio archive and regenerate its feed and index",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configFlag)
			if err != nil {
				return err
			}
			cfg = loaded
			return logger.Init(logger.Config{
				Level:      cfg.Log.Level,
				File:       cfg.Log.File,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAgeDays: cfg.Log.MaxAgeDays,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	root.AddCommand(&cobra.Command{
		Use:   "scrape",
		Short: "Fetch new episodes from the official feed and update the collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd.Context(), cfg)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "feed",
		Short: "Render the podcast feed from the persisted collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(cfg)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "markdown",
		Short: "Render the episode index table from the persisted collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMarkdown(cfg)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Scrape, then regenerate both artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runScrape(cmd.Context(), cfg); err != nil {
				return err
			}
			if err := runFeed(cfg); err != nil {
				return err
			}
			return runMarkdown(cfg)
		},
	})

	return root
}
