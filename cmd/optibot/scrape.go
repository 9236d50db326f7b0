// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/optisigns/optibot/internal/convert"
	"github.com/optisigns/optibot/internal/scrape"
	"github.com/optisigns/optibot/internal/store"
	"github.com/optisigns/optibot/internal/zendesk"
	"github.com/optisigns/optibot/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "optibot/0.1"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch Help Center articles and write them as Markdown files",
	Long: `Scrape lists articles from the Help Center API, converts each HTML body
to Markdown, and writes one file per article into the articles directory.
Existing files are overwritten so the directory always mirrors the source.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().String("base-url", "", "Help Center article listing endpoint")
	scrapeCmd.Flags().Int("limit", 0, "maximum number of articles to fetch (0 = all)")
	scrapeCmd.Flags().String("articles-dir", "", "directory for Markdown articles (default articles)")
	scrapeCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	rootCmd.AddCommand(scrapeCmd)
}

func scrapeConfig(cmd *cobra.Command) types.ScrapeConfig {
	cfg := types.ScrapeConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		BaseURL:     viper.GetString("scrape.base_url"),
		Limit:       viper.GetInt("scrape.limit"),
		ArticlesDir: viper.GetString("scrape.articles_dir"),
	}

	if v, _ := cmd.Flags().GetString("base-url"); v != "" {
		cfg.BaseURL = v
	}
	if v, _ := cmd.Flags().GetInt("limit"); v > 0 {
		cfg.Limit = v
	}
	if v, _ := cmd.Flags().GetString("articles-dir"); v != "" {
		cfg.ArticlesDir = v
	}
	if v, _ := cmd.Flags().GetDuration("timeout"); v > 0 {
		cfg.Timeout = v
	}
	if cfg.ArticlesDir == "" {
		cfg.ArticlesDir = "articles"
	}
	return cfg
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg := scrapeConfig(cmd)

	result, err := scrape.Run(
		context.Background(),
		zendesk.NewClient(cfg),
		convert.NewHTMLMarkdown(),
		store.New(cfg.ArticlesDir),
		cfg.Limit,
		os.Stdout,
	)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d article(s) failed scraping", result.Failed)
	}
	return nil
}
