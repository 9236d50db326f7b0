// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape articles, then sync them to the vector store",
	Long: `Run executes the full pipeline: scrape the Help Center into the articles
directory, then reconcile the directory against the vector store and report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runScrape(scrapeCmd, nil); err != nil {
			return err
		}
		return runSync(syncCmd, nil)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
