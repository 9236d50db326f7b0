// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/optisigns/optibot/internal/reconcile"
	"github.com/optisigns/optibot/internal/report"
	"github.com/optisigns/optibot/internal/store"
	"github.com/optisigns/optibot/internal/vectorstore"
	"github.com/optisigns/optibot/pkg/types"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile local articles against the remote vector store",
	Long: `Sync compares every article file against the tracking ledger, uploads
new and changed articles to the vector store, detaches superseded files, and
rewrites the ledger. A run summary is appended to the log object when a
report bucket is configured; unchanged articles cost no remote calls.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().String("articles-dir", "", "directory of Markdown articles (default articles)")
	syncCmd.Flags().String("ledger", "", "tracking ledger path (default data/vector_files.json)")
	syncCmd.Flags().String("store-id", "", "vector store id (default from config or .secrets/vector-store-id)")

	rootCmd.AddCommand(syncCmd)
}

func syncConfig(cmd *cobra.Command) (types.SyncConfig, types.VectorStoreConfig, types.ReportConfig) {
	syncCfg := types.SyncConfig{
		ArticlesDir: viper.GetString("sync.articles_dir"),
		LedgerPath:  viper.GetString("sync.ledger_path"),
	}
	if v, _ := cmd.Flags().GetString("articles-dir"); v != "" {
		syncCfg.ArticlesDir = v
	}
	if v, _ := cmd.Flags().GetString("ledger"); v != "" {
		syncCfg.LedgerPath = v
	}
	if syncCfg.ArticlesDir == "" {
		syncCfg.ArticlesDir = "articles"
	}
	if syncCfg.LedgerPath == "" {
		syncCfg.LedgerPath = "data/vector_files.json"
	}

	vsCfg := types.VectorStoreConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		BaseURL: viper.GetString("vector_store.base_url"),
		APIKey:  secretDefault("openai-api-key", viper.GetString("vector_store.api_key")),
		StoreID: secretDefault("vector-store-id", viper.GetString("vector_store.store_id")),
	}
	if v, _ := cmd.Flags().GetString("store-id"); v != "" {
		vsCfg.StoreID = v
	}

	repCfg := types.ReportConfig{
		Bucket:    viper.GetString("report.bucket"),
		Region:    viper.GetString("report.region"),
		Endpoint:  viper.GetString("report.endpoint"),
		Key:       viper.GetString("report.key"),
		AccessKey: secretDefault("spaces-key", viper.GetString("report.access_key")),
		SecretKey: secretDefault("spaces-secret", viper.GetString("report.secret_key")),
	}

	return syncCfg, vsCfg, repCfg
}

func runSync(cmd *cobra.Command, args []string) error {
	syncCfg, vsCfg, repCfg := syncConfig(cmd)

	if vsCfg.StoreID == "" {
		return fmt.Errorf("vector store id required: set --store-id, vector_store.store_id, or .secrets/vector-store-id")
	}

	ctx := context.Background()
	syncer := &reconcile.Syncer{
		Store:      store.New(syncCfg.ArticlesDir),
		Remote:     vectorstore.NewClient(vsCfg),
		LedgerPath: syncCfg.LedgerPath,
	}

	summary, err := syncer.Run(ctx, os.Stdout)
	if err != nil {
		return err
	}

	// The sync is committed at this point; a report failure only costs
	// observability.
	if repCfg.Bucket == "" {
		fmt.Fprintln(os.Stderr, "report bucket not configured, skipping log upload")
		return nil
	}

	reporter, err := report.New(ctx, repCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: report sink unavailable: %v\n", err)
		return nil
	}
	url, err := reporter.Publish(ctx, summary)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: report upload failed: %v\n", err)
		return nil
	}
	fmt.Printf("Report: %s\n", url)
	return nil
}
