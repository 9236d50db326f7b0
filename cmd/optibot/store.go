// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/optisigns/optibot/internal/vectorstore"
	"github.com/optisigns/optibot/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the remote vector store",
}

var storeCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new vector store and record its id",
	Long: `Create provisions a new vector store and writes its id, name, and
creation time to a local YAML metadata file. Point vector_store.store_id (or
.secrets/vector-store-id) at the recorded id to sync against it.`,
	RunE: runStoreCreate,
}

func init() {
	storeCreateCmd.Flags().String("name", "OptiSigns Vector Store", "display name for the new store")
	storeCreateCmd.Flags().String("metadata-path", "", "where to record the created store (default data/vector_store.yaml)")

	storeCmd.AddCommand(storeCreateCmd)
	rootCmd.AddCommand(storeCmd)
}

func runStoreCreate(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")

	metaPath, _ := cmd.Flags().GetString("metadata-path")
	if metaPath == "" {
		metaPath = viper.GetString("vector_store.metadata_path")
	}
	if metaPath == "" {
		metaPath = "data/vector_store.yaml"
	}

	vsCfg := types.VectorStoreConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		BaseURL: viper.GetString("vector_store.base_url"),
		APIKey:  secretDefault("openai-api-key", viper.GetString("vector_store.api_key")),
	}

	client := vectorstore.NewClient(vsCfg)
	id, err := client.CreateStore(context.Background(), name, map[string]string{"source": "optibot"})
	if err != nil {
		return err
	}

	meta := types.StoreMetadata{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling store metadata: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(metaPath), 0o755); err != nil {
		return fmt.Errorf("creating metadata directory: %w", err)
	}
	if err := os.WriteFile(metaPath, data, 0o644); err != nil {
		return fmt.Errorf("writing store metadata: %w", err)
	}

	fmt.Printf("Created vector store %s (recorded in %s)\n", id, metaPath)
	return nil
}
