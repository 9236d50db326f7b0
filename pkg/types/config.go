package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "optibot/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScrapeConfig holds settings for the article scraping stage.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the Help Center API endpoint for article listing
	// (e.g. "https://support.optisigns.com/api/v2/help_center/en-us/articles.json").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Limit caps the number of articles fetched per run. Zero means no cap.
	Limit int `json:"limit" yaml:"limit"`

	// ArticlesDir is the directory where converted Markdown articles are written.
	ArticlesDir string `json:"articles_dir" yaml:"articles_dir"`
}

// SyncConfig holds settings for the vector store sync stage.
type SyncConfig struct {
	// ArticlesDir is the directory of Markdown articles to reconcile.
	ArticlesDir string `json:"articles_dir" yaml:"articles_dir"`

	// LedgerPath is the path of the persisted tracking ledger
	// (default "data/vector_files.json").
	LedgerPath string `json:"ledger_path" yaml:"ledger_path"`
}

// VectorStoreConfig holds settings for the remote vector store.
type VectorStoreConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the API root (default "https://api.openai.com/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey authenticates against the API. Usually supplied via
	// .secrets/openai-api-key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// StoreID identifies the vector store that files are attached to.
	StoreID string `json:"store_id" yaml:"store_id"`

	// MetadataPath is where `store create` records the created store
	// (default "data/vector_store.yaml").
	MetadataPath string `json:"metadata_path" yaml:"metadata_path"`
}

// ReportConfig holds settings for the run report log sink, an S3-compatible
// object store (DigitalOcean Spaces, MinIO, AWS S3).
type ReportConfig struct {
	// Bucket is the object store bucket name.
	Bucket string `json:"bucket" yaml:"bucket"`

	// Region is the object store region (e.g. "nyc3").
	Region string `json:"region" yaml:"region"`

	// Endpoint overrides the S3 endpoint for S3-compatible providers
	// (e.g. "https://nyc3.digitaloceanspaces.com"). Empty means AWS S3.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// Key is the object key of the append-only run log
	// (default "logs/vector_upload.log").
	Key string `json:"key" yaml:"key"`

	// AccessKey and SecretKey authenticate against the object store. Usually
	// supplied via .secrets/spaces-key and .secrets/spaces-secret.
	AccessKey string `json:"access_key,omitempty" yaml:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty" yaml:"secret_key,omitempty"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Scrape      ScrapeConfig      `json:"scrape" yaml:"scrape"`
	Sync        SyncConfig        `json:"sync" yaml:"sync"`
	VectorStore VectorStoreConfig `json:"vector_store" yaml:"vector_store"`
	Report      ReportConfig      `json:"report" yaml:"report"`
}
