// Package config loads the docchat configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// Provider names accepted in the embedding and llm sections.
const (
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
)

// Index backends accepted in the index section.
const (
	IndexQdrant = "qdrant"
	IndexMemory = "memory"
)

// Blob backends accepted in the blob section.
const (
	BlobFile = "file"
	BlobS3   = "s3"
	BlobNone = "none"
)

// Config is the full docchat configuration, loaded from TOML.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Index     IndexConfig     `toml:"index"`
	Blob      BlobConfig      `toml:"blob"`
	Ingest    IngestConfig    `toml:"ingest"`
	Storage   StorageConfig   `toml:"storage"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default :8080).
	Addr string `toml:"addr"`

	// APIToken protects the API with bearer auth. Empty disables auth,
	// which is only sensible on localhost.
	APIToken string `toml:"api_token"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider   string `toml:"provider"`
	BaseURL    string `toml:"base_url"`
	APIKey     string `toml:"api_key"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
}

// LLMConfig selects and configures the completion provider.
type LLMConfig struct {
	Provider    string  `toml:"provider"`
	BaseURL     string  `toml:"base_url"`
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
}

// IndexConfig selects and configures the vector index.
type IndexConfig struct {
	Provider   string `toml:"provider"`
	BaseURL    string `toml:"base_url"`
	APIKey     string `toml:"api_key"`
	Collection string `toml:"collection"`
}

// BlobConfig selects and configures the raw file archive.
type BlobConfig struct {
	Provider        string `toml:"provider"`
	Dir             string `toml:"dir"`
	Endpoint        string `toml:"endpoint"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
	Bucket          string `toml:"bucket"`
	Prefix          string `toml:"prefix"`
	UseSSL          bool   `toml:"use_ssl"`
}

// IngestConfig tunes chunking and embedding throughput.
type IngestConfig struct {
	ChunkSize            int    `toml:"chunk_size"`
	ChunkOverlap         int    `toml:"chunk_overlap"`
	BatchSize            int    `toml:"batch_size"`
	MaxConcurrentBatches int    `toml:"max_concurrent_batches"`
	TopK                 int    `toml:"top_k"`
	WatchDir             string `toml:"watch_dir"`
}

// StorageConfig locates the document ledger.
type StorageConfig struct {
	// DataDir holds the ledger database (default ~/.docchat/data).
	DataDir string `toml:"data_dir"`
}

// Default returns the configuration used when no file exists: local
// Ollama for models, in-memory index, no blob archive, no auth.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Embedding: EmbeddingConfig{
			Provider: ProviderOllama,
		},
		LLM: LLMConfig{
			Provider: ProviderOllama,
		},
		Index: IndexConfig{
			Provider: IndexMemory,
		},
		Blob: BlobConfig{
			Provider: BlobNone,
		},
	}
}

// Load reads the configuration at path, or the defaults when path is ""
// and no file exists at the standard location (~/.docchat/config.toml).
// API keys and the server token fall back to environment variables so
// secrets can stay out of the file.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".docchat", "config.toml")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parse %s: %w", domain.ErrInvalidConfiguration, path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine, defaults apply.
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv fills empty secrets from the environment.
func (c *Config) applyEnv() {
	if c.Server.APIToken == "" {
		c.Server.APIToken = os.Getenv("DOCCHAT_API_TOKEN")
	}
	if c.Embedding.APIKey == "" {
		c.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case ProviderAnthropic:
			c.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		default:
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if c.Index.APIKey == "" {
		c.Index.APIKey = os.Getenv("QDRANT_API_KEY")
	}
	if c.Blob.AccessKeyID == "" {
		c.Blob.AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
	}
	if c.Blob.SecretAccessKey == "" {
		c.Blob.SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")
	}
}

func (c *Config) validate() error {
	switch c.Embedding.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidConfiguration, c.Embedding.Provider)
	}

	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderOllama, ProviderAnthropic:
	default:
		return fmt.Errorf("%w: unknown llm provider %q", domain.ErrInvalidConfiguration, c.LLM.Provider)
	}

	switch c.Index.Provider {
	case IndexQdrant, IndexMemory:
	default:
		return fmt.Errorf("%w: unknown index provider %q", domain.ErrInvalidConfiguration, c.Index.Provider)
	}

	switch c.Blob.Provider {
	case BlobFile, BlobS3, BlobNone:
	default:
		return fmt.Errorf("%w: unknown blob provider %q", domain.ErrInvalidConfiguration, c.Blob.Provider)
	}

	if c.Embedding.Provider == ProviderOpenAI && c.Embedding.APIKey == "" {
		return fmt.Errorf("%w: openai embedding requires an API key (set embedding.api_key or OPENAI_API_KEY)", domain.ErrInvalidConfiguration)
	}
	if c.LLM.Provider == ProviderOpenAI && c.LLM.APIKey == "" {
		return fmt.Errorf("%w: openai llm requires an API key (set llm.api_key or OPENAI_API_KEY)", domain.ErrInvalidConfiguration)
	}
	if c.LLM.Provider == ProviderAnthropic && c.LLM.APIKey == "" {
		return fmt.Errorf("%w: anthropic llm requires an API key (set llm.api_key or ANTHROPIC_API_KEY)", domain.ErrInvalidConfiguration)
	}
	if c.Blob.Provider == BlobS3 && (c.Blob.Endpoint == "" || c.Blob.Bucket == "") {
		return fmt.Errorf("%w: s3 blob store requires endpoint and bucket", domain.ErrInvalidConfiguration)
	}
	return nil
}
