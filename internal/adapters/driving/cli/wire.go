package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docchat/internal/adapters/driven/blob/file"
	"github.com/custodia-labs/docchat/internal/adapters/driven/blob/s3"
	ollamaembed "github.com/custodia-labs/docchat/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/docchat/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/docchat/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/docchat/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docchat/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/sqlite"
	memoryindex "github.com/custodia-labs/docchat/internal/adapters/driven/vectorindex/memory"
	"github.com/custodia-labs/docchat/internal/adapters/driven/vectorindex/qdrant"
	"github.com/custodia-labs/docchat/internal/config"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/services"
	"github.com/custodia-labs/docchat/internal/extractors"
	"github.com/custodia-labs/docchat/internal/extractors/pdf"
	"github.com/custodia-labs/docchat/internal/extractors/plaintext"
	"github.com/custodia-labs/docchat/internal/logger"
	"github.com/custodia-labs/docchat/internal/splitter"
)

// cfg holds the loaded configuration after ensureServices ran.
var cfg config.Config

// watchExtensions lists the file extensions the drop folder watcher
// reacts to, taken from the extractor registry.
var watchExtensions []string

// ensureServices loads the configuration and wires the service graph.
// It is a no-op when services are already set, which lets tests inject
// their own.
func ensureServices(ctx context.Context) error {
	if ingestionService != nil && queryService != nil && documentService != nil {
		return nil
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	registry := extractors.NewRegistry()
	registry.Register(plaintext.New())
	if err := pdf.CheckAvailable(); err != nil {
		logger.Warn("%v", err)
		logger.Warn("%s", pdf.InstallInstructions())
	} else {
		registry.Register(pdf.New(extractors.NewExecRunner()))
	}
	watchExtensions = registry.Extensions()

	embedder, err := buildEmbedder()
	if err != nil {
		return err
	}
	llm, err := buildLLM()
	if err != nil {
		return err
	}
	index := buildIndex()
	blobs, err := buildBlobStore(ctx)
	if err != nil {
		return err
	}

	ledger, err := sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("open document ledger: %w", err)
	}

	split, err := splitter.New(
		orDefault(cfg.Ingest.ChunkSize, splitter.DefaultChunkSize),
		orDefault(cfg.Ingest.ChunkOverlap, splitter.DefaultOverlap),
	)
	if err != nil {
		return err
	}

	ingestionService = services.NewIngestionService(
		registry, split, embedder, index, blobs, ledger,
		services.WithBatchSize(cfg.Ingest.BatchSize),
		services.WithMaxConcurrentBatches(cfg.Ingest.MaxConcurrentBatches),
	)
	queryService = services.NewQueryService(embedder, index, llm, services.WithLedger(ledger))
	documentService = services.NewDocumentService(ledger)

	logger.Debug("Wired embedding=%s llm=%s index=%s blob=%s",
		cfg.Embedding.Provider, cfg.LLM.Provider, cfg.Index.Provider, cfg.Blob.Provider)
	return nil
}

func buildEmbedder() (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case config.ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
	default:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		}), nil
	}
}

func buildLLM() (driven.LLMService, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
		})
	case config.ProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
	default:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		}), nil
	}
}

func buildIndex() driven.VectorIndex {
	switch cfg.Index.Provider {
	case config.IndexQdrant:
		return qdrant.NewIndex(qdrant.Config{
			BaseURL:    cfg.Index.BaseURL,
			APIKey:     cfg.Index.APIKey,
			Collection: cfg.Index.Collection,
		})
	default:
		return memoryindex.NewIndex()
	}
}

func buildBlobStore(ctx context.Context) (driven.BlobStore, error) {
	switch cfg.Blob.Provider {
	case config.BlobFile:
		dir := cfg.Blob.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("getting home directory: %w", err)
			}
			dir = filepath.Join(home, ".docchat", "blobs")
		}
		return file.NewStore(dir)
	case config.BlobS3:
		return s3.NewStore(ctx, s3.Config{
			Endpoint:        cfg.Blob.Endpoint,
			AccessKeyID:     cfg.Blob.AccessKeyID,
			SecretAccessKey: cfg.Blob.SecretAccessKey,
			Bucket:          cfg.Blob.Bucket,
			Prefix:          cfg.Blob.Prefix,
			UseSSL:          cfg.Blob.UseSSL,
		})
	default:
		return nil, nil
	}
}

func orDefault(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
