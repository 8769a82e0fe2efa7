package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents into the index",
	Long: `Extracts text from each file, chunks it, embeds the chunks and
writes them to the vector index. Re-ingesting a file replaces its
previous chunks.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := ensureServices(ctx); err != nil {
		return err
	}
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	var failed int
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			cmd.PrintErrf("Skipping %s: %v\n", path, err)
			failed++
			continue
		}

		result, err := ingestionService.Ingest(ctx, domain.Upload{
			Name: filepath.Base(path),
			Data: data,
		})
		if err != nil {
			cmd.PrintErrf("Failed to ingest %s: %v\n", path, err)
			failed++
			continue
		}

		cmd.Printf("Ingested %s: %d chunks (document %s)\n", path, result.ChunkCount, result.DocumentID)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(args))
	}
	return nil
}
