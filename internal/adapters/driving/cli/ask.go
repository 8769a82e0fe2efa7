package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Retrieves the most relevant indexed passages and streams a
grounded answer. When nothing relevant is indexed the answer says so
instead of guessing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

// askTopK overrides the configured passage count.
var askTopK int

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "Number of passages to retrieve")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := ensureServices(ctx); err != nil {
		return err
	}
	if queryService == nil {
		return errors.New("query service not configured")
	}

	question := strings.Join(args, " ")

	k := askTopK
	if k == 0 {
		k = cfg.Ingest.TopK
	}

	passages, err := queryService.Retrieve(ctx, question, k)
	if err != nil {
		return err
	}
	if len(passages) == 0 {
		cmd.Println("No relevant information found.")
		return nil
	}

	tokens, err := queryService.Answer(ctx, question, passages)
	if err != nil {
		return err
	}

	for tok := range tokens {
		if tok.Err != nil {
			cmd.Println()
			return tok.Err
		}
		if tok.Done {
			break
		}
		cmd.Print(tok.Content)
	}
	cmd.Println()
	return nil
}
