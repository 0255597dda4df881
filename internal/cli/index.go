// internal/cli/index.go
package repochat

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mwiater/repochat/internal/appconfig"
	"github.com/mwiater/repochat/internal/chat"
	"github.com/mwiater/repochat/internal/ingest"
	"github.com/mwiater/repochat/internal/providerfactory"
	"github.com/mwiater/repochat/internal/rag"
)

var indexModel string

// indexCmd builds the retrieval index for a repository and reports its shape.
var indexCmd = &cobra.Command{
	Use:   "index <repository-url>",
	Short: "Fetch and index a repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		repoURL := args[0]

		session, err := newSession(cfg)
		if err != nil {
			return err
		}
		defer session.Close()

		model := indexModel
		if model == "" {
			model = cfg.GenerationModel
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
		defer cancel()

		color.Yellow("Ingesting and indexing %s ...", repoURL)
		if err := session.Load(ctx, repoURL, model); err != nil {
			color.Red("Index build failed: %v", err)
			return err
		}
		color.Green("Indexed %s — ready to chat.", ingest.RepoName(repoURL))
		return nil
	},
}

// newSession wires the providers, fetcher, and registry into a fresh session.
func newSession(cfg *appconfig.Config) (*chat.Session, error) {
	embedder, err := providerfactory.NewEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	generator, err := providerfactory.NewGenerator(cfg)
	if err != nil {
		return nil, fmt.Errorf("generation provider: %w", err)
	}
	fetcher := ingest.NewGitHubFetcher(cfg.RequestTimeout())
	return chat.NewSession(cfg, fetcher, embedder, generator, rag.NewRegistry()), nil
}

func init() {
	indexCmd.Flags().StringVarP(&indexModel, "model", "m", "", "generation model to confirm after indexing")
	rootCmd.AddCommand(indexCmd)
}
