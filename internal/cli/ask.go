// internal/cli/ask.go
package repochat

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var askModel string

// askCmd indexes a repository and answers a single question against it.
var askCmd = &cobra.Command{
	Use:   "ask <repository-url> <question>",
	Short: "Index a repository and ask one question",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		repoURL := args[0]
		question := strings.TrimSpace(strings.Join(args[1:], " "))
		if question == "" {
			return fmt.Errorf("question is required")
		}

		session, err := newSession(cfg)
		if err != nil {
			return err
		}
		defer session.Close()

		model := askModel
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

		answer := session.Ask(ctx, question)
		fmt.Println()
		color.Cyan("%s", answer)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "generation model to answer with")
	rootCmd.AddCommand(askCmd)
}
