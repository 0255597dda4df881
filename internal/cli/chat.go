// internal/cli/chat.go
package repochat

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/mwiater/repochat/internal/tui"
)

// chatCmd represents the 'chat' command.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive repository chat session",
	Long:  `The 'chat' command opens the interactive session: load a repository, then ask questions grounded in its contents.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := tui.Run(getConfig()); err != nil {
			log.Fatalf("Error running chat program: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
