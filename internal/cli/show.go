// internal/cli/show.go
package repochat

import (
	"github.com/spf13/cobra"
)

// showCmd represents the 'show' command group.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying application information",
}

func init() {
	rootCmd.AddCommand(showCmd)
}
