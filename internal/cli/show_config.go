// internal/cli/show_config.go
package repochat

import (
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
)

// showConfigCmd pretty-prints the effective merged configuration.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Display the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		pp.Println(getConfig())
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
