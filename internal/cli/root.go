package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/fieldreport/internal/wire"
)

var configPath string

// BindGlobalFlags registers the flags shared by every command on root.
func BindGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to fieldreport.yaml (default: ./fieldreport.yaml or ~/.fieldreport/fieldreport.yaml)")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		wire.SetConfigPath(configPath)
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		wire.Close()
	}
}
