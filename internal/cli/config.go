package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/fieldreport/internal/config"
)

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage fieldreport configuration",
	}
	cmd.AddCommand(configInitCmd())
	cmd.AddCommand(configShowCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter fieldreport.yaml",
		Long: `Write a starter fieldreport.yaml with every default filled in.

Secrets (mail.password, graph.client_secret) are never written. Put them in a
.env file or export FIELDREPORT_MAIL_PASSWORD / FIELDREPORT_GRAPH_CLIENT_SECRET.

Examples:
  fieldreport config init                 # ~/.fieldreport/fieldreport.yaml
  fieldreport config init --dir .         # ./fieldreport.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.DataDir
			}
			if err := config.SaveConfig(dir, cfg); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote %s/fieldreport.yaml\n", dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory to write fieldreport.yaml to (default: data dir)")
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			fmt.Printf("Data dir:   %s\n", cfg.DataDir)
			fmt.Printf("Database:   %s\n", cfg.DBPath())
			fmt.Printf("Reports:    %s\n", cfg.ReportDir())
			fmt.Printf("Assets:     %s\n", cfg.AssetsDir)
			fmt.Printf("Timezone:   %s\n", cfg.Timezone)
			fmt.Printf("Mail:       %s\n", cfg.Mail.Provider)
			fmt.Printf("Archive:    %s (%s)\n", cfg.Archive.Provider, cfg.Archive.RootFolder)
			fmt.Printf("HTTP:       %s\n", cfg.HTTP.Addr)
			fmt.Printf("Checklist:  %d tasks\n", len(cfg.Checklist.Tasks))
			return nil
		},
	}
}
