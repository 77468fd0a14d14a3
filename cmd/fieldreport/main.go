package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/fieldreport/internal/cli"
	"github.com/example/fieldreport/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "fieldreport",
		Short:   "fieldreport - visit reports for field-service technicians",
		Version: version.String(),
		Long: `fieldreport records technician visits to client sites, renders a PDF report
per visit, stores it locally and delivers it by email and to a document archive.
Visits that could not be delivered stay pending until the next sync.`,
		SilenceUsage: true,
	}
	cli.BindGlobalFlags(rootCmd)

	// Setup
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.ConfigCmd())

	// Visit pipeline
	rootCmd.AddCommand(cli.VisitCmd())
	rootCmd.AddCommand(cli.SyncCmd())
	rootCmd.AddCommand(cli.StatsCmd())
	rootCmd.AddCommand(cli.ExportCmd())
	rootCmd.AddCommand(cli.BackupCmd())

	// Directory
	rootCmd.AddCommand(cli.ClientCmd())
	rootCmd.AddCommand(cli.TechnicianCmd())
	rootCmd.AddCommand(cli.UserCmd())

	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
