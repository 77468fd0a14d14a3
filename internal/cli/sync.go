package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/fieldreport/internal/wire"
)

// SyncCmd returns the sync command
func SyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Retry delivery of every pending visit",
		Long: `Retry email and archive delivery for every visit still pending, oldest first.

Each visit is attempted once. A failing visit stays pending and does not stop
the pass.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := wire.VisitAdapter().Sync(NewContext())
			if err != nil {
				return err
			}
			if len(report.Failures) > 0 {
				return fmt.Errorf("%d visit(s) still pending", len(report.Failures))
			}
			return nil
		},
	}
}

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show visit totals per client and technician",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.VisitAdapter().Stats(NewContext())
			return err
		},
	}
}

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file.xlsx]",
		Short: "Export the visit history to a spreadsheet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "historial_visitas.xlsx"
			if len(args) == 1 {
				path = args[0]
			}
			if err := wire.ExportService().ExportHistory(NewContext(), path); err != nil {
				return err
			}
			fmt.Printf("✓ Exported visit history to %s\n", path)
			return nil
		},
	}
}

// BackupCmd returns the backup command
func BackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Upload a copy of the visit database to the archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			result := wire.BackupService().BackupDatabase(NewContext())
			if !result.OK {
				return fmt.Errorf("%s", result.Message)
			}
			fmt.Printf("✓ %s\n", result.Message)
			return nil
		},
	}
}
