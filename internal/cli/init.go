package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/fieldreport/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the visit database",
		Long: `Initialize the visit database with the required schema.

Missing tables and columns are created, and the default clients, users and
technicians are seeded while their tables are empty. Safe to run repeatedly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Resolving the config opens and initializes the database.
			cfg := wire.Config()

			fmt.Printf("✓ Database initialized at %s\n", cfg.DBPath())
			fmt.Printf("✓ Reports will be written to %s\n", cfg.ReportDir())
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  fieldreport client list")
			fmt.Println("  fieldreport visit create --client Intermar --technician \"David Quezada\" --entries visit.json")

			return nil
		},
	}
}
