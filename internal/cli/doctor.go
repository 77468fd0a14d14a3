package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/fieldreport/internal/adapters/pdf"
	"github.com/example/fieldreport/internal/config"
	"github.com/example/fieldreport/internal/db"
	"github.com/example/fieldreport/internal/version"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the fieldreport environment",
		Long: `Health check for a fieldreport installation.

Validates:
- Configuration file and environment overrides
- Database file, schema and migrations
- Report output directory is writable
- Logo asset for the report header
- Mail and archive providers

Examples:
  fieldreport doctor              # Run full health check
  fieldreport doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			results := []CheckResult{checkConfig(err)}
			if err == nil {
				results = append(results,
					checkDatabase(cfg),
					checkOutputDir(cfg),
					checkLogo(cfg),
					checkTimezone(cfg),
					checkProvider("Mail", cfg.Mail.Provider),
					checkProvider("Archive", cfg.Archive.Provider),
				)
			}

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				fmt.Println()
				fmt.Printf("%s\n\n", version.String())
				fmt.Println("Check              Status")
				fmt.Println("─────────────────────────")
				for _, r := range results {
					fmt.Printf("%-18s %s\n", r.Name, r.Status)
				}
				fmt.Println()

				hasDetails := false
				for _, r := range results {
					if r.Status != "✓" && r.Details != "" {
						if !hasDetails {
							fmt.Println("Details:")
							hasDetails = true
						}
						fmt.Printf("\n%s:\n%s\n", r.Name, r.Details)
					}
				}

				if hasErrors {
					fmt.Println("\n⚠ Issues found.")
				} else {
					fmt.Println("All checks passed.")
				}
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

func checkConfig(err error) CheckResult {
	if err != nil {
		return CheckResult{Name: "Config", Status: "✗", Details: "  " + err.Error()}
	}
	return CheckResult{Name: "Config", Status: "✓"}
}

// checkDatabase opens the database and applies pending migrations.
func checkDatabase(cfg *config.Config) CheckResult {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	database, err := db.OpenInitialized(ctx, cfg.DBPath())
	if err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: "  " + err.Error()}
	}
	defer database.Close()

	var count int
	if err := database.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports").Scan(&count); err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: "  " + err.Error()}
	}
	return CheckResult{Name: "Database", Status: "✓"}
}

func checkOutputDir(cfg *config.Config) CheckResult {
	dir := cfg.ReportDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return CheckResult{Name: "Output dir", Status: "✗", Details: "  " + err.Error()}
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return CheckResult{Name: "Output dir", Status: "✗", Details: fmt.Sprintf("  %s is not writable: %v", dir, err)}
	}
	probe.Close()
	os.Remove(probe.Name())
	return CheckResult{Name: "Output dir", Status: "✓"}
}

func checkLogo(cfg *config.Config) CheckResult {
	for _, name := range pdf.LogoCandidates {
		if _, err := os.Stat(filepath.Join(cfg.AssetsDir, name)); err == nil {
			return CheckResult{Name: "Logo", Status: "✓"}
		}
	}
	return CheckResult{
		Name:    "Logo",
		Status:  "⚠",
		Details: fmt.Sprintf("  No logo in %s; reports are rendered without one", cfg.AssetsDir),
	}
}

func checkTimezone(cfg *config.Config) CheckResult {
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return CheckResult{
			Name:    "Timezone",
			Status:  "⚠",
			Details: fmt.Sprintf("  %q not found; falling back to local time", cfg.Timezone),
		}
	}
	return CheckResult{Name: "Timezone", Status: "✓"}
}

func checkProvider(name, provider string) CheckResult {
	if provider == config.ProviderNone {
		return CheckResult{
			Name:    name,
			Status:  "⚠",
			Details: fmt.Sprintf("  %s provider is none; visits stay pending until one is configured", name),
		}
	}
	return CheckResult{Name: name, Status: "✓"}
}
