package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/fieldreport/internal/core/checklist"
	"github.com/example/fieldreport/internal/ports/primary"
	"github.com/example/fieldreport/internal/ports/secondary"
	"github.com/example/fieldreport/internal/wire"
)

// entryFile is one element of the --entries JSON file.
type entryFile struct {
	Name          string             `json:"nombre"`
	Attended      bool               `json:"atendido"`
	Detail        string             `json:"detalle"`
	Photos        []string           `json:"fotos"`
	Checklist     checklist.State    `json:"checklist,omitempty"`
	SignaturePath string             `json:"firma_path,omitempty"`
	Strokes       []secondary.Stroke `json:"firma,omitempty"`
}

// visitFlags are shared by visit create and visit edit.
type visitFlags struct {
	client      string
	technician  string
	notes       string
	entriesPath string
	signature   string
	strokesPath string
	latitude    string
	longitude   string
	noDeliver   bool
}

func (f *visitFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.client, "client", "c", "", "Client name (required)")
	cmd.Flags().StringVarP(&f.technician, "technician", "t", "", "Technician name (required)")
	cmd.Flags().StringVarP(&f.notes, "notes", "n", "", "General observations")
	cmd.Flags().StringVarP(&f.entriesPath, "entries", "e", "", "JSON file with the per-user entries")
	cmd.Flags().StringVar(&f.signature, "signature", "", "Existing image of the client's signature")
	cmd.Flags().StringVar(&f.strokesPath, "signature-strokes", "", "JSON file with the client's signature strokes")
	cmd.Flags().StringVar(&f.latitude, "lat", "", "Latitude of the visit")
	cmd.Flags().StringVar(&f.longitude, "lon", "", "Longitude of the visit")
	cmd.Flags().BoolVar(&f.noDeliver, "no-deliver", false, "Only save the report; leave it pending for the next sync")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("technician")
}

func (f *visitFlags) request(visitID int64) (primary.SaveVisitRequest, error) {
	req := primary.SaveVisitRequest{
		VisitID:        visitID,
		ClientName:     f.client,
		TechnicianName: f.technician,
		Notes:          f.notes,
		SignaturePath:  f.signature,
		Latitude:       f.latitude,
		Longitude:      f.longitude,
		Deliver:        !f.noDeliver,
	}

	if f.entriesPath != "" {
		entries, err := loadEntries(f.entriesPath)
		if err != nil {
			return req, err
		}
		req.Entries = entries
	}

	if f.strokesPath != "" {
		data, err := os.ReadFile(f.strokesPath)
		if err != nil {
			return req, fmt.Errorf("failed to read signature strokes: %w", err)
		}
		if err := json.Unmarshal(data, &req.SignatureStrokes); err != nil {
			return req, fmt.Errorf("failed to parse signature strokes: %w", err)
		}
	}
	return req, nil
}

// loadEntries reads the --entries file.
func loadEntries(path string) ([]primary.EntryInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}

	var files []entryFile
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, fmt.Errorf("failed to parse entries: %w", err)
	}

	entries := make([]primary.EntryInput, len(files))
	for i, e := range files {
		entries[i] = primary.EntryInput{
			Name:             e.Name,
			Attended:         e.Attended,
			Detail:           e.Detail,
			Checklist:        e.Checklist,
			Photos:           e.Photos,
			SignaturePath:    e.SignaturePath,
			SignatureStrokes: e.Strokes,
		}
	}
	return entries, nil
}

func parseVisitID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid visit id %q", arg)
	}
	return id, nil
}

// VisitCmd returns the visit command
func VisitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visit",
		Short: "Record, edit and deliver visit reports",
		Long:  `Record technician visits, render their PDF reports and deliver them to clients.`,
	}

	cmd.AddCommand(visitCreateCmd())
	cmd.AddCommand(visitEditCmd())
	cmd.AddCommand(visitListCmd())
	cmd.AddCommand(visitShowCmd())
	cmd.AddCommand(visitResendCmd())

	return cmd
}

func visitCreateCmd() *cobra.Command {
	var flags visitFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Render and save a new visit report",
		Long: `Render a PDF report for a visit, save it and try to deliver it right away.
A visit that could not be delivered stays pending for the next sync.

The entries file is a JSON array, one element per site user:

  [
    {"nombre": "Raimundo Chico", "atendido": true, "detalle": "Cambio de mouse",
     "fotos": ["/fotos/pc1.jpg"],
     "checklist": {"Revisión Cables": {"done": true, "time": "11:00"}}},
    {"nombre": "Raimundo Grande", "atendido": false, "detalle": "Vacaciones"}
  ]

Examples:
  fieldreport visit create -c Intermar -t "David Quezada" -e visit.json
  fieldreport visit create -c Intermar -t "David Quezada" -e visit.json --no-deliver`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(0)
			if err != nil {
				return err
			}
			_, err = wire.VisitAdapter().Save(NewContext(), req)
			return err
		},
	}

	flags.bind(cmd)
	return cmd
}

func visitEditCmd() *cobra.Command {
	var flags visitFlags

	cmd := &cobra.Command{
		Use:   "edit [visit-id]",
		Short: "Re-render and overwrite a saved visit",
		Long: `Overwrite every field of a saved visit with a newly rendered report.

An edited visit goes back to pending, even if it was already sent, and is
delivered again unless --no-deliver is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVisitID(args[0])
			if err != nil {
				return err
			}
			req, err := flags.request(id)
			if err != nil {
				return err
			}
			_, err = wire.VisitAdapter().Save(NewContext(), req)
			return err
		},
	}

	flags.bind(cmd)
	return cmd
}

func visitListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List visits, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.VisitAdapter().List(NewContext())
			return err
		},
	}
}

func visitShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [visit-id]",
		Short: "Show visit details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVisitID(args[0])
			if err != nil {
				return err
			}
			_, err = wire.VisitAdapter().Show(NewContext(), id)
			return err
		},
	}
}

func visitResendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resend [visit-id]",
		Short: "Email and archive a saved visit again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVisitID(args[0])
			if err != nil {
				return err
			}
			_, err = wire.VisitAdapter().Resend(NewContext(), id)
			return err
		},
	}
}
