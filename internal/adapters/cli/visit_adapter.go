// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/fieldreport/internal/core/visit"
	"github.com/example/fieldreport/internal/ports/primary"
)

// VisitAdapter is a thin adapter that translates CLI operations to the visit,
// delivery and sync services.
type VisitAdapter struct {
	visits   primary.VisitService
	delivery primary.DeliveryService
	sync     primary.SyncService
	out      io.Writer
}

// NewVisitAdapter creates a new VisitAdapter with the given services.
func NewVisitAdapter(visits primary.VisitService, delivery primary.DeliveryService, sync primary.SyncService, out io.Writer) *VisitAdapter {
	return &VisitAdapter{
		visits:   visits,
		delivery: delivery,
		sync:     sync,
		out:      out,
	}
}

// StateMarker renders a delivery state as a colored marker.
func StateMarker(s visit.DeliveryState) string {
	if s == visit.StateSent {
		return color.New(color.FgGreen).Sprint("✓ sent")
	}
	return color.New(color.FgYellow).Sprint("⏱ pending")
}

func resultMarker(r primary.DeliveryResult) string {
	if r.OK {
		return color.New(color.FgGreen).Sprint("✓")
	}
	return color.New(color.FgRed).Sprint("✗")
}

// Save runs the save pipeline and prints the outcome.
func (a *VisitAdapter) Save(ctx context.Context, req primary.SaveVisitRequest) (*primary.SaveVisitResponse, error) {
	resp, err := a.visits.SaveVisit(ctx, req)
	if err != nil {
		return nil, err
	}

	verb := "Saved"
	if !resp.Created {
		verb = "Updated"
	}
	fmt.Fprintf(a.out, "✓ %s visit %d: %s (%d pages)\n", verb, resp.VisitID, resp.PDFPath, resp.Pages)
	if resp.Delivery != nil {
		a.printOutcome(resp.Delivery)
	}
	fmt.Fprintf(a.out, "  %s  %s\n", StateMarker(resp.State), resp.Message)
	return resp, nil
}

// List lists every visit, most recent first.
func (a *VisitAdapter) List(ctx context.Context) ([]*primary.Visit, error) {
	visits, err := a.visits.ListVisits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}

	if len(visits) == 0 {
		fmt.Fprintln(a.out, "No visits found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Record your first visit:")
		fmt.Fprintln(a.out, "  fieldreport visit create --client Intermar --technician \"David Quezada\" --entries visit.json")
		return visits, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tCLIENT\tTECHNICIAN\tSTATE")
	fmt.Fprintln(w, "--\t----\t------\t----------\t-----")
	for _, v := range visits {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", v.ID, v.Timestamp, v.ClientName, v.TechnicianName, StateMarker(v.DeliveryState))
	}
	w.Flush()
	return visits, nil
}

// Show displays a single visit with its entries.
func (a *VisitAdapter) Show(ctx context.Context, visitID int64) (*primary.Visit, error) {
	v, err := a.visits.GetVisit(ctx, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}

	fmt.Fprintf(a.out, "\nVisit: %d\n", v.ID)
	fmt.Fprintf(a.out, "Date:       %s\n", v.Timestamp)
	fmt.Fprintf(a.out, "Client:     %s\n", v.ClientName)
	fmt.Fprintf(a.out, "Technician: %s\n", v.TechnicianName)
	fmt.Fprintf(a.out, "State:      %s\n", StateMarker(v.DeliveryState))
	pdf := v.PDFPath
	if !v.PDFExists {
		pdf += " (missing)"
	}
	fmt.Fprintf(a.out, "PDF:        %s\n", pdf)
	if v.Notes != "" {
		fmt.Fprintf(a.out, "Notes:      %s\n", v.Notes)
	}
	if v.Latitude != "" || v.Longitude != "" {
		fmt.Fprintf(a.out, "Location:   %s, %s\n", v.Latitude, v.Longitude)
	}

	if len(v.Entries) > 0 {
		fmt.Fprintln(a.out, "\nUsers:")
		for _, e := range v.Entries {
			mark := "attended"
			if !e.Attended {
				mark = "not attended"
			}
			fmt.Fprintf(a.out, "  - %s [%s] %s\n", e.Name, mark, e.Detail)
			if len(e.Photos) > 0 {
				fmt.Fprintf(a.out, "      photos: %s\n", strings.Join(e.Photos, ", "))
			}
		}
	}
	fmt.Fprintln(a.out)
	return v, nil
}

// Resend delivers one stored visit again.
func (a *VisitAdapter) Resend(ctx context.Context, visitID int64) (*primary.DeliveryOutcome, error) {
	outcome, err := a.delivery.DeliverVisit(ctx, visitID)
	if err != nil {
		return nil, err
	}
	a.printOutcome(outcome)
	fmt.Fprintf(a.out, "Visit %d: %s\n", visitID, StateMarker(outcome.State))
	return outcome, nil
}

// Sync retries every pending visit and prints the N/M summary.
func (a *VisitAdapter) Sync(ctx context.Context) (*primary.SyncReport, error) {
	report, err := a.sync.SyncPending(ctx)
	if report != nil {
		if report.Total == 0 {
			fmt.Fprintln(a.out, "✓ Nothing pending")
		} else {
			fmt.Fprintf(a.out, "Synced %d/%d pending visits\n", report.Sent, report.Total)
			for _, f := range report.Failures {
				fmt.Fprintf(a.out, "  %s visit %d: %s\n", color.New(color.FgRed).Sprint("✗"), f.VisitID, f.Reason)
			}
		}
	}
	return report, err
}

// Stats prints the totals per client and per technician.
func (a *VisitAdapter) Stats(ctx context.Context) (*primary.VisitStats, error) {
	stats, err := a.visits.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "Total visits: %d\n", stats.Total)
	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "\nCLIENT\tVISITS")
	for _, c := range stats.ByClient {
		fmt.Fprintf(w, "%s\t%d\n", c.Name, c.Count)
	}
	fmt.Fprintln(w, "\nTECHNICIAN\tVISITS")
	for _, t := range stats.ByTechnician {
		fmt.Fprintf(w, "%s\t%d\n", t.Name, t.Count)
	}
	w.Flush()
	return stats, nil
}

func (a *VisitAdapter) printOutcome(o *primary.DeliveryOutcome) {
	fmt.Fprintf(a.out, "  %s email:   %s\n", resultMarker(o.Email), o.Email.Message)
	fmt.Fprintf(a.out, "  %s archive: %s\n", resultMarker(o.Archive), o.Archive.Message)
}
