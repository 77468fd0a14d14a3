package visit

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation marks a save request rejected before any side effect.
var ErrValidation = errors.New("invalid visit")

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
// The returned error wraps ErrValidation.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValidation, r.Reason)
}

// SaveVisitContext provides context for the save guard.
type SaveVisitContext struct {
	ClientName     string
	TechnicianName string
	Entries        []UserEntry
}

// EditVisitContext provides context for the edit guard.
type EditVisitContext struct {
	VisitID int64
	Exists  bool
}

// CanSaveVisit evaluates whether a visit can be rendered and persisted.
// Rules:
// - a client must be selected
// - a technician must be selected
// - every user entry must carry a name
func CanSaveVisit(ctx SaveVisitContext) GuardResult {
	if strings.TrimSpace(ctx.ClientName) == "" {
		return GuardResult{Allowed: false, Reason: "client is required"}
	}
	if strings.TrimSpace(ctx.TechnicianName) == "" {
		return GuardResult{Allowed: false, Reason: "technician is required"}
	}
	for i, e := range ctx.Entries {
		if strings.TrimSpace(e.Name) == "" {
			return GuardResult{Allowed: false, Reason: fmt.Sprintf("user entry %d has no name", i+1)}
		}
	}
	return GuardResult{Allowed: true}
}

// CanEditVisit evaluates whether an existing visit can be overwritten.
func CanEditVisit(ctx EditVisitContext) GuardResult {
	if !ctx.Exists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("visit %d not found", ctx.VisitID)}
	}
	return GuardResult{Allowed: true}
}
