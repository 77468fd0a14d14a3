// Package visit contains the pure business logic for visit reports.
// This is part of the Functional Core - no I/O, only pure functions.
package visit

// DeliveryState records whether a visit report has been emailed.
// Values match the integer persisted in reports.delivery_state.
type DeliveryState int

const (
	StatePending DeliveryState = 0
	StateSent    DeliveryState = 1
)

// String returns the lowercase label used in listings and logs.
func (s DeliveryState) String() string {
	switch s {
	case StateSent:
		return "sent"
	case StatePending:
		return "pending"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the persisted states.
func (s DeliveryState) Valid() bool {
	return s == StatePending || s == StateSent
}

// InitialState returns the delivery state of a freshly created visit.
func InitialState() DeliveryState {
	return StatePending
}

// EditedState returns the state a visit takes after a full-record edit.
// An edited report has a new PDF and must be delivered again.
func EditedState() DeliveryState {
	return StatePending
}

// TransitionResult describes the outcome of a delivery attempt on the state machine.
type TransitionResult struct {
	NewState DeliveryState
	// Persist is true when the caller must write NewState to the store.
	Persist bool
}

// ApplyDelivery applies the outcome of an email attempt.
// Rules:
// - a successful send always moves the visit to Sent (re-sending a Sent visit is idempotent)
// - a failed send never changes the current state
func ApplyDelivery(current DeliveryState, emailSent bool) TransitionResult {
	if !emailSent {
		return TransitionResult{NewState: current}
	}
	return TransitionResult{NewState: StateSent, Persist: true}
}
