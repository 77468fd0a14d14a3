package visit

import "testing"

func TestInitialState(t *testing.T) {
	if got := InitialState(); got != StatePending {
		t.Errorf("InitialState() = %v, want pending", got)
	}
}

func TestEditedState(t *testing.T) {
	if got := EditedState(); got != StatePending {
		t.Errorf("EditedState() = %v, want pending", got)
	}
}

func TestApplyDelivery(t *testing.T) {
	tests := []struct {
		name        string
		current     DeliveryState
		emailSent   bool
		wantState   DeliveryState
		wantPersist bool
	}{
		{"pending and sent", StatePending, true, StateSent, true},
		{"pending and failed", StatePending, false, StatePending, false},
		{"resend of sent visit", StateSent, true, StateSent, true},
		{"failed resend keeps sent", StateSent, false, StateSent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ApplyDelivery(tt.current, tt.emailSent)
			if result.NewState != tt.wantState {
				t.Errorf("NewState = %v, want %v", result.NewState, tt.wantState)
			}
			if result.Persist != tt.wantPersist {
				t.Errorf("Persist = %v, want %v", result.Persist, tt.wantPersist)
			}
		})
	}
}

func TestDeliveryStateString(t *testing.T) {
	if StatePending.String() != "pending" {
		t.Errorf("expected pending, got %s", StatePending.String())
	}
	if StateSent.String() != "sent" {
		t.Errorf("expected sent, got %s", StateSent.String())
	}
	if DeliveryState(7).Valid() {
		t.Error("expected state 7 to be invalid")
	}
}
