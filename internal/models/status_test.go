package models

import "testing"

func TestStatusPredicates(t *testing.T) {
	tests := []struct {
		status    Status
		canEdit   bool
		canRun    bool
		canPause  bool
		canDelete bool
	}{
		{StatusDraft, true, false, false, true},
		{StatusScheduled, false, true, false, true},
		{StatusRunning, false, false, true, true},
		{StatusPaused, true, true, false, true},
		{StatusCompleted, false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.CanEdit(); got != tt.canEdit {
				t.Errorf("CanEdit() = %v, want %v", got, tt.canEdit)
			}
			if got := tt.status.CanRun(); got != tt.canRun {
				t.Errorf("CanRun() = %v, want %v", got, tt.canRun)
			}
			if got := tt.status.CanPause(); got != tt.canPause {
				t.Errorf("CanPause() = %v, want %v", got, tt.canPause)
			}
			if got := tt.status.CanDelete(); got != tt.canDelete {
				t.Errorf("CanDelete() = %v, want %v", got, tt.canDelete)
			}
		})
	}
}

func TestStatusPredicatesAreTotal(t *testing.T) {
	// An unknown status must still answer every predicate: nothing may
	// start, but cleanup stays possible.
	unknown := Status("archived")

	if unknown.CanEdit() {
		t.Error("CanEdit() = true for unknown status")
	}
	if unknown.CanRun() {
		t.Error("CanRun() = true for unknown status")
	}
	if unknown.CanPause() {
		t.Error("CanPause() = true for unknown status")
	}
	if !unknown.CanDelete() {
		t.Error("CanDelete() = false for unknown status")
	}
}

func TestTransitionTableCoversAllStatuses(t *testing.T) {
	for _, s := range Statuses() {
		if _, ok := transitions[s]; !ok {
			t.Errorf("transition table has no entry for status %q", s)
		}
	}
}
