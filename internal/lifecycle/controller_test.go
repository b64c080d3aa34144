package lifecycle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/phishdeck/phishdeck/internal/models"
)

// fakeEngine counts transition requests and can be told to fail.
type fakeEngine struct {
	runs    int
	pauses  int
	deletes int
	fail    error
}

func (f *fakeEngine) RunCampaign(ctx context.Context, id int64) error {
	f.runs++
	return f.fail
}

func (f *fakeEngine) PauseCampaign(ctx context.Context, id int64) error {
	f.pauses++
	return f.fail
}

func (f *fakeEngine) DeleteCampaign(ctx context.Context, id int64) error {
	f.deletes++
	return f.fail
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunningCampaignActions(t *testing.T) {
	eng := &fakeEngine{}
	refreshed := 0
	c := New(eng, testLogger(), func(ctx context.Context) error {
		refreshed++
		return nil
	})
	campaign := &models.Campaign{ID: 5, Name: "Live drill", Status: models.StatusRunning}

	// Editing and re-running a running campaign are both illegal.
	if _, err := c.OpenForEdit(campaign); err == nil {
		t.Error("OpenForEdit() error = nil, want denial for running campaign")
	} else if err.Error() != EditDeniedMessage {
		t.Errorf("edit denial = %q, want %q", err.Error(), EditDeniedMessage)
	}
	if err := c.Run(context.Background(), campaign); err == nil {
		t.Error("Run() error = nil, want denial for running campaign")
	}
	if eng.runs != 0 {
		t.Errorf("runs = %d, want 0 for denied action", eng.runs)
	}

	// Pausing is legal and issues exactly one request.
	if err := c.Pause(context.Background(), campaign); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if eng.pauses != 1 {
		t.Errorf("pauses = %d, want 1", eng.pauses)
	}
	if refreshed != 1 {
		t.Errorf("refreshes = %d, want 1 after accepted action", refreshed)
	}
}

func TestOpenForEdit(t *testing.T) {
	c := New(&fakeEngine{}, testLogger(), nil)

	tests := []struct {
		status  models.Status
		allowed bool
	}{
		{models.StatusDraft, true},
		{models.StatusPaused, true},
		{models.StatusScheduled, false},
		{models.StatusRunning, false},
		{models.StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			campaign := &models.Campaign{ID: 3, Name: "Drill", Status: tt.status, PhishletID: 2}
			d, err := c.OpenForEdit(campaign)

			if tt.allowed {
				if err != nil {
					t.Fatalf("OpenForEdit() error = %v", err)
				}
				if d.CampaignID != 3 {
					t.Errorf("draft CampaignID = %d, want 3", d.CampaignID)
				}
				return
			}
			var denied *NotAllowedError
			if !errors.As(err, &denied) {
				t.Fatalf("OpenForEdit() error = %v, want NotAllowedError", err)
			}
		})
	}
}

func TestRunGuards(t *testing.T) {
	tests := []struct {
		status  models.Status
		allowed bool
	}{
		{models.StatusScheduled, true},
		{models.StatusPaused, true},
		{models.StatusDraft, false},
		{models.StatusRunning, false},
		{models.StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			eng := &fakeEngine{}
			c := New(eng, testLogger(), nil)
			err := c.Run(context.Background(), &models.Campaign{ID: 1, Status: tt.status})

			if tt.allowed && err != nil {
				t.Errorf("Run() error = %v, want nil", err)
			}
			if !tt.allowed {
				var denied *NotAllowedError
				if !errors.As(err, &denied) {
					t.Errorf("Run() error = %v, want NotAllowedError", err)
				}
			}
			wantRuns := 0
			if tt.allowed {
				wantRuns = 1
			}
			if eng.runs != wantRuns {
				t.Errorf("runs = %d, want %d", eng.runs, wantRuns)
			}
		})
	}
}

func TestDeleteAllowedInEveryStatus(t *testing.T) {
	for _, status := range models.Statuses() {
		t.Run(string(status), func(t *testing.T) {
			eng := &fakeEngine{}
			c := New(eng, testLogger(), nil)
			if err := c.Delete(context.Background(), &models.Campaign{ID: 1, Status: status}); err != nil {
				t.Errorf("Delete() error = %v", err)
			}
			if eng.deletes != 1 {
				t.Errorf("deletes = %d, want 1", eng.deletes)
			}
		})
	}
}

func TestEngineRejectionPropagates(t *testing.T) {
	engineErr := errors.New("engine rejected")
	eng := &fakeEngine{fail: engineErr}
	refreshed := 0
	c := New(eng, testLogger(), func(ctx context.Context) error {
		refreshed++
		return nil
	})

	err := c.Pause(context.Background(), &models.Campaign{ID: 2, Status: models.StatusRunning})
	if !errors.Is(err, engineErr) {
		t.Errorf("Pause() error = %v, want engine rejection", err)
	}
	if refreshed != 0 {
		t.Errorf("refreshes = %d, want 0 after rejected action", refreshed)
	}
}

func TestRefreshFailureDoesNotFailAction(t *testing.T) {
	eng := &fakeEngine{}
	c := New(eng, testLogger(), func(ctx context.Context) error {
		return errors.New("engine briefly unavailable")
	})

	if err := c.Delete(context.Background(), &models.Campaign{ID: 4, Status: models.StatusCompleted}); err != nil {
		t.Errorf("Delete() error = %v, want nil despite refresh failure", err)
	}
}
