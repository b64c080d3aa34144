package drafts

import (
	"path/filepath"
	"testing"

	"github.com/phishdeck/phishdeck/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "drafts.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAssignsID(t *testing.T) {
	s := testStore(t)

	d := &models.CampaignDraft{Name: "HR drill"}
	if err := s.Save(d); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if d.ID == "" {
		t.Error("Save() left draft id empty")
	}
	if d.UpdatedAt.IsZero() {
		t.Error("Save() left UpdatedAt zero")
	}
}

func TestSaveGetRoundTrip(t *testing.T) {
	s := testStore(t)

	d := &models.CampaignDraft{
		Name:              "Finance drill",
		SenderProfileID:   1,
		EmailTemplateID:   2,
		Payload:           models.AttachmentPayload(7),
		TargetType:        models.TargetIndividual,
		TargetIndividuals: []int64{3, 4},
	}
	if err := s.Save(d); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Get(d.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() = nil for saved draft")
	}
	if got.Name != "Finance drill" {
		t.Errorf("Name = %q, want %q", got.Name, "Finance drill")
	}
	if got.Payload.Kind != models.PayloadAttachment || got.Payload.AttachmentID != 7 {
		t.Errorf("Payload = %+v, want attachment 7", got.Payload)
	}
	if len(got.TargetIndividuals) != 2 {
		t.Errorf("TargetIndividuals = %v, want 2 entries", got.TargetIndividuals)
	}
}

func TestGetMissing(t *testing.T) {
	s := testStore(t)

	got, err := s.Get("no-such-draft")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %+v, want nil for unknown id", got)
	}
}

func TestList(t *testing.T) {
	s := testStore(t)

	for _, name := range []string{"one", "two", "three"} {
		if err := s.Save(&models.CampaignDraft{Name: name}); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
	}

	drafts, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(drafts) != 3 {
		t.Errorf("List() len = %d, want 3", len(drafts))
	}
}

func TestDelete(t *testing.T) {
	s := testStore(t)

	d := &models.CampaignDraft{Name: "ephemeral"}
	if err := s.Save(d); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := s.Delete(d.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, err := s.Get(d.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Error("draft still present after Delete()")
	}

	// Unknown ids delete without error.
	if err := s.Delete("no-such-draft"); err != nil {
		t.Errorf("Delete(unknown) error = %v", err)
	}
}
