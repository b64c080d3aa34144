package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/phishdeck/phishdeck/internal/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	engineStatus := "ok"
	if _, err := s.engine.Health(r.Context()); err != nil {
		engineStatus = "unreachable"
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"engine":         engineStatus,
		"registry_ready": s.registry.Ready(),
	})
}

// registrySnapshot is the full reference-data view the UI composes from.
type registrySnapshot struct {
	Campaigns      []models.Campaign      `json:"campaigns"`
	SenderProfiles []models.SenderProfile `json:"sender_profiles"`
	EmailTemplates []models.EmailTemplate `json:"email_templates"`
	Phishlets      []models.Phishlet      `json:"phishlets"`
	Attachments    []models.Attachment    `json:"attachments"`
	Groups         []models.Group         `json:"groups"`
	Targets        []models.Target        `json:"targets"`
	Ready          bool                   `json:"ready"`
	LoadedAt       time.Time              `json:"loaded_at"`
}

func (s *Server) handleRegistry(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, registrySnapshot{
		Campaigns:      s.registry.Campaigns(),
		SenderProfiles: s.registry.SenderProfiles(),
		EmailTemplates: s.registry.EmailTemplates(),
		Phishlets:      s.registry.Phishlets(),
		Attachments:    s.registry.Attachments(),
		Groups:         s.registry.Groups(),
		Targets:        s.registry.Targets(),
		Ready:          s.registry.Ready(),
		LoadedAt:       s.registry.LoadedAt(),
	})
}

func (s *Server) handleRegistryRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.refreshRegistry(r.Context()); err != nil {
		s.writeFailure(w, err, "Failed to load campaigns data")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"loaded_at": s.registry.LoadedAt(),
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	kind := models.Kind(chi.URLParam(r, "kind"))
	s.writeJSON(w, http.StatusOK, s.registry.FilterActive(kind))
}

func (s *Server) handleResolveName(w http.ResponseWriter, r *http.Request) {
	kind := models.Kind(chi.URLParam(r, "kind"))
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"name": s.registry.ResolveName(kind, id),
	})
}

func (s *Server) campaignFromPath(w http.ResponseWriter, r *http.Request) (*models.Campaign, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid campaign id")
		return nil, false
	}
	campaign, ok := s.registry.Campaign(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Campaign not found")
		return nil, false
	}
	return campaign, true
}

func (s *Server) handleCampaignList(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.registry.Campaigns())
}

func (s *Server) handleCampaignGet(w http.ResponseWriter, r *http.Request) {
	campaign, ok := s.campaignFromPath(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, campaign)
}

func (s *Server) handleCampaignResults(w http.ResponseWriter, r *http.Request) {
	campaign, ok := s.campaignFromPath(w, r)
	if !ok {
		return
	}
	results, err := s.engine.CampaignResults(r.Context(), campaign.ID)
	if err != nil {
		s.writeFailure(w, err, "Failed to load campaign results")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"summary": models.Summarize(results),
	})
}

// handleCampaignEdit opens a campaign for editing: the lifecycle guard
// decides eligibility and the pre-filled draft is persisted for the UI.
// Reopening the same campaign reuses its existing edit draft instead of
// accumulating duplicates.
func (s *Server) handleCampaignEdit(w http.ResponseWriter, r *http.Request) {
	campaign, ok := s.campaignFromPath(w, r)
	if !ok {
		return
	}
	draft, err := s.lifecycle.OpenForEdit(campaign)
	if err != nil {
		s.writeFailure(w, err, "Failed to open campaign for editing")
		return
	}
	if existing := s.findEditDraft(campaign.ID); existing != nil {
		draft.ID = existing.ID
	}
	if err := s.drafts.Save(draft); err != nil {
		s.writeFailure(w, err, "Failed to save draft")
		return
	}
	s.writeJSON(w, http.StatusCreated, draft)
}

// findEditDraft returns the stored draft already editing the given campaign,
// if any.
func (s *Server) findEditDraft(campaignID int64) *models.CampaignDraft {
	list, err := s.drafts.List()
	if err != nil {
		return nil
	}
	for _, d := range list {
		if d.CampaignID == campaignID {
			return d
		}
	}
	return nil
}

func (s *Server) handleCampaignRun(w http.ResponseWriter, r *http.Request) {
	campaign, ok := s.campaignFromPath(w, r)
	if !ok {
		return
	}
	err := s.lifecycle.Run(r.Context(), campaign)
	s.metrics.ObserveLifecycleAction("run", err)
	if err != nil {
		s.writeFailure(w, err, "Failed to start campaign")
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handleCampaignPause(w http.ResponseWriter, r *http.Request) {
	campaign, ok := s.campaignFromPath(w, r)
	if !ok {
		return
	}
	err := s.lifecycle.Pause(r.Context(), campaign)
	s.metrics.ObserveLifecycleAction("pause", err)
	if err != nil {
		s.writeFailure(w, err, "Failed to pause campaign")
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handleCampaignDelete(w http.ResponseWriter, r *http.Request) {
	campaign, ok := s.campaignFromPath(w, r)
	if !ok {
		return
	}
	err := s.lifecycle.Delete(r.Context(), campaign)
	s.metrics.ObserveLifecycleAction("delete", err)
	if err != nil {
		s.writeFailure(w, err, "Failed to delete campaign")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDraftList(w http.ResponseWriter, r *http.Request) {
	list, err := s.drafts.List()
	if err != nil {
		s.writeFailure(w, err, "Failed to list drafts")
		return
	}
	if list == nil {
		list = []*models.CampaignDraft{}
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleDraftCreate(w http.ResponseWriter, r *http.Request) {
	var draft models.CampaignDraft
	if err := decodeJSON(r, &draft); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	draft.ID = "" // ids are store-assigned
	if draft.TargetType == "" {
		draft.TargetType = models.TargetGroup
	}
	// Every write path runs the schedule through the clamp so a stored
	// draft can never hold an under-shot value.
	warning := s.composer.SetScheduledAt(&draft, draft.ScheduledAt)
	if err := s.drafts.Save(&draft); err != nil {
		s.writeFailure(w, err, "Failed to save draft")
		return
	}
	s.writeJSON(w, http.StatusCreated, draftResponse{Draft: &draft, Warning: warning})
}

func (s *Server) draftFromPath(w http.ResponseWriter, r *http.Request) (*models.CampaignDraft, bool) {
	id := chi.URLParam(r, "id")
	draft, err := s.drafts.Get(id)
	if err != nil {
		s.writeFailure(w, err, "Failed to load draft")
		return nil, false
	}
	if draft == nil {
		s.writeError(w, http.StatusNotFound, "Draft not found")
		return nil, false
	}
	return draft, true
}

func (s *Server) handleDraftGet(w http.ResponseWriter, r *http.Request) {
	draft, ok := s.draftFromPath(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, draft)
}

func (s *Server) handleDraftUpdate(w http.ResponseWriter, r *http.Request) {
	draft, ok := s.draftFromPath(w, r)
	if !ok {
		return
	}
	var updated models.CampaignDraft
	if err := decodeJSON(r, &updated); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	// Identity fields are not client-writable.
	updated.ID = draft.ID
	updated.CampaignID = draft.CampaignID
	warning := s.composer.SetScheduledAt(&updated, updated.ScheduledAt)
	if err := s.drafts.Save(&updated); err != nil {
		s.writeFailure(w, err, "Failed to save draft")
		return
	}
	s.writeJSON(w, http.StatusOK, draftResponse{Draft: &updated, Warning: warning})
}

func (s *Server) handleDraftDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.drafts.Delete(id); err != nil {
		s.writeFailure(w, err, "Failed to delete draft")
		return
	}
	s.composer.Reset(id)
	w.WriteHeader(http.StatusNoContent)
}

type scheduleRequest struct {
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// draftResponse carries a stored draft plus the schedule clamp warning, when
// the submitted scheduled_at was moved forward.
type draftResponse struct {
	Draft   *models.CampaignDraft `json:"draft"`
	Warning string                `json:"warning,omitempty"`
}

// handleDraftSchedule applies a scheduled_at change. The clamp happens here,
// at input time, so a stored draft can never hold an under-shot value.
func (s *Server) handleDraftSchedule(w http.ResponseWriter, r *http.Request) {
	draft, ok := s.draftFromPath(w, r)
	if !ok {
		return
	}
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	warning := s.composer.SetScheduledAt(draft, req.ScheduledAt)
	if err := s.drafts.Save(draft); err != nil {
		s.writeFailure(w, err, "Failed to save draft")
		return
	}
	s.writeJSON(w, http.StatusOK, draftResponse{Draft: draft, Warning: warning})
}

// handleDraftSubmit validates and submits a draft. Exactly one engine write
// is issued per accepted submission; on success the draft is discarded and
// the registry refreshed.
func (s *Server) handleDraftSubmit(w http.ResponseWriter, r *http.Request) {
	draft, ok := s.draftFromPath(w, r)
	if !ok {
		return
	}

	campaign, err := s.composer.Submit(r.Context(), draft)
	s.metrics.ObserveSubmission(draft.IsEdit(), err)
	if err != nil {
		// The draft stays stored exactly as submitted so no work is lost.
		s.writeFailure(w, err, "Failed to save campaign")
		return
	}

	if err := s.drafts.Delete(draft.ID); err != nil {
		s.logger.Error("discard submitted draft", "draft_id", draft.ID, "error", err)
	}
	s.composer.Reset(draft.ID)

	if err := s.refreshRegistry(r.Context()); err != nil {
		s.logger.Error("post-submit refresh failed", "error", err)
	}

	status := http.StatusCreated
	if draft.IsEdit() {
		status = http.StatusOK
	}
	s.writeJSON(w, status, campaign)
}
