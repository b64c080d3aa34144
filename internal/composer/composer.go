// Package composer validates campaign drafts against the entity registry and
// turns them into exactly one create-or-update request to the engine.
package composer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/phishdeck/phishdeck/internal/models"
)

// minScheduleLead is the minimum distance a scheduled launch must be from now.
const minScheduleLead = 30 * time.Minute

// ScheduleWarning is the message reported when a scheduled_at input is
// clamped forward.
const ScheduleWarning = "Please choose at least 30 minutes from now"

// ErrSubmitPending rejects a second submission while one is outstanding for
// the same draft.
var ErrSubmitPending = errors.New("submission already in progress")

// ValidationError is a client-local rule failure. It is always recoverable
// and carries exactly one human-readable message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidationError reports whether err is a local validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Submitter is the engine write boundary for the composer.
type Submitter interface {
	CreateCampaign(ctx context.Context, req *models.CampaignRequest) (*models.Campaign, error)
	UpdateCampaign(ctx context.Context, id int64, req *models.CampaignRequest) (*models.Campaign, error)
}

// RequestState tracks the submission lifecycle of a single draft.
type RequestState int

const (
	StateIdle RequestState = iota
	StatePending
	StateDone
	StateFailed
)

func (s RequestState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Composer validates drafts and submits them. Submission per draft is gated
// on an explicit request state so duplicate in-flight writes are impossible.
type Composer struct {
	submitter Submitter
	logger    *slog.Logger
	now       func() time.Time

	mu     sync.Mutex
	states map[string]RequestState
}

// New creates a composer writing through submitter.
func New(submitter Submitter, logger *slog.Logger) *Composer {
	return &Composer{
		submitter: submitter,
		logger:    logger.With("component", "composer"),
		now:       time.Now,
		states:    make(map[string]RequestState),
	}
}

// Validate checks the draft against the composition rules. The first failing
// rule wins; there is no multi-error aggregation.
func Validate(d *models.CampaignDraft) error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Message: "Campaign name is required"}
	}
	if d.SenderProfileID == 0 {
		return &ValidationError{Message: "Sender profile is required"}
	}
	if d.EmailTemplateID == 0 {
		return &ValidationError{Message: "Email template is required"}
	}
	if d.Payload.Kind == models.PayloadPhishlet && d.Payload.PhishletID == 0 {
		return &ValidationError{Message: "Phishlet is required"}
	}
	if d.Payload.Kind == models.PayloadAttachment && d.Payload.AttachmentID == 0 {
		return &ValidationError{Message: "Attachment is required"}
	}
	if d.TargetType == models.TargetGroup && d.TargetGroupID == 0 {
		return &ValidationError{Message: "Target group is required"}
	}
	if d.TargetType == models.TargetIndividual && len(d.TargetIndividuals) == 0 {
		return &ValidationError{Message: "At least one target individual is required"}
	}
	return nil
}

// SetScheduledAt applies a scheduled_at input to the draft at change time,
// not submit time, so the draft can never hold an under-shot value. Inputs
// earlier than now+30m are clamped to exactly now+30m and reported with
// ScheduleWarning. A nil input clears the field. Seconds are truncated on
// both sides for comparison stability.
func (c *Composer) SetScheduledAt(d *models.CampaignDraft, at *time.Time) (warning string) {
	if at == nil {
		d.ScheduledAt = nil
		return ""
	}

	now := c.now().Truncate(time.Minute)
	minAllowed := now.Add(minScheduleLead)
	selected := at.Truncate(time.Minute)

	if selected.Before(minAllowed) {
		d.ScheduledAt = &minAllowed
		return ScheduleWarning
	}
	d.ScheduledAt = &selected
	return ""
}

// State returns the submission state of a draft.
func (c *Composer) State(draftID string) RequestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[draftID]
}

// Reset returns a draft to idle, e.g. after its surface is reopened.
func (c *Composer) Reset(draftID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, draftID)
}

// begin moves the draft to pending if submission is currently allowed.
func (c *Composer) begin(draftID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.states[draftID] {
	case StateIdle, StateFailed:
		c.states[draftID] = StatePending
		return nil
	default:
		return ErrSubmitPending
	}
}

func (c *Composer) finish(draftID string, state RequestState) {
	c.mu.Lock()
	c.states[draftID] = state
	c.mu.Unlock()
}

// Submit validates the draft and, only if every rule passes, issues exactly
// one write: create for new drafts, update for drafts editing an existing
// campaign. On engine rejection the draft is untouched so no work is lost;
// the caller surfaces the engine's detail message and may resubmit. On
// success the caller must refresh the registry, which is the sole source of
// truth for the outcome.
func (c *Composer) Submit(ctx context.Context, d *models.CampaignDraft) (*models.Campaign, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}

	if err := c.begin(d.ID); err != nil {
		return nil, err
	}

	req := d.Request()

	var (
		campaign *models.Campaign
		err      error
	)
	if d.IsEdit() {
		campaign, err = c.submitter.UpdateCampaign(ctx, d.CampaignID, req)
	} else {
		campaign, err = c.submitter.CreateCampaign(ctx, req)
	}

	if err != nil {
		c.finish(d.ID, StateFailed)
		c.logger.Error("submission rejected", "draft_id", d.ID, "edit", d.IsEdit(), "error", err)
		return nil, err
	}

	c.finish(d.ID, StateDone)
	c.logger.Info("campaign submitted", "draft_id", d.ID, "campaign_id", campaign.ID, "edit", d.IsEdit())
	return campaign, nil
}
