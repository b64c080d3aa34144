// Package lifecycle issues campaign state-transition requests to the engine.
// The engine is authoritative: the controller only checks whether an intent
// is legal for the campaign's current status and fires the request; the
// registry refresh afterwards is the sole source of truth for the outcome.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phishdeck/phishdeck/internal/models"
)

// EditDeniedMessage is surfaced when editing is requested for a campaign in
// a non-editable status.
const EditDeniedMessage = "Cannot edit campaigns that are running, scheduled, or completed"

// Engine is the transition-request boundary.
type Engine interface {
	RunCampaign(ctx context.Context, id int64) error
	PauseCampaign(ctx context.Context, id int64) error
	DeleteCampaign(ctx context.Context, id int64) error
}

// NotAllowedError reports an action that is illegal in the campaign's
// current status.
type NotAllowedError struct {
	Action models.Action
	Status models.Status
}

func (e *NotAllowedError) Error() string {
	if e.Action == models.ActionEdit {
		return EditDeniedMessage
	}
	return fmt.Sprintf("cannot %s a campaign in status %q", e.Action, e.Status)
}

// Controller guards and issues lifecycle intents.
type Controller struct {
	engine  Engine
	logger  *slog.Logger
	refresh func(ctx context.Context) error
}

// New creates a controller. refresh is called after every accepted action so
// the registry reflects whatever status the engine actually moved to.
func New(engine Engine, logger *slog.Logger, refresh func(ctx context.Context) error) *Controller {
	return &Controller{
		engine:  engine,
		logger:  logger.With("component", "lifecycle"),
		refresh: refresh,
	}
}

// OpenForEdit returns a draft pre-filled from the campaign, or a
// NotAllowedError when the status forbids editing.
func (c *Controller) OpenForEdit(campaign *models.Campaign) (*models.CampaignDraft, error) {
	if !campaign.Status.CanEdit() {
		return nil, &NotAllowedError{Action: models.ActionEdit, Status: campaign.Status}
	}
	return models.DraftFromCampaign(campaign), nil
}

// Run requests the engine to move the campaign into running.
func (c *Controller) Run(ctx context.Context, campaign *models.Campaign) error {
	if !campaign.Status.CanRun() {
		return &NotAllowedError{Action: models.ActionRun, Status: campaign.Status}
	}
	if err := c.engine.RunCampaign(ctx, campaign.ID); err != nil {
		return err
	}
	c.logger.Info("run requested", "campaign_id", campaign.ID)
	return c.doRefresh(ctx)
}

// Pause requests the engine to move the campaign into paused.
func (c *Controller) Pause(ctx context.Context, campaign *models.Campaign) error {
	if !campaign.Status.CanPause() {
		return &NotAllowedError{Action: models.ActionPause, Status: campaign.Status}
	}
	if err := c.engine.PauseCampaign(ctx, campaign.ID); err != nil {
		return err
	}
	c.logger.Info("pause requested", "campaign_id", campaign.ID)
	return c.doRefresh(ctx)
}

// Delete requests removal of the campaign. Deletion is legal in any status.
func (c *Controller) Delete(ctx context.Context, campaign *models.Campaign) error {
	if !campaign.Status.CanDelete() {
		return &NotAllowedError{Action: models.ActionDelete, Status: campaign.Status}
	}
	if err := c.engine.DeleteCampaign(ctx, campaign.ID); err != nil {
		return err
	}
	c.logger.Info("delete requested", "campaign_id", campaign.ID)
	return c.doRefresh(ctx)
}

func (c *Controller) doRefresh(ctx context.Context) error {
	if c.refresh == nil {
		return nil
	}
	if err := c.refresh(ctx); err != nil {
		// The action itself was accepted; a failed refresh only means the
		// snapshot is stale until the next load.
		c.logger.Error("post-action refresh failed", "error", err)
	}
	return nil
}
