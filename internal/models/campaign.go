package models

import "time"

// TargetType selects how a campaign audience is specified.
type TargetType string

const (
	TargetGroup      TargetType = "group"
	TargetIndividual TargetType = "individual"
)

// PayloadKind discriminates which payload reference is active on a draft.
type PayloadKind string

const (
	PayloadPhishlet   PayloadKind = "phishlet"
	PayloadAttachment PayloadKind = "attachment"
)

// Payload is the campaign payload reference as a tagged union: exactly one of
// PhishletID/AttachmentID is meaningful, selected by Kind.
type Payload struct {
	Kind         PayloadKind
	PhishletID   int64
	AttachmentID int64
}

// PhishletPayload returns a payload referencing a phishlet landing page.
func PhishletPayload(id int64) Payload {
	return Payload{Kind: PayloadPhishlet, PhishletID: id}
}

// AttachmentPayload returns a payload referencing a mail attachment.
func AttachmentPayload(id int64) Payload {
	return Payload{Kind: PayloadAttachment, AttachmentID: id}
}

// Campaign is a campaign as the engine reports it.
type Campaign struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description,omitempty"`
	SenderProfileID   int64      `json:"sender_profile_id"`
	EmailTemplateID   int64      `json:"email_template_id"`
	PhishletID        int64      `json:"phishlet_id,omitempty"`
	AttachmentID      int64      `json:"attachment_id,omitempty"`
	TargetType        TargetType `json:"target_type"`
	TargetGroupID     int64      `json:"target_group_id,omitempty"`
	TargetIndividuals []int64    `json:"target_individuals,omitempty"`
	ScheduledAt       *time.Time `json:"scheduled_at,omitempty"`
	Status            Status     `json:"status"`
	IsActive          bool       `json:"is_active"`
	IsAdmin           bool       `json:"is_admin"`
	UserName          string     `json:"user_name,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CampaignDraft is the console-local form state a campaign is composed from.
// Drafts exist only on the console side; the engine first sees the campaign
// as a create or update request produced by the composer.
type CampaignDraft struct {
	ID                string     `json:"id"`                    // local draft id
	CampaignID        int64      `json:"campaign_id,omitempty"` // set when editing an existing campaign
	Name              string     `json:"name"`
	Description       string     `json:"description,omitempty"`
	SenderProfileID   int64      `json:"sender_profile_id,omitempty"`
	EmailTemplateID   int64      `json:"email_template_id,omitempty"`
	Payload           Payload    `json:"payload"`
	TargetType        TargetType `json:"target_type"`
	TargetGroupID     int64      `json:"target_group_id,omitempty"`
	TargetIndividuals []int64    `json:"target_individuals,omitempty"`
	ScheduledAt       *time.Time `json:"scheduled_at,omitempty"`
	LaunchNow         bool       `json:"launch_now"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// IsEdit reports whether the draft targets an existing campaign.
func (d *CampaignDraft) IsEdit() bool { return d.CampaignID > 0 }

// DraftFromCampaign pre-fills a draft from an existing campaign for editing.
// LaunchNow always resets to false: re-launching is an explicit choice.
func DraftFromCampaign(c *Campaign) *CampaignDraft {
	d := &CampaignDraft{
		CampaignID:        c.ID,
		Name:              c.Name,
		Description:       c.Description,
		SenderProfileID:   c.SenderProfileID,
		EmailTemplateID:   c.EmailTemplateID,
		TargetType:        c.TargetType,
		TargetGroupID:     c.TargetGroupID,
		TargetIndividuals: append([]int64(nil), c.TargetIndividuals...),
		ScheduledAt:       c.ScheduledAt,
	}
	switch {
	case c.AttachmentID > 0:
		d.Payload = AttachmentPayload(c.AttachmentID)
	case c.PhishletID > 0:
		d.Payload = PhishletPayload(c.PhishletID)
	}
	return d
}

// CampaignRequest is the wire body for campaign create and update. The
// payload union flattens back into the loose fields the engine contract uses.
type CampaignRequest struct {
	Name              string     `json:"name"`
	Description       string     `json:"description,omitempty"`
	SenderProfileID   int64      `json:"sender_profile_id,omitempty"`
	EmailTemplateID   int64      `json:"email_template_id,omitempty"`
	PhishletID        int64      `json:"phishlet_id,omitempty"`
	AttachmentID      int64      `json:"attachment_id,omitempty"`
	SelectPreference  string     `json:"select_preference,omitempty"`
	TargetType        TargetType `json:"target_type"`
	TargetGroupID     int64      `json:"target_group_id,omitempty"`
	TargetIndividuals []int64    `json:"target_individuals,omitempty"`
	ScheduledAt       *time.Time `json:"scheduled_at,omitempty"`
	LaunchNow         bool       `json:"launch_now,omitempty"`
}

// Request converts a validated draft into its wire form.
func (d *CampaignDraft) Request() *CampaignRequest {
	r := &CampaignRequest{
		Name:              d.Name,
		Description:       d.Description,
		SenderProfileID:   d.SenderProfileID,
		EmailTemplateID:   d.EmailTemplateID,
		SelectPreference:  string(d.Payload.Kind),
		TargetType:        d.TargetType,
		ScheduledAt:       d.ScheduledAt,
		LaunchNow:         d.LaunchNow,
	}
	switch d.Payload.Kind {
	case PayloadPhishlet:
		r.PhishletID = d.Payload.PhishletID
	case PayloadAttachment:
		r.AttachmentID = d.Payload.AttachmentID
	}
	switch d.TargetType {
	case TargetGroup:
		r.TargetGroupID = d.TargetGroupID
	case TargetIndividual:
		r.TargetIndividuals = append([]int64(nil), d.TargetIndividuals...)
	}
	return r
}

// CampaignResult is one per-target delivery/engagement row from
// GET /campaigns/{id}/results. All flags are engine-computed.
type CampaignResult struct {
	ID            int64     `json:"id"`
	TargetID      int64     `json:"target_id"`
	TargetEmail   string    `json:"target_email"`
	EmailSent     bool      `json:"email_sent"`
	EmailOpened   bool      `json:"email_opened"`
	LinkClicked   bool      `json:"link_clicked"`
	FormSubmitted bool      `json:"form_submitted"`
	CapturedData  string    `json:"captured_data,omitempty"`
	RiskScore     float64   `json:"risk_score"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ResultSummary aggregates result rows for display counts only; the engine
// owns all real scoring.
type ResultSummary struct {
	Total          int `json:"total"`
	EmailsSent     int `json:"emails_sent"`
	EmailsOpened   int `json:"emails_opened"`
	LinksClicked   int `json:"links_clicked"`
	FormsSubmitted int `json:"forms_submitted"`
}

// Summarize counts engagement flags across result rows.
func Summarize(results []CampaignResult) ResultSummary {
	var s ResultSummary
	s.Total = len(results)
	for _, r := range results {
		if r.EmailSent {
			s.EmailsSent++
		}
		if r.EmailOpened {
			s.EmailsOpened++
		}
		if r.LinkClicked {
			s.LinksClicked++
		}
		if r.FormSubmitted {
			s.FormsSubmitted++
		}
	}
	return s
}
