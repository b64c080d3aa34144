// Package engine is the REST client for the platform backend that owns
// campaign execution. The engine is authoritative for campaign status and
// all scoring; the console only reads collections and requests transitions.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/phishdeck/phishdeck/internal/models"
)

// ErrUnauthorized signals an invalid or expired session. It escalates past
// component boundaries to the global session handler instead of being
// surfaced inline.
var ErrUnauthorized = errors.New("unauthorized")

// APIError carries the engine-provided error detail for a rejected request.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("engine error (HTTP %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("engine error (HTTP %d)", e.StatusCode)
}

// Detail extracts the engine's error message for user display, falling back
// to the given generic message when the error carries none.
func Detail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// errorResponse is the engine's error body shape.
type errorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse is the engine health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Client is a platform engine API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates an engine client. A zero timeout falls back to 30s so a
// hung engine can never leave a console interaction pending forever.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// request performs an HTTP request against the engine API.
func (c *Client) request(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			apiErr.Detail = errResp.Detail
		}
		return apiErr
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// Health checks engine health.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.request(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListCampaigns lists all campaigns.
func (c *Client) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	var resp []models.Campaign
	if err := c.request(ctx, http.MethodGet, "/campaigns", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetCampaign gets a campaign by id.
func (c *Client) GetCampaign(ctx context.Context, id int64) (*models.Campaign, error) {
	var resp models.Campaign
	if err := c.request(ctx, http.MethodGet, fmt.Sprintf("/campaigns/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateCampaign creates a campaign.
func (c *Client) CreateCampaign(ctx context.Context, req *models.CampaignRequest) (*models.Campaign, error) {
	var resp models.Campaign
	if err := c.request(ctx, http.MethodPost, "/campaigns", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateCampaign updates an existing campaign.
func (c *Client) UpdateCampaign(ctx context.Context, id int64, req *models.CampaignRequest) (*models.Campaign, error) {
	var resp models.Campaign
	if err := c.request(ctx, http.MethodPut, fmt.Sprintf("/campaigns/%d", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteCampaign requests removal of a campaign.
func (c *Client) DeleteCampaign(ctx context.Context, id int64) error {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/campaigns/%d", id), nil, nil)
}

// RunCampaign requests the engine to move a campaign into running.
func (c *Client) RunCampaign(ctx context.Context, id int64) error {
	return c.request(ctx, http.MethodPost, fmt.Sprintf("/campaigns/%d/run", id), nil, nil)
}

// PauseCampaign requests the engine to move a campaign into paused.
func (c *Client) PauseCampaign(ctx context.Context, id int64) error {
	return c.request(ctx, http.MethodPost, fmt.Sprintf("/campaigns/%d/pause", id), nil, nil)
}

// CampaignResults fetches per-target delivery/engagement results.
func (c *Client) CampaignResults(ctx context.Context, id int64) ([]models.CampaignResult, error) {
	var resp []models.CampaignResult
	if err := c.request(ctx, http.MethodGet, fmt.Sprintf("/campaigns/%d/results", id), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListSenderProfiles lists sender profiles.
func (c *Client) ListSenderProfiles(ctx context.Context) ([]models.SenderProfile, error) {
	var resp []models.SenderProfile
	if err := c.request(ctx, http.MethodGet, "/sender-profiles", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListEmailTemplates lists email templates.
func (c *Client) ListEmailTemplates(ctx context.Context) ([]models.EmailTemplate, error) {
	var resp []models.EmailTemplate
	if err := c.request(ctx, http.MethodGet, "/email-templates", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListPhishlets lists phishlets.
func (c *Client) ListPhishlets(ctx context.Context) ([]models.Phishlet, error) {
	var resp []models.Phishlet
	if err := c.request(ctx, http.MethodGet, "/phishlets", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListAttachments lists attachments.
func (c *Client) ListAttachments(ctx context.Context) ([]models.Attachment, error) {
	var resp []models.Attachment
	if err := c.request(ctx, http.MethodGet, "/attachments", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListGroups lists target groups.
func (c *Client) ListGroups(ctx context.Context) ([]models.Group, error) {
	var resp []models.Group
	if err := c.request(ctx, http.MethodGet, "/groups", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListTargets lists individual targets.
func (c *Client) ListTargets(ctx context.Context) ([]models.Target, error) {
	var resp []models.Target
	if err := c.request(ctx, http.MethodGet, "/targets", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
