// Package registry holds the console's in-memory snapshot of the
// organization's reference resources and campaigns, fetched from the engine.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/phishdeck/phishdeck/internal/engine"
	"github.com/phishdeck/phishdeck/internal/models"
)

// Source is the engine boundary the registry fetches from. It is an
// interface so tests can substitute a fake engine without network access.
type Source interface {
	ListCampaigns(ctx context.Context) ([]models.Campaign, error)
	ListSenderProfiles(ctx context.Context) ([]models.SenderProfile, error)
	ListEmailTemplates(ctx context.Context) ([]models.EmailTemplate, error)
	ListPhishlets(ctx context.Context) ([]models.Phishlet, error)
	ListAttachments(ctx context.Context) ([]models.Attachment, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	ListTargets(ctx context.Context) ([]models.Target, error)
}

// Option is a selectable entry for composer inputs.
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Registry caches the current collections. Collections that fail to refresh
// keep their previous contents; a load never corrupts partial state.
type Registry struct {
	source Source
	logger *slog.Logger

	mu          sync.RWMutex
	campaigns   []models.Campaign
	profiles    []models.SenderProfile
	templates   []models.EmailTemplate
	phishlets   []models.Phishlet
	attachments []models.Attachment
	groups      []models.Group
	targets     []models.Target
	loadedAt    time.Time
	ready       bool
}

// New creates a registry backed by source.
func New(source Source, logger *slog.Logger) *Registry {
	return &Registry{
		source: source,
		logger: logger.With("component", "registry"),
	}
}

// LoadAll fetches every collection concurrently and waits for all fetches to
// settle. Collections that succeed are installed; collections that fail keep
// their prior contents. Any failure makes the load as a whole report a single
// error naming the kinds that failed. A 401 from any fetch escalates as
// engine.ErrUnauthorized.
func (r *Registry) LoadAll(ctx context.Context) error {
	var (
		campaigns   []models.Campaign
		profiles    []models.SenderProfile
		templates   []models.EmailTemplate
		phishlets   []models.Phishlet
		attachments []models.Attachment
		groups      []models.Group
		targets     []models.Target
	)

	// The zero errgroup does not cancel siblings on failure: every fetch
	// runs to completion so successful collections stay usable.
	var g errgroup.Group
	var mu sync.Mutex
	fetchErrs := make(map[string]error)

	fetch := func(name string, fn func() error) {
		g.Go(func() error {
			if err := fn(); err != nil {
				mu.Lock()
				fetchErrs[name] = err
				mu.Unlock()
				return err
			}
			return nil
		})
	}

	fetch("campaigns", func() (err error) {
		campaigns, err = r.source.ListCampaigns(ctx)
		return
	})
	fetch("sender profiles", func() (err error) {
		profiles, err = r.source.ListSenderProfiles(ctx)
		return
	})
	fetch("email templates", func() (err error) {
		templates, err = r.source.ListEmailTemplates(ctx)
		return
	})
	fetch("phishlets", func() (err error) {
		phishlets, err = r.source.ListPhishlets(ctx)
		return
	})
	fetch("attachments", func() (err error) {
		attachments, err = r.source.ListAttachments(ctx)
		return
	})
	fetch("groups", func() (err error) {
		groups, err = r.source.ListGroups(ctx)
		return
	})
	fetch("targets", func() (err error) {
		targets, err = r.source.ListTargets(ctx)
		return
	})

	groupErr := g.Wait()

	r.mu.Lock()
	if _, failed := fetchErrs["campaigns"]; !failed {
		r.campaigns = campaigns
	}
	if _, failed := fetchErrs["sender profiles"]; !failed {
		r.profiles = profiles
	}
	if _, failed := fetchErrs["email templates"]; !failed {
		r.templates = templates
	}
	if _, failed := fetchErrs["phishlets"]; !failed {
		r.phishlets = phishlets
	}
	if _, failed := fetchErrs["attachments"]; !failed {
		r.attachments = attachments
	}
	if _, failed := fetchErrs["groups"]; !failed {
		r.groups = groups
	}
	if _, failed := fetchErrs["targets"]; !failed {
		r.targets = targets
	}
	r.loadedAt = time.Now()
	if len(fetchErrs) == 0 {
		r.ready = true
	}
	r.mu.Unlock()

	if groupErr == nil {
		return nil
	}

	failed := make([]string, 0, len(fetchErrs))
	for name, err := range fetchErrs {
		if errors.Is(err, engine.ErrUnauthorized) {
			return engine.ErrUnauthorized
		}
		failed = append(failed, name)
	}
	for _, name := range failed {
		r.logger.Error("fetch failed", "kind", name, "error", fetchErrs[name])
	}
	return fmt.Errorf("failed to load %s", strings.Join(failed, ", "))
}

// Ready reports whether at least one full load has succeeded.
func (r *Registry) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ready
}

// LoadedAt returns the time of the last load attempt.
func (r *Registry) LoadedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadedAt
}

// Campaigns returns a copy of the campaign collection.
func (r *Registry) Campaigns() []models.Campaign {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Campaign(nil), r.campaigns...)
}

// Campaign returns the campaign with the given id, if present.
func (r *Registry) Campaign(id int64) (*models.Campaign, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.campaigns {
		if r.campaigns[i].ID == id {
			c := r.campaigns[i]
			return &c, true
		}
	}
	return nil, false
}

// SenderProfiles returns a copy of the sender profile collection.
func (r *Registry) SenderProfiles() []models.SenderProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.SenderProfile(nil), r.profiles...)
}

// EmailTemplates returns a copy of the email template collection.
func (r *Registry) EmailTemplates() []models.EmailTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.EmailTemplate(nil), r.templates...)
}

// Phishlets returns a copy of the phishlet collection.
func (r *Registry) Phishlets() []models.Phishlet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Phishlet(nil), r.phishlets...)
}

// Attachments returns a copy of the attachment collection.
func (r *Registry) Attachments() []models.Attachment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Attachment(nil), r.attachments...)
}

// Groups returns a copy of the group collection.
func (r *Registry) Groups() []models.Group {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Group(nil), r.groups...)
}

// Targets returns a copy of the target collection.
func (r *Registry) Targets() []models.Target {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Target(nil), r.targets...)
}

// FilterActive returns selectable options for active entries of a kind.
// Inactive entries are excluded from selection but remain resolvable by id.
func (r *Registry) FilterActive(kind models.Kind) []Option {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var opts []Option
	switch kind {
	case models.KindSenderProfile:
		for _, p := range r.profiles {
			if p.IsActive {
				opts = append(opts, Option{ID: p.ID, Name: p.Name})
			}
		}
	case models.KindEmailTemplate:
		for _, t := range r.templates {
			if t.IsActive {
				opts = append(opts, Option{ID: t.ID, Name: t.Name})
			}
		}
	case models.KindPhishlet:
		for _, p := range r.phishlets {
			if p.IsActive {
				opts = append(opts, Option{ID: p.ID, Name: p.Name})
			}
		}
	case models.KindAttachment:
		for _, a := range r.attachments {
			if a.IsActive {
				opts = append(opts, Option{ID: a.ID, Name: a.Name})
			}
		}
	case models.KindGroup:
		for _, g := range r.groups {
			if g.IsActive {
				opts = append(opts, Option{ID: g.ID, Name: g.Name})
			}
		}
	case models.KindTarget:
		for _, t := range r.targets {
			if t.IsActive {
				opts = append(opts, Option{ID: t.ID, Name: t.DisplayName()})
			}
		}
	}
	return opts
}

// ResolveName maps an id back to a display name. Dangling references resolve
// to an "Unknown {kind}" placeholder and never fail the caller.
func (r *Registry) ResolveName(kind models.Kind, id int64) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch kind {
	case models.KindSenderProfile:
		for _, p := range r.profiles {
			if p.ID == id {
				return p.Name
			}
		}
	case models.KindEmailTemplate:
		for _, t := range r.templates {
			if t.ID == id {
				return t.Name
			}
		}
	case models.KindPhishlet:
		for _, p := range r.phishlets {
			if p.ID == id {
				return p.Name
			}
		}
	case models.KindAttachment:
		for _, a := range r.attachments {
			if a.ID == id {
				return a.Name
			}
		}
	case models.KindGroup:
		for _, g := range r.groups {
			if g.ID == id {
				return g.Name
			}
		}
	case models.KindTarget:
		for _, t := range r.targets {
			if t.ID == id {
				return t.DisplayName()
			}
		}
	}
	return fmt.Sprintf("Unknown %s", kind)
}
