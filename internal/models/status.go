package models

// Status is the engine-owned campaign status. The console never sets it
// directly; it only requests transitions and re-reads the listing.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// Action is a lifecycle intent the console may request for a campaign.
type Action string

const (
	ActionEdit   Action = "edit"
	ActionRun    Action = "run"
	ActionPause  Action = "pause"
	ActionDelete Action = "delete"
)

// transitions is the single source of truth for which actions are legal in
// which status. Every predicate below consults it, so adding a status cannot
// desynchronize them.
var transitions = map[Status]map[Action]bool{
	StatusDraft: {
		ActionEdit:   true,
		ActionDelete: true,
	},
	StatusScheduled: {
		ActionRun:    true,
		ActionDelete: true,
	},
	StatusRunning: {
		ActionPause:  true,
		ActionDelete: true,
	},
	StatusPaused: {
		ActionEdit:   true,
		ActionRun:    true,
		ActionDelete: true,
	},
	StatusCompleted: {
		ActionDelete: true,
	},
}

// Allows reports whether the given action may be requested while the
// campaign is in status s. Unknown statuses permit delete only, so a
// stale console never blocks cleanup but cannot start anything.
func (s Status) Allows(a Action) bool {
	if m, ok := transitions[s]; ok {
		return m[a]
	}
	return a == ActionDelete
}

// CanEdit reports whether the campaign may be opened for editing.
func (s Status) CanEdit() bool { return s.Allows(ActionEdit) }

// CanRun reports whether a run transition may be requested.
func (s Status) CanRun() bool { return s.Allows(ActionRun) }

// CanPause reports whether a pause transition may be requested.
func (s Status) CanPause() bool { return s.Allows(ActionPause) }

// CanDelete reports whether deletion may be requested.
func (s Status) CanDelete() bool { return s.Allows(ActionDelete) }

// Statuses lists all statuses the engine reports.
func Statuses() []Status {
	return []Status{StatusDraft, StatusScheduled, StatusRunning, StatusPaused, StatusCompleted}
}
