package events

import (
	"time"
)

// Event types published to the arena event stream.
const (
	TypeTeamJoined       = "team_joined"
	TypeTeamDeleted      = "team_deleted"
	TypeRunStarted       = "run_started"
	TypeRunPaused        = "run_paused"
	TypeRunResumed       = "run_resumed"
	TypeRunDysfunctional = "run_dysfunctional"
	TypeRunEnded         = "run_ended"
	TypeReviewDisposed   = "review_disposed"
	TypeSettingsChanged  = "settings_changed"
)

// TeamJoinedPayload is the payload for a team_joined event.
type TeamJoinedPayload struct {
	TeamID   string    `json:"team_id"`
	Position int       `json:"position"`
	Priority bool      `json:"priority"`
	JoinedAt time.Time `json:"joined_at"`
}

// TeamDeletedPayload is the payload for a team_deleted event.
type TeamDeletedPayload struct {
	TeamID       string `json:"team_id"`
	ReleasedSlot int    `json:"released_slot,omitempty"`
}

// RunStartedPayload is the payload for a run_started event.
type RunStartedPayload struct {
	RunID       string    `json:"run_id"`
	TeamID      string    `json:"team_id"`
	Slot        int       `json:"slot"`
	DurationSec int       `json:"duration_sec"`
	StartedAt   time.Time `json:"started_at"`
}

// RunTransitionPayload is the payload for run_paused, run_resumed and
// run_dysfunctional events.
type RunTransitionPayload struct {
	RunID        string `json:"run_id"`
	TeamID       string `json:"team_id"`
	Slot         int    `json:"slot"`
	Status       string `json:"status"`
	RemainingSec int    `json:"remaining_sec"`
}

// RunEndedPayload is the payload for a run_ended event.
type RunEndedPayload struct {
	RunID         string    `json:"run_id"`
	TeamID        string    `json:"team_id"`
	Slot          int       `json:"slot"`
	Dysfunctional bool      `json:"dysfunctional"`
	RemainingSec  int       `json:"remaining_sec"`
	EndedAt       time.Time `json:"ended_at"`
}

// ReviewDisposedPayload is the payload for a review_disposed event.
type ReviewDisposedPayload struct {
	TeamID  string `json:"team_id"`
	Outcome string `json:"outcome"`
	Tally   int    `json:"tally"`
}

// SettingsChangedPayload is the payload for a settings_changed event.
type SettingsChangedPayload struct {
	RunDurationMinutes int    `json:"run_duration_minutes"`
	TeamPrefix         string `json:"team_prefix"`
}
