package models

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus defines the lifecycle state of a slot occupancy.
type RunStatus string

const (
	RunStatusIdle          RunStatus = "IDLE"
	RunStatusRunning       RunStatus = "RUNNING"
	RunStatusPaused        RunStatus = "PAUSED"
	RunStatusDysfunctional RunStatus = "DYSFUNCTIONAL"
	RunStatusEnded         RunStatus = "ENDED"
)

// ReviewOutcome defines the disposition applied to a reviewed run.
type ReviewOutcome string

const (
	ReviewOutcomeSuccess  ReviewOutcome = "SUCCESS"
	ReviewOutcomeFailure  ReviewOutcome = "FAILURE"
	ReviewOutcomeCanceled ReviewOutcome = "CANCELED"
)

// Team represents a competing team and its running success tally.
type Team struct {
	ID        string    `json:"id"`
	Tally     int       `json:"tally"`
	CreatedAt time.Time `json:"created_at"`
}

// QueueEntry represents a team's pending request for a run.
// Priority is set only by a FAILURE review disposition.
type QueueEntry struct {
	TeamID   string    `json:"team_id"`
	Priority bool      `json:"priority"`
	JoinedAt time.Time `json:"joined_at"`
}

// Run represents one team's timed occupancy of an arena slot.
// Duration is snapshotted from settings at start and immutable for the
// run's lifetime. Elapsed accumulates only while the run is RUNNING.
type Run struct {
	ID         uuid.UUID     `json:"id"`
	TeamID     string        `json:"team_id"`
	SlotIndex  int           `json:"slot_index"`
	Status     RunStatus     `json:"status"`
	Duration   time.Duration `json:"duration"`
	Elapsed    time.Duration `json:"elapsed"`
	LastResume time.Time     `json:"last_resume"`
	StartedAt  time.Time     `json:"started_at"`
}

// Remaining derives the time left on the run's countdown, clamped at zero.
// Remaining time is never stored as an absolute countdown; deriving it from
// the elapsed accumulator keeps pause/resume exact and drift-free.
func (r *Run) Remaining(now time.Time) time.Duration {
	elapsed := r.Elapsed
	if r.Status == RunStatusRunning {
		elapsed += now.Sub(r.LastResume)
	}
	remaining := r.Duration - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ReviewItem represents a concluded run awaiting a disposition.
// Origin fields record how the run exited its slot.
type ReviewItem struct {
	ID             uuid.UUID     `json:"id"`
	TeamID         string        `json:"team_id"`
	SlotIndex      int           `json:"slot_index"`
	Dysfunctional  bool          `json:"dysfunctional"`
	RemainingAtEnd time.Duration `json:"remaining_at_end"`
	EndedAt        time.Time     `json:"ended_at"`
}

// Settings holds process-wide arena configuration. RunDuration applies only
// to runs started after a change; in-flight runs keep their snapshotted value.
type Settings struct {
	RunDuration time.Duration `json:"run_duration"`
	TeamPrefix  string        `json:"team_prefix"`
}
