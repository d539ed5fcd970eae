package arena

import (
	"fmt"
	"time"

	"github.com/arenaops/paddock/go/internal/models"
)

// Snapshot is the full, read-only state the display layer renders from.
// The server-derived remaining seconds here are authoritative; any client
// countdown is cosmetic interpolation resynced on each poll.
type Snapshot struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Slots       []SlotView     `json:"slots"`
	Queue       []QueueView    `json:"queue"`
	Review      []ReviewView   `json:"review"`
	Teams       []TeamView     `json:"teams"`
	Settings    SettingsView   `json:"settings"`
}

// SlotView is one slot's state with its derived countdown.
type SlotView struct {
	Slot             int              `json:"slot"`
	Status           models.RunStatus `json:"status"`
	TeamID           string           `json:"team_id,omitempty"`
	RunID            string           `json:"run_id,omitempty"`
	RemainingSec     int              `json:"remaining_sec"`
	RemainingDisplay string           `json:"remaining_display"`
	DurationSec      int              `json:"duration_sec,omitempty"`
}

// QueueView is one waiting-queue entry in dequeue order.
type QueueView struct {
	Position int    `json:"position"`
	TeamID   string `json:"team_id"`
	Priority bool   `json:"priority"`
}

// ReviewView is one run awaiting disposition.
type ReviewView struct {
	TeamID        string    `json:"team_id"`
	Slot          int       `json:"slot"`
	Dysfunctional bool      `json:"dysfunctional"`
	RemainingSec  int       `json:"remaining_sec"`
	EndedAt       time.Time `json:"ended_at"`
}

// TeamView is one registered team with its display name and tally.
type TeamView struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Tally       int    `json:"tally"`
}

// SettingsView mirrors the current settings for the display layer.
type SettingsView struct {
	SlotCount          int    `json:"slot_count"`
	RunDurationMinutes int    `json:"run_duration_minutes"`
	RunDurationSec     int    `json:"run_duration_sec"`
	TeamPrefix         string `json:"team_prefix"`
}

// snapshotLocked builds the snapshot. Callers must hold the façade lock.
func (a *App) snapshotLocked() *Snapshot {
	now := a.clock.Now()

	slots := make([]SlotView, 0, a.slots.Count())
	for i, run := range a.slots.Runs() {
		view := SlotView{
			Slot:             i + 1,
			Status:           models.RunStatusIdle,
			RemainingDisplay: formatSeconds(0),
		}
		if run != nil {
			remaining := int(run.Remaining(now).Seconds())
			view.Status = run.Status
			view.TeamID = run.TeamID
			view.RunID = run.ID.String()
			view.RemainingSec = remaining
			view.RemainingDisplay = formatSeconds(remaining)
			view.DurationSec = int(run.Duration.Seconds())
		}
		slots = append(slots, view)
	}

	queue := make([]QueueView, 0, a.queue.Len())
	for i, e := range a.queue.Entries() {
		queue = append(queue, QueueView{Position: i + 1, TeamID: e.TeamID, Priority: e.Priority})
	}

	review := make([]ReviewView, 0, a.review.Len())
	for _, item := range a.review.Items() {
		review = append(review, ReviewView{
			TeamID:        item.TeamID,
			Slot:          item.SlotIndex,
			Dysfunctional: item.Dysfunctional,
			RemainingSec:  int(item.RemainingAtEnd.Seconds()),
			EndedAt:       item.EndedAt,
		})
	}

	teams := make([]TeamView, 0, len(a.registry.order))
	for _, team := range a.registry.Teams() {
		teams = append(teams, TeamView{
			ID:          team.ID,
			DisplayName: a.settings.TeamPrefix + team.ID,
			Tally:       team.Tally,
		})
	}

	return &Snapshot{
		GeneratedAt: now,
		Slots:       slots,
		Queue:       queue,
		Review:      review,
		Teams:       teams,
		Settings: SettingsView{
			SlotCount:          a.slots.Count(),
			RunDurationMinutes: int(a.settings.RunDuration.Minutes()),
			RunDurationSec:     int(a.settings.RunDuration.Seconds()),
			TeamPrefix:         a.settings.TeamPrefix,
		},
	}
}

// formatSeconds renders a countdown as MM:SS for the display layer.
func formatSeconds(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}
