package arena

import (
	"time"

	"github.com/google/uuid"

	"github.com/arenaops/paddock/go/internal/models"
)

// SlotManager holds the fixed set of arena slots, each occupied by at most
// one run. Slots are addressed 1..Count(). Like the other components it is
// unsynchronized; the façade serializes access.
type SlotManager struct {
	runs []*models.Run
}

// NewSlotManager creates a manager with the given number of idle slots.
func NewSlotManager(count int) *SlotManager {
	return &SlotManager{runs: make([]*models.Run, count)}
}

// Count returns the number of slots.
func (m *SlotManager) Count() int {
	return len(m.runs)
}

func (m *SlotManager) checkIndex(slot int) error {
	if slot < 1 || slot > len(m.runs) {
		return Errorf(KindInvalidValue, "slot %d does not exist (slots are 1..%d)", slot, len(m.runs))
	}
	return nil
}

// Run returns the run occupying the slot, if any.
func (m *SlotManager) Run(slot int) (*models.Run, bool) {
	if err := m.checkIndex(slot); err != nil {
		return nil, false
	}
	run := m.runs[slot-1]
	return run, run != nil
}

// IsIdle reports whether the slot has no run.
func (m *SlotManager) IsIdle(slot int) (bool, error) {
	if err := m.checkIndex(slot); err != nil {
		return false, err
	}
	return m.runs[slot-1] == nil, nil
}

// TeamPresent reports whether the team occupies any slot, in any status.
func (m *SlotManager) TeamPresent(teamID string) bool {
	for _, run := range m.runs {
		if run != nil && run.TeamID == teamID {
			return true
		}
	}
	return false
}

// Start places a new RUNNING run in an idle slot. The duration is the
// caller's snapshot of the current settings value.
func (m *SlotManager) Start(slot int, teamID string, duration time.Duration, now time.Time) (*models.Run, error) {
	if err := m.checkIndex(slot); err != nil {
		return nil, err
	}
	if m.runs[slot-1] != nil {
		return nil, Errorf(KindSlotNotIdle, "slot %d is not idle", slot)
	}
	run := &models.Run{
		ID:         uuid.New(),
		TeamID:     teamID,
		SlotIndex:  slot,
		Status:     models.RunStatusRunning,
		Duration:   duration,
		Elapsed:    0,
		LastResume: now,
		StartedAt:  now,
	}
	m.runs[slot-1] = run
	return run, nil
}

// Pause freezes a RUNNING run's countdown, folding the active interval into
// the elapsed accumulator.
func (m *SlotManager) Pause(slot int, now time.Time) (*models.Run, error) {
	run, err := m.occupied(slot)
	if err != nil {
		return nil, err
	}
	if run.Status != models.RunStatusRunning {
		return nil, Errorf(KindInvalidTransition, "slot %d is %s, not RUNNING", slot, run.Status)
	}
	run.Elapsed += now.Sub(run.LastResume)
	run.Status = models.RunStatusPaused
	return run, nil
}

// Resume restarts a PAUSED run's countdown.
func (m *SlotManager) Resume(slot int, now time.Time) (*models.Run, error) {
	run, err := m.occupied(slot)
	if err != nil {
		return nil, err
	}
	if run.Status != models.RunStatusPaused {
		return nil, Errorf(KindInvalidTransition, "slot %d is %s, not PAUSED", slot, run.Status)
	}
	run.LastResume = now
	run.Status = models.RunStatusRunning
	return run, nil
}

// MarkDysfunctional freezes the countdown and flags the run. The run stays
// in its slot so the operator can decide when to end it.
func (m *SlotManager) MarkDysfunctional(slot int, now time.Time) (*models.Run, error) {
	run, err := m.occupied(slot)
	if err != nil {
		return nil, err
	}
	switch run.Status {
	case models.RunStatusRunning:
		run.Elapsed += now.Sub(run.LastResume)
	case models.RunStatusPaused:
		// countdown already frozen
	default:
		return nil, Errorf(KindInvalidTransition, "slot %d is %s, not RUNNING or PAUSED", slot, run.Status)
	}
	run.Status = models.RunStatusDysfunctional
	return run, nil
}

// End concludes the slot's run from any non-idle status and frees the slot.
// The returned run carries the final frozen elapsed time and status ENDED;
// this is the only path a run leaves a slot.
func (m *SlotManager) End(slot int, now time.Time) (*models.Run, error) {
	if err := m.checkIndex(slot); err != nil {
		return nil, err
	}
	run := m.runs[slot-1]
	if run == nil {
		return nil, Errorf(KindSlotIdle, "slot %d has no active run to end", slot)
	}
	if run.Status == models.RunStatusRunning {
		run.Elapsed += now.Sub(run.LastResume)
	}
	run.Status = models.RunStatusEnded
	m.runs[slot-1] = nil
	return run, nil
}

// Release frees the slot occupied by the team without producing a review
// item. Used by the team-delete cascade. Reports the freed slot, if any.
func (m *SlotManager) Release(teamID string) (int, bool) {
	for i, run := range m.runs {
		if run != nil && run.TeamID == teamID {
			m.runs[i] = nil
			return i + 1, true
		}
	}
	return 0, false
}

// Runs returns the per-slot occupancy; nil entries are idle slots.
func (m *SlotManager) Runs() []*models.Run {
	out := make([]*models.Run, len(m.runs))
	copy(out, m.runs)
	return out
}

func (m *SlotManager) occupied(slot int) (*models.Run, error) {
	if err := m.checkIndex(slot); err != nil {
		return nil, err
	}
	run := m.runs[slot-1]
	if run == nil {
		return nil, Errorf(KindInvalidTransition, "slot %d is idle", slot)
	}
	return run, nil
}
