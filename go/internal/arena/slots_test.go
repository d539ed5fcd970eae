package arena

import (
	"testing"
	"time"

	"github.com/arenaops/paddock/go/internal/models"
)

var slotsBase = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func TestSlotManager_StartAndOccupy(t *testing.T) {
	m := NewSlotManager(4)

	run, err := m.Start(1, "ALPHA", time.Minute, slotsBase)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if run.Status != models.RunStatusRunning {
		t.Errorf("run status = %s, want RUNNING", run.Status)
	}
	if run.SlotIndex != 1 || run.TeamID != "ALPHA" {
		t.Errorf("run = slot %d team %s, want slot 1 team ALPHA", run.SlotIndex, run.TeamID)
	}

	_, err = m.Start(1, "BRAVO", time.Minute, slotsBase)
	if KindOf(err) != KindSlotNotIdle {
		t.Errorf("Start() on occupied slot kind = %q, want %q", KindOf(err), KindSlotNotIdle)
	}
	if !m.TeamPresent("ALPHA") {
		t.Error("TeamPresent(ALPHA) = false, want true")
	}
}

func TestSlotManager_InvalidIndex(t *testing.T) {
	m := NewSlotManager(4)
	for _, slot := range []int{0, -1, 5} {
		_, err := m.Start(slot, "ALPHA", time.Minute, slotsBase)
		if KindOf(err) != KindInvalidValue {
			t.Errorf("Start(slot=%d) kind = %q, want %q", slot, KindOf(err), KindInvalidValue)
		}
	}
}

func TestSlotManager_PauseResumeAccounting(t *testing.T) {
	m := NewSlotManager(1)
	_, _ = m.Start(1, "ALPHA", time.Minute, slotsBase)

	// 30s running, 20s paused, 20s running: elapsed must be exactly 50s
	// regardless of the pause in between.
	if _, err := m.Pause(1, slotsBase.Add(30*time.Second)); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if _, err := m.Resume(1, slotsBase.Add(50*time.Second)); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	run, err := m.Pause(1, slotsBase.Add(70*time.Second))
	if err != nil {
		t.Fatalf("second Pause() error = %v", err)
	}
	if run.Elapsed != 50*time.Second {
		t.Errorf("elapsed = %v, want 50s", run.Elapsed)
	}
	if got := run.Remaining(slotsBase.Add(70 * time.Second)); got != 10*time.Second {
		t.Errorf("remaining = %v, want 10s", got)
	}
}

func TestSlotManager_DoublePauseFailsCleanly(t *testing.T) {
	m := NewSlotManager(1)
	_, _ = m.Start(1, "ALPHA", time.Minute, slotsBase)
	_, _ = m.Pause(1, slotsBase.Add(10*time.Second))

	// The second pause must observe PAUSED and fail without touching the
	// elapsed accumulator.
	_, err := m.Pause(1, slotsBase.Add(20*time.Second))
	if KindOf(err) != KindInvalidTransition {
		t.Fatalf("second Pause() kind = %q, want %q", KindOf(err), KindInvalidTransition)
	}
	run, _ := m.Run(1)
	if run.Elapsed != 10*time.Second {
		t.Errorf("elapsed after failed pause = %v, want 10s", run.Elapsed)
	}
}

func TestSlotManager_ResumeRequiresPaused(t *testing.T) {
	m := NewSlotManager(1)
	_, _ = m.Start(1, "ALPHA", time.Minute, slotsBase)

	_, err := m.Resume(1, slotsBase.Add(time.Second))
	if KindOf(err) != KindInvalidTransition {
		t.Errorf("Resume() on RUNNING kind = %q, want %q", KindOf(err), KindInvalidTransition)
	}

	_, _ = m.MarkDysfunctional(1, slotsBase.Add(2*time.Second))
	_, err = m.Resume(1, slotsBase.Add(3*time.Second))
	if KindOf(err) != KindInvalidTransition {
		t.Errorf("Resume() on DYSFUNCTIONAL kind = %q, want %q", KindOf(err), KindInvalidTransition)
	}
}

func TestSlotManager_MarkDysfunctional(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(m *SlotManager)
		wantErr ErrorKind
	}{
		{
			name:    "from running",
			prepare: func(m *SlotManager) {},
		},
		{
			name: "from paused",
			prepare: func(m *SlotManager) {
				_, _ = m.Pause(1, slotsBase.Add(5*time.Second))
			},
		},
		{
			name: "from dysfunctional",
			prepare: func(m *SlotManager) {
				_, _ = m.MarkDysfunctional(1, slotsBase.Add(5*time.Second))
			},
			wantErr: KindInvalidTransition,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewSlotManager(1)
			_, _ = m.Start(1, "ALPHA", time.Minute, slotsBase)
			tt.prepare(m)

			run, err := m.MarkDysfunctional(1, slotsBase.Add(10*time.Second))
			if tt.wantErr != "" {
				if KindOf(err) != tt.wantErr {
					t.Fatalf("MarkDysfunctional() kind = %q, want %q", KindOf(err), tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("MarkDysfunctional() error = %v", err)
			}
			if run.Status != models.RunStatusDysfunctional {
				t.Errorf("status = %s, want DYSFUNCTIONAL", run.Status)
			}
		})
	}
}

func TestSlotManager_DysfunctionalFreezesCountdown(t *testing.T) {
	m := NewSlotManager(1)
	_, _ = m.Start(1, "ALPHA", time.Minute, slotsBase)
	run, _ := m.MarkDysfunctional(1, slotsBase.Add(15*time.Second))

	if run.Elapsed != 15*time.Second {
		t.Errorf("elapsed = %v, want 15s", run.Elapsed)
	}
	// Time passing after the mark must not consume the countdown.
	if got := run.Remaining(slotsBase.Add(10 * time.Minute)); got != 45*time.Second {
		t.Errorf("remaining = %v, want 45s", got)
	}
}

func TestSlotManager_End(t *testing.T) {
	m := NewSlotManager(2)
	_, _ = m.Start(1, "ALPHA", time.Minute, slotsBase)

	run, err := m.End(1, slotsBase.Add(20*time.Second))
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if run.Status != models.RunStatusEnded {
		t.Errorf("status = %s, want ENDED", run.Status)
	}
	if run.Elapsed != 20*time.Second {
		t.Errorf("elapsed = %v, want 20s", run.Elapsed)
	}
	if idle, _ := m.IsIdle(1); !idle {
		t.Error("slot 1 not idle after End()")
	}

	_, err = m.End(1, slotsBase.Add(30*time.Second))
	if KindOf(err) != KindSlotIdle {
		t.Errorf("End() on idle slot kind = %q, want %q", KindOf(err), KindSlotIdle)
	}

	_, err = m.End(2, slotsBase)
	if KindOf(err) != KindSlotIdle {
		t.Errorf("End() on never-used slot kind = %q, want %q", KindOf(err), KindSlotIdle)
	}
}

func TestSlotManager_RemainingClampsAtZero(t *testing.T) {
	m := NewSlotManager(1)
	run, _ := m.Start(1, "ALPHA", time.Minute, slotsBase)

	if got := run.Remaining(slotsBase.Add(70 * time.Second)); got != 0 {
		t.Errorf("remaining after overrun = %v, want 0", got)
	}
	// Hitting zero is informational only; the run stays RUNNING until an
	// explicit end.
	if run.Status != models.RunStatusRunning {
		t.Errorf("status after overrun = %s, want RUNNING", run.Status)
	}
}

func TestSlotManager_Release(t *testing.T) {
	m := NewSlotManager(2)
	_, _ = m.Start(2, "ALPHA", time.Minute, slotsBase)

	slot, ok := m.Release("ALPHA")
	if !ok || slot != 2 {
		t.Errorf("Release(ALPHA) = (%d, %v), want (2, true)", slot, ok)
	}
	if idle, _ := m.IsIdle(2); !idle {
		t.Error("slot 2 not idle after Release()")
	}
	if _, ok := m.Release("ALPHA"); ok {
		t.Error("second Release(ALPHA) = true, want false")
	}
}
