package arena

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/arenaops/paddock/go/internal/arena/events"
	"github.com/arenaops/paddock/go/internal/metrics"
	"github.com/arenaops/paddock/go/internal/models"
)

// EventSink defines what the façade needs from the event publisher.
type EventSink interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// TeamStore defines what the façade needs from durable team storage.
// Writes are best-effort: the in-memory aggregate stays authoritative.
type TeamStore interface {
	UpsertTeam(ctx context.Context, team models.Team) error
	DeleteTeam(ctx context.Context, teamID string) error
}

// Config holds the arena's startup configuration.
type Config struct {
	SlotCount       int
	RunDuration     time.Duration
	TeamPrefix      string
	AutoCreateTeams bool
}

// DefaultConfig returns the stock arena: four slots, five-minute runs,
// teams auto-created on first join.
func DefaultConfig() Config {
	return Config{
		SlotCount:       4,
		RunDuration:     5 * time.Minute,
		TeamPrefix:      "Team ",
		AutoCreateTeams: true,
	}
}

// App is the snapshot/command façade over the whole arena state: waiting
// queue, slots, review queue, team registry and settings. One mutex guards
// everything so each command is a whole-state transaction: it either applies
// completely or, on a validation failure, not at all.
type App struct {
	mu         sync.Mutex
	clock      clockwork.Clock
	settings   models.Settings
	autoCreate bool

	registry *Registry
	queue    *WaitQueue
	slots    *SlotManager
	review   *ReviewQueue

	sink  EventSink
	store TeamStore
}

// NewApp assembles the arena façade. sink and store may be nil.
func NewApp(cfg Config, clock clockwork.Clock, sink EventSink, store TeamStore) *App {
	def := DefaultConfig()
	if cfg.SlotCount <= 0 {
		cfg.SlotCount = def.SlotCount
	}
	if cfg.RunDuration <= 0 {
		cfg.RunDuration = def.RunDuration
	}
	return &App{
		clock:      clock,
		settings:   models.Settings{RunDuration: cfg.RunDuration, TeamPrefix: cfg.TeamPrefix},
		autoCreate: cfg.AutoCreateTeams,
		registry:   NewRegistry(),
		queue:      NewWaitQueue(),
		slots:      NewSlotManager(cfg.SlotCount),
		review:     NewReviewQueue(),
		sink:       sink,
		store:      store,
	}
}

// SeedTeams loads teams restored from durable storage.
func (a *App) SeedTeams(teams []models.Team) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.registry.Seed(teams)
	log.Info().Int("teams", len(teams)).Msg("seeded team registry from store")
}

// GetSnapshot returns the full current state.
func (a *App) GetSnapshot() *Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// JoinQueue appends the team to the waiting queue, auto-registering it on
// first join unless auto-creation is disabled.
func (a *App) JoinQueue(ctx context.Context, teamID string) (snap *Snapshot, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer func() { a.finishLocked("join_queue", err) }()

	return a.joinLocked(ctx, teamID, false)
}

// ReAddTeam re-queues an already-registered team without it re-entering an ID.
func (a *App) ReAddTeam(ctx context.Context, teamID string) (snap *Snapshot, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer func() { a.finishLocked("readd_team", err) }()

	return a.joinLocked(ctx, teamID, true)
}

func (a *App) joinLocked(ctx context.Context, rawID string, requireExisting bool) (*Snapshot, error) {
	teamID, err := normalizeTeamID(rawID)
	if err != nil {
		return nil, err
	}
	if a.queue.Contains(teamID) || a.slots.TeamPresent(teamID) {
		return nil, Errorf(KindDuplicateEntry, "team %s is already in the queue or currently running", teamID)
	}
	if !a.registry.Exists(teamID) {
		if requireExisting || !a.autoCreate {
			return nil, Errorf(KindUnknownTeam, "team %s is not registered", teamID)
		}
	}

	now := a.clock.Now()
	team := a.registry.Ensure(teamID, now)
	if err := a.queue.Join(teamID, now); err != nil {
		return nil, err
	}
	a.persistTeam(ctx, *team)

	log.Info().Str("team_id", teamID).Int("position", a.queue.Len()).Msg("team joined waiting queue")
	a.emit(events.TypeTeamJoined, events.TeamJoinedPayload{
		TeamID:   teamID,
		Position: a.queue.Len(),
		JoinedAt: now,
	})
	return a.snapshotLocked(), nil
}

// StartSlot dequeues the front waiting entry into an idle slot and starts its
// countdown. The run duration is snapshotted from the current settings and
// immutable for the run's lifetime.
func (a *App) StartSlot(ctx context.Context, slot int) (snap *Snapshot, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer func() { a.finishLocked("start_slot", err) }()

	idle, err := a.slots.IsIdle(slot)
	if err != nil {
		return nil, err
	}
	if !idle {
		return nil, Errorf(KindSlotNotIdle, "slot %d is not idle", slot)
	}
	if a.queue.Len() == 0 {
		return nil, Errorf(KindEmptyQueue, "cannot start run: waiting queue is empty")
	}

	now := a.clock.Now()
	entry, err := a.queue.DequeueFront()
	if err != nil {
		return nil, err
	}
	run, err := a.slots.Start(slot, entry.TeamID, a.settings.RunDuration, now)
	if err != nil {
		return nil, err
	}

	metrics.RunsStartedTotal.Inc()
	log.Info().
		Str("team_id", run.TeamID).
		Int("slot", slot).
		Dur("duration", run.Duration).
		Msg("run started")
	a.emit(events.TypeRunStarted, events.RunStartedPayload{
		RunID:       run.ID.String(),
		TeamID:      run.TeamID,
		Slot:        slot,
		DurationSec: int(run.Duration.Seconds()),
		StartedAt:   now,
	})
	return a.snapshotLocked(), nil
}

// PauseSlot freezes the slot's running countdown.
func (a *App) PauseSlot(ctx context.Context, slot int) (snap *Snapshot, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer func() { a.finishLocked("pause_slot", err) }()

	now := a.clock.Now()
	run, err := a.slots.Pause(slot, now)
	if err != nil {
		return nil, err
	}
	log.Info().Str("team_id", run.TeamID).Int("slot", slot).Msg("run paused")
	a.emit(events.TypeRunPaused, transitionPayload(run, now))
	return a.snapshotLocked(), nil
}

// ResumeSlot restarts a paused countdown.
func (a *App) ResumeSlot(ctx context.Context, slot int) (snap *Snapshot, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer func() { a.finishLocked("resume_slot", err) }()

	now := a.clock.Now()
	run, err := a.slots.Resume(slot, now)
	if err != nil {
		return nil, err
	}
	log.Info().Str("team_id", run.TeamID).Int("slot", slot).Msg("run resumed")
	a.emit(events.TypeRunResumed, transitionPayload(run, now))
	return a.snapshotLocked(), nil
}

// MarkDysfunctional freezes the countdown and flags the run; it stays in the
// slot until explicitly ended.
func (a *App) MarkDysfunctional(ctx context.Context, slot int) (snap *Snapshot, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer func() { a.finishLocked("mark_dysfunctional", err) }()

	now := a.clock.Now()
	run, err := a.slots.MarkDysfunctional(slot, now)
	if err != nil {
		return nil, err
	}
	log.Warn().Str("team_id", run.TeamID).Int("slot", slot).Msg("run marked dysfunctional")
	a.emit(events.TypeRunDysfunctional, transitionPayload(run, now))
	return a.snapshotLocked(), nil
}

// EndRun concludes the slot's run from any non-idle status and moves it into
// the review queue. The slot returns to idle.
func (a *App) EndRun(ctx context.Context, slot int) (snap *Snapshot, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer func() { a.finishLocked("end_run", err) }()

	now := a.clock.Now()
	prev, _ := a.slots.Run(slot)
	wasDysfunctional := prev != nil && prev.Status == models.RunStatusDysfunctional

	run, err := a.slots.End(slot, now)
	if err != nil {
		return nil, err
	}

	item := models.ReviewItem{
		ID:             run.ID,
		TeamID:         run.TeamID,
		SlotIndex:      slot,
		Dysfunctional:  wasDysfunctional,
		RemainingAtEnd: run.Remaining(now),
		EndedAt:        now,
	}
	a.review.Add(item)

	log.Info().
		Str("team_id", run.TeamID).
		Int("slot", slot).
		Bool("dysfunctional", wasDysfunctional).
		Msg("run ended and moved to review")
	a.emit(events.TypeRunEnded, events.RunEndedPayload{
		RunID:         run.ID.String(),
		TeamID:        run.TeamID,
		Slot:          slot,
		Dysfunctional: wasDysfunctional,
		RemainingSec:  int(item.RemainingAtEnd.Seconds()),
		EndedAt:       now,
	})
	return a.snapshotLocked(), nil
}

// DisposeReview applies a SUCCESS, FAILURE or CANCELED disposition to the
// team's pending review item and removes it. SUCCESS increments the team's
// tally; FAILURE re-queues the team with priority; CANCELED does neither.
func (a *App) DisposeReview(ctx context.Context, teamID string, outcome models.ReviewOutcome) (snap *Snapshot, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer func() { a.finishLocked("dispose_review", err) }()

	id, err := normalizeTeamID(teamID)
	if err != nil {
		return nil, err
	}
	switch outcome {
	case models.ReviewOutcomeSuccess, models.ReviewOutcomeFailure, models.ReviewOutcomeCanceled:
	default:
		return nil, Errorf(KindInvalidValue, "unknown review outcome %q", outcome)
	}
	if !a.review.Contains(id) {
		return nil, Errorf(KindUnknownReviewItem, "team %s has no run awaiting review", id)
	}

	// Validate before mutating so a failed disposition leaves the review
	// item in place.
	switch outcome {
	case models.ReviewOutcomeSuccess:
		if !a.registry.Exists(id) {
			return nil, Errorf(KindUnknownTeam, "team %s is not registered", id)
		}
	case models.ReviewOutcomeFailure:
		if a.queue.Contains(id) || a.slots.TeamPresent(id) {
			return nil, Errorf(KindDuplicateEntry, "team %s is already queued or running; cancel the review instead", id)
		}
	}

	if _, err := a.review.Take(id); err != nil {
		return nil, err
	}

	now := a.clock.Now()
	tally := 0
	switch outcome {
	case models.ReviewOutcomeSuccess:
		team, err := a.registry.IncrementTally(id)
		if err != nil {
			return nil, err
		}
		tally = team.Tally
		a.persistTeam(ctx, *team)
	case models.ReviewOutcomeFailure:
		if err := a.queue.InsertPriority(id, now); err != nil {
			return nil, err
		}
	case models.ReviewOutcomeCanceled:
		// team keeps its registry entry and tally; it is simply not re-queued
	}

	metrics.ReviewDispositionsTotal.WithLabelValues(string(outcome)).Inc()
	log.Info().Str("team_id", id).Str("outcome", string(outcome)).Msg("review disposed")
	a.emit(events.TypeReviewDisposed, events.ReviewDisposedPayload{
		TeamID:  id,
		Outcome: string(outcome),
		Tally:   tally,
	})
	return a.snapshotLocked(), nil
}

// DeleteTeam removes a team entirely: its queue entry, any active run (the
// slot returns to idle without a review item), any pending review item, and
// its tally history.
func (a *App) DeleteTeam(ctx context.Context, teamID string) (snap *Snapshot, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer func() { a.finishLocked("delete_team", err) }()

	id, err := normalizeTeamID(teamID)
	if err != nil {
		return nil, err
	}
	if !a.registry.Exists(id) {
		return nil, Errorf(KindUnknownTeam, "team %s is not registered", id)
	}

	a.queue.Remove(id)
	releasedSlot, _ := a.slots.Release(id)
	a.review.Remove(id)
	if err := a.registry.Delete(id); err != nil {
		return nil, err
	}
	if a.store != nil {
		if err := a.store.DeleteTeam(ctx, id); err != nil {
			log.Error().Err(err).Str("team_id", id).Msg("failed to delete team from store")
		}
	}

	log.Info().Str("team_id", id).Int("released_slot", releasedSlot).Msg("team deleted")
	a.emit(events.TypeTeamDeleted, events.TeamDeletedPayload{
		TeamID:       id,
		ReleasedSlot: releasedSlot,
	})
	return a.snapshotLocked(), nil
}

// SetRunDuration changes the run duration for future runs only; in-flight
// runs keep the duration snapshotted when they started.
func (a *App) SetRunDuration(ctx context.Context, minutes int) (snap *Snapshot, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer func() { a.finishLocked("set_run_duration", err) }()

	if minutes <= 0 {
		return nil, Errorf(KindInvalidValue, "run duration must be a positive number of minutes, got %d", minutes)
	}
	a.settings.RunDuration = time.Duration(minutes) * time.Minute

	log.Info().Int("minutes", minutes).Msg("run duration updated")
	a.emitSettingsChanged()
	return a.snapshotLocked(), nil
}

// SetTeamPrefix changes the cosmetic display prefix; it only affects how the
// snapshot renders team names.
func (a *App) SetTeamPrefix(ctx context.Context, prefix string) (snap *Snapshot, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer func() { a.finishLocked("set_team_prefix", err) }()

	a.settings.TeamPrefix = prefix

	log.Info().Str("prefix", prefix).Msg("team display prefix updated")
	a.emitSettingsChanged()
	return a.snapshotLocked(), nil
}

func (a *App) emitSettingsChanged() {
	a.emit(events.TypeSettingsChanged, events.SettingsChangedPayload{
		RunDurationMinutes: int(a.settings.RunDuration.Minutes()),
		TeamPrefix:         a.settings.TeamPrefix,
	})
}

// emit publishes fire-and-forget; a broker outage never blocks or fails a
// command.
func (a *App) emit(eventType string, payload any) {
	if a.sink == nil {
		return
	}
	sink := a.sink
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sink.Publish(ctx, eventType, payload); err != nil {
			log.Error().Err(err).Str("event_type", eventType).Msg("failed to publish arena event")
		}
	}()
}

// persistTeam writes through to durable storage, best-effort.
func (a *App) persistTeam(ctx context.Context, team models.Team) {
	if a.store == nil {
		return
	}
	if err := a.store.UpsertTeam(ctx, team); err != nil {
		log.Error().Err(err).Str("team_id", team.ID).Msg("failed to persist team")
	}
}

// finishLocked records command metrics and refreshes the state gauges.
// Callers must hold the façade lock.
func (a *App) finishLocked(command string, err error) {
	metrics.ObserveCommand(command, err)
	metrics.QueueLength.Set(float64(a.queue.Len()))
	busy := 0
	for _, run := range a.slots.Runs() {
		if run != nil {
			busy++
		}
	}
	metrics.BusySlots.Set(float64(busy))
}

func transitionPayload(run *models.Run, now time.Time) events.RunTransitionPayload {
	return events.RunTransitionPayload{
		RunID:        run.ID.String(),
		TeamID:       run.TeamID,
		Slot:         run.SlotIndex,
		Status:       string(run.Status),
		RemainingSec: int(run.Remaining(now).Seconds()),
	}
}

// normalizeTeamID trims and upper-cases a team ID the way operators type
// them at the arena desk.
func normalizeTeamID(raw string) (string, error) {
	id := strings.ToUpper(strings.TrimSpace(raw))
	if id == "" {
		return "", Errorf(KindInvalidValue, "team ID cannot be empty")
	}
	return id, nil
}
