package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/arenaops/paddock/go/internal/arena"
	"github.com/arenaops/paddock/go/internal/models"
)

// ArenaApp defines what the gateway needs from the arena façade.
type ArenaApp interface {
	GetSnapshot() *arena.Snapshot
	JoinQueue(ctx context.Context, teamID string) (*arena.Snapshot, error)
	StartSlot(ctx context.Context, slot int) (*arena.Snapshot, error)
	PauseSlot(ctx context.Context, slot int) (*arena.Snapshot, error)
	ResumeSlot(ctx context.Context, slot int) (*arena.Snapshot, error)
	MarkDysfunctional(ctx context.Context, slot int) (*arena.Snapshot, error)
	EndRun(ctx context.Context, slot int) (*arena.Snapshot, error)
	DisposeReview(ctx context.Context, teamID string, outcome models.ReviewOutcome) (*arena.Snapshot, error)
	ReAddTeam(ctx context.Context, teamID string) (*arena.Snapshot, error)
	DeleteTeam(ctx context.Context, teamID string) (*arena.Snapshot, error)
	SetRunDuration(ctx context.Context, minutes int) (*arena.Snapshot, error)
	SetTeamPrefix(ctx context.Context, prefix string) (*arena.Snapshot, error)
}

// Handler serves the arena's HTTP command/query surface. Commands return the
// post-command snapshot; failures return a structured kind+message body.
type Handler struct {
	app ArenaApp
}

// NewHandler creates a gateway handler over the arena façade.
func NewHandler(app ArenaApp) *Handler {
	return &Handler{app: app}
}

// RegisterRoutes registers all arena routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/arena/state", h.handleState)
	mux.HandleFunc("POST /api/queue/join", h.handleJoinQueue)
	mux.HandleFunc("POST /api/slots/{slot}/start", h.slotCommand(h.app.StartSlot))
	mux.HandleFunc("POST /api/slots/{slot}/pause", h.slotCommand(h.app.PauseSlot))
	mux.HandleFunc("POST /api/slots/{slot}/resume", h.slotCommand(h.app.ResumeSlot))
	mux.HandleFunc("POST /api/slots/{slot}/dysfunctional", h.slotCommand(h.app.MarkDysfunctional))
	mux.HandleFunc("POST /api/slots/{slot}/end", h.slotCommand(h.app.EndRun))
	mux.HandleFunc("POST /api/review/dispose", h.handleDisposeReview)
	mux.HandleFunc("POST /api/teams/readd", h.handleReAddTeam)
	mux.HandleFunc("DELETE /api/teams/{team}", h.handleDeleteTeam)
	mux.HandleFunc("POST /api/settings/run-duration", h.handleSetRunDuration)
	mux.HandleFunc("POST /api/settings/team-prefix", h.handleSetTeamPrefix)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	writeSnapshot(w, h.app.GetSnapshot())
}

func (h *Handler) handleJoinQueue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TeamID string `json:"team_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respond(w, r, func(ctx context.Context) (*arena.Snapshot, error) {
		return h.app.JoinQueue(ctx, req.TeamID)
	})
}

func (h *Handler) slotCommand(cmd func(ctx context.Context, slot int) (*arena.Snapshot, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot, err := strconv.Atoi(r.PathValue("slot"))
		if err != nil {
			writeError(w, arena.Errorf(arena.KindInvalidValue, "invalid slot %q", r.PathValue("slot")))
			return
		}
		h.respond(w, r, func(ctx context.Context) (*arena.Snapshot, error) {
			return cmd(ctx, slot)
		})
	}
}

func (h *Handler) handleDisposeReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TeamID  string `json:"team_id"`
		Outcome string `json:"outcome"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respond(w, r, func(ctx context.Context) (*arena.Snapshot, error) {
		return h.app.DisposeReview(ctx, req.TeamID, models.ReviewOutcome(req.Outcome))
	})
}

func (h *Handler) handleReAddTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TeamID string `json:"team_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respond(w, r, func(ctx context.Context) (*arena.Snapshot, error) {
		return h.app.ReAddTeam(ctx, req.TeamID)
	})
}

func (h *Handler) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	team := r.PathValue("team")
	h.respond(w, r, func(ctx context.Context) (*arena.Snapshot, error) {
		return h.app.DeleteTeam(ctx, team)
	})
}

func (h *Handler) handleSetRunDuration(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Minutes int `json:"minutes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respond(w, r, func(ctx context.Context) (*arena.Snapshot, error) {
		return h.app.SetRunDuration(ctx, req.Minutes)
	})
}

func (h *Handler) handleSetTeamPrefix(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prefix string `json:"prefix"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respond(w, r, func(ctx context.Context) (*arena.Snapshot, error) {
		return h.app.SetTeamPrefix(ctx, req.Prefix)
	})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, cmd func(ctx context.Context) (*arena.Snapshot, error)) {
	snap, err := cmd(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSnapshot(w, snap)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, arena.Errorf(arena.KindInvalidValue, "invalid request body: %v", err))
		return false
	}
	return true
}

func writeSnapshot(w http.ResponseWriter, snap *arena.Snapshot) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"snapshot": snap}); err != nil {
		log.Error().Err(err).Msg("failed to encode snapshot response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind := arena.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case arena.KindInvalidValue:
		status = http.StatusBadRequest
	case arena.KindUnknownTeam, arena.KindUnknownReviewItem:
		status = http.StatusNotFound
	case arena.KindDuplicateEntry, arena.KindEmptyQueue, arena.KindSlotIdle,
		arena.KindSlotNotIdle, arena.KindInvalidTransition:
		status = http.StatusConflict
	}
	if kind == "" {
		log.Error().Err(err).Msg("unexpected command error")
		kind = "INTERNAL"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"error": map[string]string{
		"kind":    string(kind),
		"message": err.Error(),
	}}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode error response")
	}
}
