package arena

import (
	"time"

	"github.com/arenaops/paddock/go/internal/models"
)

// Registry owns team identities and their success tallies. It is a plain
// data structure; the façade's lock provides all synchronization.
type Registry struct {
	teams map[string]*models.Team
	order []string
}

// NewRegistry creates an empty team registry.
func NewRegistry() *Registry {
	return &Registry{
		teams: make(map[string]*models.Team),
	}
}

// Exists reports whether a team is registered.
func (r *Registry) Exists(teamID string) bool {
	_, ok := r.teams[teamID]
	return ok
}

// Get returns the registered team, if any.
func (r *Registry) Get(teamID string) (*models.Team, bool) {
	team, ok := r.teams[teamID]
	return team, ok
}

// Ensure creates a team with tally 0 if absent and returns it; returns the
// existing team otherwise.
func (r *Registry) Ensure(teamID string, now time.Time) *models.Team {
	if team, ok := r.teams[teamID]; ok {
		return team
	}
	team := &models.Team{ID: teamID, Tally: 0, CreatedAt: now}
	r.teams[teamID] = team
	r.order = append(r.order, teamID)
	return team
}

// IncrementTally increments a team's success tally by one. The tally is
// monotonically non-decreasing except for explicit delete.
func (r *Registry) IncrementTally(teamID string) (*models.Team, error) {
	team, ok := r.teams[teamID]
	if !ok {
		return nil, Errorf(KindUnknownTeam, "team %s is not registered", teamID)
	}
	team.Tally++
	return team, nil
}

// Delete removes a team and its tally history.
func (r *Registry) Delete(teamID string) error {
	if _, ok := r.teams[teamID]; !ok {
		return Errorf(KindUnknownTeam, "team %s is not registered", teamID)
	}
	delete(r.teams, teamID)
	for i, id := range r.order {
		if id == teamID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Seed loads teams restored from durable storage, keeping their order.
// Already-registered teams are left untouched.
func (r *Registry) Seed(teams []models.Team) {
	for _, t := range teams {
		if _, ok := r.teams[t.ID]; ok {
			continue
		}
		team := t
		r.teams[t.ID] = &team
		r.order = append(r.order, t.ID)
	}
}

// Teams returns a copy of all teams in registration order.
func (r *Registry) Teams() []models.Team {
	out := make([]models.Team, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.teams[id])
	}
	return out
}
