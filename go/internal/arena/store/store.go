package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arenaops/paddock/go/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS arena_teams (
    id         TEXT PRIMARY KEY,
    tally      INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL
)`

// TeamStore persists team identities and success tallies in Postgres so they
// survive restarts. The in-memory registry stays authoritative at runtime;
// this store is loaded once at startup and written through on changes.
type TeamStore struct {
	pool *pgxpool.Pool
}

// New connects to Postgres and ensures the teams table exists.
func New(ctx context.Context, dsn string) (*TeamStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return &TeamStore{pool: pool}, nil
}

// LoadTeams returns all stored teams in registration order.
func (s *TeamStore) LoadTeams(ctx context.Context) ([]models.Team, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, tally, created_at FROM arena_teams ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Tally, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read teams: %w", err)
	}
	return teams, nil
}

// UpsertTeam creates or updates a team row.
func (s *TeamStore) UpsertTeam(ctx context.Context, team models.Team) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO arena_teams (id, tally, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET tally = EXCLUDED.tally`,
		team.ID, team.Tally, team.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert team %s: %w", team.ID, err)
	}
	return nil
}

// DeleteTeam removes a team row, tally history included.
func (s *TeamStore) DeleteTeam(ctx context.Context, teamID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM arena_teams WHERE id = $1`, teamID); err != nil {
		return fmt.Errorf("failed to delete team %s: %w", teamID, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *TeamStore) Close() {
	s.pool.Close()
}
