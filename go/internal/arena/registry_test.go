package arena

import (
	"testing"
	"time"

	"github.com/arenaops/paddock/go/internal/models"
)

func TestRegistry_Ensure(t *testing.T) {
	r := NewRegistry()
	now := time.Now()

	team := r.Ensure("ALPHA", now)
	if team.Tally != 0 {
		t.Errorf("new team tally = %d, want 0", team.Tally)
	}

	team.Tally = 3
	again := r.Ensure("ALPHA", now.Add(time.Hour))
	if again.Tally != 3 {
		t.Errorf("Ensure() on existing team returned a fresh team (tally %d)", again.Tally)
	}
}

func TestRegistry_IncrementTally(t *testing.T) {
	r := NewRegistry()
	r.Ensure("ALPHA", time.Now())

	for want := 1; want <= 3; want++ {
		team, err := r.IncrementTally("ALPHA")
		if err != nil {
			t.Fatalf("IncrementTally() error = %v", err)
		}
		if team.Tally != want {
			t.Errorf("tally = %d, want %d", team.Tally, want)
		}
	}

	_, err := r.IncrementTally("GHOST")
	if KindOf(err) != KindUnknownTeam {
		t.Errorf("IncrementTally(GHOST) kind = %q, want %q", KindOf(err), KindUnknownTeam)
	}
}

func TestRegistry_Delete(t *testing.T) {
	r := NewRegistry()
	r.Ensure("ALPHA", time.Now())

	if err := r.Delete("ALPHA"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if r.Exists("ALPHA") {
		t.Error("Exists(ALPHA) after delete = true")
	}
	if err := r.Delete("ALPHA"); KindOf(err) != KindUnknownTeam {
		t.Errorf("second Delete() kind = %q, want %q", KindOf(err), KindUnknownTeam)
	}
}

func TestRegistry_TeamsOrder(t *testing.T) {
	r := NewRegistry()
	now := time.Now()
	for _, id := range []string{"CHARLIE", "ALPHA", "BRAVO"} {
		r.Ensure(id, now)
	}

	teams := r.Teams()
	want := []string{"CHARLIE", "ALPHA", "BRAVO"}
	if len(teams) != len(want) {
		t.Fatalf("Teams() len = %d, want %d", len(teams), len(want))
	}
	for i, id := range want {
		if teams[i].ID != id {
			t.Errorf("teams[%d] = %s, want %s", i, teams[i].ID, id)
		}
	}
}

func TestRegistry_Seed(t *testing.T) {
	r := NewRegistry()
	r.Ensure("ALPHA", time.Now())
	existing, _ := r.Get("ALPHA")
	existing.Tally = 2

	r.Seed([]models.Team{
		{ID: "ALPHA", Tally: 9},
		{ID: "BRAVO", Tally: 1},
	})

	if team, _ := r.Get("ALPHA"); team.Tally != 2 {
		t.Errorf("seed overwrote live team, tally = %d, want 2", team.Tally)
	}
	if team, ok := r.Get("BRAVO"); !ok || team.Tally != 1 {
		t.Errorf("seeded team BRAVO missing or wrong tally")
	}
}
