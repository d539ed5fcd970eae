package arena

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/arenaops/paddock/go/internal/models"
)

func reviewItem(teamID string, slot int) models.ReviewItem {
	return models.ReviewItem{
		ID:        uuid.New(),
		TeamID:    teamID,
		SlotIndex: slot,
		EndedAt:   time.Now(),
	}
}

func TestReviewQueue_AddAndTake(t *testing.T) {
	q := NewReviewQueue()
	q.Add(reviewItem("ALPHA", 1))
	q.Add(reviewItem("BRAVO", 2))

	item, err := q.Take("ALPHA")
	if err != nil {
		t.Fatalf("Take() error = %v", err)
	}
	if item.TeamID != "ALPHA" || item.SlotIndex != 1 {
		t.Errorf("Take() = %s/slot %d, want ALPHA/slot 1", item.TeamID, item.SlotIndex)
	}
	if q.Len() != 1 {
		t.Errorf("Len() after take = %d, want 1", q.Len())
	}
}

func TestReviewQueue_DoubleTake(t *testing.T) {
	q := NewReviewQueue()
	q.Add(reviewItem("ALPHA", 1))

	if _, err := q.Take("ALPHA"); err != nil {
		t.Fatalf("Take() error = %v", err)
	}
	_, err := q.Take("ALPHA")
	if KindOf(err) != KindUnknownReviewItem {
		t.Errorf("second Take() kind = %q, want %q", KindOf(err), KindUnknownReviewItem)
	}
}

func TestReviewQueue_TakeUnknown(t *testing.T) {
	q := NewReviewQueue()
	_, err := q.Take("GHOST")
	if KindOf(err) != KindUnknownReviewItem {
		t.Errorf("Take(GHOST) kind = %q, want %q", KindOf(err), KindUnknownReviewItem)
	}
}

func TestReviewQueue_Remove(t *testing.T) {
	q := NewReviewQueue()
	q.Add(reviewItem("ALPHA", 1))

	if !q.Remove("ALPHA") {
		t.Error("Remove(ALPHA) = false, want true")
	}
	if q.Remove("ALPHA") {
		t.Error("second Remove(ALPHA) = true, want false")
	}
	if q.Contains("ALPHA") {
		t.Error("Contains(ALPHA) after remove = true")
	}
}
