package arena

import (
	"github.com/arenaops/paddock/go/internal/models"
)

// ReviewQueue holds concluded runs awaiting a SUCCESS/FAILURE/CANCELED
// disposition, in the order they ended.
type ReviewQueue struct {
	items []models.ReviewItem
}

// NewReviewQueue creates an empty review queue.
func NewReviewQueue() *ReviewQueue {
	return &ReviewQueue{}
}

// Add appends a concluded run to the review queue.
func (q *ReviewQueue) Add(item models.ReviewItem) {
	q.items = append(q.items, item)
}

// Contains reports whether the team has a run awaiting review.
func (q *ReviewQueue) Contains(teamID string) bool {
	for _, item := range q.items {
		if item.TeamID == teamID {
			return true
		}
	}
	return false
}

// Take removes and returns the team's review item. A second disposition for
// the same run fails here, which makes double-review safe.
func (q *ReviewQueue) Take(teamID string) (models.ReviewItem, error) {
	for i, item := range q.items {
		if item.TeamID == teamID {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return item, nil
		}
	}
	return models.ReviewItem{}, Errorf(KindUnknownReviewItem, "team %s has no run awaiting review", teamID)
}

// Remove drops the team's review item if present. Idempotent; used by the
// team-delete cascade.
func (q *ReviewQueue) Remove(teamID string) bool {
	for i, item := range q.items {
		if item.TeamID == teamID {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns a copy of the pending review items in arrival order.
func (q *ReviewQueue) Items() []models.ReviewItem {
	out := make([]models.ReviewItem, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of pending review items.
func (q *ReviewQueue) Len() int {
	return len(q.items)
}
