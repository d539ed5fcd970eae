package arena

import (
	"time"

	"github.com/arenaops/paddock/go/internal/models"
)

// WaitQueue is the ordered list of teams awaiting a slot. Priority entries
// form a FIFO partition at the front, ahead of all non-priority entries.
// A team appears at most once.
type WaitQueue struct {
	entries []models.QueueEntry
}

// NewWaitQueue creates an empty waiting queue.
func NewWaitQueue() *WaitQueue {
	return &WaitQueue{}
}

// Contains reports whether the team currently has a queue entry.
func (q *WaitQueue) Contains(teamID string) bool {
	for _, e := range q.entries {
		if e.TeamID == teamID {
			return true
		}
	}
	return false
}

// Join appends a non-priority entry at the tail.
func (q *WaitQueue) Join(teamID string, now time.Time) error {
	if q.Contains(teamID) {
		return Errorf(KindDuplicateEntry, "team %s is already in the waiting queue", teamID)
	}
	q.entries = append(q.entries, models.QueueEntry{TeamID: teamID, JoinedAt: now})
	return nil
}

// InsertPriority inserts a priority entry at the front of the queue, behind
// any entries that are already prioritized. Used exclusively by the FAILURE
// review disposition.
func (q *WaitQueue) InsertPriority(teamID string, now time.Time) error {
	if q.Contains(teamID) {
		return Errorf(KindDuplicateEntry, "team %s is already in the waiting queue", teamID)
	}
	idx := 0
	for idx < len(q.entries) && q.entries[idx].Priority {
		idx++
	}
	entry := models.QueueEntry{TeamID: teamID, Priority: true, JoinedAt: now}
	q.entries = append(q.entries, models.QueueEntry{})
	copy(q.entries[idx+1:], q.entries[idx:])
	q.entries[idx] = entry
	return nil
}

// DequeueFront removes and returns the entry at the head of the queue.
func (q *WaitQueue) DequeueFront() (models.QueueEntry, error) {
	if len(q.entries) == 0 {
		return models.QueueEntry{}, Errorf(KindEmptyQueue, "waiting queue is empty")
	}
	entry := q.entries[0]
	q.entries = q.entries[1:]
	return entry, nil
}

// Remove drops the team's entry if present. Idempotent; reports whether an
// entry was removed.
func (q *WaitQueue) Remove(teamID string) bool {
	for i, e := range q.entries {
		if e.TeamID == teamID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Entries returns a copy of the queue in dequeue order.
func (q *WaitQueue) Entries() []models.QueueEntry {
	out := make([]models.QueueEntry, len(q.entries))
	copy(out, q.entries)
	return out
}

// Len returns the number of queued teams.
func (q *WaitQueue) Len() int {
	return len(q.entries)
}
