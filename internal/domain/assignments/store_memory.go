package assignments

import (
	"context"
	"sync"
	"time"

	"github.com/inei-oti/activos-backend/internal/domain/audit"
)

// InMemory is the ledger store used by unit tests and local runs without
// Postgres. One mutex guards the whole store; since the lock wraps the entire
// read-check-write sequence the linearization guarantee is the same as the
// row-locked transaction, just coarser.
type InMemory struct {
	mu          sync.Mutex
	nextID      int64
	nextEventID int64
	rows        map[int64][]*Assignment // keyed by asset id
	events      []audit.Event
}

func NewInMemory() *InMemory {
	return &InMemory{rows: make(map[int64][]*Assignment)}
}

func (s *InMemory) WithAssetLock(ctx context.Context, assetID int64, fn func(ops Ops) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.clone()
	if err := fn(&memOps{store: s}); err != nil {
		// Roll back: restore the pre-call state.
		s.restore(snapshot)
		return err
	}
	return nil
}

type memSnapshot struct {
	nextID      int64
	nextEventID int64
	rows        map[int64][]*Assignment
	events      []audit.Event
}

func (s *InMemory) clone() memSnapshot {
	rows := make(map[int64][]*Assignment, len(s.rows))
	for k, list := range s.rows {
		cp := make([]*Assignment, len(list))
		for i, a := range list {
			dup := *a
			cp[i] = &dup
		}
		rows[k] = cp
	}
	events := make([]audit.Event, len(s.events))
	copy(events, s.events)
	return memSnapshot{nextID: s.nextID, nextEventID: s.nextEventID, rows: rows, events: events}
}

func (s *InMemory) restore(snap memSnapshot) {
	s.nextID = snap.nextID
	s.nextEventID = snap.nextEventID
	s.rows = snap.rows
	s.events = snap.events
}

type memOps struct{ store *InMemory }

func (o *memOps) Current(_ context.Context, assetID int64) (*Assignment, error) {
	for _, a := range o.store.rows[assetID] {
		if a.IsCurrent {
			dup := *a
			return &dup, nil
		}
	}
	return nil, nil
}

func (o *memOps) Close(_ context.Context, assignmentID int64, endAt time.Time) error {
	for _, list := range o.store.rows {
		for _, a := range list {
			if a.ID == assignmentID {
				a.IsCurrent = false
				end := endAt
				a.EndAt = &end
				return nil
			}
		}
	}
	return nil
}

func (o *memOps) Create(_ context.Context, a Assignment) (*Assignment, error) {
	o.store.nextID++
	a.ID = o.store.nextID
	a.StartAt = time.Now()
	a.IsCurrent = true
	dup := a
	o.store.rows[a.AssetID] = append(o.store.rows[a.AssetID], &dup)
	out := a
	return &out, nil
}

func (o *memOps) AppendEvent(_ context.Context, e audit.Event) error {
	o.store.nextEventID++
	e.ID = o.store.nextEventID
	e.CreatedAt = time.Now()
	o.store.events = append(o.store.events, e)
	return nil
}

// History returns an asset's custody rows in creation order.
func (s *InMemory) History(_ context.Context, assetID int64) ([]Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Assignment, 0, len(s.rows[assetID]))
	for _, a := range s.rows[assetID] {
		out = append(out, *a)
	}
	return out, nil
}

// Events returns the appended audit events in creation order.
func (s *InMemory) Events() []audit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]audit.Event, len(s.events))
	copy(out, s.events)
	return out
}
