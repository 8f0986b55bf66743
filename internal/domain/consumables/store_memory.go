package consumables

import (
	"context"
	"sync"
	"time"

	"github.com/inei-oti/activos-backend/internal/errs"
)

// InMemory is the movement store used by unit tests and local runs without
// Postgres. One mutex guards the whole store; holding it across the
// read-check-write sequence gives the same per-item linearization as the
// row-locked transaction.
type InMemory struct {
	mu        sync.Mutex
	nextItem  int64
	nextMove  int64
	items     map[int64]*Item
	movements map[int64][]*Movement // keyed by item id
}

func NewInMemoryStore() *InMemory {
	return &InMemory{
		items:     make(map[int64]*Item),
		movements: make(map[int64][]*Movement),
	}
}

func (s *InMemory) AddItem(it Item) *Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextItem++
	it.ID = s.nextItem
	it.IsActive = true
	s.items[it.ID] = &it
	out := it
	return &out
}

func (s *InMemory) WithItemLock(ctx context.Context, itemID int64, fn func(ops Ops) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[itemID]; !ok {
		return errs.ErrNotFound
	}

	snapshot := s.cloneMovements(itemID)
	if err := fn(&memItemOps{store: s}); err != nil {
		s.movements[itemID] = snapshot
		return err
	}
	return nil
}

func (s *InMemory) cloneMovements(itemID int64) []*Movement {
	list := s.movements[itemID]
	cp := make([]*Movement, len(list))
	for i, m := range list {
		dup := *m
		cp[i] = &dup
	}
	return cp
}

func (s *InMemory) Item(_ context.Context, itemID int64) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[itemID]
	if !ok {
		return nil, nil
	}
	dup := *it
	return &dup, nil
}

func (s *InMemory) Stock(_ context.Context, itemID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stockLocked(itemID), nil
}

func (s *InMemory) stockLocked(itemID int64) int64 {
	var stock int64
	for _, m := range s.movements[itemID] {
		switch m.Type {
		case MoveIn:
			stock += m.Quantity
		case MoveOut:
			stock -= m.Quantity
		default:
			stock += m.Quantity
		}
	}
	return stock
}

// Kardex lists the item's movements newest-first.
func (s *InMemory) Kardex(_ context.Context, itemID int64) ([]Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.movements[itemID]
	out := make([]Movement, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, *list[i])
	}
	return out, nil
}

type memItemOps struct{ store *InMemory }

func (o *memItemOps) Stock(_ context.Context, itemID int64) (int64, error) {
	return o.store.stockLocked(itemID), nil
}

func (o *memItemOps) Get(_ context.Context, movementID int64) (*Movement, error) {
	for _, list := range o.store.movements {
		for _, m := range list {
			if m.ID == movementID {
				dup := *m
				return &dup, nil
			}
		}
	}
	return nil, nil
}

func (o *memItemOps) Insert(_ context.Context, m Movement) (*Movement, error) {
	o.store.nextMove++
	m.ID = o.store.nextMove
	m.CreatedAt = time.Now()
	dup := m
	o.store.movements[m.ItemID] = append(o.store.movements[m.ItemID], &dup)
	out := m
	return &out, nil
}

func (o *memItemOps) Update(_ context.Context, m Movement) (*Movement, error) {
	for _, list := range o.store.movements {
		for _, existing := range list {
			if existing.ID == m.ID {
				m.CreatedAt = existing.CreatedAt
				m.CreatedBy = existing.CreatedBy
				*existing = m
				out := m
				return &out, nil
			}
		}
	}
	return nil, errs.ErrNotFound
}
