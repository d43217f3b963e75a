package core

import (
	"context"
	"sync"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// In-memory store implementations backing tests and standalone simulations.
// Embedders with real persistence provide their own stores; these satisfy
// the same contracts, including gorm.ErrRecordNotFound on missing records.

type MemPositionStore struct {
	mu        sync.RWMutex
	positions map[uuid.UUID]*DebtPosition
}

func NewMemPositionStore() *MemPositionStore {
	return &MemPositionStore{positions: make(map[uuid.UUID]*DebtPosition)}
}

func (s *MemPositionStore) key(accountId, tokenId uuid.UUID) uuid.UUID {
	for id, p := range s.positions {
		if p.AccountId == accountId && p.TokenId == tokenId {
			return id
		}
	}
	return uuid.Nil
}

func (s *MemPositionStore) FindPosition(_ context.Context, accountId, tokenId uuid.UUID) (*DebtPosition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id := s.key(accountId, tokenId)
	if id == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.positions[id].Clone(), nil
}

func (s *MemPositionStore) UpsertPosition(_ context.Context, position *DebtPosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[position.Id] = position.Clone()
	return nil
}

func (s *MemPositionStore) ListPositions(_ context.Context, accountId uuid.UUID) ([]*DebtPosition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*DebtPosition
	for _, p := range s.positions {
		if accountId == uuid.Nil || p.AccountId == accountId {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

type MemCollateralStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*CollateralEntry
}

func NewMemCollateralStore() *MemCollateralStore {
	return &MemCollateralStore{entries: make(map[uuid.UUID]*CollateralEntry)}
}

func (s *MemCollateralStore) GetCollateral(_ context.Context, token uuid.UUID) (*CollateralEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return entry.Clone(), nil
}

func (s *MemCollateralStore) UpsertCollateral(_ context.Context, entry *CollateralEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Token] = entry.Clone()
	return nil
}

func (s *MemCollateralStore) ListCollaterals(_ context.Context) ([]*CollateralEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*CollateralEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry.Clone())
	}
	return out, nil
}

type MemEventStore struct {
	mu     sync.RWMutex
	events []*Event
}

func NewMemEventStore() *MemEventStore {
	return &MemEventStore{}
}

func (s *MemEventStore) CreateEvent(_ context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemEventStore) ListEvents(_ context.Context, accountId uuid.UUID, createdBeforeAt, limit int64) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Event
	for _, e := range s.events {
		if accountId != uuid.Nil && e.AccountId != accountId {
			continue
		}
		if createdBeforeAt > 0 && e.CreatedAt >= createdBeforeAt {
			continue
		}
		out = append(out, e)
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}
