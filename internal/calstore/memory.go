package calstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dpinto-lab/chrono/internal/event"
)

// Memory is an in-process EventStore, used by tests. Guards its state
// with a mutex so it stays
// safe regardless of caller concurrency.
type Memory struct {
	mu     sync.Mutex
	events map[string]event.Event
}

// NewMemory returns an empty in-memory EventStore.
func NewMemory() *Memory {
	return &Memory{events: make(map[string]event.Event)}
}

// ListByDate implements EventStore.
func (m *Memory) ListByDate(ctx context.Context, date string) ([]event.Event, error) {
	return m.ListByRange(ctx, date, date)
}

// ListByRange implements EventStore.
func (m *Memory) ListByRange(ctx context.Context, start, end string) ([]event.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []event.Event
	for _, e := range m.events {
		if e.Date >= start && e.Date <= end {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

// Create implements EventStore.
func (m *Memory) Create(ctx context.Context, e event.Event) (event.Event, error) {
	if err := e.Validate(); err != nil {
		return event.Event{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e.ID = uuid.NewString()
	m.events[e.ID] = e
	return e, nil
}

// Update implements EventStore.
func (m *Memory) Update(ctx context.Context, id string, patch event.Event) (event.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.events[id]
	if !ok {
		return event.Event{}, ErrNotFound
	}
	merged := applyPatch(existing, patch)
	if err := merged.Validate(); err != nil {
		return event.Event{}, err
	}
	m.events[id] = merged
	return merged, nil
}

// Delete implements EventStore.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.events[id]; !ok {
		return ErrNotFound
	}
	delete(m.events, id)
	return nil
}

var _ EventStore = (*Memory)(nil)
