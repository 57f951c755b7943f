// Package calstore provides reference EventStore implementations: an
// in-memory store for tests and a SQLite-backed store for real use.
//
// The scheduling and parsing packages never depend on a specific
// EventStore implementation — they consume the interface below, so any
// remote calendar backend can slot in behind it.
package calstore

import (
	"context"
	"errors"

	"github.com/dpinto-lab/chrono/internal/event"
)

// ErrNotFound is returned when an event ID has no matching record.
var ErrNotFound = errors.New("calstore: event not found")

// ErrAuthExpired is returned by a backend whose session/token expired;
// reference implementations here never return it (no OAuth boundary),
// but it's declared so the interface's callers can handle it uniformly
// alongside a real provider-backed implementation.
var ErrAuthExpired = errors.New("calstore: authorization expired")

// ErrNetwork wraps a transport-layer failure from a remote backend.
var ErrNetwork = errors.New("calstore: network failure")

// ErrBackend wraps any other backend-specific failure.
var ErrBackend = errors.New("calstore: backend failure")

// EventStore is the external collaborator the Scheduling Core and
// Command Dispatcher consume: list, create, update, delete on the
// user's canonical calendar.
type EventStore interface {
	// ListByDate returns every event on the given ISO date, ordered by time.
	ListByDate(ctx context.Context, date string) ([]event.Event, error)
	// ListByRange returns every event with a date in [start, end] inclusive,
	// ordered by (date, time).
	ListByRange(ctx context.Context, start, end string) ([]event.Event, error)
	// Create validates and persists a new event, assigning it an ID.
	Create(ctx context.Context, e event.Event) (event.Event, error)
	// Update merges non-zero fields from patch into the stored event with
	// id, persists it, and returns the merged result.
	Update(ctx context.Context, id string, patch event.Event) (event.Event, error)
	// Delete removes the event with id. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
}

// applyPatch merges the non-zero fields of patch onto base and returns
// the result, leaving both inputs untouched.
func applyPatch(base, patch event.Event) event.Event {
	merged := base
	if patch.Title != "" {
		merged.Title = patch.Title
	}
	if patch.Date != "" {
		merged.Date = patch.Date
	}
	if patch.Time != "" {
		merged.Time = patch.Time
	}
	if patch.Duration != 0 {
		merged.Duration = patch.Duration
	}
	if patch.Description != "" {
		merged.Description = patch.Description
	}
	if patch.Category != "" {
		merged.Category = patch.Category
	}
	return merged
}
