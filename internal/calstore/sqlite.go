package calstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/dpinto-lab/chrono/internal/event"
)

// SQLite implements EventStore against a local SQLite database using
// the pure-Go driver, so the binary stays cgo-free.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at path and runs
// migrations.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("calstore: opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("calstore: connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("calstore: running migrations: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS events (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			date        DATE NOT NULL,
			time        TEXT NOT NULL,
			duration    INTEGER NOT NULL,
			description TEXT,
			category    TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_events_date ON events(date);
	`
	_, err := s.db.Exec(query)
	return err
}

const selectColumns = `id, title, date, time, duration, description, category`

func scanEvent(row interface{ Scan(...any) error }) (event.Event, error) {
	var e event.Event
	var description, category sql.NullString
	if err := row.Scan(&e.ID, &e.Title, &e.Date, &e.Time, &e.Duration, &description, &category); err != nil {
		return event.Event{}, err
	}
	e.Description = description.String
	e.Category = category.String
	return e, nil
}

// ListByDate implements EventStore.
func (s *SQLite) ListByDate(ctx context.Context, date string) ([]event.Event, error) {
	return s.ListByRange(ctx, date, date)
}

// ListByRange implements EventStore.
func (s *SQLite) ListByRange(ctx context.Context, start, end string) ([]event.Event, error) {
	query := `SELECT ` + selectColumns + ` FROM events WHERE date >= ? AND date <= ? ORDER BY date, time`
	rows, err := s.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: querying events: %v", ErrBackend, err)
	}
	defer func() { _ = rows.Close() }()

	var out []event.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning event: %v", ErrBackend, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating events: %v", ErrBackend, err)
	}
	return out, nil
}

// Create implements EventStore.
func (s *SQLite) Create(ctx context.Context, e event.Event) (event.Event, error) {
	if err := e.Validate(); err != nil {
		return event.Event{}, err
	}
	e.ID = uuid.NewString()

	query := `INSERT INTO events (id, title, date, time, duration, description, category) VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, e.ID, e.Title, e.Date, e.Time, e.Duration, e.Description, e.Category); err != nil {
		return event.Event{}, fmt.Errorf("%w: inserting event: %v", ErrBackend, err)
	}
	return e, nil
}

func (s *SQLite) get(ctx context.Context, id string) (event.Event, error) {
	query := `SELECT ` + selectColumns + ` FROM events WHERE id = ?`
	row := s.db.QueryRowContext(ctx, query, id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return event.Event{}, ErrNotFound
	}
	if err != nil {
		return event.Event{}, fmt.Errorf("%w: querying event: %v", ErrBackend, err)
	}
	return e, nil
}

// Update implements EventStore.
func (s *SQLite) Update(ctx context.Context, id string, patch event.Event) (event.Event, error) {
	existing, err := s.get(ctx, id)
	if err != nil {
		return event.Event{}, err
	}
	merged := applyPatch(existing, patch)
	if err := merged.Validate(); err != nil {
		return event.Event{}, err
	}

	query := `UPDATE events SET title = ?, date = ?, time = ?, duration = ?, description = ?, category = ? WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, merged.Title, merged.Date, merged.Time, merged.Duration, merged.Description, merged.Category, id); err != nil {
		return event.Event{}, fmt.Errorf("%w: updating event: %v", ErrBackend, err)
	}
	return merged, nil
}

// Delete implements EventStore.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting event: %v", ErrBackend, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

var _ EventStore = (*SQLite)(nil)
