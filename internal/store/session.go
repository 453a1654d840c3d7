package store

import (
	"database/sql"
	"errors"
	"time"
)

// SessionRecord represents a drawing session stored in the database.
type SessionRecord struct {
	ID        string
	StartedAt time.Time
	StoppedAt sql.NullTime
	Frames    int
	Strokes   int
	Clears    int
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session record.
func (r *SessionRepository) Create(rec *SessionRecord) error {
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, frames, strokes, clears)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.StartedAt, rec.Frames, rec.Strokes, rec.Clears,
	)
	return err
}

// GetByID retrieves a session record by its ID.
func (r *SessionRepository) GetByID(id string) (*SessionRecord, error) {
	rec := &SessionRecord{}

	err := r.db.QueryRow(
		`SELECT id, started_at, stopped_at, frames, strokes, clears
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.StartedAt, &rec.StoppedAt, &rec.Frames, &rec.Strokes, &rec.Clears)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return rec, nil
}

// List retrieves all session records, newest first.
func (r *SessionRepository) List() ([]*SessionRecord, error) {
	rows, err := r.db.Query(
		`SELECT id, started_at, stopped_at, frames, strokes, clears
		 FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*SessionRecord
	for rows.Next() {
		rec := &SessionRecord{}
		err := rows.Scan(&rec.ID, &rec.StartedAt, &rec.StoppedAt, &rec.Frames, &rec.Strokes, &rec.Clears)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// UpdateCounters stores the latest activity counters for a session.
func (r *SessionRepository) UpdateCounters(id string, frames, strokes, clears int) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET frames = ?, strokes = ?, clears = ? WHERE id = ?`,
		frames, strokes, clears, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Stop marks a session as finished.
func (r *SessionRepository) Stop(id string, stoppedAt time.Time) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET stopped_at = ? WHERE id = ?`,
		stoppedAt, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a session record and its analyses.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
