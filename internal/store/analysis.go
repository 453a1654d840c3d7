package store

import (
	"database/sql"
	"errors"
	"time"
)

// AnalysisRecord represents AI feedback stored for a session's drawing.
type AnalysisRecord struct {
	ID        string
	SessionID string
	ImageSHA  string
	Result    string
	CreatedAt time.Time
}

// AnalysisRepository provides CRUD operations for analyses.
type AnalysisRepository struct {
	db *sql.DB
}

// Analyses returns the analysis repository for this store.
func (s *Store) Analyses() *AnalysisRepository {
	return &AnalysisRepository{db: s.db}
}

// Create inserts a new analysis record.
func (r *AnalysisRepository) Create(rec *AnalysisRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO analyses (id, session_id, image_sha, result, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.ImageSHA, rec.Result, rec.CreatedAt,
	)
	return err
}

// GetByID retrieves an analysis record by its ID.
func (r *AnalysisRepository) GetByID(id string) (*AnalysisRecord, error) {
	rec := &AnalysisRecord{}

	err := r.db.QueryRow(
		`SELECT id, session_id, image_sha, result, created_at
		 FROM analyses WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.SessionID, &rec.ImageSHA, &rec.Result, &rec.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return rec, nil
}

// ListBySession retrieves all analyses for a session, newest first.
func (r *AnalysisRepository) ListBySession(sessionID string) ([]*AnalysisRecord, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, image_sha, result, created_at
		 FROM analyses WHERE session_id = ? ORDER BY created_at DESC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*AnalysisRecord
	for rows.Next() {
		rec := &AnalysisRecord{}
		err := rows.Scan(&rec.ID, &rec.SessionID, &rec.ImageSHA, &rec.Result, &rec.CreatedAt)
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
