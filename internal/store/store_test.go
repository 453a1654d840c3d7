package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "airsketch_test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	rec := &SessionRecord{ID: "sess-1"}
	if err := repo.Create(rec); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if rec.StartedAt.IsZero() {
		t.Error("Create should set StartedAt")
	}

	got, err := repo.GetByID("sess-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ID != "sess-1" {
		t.Errorf("ID = %q, want sess-1", got.ID)
	}
	if got.StoppedAt.Valid {
		t.Error("new session should not have a stop time")
	}
	if got.Frames != 0 || got.Strokes != 0 || got.Clears != 0 {
		t.Errorf("new session counters = %d/%d/%d, want zeros", got.Frames, got.Strokes, got.Clears)
	}
}

func TestSessionRepository_GetByIDNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Sessions().GetByID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_UpdateCounters(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	if err := repo.Create(&SessionRecord{ID: "sess-1"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.UpdateCounters("sess-1", 42, 3, 1); err != nil {
		t.Fatalf("UpdateCounters failed: %v", err)
	}

	got, err := repo.GetByID("sess-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Frames != 42 || got.Strokes != 3 || got.Clears != 1 {
		t.Errorf("counters = %d/%d/%d, want 42/3/1", got.Frames, got.Strokes, got.Clears)
	}

	if err := repo.UpdateCounters("missing", 1, 1, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing session, got %v", err)
	}
}

func TestSessionRepository_Stop(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	if err := repo.Create(&SessionRecord{ID: "sess-1"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	stoppedAt := time.Now()
	if err := repo.Stop("sess-1", stoppedAt); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	got, err := repo.GetByID("sess-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.StoppedAt.Valid {
		t.Error("stopped session should have a stop time")
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	older := &SessionRecord{ID: "sess-old", StartedAt: time.Now().Add(-time.Hour)}
	newer := &SessionRecord{ID: "sess-new", StartedAt: time.Now()}
	for _, rec := range []*SessionRecord{older, newer} {
		if err := repo.Create(rec); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	records, err := repo.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("List returned %d records, want 2", len(records))
	}
	if records[0].ID != "sess-new" {
		t.Errorf("List order: first = %q, want sess-new", records[0].ID)
	}
}

func TestSessionRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	if err := repo.Create(&SessionRecord{ID: "sess-1"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Delete("sess-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByID("sess-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete("sess-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for double delete, got %v", err)
	}
}

func TestAnalysisRepository_CreateAndList(t *testing.T) {
	s := newTestStore(t)

	if err := s.Sessions().Create(&SessionRecord{ID: "sess-1"}); err != nil {
		t.Fatalf("Create session failed: %v", err)
	}

	repo := s.Analyses()
	first := &AnalysisRecord{
		ID:        "an-1",
		SessionID: "sess-1",
		ImageSHA:  "abc123",
		Result:    "# 1. Identification\nA circle.",
		CreatedAt: time.Now().Add(-time.Minute),
	}
	second := &AnalysisRecord{
		ID:        "an-2",
		SessionID: "sess-1",
		ImageSHA:  "def456",
		Result:    "# 1. Identification\nA triangle.",
		CreatedAt: time.Now(),
	}
	for _, rec := range []*AnalysisRecord{first, second} {
		if err := repo.Create(rec); err != nil {
			t.Fatalf("Create analysis failed: %v", err)
		}
	}

	got, err := repo.GetByID("an-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ImageSHA != "abc123" {
		t.Errorf("ImageSHA = %q, want abc123", got.ImageSHA)
	}

	records, err := repo.ListBySession("sess-1")
	if err != nil {
		t.Fatalf("ListBySession failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ListBySession returned %d records, want 2", len(records))
	}
	if records[0].ID != "an-2" {
		t.Errorf("ListBySession order: first = %q, want an-2", records[0].ID)
	}
}

func TestAnalysisRepository_ForeignKeyEnforced(t *testing.T) {
	s := newTestStore(t)

	err := s.Analyses().Create(&AnalysisRecord{
		ID:        "an-1",
		SessionID: "no-such-session",
		ImageSHA:  "abc",
		Result:    "feedback",
	})
	if err == nil {
		t.Fatal("expected foreign key violation for unknown session")
	}
}

func TestAnalysisRepository_DeleteCascade(t *testing.T) {
	s := newTestStore(t)

	if err := s.Sessions().Create(&SessionRecord{ID: "sess-1"}); err != nil {
		t.Fatalf("Create session failed: %v", err)
	}
	if err := s.Analyses().Create(&AnalysisRecord{
		ID:        "an-1",
		SessionID: "sess-1",
		ImageSHA:  "abc",
		Result:    "feedback",
	}); err != nil {
		t.Fatalf("Create analysis failed: %v", err)
	}

	if err := s.Sessions().Delete("sess-1"); err != nil {
		t.Fatalf("Delete session failed: %v", err)
	}

	if _, err := s.Analyses().GetByID("an-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected analysis to cascade on session delete, got %v", err)
	}
}

func TestSessionRepository_StoppedAtRoundTrip(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	if err := repo.Create(&SessionRecord{ID: "sess-1"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID("sess-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.StoppedAt != (sql.NullTime{}) && got.StoppedAt.Valid {
		t.Error("expected null stop time on a fresh session")
	}
}
