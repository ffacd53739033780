package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	pgvector "github.com/pgvector/pgvector-go"

	"tara/internal/domain"
)

type stubMoodRepo struct {
	entries []domain.MoodEntry
	err     error
}

func (s *stubMoodRepo) Create(context.Context, domain.MoodEntry) error { return nil }
func (s *stubMoodRepo) ListByUser(context.Context, string) ([]domain.MoodEntry, error) {
	return s.entries, s.err
}
func (s *stubMoodRepo) ListSince(context.Context, string, time.Time) ([]domain.MoodEntry, error) {
	return s.entries, s.err
}

type stubJournalRepo struct {
	entries []domain.JournalEntry
	err     error
}

func (s *stubJournalRepo) Create(context.Context, domain.JournalEntry) error { return nil }
func (s *stubJournalRepo) Update(context.Context, domain.JournalEntry) error { return nil }
func (s *stubJournalRepo) Delete(context.Context, string, string) error     { return nil }
func (s *stubJournalRepo) GetByID(context.Context, string, string) (domain.JournalEntry, error) {
	return domain.JournalEntry{}, nil
}
func (s *stubJournalRepo) ListByUser(context.Context, string) ([]domain.JournalEntry, error) {
	return s.entries, s.err
}
func (s *stubJournalRepo) SetEmbedding(context.Context, string, pgvector.Vector) error { return nil }
func (s *stubJournalRepo) SearchSimilar(context.Context, string, string, pgvector.Vector, int) ([]domain.JournalEntry, error) {
	return nil, nil
}

func TestPgRecordSource_CombinesRecords(t *testing.T) {
	src := NewPgRecordSource(
		&stubMoodRepo{entries: []domain.MoodEntry{{ID: "m1", Mood: "happy"}}},
		&stubJournalRepo{},
	)
	set, err := src.FetchRecords(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(set.Moods) != 1 || set.Moods[0].ID != "m1" {
		t.Fatalf("unexpected moods %+v", set.Moods)
	}
	if set.Journals == nil {
		t.Fatalf("expected empty (non-nil) journals so JSON renders []")
	}
}

func TestPgRecordSource_WrapsErrors(t *testing.T) {
	boom := errors.New("db down")
	src := NewPgRecordSource(&stubMoodRepo{}, &stubJournalRepo{err: boom})
	_, err := src.FetchRecords(context.Background(), "u1")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
