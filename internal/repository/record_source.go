package repository

import (
	"context"
	"fmt"

	"tara/internal/domain"
)

// PgRecordSource arma el snapshot {moods, journals} de un usuario.
type PgRecordSource struct {
	moods    MoodRepository
	journals JournalRepository
}

func NewPgRecordSource(moods MoodRepository, journals JournalRepository) *PgRecordSource {
	return &PgRecordSource{moods: moods, journals: journals}
}

func (s *PgRecordSource) FetchRecords(ctx context.Context, userID string) (domain.RecordSet, error) {
	moods, err := s.moods.ListByUser(ctx, userID)
	if err != nil {
		return domain.RecordSet{}, fmt.Errorf("list moods: %w", err)
	}
	journals, err := s.journals.ListByUser(ctx, userID)
	if err != nil {
		return domain.RecordSet{}, fmt.Errorf("list journals: %w", err)
	}
	if moods == nil {
		moods = []domain.MoodEntry{}
	}
	if journals == nil {
		journals = []domain.JournalEntry{}
	}
	return domain.RecordSet{Moods: moods, Journals: journals}, nil
}
