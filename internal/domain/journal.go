package domain

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// JournalEntry es una entrada libre del diario. Sin versionado.
type JournalEntry struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Title     string           `json:"title,omitempty"`
	Content   string           `json:"content"`
	Embedding *pgvector.Vector `json:"-"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// RecordSet es el snapshot combinado que consume el scoring de emociones.
type RecordSet struct {
	Moods    []MoodEntry    `json:"moods"`
	Journals []JournalEntry `json:"journals"`
}
