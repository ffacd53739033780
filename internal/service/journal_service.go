package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"tara/internal/domain"
	"tara/internal/llm"
	"tara/internal/repository"
)

var (
	ErrJournalEmpty          = errors.New("journal content is required")
	ErrJournalNotFound       = errors.New("journal entry not found")
	ErrEmbeddingsUnavailable = errors.New("related entries require embeddings")
)

const (
	maxJournalTitleLen = 200
	defaultRelatedK    = 5
	maxRelatedK        = 20
)

type JournalService struct {
	logger   *zap.Logger
	journals repository.JournalRepository
	embedder llm.Embedder
	now      func() time.Time
}

// NewJournalService acepta embedder nil: el diario funciona sin busqueda semantica.
func NewJournalService(logger *zap.Logger, journals repository.JournalRepository, embedder llm.Embedder) *JournalService {
	return &JournalService{
		logger:   logger,
		journals: journals,
		embedder: embedder,
		now:      time.Now,
	}
}

type JournalInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *JournalService) Create(ctx context.Context, userID string, input JournalInput) (domain.JournalEntry, error) {
	title, content, err := cleanJournalInput(input)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	now := s.now().UTC()
	entry := domain.JournalEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.journals.Create(ctx, entry); err != nil {
		return domain.JournalEntry{}, fmt.Errorf("create journal entry: %w", err)
	}
	s.embed(ctx, entry)
	return entry, nil
}

func (s *JournalService) Update(ctx context.Context, userID, id string, input JournalInput) (domain.JournalEntry, error) {
	title, content, err := cleanJournalInput(input)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	current.Title = title
	current.Content = content
	current.Embedding = nil
	current.UpdatedAt = s.now().UTC()

	if err := s.journals.Update(ctx, current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.JournalEntry{}, ErrJournalNotFound
		}
		return domain.JournalEntry{}, fmt.Errorf("update journal entry: %w", err)
	}
	s.embed(ctx, current)
	return current, nil
}

func (s *JournalService) Delete(ctx context.Context, userID, id string) error {
	if err := s.journals.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrJournalNotFound
		}
		return fmt.Errorf("delete journal entry: %w", err)
	}
	return nil
}

func (s *JournalService) Get(ctx context.Context, userID, id string) (domain.JournalEntry, error) {
	entry, err := s.journals.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.JournalEntry{}, ErrJournalNotFound
		}
		return domain.JournalEntry{}, fmt.Errorf("get journal entry: %w", err)
	}
	return entry, nil
}

func (s *JournalService) List(ctx context.Context, userID string) ([]domain.JournalEntry, error) {
	entries, err := s.journals.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return entries, nil
}

// Related devuelve las k entradas mas cercanas del mismo usuario.
func (s *JournalService) Related(ctx context.Context, userID, id string, k int) ([]domain.JournalEntry, error) {
	if s.embedder == nil {
		return nil, ErrEmbeddingsUnavailable
	}
	if k <= 0 {
		k = defaultRelatedK
	}
	if k > maxRelatedK {
		k = maxRelatedK
	}

	entry, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	vec := entry.Embedding
	if vec == nil {
		vec = s.embed(ctx, entry)
		if vec == nil {
			return nil, ErrEmbeddingsUnavailable
		}
	}

	related, err := s.journals.SearchSimilar(ctx, userID, entry.ID, *vec, k)
	if err != nil {
		return nil, fmt.Errorf("search similar journals: %w", err)
	}
	if related == nil {
		related = []domain.JournalEntry{}
	}
	return related, nil
}

// embed calcula y guarda el embedding. Los errores solo se loguean.
func (s *JournalService) embed(ctx context.Context, entry domain.JournalEntry) *pgvector.Vector {
	if s.embedder == nil {
		return nil
	}
	text := entry.Content
	if entry.Title != "" {
		text = entry.Title + "\n\n" + entry.Content
	}
	values, err := s.embedder.Embed(ctx, text)
	if err != nil {
		s.logger.Warn("journal embedding failed", zap.Error(err), zap.String("journal_id", entry.ID))
		return nil
	}
	if len(values) == 0 {
		return nil
	}
	vec := pgvector.NewVector(values)
	if err := s.journals.SetEmbedding(ctx, entry.ID, vec); err != nil {
		s.logger.Warn("store journal embedding failed", zap.Error(err), zap.String("journal_id", entry.ID))
	}
	return &vec
}

func cleanJournalInput(input JournalInput) (string, string, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return "", "", ErrJournalEmpty
	}
	title := strings.TrimSpace(input.Title)
	if r := []rune(title); len(r) > maxJournalTitleLen {
		title = string(r[:maxJournalTitleLen])
	}
	return title, content, nil
}
