package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	pgvector "github.com/pgvector/pgvector-go"

	"tara/internal/domain"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	usersByAuth  map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
		usersByAuth:  make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.usersByID[user.ID] = user
	if user.Email != "" {
		m.usersByEmail[user.Email] = user.ID
	}
	if user.AuthProvider != "" && user.AuthSubject != "" {
		m.usersByAuth[user.AuthProvider+"|"+user.AuthSubject] = user.ID
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) GetByAuth(ctx context.Context, provider, subject string) (domain.User, error) {
	id, ok := m.usersByAuth[provider+"|"+subject]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) LinkOAuth(_ context.Context, id, provider, subject string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.AuthProvider = provider
	user.AuthSubject = subject
	m.usersByID[id] = user
	m.usersByAuth[provider+"|"+subject] = id
	return nil
}

type mockMoodRepo struct {
	entries []domain.MoodEntry
	listErr error
}

func (m *mockMoodRepo) Create(_ context.Context, entry domain.MoodEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockMoodRepo) ListByUser(_ context.Context, userID string) ([]domain.MoodEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.MoodEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockMoodRepo) ListSince(ctx context.Context, userID string, since time.Time) ([]domain.MoodEntry, error) {
	all, err := m.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []domain.MoodEntry
	for _, e := range all {
		if !e.CreatedAt.Before(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockJournalRepo struct {
	entries map[string]domain.JournalEntry
}

func newMockJournalRepo() *mockJournalRepo {
	return &mockJournalRepo{entries: make(map[string]domain.JournalEntry)}
}

func (m *mockJournalRepo) Create(_ context.Context, entry domain.JournalEntry) error {
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockJournalRepo) Update(_ context.Context, entry domain.JournalEntry) error {
	current, ok := m.entries[entry.ID]
	if !ok || current.UserID != entry.UserID {
		return pgx.ErrNoRows
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockJournalRepo) Delete(_ context.Context, userID, id string) error {
	current, ok := m.entries[id]
	if !ok || current.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(m.entries, id)
	return nil
}

func (m *mockJournalRepo) GetByID(_ context.Context, userID, id string) (domain.JournalEntry, error) {
	current, ok := m.entries[id]
	if !ok || current.UserID != userID {
		return domain.JournalEntry{}, pgx.ErrNoRows
	}
	return current, nil
}

func (m *mockJournalRepo) ListByUser(_ context.Context, userID string) ([]domain.JournalEntry, error) {
	var out []domain.JournalEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockJournalRepo) SetEmbedding(context.Context, string, pgvector.Vector) error {
	return nil
}

func (m *mockJournalRepo) SearchSimilar(context.Context, string, string, pgvector.Vector, int) ([]domain.JournalEntry, error) {
	return nil, nil
}

type mockAssessmentRepo struct {
	created []domain.Assessment
}

func (m *mockAssessmentRepo) Create(_ context.Context, a domain.Assessment) error {
	m.created = append(m.created, a)
	return nil
}

func (m *mockAssessmentRepo) LatestByKind(_ context.Context, userID, kind string) (domain.Assessment, []byte, error) {
	for i := len(m.created) - 1; i >= 0; i-- {
		a := m.created[i]
		if a.UserID == userID && a.Kind == kind {
			raw, err := json.Marshal(a.Result)
			return a, raw, err
		}
	}
	return domain.Assessment{}, nil, pgx.ErrNoRows
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error { return p.err }

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	return performAuthRequest(r, method, path, "", body)
}

func performAuthRequest(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
