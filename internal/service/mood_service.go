package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tara/internal/domain"
	"tara/internal/repository"
)

var (
	ErrMoodInvalid         = errors.New("mood is not in the check-in vocabulary")
	ErrIntensityOutOfRange = errors.New("intensity out of range")
)

const (
	maxNoteLen       = 2000
	defaultMeterDays = 7
	maxMeterDays     = 365
)

type MoodService struct {
	logger *zap.Logger
	moods  repository.MoodRepository
	now    func() time.Time
}

func NewMoodService(logger *zap.Logger, moods repository.MoodRepository) *MoodService {
	return &MoodService{
		logger: logger,
		moods:  moods,
		now:    time.Now,
	}
}

type MoodInput struct {
	Mood      string `json:"mood"`
	Intensity int    `json:"intensity"`
	Note      string `json:"note"`
}

// MoodDay agrupa los check-ins de un dia calendario.
type MoodDay struct {
	Date             string             `json:"date"`
	AverageIntensity float64            `json:"average_intensity"`
	Entries          []domain.MoodEntry `json:"entries"`
}

// MoodMeter resume la ventana reciente para el medidor de animo.
type MoodMeter struct {
	Days             int            `json:"days"`
	Count            int            `json:"count"`
	AverageIntensity float64        `json:"average_intensity"`
	DominantMood     string         `json:"dominant_mood,omitempty"`
	Counts           map[string]int `json:"counts"`
}

func (s *MoodService) CheckIn(ctx context.Context, userID string, input MoodInput) (domain.MoodEntry, error) {
	label := domain.NormalizeMood(input.Mood)
	if !domain.IsKnownMood(label) {
		return domain.MoodEntry{}, ErrMoodInvalid
	}
	if input.Intensity < domain.MinIntensity || input.Intensity > domain.MaxIntensity {
		return domain.MoodEntry{}, ErrIntensityOutOfRange
	}
	note := strings.TrimSpace(input.Note)
	if r := []rune(note); len(r) > maxNoteLen {
		note = string(r[:maxNoteLen])
	}

	entry := domain.MoodEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Mood:      label,
		Intensity: input.Intensity,
		Note:      note,
		CreatedAt: s.now().UTC(),
	}
	if err := s.moods.Create(ctx, entry); err != nil {
		return domain.MoodEntry{}, fmt.Errorf("create mood entry: %w", err)
	}
	s.logger.Debug("mood check-in stored",
		zap.String("user_id", userID),
		zap.String("mood", label),
		zap.Int("intensity", entry.Intensity),
	)
	return entry, nil
}

// History agrupa por dia en la zona del usuario, dia mas reciente primero.
func (s *MoodService) History(ctx context.Context, userID string, loc *time.Location) ([]MoodDay, error) {
	if loc == nil {
		loc = time.UTC
	}
	entries, err := s.moods.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list moods: %w", err)
	}
	return groupByDay(entries, loc), nil
}

func (s *MoodService) Meter(ctx context.Context, userID string, days int) (MoodMeter, error) {
	if days <= 0 {
		days = defaultMeterDays
	}
	if days > maxMeterDays {
		days = maxMeterDays
	}
	since := s.now().UTC().AddDate(0, 0, -days)
	entries, err := s.moods.ListSince(ctx, userID, since)
	if err != nil {
		return MoodMeter{}, fmt.Errorf("list moods since: %w", err)
	}

	meter := MoodMeter{Days: days, Counts: make(map[string]int)}
	sum := 0
	for _, e := range entries {
		meter.Counts[e.Mood]++
		sum += e.Intensity
	}
	meter.Count = len(entries)
	if meter.Count > 0 {
		meter.AverageIntensity = round1(float64(sum) / float64(meter.Count))
	}
	meter.DominantMood = dominantMood(meter.Counts)
	return meter, nil
}

func groupByDay(entries []domain.MoodEntry, loc *time.Location) []MoodDay {
	byDay := make(map[string][]domain.MoodEntry)
	for _, e := range entries {
		key := e.CreatedAt.In(loc).Format(time.DateOnly)
		byDay[key] = append(byDay[key], e)
	}

	out := make([]MoodDay, 0, len(byDay))
	for day, list := range byDay {
		sort.Slice(list, func(i, j int) bool {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		})
		sum := 0
		for _, e := range list {
			sum += e.Intensity
		}
		out = append(out, MoodDay{
			Date:             day,
			AverageIntensity: round1(float64(sum) / float64(len(list))),
			Entries:          list,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// dominantMood resuelve empates con el orden del vocabulario.
func dominantMood(counts map[string]int) string {
	best, bestN := "", 0
	for _, m := range domain.MoodVocabulary {
		if counts[m] > bestN {
			best, bestN = m, counts[m]
		}
	}
	return best
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
