package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tara/internal/domain"
	"tara/internal/emotion"
)

type stubRecordSource struct {
	set   domain.RecordSet
	err   error
	calls int
}

func (s *stubRecordSource) FetchRecords(_ context.Context, _ string) (domain.RecordSet, error) {
	s.calls++
	if s.err != nil {
		return domain.RecordSet{}, s.err
	}
	return s.set, nil
}

type countingCache struct {
	store map[string]EmotionInsight
	gets  int
	sets  int
	err   error
}

func newCountingCache() *countingCache {
	return &countingCache{store: make(map[string]EmotionInsight)}
}

func (c *countingCache) Get(_ context.Context, userID, fp string) (EmotionInsight, bool, error) {
	c.gets++
	if c.err != nil {
		return EmotionInsight{}, false, c.err
	}
	v, ok := c.store[userID+":"+fp]
	return v, ok, nil
}

func (c *countingCache) Set(_ context.Context, userID, fp string, insight EmotionInsight) error {
	c.sets++
	if c.err != nil {
		return c.err
	}
	c.store[userID+":"+fp] = insight
	return nil
}

func sampleRecords() domain.RecordSet {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return domain.RecordSet{
		Moods: []domain.MoodEntry{
			{ID: "m1", Mood: "sad", Intensity: 6, CreatedAt: now},
		},
		Journals: []domain.JournalEntry{
			{ID: "j1", Content: "I felt sad today", CreatedAt: now, UpdatedAt: now},
		},
	}
}

func TestInsightService_EmotionDistribution(t *testing.T) {
	source := &stubRecordSource{set: sampleRecords()}
	svc := NewInsightService(source, nil, nil, zap.NewNop())

	got := svc.EmotionDistribution(context.Background(), "user-1")

	want := emotion.NewScores()
	want[emotion.Sadness] = 100
	if diff := cmp.Diff(want, got.Scores); diff != "" {
		t.Fatalf("distribution mismatch (-want +got):\n%s", diff)
	}
	if got.Total != 5 {
		t.Fatalf("expected raw total 5, got %d", got.Total)
	}
	if got.Raw[emotion.Sadness] != 5 {
		t.Fatalf("expected raw sadness 5, got %d", got.Raw[emotion.Sadness])
	}
	if got.Dominant != "Sadness" {
		t.Fatalf("expected dominant Sadness, got %q", got.Dominant)
	}
	if got.Degraded {
		t.Fatalf("expected non degraded insight")
	}
}

func TestInsightService_DegradesOnFetchError(t *testing.T) {
	source := &stubRecordSource{err: errors.New("db down")}
	cache := newCountingCache()
	svc := NewInsightService(source, nil, cache, zap.NewNop())

	got := svc.EmotionDistribution(context.Background(), "user-1")

	if !got.Degraded {
		t.Fatalf("expected degraded insight")
	}
	if diff := cmp.Diff(emotion.NewScores(), got.Scores); diff != "" {
		t.Fatalf("expected zero vector (-want +got):\n%s", diff)
	}
	if len(got.Scores) != len(emotion.All) {
		t.Fatalf("expected all eight emotions present, got %d", len(got.Scores))
	}
	if cache.gets != 0 || cache.sets != 0 {
		t.Fatalf("expected cache untouched on degraded path")
	}
}

func TestInsightService_MemoizesPerSnapshot(t *testing.T) {
	source := &stubRecordSource{set: sampleRecords()}
	cache := newCountingCache()
	svc := NewInsightService(source, nil, cache, zap.NewNop())
	ctx := context.Background()

	first := svc.EmotionDistribution(ctx, "user-1")
	second := svc.EmotionDistribution(ctx, "user-1")
	if cache.sets != 1 {
		t.Fatalf("expected a single cache write, got %d", cache.sets)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("cached insight differs (-first +second):\n%s", diff)
	}

	source.set.Journals[0].Content = "I felt happy today"
	source.set.Journals[0].UpdatedAt = source.set.Journals[0].UpdatedAt.Add(time.Minute)
	third := svc.EmotionDistribution(ctx, "user-1")
	if cache.sets != 2 {
		t.Fatalf("expected recompute after edit, got %d writes", cache.sets)
	}
	if third.Scores[emotion.Joy] == 0 {
		t.Fatalf("expected joy after edit, got %+v", third.Scores)
	}
}

func TestInsightService_CacheErrorsIgnored(t *testing.T) {
	source := &stubRecordSource{set: sampleRecords()}
	cache := newCountingCache()
	cache.err = errors.New("redis down")
	svc := NewInsightService(source, nil, cache, zap.NewNop())

	got := svc.EmotionDistribution(context.Background(), "user-1")
	if got.Degraded || got.Scores[emotion.Sadness] != 100 {
		t.Fatalf("expected computed insight despite cache failure, got %+v", got)
	}
}

func TestRedisDistributionCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := NewRedisDistributionCache(client, time.Minute)
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "user-1", "abc"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	raw := emotion.NewScores()
	raw[emotion.Fear] = 3
	insight := EmotionInsight{Scores: emotion.Normalize(raw), Raw: raw, Total: 3, Dominant: "Fear"}
	if err := cache.Set(ctx, "user-1", "abc", insight); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("insights:emotions:user-1:abc") {
		t.Fatalf("expected key in redis")
	}

	got, ok, err := cache.Get(ctx, "user-1", "abc")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(insight, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := cache.Get(ctx, "user-1", "abc"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestFingerprint(t *testing.T) {
	a := sampleRecords()
	b := sampleRecords()
	if Fingerprint(a) != Fingerprint(b) {
		t.Fatalf("expected equal fingerprints for equal snapshots")
	}
	b.Moods[0].Note = "rough day"
	if Fingerprint(a) == Fingerprint(b) {
		t.Fatalf("expected note change to alter fingerprint")
	}
	if Fingerprint(domain.RecordSet{}) == Fingerprint(a) {
		t.Fatalf("expected empty snapshot to differ")
	}
}
