package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"

	"tara/internal/domain"
)

// DistributionCache memoiza distribuciones por (usuario, snapshot).
type DistributionCache interface {
	Get(ctx context.Context, userID, fingerprint string) (EmotionInsight, bool, error)
	Set(ctx context.Context, userID, fingerprint string, insight EmotionInsight) error
}

type noopDistributionCache struct{}

func (noopDistributionCache) Get(context.Context, string, string) (EmotionInsight, bool, error) {
	return EmotionInsight{}, false, nil
}

func (noopDistributionCache) Set(context.Context, string, string, EmotionInsight) error {
	return nil
}

type redisDistributionCache struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewRedisDistributionCache(client redis.Cmdable, ttl time.Duration) DistributionCache {
	if client == nil {
		return noopDistributionCache{}
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &redisDistributionCache{
		client: client,
		ttl:    ttl,
		prefix: "insights:emotions:",
	}
}

func (c *redisDistributionCache) key(userID, fingerprint string) string {
	return c.prefix + userID + ":" + fingerprint
}

func (c *redisDistributionCache) Get(ctx context.Context, userID, fingerprint string) (EmotionInsight, bool, error) {
	raw, err := c.client.Get(ctx, c.key(userID, fingerprint)).Bytes()
	if errors.Is(err, redis.Nil) {
		return EmotionInsight{}, false, nil
	}
	if err != nil {
		return EmotionInsight{}, false, err
	}
	var insight EmotionInsight
	if err := json.Unmarshal(raw, &insight); err != nil {
		return EmotionInsight{}, false, err
	}
	insight.Scores = completeScores(insight.Scores)
	insight.Raw = completeScores(insight.Raw)
	return insight, true, nil
}

func (c *redisDistributionCache) Set(ctx context.Context, userID, fingerprint string, insight EmotionInsight) error {
	raw, err := json.Marshal(insight)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(userID, fingerprint), raw, c.ttl).Err()
}

// Fingerprint identifica un snapshot de registros; cambia si cambia cualquier
// campo que afecte el scoring.
func Fingerprint(set domain.RecordSet) string {
	d := xxhash.New()
	for _, m := range set.Moods {
		_, _ = d.WriteString("m|")
		_, _ = d.WriteString(m.ID)
		_, _ = d.WriteString("|")
		_, _ = d.WriteString(m.Mood)
		_, _ = d.WriteString("|")
		_, _ = d.WriteString(m.Note)
		_, _ = d.WriteString("\x00")
	}
	for _, j := range set.Journals {
		_, _ = d.WriteString("j|")
		_, _ = d.WriteString(j.ID)
		_, _ = d.WriteString("|")
		_, _ = d.WriteString(strconv.FormatInt(j.UpdatedAt.UnixNano(), 10))
		_, _ = d.WriteString("|")
		_, _ = d.WriteString(j.Content)
		_, _ = d.WriteString("\x00")
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
