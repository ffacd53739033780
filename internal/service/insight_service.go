package service

import (
	"context"

	"go.uber.org/zap"

	"tara/internal/domain"
	"tara/internal/emotion"
)

// RecordSource entrega el snapshot {moods, journals} de un usuario.
type RecordSource interface {
	FetchRecords(ctx context.Context, userID string) (domain.RecordSet, error)
}

// EmotionInsight es lo que consumen los graficos.
type EmotionInsight struct {
	Scores   emotion.Scores `json:"scores"`
	Raw      emotion.Scores `json:"raw"`
	Total    int            `json:"total"`
	Dominant string         `json:"dominant,omitempty"`
	Degraded bool           `json:"degraded"`
}

// InsightService calcula la distribucion de emociones sobre registros externos.
type InsightService struct {
	source RecordSource
	engine *emotion.Engine
	cache  DistributionCache
	logger *zap.Logger
}

func NewInsightService(source RecordSource, engine *emotion.Engine, cache DistributionCache, logger *zap.Logger) *InsightService {
	if engine == nil {
		engine = emotion.Default()
	}
	if cache == nil {
		cache = noopDistributionCache{}
	}
	return &InsightService{
		source: source,
		engine: engine,
		cache:  cache,
		logger: logger,
	}
}

// EmotionDistribution nunca falla: si no se pueden leer los registros
// devuelve el vector en cero marcado como degradado.
func (s *InsightService) EmotionDistribution(ctx context.Context, userID string) EmotionInsight {
	set, err := s.source.FetchRecords(ctx, userID)
	if err != nil {
		s.logger.Warn("fetch records failed, rendering empty distribution",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		insight := s.build(domain.RecordSet{})
		insight.Degraded = true
		return insight
	}

	fp := Fingerprint(set)
	cached, ok, err := s.cache.Get(ctx, userID, fp)
	if err != nil {
		s.logger.Warn("insight cache get failed", zap.Error(err), zap.String("user_id", userID))
	} else if ok {
		return cached
	}

	insight := s.build(set)
	if err := s.cache.Set(ctx, userID, fp, insight); err != nil {
		s.logger.Warn("insight cache set failed", zap.Error(err), zap.String("user_id", userID))
	}
	return insight
}

// Radar devuelve los petalos de la flor de emociones del usuario.
func (s *InsightService) Radar(ctx context.Context, userID string, maxRadius float64) ([]emotion.RadarPoint, EmotionInsight) {
	insight := s.EmotionDistribution(ctx, userID)
	return emotion.Flower(insight.Scores, maxRadius), insight
}

// Records expone el snapshot crudo; aca si se propaga el error.
func (s *InsightService) Records(ctx context.Context, userID string) (domain.RecordSet, error) {
	return s.source.FetchRecords(ctx, userID)
}

func (s *InsightService) build(set domain.RecordSet) EmotionInsight {
	raw := s.engine.Accumulate(set.Moods, set.Journals)
	insight := EmotionInsight{
		Scores: emotion.Normalize(raw),
		Raw:    raw,
		Total:  raw.Total(),
	}
	if d, ok := raw.Dominant(); ok {
		insight.Dominant = string(d)
	}
	return insight
}

// completeScores rellena las emociones ausentes de un valor cacheado.
func completeScores(s emotion.Scores) emotion.Scores {
	out := emotion.NewScores()
	for _, e := range emotion.All {
		if v := s[e]; v > 0 {
			out[e] = v
		}
	}
	return out
}
