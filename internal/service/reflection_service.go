package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tara/internal/domain"
	"tara/internal/emotion"
	"tara/internal/llm"
)

var (
	ErrReflectionDisabled = errors.New("reflection requires an llm provider")
	ErrRateLimited        = errors.New("too many reflection requests")
	ErrReflectionParse    = errors.New("could not parse reflection")
)

const (
	maxReflectionJournals = 3
	maxJournalExcerpt     = 800
	maxReflectionPrompts  = 5
)

type Reflection struct {
	Summary string         `json:"summary"`
	Prompts []string       `json:"prompts"`
	Insight EmotionInsight `json:"insight"`
}

// ReflectionService genera una reflexion puntual sobre el diario. No es un chat.
type ReflectionService struct {
	logger    *zap.Logger
	llmClient llm.LLMClient
	insights  *InsightService
	limiter   RateLimiter
}

func NewReflectionService(logger *zap.Logger, client llm.LLMClient, insights *InsightService, limiter RateLimiter) *ReflectionService {
	return &ReflectionService{
		logger:    logger,
		llmClient: client,
		insights:  insights,
		limiter:   limiter,
	}
}

func (s *ReflectionService) Reflect(ctx context.Context, userID string) (Reflection, error) {
	if s.llmClient == nil {
		return Reflection{}, ErrReflectionDisabled
	}
	if s.limiter != nil && !s.limiter.Allow(userID) {
		return Reflection{}, ErrRateLimited
	}

	insight := s.insights.EmotionDistribution(ctx, userID)
	var excerpts []string
	if set, err := s.insights.Records(ctx, userID); err != nil {
		s.logger.Warn("reflection without journal context", zap.Error(err), zap.String("user_id", userID))
	} else {
		excerpts = journalExcerpts(set.Journals)
	}

	raw, err := s.llmClient.Generate(ctx, buildReflectionPrompt(insight, excerpts))
	if err != nil {
		return Reflection{}, fmt.Errorf("generate reflection: %w", err)
	}
	out, err := parseReflection(raw)
	if err != nil {
		s.logger.Warn("reflection parse failed", zap.Error(err), zap.String("user_id", userID))
		return Reflection{}, err
	}
	out.Insight = insight
	return out, nil
}

func buildReflectionPrompt(insight EmotionInsight, excerpts []string) string {
	var b strings.Builder
	b.WriteString("You are a gentle journaling assistant. You do not diagnose and you do not give medical advice.\n")
	b.WriteString("Emotion distribution of the user's recent records (percent):\n")
	for _, e := range emotion.All {
		fmt.Fprintf(&b, "- %s: %d\n", e, insight.Scores[e])
	}
	if len(excerpts) > 0 {
		b.WriteString("Recent journal excerpts:\n")
		for _, ex := range excerpts {
			fmt.Fprintf(&b, "---\n%s\n", ex)
		}
	}
	b.WriteString("Reply ONLY with JSON: {\"summary\": \"two or three sentences\", \"prompts\": [\"up to three short journaling prompts\"]}")
	return b.String()
}

// journalExcerpts asume entradas ordenadas de la mas reciente a la mas vieja.
func journalExcerpts(journals []domain.JournalEntry) []string {
	var out []string
	for _, j := range journals {
		if len(out) == maxReflectionJournals {
			break
		}
		content := strings.TrimSpace(j.Content)
		if content == "" {
			continue
		}
		if r := []rune(content); len(r) > maxJournalExcerpt {
			content = string(r[:maxJournalExcerpt]) + "..."
		}
		out = append(out, content)
	}
	return out
}

func parseReflection(raw string) (Reflection, error) {
	candidates := []string{cleanLLMJSON(raw)}
	if obj := firstJSONObject(raw); obj != "" {
		candidates = append(candidates, obj)
	}

	for _, c := range candidates {
		var tmp struct {
			Summary string   `json:"summary"`
			Prompts []string `json:"prompts"`
		}
		if err := json.Unmarshal([]byte(c), &tmp); err != nil {
			continue
		}
		summary := strings.TrimSpace(tmp.Summary)
		if summary == "" {
			continue
		}
		prompts := make([]string, 0, len(tmp.Prompts))
		for _, p := range tmp.Prompts {
			if p = strings.TrimSpace(p); p != "" && len(prompts) < maxReflectionPrompts {
				prompts = append(prompts, p)
			}
		}
		return Reflection{Summary: summary, Prompts: prompts}, nil
	}
	return Reflection{}, ErrReflectionParse
}
