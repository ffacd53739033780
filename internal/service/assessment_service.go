package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"tara/internal/domain"
	"tara/internal/repository"
)

var (
	ErrAssessmentInvalid  = errors.New("invalid assessment answers")
	ErrAssessmentNotFound = errors.New("assessment not found")
)

const (
	dass21Items     = 21
	dass21MaxAnswer = 3
	lifeAreaMin     = 1
	lifeAreaMax     = 10
)

// Items DASS-21 (1-indexados) por subescala.
var (
	dassDepressionItems = []int{3, 5, 10, 13, 16, 17, 21}
	dassAnxietyItems    = []int{2, 4, 7, 9, 15, 19, 20}
	dassStressItems     = []int{1, 6, 8, 11, 12, 14, 18}
)

var dass21Questions = []string{
	"I found it hard to wind down",
	"I was aware of dryness of my mouth",
	"I couldn't seem to experience any positive feeling at all",
	"I experienced breathing difficulty",
	"I found it difficult to work up the initiative to do things",
	"I tended to over-react to situations",
	"I experienced trembling (e.g. in the hands)",
	"I felt that I was using a lot of nervous energy",
	"I was worried about situations in which I might panic and make a fool of myself",
	"I felt that I had nothing to look forward to",
	"I found myself getting agitated",
	"I found it difficult to relax",
	"I felt down-hearted and blue",
	"I was intolerant of anything that kept me from getting on with what I was doing",
	"I felt I was close to panic",
	"I was unable to become enthusiastic about anything",
	"I felt I wasn't worth much as a person",
	"I felt that I was rather touchy",
	"I was aware of the action of my heart in the absence of physical exertion",
	"I felt scared without any good reason",
	"I felt that life was meaningless",
}

// LifeAreas en el orden del radar.
var LifeAreas = []string{
	"career", "relationships", "health", "finances",
	"growth", "fun", "environment", "spirituality",
}

// cortes superiores de normal, mild, moderate y severe; por encima es extremely severe.
type severityBands [4]int

var (
	depressionBands = severityBands{9, 13, 20, 27}
	anxietyBands    = severityBands{7, 9, 14, 19}
	stressBands     = severityBands{14, 18, 25, 33}
)

func (b severityBands) classify(score int) string {
	switch {
	case score <= b[0]:
		return domain.SeverityNormal
	case score <= b[1]:
		return domain.SeverityMild
	case score <= b[2]:
		return domain.SeverityModerate
	case score <= b[3]:
		return domain.SeveritySevere
	default:
		return domain.SeverityExtremelySevere
	}
}

type AssessmentService struct {
	logger      *zap.Logger
	assessments repository.AssessmentRepository
	now         func() time.Time
}

// NewAssessmentService acepta repositorio nil; en ese caso solo puntua.
func NewAssessmentService(logger *zap.Logger, assessments repository.AssessmentRepository) *AssessmentService {
	return &AssessmentService{
		logger:      logger,
		assessments: assessments,
		now:         time.Now,
	}
}

func (s *AssessmentService) Dass21Questions() []string {
	out := make([]string, len(dass21Questions))
	copy(out, dass21Questions)
	return out
}

// ScoreDass21 puntua 21 respuestas 0..3; cada subescala se multiplica por 2.
func ScoreDass21(answers []int) (domain.Dass21Result, error) {
	if len(answers) != dass21Items {
		return domain.Dass21Result{}, fmt.Errorf("%w: expected %d answers, got %d", ErrAssessmentInvalid, dass21Items, len(answers))
	}
	for i, a := range answers {
		if a < 0 || a > dass21MaxAnswer {
			return domain.Dass21Result{}, fmt.Errorf("%w: answer %d out of range", ErrAssessmentInvalid, i+1)
		}
	}
	sum := func(items []int) int {
		total := 0
		for _, item := range items {
			total += answers[item-1]
		}
		return total * 2
	}
	dep, anx, str := sum(dassDepressionItems), sum(dassAnxietyItems), sum(dassStressItems)
	return domain.Dass21Result{
		Depression: domain.SubscaleScore{Score: dep, Severity: depressionBands.classify(dep)},
		Anxiety:    domain.SubscaleScore{Score: anx, Severity: anxietyBands.classify(anx)},
		Stress:     domain.SubscaleScore{Score: str, Severity: stressBands.classify(str)},
	}, nil
}

// ScoreLifeAreas promedia cada area (1..10) y la lleva a porcentaje.
// Areas sin respuestas quedan en 0.
func ScoreLifeAreas(answers map[string][]int) (domain.LifeAreaResult, error) {
	known := make(map[string]bool, len(LifeAreas))
	for _, a := range LifeAreas {
		known[a] = true
	}
	scores := make(map[string]int, len(LifeAreas))
	for _, a := range LifeAreas {
		scores[a] = 0
	}
	answered := 0
	for area, values := range answers {
		key := strings.ToLower(strings.TrimSpace(area))
		if !known[key] {
			return domain.LifeAreaResult{}, fmt.Errorf("%w: unknown life area %q", ErrAssessmentInvalid, area)
		}
		if len(values) == 0 {
			continue
		}
		sum := 0
		for _, v := range values {
			if v < lifeAreaMin || v > lifeAreaMax {
				return domain.LifeAreaResult{}, fmt.Errorf("%w: %s answer %d out of range", ErrAssessmentInvalid, key, v)
			}
			sum += v
		}
		avg := float64(sum) / float64(len(values))
		scores[key] = int(math.Floor(avg*100/lifeAreaMax + 0.5))
		answered++
	}
	if answered == 0 {
		return domain.LifeAreaResult{}, fmt.Errorf("%w: no life area answered", ErrAssessmentInvalid)
	}
	return domain.LifeAreaResult{Scores: scores}, nil
}

func (s *AssessmentService) SubmitDass21(ctx context.Context, userID string, answers []int) (domain.Dass21Result, error) {
	result, err := ScoreDass21(answers)
	if err != nil {
		return domain.Dass21Result{}, err
	}
	if err := s.persist(ctx, userID, domain.AssessmentDass21, answers, result); err != nil {
		return domain.Dass21Result{}, err
	}
	return result, nil
}

func (s *AssessmentService) SubmitLifeAreas(ctx context.Context, userID string, answers map[string][]int) (domain.LifeAreaResult, error) {
	result, err := ScoreLifeAreas(answers)
	if err != nil {
		return domain.LifeAreaResult{}, err
	}
	var flat []int
	for _, area := range LifeAreas {
		flat = append(flat, result.Scores[area])
	}
	if err := s.persist(ctx, userID, domain.AssessmentLifeAreas, flat, result); err != nil {
		return domain.LifeAreaResult{}, err
	}
	return result, nil
}

// Latest devuelve el ultimo resultado del tipo pedido, con Result ya decodificado.
func (s *AssessmentService) Latest(ctx context.Context, userID, kind string) (domain.Assessment, error) {
	if s.assessments == nil {
		return domain.Assessment{}, ErrAssessmentNotFound
	}
	kind = strings.ToUpper(strings.TrimSpace(kind))
	var target any
	switch kind {
	case domain.AssessmentDass21:
		target = &domain.Dass21Result{}
	case domain.AssessmentLifeAreas:
		target = &domain.LifeAreaResult{}
	default:
		return domain.Assessment{}, fmt.Errorf("%w: unknown kind %q", ErrAssessmentInvalid, kind)
	}

	a, raw, err := s.assessments.LatestByKind(ctx, userID, kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Assessment{}, ErrAssessmentNotFound
		}
		return domain.Assessment{}, fmt.Errorf("latest assessment: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return domain.Assessment{}, fmt.Errorf("decode assessment result: %w", err)
	}
	a.Result = target
	return a, nil
}

func (s *AssessmentService) persist(ctx context.Context, userID, kind string, answers []int, result any) error {
	if s.assessments == nil {
		return nil
	}
	a := domain.Assessment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Answers:   answers,
		Result:    result,
		CreatedAt: s.now().UTC(),
	}
	if err := s.assessments.Create(ctx, a); err != nil {
		return fmt.Errorf("store assessment: %w", err)
	}
	s.logger.Info("assessment stored", zap.String("user_id", userID), zap.String("kind", kind))
	return nil
}
