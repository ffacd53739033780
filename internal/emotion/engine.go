package emotion

import (
	"math"
	"strings"

	"tara/internal/domain"
)

const (
	// NoteWeight pondera palabras clave en la nota de un mood.
	NoteWeight = 1
	// JournalWeight pondera palabras clave del diario: mas texto, mas señal.
	JournalWeight = 2
)

// Engine agrupa matcher y pesos. Es inmutable y seguro para uso concurrente.
type Engine struct {
	matcher       *Matcher
	noteWeight    int
	journalWeight int
}

// NewEngine construye un engine con el lexicon dado y los pesos por defecto.
func NewEngine(lex Lexicon) *Engine {
	return &Engine{
		matcher:       NewMatcher(lex),
		noteWeight:    NoteWeight,
		journalWeight: JournalWeight,
	}
}

var defaultEngine = NewEngine(DefaultLexicon())

// Default devuelve el engine con el lexicon curado.
func Default() *Engine { return defaultEngine }

func (e *Engine) Matcher() *Matcher { return e.matcher }

// Accumulate suma los aportes crudos de moods y diarios.
// Un registro sin mood o sin contenido solo pierde ese aporte.
func (e *Engine) Accumulate(moods []domain.MoodEntry, journals []domain.JournalEntry) Scores {
	raw := NewScores()
	for _, m := range moods {
		if c, ok := MapMood(m.Mood); ok {
			raw.Add(c.Emotion, c.Weight)
		}
		if strings.TrimSpace(m.Note) != "" {
			raw.Merge(e.matcher.CountAll(m.Note), e.noteWeight)
		}
	}
	for _, j := range journals {
		if strings.TrimSpace(j.Content) == "" {
			continue
		}
		raw.Merge(e.matcher.CountAll(j.Content), e.journalWeight)
	}
	return raw
}

// Compute devuelve la distribucion porcentual de los registros.
func (e *Engine) Compute(moods []domain.MoodEntry, journals []domain.JournalEntry) Scores {
	return Normalize(e.Accumulate(moods, journals))
}

// Normalize convierte acumulados en porcentajes redondeados de forma independiente.
// La suma puede desviarse unos puntos de 100; no se renormaliza.
func Normalize(raw Scores) Scores {
	out := NewScores()
	total := raw.Total()
	if total <= 0 {
		return out
	}
	for _, e := range All {
		if raw[e] <= 0 {
			continue
		}
		pct := float64(raw[e]) / float64(total) * 100
		out[e] = int(math.Floor(pct + 0.5))
	}
	return out
}

// ComputeEmotionDistribution es el punto de entrada puro con el lexicon por defecto.
func ComputeEmotionDistribution(moods []domain.MoodEntry, journals []domain.JournalEntry) Scores {
	return defaultEngine.Compute(moods, journals)
}
