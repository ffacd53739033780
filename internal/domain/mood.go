package domain

import (
	"strings"
	"time"
)

// Vocabulario cerrado de moods del check-in.
const (
	MoodCalm        = "calm"
	MoodHappy       = "happy"
	MoodGrateful    = "grateful"
	MoodMotivated   = "motivated"
	MoodHealing     = "healing"
	MoodLost        = "lost"
	MoodLonely      = "lonely"
	MoodSad         = "sad"
	MoodStressed    = "stressed"
	MoodAnxious     = "anxious"
	MoodOverwhelmed = "overwhelmed"
	MoodAngry       = "angry"
)

// MoodVocabulary lista los moods aceptados, en el orden que muestra el check-in.
var MoodVocabulary = []string{
	MoodCalm, MoodHappy, MoodGrateful, MoodMotivated, MoodHealing, MoodLost,
	MoodLonely, MoodSad, MoodStressed, MoodAnxious, MoodOverwhelmed, MoodAngry,
}

const (
	MinIntensity = 1
	MaxIntensity = 10
)

// MoodEntry es un check-in de animo. Inmutable una vez creado.
type MoodEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Mood      string    `json:"mood"`
	Intensity int       `json:"intensity"` // 1-5 en la UI, 1-10 en otros productores
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
}

// NormalizeMood deja el label en minusculas y sin espacios.
func NormalizeMood(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// IsKnownMood indica si el label pertenece al vocabulario.
func IsKnownMood(label string) bool {
	label = NormalizeMood(label)
	for _, m := range MoodVocabulary {
		if m == label {
			return true
		}
	}
	return false
}
