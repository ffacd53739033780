package domain

import "time"

const (
	AssessmentDass21    = "DASS21"
	AssessmentLifeAreas = "LIFE_AREAS"
)

// Severidades DASS-21.
const (
	SeverityNormal          = "normal"
	SeverityMild            = "mild"
	SeverityModerate        = "moderate"
	SeveritySevere          = "severe"
	SeverityExtremelySevere = "extremely_severe"
)

type SubscaleScore struct {
	Score    int    `json:"score"`
	Severity string `json:"severity"`
}

// Dass21Result guarda puntajes ya multiplicados por 2 (escala DASS-42).
type Dass21Result struct {
	Depression SubscaleScore `json:"depression"`
	Anxiety    SubscaleScore `json:"anxiety"`
	Stress     SubscaleScore `json:"stress"`
}

// LifeAreaResult es el porcentaje (0-100) por area de vida para el radar.
type LifeAreaResult struct {
	Scores map[string]int `json:"scores"`
}

// Assessment es un resultado persistido de cualquier cuestionario.
type Assessment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"`
	Answers   []int     `json:"answers,omitempty"`
	Result    any       `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}
