// Package emotion convierte moods y entradas de diario en una distribucion
// de las ocho emociones basicas de Plutchik.
package emotion

import "strings"

type Emotion string

const (
	Joy          Emotion = "Joy"
	Trust        Emotion = "Trust"
	Fear         Emotion = "Fear"
	Surprise     Emotion = "Surprise"
	Sadness      Emotion = "Sadness"
	Disgust      Emotion = "Disgust"
	Anger        Emotion = "Anger"
	Anticipation Emotion = "Anticipation"
)

// All es el orden canonico de la rueda, el mismo que usa el radar.
var All = [...]Emotion{Joy, Trust, Fear, Surprise, Sadness, Disgust, Anger, Anticipation}

// ParseEmotion reconoce el nombre sin importar mayusculas.
func ParseEmotion(s string) (Emotion, bool) {
	s = strings.TrimSpace(s)
	for _, e := range All {
		if strings.EqualFold(string(e), s) {
			return e, true
		}
	}
	return "", false
}

// Scores asocia cada emocion con un acumulado o un porcentaje, siempre >= 0.
type Scores map[Emotion]int

// NewScores devuelve las ocho emociones en cero.
func NewScores() Scores {
	s := make(Scores, len(All))
	for _, e := range All {
		s[e] = 0
	}
	return s
}

// Add suma un aporte. Valores negativos se ignoran.
func (s Scores) Add(e Emotion, n int) {
	if n <= 0 {
		return
	}
	s[e] += n
}

// Merge suma otro vector multiplicado por weight.
func (s Scores) Merge(other Scores, weight int) {
	for e, n := range other {
		s.Add(e, n*weight)
	}
}

func (s Scores) Total() int {
	total := 0
	for _, e := range All {
		total += s[e]
	}
	return total
}

// Dominant devuelve la emocion con mayor valor; empates resuelven por orden canonico.
func (s Scores) Dominant() (Emotion, bool) {
	best, bestVal := Emotion(""), 0
	for _, e := range All {
		if s[e] > bestVal {
			best, bestVal = e, s[e]
		}
	}
	return best, bestVal > 0
}

// Labels devuelve los nombres en orden canonico para los graficos.
func Labels() []string {
	out := make([]string, len(All))
	for i, e := range All {
		out[i] = string(e)
	}
	return out
}

// AsMap expone el vector como {EmotionName: valor} para los renderers.
func (s Scores) AsMap() map[string]int {
	out := make(map[string]int, len(All))
	for _, e := range All {
		out[string(e)] = s[e]
	}
	return out
}
