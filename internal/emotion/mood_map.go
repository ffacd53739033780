package emotion

import "strings"

// Contribution es el aporte fijo de un label de mood.
type Contribution struct {
	Emotion Emotion
	Weight  int
}

var moodTable = map[string]Contribution{
	"happy":       {Joy, 2},
	"grateful":    {Joy, 2},
	"motivated":   {Anticipation, 2},
	"calm":        {Trust, 2},
	"healing":     {Trust, 1},
	"sad":         {Sadness, 3},
	"lonely":      {Sadness, 3},
	"stressed":    {Fear, 2},
	"anxious":     {Fear, 2},
	"overwhelmed": {Fear, 3},
	"angry":       {Anger, 3},
	"lost":        {Sadness, 2},
}

// MapMood traduce un label a su emocion y peso. Labels desconocidos no aportan.
func MapMood(label string) (Contribution, bool) {
	c, ok := moodTable[strings.ToLower(strings.TrimSpace(label))]
	return c, ok
}
