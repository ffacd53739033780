package emotion

import (
	"fmt"
	"strings"
	"unicode"
)

// Lexicon son las listas de palabras clave por emocion. Solo palabras sueltas.
type Lexicon map[Emotion][]string

// DefaultLexicon devuelve las listas curadas. Son disjuntas entre si.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Joy: {
			"happy", "happiness", "joy", "joyful", "glad", "delighted", "cheerful",
			"pleased", "content", "love", "loved", "loving", "blessed", "smile",
			"smiling", "laugh", "laughing", "wonderful", "amazing", "great",
			"fantastic", "elated", "thrilled", "good",
		},
		Trust: {
			"trust", "trusting", "safe", "secure", "calm", "peaceful", "peace",
			"supported", "support", "accepted", "confident", "reliable", "faith",
			"believe", "comfort", "comforted", "relaxed", "grounded", "connected",
			"understood",
		},
		Fear: {
			"afraid", "fear", "scared", "anxious", "anxiety", "worried", "worry",
			"worrying", "nervous", "panic", "panicked", "terrified", "frightened",
			"stressed", "stress", "overwhelmed", "tense", "uneasy", "dread", "insecure",
		},
		Surprise: {
			"surprised", "surprise", "surprising", "shocked", "shock", "amazed",
			"astonished", "unexpected", "unexpectedly", "suddenly", "startled",
			"stunned", "wow",
		},
		Sadness: {
			"sad", "sadness", "depressed", "depression", "down", "unhappy",
			"miserable", "lonely", "loneliness", "hurt", "hurting", "grief",
			"grieve", "grieving", "loss", "lost", "cry", "crying", "tears",
			"heartbroken", "heartbreak", "sorrow", "despair", "hopeless", "empty",
			"numb",
		},
		Disgust: {
			"disgust", "disgusted", "disgusting", "gross", "sick", "revolted",
			"repulsed", "nasty", "awful", "ashamed", "shame", "yuck", "dislike",
			"loathe",
		},
		Anger: {
			"angry", "anger", "mad", "furious", "rage", "annoyed", "irritated",
			"frustrated", "frustration", "hate", "hated", "resent", "resentment",
			"bitter", "outraged", "livid",
		},
		Anticipation: {
			"anticipate", "anticipation", "eager", "expect", "expecting", "hope",
			"hopeful", "plan", "planning", "goal", "goals", "motivated", "ready",
			"curious", "soon", "waiting", "prepared", "determined",
		},
	}
}

// Validate falla si una palabra no es un token unico o aparece en dos emociones.
func (l Lexicon) Validate() error {
	owner := make(map[string]Emotion)
	for _, e := range All {
		for _, word := range l[e] {
			tokens := Tokenize(word)
			if len(tokens) != 1 || tokens[0] != word {
				return fmt.Errorf("keyword %q of %s is not a single lowercase word", word, e)
			}
			if prev, ok := owner[word]; ok && prev != e {
				return fmt.Errorf("keyword %q listed under %s and %s", word, prev, e)
			}
			owner[word] = e
		}
	}
	for e := range l {
		if _, ok := ParseEmotion(string(e)); !ok {
			return fmt.Errorf("unknown emotion %q", e)
		}
	}
	return nil
}

// Tokenize pasa a minusculas y corta en todo lo que no sea letra, digito o '_'.
// Las letras no ASCII cuentan como parte de la palabra: "ésad" es un solo token,
// a diferencia de un \b ASCII.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
}
