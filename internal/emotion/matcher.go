package emotion

// Matcher cuenta apariciones de palabras clave completas por emocion.
type Matcher struct {
	index map[string]Emotion
}

// NewMatcher indexa un lexicon. Si una palabra se repite entre emociones gana la
// primera en orden canonico; Lexicon.Validate detecta ese caso.
func NewMatcher(lex Lexicon) *Matcher {
	m := &Matcher{index: make(map[string]Emotion)}
	for _, e := range All {
		for _, word := range lex[e] {
			if _, taken := m.index[word]; !taken {
				m.index[word] = e
			}
		}
	}
	return m
}

// Count devuelve cuantas palabras de text pertenecen a la lista de target.
func (m *Matcher) Count(text string, target Emotion) int {
	n := 0
	for _, tok := range Tokenize(text) {
		if e, ok := m.index[tok]; ok && e == target {
			n++
		}
	}
	return n
}

// CountAll recorre el texto una vez y devuelve los conteos de las ocho emociones.
func (m *Matcher) CountAll(text string) Scores {
	out := NewScores()
	for _, tok := range Tokenize(text) {
		if e, ok := m.index[tok]; ok {
			out[e]++
		}
	}
	return out
}
