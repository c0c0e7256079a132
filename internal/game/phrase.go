package game

import "strings"

// Phrase - запись от поставщика фраз; не меняется после получения
type Phrase struct {
	Key       string         `json:"key,omitempty"`
	Text      string         `json:"sentence"`
	Category  string         `json:"category"`
	Hint      string         `json:"hint"`
	Revealed  []string       `json:"revealedLetters"`
	LetterMap map[string]int `json:"letterMap,omitempty"`
}

// ID - ключ для проверки повторов: Key, а без него - сам текст
func (p Phrase) ID() string {
	if p.Key != "" {
		return p.Key
	}
	return strings.ToLower(strings.TrimSpace(p.Text))
}

func (p Phrase) revealedSet() map[rune]bool {
	set := make(map[rune]bool, len(p.Revealed))
	for _, s := range p.Revealed {
		if r, ok := parseInput(s); ok && r != 0 {
			set[r] = true
		}
	}
	return set
}
