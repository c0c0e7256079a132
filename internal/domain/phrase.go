package domain

import "crackthecode/internal/game"

// PhraseRecord - строка из phrases / category_phrases / daily_puzzles
type PhraseRecord struct {
	ID              int64          `db:"id" json:"id"`
	Sentence        string         `db:"sentence" json:"sentence"`
	Category        string         `db:"category" json:"category"`
	Hint            string         `db:"hint" json:"hint"`
	RevealedLetters []string       `db:"revealed_letters" json:"revealedLetters"`
	LetterMap       map[string]int `db:"letter_map" json:"letterMap"`
}

// Phrase переводит запись в фразу движка; key - для проверки повторов
func (r PhraseRecord) Phrase(key string) game.Phrase {
	return game.Phrase{
		Key:       key,
		Text:      r.Sentence,
		Category:  r.Category,
		Hint:      r.Hint,
		Revealed:  r.RevealedLetters,
		LetterMap: r.LetterMap,
	}
}

// CategoryInfo - категория и число фраз в ней
type CategoryInfo struct {
	Name    string `json:"name"`
	Phrases int    `json:"phrases"`
}
