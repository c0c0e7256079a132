package game

import (
	"math/rand"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Canonical - ответ фразы: только буквы, в нижнем регистре
type Canonical []rune

func (c Canonical) String() string { return string(c) }

// Normalize убирает из raw всё, кроме букв.
// positions[i] - индекс (в рунах) i-й буквы в raw, нужен для отрисовки ячеек
// поверх исходного текста с пробелами и пунктуацией.
func Normalize(raw string) (Canonical, []int) {
	answer := make(Canonical, 0, len(raw))
	positions := make([]int, 0, len(raw))

	i := 0
	for _, r := range raw {
		if unicode.IsLetter(r) {
			answer = append(answer, unicode.ToLower(r))
			positions = append(positions, i)
		}
		i++
	}
	return answer, positions
}

// Mask заменяет каждую букву raw на '_', сохраняя пробелы и знаки
func Mask(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return '_'
		}
		return r
	}, raw)
}

// parseInput разбирает ввод одной ячейки.
// "" - удаление (0, true); одна буква - (буква в нижнем регистре, true);
// всё остальное отклоняется.
func parseInput(raw string) (rune, bool) {
	if raw == "" {
		return 0, true
	}
	r, size := utf8.DecodeRuneInString(raw)
	if size != len(raw) || !unicode.IsLetter(r) {
		return 0, false
	}
	return unicode.ToLower(r), true
}

// NewLetterMap раздает буквам a-z случайные номера 1..26
func NewLetterMap(rng *rand.Rand) map[string]int {
	numbers := rng.Perm(26)
	m := make(map[string]int, 26)
	for i := 0; i < 26; i++ {
		m[string(rune('a'+i))] = numbers[i] + 1
	}
	return m
}

// SequentialLetterMap нумерует различные буквы фразы по алфавиту с 1
func SequentialLetterMap(raw string) map[string]int {
	letters := distinctLetters(raw)
	m := make(map[string]int, len(letters))
	for i, l := range letters {
		m[l] = i + 1
	}
	return m
}

// PickRevealed выбирает n различных букв фразы, которые будут открыты заранее
func PickRevealed(rng *rand.Rand, raw string, n int) []string {
	letters := distinctLetters(raw)
	rng.Shuffle(len(letters), func(i, j int) { letters[i], letters[j] = letters[j], letters[i] })
	if n > len(letters) {
		n = len(letters)
	}
	if n < 0 {
		n = 0
	}
	out := letters[:n]
	sort.Strings(out)
	return out
}

func distinctLetters(raw string) []string {
	answer, _ := Normalize(raw)
	seen := make(map[rune]bool, len(answer))
	var letters []string
	for _, r := range answer {
		if !seen[r] {
			seen[r] = true
			letters = append(letters, string(r))
		}
	}
	sort.Strings(letters)
	return letters
}
