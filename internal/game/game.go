package game

import "fmt"

type ModeName string

const (
	ModeEndless  ModeName = "endless"
	ModeDaily    ModeName = "daily"
	ModeCategory ModeName = "category"
)

// ModeNames - все режимы в порядке показа
func ModeNames() []ModeName {
	return []ModeName{ModeEndless, ModeDaily, ModeCategory}
}

func (m ModeName) Valid() bool {
	for _, n := range ModeNames() {
		if m == n {
			return true
		}
	}
	return false
}

// ParseMode разбирает имя режима; пустая строка - endless
func ParseMode(s string) (ModeName, error) {
	if s == "" {
		return ModeEndless, nil
	}
	m := ModeName(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode %q", s)
	}
	return m, nil
}

// Rules возвращает правила режима по умолчанию
func Rules(name ModeName) (Mode, bool) {
	switch name {
	case ModeEndless:
		return Endless(), true
	case ModeDaily:
		return Daily(), true
	case ModeCategory:
		return Category(), true
	}
	return Mode{}, false
}
