package game

import (
	"math/rand"
	"testing"
	"unicode"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		answer    string
		positions []int
	}{
		{"simple", "cat", "cat", []int{0, 1, 2}},
		{"words and punctuation", "Hi, Bo!", "hibo", []int{0, 1, 4, 5}},
		{"digits dropped", "R2 D2", "rd", []int{0, 3}},
		{"no letters", "123 !?", "", []int{}},
		{"empty", "", "", []int{}},
		{"non ascii", "Ää b", "ääb", []int{0, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, positions := Normalize(tt.raw)
			if answer.String() != tt.answer {
				t.Fatalf("answer = %q, want %q", answer.String(), tt.answer)
			}
			if len(positions) != len(tt.positions) {
				t.Fatalf("positions = %v, want %v", positions, tt.positions)
			}
			for i := range positions {
				if positions[i] != tt.positions[i] {
					t.Fatalf("positions = %v, want %v", positions, tt.positions)
				}
			}
		})
	}
}

func TestNormalizeMatchesLettersInOrder(t *testing.T) {
	raw := "The quick, brown fox - jumps over 2 lazy dogs."
	answer, positions := Normalize(raw)
	runes := []rune(raw)

	letters := 0
	for _, r := range runes {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if len(answer) != letters {
		t.Fatalf("len(answer) = %d, want %d", len(answer), letters)
	}
	for i, pos := range positions {
		if unicode.ToLower(runes[pos]) != answer[i] {
			t.Fatalf("answer[%d] = %q, raw[%d] = %q", i, answer[i], pos, runes[pos])
		}
	}
}

func TestMask(t *testing.T) {
	if got := Mask("Hi, Bo!"); got != "__, __!" {
		t.Fatalf("Mask = %q", got)
	}
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		raw    string
		letter rune
		ok     bool
	}{
		{"", 0, true},
		{"a", 'a', true},
		{"Q", 'q', true},
		{"1", 0, false},
		{"ab", 0, false},
		{" ", 0, false},
		{"!", 0, false},
	}
	for _, tt := range tests {
		letter, ok := parseInput(tt.raw)
		if letter != tt.letter || ok != tt.ok {
			t.Errorf("parseInput(%q) = %q, %v; want %q, %v", tt.raw, letter, ok, tt.letter, tt.ok)
		}
	}
}

func TestLetterMaps(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := NewLetterMap(rng)
	if len(m) != 26 {
		t.Fatalf("len = %d", len(m))
	}
	seen := map[int]bool{}
	for _, n := range m {
		if n < 1 || n > 26 || seen[n] {
			t.Fatalf("bad number %d in %v", n, m)
		}
		seen[n] = true
	}

	seq := SequentialLetterMap("Be a bee")
	if seq["a"] != 1 || seq["b"] != 2 || seq["e"] != 3 || len(seq) != 3 {
		t.Fatalf("sequential = %v", seq)
	}
}

func TestPickRevealed(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	got := PickRevealed(rng, "banana", 5)
	if len(got) != 3 {
		t.Fatalf("got %v, want all 3 distinct letters", got)
	}
	got = PickRevealed(rng, "hello world", 2)
	if len(got) != 2 || got[0] == got[1] {
		t.Fatalf("got %v", got)
	}
}
