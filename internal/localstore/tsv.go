package localstore

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row - строка TSV: sentence<TAB>category<TAB>hint, последние две колонки необязательны
type Row struct {
	Sentence string
	Category string
	Hint     string
}

// ParseTSV читает фразы; пустые строки и строки с '#' пропускаются
func ParseTSV(r io.Reader) ([]Row, error) {
	var rows []Row
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(strings.TrimSpace(text), "#") {
			continue
		}
		parts := strings.SplitN(text, "\t", 3)
		row := Row{Sentence: strings.Join(strings.Fields(parts[0]), " ")}
		if row.Sentence == "" {
			return nil, fmt.Errorf("line %d: empty sentence", line)
		}
		if len(parts) > 1 {
			row.Category = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			row.Hint = strings.TrimSpace(parts[2])
		}
		rows = append(rows, row)
	}
	return rows, sc.Err()
}

func LoadTSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTSV(f)
}
