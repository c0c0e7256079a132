package game

import "time"

// Report - итог забега для отправки наружу
type Report struct {
	Score       int       `json:"score"`
	SessionID   string    `json:"sessionId"`
	CompletedAt time.Time `json:"timestamp"`
}

type reportState int

const (
	reportNone reportState = iota
	reportInFlight
	reportDelivered
	reportFailed
)

// Ledger ведет счет забега и каденцию бонусных жизней.
// Не потокобезопасен: владелец держит его под своим замком.
type Ledger struct {
	sessionID   string
	bonusEvery  int
	score       int
	completions int
	report      Report
	state       reportState
}

func NewLedger(sessionID string, bonusEvery int) *Ledger {
	return &Ledger{sessionID: sessionID, bonusEvery: bonusEvery}
}

// Complete засчитывает разгаданную фразу.
// true - это каждая bonusEvery-я фраза с начала забега.
func (l *Ledger) Complete() bool {
	l.score++
	l.completions++
	return l.bonusEvery > 0 && l.completions%l.bonusEvery == 0
}

func (l *Ledger) Score() int       { return l.score }
func (l *Ledger) Completions() int { return l.completions }
func (l *Ledger) SessionID() string { return l.sessionID }

// Reset начинает новый забег с новым sessionID
func (l *Ledger) Reset(sessionID string) {
	*l = Ledger{sessionID: sessionID, bonusEvery: l.bonusEvery}
}

// Finalize собирает отчет. Отдает его только один раз за забег.
func (l *Ledger) Finalize(now time.Time) (Report, bool) {
	if l.state != reportNone {
		return Report{}, false
	}
	l.report = Report{Score: l.score, SessionID: l.sessionID, CompletedAt: now.UTC()}
	l.state = reportInFlight
	return l.report, true
}

// MarkDelivered фиксирует результат отправки
func (l *Ledger) MarkDelivered(ok bool) {
	if l.state != reportInFlight {
		return
	}
	if ok {
		l.state = reportDelivered
	} else {
		l.state = reportFailed
	}
}

// Retry снова отдает отчет, но только после неудачной отправки
func (l *Ledger) Retry() (Report, bool) {
	if l.state != reportFailed {
		return Report{}, false
	}
	l.state = reportInFlight
	return l.report, true
}

// Pending - отчет не доставлен и его можно отправить повторно
func (l *Ledger) Pending() bool {
	return l.state == reportFailed
}

func (l *Ledger) Delivered() bool {
	return l.state == reportDelivered
}
