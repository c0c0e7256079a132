package game

// EventKind - тип сигнала движка для внешнего потребителя (UI, websocket)
type EventKind string

const (
	EventPhraseStarted   EventKind = "phrase_started"
	EventFocusAdvance    EventKind = "focus_advance"
	EventWrongGuess      EventKind = "wrong_guess"
	EventCellReverted    EventKind = "cell_reverted"
	EventPhraseCompleted EventKind = "phrase_completed"
	EventPhraseFailed    EventKind = "phrase_failed"
	EventBonusLife       EventKind = "bonus_life"
	EventRunCompleted    EventKind = "run_completed"
	EventRunFailed       EventKind = "run_failed"
	EventRunReset        EventKind = "run_reset"
	EventNoPhrase        EventKind = "no_phrase_available"
	EventReportResult    EventKind = "report_result"
)

type Event struct {
	Kind    EventKind `json:"type"`
	Payload any       `json:"data,omitempty"`
}

type FocusPayload struct {
	Index int `json:"index"`
}

type GuessPayload struct {
	Index  int    `json:"index"`
	Letter string `json:"letter"`
	Lives  int    `json:"lives"`
}

type CellPayload struct {
	Index int `json:"index"`
}

type PhrasePayload struct {
	Score int `json:"score"`
	Lives int `json:"lives"`
}

type StartedPayload struct {
	Category string `json:"category"`
	Cells    int    `json:"cells"`
	Lives    int    `json:"lives"`
	Score    int    `json:"score"`
}

type RunPayload struct {
	Mode      ModeName `json:"mode"`
	Score     int      `json:"score"`
	SessionID string   `json:"sessionId"`
	Category  string   `json:"category,omitempty"`
	Message   string   `json:"message,omitempty"`
}

type NoPhrasePayload struct {
	Reason string `json:"reason"`
}

type ReportPayload struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Kinds возвращает типы событий по порядку, удобно в тестах и логах
func Kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}
