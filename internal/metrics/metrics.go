package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"crackthecode/internal/game"
)

var (
	PhrasesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crackthecode_phrases_completed_total",
		Help: "Phrases solved, by mode.",
	}, []string{"mode"})

	PhrasesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crackthecode_phrases_failed_total",
		Help: "Phrases lost on the last life, by mode.",
	}, []string{"mode"})

	WrongGuesses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crackthecode_wrong_guesses_total",
		Help: "Wrong letters submitted, by mode.",
	}, []string{"mode"})

	Reverts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crackthecode_cell_reverts_total",
		Help: "Pending cells cleared by the revert timer, by mode.",
	}, []string{"mode"})

	BonusLives = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crackthecode_bonus_lives_total",
		Help: "Bonus lives awarded, by mode.",
	}, []string{"mode"})

	Runs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crackthecode_runs_total",
		Help: "Finished runs, by mode and outcome.",
	}, []string{"mode", "outcome"})

	Reports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crackthecode_reports_total",
		Help: "Session report deliveries, by result.",
	}, []string{"result"})

	NoPhrase = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crackthecode_no_phrase_total",
		Help: "Runs stalled because no phrase could be fetched.",
	}, []string{"mode"})

	LiveClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "crackthecode_live_play_clients",
		Help: "Connected websocket play clients.",
	})
)

// Observe раскладывает события движка по счетчикам
func Observe(mode game.ModeName, events []game.Event) {
	m := string(mode)
	for _, ev := range events {
		switch ev.Kind {
		case game.EventPhraseCompleted:
			PhrasesCompleted.WithLabelValues(m).Inc()
		case game.EventPhraseFailed:
			PhrasesFailed.WithLabelValues(m).Inc()
		case game.EventWrongGuess:
			WrongGuesses.WithLabelValues(m).Inc()
		case game.EventCellReverted:
			Reverts.WithLabelValues(m).Inc()
		case game.EventBonusLife:
			BonusLives.WithLabelValues(m).Inc()
		case game.EventRunCompleted:
			Runs.WithLabelValues(m, string(game.OutcomeCompleted)).Inc()
		case game.EventRunFailed:
			Runs.WithLabelValues(m, string(game.OutcomeFailed)).Inc()
		case game.EventNoPhrase:
			NoPhrase.WithLabelValues(m).Inc()
		case game.EventReportResult:
			result := "failed"
			if p, ok := ev.Payload.(game.ReportPayload); ok && p.OK {
				result = "ok"
			}
			Reports.WithLabelValues(result).Inc()
		}
	}
}
