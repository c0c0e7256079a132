package domain

import "time"

// DayLayout - формат даты ежедневной фразы (UTC)
const DayLayout = "2006-01-02"

type DailyAttempt struct {
	Username  string    `db:"username" json:"username"`
	Day       time.Time `db:"day" json:"day"`
	Outcome   string    `db:"outcome" json:"outcome"`
	SessionID string    `db:"session_id" json:"sessionId"`
}

type Streak struct {
	Username   string     `db:"username" json:"username"`
	Current    int        `db:"current" json:"current"`
	Longest    int        `db:"longest" json:"longest"`
	LastPlayed *time.Time `db:"last_played" json:"last_played,omitempty"`
}

// DailyStatus - ответ /api/daily/status
type DailyStatus struct {
	Day         string `json:"day"`
	PlayedToday bool   `json:"playedToday"`
	Current     int    `json:"current"`
	Longest     int    `json:"longest"`
}

// Today возвращает полночь UTC для t
func Today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextStreak считает серию после победы в ежедневной фразе
func NextStreak(s Streak, playedYesterday bool) Streak {
	if playedYesterday {
		s.Current++
	} else {
		s.Current = 1
	}
	if s.Current > s.Longest {
		s.Longest = s.Current
	}
	return s
}
