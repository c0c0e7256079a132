package domain

import "time"

// Player - игрок из JWT; пустой Username - анонимная игра
type Player struct {
	Username string `json:"username"`
}

func (p Player) Anonymous() bool { return p.Username == "" }

// Score - итог бесконечного забега
type Score struct {
	ID          int64     `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	Score       int       `db:"score" json:"score"`
	SessionID   string    `db:"session_id" json:"sessionId"`
	CompletedAt time.Time `db:"completed_at" json:"timestamp"`
}

// CategoryStamp - отметка о пройденной категории
type CategoryStamp struct {
	Username    string    `db:"username" json:"username"`
	Category    string    `db:"category" json:"category"`
	CompletedAt time.Time `db:"completed_at" json:"completed_at"`
}
