package models

import "time"

type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusActive    MatchStatus = "active"
	MatchStatusCompleted MatchStatus = "completed"
)

// Match существует в модели данных, но продвижением победителей ядро не
// занимается: записи только читаются.
type Match struct {
	ID         int         `json:"id" db:"id"`
	GroupID    int         `json:"group_id" db:"group_id"`
	Round      int         `json:"round" db:"round"`
	Slot       int         `json:"slot" db:"slot"`
	Entrant1ID *int        `json:"entrant1_id,omitempty" db:"entrant1_id"`
	Entrant2ID *int        `json:"entrant2_id,omitempty" db:"entrant2_id"`
	WinnerID   *int        `json:"winner_id,omitempty" db:"winner_id"`
	Status     MatchStatus `json:"status" db:"status"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}
