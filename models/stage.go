package models

import "time"

// StageFormat соответствует значениям формы создания этапа.
type StageFormat string

const (
	StageFormatSingleElimination StageFormat = "single-elimination"
	StageFormatDoubleElimination StageFormat = "double-elimination"
	StageFormatRoundRobin        StageFormat = "round-robin"
)

func (f StageFormat) Valid() bool {
	switch f {
	case StageFormatSingleElimination, StageFormatDoubleElimination, StageFormatRoundRobin:
		return true
	}
	return false
}

// StageSettings хранится в JSONB колонке settings.
type StageSettings struct {
	PoolCount int `json:"pool_count"`
}

// Stage — один этап события. Order нумеруется с нуля и остаётся сплошным
// (0..N-1) для всех этапов события; за это отвечает StageService.
type Stage struct {
	ID        int           `json:"id" db:"id"`
	EventID   int           `json:"event_id" db:"event_id"`
	Name      string        `json:"name" db:"name"`
	Format    StageFormat   `json:"format" db:"format"`
	Order     int           `json:"order" db:"sort_order"`
	Settings  StageSettings `json:"settings" db:"settings"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}
