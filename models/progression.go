package models

import "time"

// ProgressionSeeding описывает, как квалифицировавшиеся участники
// пересеиваются в следующий этап.
type ProgressionSeeding string

const (
	ProgressionSeedingSequential ProgressionSeeding = "sequential"
	ProgressionSeedingCross      ProgressionSeeding = "cross"
)

func (s ProgressionSeeding) Valid() bool {
	return s == ProgressionSeedingSequential || s == ProgressionSeedingCross
}

// ProgressionRules хранится в JSONB колонке rules.
type ProgressionRules struct {
	QualifiersPerGroup int                `json:"qualifiers_per_group"`
	Seeding            ProgressionSeeding `json:"seeding"`
}

// Progression — направленное ребро между двумя этапами одного события.
// Этапы на него не ссылаются; при удалении этапа StageService сам чистит
// или пересшивает затронутые рёбра.
type Progression struct {
	ID          int              `json:"id" db:"id"`
	EventID     int              `json:"event_id" db:"event_id"`
	FromStageID int              `json:"from_stage_id" db:"from_stage_id"`
	ToStageID   int              `json:"to_stage_id" db:"to_stage_id"`
	Rules       ProgressionRules `json:"rules" db:"rules"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}
