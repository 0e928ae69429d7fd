package models

import "time"

type GroupStatus string

const (
	GroupStatusPending   GroupStatus = "pending"
	GroupStatusActive    GroupStatus = "active"
	GroupStatusCompleted GroupStatus = "completed"
)

// Group — пул внутри этапа. Создаётся и удаляется только StageService,
// отдельного жизненного цикла у пула нет.
type Group struct {
	ID        int         `json:"id" db:"id"`
	StageID   int         `json:"stage_id" db:"stage_id"`
	Name      string      `json:"name" db:"name"`
	Order     int         `json:"order" db:"sort_order"`
	Status    GroupStatus `json:"status" db:"status"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}
