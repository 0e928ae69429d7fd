package models

import "time"

// Event — одно соревнование внутри турнира (игра + даты + лимит участников).
// Метаданные игры приходят от клиента как есть, внешний каталог игр не
// опрашивается.
type Event struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description,omitempty" db:"description"`
	GameName     string    `json:"game_name" db:"game_name"`
	Platforms    []string  `json:"platforms" db:"platforms"`
	EntrantCap   int       `json:"entrant_cap" db:"entrant_cap"`
	StartDate    time.Time `json:"start_date" db:"start_date"`
	EndDate      time.Time `json:"end_date" db:"end_date"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	CoverKey     *string   `json:"-" db:"cover_key"`
	CoverURL     *string   `json:"cover_url,omitempty" db:"-"`
}
