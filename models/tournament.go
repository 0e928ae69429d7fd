package models

import "time"

// Tournament представляет турнир организатора. Slug уникален и используется
// в публичных URL.
type Tournament struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description *string   `json:"description,omitempty" db:"description"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	EndDate     time.Time `json:"end_date" db:"end_date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	BannerKey   *string   `json:"-" db:"banner_key"`
	BannerURL   *string   `json:"banner_url,omitempty" db:"-"`
}
