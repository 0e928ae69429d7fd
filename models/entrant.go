package models

import "time"

// EntrantUser — минимальные отображаемые поля пользователя, подтягиваются
// джойном в списках участников.
type EntrantUser struct {
	FullName string  `json:"full_name"`
	ImageURL *string `json:"image_url,omitempty"`
}

// Entrant — зарегистрированный участник события. SeedHint задаёт порядок
// посева (меньше — лучше), NULL означает «не посеян».
type Entrant struct {
	ID        int       `json:"id" db:"id"`
	EventID   int       `json:"event_id" db:"event_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Gamertag  string    `json:"gamertag" db:"gamertag"`
	SeedHint  *int      `json:"seed_hint,omitempty" db:"seed_hint"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	User *EntrantUser `json:"user,omitempty" db:"-"`
}
