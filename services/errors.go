package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed = errors.New("validation failed")
	ErrPasswordTooShort = errors.New("password is too short")

	// Ошибки аутентификации
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Пользователи
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("email address is already in use")

	// Турниры
	ErrTournamentNotFound         = errors.New("tournament not found")
	ErrTournamentNameRequired     = errors.New("tournament name is required")
	ErrTournamentSlugRequired     = errors.New("tournament slug is required")
	ErrTournamentSlugConflict     = errors.New("tournament slug is already in use")
	ErrTournamentInvalidDateRange = errors.New("tournament end date must be after start date")

	// События
	ErrEventNotFound         = errors.New("event not found")
	ErrEventNameRequired     = errors.New("event name is required")
	ErrEventGameRequired     = errors.New("event game is required")
	ErrEventCapTooSmall      = errors.New("event entrant cap must be at least 2")
	ErrEventInvalidDateRange = errors.New("event end date must be after start date")

	// Участники
	ErrEntrantNotFound     = errors.New("entrant not found")
	ErrEntrantCreateFailed = errors.New("failed to add entrant")

	// Этапы
	ErrStageNotFound         = errors.New("stage not found")
	ErrStageNameRequired     = errors.New("stage name is required")
	ErrStageFormatInvalid    = errors.New("invalid stage format")
	ErrStagePoolCountInvalid = errors.New("pool count must be at least 1")

	// Прогрессии
	ErrProgressionNotFound       = errors.New("progression not found")
	ErrProgressionSameStage      = errors.New("progression cannot link a stage to itself")
	ErrProgressionCrossEvent     = errors.New("progression stages must belong to the same event")
	ErrProgressionConflict       = errors.New("stage already linked: progressions form a linear chain")
	ErrProgressionInvalidRules   = errors.New("qualifiers per group must be at least 1")
	ErrProgressionInvalidSeeding = errors.New("invalid progression seeding mode")
)
