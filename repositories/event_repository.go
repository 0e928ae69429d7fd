package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/openbracket/openbracket/models"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateCoverKey(ctx context.Context, id int, coverKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `id, tournament_id, name, description, game_name, platforms, entrant_cap, start_date, end_date, cover_key, created_at`

func (r *postgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (tournament_id, name, description, game_name, platforms, entrant_cap, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		event.TournamentID,
		event.Name,
		event.Description,
		event.GameName,
		pq.Array(event.Platforms),
		event.EntrantCap,
		event.StartDate,
		event.EndDate,
	).Scan(&event.ID, &event.CreatedAt)
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	event := &models.Event{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.TournamentID,
		&event.Name,
		&event.Description,
		&event.GameName,
		pq.Array(&event.Platforms),
		&event.EntrantCap,
		&event.StartDate,
		&event.EndDate,
		&event.CoverKey,
		&event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *postgresEventRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE tournament_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var event models.Event
		if scanErr := rows.Scan(
			&event.ID,
			&event.TournamentID,
			&event.Name,
			&event.Description,
			&event.GameName,
			pq.Array(&event.Platforms),
			&event.EntrantCap,
			&event.StartDate,
			&event.EndDate,
			&event.CoverKey,
			&event.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *postgresEventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET name = $1, description = $2, game_name = $3, platforms = $4, entrant_cap = $5, start_date = $6, end_date = $7
		WHERE id = $8`
	result, err := r.db.ExecContext(ctx, query,
		event.Name,
		event.Description,
		event.GameName,
		pq.Array(event.Platforms),
		event.EntrantCap,
		event.StartDate,
		event.EndDate,
		event.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) UpdateCoverKey(ctx context.Context, id int, coverKey *string) error {
	query := `UPDATE events SET cover_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, coverKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEventNotFound)
}
