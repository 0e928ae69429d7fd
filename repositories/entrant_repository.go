package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/openbracket/openbracket/models"
)

var ErrEntrantNotFound = errors.New("entrant not found")

type EntrantRepository interface {
	Create(ctx context.Context, entrant *models.Entrant) error
	CountByEvent(ctx context.Context, eventID int) (int, error)
	// ListByEvent возвращает участников с отображаемыми полями пользователя,
	// посеянные первыми (seed_hint ASC), непосеянные — в конце в порядке
	// регистрации.
	ListByEvent(ctx context.Context, eventID int) ([]models.Entrant, error)
	UpdateSeedHint(ctx context.Context, exec SQLExecutor, id int, seedHint *int) error
	ClearSeedingByEvent(ctx context.Context, eventID int) error
	Delete(ctx context.Context, id int) error
}

type postgresEntrantRepository struct {
	db *sql.DB
}

func NewPostgresEntrantRepository(db *sql.DB) EntrantRepository {
	return &postgresEntrantRepository{db: db}
}

func (r *postgresEntrantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresEntrantRepository) Create(ctx context.Context, entrant *models.Entrant) error {
	query := `
		INSERT INTO entrants (event_id, user_id, gamertag, seed_hint)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		entrant.EventID,
		entrant.UserID,
		entrant.Gamertag,
		entrant.SeedHint,
	).Scan(&entrant.ID, &entrant.CreatedAt)
}

func (r *postgresEntrantRepository) CountByEvent(ctx context.Context, eventID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entrants WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresEntrantRepository) ListByEvent(ctx context.Context, eventID int) ([]models.Entrant, error) {
	query := `
		SELECT e.id, e.event_id, e.user_id, e.gamertag, e.seed_hint, e.created_at,
		       u.full_name, u.image_url
		FROM entrants e
		JOIN users u ON u.id = e.user_id
		WHERE e.event_id = $1
		ORDER BY e.seed_hint ASC NULLS LAST, e.id ASC`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entrants := make([]models.Entrant, 0)
	for rows.Next() {
		var entrant models.Entrant
		var user models.EntrantUser
		if scanErr := rows.Scan(
			&entrant.ID,
			&entrant.EventID,
			&entrant.UserID,
			&entrant.Gamertag,
			&entrant.SeedHint,
			&entrant.CreatedAt,
			&user.FullName,
			&user.ImageURL,
		); scanErr != nil {
			return nil, scanErr
		}
		entrant.User = &user
		entrants = append(entrants, entrant)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entrants, nil
}

func (r *postgresEntrantRepository) UpdateSeedHint(ctx context.Context, exec SQLExecutor, id int, seedHint *int) error {
	query := `UPDATE entrants SET seed_hint = $1 WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, seedHint, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEntrantNotFound)
}

func (r *postgresEntrantRepository) ClearSeedingByEvent(ctx context.Context, eventID int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE entrants SET seed_hint = NULL WHERE event_id = $1`, eventID)
	return err
}

func (r *postgresEntrantRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM entrants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEntrantNotFound)
}
