package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/openbracket/openbracket/models"
)

var ErrMatchNotFound = errors.New("match not found")

// Матчи только читаются: продвижение победителей между матчами и этапами
// ядром не реализовано.
type MatchRepository interface {
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByGroup(ctx context.Context, groupID int) ([]models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, group_id, round, slot, entrant1_id, entrant2_id, winner_id, status, created_at`

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID,
		&match.GroupID,
		&match.Round,
		&match.Slot,
		&match.Entrant1ID,
		&match.Entrant2ID,
		&match.WinnerID,
		&match.Status,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByGroup(ctx context.Context, groupID int) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE group_id = $1 ORDER BY round ASC, slot ASC`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := rows.Scan(
			&match.ID,
			&match.GroupID,
			&match.Round,
			&match.Slot,
			&match.Entrant1ID,
			&match.Entrant2ID,
			&match.WinnerID,
			&match.Status,
			&match.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}
