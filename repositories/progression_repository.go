package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openbracket/openbracket/models"
)

var ErrProgressionNotFound = errors.New("progression not found")

type ProgressionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, progression *models.Progression) error
	GetByID(ctx context.Context, id int) (*models.Progression, error)
	ListByEvent(ctx context.Context, eventID int) ([]models.Progression, error)
	ListByFromStage(ctx context.Context, exec SQLExecutor, stageID int) ([]models.Progression, error)
	ListByToStage(ctx context.Context, exec SQLExecutor, stageID int) ([]models.Progression, error)
	UpdateRules(ctx context.Context, id int, rules models.ProgressionRules) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresProgressionRepository struct {
	db *sql.DB
}

func NewPostgresProgressionRepository(db *sql.DB) ProgressionRepository {
	return &postgresProgressionRepository{db: db}
}

func (r *postgresProgressionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const progressionColumns = `id, event_id, from_stage_id, to_stage_id, rules, created_at`

func (r *postgresProgressionRepository) Create(ctx context.Context, exec SQLExecutor, progression *models.Progression) error {
	rulesJSON, err := json.Marshal(progression.Rules)
	if err != nil {
		return fmt.Errorf("failed to marshal progression rules: %w", err)
	}

	query := `
		INSERT INTO progressions (event_id, from_stage_id, to_stage_id, rules)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.getExecutor(exec).QueryRowContext(ctx, query,
		progression.EventID,
		progression.FromStageID,
		progression.ToStageID,
		rulesJSON,
	).Scan(&progression.ID, &progression.CreatedAt)
}

func (r *postgresProgressionRepository) GetByID(ctx context.Context, id int) (*models.Progression, error) {
	query := `SELECT ` + progressionColumns + ` FROM progressions WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	progression := &models.Progression{}
	var rulesJSON []byte
	err := row.Scan(
		&progression.ID,
		&progression.EventID,
		&progression.FromStageID,
		&progression.ToStageID,
		&rulesJSON,
		&progression.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProgressionNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(rulesJSON, &progression.Rules); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rules for progression %d: %w", progression.ID, err)
	}
	return progression, nil
}

func (r *postgresProgressionRepository) ListByEvent(ctx context.Context, eventID int) ([]models.Progression, error) {
	query := `SELECT ` + progressionColumns + ` FROM progressions WHERE event_id = $1`
	return r.list(ctx, r.db, query, eventID)
}

func (r *postgresProgressionRepository) ListByFromStage(ctx context.Context, exec SQLExecutor, stageID int) ([]models.Progression, error) {
	query := `SELECT ` + progressionColumns + ` FROM progressions WHERE from_stage_id = $1`
	return r.list(ctx, r.getExecutor(exec), query, stageID)
}

func (r *postgresProgressionRepository) ListByToStage(ctx context.Context, exec SQLExecutor, stageID int) ([]models.Progression, error) {
	query := `SELECT ` + progressionColumns + ` FROM progressions WHERE to_stage_id = $1`
	return r.list(ctx, r.getExecutor(exec), query, stageID)
}

func (r *postgresProgressionRepository) list(ctx context.Context, exec SQLExecutor, query string, arg interface{}) ([]models.Progression, error) {
	rows, err := exec.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	progressions := make([]models.Progression, 0)
	for rows.Next() {
		var progression models.Progression
		var rulesJSON []byte
		if scanErr := rows.Scan(
			&progression.ID,
			&progression.EventID,
			&progression.FromStageID,
			&progression.ToStageID,
			&rulesJSON,
			&progression.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		if err := json.Unmarshal(rulesJSON, &progression.Rules); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rules for progression %d: %w", progression.ID, err)
		}
		progressions = append(progressions, progression)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return progressions, nil
}

func (r *postgresProgressionRepository) UpdateRules(ctx context.Context, id int, rules models.ProgressionRules) error {
	rulesJSON, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("failed to marshal progression rules: %w", err)
	}
	result, err := r.db.ExecContext(ctx, `UPDATE progressions SET rules = $1 WHERE id = $2`, rulesJSON, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProgressionNotFound)
}

func (r *postgresProgressionRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM progressions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProgressionNotFound)
}
