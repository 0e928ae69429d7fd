package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openbracket/openbracket/models"
)

var ErrStageNotFound = errors.New("stage not found")

// stageLockClass — пространство ключей pg_advisory_xact_lock для
// сериализации стадийных операций по событию.
const stageLockClass = 7311

type StageRepository interface {
	Create(ctx context.Context, exec SQLExecutor, stage *models.Stage) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Stage, error)
	GetByEventAndOrder(ctx context.Context, exec SQLExecutor, eventID, order int) (*models.Stage, error)
	ListByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]models.Stage, error)
	CountByEvent(ctx context.Context, exec SQLExecutor, eventID int) (int, error)
	UpdateOrder(ctx context.Context, exec SQLExecutor, id, order int) error
	UpdateSettings(ctx context.Context, exec SQLExecutor, id int, settings models.StageSettings) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	// LockEvent берёт транзакционный advisory lock события и тем самым
	// сериализует конкурентное создание/удаление этапов: порядковый номер
	// читается как count существующих строк и без блокировки гоняется.
	LockEvent(ctx context.Context, exec SQLExecutor, eventID int) error
}

type postgresStageRepository struct {
	db *sql.DB
}

func NewPostgresStageRepository(db *sql.DB) StageRepository {
	return &postgresStageRepository{db: db}
}

func (r *postgresStageRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const stageColumns = `id, event_id, name, format, sort_order, settings, created_at`

func (r *postgresStageRepository) Create(ctx context.Context, exec SQLExecutor, stage *models.Stage) error {
	settingsJSON, err := json.Marshal(stage.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal stage settings: %w", err)
	}

	query := `
		INSERT INTO stages (event_id, name, format, sort_order, settings)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	return r.getExecutor(exec).QueryRowContext(ctx, query,
		stage.EventID,
		stage.Name,
		stage.Format,
		stage.Order,
		settingsJSON,
	).Scan(&stage.ID, &stage.CreatedAt)
}

func (r *postgresStageRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages WHERE id = $1`
	return scanStage(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresStageRepository) GetByEventAndOrder(ctx context.Context, exec SQLExecutor, eventID, order int) (*models.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages WHERE event_id = $1 AND sort_order = $2`
	return scanStage(r.getExecutor(exec).QueryRowContext(ctx, query, eventID, order))
}

func (r *postgresStageRepository) ListByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]models.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages WHERE event_id = $1 ORDER BY sort_order ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stages := make([]models.Stage, 0)
	for rows.Next() {
		var stage models.Stage
		var settingsJSON []byte
		if scanErr := rows.Scan(
			&stage.ID,
			&stage.EventID,
			&stage.Name,
			&stage.Format,
			&stage.Order,
			&settingsJSON,
			&stage.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		if err := json.Unmarshal(settingsJSON, &stage.Settings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal settings for stage %d: %w", stage.ID, err)
		}
		stages = append(stages, stage)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return stages, nil
}

func (r *postgresStageRepository) CountByEvent(ctx context.Context, exec SQLExecutor, eventID int) (int, error) {
	var count int
	err := r.getExecutor(exec).QueryRowContext(ctx, `SELECT COUNT(*) FROM stages WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresStageRepository) UpdateOrder(ctx context.Context, exec SQLExecutor, id, order int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `UPDATE stages SET sort_order = $1 WHERE id = $2`, order, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStageNotFound)
}

func (r *postgresStageRepository) UpdateSettings(ctx context.Context, exec SQLExecutor, id int, settings models.StageSettings) error {
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal stage settings: %w", err)
	}
	result, err := r.getExecutor(exec).ExecContext(ctx, `UPDATE stages SET settings = $1 WHERE id = $2`, settingsJSON, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStageNotFound)
}

func (r *postgresStageRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM stages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStageNotFound)
}

func (r *postgresStageRepository) LockEvent(ctx context.Context, exec SQLExecutor, eventID int) error {
	_, err := r.getExecutor(exec).ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, stageLockClass, eventID)
	return err
}

func scanStage(row *sql.Row) (*models.Stage, error) {
	stage := &models.Stage{}
	var settingsJSON []byte
	err := row.Scan(
		&stage.ID,
		&stage.EventID,
		&stage.Name,
		&stage.Format,
		&stage.Order,
		&settingsJSON,
		&stage.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(settingsJSON, &stage.Settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings for stage %d: %w", stage.ID, err)
	}
	return stage, nil
}
