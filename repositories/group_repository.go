package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/openbracket/openbracket/models"
)

var ErrGroupNotFound = errors.New("group not found")

type GroupRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, groups []*models.Group) error
	ListByStage(ctx context.Context, exec SQLExecutor, stageID int) ([]models.Group, error)
	DeleteByStage(ctx context.Context, exec SQLExecutor, stageID int) error
	// DeleteByStageFromOrder удаляет пулы с sort_order >= minOrder,
	// то есть усечение идёт с конца.
	DeleteByStageFromOrder(ctx context.Context, exec SQLExecutor, stageID, minOrder int) error
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGroupRepository) CreateBatch(ctx context.Context, exec SQLExecutor, groups []*models.Group) error {
	if len(groups) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(groups))
	valueArgs := make([]interface{}, 0, len(groups)*4)
	for i, group := range groups {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d)", i*4+1, i*4+2, i*4+3, i*4+4))
		valueArgs = append(valueArgs, group.StageID, group.Name, group.Order, group.Status)
	}

	query := fmt.Sprintf(`
		INSERT INTO groups (stage_id, name, sort_order, status)
		VALUES %s
		RETURNING id, created_at`, strings.Join(valueStrings, ", "))

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, valueArgs...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for i := 0; rows.Next(); i++ {
		if scanErr := rows.Scan(&groups[i].ID, &groups[i].CreatedAt); scanErr != nil {
			return scanErr
		}
	}
	return rows.Err()
}

func (r *postgresGroupRepository) ListByStage(ctx context.Context, exec SQLExecutor, stageID int) ([]models.Group, error) {
	query := `
		SELECT id, stage_id, name, sort_order, status, created_at
		FROM groups
		WHERE stage_id = $1
		ORDER BY sort_order ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, stageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]models.Group, 0)
	for rows.Next() {
		var group models.Group
		if scanErr := rows.Scan(
			&group.ID,
			&group.StageID,
			&group.Name,
			&group.Order,
			&group.Status,
			&group.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		groups = append(groups, group)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *postgresGroupRepository) DeleteByStage(ctx context.Context, exec SQLExecutor, stageID int) error {
	_, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM groups WHERE stage_id = $1`, stageID)
	return err
}

func (r *postgresGroupRepository) DeleteByStageFromOrder(ctx context.Context, exec SQLExecutor, stageID, minOrder int) error {
	_, err := r.getExecutor(exec).ExecContext(ctx,
		`DELETE FROM groups WHERE stage_id = $1 AND sort_order >= $2`, stageID, minOrder)
	return err
}
