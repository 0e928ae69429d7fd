package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/openbracket/openbracket/models"
	"github.com/openbracket/openbracket/pools"
	"github.com/openbracket/openbracket/repositories"
)

type CreateStageInput struct {
	EventID   int                `json:"event_id"`
	Name      string             `json:"name"`
	Format    models.StageFormat `json:"format"`
	PoolCount int                `json:"pool_count"`
}

// PoolView — пул вместе с участниками, рассчитанными змейкой на лету.
type PoolView struct {
	Group    models.Group     `json:"group"`
	Entrants []models.Entrant `json:"entrants"`
}

type StageView struct {
	Stage models.Stage `json:"stage"`
	Pools []PoolView   `json:"pools"`
}

// EventBracketing — всё, что нужно странице сетки события.
type EventBracketing struct {
	Stages       []StageView          `json:"stages"`
	Progressions []models.Progression `json:"progressions"`
}

type StageService interface {
	CreateStage(ctx context.Context, input CreateStageInput) (*models.Stage, error)
	UpdatePoolCount(ctx context.Context, stageID, poolCount int) (*models.Stage, error)
	RemoveStage(ctx context.Context, stageID int) error
	ListByEvent(ctx context.Context, eventID int) ([]models.Stage, error)
	ListGroupsByStage(ctx context.Context, stageID int) ([]models.Group, error)
	EventBracketing(ctx context.Context, eventID int) (*EventBracketing, error)
}

type stageService struct {
	txRunner        repositories.TxRunner
	stageRepo       repositories.StageRepository
	groupRepo       repositories.GroupRepository
	progressionRepo repositories.ProgressionRepository
	entrantRepo     repositories.EntrantRepository
	hub             *pools.Hub
	logger          *slog.Logger
}

func NewStageService(
	txRunner repositories.TxRunner,
	stageRepo repositories.StageRepository,
	groupRepo repositories.GroupRepository,
	progressionRepo repositories.ProgressionRepository,
	entrantRepo repositories.EntrantRepository,
	hub *pools.Hub,
	logger *slog.Logger,
) StageService {
	return &stageService{
		txRunner:        txRunner,
		stageRepo:       stageRepo,
		groupRepo:       groupRepo,
		progressionRepo: progressionRepo,
		entrantRepo:     entrantRepo,
		hub:             hub,
		logger:          logger,
	}
}

// defaultProgressionRules — правила автоматической связки нового этапа с
// предыдущим.
func defaultProgressionRules() models.ProgressionRules {
	return models.ProgressionRules{
		QualifiersPerGroup: 1,
		Seeding:            models.ProgressionSeedingSequential,
	}
}

// CreateStage создаёт этап вместе с пулами и, если этап не первый,
// прогрессией от предыдущего этапа. Всё выполняется в одной транзакции под
// advisory lock события: порядковый номер этапа — это count существующих
// этапов, и без сериализации два конкурентных создания получили бы один и
// тот же номер.
func (s *stageService) CreateStage(ctx context.Context, input CreateStageInput) (*models.Stage, error) {
	if input.Name == "" {
		return nil, ErrStageNameRequired
	}
	if !input.Format.Valid() {
		return nil, ErrStageFormatInvalid
	}
	if input.PoolCount == 0 {
		input.PoolCount = 1
	}
	if input.PoolCount < 1 {
		return nil, ErrStagePoolCountInvalid
	}

	stage := &models.Stage{
		EventID:  input.EventID,
		Name:     input.Name,
		Format:   input.Format,
		Settings: models.StageSettings{PoolCount: input.PoolCount},
	}

	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.stageRepo.LockEvent(ctx, exec, input.EventID); err != nil {
			return fmt.Errorf("failed to lock event %d: %w", input.EventID, err)
		}

		count, err := s.stageRepo.CountByEvent(ctx, exec, input.EventID)
		if err != nil {
			return fmt.Errorf("failed to count stages for event %d: %w", input.EventID, err)
		}
		stage.Order = count

		if err := s.stageRepo.Create(ctx, exec, stage); err != nil {
			return fmt.Errorf("failed to insert stage: %w", err)
		}

		groups := make([]*models.Group, 0, input.PoolCount)
		for i := 0; i < input.PoolCount; i++ {
			groups = append(groups, &models.Group{
				StageID: stage.ID,
				Name:    fmt.Sprintf("Pool %d", i+1),
				Order:   i,
				Status:  models.GroupStatusPending,
			})
		}
		if err := s.groupRepo.CreateBatch(ctx, exec, groups); err != nil {
			return fmt.Errorf("failed to insert groups: %w", err)
		}

		// Не первый этап — автоматом связываем с предыдущим.
		if stage.Order > 0 {
			previous, err := s.stageRepo.GetByEventAndOrder(ctx, exec, input.EventID, stage.Order-1)
			if err != nil {
				if errors.Is(err, repositories.ErrStageNotFound) {
					return nil
				}
				return fmt.Errorf("failed to load previous stage: %w", err)
			}
			progression := &models.Progression{
				EventID:     input.EventID,
				FromStageID: previous.ID,
				ToStageID:   stage.ID,
				Rules:       defaultProgressionRules(),
			}
			if err := s.progressionRepo.Create(ctx, exec, progression); err != nil {
				return fmt.Errorf("failed to link stage to previous: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcastStages(input.EventID)
	return stage, nil
}

// UpdatePoolCount приводит набор пулов этапа к newCount: рост добавляет
// пулы в конец, усечение удаляет пулы с наибольшим порядком. Участники при
// усечении не переносятся: состав пулов нигде не хранится и пересчитывается
// змейкой по полному списку участников.
func (s *stageService) UpdatePoolCount(ctx context.Context, stageID, poolCount int) (*models.Stage, error) {
	if poolCount < 1 {
		return nil, ErrStagePoolCountInvalid
	}

	var stage *models.Stage
	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		stage, err = s.stageRepo.GetByID(ctx, exec, stageID)
		if err != nil {
			if errors.Is(err, repositories.ErrStageNotFound) {
				return ErrStageNotFound
			}
			return err
		}

		groups, err := s.groupRepo.ListByStage(ctx, exec, stageID)
		if err != nil {
			return fmt.Errorf("failed to list groups for stage %d: %w", stageID, err)
		}
		currentCount := len(groups)

		switch {
		case poolCount > currentCount:
			added := make([]*models.Group, 0, poolCount-currentCount)
			for order := currentCount; order < poolCount; order++ {
				added = append(added, &models.Group{
					StageID: stageID,
					Name:    fmt.Sprintf("Pool %d", order+1),
					Order:   order,
					Status:  models.GroupStatusPending,
				})
			}
			if err := s.groupRepo.CreateBatch(ctx, exec, added); err != nil {
				return fmt.Errorf("failed to append groups: %w", err)
			}
		case poolCount < currentCount:
			if err := s.groupRepo.DeleteByStageFromOrder(ctx, exec, stageID, poolCount); err != nil {
				return fmt.Errorf("failed to truncate groups: %w", err)
			}
			s.logger.InfoContext(ctx, "stage pools truncated",
				slog.Int("stage_id", stageID),
				slog.Int("from", currentCount),
				slog.Int("to", poolCount))
		}

		// Настройки патчатся и при совпадении числа пулов.
		stage.Settings.PoolCount = poolCount
		return s.stageRepo.UpdateSettings(ctx, exec, stageID, stage.Settings)
	})
	if err != nil {
		return nil, err
	}

	s.broadcastStages(stage.EventID)
	return stage, nil
}

// RemoveStage удаляет этап вместе с пулами, чистит прогрессии и, если этап
// был средним звеном цепочки, сшивает соседей новым ребром с правилами
// входящего. Затем порядок оставшихся этапов пересчитывается до сплошного
// 0..M-1.
func (s *stageService) RemoveStage(ctx context.Context, stageID int) error {
	var eventID int
	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		stage, err := s.stageRepo.GetByID(ctx, exec, stageID)
		if err != nil {
			if errors.Is(err, repositories.ErrStageNotFound) {
				return ErrStageNotFound
			}
			return err
		}
		eventID = stage.EventID

		if err := s.stageRepo.LockEvent(ctx, exec, stage.EventID); err != nil {
			return fmt.Errorf("failed to lock event %d: %w", stage.EventID, err)
		}

		if err := s.groupRepo.DeleteByStage(ctx, exec, stageID); err != nil {
			return fmt.Errorf("failed to delete groups of stage %d: %w", stageID, err)
		}

		incoming, err := s.progressionRepo.ListByToStage(ctx, exec, stageID)
		if err != nil {
			return fmt.Errorf("failed to list incoming progressions: %w", err)
		}
		outgoing, err := s.progressionRepo.ListByFromStage(ctx, exec, stageID)
		if err != nil {
			return fmt.Errorf("failed to list outgoing progressions: %w", err)
		}

		// Средний этап цепочки A→B→C: вместо A→B и B→C остаётся A→C с
		// правилами входящего ребра; правила исходящего отбрасываются.
		if len(incoming) == 1 && len(outgoing) == 1 {
			relink := &models.Progression{
				EventID:     stage.EventID,
				FromStageID: incoming[0].FromStageID,
				ToStageID:   outgoing[0].ToStageID,
				Rules:       incoming[0].Rules,
			}
			if err := s.progressionRepo.Create(ctx, exec, relink); err != nil {
				return fmt.Errorf("failed to re-link progression chain: %w", err)
			}
		}

		for _, p := range incoming {
			if err := s.progressionRepo.Delete(ctx, exec, p.ID); err != nil {
				return fmt.Errorf("failed to delete incoming progression %d: %w", p.ID, err)
			}
		}
		for _, p := range outgoing {
			if err := s.progressionRepo.Delete(ctx, exec, p.ID); err != nil {
				return fmt.Errorf("failed to delete outgoing progression %d: %w", p.ID, err)
			}
		}

		if err := s.stageRepo.Delete(ctx, exec, stageID); err != nil {
			return fmt.Errorf("failed to delete stage %d: %w", stageID, err)
		}

		// Реиндексация: патчим только строки, чей порядок разошёлся с
		// позицией после сортировки.
		remaining, err := s.stageRepo.ListByEvent(ctx, exec, stage.EventID)
		if err != nil {
			return fmt.Errorf("failed to list remaining stages: %w", err)
		}
		for idx, sibling := range remaining {
			if sibling.Order != idx {
				if err := s.stageRepo.UpdateOrder(ctx, exec, sibling.ID, idx); err != nil {
					return fmt.Errorf("failed to reindex stage %d: %w", sibling.ID, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.broadcastStages(eventID)
	return nil
}

func (s *stageService) ListByEvent(ctx context.Context, eventID int) ([]models.Stage, error) {
	return s.stageRepo.ListByEvent(ctx, nil, eventID)
}

func (s *stageService) ListGroupsByStage(ctx context.Context, stageID int) ([]models.Group, error) {
	if _, err := s.stageRepo.GetByID(ctx, nil, stageID); err != nil {
		if errors.Is(err, repositories.ErrStageNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}
	return s.groupRepo.ListByStage(ctx, nil, stageID)
}

// EventBracketing собирает этапы, прогрессии и участников события и
// раскладывает участников по пулам каждого этапа змейкой.
func (s *stageService) EventBracketing(ctx context.Context, eventID int) (*EventBracketing, error) {
	var (
		stages       []models.Stage
		progressions []models.Progression
		entrants     []models.Entrant
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stages, err = s.stageRepo.ListByEvent(gctx, nil, eventID)
		return err
	})
	g.Go(func() error {
		var err error
		progressions, err = s.progressionRepo.ListByEvent(gctx, eventID)
		return err
	})
	g.Go(func() error {
		var err error
		entrants, err = s.entrantRepo.ListByEvent(gctx, eventID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]StageView, 0, len(stages))
	for _, stage := range stages {
		groups, err := s.groupRepo.ListByStage(ctx, nil, stage.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list groups for stage %d: %w", stage.ID, err)
		}

		allocated := pools.SnakeSeed(entrants, len(groups))
		stagePools := make([]PoolView, 0, len(groups))
		for i, group := range groups {
			stagePools = append(stagePools, PoolView{Group: group, Entrants: allocated[i]})
		}
		views = append(views, StageView{Stage: stage, Pools: stagePools})
	}

	return &EventBracketing{Stages: views, Progressions: progressions}, nil
}

func (s *stageService) broadcastStages(eventID int) {
	if s.hub == nil || eventID == 0 {
		return
	}
	s.hub.BroadcastToRoom(pools.EventRoom(eventID), pools.Message{Type: pools.MessageStagesUpdated})
}
