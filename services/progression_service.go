package services

import (
	"context"
	"errors"

	"github.com/openbracket/openbracket/models"
	"github.com/openbracket/openbracket/repositories"
)

type CreateProgressionInput struct {
	EventID            int                        `json:"event_id"`
	FromStageID        int                        `json:"from_stage_id"`
	ToStageID          int                        `json:"to_stage_id"`
	QualifiersPerGroup *int                       `json:"qualifiers_per_group,omitempty"`
	Seeding            *models.ProgressionSeeding `json:"seeding,omitempty"`
}

type UpdateProgressionInput struct {
	QualifiersPerGroup *int                       `json:"qualifiers_per_group,omitempty"`
	Seeding            *models.ProgressionSeeding `json:"seeding,omitempty"`
}

type ProgressionService interface {
	GetByEvent(ctx context.Context, eventID int) ([]models.Progression, error)
	Create(ctx context.Context, input CreateProgressionInput) (*models.Progression, error)
	// Update — частичное обновление: пропущенное поле сохраняет прежнее
	// значение.
	Update(ctx context.Context, id int, input UpdateProgressionInput) (*models.Progression, error)
	Remove(ctx context.Context, id int) error
}

type progressionService struct {
	progressionRepo repositories.ProgressionRepository
	stageRepo       repositories.StageRepository
}

func NewProgressionService(
	progressionRepo repositories.ProgressionRepository,
	stageRepo repositories.StageRepository,
) ProgressionService {
	return &progressionService{
		progressionRepo: progressionRepo,
		stageRepo:       stageRepo,
	}
}

func (s *progressionService) GetByEvent(ctx context.Context, eventID int) ([]models.Progression, error) {
	return s.progressionRepo.ListByEvent(ctx, eventID)
}

func (s *progressionService) Create(ctx context.Context, input CreateProgressionInput) (*models.Progression, error) {
	if input.FromStageID == input.ToStageID {
		return nil, ErrProgressionSameStage
	}

	from, err := s.stageRepo.GetByID(ctx, nil, input.FromStageID)
	if err != nil {
		if errors.Is(err, repositories.ErrStageNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}
	to, err := s.stageRepo.GetByID(ctx, nil, input.ToStageID)
	if err != nil {
		if errors.Is(err, repositories.ErrStageNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}
	if from.EventID != input.EventID || to.EventID != input.EventID {
		return nil, ErrProgressionCrossEvent
	}

	// Прогрессии образуют линейную цепочку: не больше одного исходящего
	// ребра у источника и одного входящего у приёмника. Без этой проверки
	// пересшивка при удалении этапа выбирала бы ребро недетерминированно.
	existingOut, err := s.progressionRepo.ListByFromStage(ctx, nil, input.FromStageID)
	if err != nil {
		return nil, err
	}
	if len(existingOut) > 0 {
		return nil, ErrProgressionConflict
	}
	existingIn, err := s.progressionRepo.ListByToStage(ctx, nil, input.ToStageID)
	if err != nil {
		return nil, err
	}
	if len(existingIn) > 0 {
		return nil, ErrProgressionConflict
	}

	rules := defaultProgressionRules()
	if input.QualifiersPerGroup != nil {
		if *input.QualifiersPerGroup < 1 {
			return nil, ErrProgressionInvalidRules
		}
		rules.QualifiersPerGroup = *input.QualifiersPerGroup
	}
	if input.Seeding != nil {
		if !input.Seeding.Valid() {
			return nil, ErrProgressionInvalidSeeding
		}
		rules.Seeding = *input.Seeding
	}

	progression := &models.Progression{
		EventID:     input.EventID,
		FromStageID: input.FromStageID,
		ToStageID:   input.ToStageID,
		Rules:       rules,
	}
	if err := s.progressionRepo.Create(ctx, nil, progression); err != nil {
		return nil, err
	}
	return progression, nil
}

func (s *progressionService) Update(ctx context.Context, id int, input UpdateProgressionInput) (*models.Progression, error) {
	progression, err := s.progressionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrProgressionNotFound) {
			return nil, ErrProgressionNotFound
		}
		return nil, err
	}

	if input.QualifiersPerGroup != nil {
		if *input.QualifiersPerGroup < 1 {
			return nil, ErrProgressionInvalidRules
		}
		progression.Rules.QualifiersPerGroup = *input.QualifiersPerGroup
	}
	if input.Seeding != nil {
		if !input.Seeding.Valid() {
			return nil, ErrProgressionInvalidSeeding
		}
		progression.Rules.Seeding = *input.Seeding
	}

	if err := s.progressionRepo.UpdateRules(ctx, id, progression.Rules); err != nil {
		if errors.Is(err, repositories.ErrProgressionNotFound) {
			return nil, ErrProgressionNotFound
		}
		return nil, err
	}
	return progression, nil
}

func (s *progressionService) Remove(ctx context.Context, id int) error {
	err := s.progressionRepo.Delete(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrProgressionNotFound) {
			return ErrProgressionNotFound
		}
		return err
	}
	return nil
}
