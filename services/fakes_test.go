package services

import (
	"context"
	"sort"

	"github.com/openbracket/openbracket/models"
	"github.com/openbracket/openbracket/repositories"
)

// Фейки хранят всё в памяти: транзакционность сервисов проверяется через
// TxRunner, который просто вызывает fn без реальной транзакции.

type fakeTxRunner struct {
	calls int
}

func (r *fakeTxRunner) RunInTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	r.calls++
	return fn(nil)
}

type fakeStageRepo struct {
	stages     map[int]*models.Stage
	nextID     int
	lockEvents []int
}

func newFakeStageRepo() *fakeStageRepo {
	return &fakeStageRepo{stages: make(map[int]*models.Stage), nextID: 1}
}

func (r *fakeStageRepo) Create(_ context.Context, _ repositories.SQLExecutor, stage *models.Stage) error {
	stage.ID = r.nextID
	r.nextID++
	copied := *stage
	r.stages[stage.ID] = &copied
	return nil
}

func (r *fakeStageRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Stage, error) {
	stage, ok := r.stages[id]
	if !ok {
		return nil, repositories.ErrStageNotFound
	}
	copied := *stage
	return &copied, nil
}

func (r *fakeStageRepo) GetByEventAndOrder(_ context.Context, _ repositories.SQLExecutor, eventID, order int) (*models.Stage, error) {
	for _, stage := range r.stages {
		if stage.EventID == eventID && stage.Order == order {
			copied := *stage
			return &copied, nil
		}
	}
	return nil, repositories.ErrStageNotFound
}

func (r *fakeStageRepo) ListByEvent(_ context.Context, _ repositories.SQLExecutor, eventID int) ([]models.Stage, error) {
	result := make([]models.Stage, 0)
	for _, stage := range r.stages {
		if stage.EventID == eventID {
			result = append(result, *stage)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *fakeStageRepo) CountByEvent(_ context.Context, _ repositories.SQLExecutor, eventID int) (int, error) {
	count := 0
	for _, stage := range r.stages {
		if stage.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (r *fakeStageRepo) UpdateOrder(_ context.Context, _ repositories.SQLExecutor, id, order int) error {
	stage, ok := r.stages[id]
	if !ok {
		return repositories.ErrStageNotFound
	}
	stage.Order = order
	return nil
}

func (r *fakeStageRepo) UpdateSettings(_ context.Context, _ repositories.SQLExecutor, id int, settings models.StageSettings) error {
	stage, ok := r.stages[id]
	if !ok {
		return repositories.ErrStageNotFound
	}
	stage.Settings = settings
	return nil
}

func (r *fakeStageRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.stages[id]; !ok {
		return repositories.ErrStageNotFound
	}
	delete(r.stages, id)
	return nil
}

func (r *fakeStageRepo) LockEvent(_ context.Context, _ repositories.SQLExecutor, eventID int) error {
	r.lockEvents = append(r.lockEvents, eventID)
	return nil
}

type fakeGroupRepo struct {
	groups map[int]*models.Group
	nextID int
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[int]*models.Group), nextID: 1}
}

func (r *fakeGroupRepo) CreateBatch(_ context.Context, _ repositories.SQLExecutor, groups []*models.Group) error {
	for _, group := range groups {
		group.ID = r.nextID
		r.nextID++
		copied := *group
		r.groups[group.ID] = &copied
	}
	return nil
}

func (r *fakeGroupRepo) ListByStage(_ context.Context, _ repositories.SQLExecutor, stageID int) ([]models.Group, error) {
	result := make([]models.Group, 0)
	for _, group := range r.groups {
		if group.StageID == stageID {
			result = append(result, *group)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *fakeGroupRepo) DeleteByStage(_ context.Context, _ repositories.SQLExecutor, stageID int) error {
	for id, group := range r.groups {
		if group.StageID == stageID {
			delete(r.groups, id)
		}
	}
	return nil
}

func (r *fakeGroupRepo) DeleteByStageFromOrder(_ context.Context, _ repositories.SQLExecutor, stageID, minOrder int) error {
	for id, group := range r.groups {
		if group.StageID == stageID && group.Order >= minOrder {
			delete(r.groups, id)
		}
	}
	return nil
}

type fakeProgressionRepo struct {
	progressions map[int]*models.Progression
	nextID       int
}

func newFakeProgressionRepo() *fakeProgressionRepo {
	return &fakeProgressionRepo{progressions: make(map[int]*models.Progression), nextID: 1}
}

func (r *fakeProgressionRepo) Create(_ context.Context, _ repositories.SQLExecutor, progression *models.Progression) error {
	progression.ID = r.nextID
	r.nextID++
	copied := *progression
	r.progressions[progression.ID] = &copied
	return nil
}

func (r *fakeProgressionRepo) GetByID(_ context.Context, id int) (*models.Progression, error) {
	progression, ok := r.progressions[id]
	if !ok {
		return nil, repositories.ErrProgressionNotFound
	}
	copied := *progression
	return &copied, nil
}

func (r *fakeProgressionRepo) list(match func(*models.Progression) bool) []models.Progression {
	result := make([]models.Progression, 0)
	for _, progression := range r.progressions {
		if match(progression) {
			result = append(result, *progression)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *fakeProgressionRepo) ListByEvent(_ context.Context, eventID int) ([]models.Progression, error) {
	return r.list(func(p *models.Progression) bool { return p.EventID == eventID }), nil
}

func (r *fakeProgressionRepo) ListByFromStage(_ context.Context, _ repositories.SQLExecutor, stageID int) ([]models.Progression, error) {
	return r.list(func(p *models.Progression) bool { return p.FromStageID == stageID }), nil
}

func (r *fakeProgressionRepo) ListByToStage(_ context.Context, _ repositories.SQLExecutor, stageID int) ([]models.Progression, error) {
	return r.list(func(p *models.Progression) bool { return p.ToStageID == stageID }), nil
}

func (r *fakeProgressionRepo) UpdateRules(_ context.Context, id int, rules models.ProgressionRules) error {
	progression, ok := r.progressions[id]
	if !ok {
		return repositories.ErrProgressionNotFound
	}
	progression.Rules = rules
	return nil
}

func (r *fakeProgressionRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.progressions[id]; !ok {
		return repositories.ErrProgressionNotFound
	}
	delete(r.progressions, id)
	return nil
}

type fakeEntrantRepo struct {
	entrants map[int]*models.Entrant
	nextID   int

	createErr error
	countErr  error
}

func newFakeEntrantRepo() *fakeEntrantRepo {
	return &fakeEntrantRepo{entrants: make(map[int]*models.Entrant), nextID: 1}
}

func (r *fakeEntrantRepo) Create(_ context.Context, entrant *models.Entrant) error {
	if r.createErr != nil {
		return r.createErr
	}
	entrant.ID = r.nextID
	r.nextID++
	copied := *entrant
	if entrant.SeedHint != nil {
		hint := *entrant.SeedHint
		copied.SeedHint = &hint
	}
	r.entrants[entrant.ID] = &copied
	return nil
}

func (r *fakeEntrantRepo) CountByEvent(_ context.Context, eventID int) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	count := 0
	for _, entrant := range r.entrants {
		if entrant.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (r *fakeEntrantRepo) ListByEvent(_ context.Context, eventID int) ([]models.Entrant, error) {
	result := make([]models.Entrant, 0)
	for _, entrant := range r.entrants {
		if entrant.EventID == eventID {
			result = append(result, *entrant)
		}
	}
	// Посеянные первыми по seed_hint, непосеянные в конце по id.
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].SeedHint, result[j].SeedHint
		switch {
		case a != nil && b != nil:
			if *a != *b {
				return *a < *b
			}
			return result[i].ID < result[j].ID
		case a != nil:
			return true
		case b != nil:
			return false
		default:
			return result[i].ID < result[j].ID
		}
	})
	return result, nil
}

func (r *fakeEntrantRepo) UpdateSeedHint(_ context.Context, _ repositories.SQLExecutor, id int, seedHint *int) error {
	entrant, ok := r.entrants[id]
	if !ok {
		return repositories.ErrEntrantNotFound
	}
	if seedHint == nil {
		entrant.SeedHint = nil
		return nil
	}
	hint := *seedHint
	entrant.SeedHint = &hint
	return nil
}

func (r *fakeEntrantRepo) ClearSeedingByEvent(_ context.Context, eventID int) error {
	for _, entrant := range r.entrants {
		if entrant.EventID == eventID {
			entrant.SeedHint = nil
		}
	}
	return nil
}

func (r *fakeEntrantRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.entrants[id]; !ok {
		return repositories.ErrEntrantNotFound
	}
	delete(r.entrants, id)
	return nil
}
