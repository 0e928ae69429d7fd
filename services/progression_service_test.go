package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbracket/openbracket/models"
)

func newProgressionServiceFixture(t *testing.T) (ProgressionService, *fakeStageRepo, *fakeProgressionRepo) {
	t.Helper()

	stageRepo := newFakeStageRepo()
	progressionRepo := newFakeProgressionRepo()
	service := NewProgressionService(progressionRepo, stageRepo)
	return service, stageRepo, progressionRepo
}

func addStage(t *testing.T, repo *fakeStageRepo, eventID, order int) *models.Stage {
	t.Helper()

	stage := &models.Stage{
		EventID:  eventID,
		Name:     "Stage",
		Format:   models.StageFormatSingleElimination,
		Order:    order,
		Settings: models.StageSettings{PoolCount: 1},
	}
	require.NoError(t, repo.Create(context.Background(), nil, stage))
	return stage
}

func TestProgressionCreateWithDefaults(t *testing.T) {
	service, stageRepo, _ := newProgressionServiceFixture(t)
	from := addStage(t, stageRepo, 10, 0)
	to := addStage(t, stageRepo, 10, 1)

	progression, err := service.Create(context.Background(), CreateProgressionInput{
		EventID:     10,
		FromStageID: from.ID,
		ToStageID:   to.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, progression.Rules.QualifiersPerGroup)
	assert.Equal(t, models.ProgressionSeedingSequential, progression.Rules.Seeding)
}

func TestProgressionCreateWithExplicitRules(t *testing.T) {
	service, stageRepo, _ := newProgressionServiceFixture(t)
	from := addStage(t, stageRepo, 10, 0)
	to := addStage(t, stageRepo, 10, 1)

	qualifiers := 3
	seeding := models.ProgressionSeedingCross
	progression, err := service.Create(context.Background(), CreateProgressionInput{
		EventID:            10,
		FromStageID:        from.ID,
		ToStageID:          to.ID,
		QualifiersPerGroup: &qualifiers,
		Seeding:            &seeding,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, progression.Rules.QualifiersPerGroup)
	assert.Equal(t, models.ProgressionSeedingCross, progression.Rules.Seeding)
}

func TestProgressionCreateRejectsSelfLoop(t *testing.T) {
	service, stageRepo, _ := newProgressionServiceFixture(t)
	stage := addStage(t, stageRepo, 10, 0)

	_, err := service.Create(context.Background(), CreateProgressionInput{
		EventID:     10,
		FromStageID: stage.ID,
		ToStageID:   stage.ID,
	})
	assert.ErrorIs(t, err, ErrProgressionSameStage)
}

func TestProgressionCreateRejectsUnknownStage(t *testing.T) {
	service, stageRepo, _ := newProgressionServiceFixture(t)
	from := addStage(t, stageRepo, 10, 0)

	_, err := service.Create(context.Background(), CreateProgressionInput{
		EventID:     10,
		FromStageID: from.ID,
		ToStageID:   999,
	})
	assert.ErrorIs(t, err, ErrStageNotFound)
}

func TestProgressionCreateRejectsCrossEvent(t *testing.T) {
	service, stageRepo, _ := newProgressionServiceFixture(t)
	from := addStage(t, stageRepo, 10, 0)
	to := addStage(t, stageRepo, 20, 0)

	_, err := service.Create(context.Background(), CreateProgressionInput{
		EventID:     10,
		FromStageID: from.ID,
		ToStageID:   to.ID,
	})
	assert.ErrorIs(t, err, ErrProgressionCrossEvent)
}

func TestProgressionCreateEnforcesLinearChain(t *testing.T) {
	service, stageRepo, _ := newProgressionServiceFixture(t)
	ctx := context.Background()
	a := addStage(t, stageRepo, 10, 0)
	b := addStage(t, stageRepo, 10, 1)
	c := addStage(t, stageRepo, 10, 2)

	_, err := service.Create(ctx, CreateProgressionInput{EventID: 10, FromStageID: a.ID, ToStageID: b.ID})
	require.NoError(t, err)

	// Второе исходящее ребро у A.
	_, err = service.Create(ctx, CreateProgressionInput{EventID: 10, FromStageID: a.ID, ToStageID: c.ID})
	assert.ErrorIs(t, err, ErrProgressionConflict)

	// Второе входящее ребро у B.
	_, err = service.Create(ctx, CreateProgressionInput{EventID: 10, FromStageID: c.ID, ToStageID: b.ID})
	assert.ErrorIs(t, err, ErrProgressionConflict)

	// Продолжение цепочки допустимо.
	_, err = service.Create(ctx, CreateProgressionInput{EventID: 10, FromStageID: b.ID, ToStageID: c.ID})
	assert.NoError(t, err)
}

func TestProgressionCreateValidatesRules(t *testing.T) {
	service, stageRepo, _ := newProgressionServiceFixture(t)
	from := addStage(t, stageRepo, 10, 0)
	to := addStage(t, stageRepo, 10, 1)

	zero := 0
	_, err := service.Create(context.Background(), CreateProgressionInput{
		EventID:            10,
		FromStageID:        from.ID,
		ToStageID:          to.ID,
		QualifiersPerGroup: &zero,
	})
	assert.ErrorIs(t, err, ErrProgressionInvalidRules)

	bad := models.ProgressionSeeding("random")
	_, err = service.Create(context.Background(), CreateProgressionInput{
		EventID:     10,
		FromStageID: from.ID,
		ToStageID:   to.ID,
		Seeding:     &bad,
	})
	assert.ErrorIs(t, err, ErrProgressionInvalidSeeding)
}

func TestProgressionUpdatePartial(t *testing.T) {
	service, stageRepo, progressionRepo := newProgressionServiceFixture(t)
	ctx := context.Background()
	from := addStage(t, stageRepo, 10, 0)
	to := addStage(t, stageRepo, 10, 1)

	created, err := service.Create(ctx, CreateProgressionInput{EventID: 10, FromStageID: from.ID, ToStageID: to.ID})
	require.NoError(t, err)

	// Обновляется только qualifiers, seeding сохраняется.
	qualifiers := 4
	updated, err := service.Update(ctx, created.ID, UpdateProgressionInput{QualifiersPerGroup: &qualifiers})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rules.QualifiersPerGroup)
	assert.Equal(t, models.ProgressionSeedingSequential, updated.Rules.Seeding)

	// Обновляется только seeding, qualifiers сохраняется.
	seeding := models.ProgressionSeedingCross
	updated, err = service.Update(ctx, created.ID, UpdateProgressionInput{Seeding: &seeding})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rules.QualifiersPerGroup)
	assert.Equal(t, models.ProgressionSeedingCross, updated.Rules.Seeding)

	stored, err := progressionRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Rules, stored.Rules)
}

func TestProgressionUpdateValidation(t *testing.T) {
	service, stageRepo, _ := newProgressionServiceFixture(t)
	ctx := context.Background()
	from := addStage(t, stageRepo, 10, 0)
	to := addStage(t, stageRepo, 10, 1)

	created, err := service.Create(ctx, CreateProgressionInput{EventID: 10, FromStageID: from.ID, ToStageID: to.ID})
	require.NoError(t, err)

	zero := 0
	_, err = service.Update(ctx, created.ID, UpdateProgressionInput{QualifiersPerGroup: &zero})
	assert.ErrorIs(t, err, ErrProgressionInvalidRules)

	bad := models.ProgressionSeeding("bye")
	_, err = service.Update(ctx, created.ID, UpdateProgressionInput{Seeding: &bad})
	assert.ErrorIs(t, err, ErrProgressionInvalidSeeding)

	_, err = service.Update(ctx, 999, UpdateProgressionInput{QualifiersPerGroup: &zero})
	assert.ErrorIs(t, err, ErrProgressionNotFound)
}

func TestProgressionRemove(t *testing.T) {
	service, stageRepo, _ := newProgressionServiceFixture(t)
	ctx := context.Background()
	from := addStage(t, stageRepo, 10, 0)
	to := addStage(t, stageRepo, 10, 1)

	created, err := service.Create(ctx, CreateProgressionInput{EventID: 10, FromStageID: from.ID, ToStageID: to.ID})
	require.NoError(t, err)

	require.NoError(t, service.Remove(ctx, created.ID))
	assert.ErrorIs(t, service.Remove(ctx, created.ID), ErrProgressionNotFound)
}
