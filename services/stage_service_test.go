package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbracket/openbracket/models"
)

type stageServiceFixture struct {
	service         StageService
	txRunner        *fakeTxRunner
	stageRepo       *fakeStageRepo
	groupRepo       *fakeGroupRepo
	progressionRepo *fakeProgressionRepo
	entrantRepo     *fakeEntrantRepo
}

func newStageServiceFixture(t *testing.T) *stageServiceFixture {
	t.Helper()

	f := &stageServiceFixture{
		txRunner:        &fakeTxRunner{},
		stageRepo:       newFakeStageRepo(),
		groupRepo:       newFakeGroupRepo(),
		progressionRepo: newFakeProgressionRepo(),
		entrantRepo:     newFakeEntrantRepo(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = NewStageService(f.txRunner, f.stageRepo, f.groupRepo, f.progressionRepo, f.entrantRepo, nil, logger)
	return f
}

func (f *stageServiceFixture) mustCreateStage(t *testing.T, eventID int, name string, poolCount int) *models.Stage {
	t.Helper()

	stage, err := f.service.CreateStage(context.Background(), CreateStageInput{
		EventID:   eventID,
		Name:      name,
		Format:    models.StageFormatSingleElimination,
		PoolCount: poolCount,
	})
	require.NoError(t, err)
	return stage
}

func TestCreateStageFirstStage(t *testing.T) {
	f := newStageServiceFixture(t)

	stage := f.mustCreateStage(t, 10, "Pools", 4)

	assert.Equal(t, 0, stage.Order)
	assert.Equal(t, 4, stage.Settings.PoolCount)

	groups, err := f.groupRepo.ListByStage(context.Background(), nil, stage.ID)
	require.NoError(t, err)
	require.Len(t, groups, 4)
	for i, group := range groups {
		assert.Equal(t, i, group.Order)
		assert.Equal(t, models.GroupStatusPending, group.Status)
	}
	assert.Equal(t, "Pool 1", groups[0].Name)
	assert.Equal(t, "Pool 4", groups[3].Name)

	// Первый этап не с чем связывать.
	progressions, err := f.progressionRepo.ListByEvent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, progressions)

	assert.Equal(t, []int{10}, f.stageRepo.lockEvents)
}

func TestCreateStageAutoLinksPreviousStage(t *testing.T) {
	f := newStageServiceFixture(t)

	first := f.mustCreateStage(t, 10, "Pools", 4)
	second := f.mustCreateStage(t, 10, "Top Cut", 1)

	assert.Equal(t, 1, second.Order)

	progressions, err := f.progressionRepo.ListByEvent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, progressions, 1)

	link := progressions[0]
	assert.Equal(t, first.ID, link.FromStageID)
	assert.Equal(t, second.ID, link.ToStageID)
	assert.Equal(t, 1, link.Rules.QualifiersPerGroup)
	assert.Equal(t, models.ProgressionSeedingSequential, link.Rules.Seeding)
}

func TestCreateStageDefaultsPoolCount(t *testing.T) {
	f := newStageServiceFixture(t)

	stage, err := f.service.CreateStage(context.Background(), CreateStageInput{
		EventID: 10,
		Name:    "Finals",
		Format:  models.StageFormatDoubleElimination,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stage.Settings.PoolCount)

	groups, err := f.groupRepo.ListByStage(context.Background(), nil, stage.ID)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func TestCreateStageValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateStageInput
		wantErr error
	}{
		{
			name:    "empty name",
			input:   CreateStageInput{EventID: 10, Format: models.StageFormatRoundRobin},
			wantErr: ErrStageNameRequired,
		},
		{
			name:    "unknown format",
			input:   CreateStageInput{EventID: 10, Name: "Pools", Format: "swiss"},
			wantErr: ErrStageFormatInvalid,
		},
		{
			name:    "negative pool count",
			input:   CreateStageInput{EventID: 10, Name: "Pools", Format: models.StageFormatRoundRobin, PoolCount: -2},
			wantErr: ErrStagePoolCountInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStageServiceFixture(t)

			_, err := f.service.CreateStage(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)

			count, err := f.stageRepo.CountByEvent(context.Background(), nil, 10)
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestUpdatePoolCountGrow(t *testing.T) {
	f := newStageServiceFixture(t)
	stage := f.mustCreateStage(t, 10, "Pools", 2)

	updated, err := f.service.UpdatePoolCount(context.Background(), stage.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Settings.PoolCount)

	groups, err := f.groupRepo.ListByStage(context.Background(), nil, stage.ID)
	require.NoError(t, err)
	require.Len(t, groups, 5)
	for i, group := range groups {
		assert.Equal(t, i, group.Order)
	}
	assert.Equal(t, "Pool 3", groups[2].Name)
	assert.Equal(t, "Pool 5", groups[4].Name)
}

func TestUpdatePoolCountShrink(t *testing.T) {
	f := newStageServiceFixture(t)
	stage := f.mustCreateStage(t, 10, "Pools", 4)

	updated, err := f.service.UpdatePoolCount(context.Background(), stage.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Settings.PoolCount)

	groups, err := f.groupRepo.ListByStage(context.Background(), nil, stage.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Pool 1", groups[0].Name)
	assert.Equal(t, "Pool 2", groups[1].Name)
}

func TestUpdatePoolCountSameCountPatchesSettings(t *testing.T) {
	f := newStageServiceFixture(t)
	stage := f.mustCreateStage(t, 10, "Pools", 3)

	updated, err := f.service.UpdatePoolCount(context.Background(), stage.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Settings.PoolCount)

	groups, err := f.groupRepo.ListByStage(context.Background(), nil, stage.ID)
	require.NoError(t, err)
	assert.Len(t, groups, 3)
}

func TestUpdatePoolCountErrors(t *testing.T) {
	f := newStageServiceFixture(t)
	stage := f.mustCreateStage(t, 10, "Pools", 2)

	_, err := f.service.UpdatePoolCount(context.Background(), stage.ID, 0)
	assert.ErrorIs(t, err, ErrStagePoolCountInvalid)

	_, err = f.service.UpdatePoolCount(context.Background(), 999, 2)
	assert.ErrorIs(t, err, ErrStageNotFound)
}

func TestRemoveStageRelinksChain(t *testing.T) {
	f := newStageServiceFixture(t)
	ctx := context.Background()

	a := f.mustCreateStage(t, 10, "Pools", 4)
	b := f.mustCreateStage(t, 10, "Top 16", 2)
	c := f.mustCreateStage(t, 10, "Finals", 1)

	// Правила входящего ребра A→B должны пережить удаление B.
	incoming, err := f.progressionRepo.ListByToStage(ctx, nil, b.ID)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	customRules := models.ProgressionRules{QualifiersPerGroup: 2, Seeding: models.ProgressionSeedingCross}
	require.NoError(t, f.progressionRepo.UpdateRules(ctx, incoming[0].ID, customRules))

	require.NoError(t, f.service.RemoveStage(ctx, b.ID))

	progressions, err := f.progressionRepo.ListByEvent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, progressions, 1)
	relink := progressions[0]
	assert.Equal(t, a.ID, relink.FromStageID)
	assert.Equal(t, c.ID, relink.ToStageID)
	assert.Equal(t, customRules, relink.Rules)

	// Пулы удалённого этапа исчезают.
	groups, err := f.groupRepo.ListByStage(ctx, nil, b.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)

	// Порядок оставшихся этапов сплошной.
	remaining, err := f.stageRepo.ListByEvent(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, a.ID, remaining[0].ID)
	assert.Equal(t, 0, remaining[0].Order)
	assert.Equal(t, c.ID, remaining[1].ID)
	assert.Equal(t, 1, remaining[1].Order)
}

func TestRemoveStageEdgeOfChain(t *testing.T) {
	f := newStageServiceFixture(t)
	ctx := context.Background()

	a := f.mustCreateStage(t, 10, "Pools", 4)
	b := f.mustCreateStage(t, 10, "Top 16", 2)
	c := f.mustCreateStage(t, 10, "Finals", 1)

	require.NoError(t, f.service.RemoveStage(ctx, a.ID))

	// У крайнего этапа нечего сшивать: остаётся только B→C.
	progressions, err := f.progressionRepo.ListByEvent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, progressions, 1)
	assert.Equal(t, b.ID, progressions[0].FromStageID)
	assert.Equal(t, c.ID, progressions[0].ToStageID)

	remaining, err := f.stageRepo.ListByEvent(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, 0, remaining[0].Order)
	assert.Equal(t, 1, remaining[1].Order)
}

func TestRemoveStageNotFound(t *testing.T) {
	f := newStageServiceFixture(t)

	err := f.service.RemoveStage(context.Background(), 42)
	assert.ErrorIs(t, err, ErrStageNotFound)
}

func TestListGroupsByStageNotFound(t *testing.T) {
	f := newStageServiceFixture(t)

	_, err := f.service.ListGroupsByStage(context.Background(), 42)
	assert.ErrorIs(t, err, ErrStageNotFound)
}

func TestEventBracketingAllocatesEntrantsBySnake(t *testing.T) {
	f := newStageServiceFixture(t)
	ctx := context.Background()

	stage := f.mustCreateStage(t, 10, "Pools", 2)

	for i := 1; i <= 4; i++ {
		hint := i
		require.NoError(t, f.entrantRepo.Create(ctx, &models.Entrant{
			EventID:  10,
			UserID:   100 + i,
			SeedHint: &hint,
		}))
	}

	bracketing, err := f.service.EventBracketing(ctx, 10)
	require.NoError(t, err)
	require.Len(t, bracketing.Stages, 1)
	require.Len(t, bracketing.Stages[0].Pools, 2)
	assert.Equal(t, stage.ID, bracketing.Stages[0].Stage.ID)

	// Змейка по двум пулам: 1,4 и 2,3.
	poolA := bracketing.Stages[0].Pools[0].Entrants
	poolB := bracketing.Stages[0].Pools[1].Entrants
	require.Len(t, poolA, 2)
	require.Len(t, poolB, 2)
	assert.Equal(t, 1, *poolA[0].SeedHint)
	assert.Equal(t, 4, *poolA[1].SeedHint)
	assert.Equal(t, 2, *poolB[0].SeedHint)
	assert.Equal(t, 3, *poolB[1].SeedHint)
}
