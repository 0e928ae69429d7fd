package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbracket/openbracket/models"
)

func newEntrantServiceFixture(t *testing.T) (EntrantService, *fakeEntrantRepo) {
	t.Helper()

	repo := newFakeEntrantRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewEntrantService(&fakeTxRunner{}, repo, nil, logger)
	return service, repo
}

func TestAddEntrantAssignsNextSeed(t *testing.T) {
	service, _ := newEntrantServiceFixture(t)
	ctx := context.Background()

	first, err := service.AddEntrant(ctx, 10, 101, "alpha")
	require.NoError(t, err)
	require.NotNil(t, first.SeedHint)
	assert.Equal(t, 1, *first.SeedHint)

	second, err := service.AddEntrant(ctx, 10, 102, "bravo")
	require.NoError(t, err)
	require.NotNil(t, second.SeedHint)
	assert.Equal(t, 2, *second.SeedHint)

	// Участники другого события считаются отдельно.
	other, err := service.AddEntrant(ctx, 20, 103, "charlie")
	require.NoError(t, err)
	require.NotNil(t, other.SeedHint)
	assert.Equal(t, 1, *other.SeedHint)
}

func TestAddEntrantHidesStorageFailure(t *testing.T) {
	service, repo := newEntrantServiceFixture(t)
	repo.createErr = errors.New("duplicate key value violates unique constraint")

	_, err := service.AddEntrant(context.Background(), 10, 101, "alpha")
	assert.ErrorIs(t, err, ErrEntrantCreateFailed)
}

func TestListByEventSeededFirst(t *testing.T) {
	service, repo := newEntrantServiceFixture(t)
	ctx := context.Background()

	seed := 1
	require.NoError(t, repo.Create(ctx, &models.Entrant{EventID: 10, UserID: 101, SeedHint: &seed}))
	require.NoError(t, repo.Create(ctx, &models.Entrant{EventID: 10, UserID: 102}))
	seed3 := 2
	require.NoError(t, repo.Create(ctx, &models.Entrant{EventID: 10, UserID: 103, SeedHint: &seed3}))

	entrants, err := service.ListByEvent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entrants, 3)
	assert.Equal(t, 101, entrants[0].UserID)
	assert.Equal(t, 103, entrants[1].UserID)
	// Непосеянный — в конце.
	assert.Equal(t, 102, entrants[2].UserID)
	assert.Nil(t, entrants[2].SeedHint)
}

func TestUpdateSeedingReordersEntrants(t *testing.T) {
	service, _ := newEntrantServiceFixture(t)
	ctx := context.Background()

	a, err := service.AddEntrant(ctx, 10, 101, "alpha")
	require.NoError(t, err)
	b, err := service.AddEntrant(ctx, 10, 102, "bravo")
	require.NoError(t, err)

	err = service.UpdateSeeding(ctx, 10, []SeedUpdate{
		{EntrantID: a.ID, SeedHint: 2},
		{EntrantID: b.ID, SeedHint: 1},
	})
	require.NoError(t, err)

	entrants, err := service.ListByEvent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entrants, 2)
	assert.Equal(t, b.ID, entrants[0].ID)
	assert.Equal(t, a.ID, entrants[1].ID)
}

func TestUpdateSeedingUnknownEntrant(t *testing.T) {
	service, _ := newEntrantServiceFixture(t)

	err := service.UpdateSeeding(context.Background(), 10, []SeedUpdate{{EntrantID: 42, SeedHint: 1}})
	assert.ErrorIs(t, err, ErrEntrantNotFound)
}

func TestUpdateSeedingEmptyBatchIsNoop(t *testing.T) {
	service, _ := newEntrantServiceFixture(t)

	err := service.UpdateSeeding(context.Background(), 10, nil)
	assert.NoError(t, err)
}

func TestClearSeeding(t *testing.T) {
	service, _ := newEntrantServiceFixture(t)
	ctx := context.Background()

	_, err := service.AddEntrant(ctx, 10, 101, "alpha")
	require.NoError(t, err)
	_, err = service.AddEntrant(ctx, 10, 102, "bravo")
	require.NoError(t, err)

	require.NoError(t, service.ClearSeeding(ctx, 10))

	entrants, err := service.ListByEvent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entrants, 2)
	for _, entrant := range entrants {
		assert.Nil(t, entrant.SeedHint)
	}
}

func TestRemoveEntrant(t *testing.T) {
	service, _ := newEntrantServiceFixture(t)
	ctx := context.Background()

	entrant, err := service.AddEntrant(ctx, 10, 101, "alpha")
	require.NoError(t, err)

	require.NoError(t, service.RemoveEntrant(ctx, entrant.ID))

	err = service.RemoveEntrant(ctx, entrant.ID)
	assert.ErrorIs(t, err, ErrEntrantNotFound)
}
