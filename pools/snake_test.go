package pools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbracket/openbracket/models"
)

func makeEntrants(n int) []models.Entrant {
	entrants := make([]models.Entrant, 0, n)
	for i := 1; i <= n; i++ {
		hint := i
		entrants = append(entrants, models.Entrant{ID: i, SeedHint: &hint})
	}
	return entrants
}

func poolIDs(pool []models.Entrant) []int {
	ids := make([]int, 0, len(pool))
	for _, entrant := range pool {
		ids = append(ids, entrant.ID)
	}
	return ids
}

func TestSnakeSeedEightIntoFour(t *testing.T) {
	pools := SnakeSeed(makeEntrants(8), 4)

	require.Len(t, pools, 4)
	assert.Equal(t, []int{1, 8}, poolIDs(pools[0]))
	assert.Equal(t, []int{2, 7}, poolIDs(pools[1]))
	assert.Equal(t, []int{3, 6}, poolIDs(pools[2]))
	assert.Equal(t, []int{4, 5}, poolIDs(pools[3]))
}

func TestSnakeSeedUnevenSplit(t *testing.T) {
	pools := SnakeSeed(makeEntrants(7), 3)

	require.Len(t, pools, 3)
	// 1..3 слева направо, 4..6 справа налево, 7 снова слева.
	assert.Equal(t, []int{1, 6, 7}, poolIDs(pools[0]))
	assert.Equal(t, []int{2, 5}, poolIDs(pools[1]))
	assert.Equal(t, []int{3, 4}, poolIDs(pools[2]))
}

func TestSnakeSeedSinglePool(t *testing.T) {
	pools := SnakeSeed(makeEntrants(5), 1)

	require.Len(t, pools, 1)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, poolIDs(pools[0]))
}

func TestSnakeSeedMorePoolsThanEntrants(t *testing.T) {
	pools := SnakeSeed(makeEntrants(2), 4)

	require.Len(t, pools, 4)
	assert.Equal(t, []int{1}, poolIDs(pools[0]))
	assert.Equal(t, []int{2}, poolIDs(pools[1]))
	assert.Empty(t, pools[2])
	assert.Empty(t, pools[3])
}

func TestSnakeSeedNoEntrants(t *testing.T) {
	pools := SnakeSeed(nil, 3)

	require.Len(t, pools, 3)
	for _, pool := range pools {
		assert.Empty(t, pool)
	}
}

func TestSnakeSeedInvalidPoolCount(t *testing.T) {
	assert.Nil(t, SnakeSeed(makeEntrants(4), 0))
	assert.Nil(t, SnakeSeed(makeEntrants(4), -1))
}

// Разбиение не теряет и не дублирует участников, а размеры пулов
// отличаются не больше чем на единицу.
func TestSnakeSeedPartitionProperties(t *testing.T) {
	cases := []struct {
		entrants  int
		poolCount int
	}{
		{1, 1},
		{4, 2},
		{9, 4},
		{16, 4},
		{23, 5},
		{64, 8},
	}

	for _, tc := range cases {
		pools := SnakeSeed(makeEntrants(tc.entrants), tc.poolCount)
		require.Len(t, pools, tc.poolCount)

		seen := make(map[int]bool)
		minSize, maxSize := tc.entrants, 0
		for _, pool := range pools {
			if len(pool) < minSize {
				minSize = len(pool)
			}
			if len(pool) > maxSize {
				maxSize = len(pool)
			}
			for _, entrant := range pool {
				assert.False(t, seen[entrant.ID], "entrant %d allocated twice", entrant.ID)
				seen[entrant.ID] = true
			}
		}
		assert.Len(t, seen, tc.entrants)
		assert.LessOrEqual(t, maxSize-minSize, 1)
	}
}
