package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blackjack-coach/internal/database"
	"blackjack-coach/internal/game"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.DB)
}

func TestRepository_GetOrCreate(t *testing.T) {
	repo := newRepo(t)

	p, err := repo.GetOrCreate(42)
	require.NoError(t, err)
	assert.Equal(t, &Player{SeatID: 42}, p)

	p, err = repo.GetOrCreate(42)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Games)
}

func TestRepository_Record(t *testing.T) {
	repo := newRepo(t)

	results := []game.Result{
		{Outcome: game.OutcomeBlackjack, Bet: 50, Payout: 125, Net: 75},
		{Outcome: game.OutcomeWin, Bet: 50, Doubled: true, Payout: 200, Net: 100},
		{Outcome: game.OutcomeLose, Bet: 50, Net: -50},
		{Outcome: game.OutcomePush, Bet: 50, Payout: 50},
	}
	for _, r := range results {
		_, err := repo.Record(1, r)
		require.NoError(t, err)
	}

	p, err := repo.GetOrCreate(1)
	require.NoError(t, err)
	assert.Equal(t, &Player{
		SeatID:     1,
		Wins:       2,
		Losses:     1,
		Pushes:     1,
		Blackjacks: 1,
		Doubles:    1,
		Games:      4,
		Net:        125,
	}, p)
	assert.InDelta(t, 50.0, p.WinRate(), 0.001)
}

func TestRepository_GetTopByNet(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.Record(1, game.Result{Outcome: game.OutcomeLose, Net: -50})
	require.NoError(t, err)
	_, err = repo.Record(2, game.Result{Outcome: game.OutcomeWin, Net: 50})
	require.NoError(t, err)
	_, err = repo.GetOrCreate(3)
	require.NoError(t, err)

	stats, err := repo.GetTopByNet(10)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, int64(2), stats[0].SeatID)
	assert.Equal(t, 100.0, stats[0].WinRate)
	assert.Equal(t, int64(1), stats[1].SeatID)
}
