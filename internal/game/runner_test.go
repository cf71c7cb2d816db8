package game

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// advanceToNextTimer waits for the runner to arm its timer, then fires it.
func advanceToNextTimer(ctx context.Context, t *testing.T, clock *quartz.Mock) time.Duration {
	t.Helper()
	var d time.Duration
	require.Eventually(t, func() bool {
		var ok bool
		d, ok = clock.Peek()
		return ok
	}, time.Second, time.Millisecond)
	clock.Advance(d).MustWait(ctx)
	return d
}

func TestRunner_PacesDeal(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	table := stackedTable(t, "2 3 4 5")
	require.True(t, table.StartRound())

	views := make(chan View, 8)
	done := make(chan error, 1)
	go func() {
		done <- NewRunner(clock, nil).Run(ctx, table, func(v View) { views <- v })
	}()

	want := []time.Duration{50 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond}
	for i, d := range want {
		assert.Equal(t, d, advanceToNextTimer(ctx, t, clock))
		v := <-views
		assert.Equal(t, i+1, len(v.PlayerHand)+len(v.DealerHand))
	}

	require.NoError(t, <-done)
	assert.Equal(t, PhasePlayerTurn, table.Phase())
}

func TestRunner_DealerLoop(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	table := stackedTable(t, "10 2 8 3 4 5 6")
	require.True(t, table.StartRound())
	RunSync(table)
	require.True(t, table.Stand())

	views := make(chan View, 8)
	done := make(chan error, 1)
	go func() {
		done <- NewRunner(clock, nil).Run(ctx, table, func(v View) { views <- v })
	}()

	// first draw happens at once, the rest wait for the clock
	v := <-views
	assert.Len(t, v.DealerHand, 3)
	assert.Equal(t, 500*time.Millisecond, advanceToNextTimer(ctx, t, clock))
	v = <-views
	assert.Len(t, v.DealerHand, 4)
	assert.Equal(t, 500*time.Millisecond, advanceToNextTimer(ctx, t, clock))
	v = <-views
	assert.Len(t, v.DealerHand, 5)
	assert.Equal(t, 500*time.Millisecond, advanceToNextTimer(ctx, t, clock))
	v = <-views

	require.NoError(t, <-done)
	assert.Equal(t, PhaseRoundOver, v.Phase)
	assert.Equal(t, 20, v.DealerTotal.Value)
	assert.Equal(t, MsgDealerWins, v.Message)
}

func TestRunner_CancelAndResume(t *testing.T) {
	clock := quartz.NewMock(t)
	table := stackedTable(t, "2 3 4 5")
	require.True(t, table.StartRound())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewRunner(clock, nil).Run(ctx, table, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, PhaseDealing, table.Phase())
	assert.False(t, table.Hit())

	assert.Equal(t, 4, RunSync(table))
	assert.Equal(t, PhasePlayerTurn, table.Phase())
}

func TestRunner_OneDriverPerTable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	runner := NewRunner(clock, nil)
	// dealer stands on 10 7, so settling needs no timer
	table := stackedTable(t, "2 10 4 7")
	require.True(t, table.StartRound())

	views := make(chan View, 8)
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx, table, func(v View) { views <- v })
	}()

	require.Eventually(t, func() bool {
		_, ok := clock.Peek()
		return ok
	}, time.Second, time.Millisecond)

	// the first runner holds the table, so this one returns without stepping
	err := runner.Run(ctx, table, func(View) { t.Error("second runner stepped") })
	require.NoError(t, err)
	assert.Equal(t, PhaseDealing, table.Phase())

	for range 4 {
		advanceToNextTimer(ctx, t, clock)
		<-views
	}
	require.NoError(t, <-done)
	assert.Equal(t, PhasePlayerTurn, table.Phase())

	// released: a later run on the same table drives again
	require.True(t, table.Stand())
	require.NoError(t, runner.Run(ctx, table, nil))
	assert.Equal(t, PhaseRoundOver, table.Phase())
}

func TestRunner_NothingPending(t *testing.T) {
	table := NewTable(NewSource(1))
	err := NewRunner(quartz.NewMock(t), nil).Run(context.Background(), table, func(View) {
		t.Fatal("no step expected")
	})
	assert.NoError(t, err)
}
