package simulator

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"blackjack-coach/internal/game"
)

type Options struct {
	Rounds int
	Seed   int64
	Rules  game.Rules
	Logger *log.Logger
}

type Summary struct {
	Rounds     int
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Doubles    int
	Busts      int
	Resets     int
	Net        int
	Bank       int
}

func (s *Summary) add(r game.Result) {
	s.Rounds++
	s.Net += r.Net
	if r.Doubled {
		s.Doubles++
	}
	if r.PlayerTotal > 21 {
		s.Busts++
	}

	switch r.Outcome {
	case game.OutcomeBlackjack:
		s.Blackjacks++
		s.Wins++
	case game.OutcomeWin:
		s.Wins++
	case game.OutcomeLose:
		s.Losses++
	case game.OutcomePush:
		s.Pushes++
	}
}

// Run plays rounds back to back, always taking the advised action, and
// resets the bank whenever it can no longer cover the bet.
func Run(ctx context.Context, opts Options) (Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	var sum Summary
	table := game.NewTable(game.NewSource(opts.Seed),
		game.WithRules(opts.Rules),
		game.WithLogger(logger),
		game.WithSettleHook(sum.add),
	)

	for sum.Rounds < opts.Rounds {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		if !table.StartRound() {
			sum.Resets++
			logger.Debug("bank exhausted, resetting", "round", sum.Rounds)
			if !table.ResetBank() || !table.StartRound() {
				break
			}
		}
		game.RunSync(table)

		for table.Phase() == game.PhasePlayerTurn {
			play(table)
			game.RunSync(table)
		}
		table.NextRound()
	}

	sum.Bank = table.Snapshot().Bank
	return sum, nil
}

func play(t *game.Table) {
	switch t.Snapshot().Advice {
	case game.Double:
		if t.DoubleDown() {
			return
		}
		t.Hit()
	case game.Stand:
		t.Stand()
	default:
		t.Hit()
	}
}
