package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/coder/quartz"

	"blackjack-coach/internal/config"
	"blackjack-coach/internal/game"
	"blackjack-coach/internal/httpapi"
	"blackjack-coach/internal/logging"
	"blackjack-coach/internal/simulator"
)

type CLI struct {
	Config   string `short:"c" help:"Path to a YAML config file"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`

	Serve    ServeCmd    `cmd:"" help:"Serve a single table over HTTP"`
	Simulate SimulateCmd `cmd:"" help:"Play rounds following the strategy advice and report results"`
}

type ServeCmd struct {
	Addr string `short:"a" help:"Address to listen on (overrides config)"`
	Seed int64  `help:"Deck seed (0 for random, overrides config)"`
}

type SimulateCmd struct {
	Rounds int   `short:"n" default:"10000" help:"Number of rounds to play"`
	Seed   int64 `default:"0" help:"Deck seed (0 for random)"`
}

func (c *CLI) load() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	return cfg, nil
}

func (s *ServeCmd) Run(cli *CLI) error {
	cfg, err := cli.load()
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.HTTPAddr = s.Addr
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table := game.NewTable(game.NewSource(cfg.Seed),
		game.WithRules(cfg.Table),
		game.WithPacing(cfg.Pacing),
		game.WithLogger(logger.With("component", "table")),
	)
	api := httpapi.New(table, game.NewRunner(quartz.NewReal(), logger), logger)
	steps := make(chan struct{})
	go func() {
		defer close(steps)
		api.Run(ctx)
	}()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	logger.Info("listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	stop()
	<-steps
	return nil
}

func (s *SimulateCmd) Run(cli *CLI) error {
	cfg, err := cli.load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel)

	start := time.Now()
	sum, err := simulator.Run(context.Background(), simulator.Options{
		Rounds: s.Rounds,
		Seed:   s.Seed,
		Rules:  cfg.Table,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	logger.Info("simulation finished", "rounds", sum.Rounds, "elapsed", time.Since(start))

	pct := func(n int) float64 {
		if sum.Rounds == 0 {
			return 0
		}
		return float64(n) / float64(sum.Rounds) * 100
	}
	fmt.Printf("Rounds:      %d\n", sum.Rounds)
	fmt.Printf("Wins:        %d (%.1f%%)\n", sum.Wins, pct(sum.Wins))
	fmt.Printf("Losses:      %d (%.1f%%)\n", sum.Losses, pct(sum.Losses))
	fmt.Printf("Pushes:      %d (%.1f%%)\n", sum.Pushes, pct(sum.Pushes))
	fmt.Printf("Blackjacks:  %d\n", sum.Blackjacks)
	fmt.Printf("Doubles:     %d\n", sum.Doubles)
	fmt.Printf("Busts:       %d\n", sum.Busts)
	fmt.Printf("Bank resets: %d\n", sum.Resets)
	fmt.Printf("Net:         %+d\n", sum.Net)
	fmt.Printf("Final bank:  %d\n", sum.Bank)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-seat blackjack with a basic strategy coach."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}
