package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"search-agent/internal/di"
	"search-agent/internal/domain/entity"
	"search-agent/internal/infrastructure/env"
	"search-agent/internal/infrastructure/userinteraction"

	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [query...]",
		Short: "Answer one query in the terminal",
		Long:  "Answer one query in the terminal. Without arguments the query is read from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := userinteraction.ReadQuery(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			console := userinteraction.NewConsole()
			cfg := loadConfig(env.NewEnvService())
			cfg.Observer = console

			container, err := di.NewContainer(cfg)
			if err != nil {
				return fmt.Errorf("initialization failed: %w", err)
			}
			defer container.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if _, err := entity.NormalizeQuery(query); err == nil {
				console.ShowProcessing(ctx, query)
			}
			outcome := container.Runner.Run(ctx, query)
			console.ShowOutcome(ctx, outcome)

			return exitFor(outcome)
		},
	}
}

func exitFor(outcome entity.Outcome) error {
	switch outcome.Kind {
	case entity.OutcomeSuccess:
		return nil
	case entity.OutcomeRejected:
		return &exitError{code: exitRejected}
	default:
		return &exitError{code: exitFailure}
	}
}
