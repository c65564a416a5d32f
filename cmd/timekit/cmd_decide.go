package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DaanHessen/timekit/internal/engine"
	"github.com/DaanHessen/timekit/internal/store"
)

func (a *app) decideCmd() *cobra.Command {
	decide := &cobra.Command{
		Use:   "decide",
		Short: "Quick decisions without opening the UI",
	}

	// run draws from a stream of the session seed and records the result.
	run := func(tool string, draw func(src engine.Source) (string, string, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			seedText := a.cfg.SeedText
			if seedText == "" {
				generated, err := engine.RandomSeedText()
				if err != nil {
					return err
				}
				seedText = generated
			}
			seed, err := engine.NewSessionSeed(seedText)
			if err != nil {
				return err
			}
			input, result, err := draw(seed.Stream(tool))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			a.recordResult(cmd.Context(), store.Result{Tool: tool, Input: input, Result: result, Seed: seed.Text})
			return nil
		}
	}

	flip := &cobra.Command{
		Use:   "flip",
		Short: "Flip a coin for yes/no decisions",
		Args:  cobra.NoArgs,
		RunE: run("coin", func(src engine.Source) (string, string, error) {
			return "", engine.CoinFlip(src), nil
		}),
	}
	roll := &cobra.Command{
		Use:   "roll",
		Short: "Roll 1-6 for options",
		Args:  cobra.NoArgs,
		RunE: run("dice", func(src engine.Source) (string, string, error) {
			return "", engine.FormatRoll(engine.RollDice(src)), nil
		}),
	}
	mantra := &cobra.Command{
		Use:   "mantra",
		Short: "Get a focus mantra",
		Args:  cobra.NoArgs,
		RunE: run("mantra", func(src engine.Source) (string, string, error) {
			return "", engine.Mantra(src), nil
		}),
	}
	ball := &cobra.Command{
		Use:   "8ball QUESTION...",
		Short: "Ask the magic 8-ball",
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			return run("8ball", func(src engine.Source) (string, string, error) {
				answer, err := engine.EightBall(src, question)
				if err != nil {
					return "", "", fmt.Errorf("please enter a question first: %w", err)
				}
				return question, answer, nil
			})(cmd, args)
		},
	}
	spin := &cobra.Command{
		Use:   "spin TASK TASK...",
		Short: "Spin the task roulette",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("wheel", func(src engine.Source) (string, string, error) {
				var w engine.Wheel
				for _, t := range args {
					_ = w.Add(t)
				}
				res, err := w.Spin(src)
				if err != nil {
					return "", "", err
				}
				return strings.Join(w.Tasks(), ", "), engine.FormatWinner(res.Winner), nil
			})(cmd, args)
		},
	}
	decide.AddCommand(flip, roll, mantra, ball, spin)
	return decide
}

// recordResult stores a result when a database is configured; failures are logged only.
func (a *app) recordResult(ctx context.Context, r store.Result) {
	if a.cfg.DSN == "" {
		return
	}
	db, err := store.Open(ctx, a.cfg.DSN)
	if err != nil {
		a.log.Warn("history unavailable", zap.Error(err))
		return
	}
	defer db.Close()
	if _, err := store.NewResultRepo(db).Record(ctx, r); err != nil {
		a.log.Warn("history record failed", zap.String("tool", r.Tool), zap.Error(err))
	}
}
