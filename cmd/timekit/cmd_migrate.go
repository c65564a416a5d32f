package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/DaanHessen/timekit/internal/store"
)

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down|version",
		Short:     "Apply, roll back or inspect history schema migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.DSN == "" {
				return errors.New("migrate needs a DSN: set database.dsn, DATABASE_URL or --dsn")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			migrator, err := store.NewMigrator(a.cfg.DSN)
			if err != nil {
				return err
			}
			switch args[0] {
			case "up":
				if err := migrator.Up(ctx); err != nil && !errors.Is(err, store.ErrNoChange) {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			case "down":
				if err := migrator.Down(ctx); err != nil && !errors.Is(err, store.ErrNoChange) {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migrations rolled back")
			case "version":
				v, dirty, err := migrator.Version(ctx)
				if err != nil {
					return err
				}
				if dirty {
					fmt.Fprintf(cmd.OutOrStdout(), "Schema version %d (dirty)\n", v)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Schema version %d\n", v)
				}
			default:
				return fmt.Errorf("unknown migrate action %q; use up|down|version", args[0])
			}
			return nil
		},
	}
}
