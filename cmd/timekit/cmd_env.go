package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DaanHessen/timekit/internal/envcfg"
)

func (a *app) envCmd() *cobra.Command {
	var importPath string
	env := &cobra.Command{
		Use:   "env",
		Short: "Generate environment files and Heroku commands",
	}
	env.PersistentFlags().StringVar(&importPath, "import", "", "merge an existing .env file before generating")

	load := func() (*envcfg.Set, error) {
		set := envcfg.Defaults()
		if importPath == "" {
			return set, nil
		}
		n, err := set.Import(importPath)
		if err != nil {
			return nil, errors.Wrapf(err, "import %s", importPath)
		}
		a.log.Info("env imported", zap.String("path", importPath), zap.Int("keys", n))
		for _, k := range set.CustomKeys() {
			if hint, ok := envcfg.Suggest(k); ok {
				a.log.Warn("unknown env key", zap.String("key", k), zap.String("suggestion", hint))
			}
		}
		return set, nil
	}

	var outPath string
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Write .env.local content to stdout or a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := load()
			if err != nil {
				return err
			}
			content := set.Generate(a.clock.Now())
			if outPath == "" {
				fmt.Fprint(cmd.OutOrStdout(), content)
				return nil
			}
			if dir := filepath.Dir(outPath); dir != "." {
				if err := os.MkdirAll(dir, 0o700); err != nil {
					return errors.Wrap(err, "create output dir")
				}
			}
			if err := os.WriteFile(outPath, []byte(content), 0o600); err != nil {
				return errors.Wrapf(err, "write %s", outPath)
			}
			a.log.Info("env file written", zap.String("path", outPath), zap.Int("keys", set.Len()))
			fmt.Fprintf(cmd.OutOrStdout(), "📄 Wrote %d variables to %s\n", set.Len(), outPath)
			return nil
		},
	}
	generate.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")

	commands := &cobra.Command{
		Use:   "commands",
		Short: "Print heroku config:set commands for deployable keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := load()
			if err != nil {
				return err
			}
			lines := set.HerokuCommands()
			if len(lines) == 0 {
				return errors.New("no deployable variables")
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
			return nil
		},
	}

	env.AddCommand(generate, commands)
	return env
}
