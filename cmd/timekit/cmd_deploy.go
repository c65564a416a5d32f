package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/DaanHessen/timekit/internal/deploy"
	"github.com/DaanHessen/timekit/internal/envcfg"
)

func (a *app) deployCmd() *cobra.Command {
	var (
		appName    string
		dryRun     bool
		importPath string
	)
	heroku := &cobra.Command{
		Use:   "heroku",
		Short: "Configure a Heroku app: buildpack, config vars, cache purge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vars := envcfg.DeployDefaults()
			if importPath != "" {
				if _, err := vars.Import(importPath); err != nil {
					return errors.Wrapf(err, "import %s", importPath)
				}
			}
			if appName == "" {
				appName = a.cfg.HerokuApp
			}
			r := a.runner
			if r == nil {
				r = deploy.ExecRunner{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
			}
			c := &deploy.Configurator{
				Runner: r,
				Log:    a.log,
				Out:    cmd.OutOrStdout(),
				Bin:    a.cfg.HerokuBin,
				App:    appName,
				Vars:   vars,
				DryRun: dryRun,
			}
			rep, err := c.Configure(cmd.Context())
			if err != nil {
				return err
			}
			if failed := rep.Failed(); len(failed) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d steps failed\n", len(failed), len(rep.Steps))
			}
			return nil
		},
	}
	heroku.Flags().StringVar(&appName, "app", "", "Heroku app name (default from config)")
	heroku.Flags().BoolVar(&dryRun, "dry-run", false, "print the commands without running them")
	heroku.Flags().StringVar(&importPath, "import", "", "merge an existing .env file into the pushed variables")

	d := &cobra.Command{
		Use:   "deploy",
		Short: "Deployment helpers",
	}
	d.AddCommand(heroku)
	return d
}
