package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DaanHessen/timekit/internal/deploy"
	"github.com/DaanHessen/timekit/internal/envcfg"
	"github.com/DaanHessen/timekit/internal/export"
	"github.com/DaanHessen/timekit/internal/logging"
	"github.com/DaanHessen/timekit/internal/store"
	"github.com/DaanHessen/timekit/internal/text"
	"github.com/DaanHessen/timekit/internal/ui"
	"github.com/DaanHessen/timekit/internal/util"
)

var version = "0.1.0"

// app carries what every subcommand needs once config is loaded.
type app struct {
	cfg   util.Config
	log   *zap.Logger
	clock clockwork.Clock
	out   io.Writer
	// loadConfig, newLogger and runner are swapped in tests.
	loadConfig func() (util.Config, error)
	newLogger  func(cfg util.Config, tui bool) (*zap.Logger, error)
	runner     deploy.Runner
}

func newApp(out io.Writer) *app {
	return &app{
		clock:      clockwork.NewRealClock(),
		out:        out,
		loadConfig: util.Load,
		newLogger: func(cfg util.Config, tui bool) (*zap.Logger, error) {
			// The TUI owns the terminal, so it logs to a file.
			if tui {
				return logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
			}
			return logging.Console(cfg.LogLevel)
		},
	}
}

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	a := newApp(os.Stdout)
	root := a.rootCmd()
	err := root.ExecuteContext(context.Background())
	if a.log != nil {
		_ = a.log.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "timekit",
		Short:         "🎯 Time Management Toolkit",
		Long:          "Master your workload and learn to say no with confidence.\nRun without arguments to open the terminal UI.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if seed, _ := cmd.Flags().GetString("seed"); seed != "" {
				cfg.SeedText = seed
			}
			if dsn, _ := cmd.Flags().GetString("dsn"); dsn != "" {
				cfg.DSN = dsn
			}
			a.cfg = cfg
			logger, err := a.newLogger(cfg, cmd == cmd.Root())
			if err != nil {
				return err
			}
			a.log = logger
			return nil
		},
		RunE: a.runUI,
	}
	root.SetOut(a.out)
	root.PersistentFlags().String("seed", "", "session seed string (random if omitted)")
	root.PersistentFlags().String("dsn", "", "PostgreSQL DSN for history (overrides config)")
	root.AddCommand(a.envCmd(), a.deployCmd(), a.decideCmd(), a.migrateCmd(), a.versionCmd())
	return root
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "timekit", version)
			return nil
		},
	}
}

// openHistory uses postgres when a DSN is configured, memory otherwise.
// The returned closer is always safe to call.
func (a *app) openHistory(ctx context.Context) (store.History, store.ExportLog, func(), error) {
	if strings.TrimSpace(a.cfg.DSN) == "" {
		return store.NewMemoryHistory(store.DefaultHistorySize, a.clock), nil, func() {}, nil
	}
	mig, err := store.NewMigrator(a.cfg.DSN)
	if err != nil {
		return nil, nil, func() {}, err
	}
	if err := mig.Up(ctx); err != nil && err != store.ErrNoChange {
		return nil, nil, func() {}, err
	}
	db, err := store.Open(ctx, a.cfg.DSN)
	if err != nil {
		return nil, nil, func() {}, err
	}
	a.log.Info("history stored in postgres")
	return store.NewResultRepo(db), store.NewExportRepo(db), func() { _ = db.Close() }, nil
}

func (a *app) runUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	history, exports, closeDB, err := a.openHistory(ctx)
	if err != nil {
		a.log.Warn("history database unavailable, keeping history in memory", zap.Error(err))
		history, exports, closeDB = store.NewMemoryHistory(store.DefaultHistorySize, a.clock), nil, func() {}
	}
	defer closeDB()
	deps := ui.Deps{
		Log:       a.log,
		History:   history,
		ExportLog: exports,
		Exports:   export.NewWriter(a.cfg.ExportDir),
		Clipboard: export.SystemClipboard{},
		Clock:     a.clock,
		Renderer:  text.WithFallback(text.NewGlamourRenderer(""), text.NewPlainRenderer()),
		Env:       envcfg.Defaults(),
	}
	return ui.Run(ctx, deps, a.cfg)
}
