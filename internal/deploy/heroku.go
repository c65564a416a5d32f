// Package deploy pushes the environment set to Heroku through the heroku CLI.
package deploy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/DaanHessen/timekit/internal/envcfg"
)

// ErrCLIMissing means the heroku binary could not be run.
var ErrCLIMissing = errors.New("heroku CLI not found")

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands directly (no shell), streaming to Stdout/Stderr.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

func (r ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		return out, errors.Wrap(err, strings.TrimSpace(stderr.String()))
	}
	return out, err
}

// Step is the outcome of one CLI invocation.
type Step struct {
	Name    string
	Command string
	Err     error
}

func (s Step) OK() bool { return s.Err == nil }

// Report collects every step in order.
type Report struct {
	Steps []Step
}

// Failed returns the steps that did not succeed.
func (r Report) Failed() []Step {
	var out []Step
	for _, s := range r.Steps {
		if !s.OK() {
			out = append(out, s)
		}
	}
	return out
}

const Buildpack = "heroku/nodejs"

// Configurator runs the configuration routine.
type Configurator struct {
	Runner Runner
	Log    *zap.Logger
	// Out receives the progress lines and closing hints.
	Out    io.Writer
	Bin    string
	App    string
	Vars   *envcfg.Set
	DryRun bool
}

func (c *Configurator) bin() string {
	if c.Bin == "" {
		return "heroku"
	}
	return c.Bin
}

func (c *Configurator) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

func (c *Configurator) out() io.Writer {
	if c.Out == nil {
		return io.Discard
	}
	return c.Out
}

func (c *Configurator) args(args ...string) []string {
	if c.App != "" {
		args = append(args, "--app", c.App)
	}
	return args
}

// CommandLine renders an invocation for display.
func CommandLine(bin string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, bin)
	for _, a := range args {
		if strings.ContainsAny(a, " \t\"'$`\\") {
			a = envcfg.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// CheckCLI verifies that the heroku binary runs.
func (c *Configurator) CheckCLI(ctx context.Context) (string, error) {
	out, err := c.Runner.Output(ctx, c.bin(), "--version")
	if err != nil {
		c.logger().Error("heroku CLI not available", zap.String("bin", c.bin()), zap.Error(err))
		fmt.Fprintln(c.out(), "❌ Heroku CLI not found. Please install it first:")
		fmt.Fprintln(c.out(), "   npm install -g heroku")
		fmt.Fprintln(c.out(), "   or visit: https://devcenter.heroku.com/articles/heroku-cli")
		return "", errors.Wrap(ErrCLIMissing, err.Error())
	}
	return strings.TrimSpace(string(out)), nil
}

func (c *Configurator) step(ctx context.Context, name string, args ...string) Step {
	args = c.args(args...)
	line := CommandLine(c.bin(), args...)
	st := Step{Name: name, Command: line}
	fmt.Fprintf(c.out(), "📋 Running: %s\n", line)
	if c.DryRun {
		c.logger().Info("dry run", zap.String("step", name), zap.String("command", line))
		return st
	}
	if err := c.Runner.Run(ctx, c.bin(), args...); err != nil {
		st.Err = err
		fmt.Fprintf(c.out(), "❌ Error running command: %s\n   %v\n", line, err)
		c.logger().Warn("step failed", zap.String("step", name), zap.String("command", line), zap.Bool("ok", false), zap.Error(err))
		return st
	}
	c.logger().Info("step done", zap.String("step", name), zap.String("command", line), zap.Bool("ok", true))
	return st
}

// Configure clears and sets the buildpack, pushes every variable, purges the
// build cache and prints the resulting config. Failed steps do not stop the run.
func (c *Configurator) Configure(ctx context.Context) (Report, error) {
	var rep Report
	fmt.Fprintln(c.out(), "🚀 Configuring Heroku for Time Management Toolkit...")
	if !c.DryRun {
		version, err := c.CheckCLI(ctx)
		if err != nil {
			return rep, err
		}
		c.logger().Info("heroku CLI found", zap.String("version", version))
	}
	vars := c.Vars
	if vars == nil {
		vars = envcfg.DeployDefaults()
	}

	fmt.Fprintln(c.out(), "🧹 Clearing existing buildpacks...")
	rep.Steps = append(rep.Steps, c.step(ctx, "buildpacks:clear", "buildpacks:clear"))
	fmt.Fprintln(c.out(), "📦 Setting Node.js buildpack...")
	rep.Steps = append(rep.Steps, c.step(ctx, "buildpacks:set", "buildpacks:set", Buildpack))

	fmt.Fprintln(c.out(), "⚙️ Setting environment variables...")
	for _, v := range vars.Vars() {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Steps = append(rep.Steps, c.step(ctx, "config:set "+v.Key, "config:set", v.Key+"="+v.Value))
	}

	fmt.Fprintln(c.out(), "🧹 Clearing Heroku cache...")
	rep.Steps = append(rep.Steps, c.step(ctx, "repo:purge_cache", "repo:purge_cache"))

	fmt.Fprintln(c.out(), "\n📊 Current Heroku configuration:")
	rep.Steps = append(rep.Steps, c.step(ctx, "config", "config"))

	failed := rep.Failed()
	if len(failed) > 0 {
		fmt.Fprintf(c.out(), "\n⚠️ Heroku configuration finished with %d failed step(s).\n", len(failed))
	} else {
		fmt.Fprintln(c.out(), "\n✅ Heroku configuration complete!")
	}
	fmt.Fprintln(c.out(), "\n🚀 Ready to deploy:")
	fmt.Fprintln(c.out(), "   git add .")
	fmt.Fprintln(c.out(), "   git commit -m \"Configure Heroku environment\"")
	fmt.Fprintln(c.out(), "   git push heroku main")
	fmt.Fprintln(c.out(), "\n📊 Monitor deployment:")
	fmt.Fprintln(c.out(), "   heroku logs --tail")
	c.logger().Info("configuration finished", zap.Int("steps", len(rep.Steps)), zap.Int("failed", len(failed)))
	return rep, nil
}
