package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/honlab/equiptrack/internal/config"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. If logPath is non-empty, all
// levels are also written to that file. The returned function closes it.
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	cleanup := func() {}
	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

// app carries the settings shared by every subcommand.
type app struct {
	envFile  string
	cfg      config.Config
	closeLog func()

	dbPath    string
	addr      string
	adminUser string
	logPath   string
}

// load reads the config and lets explicitly set flags override it.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = a.dbPath
	}
	if flags.Changed("addr") {
		cfg.Addr = a.addr
	}
	if flags.Changed("user") {
		cfg.AdminUser = a.adminUser
	}
	if flags.Changed("log") {
		cfg.LogPath = a.logPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		return err
	}
	a.closeLog = closeLog
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{closeLog: func() {}}
	defaults := config.Default()

	root := &cobra.Command{
		Use:           "equiptrack",
		Short:         "Equipment inventory for the HON building",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.closeLog()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.envFile, "env", ".env", "dotenv file to load settings from")
	pf.StringVarP(&a.dbPath, "db", "d", defaults.DBPath, "SQLite database path")
	pf.StringVarP(&a.logPath, "log", "l", "", "log file path (default: stdout/stderr only)")

	serve := newServeCmd(a)
	serve.Flags().StringVarP(&a.addr, "addr", "a", defaults.Addr, "listen address")
	serve.Flags().StringVarP(&a.adminUser, "user", "u", defaults.AdminUser, "admin username on first run")

	root.AddCommand(serve, newPurgeCmd(a), newRoomsCmd(a))
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
