package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/erazemk/shramba/internal/api"
	"github.com/erazemk/shramba/internal/config"
	"github.com/erazemk/shramba/internal/console"
	"github.com/erazemk/shramba/internal/db"
)

// levelRouter is a slog.Handler that routes INFO/WARN and ERROR+ to separate handlers.
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

// setupLogger configures structured logging. When serving, INFO/WARN go to
// stdout and ERROR goes to stderr. The interactive shell owns stdout, so there
// INFO/WARN only reach the log file. If a log path is configured, all levels
// are also written to that file, rotated by size.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(cfg config.Log, interactive bool) func() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	cleanup := func() {}

	stdoutW := io.Writer(os.Stdout)
	if interactive {
		stdoutW = io.Discard
	}
	stderrW := io.Writer(os.Stderr)

	if cfg.Path != "" {
		f := &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		cleanup = func() { f.Close() }
		if interactive {
			stdoutW = f
		} else {
			stdoutW = io.MultiWriter(os.Stdout, f)
		}
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup
}

func main() {
	fs := flag.NewFlagSet("shramba", flag.ContinueOnError)

	var configPath string
	fs.StringVar(&configPath, "config", "", "")
	fs.StringVar(&configPath, "c", "", "")

	var dbPath string
	fs.StringVar(&dbPath, "db", "", "")
	fs.StringVar(&dbPath, "d", "", "")

	var addr string
	fs.StringVar(&addr, "addr", "", "")
	fs.StringVar(&addr, "a", "", "")

	var logPath string
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: shramba [flags] [shell|serve]

Commands:
  shell                   interactive inventory menu (default)
  serve                   JSON HTTP API

Flags:
  -c, -config <path>      config file (yaml, toml or json; SHRAMBA_* env vars override it)
  -d, -db <path>          SQLite database path (default: shramba.sqlite3)
  -a, -addr <host:port>   listen address for serve (default: :8080)
  -l, -log <path>         log file path (default: no file)
  -h, -help               show this help and exit
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	command := "shell"
	switch fs.NArg() {
	case 0:
	case 1:
		command = fs.Arg(0)
	default:
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(1))
		fs.Usage()
		os.Exit(1)
	}
	if command != "shell" && command != "serve" {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if addr != "" {
		cfg.HTTP.Addr = addr
	}
	if logPath != "" {
		cfg.Log.Path = logPath
	}

	closeLog := setupLogger(cfg.Log, command == "shell")
	defer closeLog()

	ctx := context.Background()

	database, err := db.Open(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(ctx, database); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready", "dialect", database.Dialect())

	if command == "serve" {
		serve(ctx, database, cfg.HTTP.Addr)
		return
	}

	if err := console.New(database, os.Stdin, os.Stdout).Run(ctx); err != nil {
		slog.Error("shell error", "error", err)
		os.Exit(1)
	}
}

// serve runs the HTTP API until SIGINT or SIGTERM.
func serve(ctx context.Context, database *db.DB, addr string) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := api.LoggingMiddleware(api.NewRouter(database, time.Now))

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}
