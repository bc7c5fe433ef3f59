// focal - research session timer daemon
// Entry point: serves the local HTTP API the timer UI talks to.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/focalhq/focal/internal/infra/config"
	"github.com/focalhq/focal/internal/infra/sqlite"
	"github.com/focalhq/focal/internal/server"
	"github.com/focalhq/focal/internal/version"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("focald", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}
	if *showHelp {
		printHelp(out)
		return 0
	}

	command := "serve"
	if rest := fs.Args(); len(rest) > 0 {
		command = rest[0]
	}

	switch command {
	case "version":
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	case "migrate":
		return runMigrate(out)
	case "serve":
		return runServe(out)
	default:
		fmt.Fprintf(out, "unknown command %q\n\n", command) //nolint:errcheck
		printHelp(out)
		return 2
	}
}

func runMigrate(out io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "config error: %v\n", err) //nolint:errcheck
		return 1
	}

	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(out, "database error: %v\n", err) //nolint:errcheck
		return 1
	}
	defer db.Close() //nolint:errcheck

	if err := sqlite.MigrateUp(db); err != nil {
		fmt.Fprintf(out, "migration error: %v\n", err) //nolint:errcheck
		return 1
	}

	ver, err := sqlite.MigrationVersion(db)
	if err != nil {
		fmt.Fprintf(out, "migration version error: %v\n", err) //nolint:errcheck
		return 1
	}
	fmt.Fprintf(out, "database %s at schema version %d\n", cfg.DBPath, ver) //nolint:errcheck
	return 0
}

func runServe(out io.Writer) int {
	logger := slog.New(slog.NewTextHandler(out, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config error", "error", err)
		return 1
	}

	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		logger.Error("database error", "error", err)
		return 1
	}
	if err := sqlite.MigrateUp(db); err != nil {
		logger.Error("migration error", "error", err)
		db.Close() //nolint:errcheck
		return 1
	}

	serverCfg := server.DefaultConfig()
	serverCfg.Host = cfg.Host
	serverCfg.Port = cfg.Port
	srv := server.NewServer(db, serverCfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return 1
	}
	return 0
}

func printHelp(out io.Writer) {
	helpText := `focal - research session timer daemon

Usage:
  focald [options] [command]

Options:
  --version    Show version information
  --help       Show this help message

Commands:
  serve        Start the daemon (default)
  migrate      Run database migrations and exit

Environment:
  FOCAL_CONFIG           Path to a YAML config file
  FOCAL_HOST             Listen address (default 127.0.0.1)
  FOCAL_PORT             Listen port (default 4817)
  FOCAL_DB_PATH          SQLite database path (default focal.db)

Examples:
  focald --version
  focald serve
  focald migrate`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
