// Command sportsctl scores fitness measurements, plans meet schedules and
// load-tests a running sportsd.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/jigu1688/sporttools-sub000/pkg/logger"
)

const (
	envURL     = "SPORTSCTL_URL"
	defaultURL = "http://localhost:9080"
)

// errUsage is returned for an unknown or missing subcommand.
var errUsage = errors.New("usage: sportsctl <score|schedule|loadtest> [flags]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "sportsctl: "+err.Error())
		stop()
		os.Exit(1) //nolint:gocritic // exitAfterDefer: stop already called
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if err := loadDotEnv(); err != nil {
		return err
	}
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	_ = logger.SetLevelString("warn")
	defer func() { _ = logger.Sync() }()

	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "score":
		return runScore(ctx, args[1:], out)
	case "schedule":
		return runSchedule(ctx, args[1:], out)
	case "loadtest":
		return runLoadTest(ctx, args[1:], out)
	case "help", "-h", "--help":
		fmt.Fprintln(out, errUsage.Error())
		return nil
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

// loadDotEnv reads ./.env when present so SPORTSCTL_URL can live there.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func serverURL() string {
	if u := os.Getenv(envURL); u != "" {
		return u
	}
	return defaultURL
}
