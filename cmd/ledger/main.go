package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/pick-ledger/internal/app"
	"github.com/riskibarqy/pick-ledger/internal/config"
	"github.com/riskibarqy/pick-ledger/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type command func(ctx context.Context, a *app.App, args []string, out io.Writer) error

var commands = map[string]command{
	"view": runView,
	"summary": func(ctx context.Context, a *app.App, _ []string, out io.Writer) error {
		return runSummary(ctx, a, out)
	},
	"refresh": func(ctx context.Context, a *app.App, _ []string, out io.Writer) error {
		return runRefresh(ctx, a, out)
	},
	"trade": runTrade,
	"seed":  runSeed,
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}

	name, rest := args[0], args[1:]
	switch name {
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	}
	cmd, ok := commands[name]
	if !ok {
		printUsage(stderr)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}
	logger := logging.New(logging.FormatConsole, cfg.LogLevel, stderr)
	defer func() { _ = logger.Sync() }()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}
	defer func() { _ = application.Close() }()

	err = cmd(ctx, application, rest, stdout)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		logger.Error(name+" failed", "error", err)
		return 1
	}
	return 0
}

func runView(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	filter, err := parseViewFlags(args, a.Owners)
	if err != nil {
		return err
	}
	if _, err := a.Ledger.Refresh(ctx); err != nil {
		return err
	}
	rows, err := a.Ledger.View(ctx, filter)
	if err != nil {
		return err
	}
	return writeRows(out, rows)
}

func runSummary(ctx context.Context, a *app.App, out io.Writer) error {
	if _, err := a.Ledger.Refresh(ctx); err != nil {
		return err
	}
	summaries, err := a.Ledger.Summary(ctx)
	if err != nil {
		return err
	}
	return writeSummary(out, summaries)
}

func runRefresh(ctx context.Context, a *app.App, out io.Writer) error {
	status, err := a.Ledger.Refresh(ctx)
	if err != nil {
		return err
	}
	return writeStatus(out, status)
}

func runTrade(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	input, err := parseTradeFlags(args, a.Owners)
	if err != nil {
		return err
	}
	if _, err := a.Ledger.Refresh(ctx); err != nil {
		return err
	}
	result, err := a.Ledger.ApplyTrade(ctx, input)
	if err != nil {
		return err
	}
	return writeTrade(out, result)
}

func runSeed(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	input, err := parseSeedFlags(args, a.League.Future)
	if err != nil {
		return err
	}
	count, err := a.Ledger.SeedFuture(ctx, input)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "seeded %d future picks for seasons %d-%d\n", count, input.StartSeason, input.EndSeason-1)
	return err
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: ledger <view|summary|refresh|trade|seed> [flags]")
	fmt.Fprintln(w, "examples:")
	fmt.Fprintln(w, "  ledger view -season 2027 -owner Steve")
	fmt.Fprintln(w, "  ledger view -active")
	fmt.Fprintln(w, "  ledger summary")
	fmt.Fprintln(w, "  ledger trade -season 2028 -round 1 -from Kooch -to Ryan")
	fmt.Fprintln(w, "  ledger seed -start 2027 -end 2032 -overwrite")
}
