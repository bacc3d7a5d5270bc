package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/jigu1688/sporttools-sub000/internal/client"
	"github.com/jigu1688/sporttools-sub000/internal/loadgen"
)

// Default load-test settings.
const (
	defaultCount       = 10000
	defaultTopN        = 50
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultSettle      = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func runLoadTest(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("loadtest", flag.ContinueOnError)
	fs.SetOutput(out)
	var (
		baseURL = fs.String("url", serverURL(), "Base URL of sportsd")
		count   = fs.Int("count", defaultCount, "Number of measurements to generate and submit")
		topN    = fs.Int("top", defaultTopN, "Number of ranking entries to verify")
		workers = fs.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
		seed    = fs.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for generated values")
		timeout = fs.Duration("timeout", defaultTimeout, "HTTP request timeout")
		settle  = fs.Duration("settle", defaultSettle, "How long to wait for the ranking to fill")
		retries = fs.Int("retries", 0, "Retries for throttled requests")
		output  = fs.String("output", "", "Write the generated measurements to this JSON file")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTestTimeout)
	defer cancel()

	api := client.New(*baseURL, client.WithTimeout(*timeout), client.WithRetries(*retries))
	stats, err := loadgen.Run(ctx, loadgen.Config{
		Count:      *count,
		TopN:       *topN,
		Workers:    *workers,
		Seed:       *seed,
		Settle:     *settle,
		OutputFile: *output,
	}, api)
	printStats(out, stats)
	if err != nil {
		return fmt.Errorf("load test: %w", err)
	}
	fmt.Fprintln(out, color.New(color.FgGreen).Sprint("ranking verified"))
	return nil
}

func printStats(out io.Writer, s loadgen.Stats) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"generated", "accepted", "duplicates", "throttled", "failed", "ranked", "duration"})
	table.Append([]string{
		fmt.Sprint(s.Generated),
		fmt.Sprint(s.Accepted),
		fmt.Sprint(s.Duplicates),
		fmt.Sprint(s.Throttled),
		fmt.Sprint(s.Failed),
		fmt.Sprint(s.Ranked),
		s.Duration.Round(time.Millisecond).String(),
	})
	table.Render()
}
