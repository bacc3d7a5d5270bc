package loadgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	service "github.com/jigu1688/sporttools-sub000/internal/app"
	"github.com/jigu1688/sporttools-sub000/internal/client"
	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
	"github.com/jigu1688/sporttools-sub000/internal/domain/types"
	"github.com/jigu1688/sporttools-sub000/pkg/logger"
)

const (
	filePermission = 0o600
	pollInterval   = 50 * time.Millisecond
)

// ErrVerification reports an inconsistent ranking.
var ErrVerification = errors.New("ranking verification failed")

// API is the part of the HTTP client a run needs.
type API interface {
	Health(ctx context.Context) error
	Submit(ctx context.Context, m model.Measurement) (service.SubmitResult, error)
	Ranking(ctx context.Context, limit int) ([]types.Entry, error)
}

// Run submits generated measurements, waits for them to be ranked and checks
// the ranking order.
func Run(ctx context.Context, cfg Config, api API) (Stats, error) { //nolint:gocritic // hugeParam: config value
	start := time.Now()
	log := logger.Get().Named("loadgen")
	log.Info(ctx, "starting load run",
		logger.Int("count", cfg.Count),
		logger.Int("workers", cfg.Workers),
		logger.Int("top", cfg.TopN))

	if err := api.Health(ctx); err != nil {
		return Stats{}, fmt.Errorf("service health check failed: %w", err)
	}

	measurements := NewGenerator(cfg.Seed, time.Now().Format(time.DateOnly)).Generate(cfg.Count)
	stats := Stats{Generated: len(measurements)}

	if err := submit(ctx, cfg, api, measurements, &stats); err != nil {
		return stats, err
	}

	want := min(cfg.TopN, stats.Accepted)
	entries, err := waitForRanking(ctx, api, cfg.TopN, want, cfg.Settle)
	if err != nil {
		return stats, err
	}
	stats.Ranked = len(entries)
	if err := verify(entries); err != nil {
		return stats, err
	}

	if cfg.OutputFile != "" {
		if err := save(cfg.OutputFile, measurements); err != nil {
			log.Warn(ctx, "failed to save measurements", logger.Error(err))
		}
	}

	stats.Duration = time.Since(start)
	log.Info(ctx, "load run completed",
		logger.Int("accepted", stats.Accepted),
		logger.Int("throttled", stats.Throttled),
		logger.Int("failed", stats.Failed),
		logger.Int("ranked", stats.Ranked))
	return stats, nil
}

func submit(ctx context.Context, cfg Config, api API, ms []model.Measurement, stats *Stats) error { //nolint:gocritic // hugeParam
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i := range ms {
		m := ms[i]
		g.Go(func() error {
			res, err := api.Submit(gctx, m)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, client.ErrUnavailable):
				stats.Throttled++
			case err != nil:
				if gctx.Err() != nil {
					return gctx.Err()
				}
				stats.Failed++
			case res.Duplicate:
				stats.Duplicates++
			default:
				stats.Accepted++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("submission interrupted: %w", err)
	}
	return nil
}

func waitForRanking(ctx context.Context, api API, top, want int, settle time.Duration) ([]types.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, settle)
	defer cancel()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var entries []types.Entry
	for {
		var err error
		entries, err = api.Ranking(ctx, max(top, 1))
		if err == nil && len(entries) >= want {
			return entries, nil
		}
		select {
		case <-ctx.Done():
			return entries, fmt.Errorf("%w: %d of %d ranked before timeout", ErrVerification, len(entries), want)
		case <-ticker.C:
		}
	}
}

// verify checks that entries are in ranking order with competition ranks.
func verify(entries []types.Entry) error {
	if len(entries) > 0 && entries[0].Rank != 1 {
		return fmt.Errorf("%w: leader has rank %d", ErrVerification, entries[0].Rank)
	}
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if cur.Ahead(prev) {
			return fmt.Errorf("%w: %s ranked below %s", ErrVerification, cur.StudentID, prev.StudentID)
		}
		wantRank := i + 1
		if cur.Tied(prev) {
			wantRank = prev.Rank
		}
		if cur.Rank != wantRank {
			return fmt.Errorf("%w: %s has rank %d, want %d", ErrVerification, cur.StudentID, cur.Rank, wantRank)
		}
	}
	return nil
}

func save(path string, ms []model.Measurement) error {
	b, err := json.MarshalIndent(ms, "", "  ")
	if err != nil {
		return fmt.Errorf("encode measurements: %w", err)
	}
	if err := os.WriteFile(path, b, filePermission); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
