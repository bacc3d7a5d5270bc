// Command sportsd serves the fitness scoring and sports-meet scheduling API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jigu1688/sporttools-sub000/internal/adapters/http/api"
	"github.com/jigu1688/sporttools-sub000/internal/adapters/http/docs"
	service "github.com/jigu1688/sporttools-sub000/internal/app"
	"github.com/jigu1688/sporttools-sub000/internal/config"
	"github.com/jigu1688/sporttools-sub000/internal/domain/scheduling"
	"github.com/jigu1688/sporttools-sub000/pkg/logger"
	"github.com/jigu1688/sporttools-sub000/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("sportsd: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(gctx, "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		startSystemMetricsUpdater(gctx)
		return nil
	})
	g.Go(func() error {
		startServiceMetricsUpdater(gctx, svc)
		return nil
	})

	err = g.Wait()
	log.Info(ctx, "server stopped")
	return err
}

// newService builds the service from configuration.
func newService(cfg *config.Config, log logger.Logger) (*service.Service, error) {
	base, err := cfg.BaseTimeMinutes()
	if err != nil {
		return nil, fmt.Errorf("schedule_base_time: %w", err)
	}
	return service.New(
		service.WithLogger(log),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithItemWeights(cfg.ItemWeights),
		service.WithRankingKeepBest(cfg.RankingKeepBest),
		service.WithSchedulerOptions(
			scheduling.WithBaseTime(base),
			scheduling.WithHeatMinutes(cfg.ScheduleHeatMinutes),
			scheduling.WithMinRest(cfg.ScheduleMinRestMinutes),
			scheduling.WithDefaultReferee(cfg.DefaultReferee),
			scheduling.WithDefaultVenue(cfg.DefaultVenue),
			scheduling.WithCheckLimit(cfg.ConflictCheckLimit),
			scheduling.WithReportLimit(cfg.ConflictReportLimit),
		),
	), nil
}

// newMux registers the API and documentation routes.
func newMux(ctx context.Context, cfg *config.Config, svc *service.Service) *http.ServeMux {
	mux := http.NewServeMux()
	docs.Register(ctx, mux)
	api.NewServer(svc,
		api.WithMaxRankingLimit(cfg.MaxRankingLimit),
		api.WithSubmitRateLimit(cfg.SubmitRateLimit, cfg.SubmitRateBurst),
		api.WithLogger(logger.Named("http")),
	).Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater updates system metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater updates queue and worker gauges until ctx is done.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()
	if n, ok := stats["queue_size"].(int); ok {
		metrics.UpdateQueueSize(n)
	}
	if n, ok := stats["worker_count"].(int); ok {
		metrics.UpdateWorkerCount(n)
	}
	if n, ok := stats["ranked"].(int); ok {
		metrics.UpdateRankedStudents(n)
	}
}
