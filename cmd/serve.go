package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/klauspost/compress/gzhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/okian/podium/internal/adapters/http/api"
	"github.com/okian/podium/internal/adapters/http/site"
	"github.com/okian/podium/internal/adapters/http/swagger"
	"github.com/okian/podium/internal/adapters/source"
	service "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/config"
	"github.com/okian/podium/internal/domain/figure"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second

	// maxChartCountries bounds the limit of /charts/medals.png.
	maxChartCountries = 100
)

func newServeCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard and its API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), g)
		},
	}
}

func runServe(ctx context.Context, g *globals) error {
	cfg, err := g.setup(ctx, os.Stdout)
	if err != nil {
		return err
	}
	log := logger.Get()

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	eg, ctx := errgroup.WithContext(ctx)

	// The listener comes up first so /healthz reports "starting" during the load.
	eg.Go(func() error {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		if err := svc.Start(ctx); err != nil {
			return fmt.Errorf("start service: %w", err)
		}
		return nil
	})

	if cfg.MetricsIntervalSeconds > 0 {
		eg.Go(func() error {
			return metrics.RunRuntimeUpdater(ctx, clockwork.NewRealClock(), cfg.MetricsInterval())
		})
	}

	eg.Go(func() error {
		<-ctx.Done()
		log.Info(context.Background(), "shutting down server...")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info(context.Background(), "server stopped")
		return nil
	})

	if err := eg.Wait(); err != nil {
		log.Error(context.Background(), "server failed", logger.Error(err))
		return err
	}
	return nil
}

// newService builds an unstarted service from the configuration.
func newService(ctx context.Context, cfg *config.Config) (*service.Service, error) {
	log := logger.Get()

	src, err := source.New(cfg.SourceDriver, cfg.DataPath, source.WithSkipHook(func(line int, err error) {
		log.Debug(ctx, "skipped row", logger.Int("line", line), logger.Error(err))
	}))
	if err != nil {
		return nil, err
	}

	return service.New(
		service.WithLogger(log.Named("service")),
		service.WithSource(src),
		service.WithCacheTTL(cfg.CacheTTL()),
		service.WithCacheCapacity(cfg.CacheCapacity),
		service.WithBuildConcurrency(cfg.BuildConcurrency),
		service.WithFigureOptions(figure.Options{
			Bins:       cfg.HistogramBins,
			AgeMin:     cfg.AgeRangeMin,
			AgeMax:     cfg.AgeRangeMax,
			CountMax:   cfg.CountRangeMax,
			ColorScale: cfg.ColorScale,
			Projection: cfg.Projection,
		}),
	), nil
}

// newHandler mounts the API, the dashboard page and the API docs behind
// request IDs and gzip.
func newHandler(ctx context.Context, svc *service.Service) http.Handler {
	mux := http.NewServeMux()

	api.NewServer(svc, svc, maxChartCountries).Register(ctx, mux)
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)

	return gzhttp.GzipHandler(api.RequestIDMiddleware(mux))
}
