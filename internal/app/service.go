// Package service loads the athlete data once, keeps the read-only
// aggregates and answers the dashboard's per-interaction queries.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/okian/podium/internal/adapters/source"
	"github.com/okian/podium/internal/domain/aggregate"
	"github.com/okian/podium/internal/domain/figure"
	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrNoSource   = errors.New("no data source configured")
)

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu      sync.RWMutex
	startMu sync.Mutex

	// Core components
	source source.Source
	tables *aggregate.Tables
	cache  *ttlcache.Cache[string, filter.Result]

	// Configuration
	cacheTTL         time.Duration
	cacheCapacity    uint64
	buildConcurrency int
	figureOpts       figure.Options

	// State
	started  bool
	records  int
	skipped  int
	loadedAt time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets where athlete records are loaded from.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithCacheTTL sets how long a filter result stays cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithCacheCapacity bounds the number of cached filter results.
func WithCacheCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cacheCapacity = uint64(n)
		}
	}
}

// WithBuildConcurrency sets the pool size used to build the aggregates.
func WithBuildConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.buildConcurrency = n
		}
	}
}

// WithFigureOptions sets the chart construction options.
func WithFigureOptions(o figure.Options) Option {
	return func(s *Service) {
		s.figureOpts = o
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cacheTTL:         5 * time.Minute,
		cacheCapacity:    1024,
		buildConcurrency: 3,
		figureOpts:       figure.DefaultOptions(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the records and builds the aggregates. Any load error is
// returned and leaves the service stopped. Readers are not blocked while
// loading; they see ErrNotStarted until the tables are published.
func (s *Service) Start(ctx context.Context) error {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	if s.Ready() {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.source == nil {
		return ErrNoSource
	}
	if err := s.figureOpts.Validate(); err != nil {
		return err
	}

	s.logger.Info(ctx, "starting podium service...", logger.String("driver", s.source.Name()))

	began := time.Now()
	records, err := s.source.Load(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("source", "load")
		return fmt.Errorf("load records: %w", err)
	}
	skipped := s.source.Skipped()

	tables, err := aggregate.Build(ctx, records, aggregate.WithConcurrency(s.buildConcurrency))
	if err != nil {
		metrics.RecordErrorByComponent("aggregate", "build")
		return err
	}
	elapsed := time.Since(began)

	metrics.UpdateRecordsLoaded(len(records))
	metrics.RecordRecordsSkipped(skipped)
	metrics.RecordLoadDuration(float64(elapsed.Milliseconds()))
	metrics.UpdateAggregateRows(string(aggregate.LevelCountry), len(tables.ByCountry))
	metrics.UpdateAggregateRows(string(aggregate.LevelSeason), len(tables.ByCountrySeason))
	metrics.UpdateAggregateRows(string(aggregate.LevelYear), len(tables.ByCountrySeasonYear))
	metrics.UpdateAggregateRows("ages", len(tables.Ages))

	if skipped > 0 {
		s.logger.Warn(ctx, "skipped malformed rows", logger.Int("skipped", skipped))
	}

	cache := ttlcache.New(
		ttlcache.WithTTL[string, filter.Result](s.cacheTTL),
		ttlcache.WithCapacity[string, filter.Result](s.cacheCapacity),
	)
	go cache.Start()

	s.mu.Lock()
	s.cache = cache
	s.tables = tables
	s.records = len(records)
	s.skipped = skipped
	s.loadedAt = time.Now()
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "podium service started",
		logger.Int("records", len(records)),
		logger.Int("countries", len(tables.ByCountry)),
		logger.Int("years", len(tables.Years)),
		logger.Duration("took", elapsed),
	)
	return nil
}

// Stop releases the result cache.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping podium service...")
	s.cache.Stop()
	s.cache.DeleteAll()
	s.started = false
	s.logger.Info(context.Background(), "podium service stopped")
}

// Ready reports whether the aggregates are loaded.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

func (s *Service) snapshot() (*aggregate.Tables, *ttlcache.Cache[string, filter.Result], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.tables, s.cache, nil
}

// Datasets runs the filter for one interaction. Results are shared between
// callers with the same state and must be treated as read-only.
func (s *Service) Datasets(ctx context.Context, st filter.State) (filter.Result, error) {
	tables, cache, err := s.snapshot()
	if err != nil {
		return filter.Result{}, err
	}

	key := st.Key()
	if item := cache.Get(key); item != nil {
		metrics.RecordCacheHit()
		return item.Value(), nil
	}
	metrics.RecordCacheMiss()

	began := time.Now()
	res := filter.Apply(tables, st)
	metrics.RecordFilterLatency(float64(time.Since(began).Microseconds()) / 1000)
	metrics.UpdateFilterResultRows("geo", len(res.Geo))
	metrics.UpdateFilterResultRows("map", len(res.Map))
	metrics.UpdateFilterResultRows("ages", len(res.Ages))

	cache.Set(key, res, ttlcache.DefaultTTL)

	s.logger.Debug(ctx, "filtered datasets",
		logger.String("state", key),
		logger.Int("countries", len(res.Geo)),
		logger.Int("ages", len(res.Ages)),
	)
	return res, nil
}

// Figures builds the three chart documents for one interaction.
func (s *Service) Figures(ctx context.Context, st filter.State) (figure.Set, error) {
	res, err := s.Datasets(ctx, st)
	if err != nil {
		return figure.Set{}, err
	}
	return figure.Build(res, st, s.figureOpts)
}

// Aggregates returns the unfiltered table of the given level.
func (s *Service) Aggregates(_ context.Context, level aggregate.Level) ([]types.MedalRow, error) {
	tables, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return tables.Level(level)
}

// Options lists the values offered by the dashboard controls.
func (s *Service) Options(_ context.Context) (types.Options, error) {
	tables, _, err := s.snapshot()
	if err != nil {
		return types.Options{}, err
	}

	years := make([]types.Choice, 0, len(tables.Years)+1)
	years = append(years, types.Choice{Label: "All Years", Value: filter.AllYears})
	for _, y := range tables.Years {
		v := strconv.Itoa(y)
		years = append(years, types.Choice{Label: v, Value: v})
	}

	medals := make([]types.Choice, len(model.AllMedals))
	defaultMedals := make([]string, len(model.AllMedals))
	for i, m := range model.AllMedals {
		medals[i] = types.Choice{Label: string(m), Value: string(m)}
		defaultMedals[i] = string(m)
	}

	def := filter.DefaultState()
	return types.Options{
		Seasons: []types.Choice{
			{Label: "Summer", Value: string(filter.SeasonSummer)},
			{Label: "Winter", Value: string(filter.SeasonWinter)},
			{Label: "Both", Value: string(filter.SeasonBoth)},
		},
		Genders: []types.Choice{
			{Label: "Male", Value: string(filter.GenderMale)},
			{Label: "Female", Value: string(filter.GenderFemale)},
			{Label: "Both", Value: string(filter.GenderBoth)},
		},
		Years:  years,
		Medals: medals,
		Defaults: types.Defaults{
			Season:    string(def.Season),
			Gender:    string(def.Gender),
			Year:      def.YearLabel(),
			Threshold: def.Threshold,
			Medals:    defaultMedals,
		},
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"cacheTTL":         s.cacheTTL.String(),
		"cacheCapacity":    s.cacheCapacity,
		"buildConcurrency": s.buildConcurrency,
	}
	if s.source != nil {
		stats["driver"] = s.source.Name()
	}

	if s.started {
		cm := s.cache.Metrics()
		stats["records"] = s.records
		stats["skipped"] = s.skipped
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
		stats["countries"] = len(s.tables.ByCountry)
		stats["countrySeasons"] = len(s.tables.ByCountrySeason)
		stats["countrySeasonYears"] = len(s.tables.ByCountrySeasonYear)
		stats["ages"] = len(s.tables.Ages)
		stats["years"] = len(s.tables.Years)
		stats["cacheEntries"] = s.cache.Len()
		stats["cacheHits"] = cm.Hits
		stats["cacheMisses"] = cm.Misses
	}

	return stats
}
