package probe

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/podium/pkg/logger"
)

// Run executes a complete probe against cfg.BaseURL. The returned error
// wraps ErrViolations or ErrRequestFailed when any response was wrong or
// missing; the Summary is filled in either case.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	cfg = cfg.withDefaults()
	log := logger.Named("probe")

	sum := Summary{
		RunID:     uuid.NewString(),
		Seed:      cfg.Seed,
		Requested: cfg.Requests,
		StartTime: time.Now(),
	}

	log.Info(ctx, "starting podium probe",
		logger.String("runID", sum.RunID),
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("requests", cfg.Requests),
		logger.Int("workers", cfg.Workers),
		logger.Any("seed", cfg.Seed),
		logger.Duration("timeout", cfg.Timeout))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := client.Health(ctx); err != nil {
		return sum, err
	}

	// Step 2: Generate states from the served choices
	opts, err := client.Options(ctx)
	if err != nil {
		return sum, fmt.Errorf("fetch options: %w", err)
	}
	gen, err := newGenerator(cfg.Seed, opts)
	if err != nil {
		return sum, err
	}
	requests := gen.Generate(cfg.Requests)

	// Step 3: Issue and verify concurrently
	var (
		succeeded, failed, checked, violated atomic.Int64
		mu                                   sync.Mutex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, req := range requests {
		g.Go(func() error {
			res, err := client.Datasets(gctx, req)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Add(1)
				log.Warn(gctx, "dataset request failed", logger.String("id", req.ID), logger.Error(err))
				return nil
			}
			succeeded.Add(1)
			checked.Add(int64(len(res.Geo) + len(res.Map) + len(res.Ages)))

			found := Verify(req, res)
			if len(found) == 0 {
				return nil
			}
			violated.Add(int64(len(found)))

			mu.Lock()
			defer mu.Unlock()
			for _, v := range found {
				if len(sum.Violations) >= maxReported {
					break
				}
				sum.Violations = append(sum.Violations, v)
			}
			return nil
		})
	}
	waitErr := g.Wait()

	sum.Succeeded = int(succeeded.Load())
	sum.Failed = int(failed.Load())
	sum.Checked = int(checked.Load())
	sum.Violated = int(violated.Load())
	sum.Duration = time.Since(sum.StartTime)

	log.Info(ctx, "probe finished",
		logger.String("runID", sum.RunID),
		logger.Int("succeeded", sum.Succeeded),
		logger.Int("failed", sum.Failed),
		logger.Int("rowsChecked", sum.Checked),
		logger.Int("violations", sum.Violated),
		logger.Duration("took", sum.Duration))

	switch {
	case waitErr != nil:
		return sum, waitErr
	case sum.Violated > 0:
		return sum, fmt.Errorf("%w: %d in %d responses", ErrViolations, sum.Violated, sum.Succeeded)
	case sum.Failed > 0:
		return sum, fmt.Errorf("%w: %d of %d", ErrRequestFailed, sum.Failed, sum.Requested)
	}
	return sum, nil
}
