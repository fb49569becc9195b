package fetcher

import (
	"context"
	"math/rand"
	"time"

	"github.com/jobradar/jobradar/internal/jobboard"
	"github.com/jobradar/jobradar/internal/utils"

	"go.uber.org/zap"
)

const (
	// BatchSize is the largest number of postings requested in one board
	// call. Bigger requests trip upstream rate limits.
	BatchSize = 20

	defaultMaxAttempts = 3
	defaultBackoffBase = 500 * time.Millisecond
	defaultBackoffCap  = 5 * time.Second

	defaultDelayMin = 1 * time.Second
	defaultDelayMax = 3 * time.Second
)

// Source is the acquisition backend: one bounded search per call.
type Source interface {
	Search(ctx context.Context, params jobboard.SearchParams) ([]map[string]any, error)
}

// Fetcher wraps a Source with pagination, a jittered inter-batch delay and
// bounded retry. Batches run strictly one after another: parallel batches
// would defeat the delay.
type Fetcher struct {
	source Source
	logger *zap.Logger

	batchSize   int
	maxAttempts int
	backoffBase time.Duration
	backoffCap  time.Duration
	delayMin    time.Duration
	delayMax    time.Duration

	rand *rand.Rand
	wait func(ctx context.Context, d time.Duration) error
}

// Config carries the tunables. Zero values fall back to the defaults above.
type Config struct {
	BatchSize   int
	MaxAttempts int
	BackoffBase time.Duration
	BackoffCap  time.Duration
	DelayMin    time.Duration
	DelayMax    time.Duration
}

func New(source Source, logger *zap.Logger, cfg Config) *Fetcher {
	f := &Fetcher{
		source:      source,
		logger:      logger,
		batchSize:   cfg.BatchSize,
		maxAttempts: cfg.MaxAttempts,
		backoffBase: cfg.BackoffBase,
		backoffCap:  cfg.BackoffCap,
		delayMin:    cfg.DelayMin,
		delayMax:    cfg.DelayMax,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
		wait:        utils.WaitFor,
	}

	if f.batchSize <= 0 {
		f.batchSize = BatchSize
	}
	if f.maxAttempts <= 0 {
		f.maxAttempts = defaultMaxAttempts
	}
	if f.backoffBase <= 0 {
		f.backoffBase = defaultBackoffBase
	}
	if f.backoffCap <= 0 {
		f.backoffCap = defaultBackoffCap
	}
	if f.delayMin <= 0 {
		f.delayMin = defaultDelayMin
	}
	if f.delayMax <= f.delayMin {
		f.delayMax = f.delayMin + defaultDelayMax - defaultDelayMin
	}

	return f
}

// Fetch requests totalWanted postings in batches and returns everything that
// arrived. Failures degrade to fewer results, never to an error: a batch that
// exhausts its retries is logged and skipped, and a fully failed fetch simply
// returns an empty slice.
func (f *Fetcher) Fetch(ctx context.Context, location string, totalWanted, distance int, sites []string) []map[string]any {
	if totalWanted <= 0 {
		return nil
	}

	if totalWanted <= f.batchSize {
		f.logger.Debug("fetching in a single batch", zap.Int("wanted", totalWanted))
		items, err := f.fetchBatch(ctx, location, totalWanted, distance, 0, sites)
		if err != nil {
			f.logger.Warn("fetch failed", zap.Error(err))
			return nil
		}
		return items
	}

	f.logger.Info("fetching in batches",
		zap.Int("wanted", totalWanted),
		zap.Int("batch_size", f.batchSize),
	)

	var all []map[string]any
	for offset := 0; offset < totalWanted; offset += f.batchSize {
		if offset > 0 {
			if err := f.wait(ctx, f.jitter()); err != nil {
				f.logger.Warn("fetch interrupted", zap.Error(err))
				return all
			}
		}

		wanted := f.batchSize
		if remaining := totalWanted - offset; remaining < wanted {
			wanted = remaining
		}

		items, err := f.fetchBatch(ctx, location, wanted, distance, offset, sites)
		if err != nil {
			f.logger.Warn("batch failed, continuing with the next one",
				zap.Int("offset", offset),
				zap.Error(err),
			)
			continue
		}

		if len(items) == 0 {
			f.logger.Info("batch returned no postings, skipping", zap.Int("offset", offset))
			continue
		}

		all = append(all, items...)
	}

	return all
}

// fetchBatch issues one board call wrapped in bounded exponential-backoff
// retry.
func (f *Fetcher) fetchBatch(ctx context.Context, location string, wanted, distance, offset int, sites []string) ([]map[string]any, error) {
	params := jobboard.SearchParams{
		Location: location,
		Limit:    wanted,
		Offset:   offset,
		Distance: distance,
		Sites:    sites,
	}

	var lastErr error
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := f.wait(ctx, f.backoff(attempt)); err != nil {
				return nil, err
			}
		}

		items, err := f.source.Search(ctx, params)
		if err == nil {
			return items, nil
		}

		lastErr = err
		f.logger.Debug("batch attempt failed",
			zap.Int("offset", offset),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", f.maxAttempts),
			zap.Error(err),
		)
	}

	return nil, lastErr
}

// backoff doubles per attempt, bounded by backoffCap.
func (f *Fetcher) backoff(attempt int) time.Duration {
	d := f.backoffBase << (attempt - 1)
	if d > f.backoffCap {
		d = f.backoffCap
	}
	return d
}

// jitter draws the inter-batch delay uniformly from [delayMin, delayMax).
func (f *Fetcher) jitter() time.Duration {
	spread := f.delayMax - f.delayMin
	return f.delayMin + time.Duration(f.rand.Int63n(int64(spread)))
}
