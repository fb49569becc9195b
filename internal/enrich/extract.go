package enrich

import (
	"context"
	"errors"
	"time"

	"github.com/jobradar/jobradar/internal/ai"
	"github.com/jobradar/jobradar/internal/job"
	"github.com/jobradar/jobradar/internal/utils"

	"go.uber.org/zap"
)

const (
	// Inputs below this size are not worth a bulk round-trip.
	defaultBulkThreshold = 10

	defaultPollInterval = 2 * time.Second
	defaultPollTimeout  = 60 * time.Second
)

// BulkExtractor is an asynchronous bulk extraction backend: submit once, poll
// until done, fetch results. Fetch returns one entry per submitted record in
// input order, nil where the backend produced a malformed result.
type BulkExtractor interface {
	Submit(ctx context.Context, records []job.Record) (string, error)
	Poll(ctx context.Context, id string) (bool, error)
	Fetch(ctx context.Context, id string) ([]*ai.JobFacts, error)
}

// ExtractReport counts the per-item outcomes of an extraction pass.
type ExtractReport struct {
	Extracted int
	Skipped   int
	UsedBulk  bool
}

// ExtractStrategy selects between the bulk and sequential extraction paths up
// front by input size. A bulk failure or poll timeout falls back to the
// sequential path so a broken bulk backend degrades instead of aborting.
type ExtractStrategy struct {
	Bulk       BulkExtractor
	Sequential ai.Extractor
	Logger     *zap.Logger

	BulkThreshold int
	PollInterval  time.Duration
	PollTimeout   time.Duration
}

// Run extracts facts for every record. The result always has one slot per
// input record in input order; a nil slot marks an item skipped as malformed.
func (s *ExtractStrategy) Run(ctx context.Context, records []job.Record) ([]*ai.JobFacts, ExtractReport) {
	if len(records) == 0 {
		return nil, ExtractReport{}
	}

	threshold := s.BulkThreshold
	if threshold <= 0 {
		threshold = defaultBulkThreshold
	}

	if s.Bulk != nil && len(records) >= threshold {
		facts, err := s.runBulk(ctx, records)
		if err == nil {
			report := countReport(facts)
			report.UsedBulk = true
			return facts, report
		}
		s.Logger.Warn("bulk extraction failed, falling back to sequential calls", zap.Error(err))
	}

	facts := s.runSequential(ctx, records)
	return facts, countReport(facts)
}

func (s *ExtractStrategy) runBulk(ctx context.Context, records []job.Record) ([]*ai.JobFacts, error) {
	id, err := s.Bulk.Submit(ctx, records)
	if err != nil {
		return nil, err
	}

	interval := s.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	timeout := s.PollTimeout
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}

	deadline := time.Now().Add(timeout)
	for {
		done, err := s.Bulk.Poll(ctx, id)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		if time.Now().After(deadline) {
			return nil, errors.New("bulk extraction did not complete within the poll timeout")
		}
		if err := utils.WaitFor(ctx, interval); err != nil {
			return nil, err
		}
	}

	facts, err := s.Bulk.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(facts) != len(records) {
		return nil, errors.New("bulk extraction returned a result count that does not match the input")
	}

	return facts, nil
}

func (s *ExtractStrategy) runSequential(ctx context.Context, records []job.Record) []*ai.JobFacts {
	facts := make([]*ai.JobFacts, len(records))
	for i, rec := range records {
		extracted, err := s.Sequential.ExtractJob(ctx, rec)
		if err != nil {
			s.Logger.Warn("skipping posting with malformed extraction",
				zap.String("job_id", rec.ID),
				zap.Error(err),
			)
			continue
		}
		facts[i] = extracted
	}
	return facts
}

func countReport(facts []*ai.JobFacts) ExtractReport {
	var report ExtractReport
	for _, f := range facts {
		if f == nil {
			report.Skipped++
			continue
		}
		report.Extracted++
	}
	return report
}
