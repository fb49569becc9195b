package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jobradar/jobradar/internal/ai"
	"github.com/jobradar/jobradar/internal/job"

	"go.uber.org/zap"
)

type stubBulk struct {
	facts      []*ai.JobFacts
	submitErr  error
	pollsLeft  int
	submits    int
	fetchCalls int
}

func (s *stubBulk) Submit(_ context.Context, records []job.Record) (string, error) {
	s.submits++
	if s.submitErr != nil {
		return "", s.submitErr
	}
	return "bulk-1", nil
}

func (s *stubBulk) Poll(_ context.Context, _ string) (bool, error) {
	if s.pollsLeft > 0 {
		s.pollsLeft--
		return false, nil
	}
	return true, nil
}

func (s *stubBulk) Fetch(_ context.Context, _ string) ([]*ai.JobFacts, error) {
	s.fetchCalls++
	return s.facts, nil
}

type stubExtractor struct {
	calls   int
	failIDs map[string]bool
}

func (s *stubExtractor) ExtractJob(_ context.Context, record job.Record) (*ai.JobFacts, error) {
	s.calls++
	if s.failIDs[record.ID] {
		return nil, errors.New("malformed response")
	}
	return &ai.JobFacts{Title: record.Title}, nil
}

func (s *stubExtractor) ExtractResume(_ context.Context, _ string) (*ai.ResumeFacts, error) {
	return &ai.ResumeFacts{}, nil
}

func testRecords(n int) []job.Record {
	records := make([]job.Record, n)
	for i := range records {
		records[i] = job.Record{ID: string(rune('a' + i)), Title: "job"}
	}
	return records
}

func TestStrategyUsesBulkAboveThreshold(t *testing.T) {
	records := testRecords(3)
	bulk := &stubBulk{
		facts:     []*ai.JobFacts{{Title: "x"}, nil, {Title: "z"}},
		pollsLeft: 2,
	}
	seq := &stubExtractor{}

	s := &ExtractStrategy{
		Bulk:          bulk,
		Sequential:    seq,
		Logger:        zap.NewNop(),
		BulkThreshold: 2,
		PollInterval:  time.Millisecond,
		PollTimeout:   time.Second,
	}

	facts, report := s.Run(context.Background(), records)

	if !report.UsedBulk {
		t.Fatal("expected the bulk path")
	}
	if seq.calls != 0 {
		t.Fatalf("sequential path used despite bulk success: %d calls", seq.calls)
	}
	if report.Extracted != 2 || report.Skipped != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if facts[1] != nil {
		t.Fatal("malformed slot must stay nil")
	}
}

func TestStrategyFallsBackWhenBulkFails(t *testing.T) {
	records := testRecords(3)
	bulk := &stubBulk{submitErr: errors.New("bulk backend down")}
	seq := &stubExtractor{}

	s := &ExtractStrategy{
		Bulk:          bulk,
		Sequential:    seq,
		Logger:        zap.NewNop(),
		BulkThreshold: 2,
	}

	facts, report := s.Run(context.Background(), records)

	if report.UsedBulk {
		t.Fatal("bulk path reported despite failure")
	}
	if seq.calls != 3 {
		t.Fatalf("expected 3 sequential calls, got %d", seq.calls)
	}
	if report.Extracted != 3 || len(facts) != 3 {
		t.Fatalf("unexpected fallback result: %+v", report)
	}
}

func TestStrategySequentialBelowThreshold(t *testing.T) {
	records := testRecords(2)
	bulk := &stubBulk{}
	seq := &stubExtractor{}

	s := &ExtractStrategy{
		Bulk:          bulk,
		Sequential:    seq,
		Logger:        zap.NewNop(),
		BulkThreshold: 5,
	}

	_, report := s.Run(context.Background(), records)

	if bulk.submits != 0 {
		t.Fatal("bulk path used below the threshold")
	}
	if report.Extracted != 2 || report.UsedBulk {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestStrategySkipsMalformedSequentialItems(t *testing.T) {
	records := testRecords(3)
	seq := &stubExtractor{failIDs: map[string]bool{"b": true}}

	s := &ExtractStrategy{
		Sequential: seq,
		Logger:     zap.NewNop(),
	}

	facts, report := s.Run(context.Background(), records)

	if report.Extracted != 2 || report.Skipped != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if facts[0] == nil || facts[1] != nil || facts[2] == nil {
		t.Fatalf("unexpected facts alignment: %+v", facts)
	}
}
