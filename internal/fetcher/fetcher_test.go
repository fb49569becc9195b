package fetcher

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jobradar/jobradar/internal/jobboard"

	"go.uber.org/zap"
)

// stubSource serves a fixed pool of postings by limit/offset, optionally
// failing chosen offsets a number of times.
type stubSource struct {
	pool     []map[string]any
	calls    []jobboard.SearchParams
	failures map[int]int
}

func (s *stubSource) Search(_ context.Context, params jobboard.SearchParams) ([]map[string]any, error) {
	s.calls = append(s.calls, params)

	if left, ok := s.failures[params.Offset]; ok && left > 0 {
		s.failures[params.Offset]--
		return nil, errors.New("transient board failure")
	}

	start := params.Offset
	if start >= len(s.pool) {
		return nil, nil
	}
	end := start + params.Limit
	if end > len(s.pool) {
		end = len(s.pool)
	}
	return s.pool[start:end], nil
}

func makePool(n int) []map[string]any {
	pool := make([]map[string]any, n)
	for i := range pool {
		pool[i] = map[string]any{"id": fmt.Sprintf("job-%d", i)}
	}
	return pool
}

func newTestFetcher(source Source, cfg Config) *Fetcher {
	f := New(source, zap.NewNop(), cfg)
	f.wait = func(context.Context, time.Duration) error { return nil }
	return f
}

func TestFetchSingleBatchWhenUnderCeiling(t *testing.T) {
	source := &stubSource{pool: makePool(50)}
	f := newTestFetcher(source, Config{})

	items := f.Fetch(context.Background(), "berlin", 15, 25, []string{"indeed"})

	if len(items) != 15 {
		t.Fatalf("expected 15 items, got %d", len(items))
	}
	if len(source.calls) != 1 {
		t.Fatalf("expected exactly one call, got %d", len(source.calls))
	}
	if source.calls[0].Offset != 0 || source.calls[0].Limit != 15 {
		t.Fatalf("unexpected params: %+v", source.calls[0])
	}
}

func TestFetchBatchingMatchesSingleCall(t *testing.T) {
	want := 20
	single := &stubSource{pool: makePool(100)}
	batched := &stubSource{pool: makePool(100)}

	one := newTestFetcher(single, Config{BatchSize: 20})
	many := newTestFetcher(batched, Config{BatchSize: 10})

	a := one.Fetch(context.Background(), "berlin", want, 25, nil)
	b := many.Fetch(context.Background(), "berlin", want, 25, nil)

	if len(a) != len(b) {
		t.Fatalf("batched fetch differs: single=%d batched=%d", len(a), len(b))
	}
	if len(batched.calls) != 2 {
		t.Fatalf("expected 2 batch calls, got %d", len(batched.calls))
	}
}

func TestFetchOffsetsGrowPerBatch(t *testing.T) {
	source := &stubSource{pool: makePool(100)}
	f := newTestFetcher(source, Config{BatchSize: 10})

	f.Fetch(context.Background(), "berlin", 30, 25, nil)

	if len(source.calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(source.calls))
	}
	for i, call := range source.calls {
		if call.Offset != i*10 {
			t.Fatalf("call %d has offset %d, want %d", i, call.Offset, i*10)
		}
	}
}

func TestFetchRetriesTransientFailures(t *testing.T) {
	source := &stubSource{
		pool:     makePool(100),
		failures: map[int]int{10: 2},
	}
	f := newTestFetcher(source, Config{BatchSize: 10, MaxAttempts: 3})

	items := f.Fetch(context.Background(), "berlin", 20, 25, nil)

	if len(items) != 20 {
		t.Fatalf("expected 20 items after retries, got %d", len(items))
	}
}

func TestFetchContinuesAfterExhaustedBatch(t *testing.T) {
	source := &stubSource{
		pool:     makePool(100),
		failures: map[int]int{10: 99},
	}
	f := newTestFetcher(source, Config{BatchSize: 10, MaxAttempts: 2})

	items := f.Fetch(context.Background(), "berlin", 30, 25, nil)

	// Batch at offset 10 is lost, the other two arrive.
	if len(items) != 20 {
		t.Fatalf("expected 20 items, got %d", len(items))
	}
}

func TestFetchAllBatchesFailingReturnsEmpty(t *testing.T) {
	source := &stubSource{
		pool:     makePool(100),
		failures: map[int]int{0: 99, 10: 99},
	}
	f := newTestFetcher(source, Config{BatchSize: 10, MaxAttempts: 2})

	items := f.Fetch(context.Background(), "berlin", 20, 25, nil)

	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestFetchZeroWantedReturnsNothing(t *testing.T) {
	source := &stubSource{pool: makePool(10)}
	f := newTestFetcher(source, Config{})

	if items := f.Fetch(context.Background(), "berlin", 0, 25, nil); items != nil {
		t.Fatalf("expected nil, got %v", items)
	}
	if len(source.calls) != 0 {
		t.Fatalf("expected no calls, got %d", len(source.calls))
	}
}
