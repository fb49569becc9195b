package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/jobradar/jobradar/internal/store"

	"go.uber.org/zap"
)

type stubFetcher struct {
	items [][]map[string]any
	calls int
}

func (s *stubFetcher) Fetch(_ context.Context, _ string, _, _ int, _ []string) []map[string]any {
	if s.calls >= len(s.items) {
		return nil
	}
	items := s.items[s.calls]
	s.calls++
	return items
}

type stubEmbedder struct {
	calls  []string
	failOn string
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	s.calls = append(s.calls, text)
	if s.failOn != "" && text == s.failOn {
		return nil, errors.New("embedding backend down")
	}
	// A deterministic vector keyed off the text length.
	return []float64{float64(len(text)), 1, 0}, nil
}

func newTestPipeline(t *testing.T, fetched [][]map[string]any, embedder *stubEmbedder) (*Pipeline, *store.Store) {
	t.Helper()

	st := store.New(t.TempDir(), zap.NewNop())
	cfg := Config{
		Location:      "berlin",
		ResultsWanted: 10,
		TopN:          5,
	}
	deps := Deps{
		Fetcher:  &stubFetcher{items: fetched},
		Store:    st,
		Embedder: embedder,
		Logger:   zap.NewNop(),
	}

	return New(cfg, deps), st
}

func TestIngestRequiresLocation(t *testing.T) {
	p, _ := newTestPipeline(t, nil, &stubEmbedder{})
	p.cfg.Location = ""

	if _, err := p.Ingest(context.Background(), ""); err == nil {
		t.Fatal("expected a configuration error")
	}
}

func TestIngestWithoutResumeStopsAfterMerge(t *testing.T) {
	fetched := [][]map[string]any{{
		{"id": "1", "title": "Go Dev"},
		{"id": "2", "title": "Data Engineer"},
	}}
	embedder := &stubEmbedder{}
	p, st := newTestPipeline(t, fetched, embedder)

	report, err := p.Ingest(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Fetched != 2 || report.Added != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(embedder.calls) != 0 {
		t.Fatal("no embeddings expected without a resume")
	}

	persisted := st.Load()
	if len(persisted) != 2 {
		t.Fatalf("expected 2 persisted records, got %d", len(persisted))
	}
}

func TestIngestEnrichesOnlyNewRecords(t *testing.T) {
	first := []map[string]any{{"id": "1", "title": "Go Dev"}}
	second := []map[string]any{
		{"id": "1", "title": "Go Dev"},
		{"id": "2", "title": "Data Engineer"},
	}
	embedder := &stubEmbedder{}
	p, st := newTestPipeline(t, [][]map[string]any{first, second}, embedder)

	if _, err := p.Ingest(context.Background(), "my resume"); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	firstRunEmbeds := len(embedder.calls)
	if firstRunEmbeds != 2 { // resume + one posting
		t.Fatalf("expected 2 embed calls on the first run, got %d", firstRunEmbeds)
	}

	report, err := p.Ingest(context.Background(), "my resume")
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if report.Added != 1 {
		t.Fatalf("expected 1 new record on the second run, got %d", report.Added)
	}
	if report.Targets != 1 {
		t.Fatalf("only the new record should be targeted, got %d", report.Targets)
	}
	// resume + the single new posting
	if got := len(embedder.calls) - firstRunEmbeds; got != 2 {
		t.Fatalf("expected 2 embed calls on the second run, got %d", got)
	}

	persisted := st.Load()
	if len(persisted) != 2 {
		t.Fatalf("expected 2 persisted records, got %d", len(persisted))
	}
	for _, rec := range persisted {
		if !rec.HasEmbedding() || !rec.HasSimilarity() {
			t.Fatalf("record %s missing enrichment: %+v", rec.ID, rec)
		}
	}
}

func TestIngestZeroNewFallsBackToFullStore(t *testing.T) {
	batch := []map[string]any{{"id": "1", "title": "Go Dev"}}
	embedder := &stubEmbedder{}
	p, _ := newTestPipeline(t, [][]map[string]any{batch, batch}, embedder)

	if _, err := p.Ingest(context.Background(), "my resume"); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	report, err := p.Ingest(context.Background(), "my resume")
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if report.Added != 0 {
		t.Fatalf("expected no additions, got %d", report.Added)
	}
	// A run with nothing new still produces a ranked view over the store.
	if report.Targets != 1 || len(report.Top) != 1 {
		t.Fatalf("expected full-store fallback, got %+v", report)
	}
}

func TestIngestKeepsRecordsWhoseEmbeddingFails(t *testing.T) {
	fetched := [][]map[string]any{{
		{"id": "1", "title": "okay"},
		{"id": "2", "title": "doomed"},
	}}
	embedder := &stubEmbedder{failOn: "doomed"}
	p, st := newTestPipeline(t, fetched, embedder)

	report, err := p.Ingest(context.Background(), "my resume")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Enriched != 1 || report.EnrichFailed != 1 {
		t.Fatalf("unexpected enrichment counts: %+v", report)
	}

	persisted := st.Load()
	if len(persisted) != 2 {
		t.Fatalf("both records must stay in the store, got %d", len(persisted))
	}
	for _, rec := range persisted {
		if rec.ID == "2" && rec.HasEmbedding() {
			t.Fatalf("failed record must stay unenriched: %+v", rec)
		}
	}
}

func TestMatchAllRequiresResume(t *testing.T) {
	p, _ := newTestPipeline(t, nil, &stubEmbedder{})

	if _, err := p.MatchAll(context.Background(), " "); err == nil {
		t.Fatal("expected a configuration error")
	}
}

func TestMatchAllFailsOnEmptyStore(t *testing.T) {
	p, _ := newTestPipeline(t, nil, &stubEmbedder{})

	if _, err := p.MatchAll(context.Background(), "my resume"); err == nil {
		t.Fatal("expected an error for an empty store")
	}
}

func TestMatchAllRanksExistingStore(t *testing.T) {
	fetched := [][]map[string]any{{
		{"id": "1", "title": "short"},
		{"id": "2", "title": "a much longer posting title"},
	}}
	embedder := &stubEmbedder{}
	p, _ := newTestPipeline(t, fetched, embedder)

	if _, err := p.Ingest(context.Background(), ""); err != nil {
		t.Fatalf("seeding run failed: %v", err)
	}

	report, err := p.MatchAll(context.Background(), "my resume")
	if err != nil {
		t.Fatalf("match run failed: %v", err)
	}

	if report.Targets != 2 || report.Enriched != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.Top) != 2 {
		t.Fatalf("expected 2 ranked records, got %d", len(report.Top))
	}
	if *report.Top[0].Similarity < *report.Top[1].Similarity {
		t.Fatal("top matches not sorted descending")
	}
}
