// Package pipeline sequences a full ingestion-and-matching run: fetch, clean,
// merge, enrich, score, persist, report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jobradar/jobradar/internal/ai"
	"github.com/jobradar/jobradar/internal/enrich"
	"github.com/jobradar/jobradar/internal/job"
	"github.com/jobradar/jobradar/internal/rank"
	"github.com/jobradar/jobradar/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultTopN = 5

// Fetcher is the batched acquisition front. Failures degrade to fewer
// results inside the fetcher, so there is no error to propagate.
type Fetcher interface {
	Fetch(ctx context.Context, location string, totalWanted, distance int, sites []string) []map[string]any
}

// Config is the value set one run operates on. It is owned by the caller and
// passed in explicitly; no component reads ambient state.
type Config struct {
	Location      string
	ResultsWanted int
	Distance      int
	Sites         []string

	// ProcessWithAI runs structured extraction over records before they are
	// embedded.
	ProcessWithAI bool
	// ReprocessAll forces enrichment of the full store even when the run
	// merged new records.
	ReprocessAll bool

	TopN int
}

// Deps aggregates the collaborators a run needs.
type Deps struct {
	Fetcher   Fetcher
	Store     *store.Store
	Embedder  ai.Embedder
	Extractor ai.Extractor
	Bulk      enrich.BulkExtractor
	Logger    *zap.Logger
}

type Pipeline struct {
	cfg  Config
	deps Deps
}

func New(cfg Config, deps Deps) *Pipeline {
	return &Pipeline{cfg: cfg, deps: deps}
}

// Ingest runs the full pipeline: fetch new postings, merge them into the
// store, then, when resume text is provided, enrich and rank. With an empty
// resumeText the run stops after the post-merge save.
func (p *Pipeline) Ingest(ctx context.Context, resumeText string) (*Report, error) {
	if strings.TrimSpace(p.cfg.Location) == "" {
		return nil, errors.New("location is required for an ingestion run")
	}

	report := newReport()
	logger := p.deps.Logger.With(zap.String("run_id", report.RunID))

	existing := p.deps.Store.Load()
	logger.Info("loaded job store", zap.Int("count", len(existing)))

	raw := p.deps.Fetcher.Fetch(ctx, p.cfg.Location, p.cfg.ResultsWanted, p.cfg.Distance, p.cfg.Sites)
	report.Fetched = len(raw)
	logger.Info("fetched postings", zap.Int("count", report.Fetched))

	cleaned := job.Clean(raw)
	records, err := job.Decode(cleaned)
	if err != nil {
		return report, fmt.Errorf("decode cleaned postings: %w", err)
	}
	report.Cleaned = len(records)

	merged, stats := store.Merge(existing, records)
	report.Added = stats.Added
	report.Duplicates = stats.Duplicates
	report.MissingID = stats.MissingID

	logger.Info("merged new postings into the store",
		zap.Int("added", stats.Added),
		zap.Int("skipped_duplicates", stats.Duplicates),
		zap.Int("skipped_missing_id", stats.MissingID),
		zap.Int("total", len(merged)),
	)

	if err := p.deps.Store.Save(merged); err != nil {
		report.SaveWarnings++
		logger.Warn("saving the store failed, previous file kept", zap.Error(err))
	}

	if strings.TrimSpace(resumeText) == "" {
		return report, nil
	}

	targets := merged
	if stats.Added > 0 && !p.cfg.ReprocessAll {
		existingIDs := job.IDs(existing)
		newIDs := make(map[string]struct{}, stats.Added)
		for _, rec := range records {
			if rec.ID == "" {
				continue
			}
			if _, existed := existingIDs[rec.ID]; !existed {
				newIDs[rec.ID] = struct{}{}
			}
		}
		targets = job.FilterByID(merged, newIDs)
	}
	report.Targets = len(targets)

	if err := p.match(ctx, logger, report, merged, targets, resumeText); err != nil {
		return report, err
	}

	return report, nil
}

// MatchAll enriches and ranks the full existing store against the resume
// without fetching anything.
func (p *Pipeline) MatchAll(ctx context.Context, resumeText string) (*Report, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, errors.New("resume text is required for a matching run")
	}

	report := newReport()
	logger := p.deps.Logger.With(zap.String("run_id", report.RunID))

	all := p.deps.Store.Load()
	if len(all) == 0 {
		return report, errors.New("the job store is empty, run an ingestion first")
	}
	logger.Info("loaded job store", zap.Int("count", len(all)))

	report.Targets = len(all)
	if err := p.match(ctx, logger, report, all, all, resumeText); err != nil {
		return report, err
	}

	return report, nil
}

// match embeds what is missing, scores everything against the resume vector,
// persists the enriched store and fills in the ranked top of the report.
func (p *Pipeline) match(ctx context.Context, logger *zap.Logger, report *Report, all, targets []job.Record, resumeText string) error {
	withEmbedding, withoutEmbedding := enrich.Partition(targets)
	logger.Info("partitioned targets by embedding",
		zap.Int("have_embedding", len(withEmbedding)),
		zap.Int("need_embedding", len(withoutEmbedding)),
	)

	texts := p.embeddingTexts(ctx, logger, report, withoutEmbedding)

	resumeVector, err := p.deps.Embedder.Embed(ctx, resumeText)
	if err != nil {
		return fmt.Errorf("embed resume: %w", err)
	}

	var embedded []job.Record
	var vectors [][]float64
	for i, rec := range withoutEmbedding {
		vector, err := p.deps.Embedder.Embed(ctx, texts[i])
		if err != nil {
			report.EnrichFailed++
			logger.Warn("failed to embed posting, leaving it unenriched",
				zap.String("job_id", rec.ID),
				zap.Error(err),
			)
			continue
		}
		embedded = append(embedded, rec)
		vectors = append(vectors, vector)
	}

	attached, err := enrich.Attach(embedded, vectors)
	if err != nil {
		return fmt.Errorf("attach embeddings: %w", err)
	}
	report.Enriched = len(attached)

	combined := append(append([]job.Record(nil), withEmbedding...), attached...)

	scored, scoreFailed := rank.Score(resumeVector, combined, logger)
	report.ScoreFailed = scoreFailed
	report.Scored = len(scored) - scoreFailed

	updated := store.MergeEnriched(all, scored)
	if err := p.deps.Store.Save(updated); err != nil {
		report.SaveWarnings++
		logger.Warn("saving enriched store failed, previous file kept", zap.Error(err))
	}

	ranked := rank.Rank(scored)
	topN := p.cfg.TopN
	if topN <= 0 {
		topN = defaultTopN
	}
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	report.Top = ranked

	logger.Info("matching finished",
		zap.Int("enriched", report.Enriched),
		zap.Int("failed_to_enrich", report.EnrichFailed),
		zap.Int("scored", report.Scored),
		zap.Int("top", len(report.Top)),
	)

	return nil
}

// embeddingTexts renders one embedding input per record lacking a vector.
// With extraction enabled the structured facts replace the raw posting text;
// a malformed extraction falls back to the raw text for that record.
func (p *Pipeline) embeddingTexts(ctx context.Context, logger *zap.Logger, report *Report, records []job.Record) []string {
	texts := make([]string, len(records))
	for i := range records {
		texts[i] = records[i].Text()
	}

	if !p.cfg.ProcessWithAI || p.deps.Extractor == nil || len(records) == 0 {
		return texts
	}

	strategy := &enrich.ExtractStrategy{
		Bulk:       p.deps.Bulk,
		Sequential: p.deps.Extractor,
		Logger:     logger,
	}

	facts, extractReport := strategy.Run(ctx, records)
	report.Extracted = extractReport.Extracted
	report.ExtractSkipped = extractReport.Skipped

	logger.Info("structured extraction finished",
		zap.Int("extracted", extractReport.Extracted),
		zap.Int("skipped", extractReport.Skipped),
		zap.Bool("used_bulk", extractReport.UsedBulk),
	)

	for i, f := range facts {
		if f == nil {
			continue
		}
		texts[i] = factsText(f)
	}

	return texts
}

func factsText(f *ai.JobFacts) string {
	parts := []string{f.Title, f.Company}
	parts = append(parts, f.Skills...)
	if f.Experience > 0 {
		parts = append(parts, fmt.Sprintf("%d years experience", f.Experience))
	}
	return strings.Join(parts, " ")
}

func newReport() *Report {
	return &Report{RunID: uuid.NewString()}
}
