package store

import "github.com/jobradar/jobradar/internal/job"

// MergeStats reports what happened to an incoming batch.
type MergeStats struct {
	Added      int
	Duplicates int
	MissingID  int
}

// Merge folds incoming records into the existing collection keyed by ID.
// Existing records always win: a re-fetched duplicate never overwrites the
// enrichment already computed for its ID. Records without an ID cannot be
// deduplicated and are skipped. Merging the same batch twice adds nothing the
// second time.
func Merge(existing, incoming []job.Record) ([]job.Record, MergeStats) {
	var stats MergeStats

	index := make(map[string]struct{}, len(existing))
	for i := range existing {
		if existing[i].ID != "" {
			index[existing[i].ID] = struct{}{}
		}
	}

	merged := append([]job.Record(nil), existing...)
	for _, rec := range incoming {
		if rec.ID == "" {
			stats.MissingID++
			continue
		}
		if _, ok := index[rec.ID]; ok {
			stats.Duplicates++
			continue
		}
		index[rec.ID] = struct{}{}
		merged = append(merged, rec)
		stats.Added++
	}

	return merged, stats
}

// MergeEnriched replaces records in the full collection with their enriched
// versions, matched by ID. Records not present in the update pass through
// unchanged, so a partial enrichment run never clobbers earlier results.
func MergeEnriched(all, enriched []job.Record) []job.Record {
	byID := make(map[string]job.Record, len(enriched))
	for _, rec := range enriched {
		if rec.ID != "" {
			byID[rec.ID] = rec
		}
	}

	out := make([]job.Record, 0, len(all))
	for _, rec := range all {
		if updated, ok := byID[rec.ID]; ok {
			out = append(out, updated)
			continue
		}
		out = append(out, rec)
	}

	return out
}
