// Package rank scores records against a query vector with cosine similarity
// and produces a descending ranked view.
package rank

import (
	"fmt"
	"math"
	"sort"

	"github.com/jobradar/jobradar/internal/job"

	"go.uber.org/zap"
)

// CosineSimilarity returns dot(a,b) / (|a|*|b|). Vectors must have the same
// length. A zero-magnitude vector carries no directional information, so the
// similarity is exactly 0 rather than an error.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Score attaches a similarity to every record that carries an embedding.
// Records without one pass through unscored. Returns the updated copies and
// the count of records whose embedding could not be compared against the
// query.
func Score(query []float64, records []job.Record, logger *zap.Logger) ([]job.Record, int) {
	failed := 0
	out := make([]job.Record, len(records))

	for i, rec := range records {
		clone := rec.Clone()
		if clone.HasEmbedding() {
			sim, err := CosineSimilarity(query, clone.Embedding)
			if err != nil {
				failed++
				logger.Warn("skipping record with incompatible embedding",
					zap.String("job_id", clone.ID),
					zap.Error(err),
				)
			} else {
				clone.SetSimilarity(sim)
			}
		}
		out[i] = clone
	}

	return out, failed
}

// Rank returns the records that carry a similarity, sorted descending. The
// sort is stable: tied scores keep their original relative order. Unscored
// records are excluded rather than ranked with a sentinel.
func Rank(records []job.Record) []job.Record {
	ranked := make([]job.Record, 0, len(records))
	for _, rec := range records {
		if rec.HasSimilarity() {
			ranked = append(ranked, rec)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].Similarity > *ranked[j].Similarity
	})

	return ranked
}
