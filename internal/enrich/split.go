// Package enrich handles embedding bookkeeping: which records still need a
// vector, and attaching freshly computed ones.
package enrich

import (
	"fmt"

	"github.com/jobradar/jobradar/internal/job"
)

// Partition splits records into those that already carry an embedding and
// those that still need one. Order within each half follows input order.
func Partition(records []job.Record) (with, without []job.Record) {
	for _, r := range records {
		if r.HasEmbedding() {
			with = append(with, r)
			continue
		}
		without = append(without, r)
	}
	return with, without
}

// Attach returns copies of records with embeddings set positionally from
// vectors. A count mismatch is a logic error, never silently truncated. The
// input slice is left untouched.
func Attach(records []job.Record, vectors [][]float64) ([]job.Record, error) {
	if len(records) != len(vectors) {
		return nil, fmt.Errorf("cardinality mismatch: %d records but %d vectors", len(records), len(vectors))
	}

	out := make([]job.Record, len(records))
	for i, r := range records {
		clone := r.Clone()
		clone.Embedding = append([]float64(nil), vectors[i]...)
		out[i] = clone
	}

	return out, nil
}
