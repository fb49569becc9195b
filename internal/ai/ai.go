// Package ai defines the text-intelligence surface the pipeline depends on.
// Concrete backends live in subpackages.
package ai

import (
	"context"

	"github.com/jobradar/jobradar/internal/job"
)

// Embedder turns free text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// JobFacts is the structured extract of one posting.
type JobFacts struct {
	Title      string   `json:"title"`
	Company    string   `json:"company"`
	Skills     []string `json:"skills"`
	Experience int      `json:"experience"`
}

// ResumeFacts is the structured extract of a resume.
type ResumeFacts struct {
	Name       string   `json:"name"`
	Skills     []string `json:"skills"`
	Experience int      `json:"experience"`
}

// Extractor pulls structured facts out of postings and resumes. A malformed
// model response surfaces as an error; callers skip the item and continue.
type Extractor interface {
	ExtractJob(ctx context.Context, record job.Record) (*JobFacts, error)
	ExtractResume(ctx context.Context, resume string) (*ResumeFacts, error)
}
