package pipeline

import "github.com/jobradar/jobradar/internal/job"

// Report summarizes one run. Dropped items are counts here, not failures: the
// run itself succeeds as long as it reaches its terminal state.
type Report struct {
	RunID string

	Fetched int
	Cleaned int

	Added      int
	Duplicates int
	MissingID  int

	Targets        int
	Extracted      int
	ExtractSkipped int
	Enriched       int
	EnrichFailed   int

	Scored      int
	ScoreFailed int

	SaveWarnings int

	Top []job.Record
}
