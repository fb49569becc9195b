// Package filtering narrows a ranked list of records through sequential
// steps, reporting how much each step dropped.
package filtering

import (
	"github.com/jobradar/jobradar/internal/job"

	"go.uber.org/zap"
)

// Filter is a single narrowing step applied to a ranked list.
type Filter interface {
	Name() string
	Apply(records []job.Record) ([]job.Record, Step)
}

// Step describes the result of executing one step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the steps in order, logging per-step drop counts.
func Run(steps []Filter, records []job.Record, logger *zap.Logger) []job.Record {
	for _, step := range steps {
		var result Step
		records, result = step.Apply(records)
		logger.Debug("filter step finished",
			zap.String("filter", step.Name()),
			zap.Int("initial", result.Initial),
			zap.Int("dropped", result.Dropped),
			zap.Int("left", result.Left),
		)
	}
	return records
}
