package filtering

import (
	"strings"

	"github.com/jobradar/jobradar/internal/job"
)

type minSimilarity struct {
	threshold float64
}

// NewMinSimilarity drops records scored below the threshold. A non-positive
// threshold keeps everything.
func NewMinSimilarity(threshold float64) Filter {
	return &minSimilarity{threshold: threshold}
}

func (f *minSimilarity) Name() string { return "min_similarity" }

func (f *minSimilarity) Apply(records []job.Record) ([]job.Record, Step) {
	initial := len(records)
	if f.threshold <= 0 {
		return records, Step{Initial: initial, Left: initial}
	}

	kept := make([]job.Record, 0, len(records))
	for _, rec := range records {
		if rec.HasSimilarity() && *rec.Similarity >= f.threshold {
			kept = append(kept, rec)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}
}

type excludeCompanies struct {
	names map[string]struct{}
}

// NewExcludeCompanies drops records from the listed companies,
// case-insensitively.
func NewExcludeCompanies(names []string) Filter {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			set[name] = struct{}{}
		}
	}
	return &excludeCompanies{names: set}
}

func (f *excludeCompanies) Name() string { return "exclude_companies" }

func (f *excludeCompanies) Apply(records []job.Record) ([]job.Record, Step) {
	initial := len(records)
	if len(f.names) == 0 {
		return records, Step{Initial: initial, Left: initial}
	}

	kept := make([]job.Record, 0, len(records))
	for _, rec := range records {
		if _, excluded := f.names[strings.ToLower(rec.Company)]; excluded {
			continue
		}
		kept = append(kept, rec)
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}
}

type topN struct {
	n int
}

// NewTopN keeps the first n records. Zero or negative keeps everything.
func NewTopN(n int) Filter {
	return &topN{n: n}
}

func (f *topN) Name() string { return "top_n" }

func (f *topN) Apply(records []job.Record) ([]job.Record, Step) {
	initial := len(records)
	if f.n <= 0 || len(records) <= f.n {
		return records, Step{Initial: initial, Left: initial}
	}

	kept := records[:f.n]
	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}
}
