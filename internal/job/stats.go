package job

import "sort"

// Summary aggregates store-wide statistics for the stats report.
type Summary struct {
	Total          int
	WithEmbedding  int
	WithSimilarity int

	AvgSimilarity float64
	MaxSimilarity float64
	MinSimilarity float64

	TopCompanies []NameCount
	TopLocations []NameCount
}

type NameCount struct {
	Name  string
	Count int
}

// Summarize computes statistics over the full collection. Similarity
// aggregates cover only records that carry a score.
func Summarize(records []Record, topN int) Summary {
	s := Summary{Total: len(records)}

	companies := make(map[string]int)
	locations := make(map[string]int)

	var sum float64
	for i := range records {
		r := &records[i]
		if r.HasEmbedding() {
			s.WithEmbedding++
		}
		if r.HasSimilarity() {
			v := *r.Similarity
			if s.WithSimilarity == 0 {
				s.MaxSimilarity = v
				s.MinSimilarity = v
			}
			if v > s.MaxSimilarity {
				s.MaxSimilarity = v
			}
			if v < s.MinSimilarity {
				s.MinSimilarity = v
			}
			sum += v
			s.WithSimilarity++
		}
		if r.Company != "" {
			companies[r.Company]++
		}
		if r.Location != "" {
			locations[r.Location]++
		}
	}

	if s.WithSimilarity > 0 {
		s.AvgSimilarity = sum / float64(s.WithSimilarity)
	}

	s.TopCompanies = topCounts(companies, topN)
	s.TopLocations = topCounts(locations, topN)

	return s
}

func topCounts(counts map[string]int, n int) []NameCount {
	out := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
