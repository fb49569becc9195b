package job

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	records := []Record{
		{ID: "1", Company: "acme", Location: "berlin", Embedding: []float64{1}},
		{ID: "2", Company: "acme", Location: "hamburg"},
		{ID: "3", Company: "globex", Location: "berlin"},
	}
	records[0].SetSimilarity(0.8)
	records[2].SetSimilarity(0.2)

	s := Summarize(records, 2)

	if s.Total != 3 || s.WithEmbedding != 1 || s.WithSimilarity != 2 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if math.Abs(s.AvgSimilarity-0.5) > 1e-9 {
		t.Fatalf("avg = %f", s.AvgSimilarity)
	}
	if s.MaxSimilarity != 0.8 || s.MinSimilarity != 0.2 {
		t.Fatalf("min/max = %f/%f", s.MinSimilarity, s.MaxSimilarity)
	}

	if len(s.TopCompanies) != 2 || s.TopCompanies[0].Name != "acme" || s.TopCompanies[0].Count != 2 {
		t.Fatalf("top companies: %+v", s.TopCompanies)
	}
	if s.TopLocations[0].Name != "berlin" || s.TopLocations[1].Name != "hamburg" {
		t.Fatalf("top locations: %+v", s.TopLocations)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 5)
	if s.Total != 0 || s.AvgSimilarity != 0 || len(s.TopCompanies) != 0 {
		t.Fatalf("unexpected summary for empty input: %+v", s)
	}
}
