package job

import (
	"fmt"
	"strings"
)

// Record is one job posting in the local schema. ID is the stable external
// identifier used for deduplication. Embedding and Similarity are enrichment
// fields: a nil Embedding means the record has not been embedded yet, a nil
// Similarity means it has not been scored yet.
type Record struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	DatePosted  string `json:"date_posted,omitempty"`

	Embedding  []float64 `json:"embedding,omitempty"`
	Similarity *float64  `json:"similarity,omitempty"`
}

func (r *Record) HasEmbedding() bool {
	return len(r.Embedding) > 0
}

func (r *Record) HasSimilarity() bool {
	return r.Similarity != nil
}

func (r *Record) SetSimilarity(v float64) {
	r.Similarity = &v
}

// Clone returns a deep copy. The enrichment slices are copied so mutating the
// clone never leaks into the original.
func (r Record) Clone() Record {
	out := r
	if r.Embedding != nil {
		out.Embedding = append([]float64(nil), r.Embedding...)
	}
	if r.Similarity != nil {
		v := *r.Similarity
		out.Similarity = &v
	}
	return out
}

// Text renders the record into the free-text form used as embedding input.
func (r *Record) Text() string {
	parts := make([]string, 0, 4)
	for _, s := range []string{r.Title, r.Company, r.Location, r.Description} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func (r *Record) String() string {
	return fmt.Sprintf("%s (%s)", r.Title, r.ID)
}

// IDs returns the set of non-empty record IDs.
func IDs(records []Record) map[string]struct{} {
	ids := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.ID != "" {
			ids[r.ID] = struct{}{}
		}
	}
	return ids
}

// FilterByID returns the records whose ID is present in the given set,
// preserving order.
func FilterByID(records []Record, ids map[string]struct{}) []Record {
	out := make([]Record, 0, len(ids))
	for _, r := range records {
		if _, ok := ids[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}
