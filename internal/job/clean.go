package job

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// noiseFields are board columns that carry no signal for matching. The raw
// id is kept: the merge needs it for deduplication.
var noiseFields = []string{
	"site",
	"job_url", "job_url_direct",
	"job_type", "salary_source", "interval", "min_amount", "max_amount",
	"currency", "is_remote", "listing_type", "vacancy_count", "work_from_home_type",
	"emails",
	"company_url", "company_logo", "company_url_direct", "company_addresses",
	"company_num_employees", "company_revenue", "company_rating", "company_reviews_count",
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)

// Clean normalizes raw board items before they enter the store. Order of
// operations: drop noise fields, lowercase strings, remove exact-duplicate
// rows, strip non-alphanumeric characters.
func Clean(items []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		row := make(map[string]any, len(item))
		for k, v := range item {
			row[k] = v
		}

		for _, field := range noiseFields {
			delete(row, field)
		}

		for k, v := range row {
			if s, ok := v.(string); ok {
				row[k] = strings.ToLower(s)
			}
		}

		key := rowKey(row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		for k, v := range row {
			if s, ok := v.(string); ok {
				row[k] = nonAlnum.ReplaceAllString(s, "")
			}
		}

		out = append(out, row)
	}

	return out
}

// rowKey builds a canonical representation for full-row equality. JSON
// marshaling sorts map keys, so equal rows always produce equal keys.
func rowKey(row map[string]any) string {
	data, err := json.Marshal(row)
	if err != nil {
		return ""
	}
	return string(data)
}

// Decode converts cleaned raw items into typed records. Unknown fields are
// ignored.
func Decode(items []map[string]any) ([]Record, error) {
	var records []Record

	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           &records,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, err
	}

	return records, nil
}
