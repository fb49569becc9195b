// Package export writes record collections to JSON or CSV files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/jobradar/jobradar/internal/job"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Write serializes records to path in the requested format.
func Write(records []job.Record, format, path string) error {
	switch format {
	case FormatJSON:
		return writeJSON(records, path)
	case FormatCSV:
		return writeCSV(records, path)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func writeJSON(records []job.Record, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeCSV(records []job.Record, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"id", "title", "company", "location", "similarity"}); err != nil {
		return err
	}

	for _, rec := range records {
		similarity := ""
		if rec.HasSimilarity() {
			similarity = strconv.FormatFloat(*rec.Similarity, 'f', 4, 64)
		}
		row := []string{rec.ID, rec.Title, rec.Company, rec.Location, similarity}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
