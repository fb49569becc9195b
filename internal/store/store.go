// Package store owns the persistent, identity-keyed collection of job
// records. The whole collection lives in one JSON document which is read
// fully at the start of a run and replaced at the end.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jobradar/jobradar/internal/job"

	"go.uber.org/zap"
)

// DatabaseFile is the store document name under the storage root.
const DatabaseFile = "jobs_database.json"

// Store reads and writes the collection at a fixed path. Single writer: there
// is no locking protocol, concurrent runs against the same path are not
// supported.
type Store struct {
	path   string
	logger *zap.Logger
}

func New(storageRoot string, logger *zap.Logger) *Store {
	return &Store{
		path:   filepath.Join(storageRoot, DatabaseFile),
		logger: logger,
	}
}

func (s *Store) Path() string { return s.path }

// Load returns the persisted collection. A missing file means an empty store.
// An unreadable or unparsable file is logged and also degrades to an empty
// store rather than failing the run.
func (s *Store) Load() []job.Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("store file does not exist yet", zap.String("path", s.path))
			return nil
		}
		s.logger.Warn("store file is unreadable, starting empty",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return nil
	}

	var records []job.Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("store file is unparsable, starting empty",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return nil
	}

	return records
}

// Save serializes the full collection. The document is written to a temp file
// in the same directory and renamed into place, so a failed write never
// leaves a truncated store behind.
func (s *Store) Save(records []job.Record) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	tmp, err := os.CreateTemp(dir, DatabaseFile+".*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp store file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace store file: %w", err)
	}

	return nil
}
