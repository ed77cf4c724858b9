// Package history provides a persistent, append-only record of completed
// benchmark runs so timings can be compared across tool versions over time.
// Records are stored in a local bbolt database keyed by an auto-incrementing
// run ID; cell values are stored already rendered, exactly as reported.
package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/evmbench/evmbench/internal/sysinfo"
)

const runsBucket = "runs"

// Run is one completed benchmark run.
type Run struct {
	ID         uint64            `json:"id"`
	StartedAt  time.Time         `json:"started_at"`
	CorpusPath string            `json:"corpus_path"`
	Host       *sysinfo.Snapshot `json:"host,omitempty"`
	Tools      []string          `json:"tools"`
	Tests      []string          `json:"tests"`

	// Cells holds the rendered report values, Cells[testIndex][toolIndex],
	// each either a millisecond figure or a sentinel string.
	Cells [][]string `json:"cells"`
}

// Store is a bbolt-backed run archive.
type Store struct {
	db *bolt.DB
}

// DefaultPath returns the per-user history location,
// e.g. ~/.local/state/evmbench/history.db.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "evmbench", "history.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".local", "state", "evmbench", "history.db"), nil
}

// Open opens or creates the history database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(runsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Append stores a run under the next sequence ID and sets r.ID.
func (s *Store) Append(r *Run) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(runsBucket))

		id, _ := b.NextSequence()
		r.ID = id

		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		return b.Put(itob(id), data)
	})
}

// Recent returns up to limit runs, newest first. Records that no longer
// decode are skipped but reported, so a corrupt archive shows up as warnings
// rather than a quietly shorter listing.
func (s *Store) Recent(limit int) ([]*Run, error) {
	var runs []*Run

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(runsBucket))
		c := b.Cursor()

		for k, v := c.Last(); k != nil && len(runs) < limit; k, v = c.Prev() {
			var r Run
			if err := json.Unmarshal(v, &r); err != nil {
				slog.Warn("skipping corrupt history record",
					slog.Uint64("id", binary.BigEndian.Uint64(k)),
					slog.String("error", err.Error()),
				)
				continue
			}
			runs = append(runs, &r)
		}
		return nil
	})

	return runs, err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// itob converts uint64 to big-endian bytes for ordered keys.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
