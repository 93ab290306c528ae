// Package store persists the current session and revision caches as JSON
// documents in a data directory.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kksharma1618/svncherrypicker/internal/core/models"
)

const sessionFile = "current_session.json"

// FileStore keeps one JSON file for the session and one per revision cache
type FileStore struct {
	dir string
}

// New creates a file store rooted at dir, creating the directory if needed
func New(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the data directory
func (s *FileStore) Dir() string {
	return s.dir
}

// Close is a no-op, files are never held open
func (s *FileStore) Close() error {
	return nil
}

// CachePath returns the file holding the cache with the given fingerprint
func (s *FileStore) CachePath(fingerprint string) string {
	return filepath.Join(s.dir, "unmerged_revs_"+fingerprint+".json")
}

// LoadSession returns the current session, or (nil, nil) if none was set up
func (s *FileStore) LoadSession() (*models.Session, error) {
	var session models.Session
	found, err := readJSON(filepath.Join(s.dir, sessionFile), &session)
	if err != nil || !found {
		return nil, err
	}
	return &session, nil
}

// SaveSession replaces the current session
func (s *FileStore) SaveSession(session *models.Session) error {
	return writeJSON(filepath.Join(s.dir, sessionFile), session)
}

// LoadCache returns the cache with the given fingerprint, or (nil, nil) if absent
func (s *FileStore) LoadCache(fingerprint string) (*models.Cache, error) {
	var doc cacheDoc
	found, err := readJSON(s.CachePath(fingerprint), &doc)
	if err != nil || !found {
		return nil, err
	}
	return doc.toCache()
}

// SaveCache replaces the whole cache document
func (s *FileStore) SaveCache(fingerprint string, cache *models.Cache) error {
	if err := writeJSON(s.CachePath(fingerprint), newCacheDoc(cache)); err != nil {
		return err
	}
	slog.Debug("cache saved", "fingerprint", fingerprint, "revisions", len(cache.Revisions))
	return nil
}

// cacheDoc is the on-disk layout of a revision cache. Revisions are keyed
// by "r<id>".
type cacheDoc struct {
	Source                string                     `json:"source"`
	Destination           string                     `json:"destination"`
	Revisions             map[string]models.Revision `json:"revisions"`
	LastFilteredRevisions []int64                    `json:"lastFilteredRevisions,omitempty"`
	PickedRevisions       []int64                    `json:"pickedRevisions,omitempty"`
	PopulatedAt           *time.Time                 `json:"populatedAt,omitempty"`
}

func newCacheDoc(c *models.Cache) *cacheDoc {
	doc := &cacheDoc{
		Source:                c.Source,
		Destination:           c.Destination,
		Revisions:             make(map[string]models.Revision, len(c.Revisions)),
		LastFilteredRevisions: c.LastFilteredRevisions,
		PickedRevisions:       c.PickedRevisions,
	}
	for id, rev := range c.Revisions {
		doc.Revisions["r"+strconv.FormatInt(id, 10)] = rev
	}
	if !c.PopulatedAt.IsZero() {
		t := c.PopulatedAt
		doc.PopulatedAt = &t
	}
	return doc
}

func (d *cacheDoc) toCache() (*models.Cache, error) {
	c := &models.Cache{
		Source:                d.Source,
		Destination:           d.Destination,
		Revisions:             make(map[int64]models.Revision, len(d.Revisions)),
		LastFilteredRevisions: d.LastFilteredRevisions,
		PickedRevisions:       d.PickedRevisions,
	}
	for key, rev := range d.Revisions {
		id, err := strconv.ParseInt(strings.TrimPrefix(key, "r"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid revision key %q: %w", key, err)
		}
		if rev.Rev == 0 {
			rev.Rev = id
		}
		c.Revisions[id] = rev
	}
	if d.PopulatedAt != nil {
		c.PopulatedAt = *d.PopulatedAt
	}
	return c, nil
}

// readJSON decodes path into v. A missing file is reported as found=false.
func readJSON(path string, v any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

// writeJSON writes v to a temp file next to path and renames it into place
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize file: %w", err)
	}
	return nil
}
