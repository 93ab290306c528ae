package picker

import (
	"fmt"
	"time"

	"github.com/kksharma1618/svncherrypicker/internal/core/models"
)

// Status summarizes the current session and its cache
type Status struct {
	Session     *models.Session `json:"session"`
	Fingerprint string          `json:"fingerprint"`
	Populated   bool            `json:"populated"`
	Revisions   int             `json:"revisions"`
	Picked      []int64         `json:"picked"`
	LastFilter  []int64         `json:"last_filtered"`
	PopulatedAt time.Time       `json:"populated_at,omitzero"`
}

// Status reports the session and cache state. Unlike the other operations
// it only requires a session; a missing cache is reported, not an error.
func (p *Picker) Status() (*Status, error) {
	session, err := p.Session()
	if err != nil {
		return nil, err
	}

	st := &Status{
		Session:     session,
		Fingerprint: session.Fingerprint(),
		Picked:      []int64{},
		LastFilter:  []int64{},
	}

	cache, err := p.store.LoadCache(st.Fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	if cache == nil {
		return st, nil
	}

	st.Populated = true
	st.Revisions = len(cache.Revisions)
	st.PopulatedAt = cache.PopulatedAt
	if cache.PickedRevisions != nil {
		st.Picked = cache.PickedRevisions
	}
	if cache.LastFilteredRevisions != nil {
		st.LastFilter = cache.LastFilteredRevisions
	}
	return st, nil
}
