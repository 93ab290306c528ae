// Package picker implements the cherry-pick workflow on top of a stored
// session and its revision cache: filtering, the pick list, the merge
// command and cache population.
package picker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kksharma1618/svncherrypicker/internal/core/filter"
	"github.com/kksharma1618/svncherrypicker/internal/core/models"
)

// Store persists the current session and per-session revision caches.
// Load methods return (nil, nil) when nothing is stored.
type Store interface {
	LoadSession() (*models.Session, error)
	SaveSession(session *models.Session) error
	LoadCache(fingerprint string) (*models.Cache, error)
	SaveCache(fingerprint string, cache *models.Cache) error
}

// RevisionSource answers merge-tracking and log queries against the repository
type RevisionSource interface {
	EligibleRevisions(ctx context.Context, source, destination string) ([]int64, error)
	FetchRevision(ctx context.Context, rev int64, url string) (*models.Revision, error)
}

// Options configures a Picker
type Options struct {
	// Location used for calendar-day date criteria, time.Local if nil
	Location *time.Location
	// Workers bounds parallel revision fetches during populate
	Workers int
	// MergeTemplate overrides DefaultMergeTemplate
	MergeTemplate string
	// Now returns the current time, time.Now if nil
	Now func() time.Time
}

// Picker runs every operation against state loaded fresh from its Store
type Picker struct {
	store  Store
	source RevisionSource
	opts   Options
}

// New creates a picker. source may be nil when Populate is never called.
func New(store Store, source RevisionSource, opts Options) *Picker {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MergeTemplate == "" {
		opts.MergeTemplate = DefaultMergeTemplate
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Picker{store: store, source: source, opts: opts}
}

// Location returns the time zone date criteria are evaluated in
func (p *Picker) Location() *time.Location {
	return p.opts.Location
}

// Now returns the picker's current time
func (p *Picker) Now() time.Time {
	return p.opts.Now()
}

// Setup replaces the current session
func (p *Picker) Setup(source, destination, baseURL string) (*models.Session, error) {
	session := &models.Session{Source: source, Destination: destination, BaseURL: baseURL}
	if err := session.Validate(); err != nil {
		return nil, err
	}
	if err := p.store.SaveSession(session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	slog.Debug("session saved", "source", source, "destination", destination, "fingerprint", session.Fingerprint())
	return session, nil
}

// Session returns the current session or models.ErrNoSession
func (p *Picker) Session() (*models.Session, error) {
	session, err := p.store.LoadSession()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, models.ErrNoSession
	}
	return session, nil
}

// loadCache enforces the session and populated-cache preconditions
func (p *Picker) loadCache() (*models.Session, *models.Cache, error) {
	session, err := p.Session()
	if err != nil {
		return nil, nil, err
	}

	cache, err := p.store.LoadCache(session.Fingerprint())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load cache: %w", err)
	}
	if cache == nil {
		return nil, nil, models.ErrCachePopulationRequired
	}
	if cache.Empty() {
		return nil, nil, models.ErrEmptyCache
	}
	return session, cache, nil
}

func (p *Picker) saveCache(session *models.Session, cache *models.Cache) error {
	if err := p.store.SaveCache(session.Fingerprint(), cache); err != nil {
		return fmt.Errorf("failed to save cache: %w", err)
	}
	return nil
}

// Cache returns the populated cache of the current session
func (p *Picker) Cache() (*models.Cache, error) {
	_, cache, err := p.loadCache()
	return cache, err
}

// FilterOptions changes the side effects of Filter
type FilterOptions struct {
	// KeepLastFiltered leaves the stored last filter result untouched
	KeepLastFiltered bool
}

// Filter returns the cached revisions matching c in ascending revision
// order and, unless opts.KeepLastFiltered is set, records their ids as the
// last filter result.
func (p *Picker) Filter(c filter.Criteria, opts FilterOptions) ([]models.Revision, error) {
	session, cache, err := p.loadCache()
	if err != nil {
		return nil, err
	}

	revisions := make([]models.Revision, 0, len(cache.Revisions))
	for _, id := range cache.SortedIDs() {
		revisions = append(revisions, cache.Revisions[id])
	}

	matched := filter.Apply(revisions, c, p.opts.Location)
	slog.Debug("filter applied", "revisions", len(revisions), "matched", len(matched))

	if opts.KeepLastFiltered {
		return matched, nil
	}

	cache.LastFilteredRevisions = make([]int64, len(matched))
	for i, r := range matched {
		cache.LastFilteredRevisions[i] = r.Rev
	}
	if err := p.saveCache(session, cache); err != nil {
		return nil, err
	}
	return matched, nil
}

// FilterQuery compiles q and runs Filter with it
func (p *Picker) FilterQuery(q filter.Query, opts FilterOptions) ([]models.Revision, error) {
	c, err := q.Compile(p.opts.Now())
	if err != nil {
		return nil, err
	}
	return p.Filter(c, opts)
}

// Picked returns the cached revisions on the pick list, without changing
// the last filter result. Picked ids that are not in the cache are skipped.
func (p *Picker) Picked() ([]models.Revision, error) {
	_, cache, err := p.loadCache()
	if err != nil {
		return nil, err
	}
	ids := cache.PickedRevisions
	if ids == nil {
		ids = []int64{}
	}
	return p.Filter(filter.Criteria{Revs: ids}, FilterOptions{KeepLastFiltered: true})
}

// Pick adds the revisions named by selector to the pick list and returns
// the resulting list. An empty selector only reads the list.
func (p *Picker) Pick(selector string) ([]int64, error) {
	session, cache, err := p.loadCache()
	if err != nil {
		return nil, err
	}

	picked := cache.PickedRevisions
	if picked == nil {
		picked = []int64{}
	}

	sel := ParseSelector(selector)
	var ids []int64
	switch sel.Kind {
	case SelectorNone:
		return picked, nil
	case SelectorAll:
		return nil, &models.InvalidSelectorError{Selector: sel.Raw}
	case SelectorLast:
		ids = cache.LastFilteredRevisions
	default:
		ids = sel.IDs
	}

	cache.PickedRevisions = appendUnique(picked, ids)
	if err := p.saveCache(session, cache); err != nil {
		return nil, err
	}
	slog.Debug("picked", "added", ids, "total", len(cache.PickedRevisions))
	return cache.PickedRevisions, nil
}

// Unpick removes the revisions named by selector from the pick list and
// returns the resulting list. "all" clears the list.
func (p *Picker) Unpick(selector string) ([]int64, error) {
	session, cache, err := p.loadCache()
	if err != nil {
		return nil, err
	}

	sel := ParseSelector(selector)
	switch sel.Kind {
	case SelectorNone:
		return nil, models.ErrSelectorRequired
	case SelectorAll:
		cache.PickedRevisions = []int64{}
	case SelectorLast:
		cache.PickedRevisions = difference(cache.PickedRevisions, cache.LastFilteredRevisions)
	default:
		cache.PickedRevisions = difference(cache.PickedRevisions, sel.IDs)
	}

	if err := p.saveCache(session, cache); err != nil {
		return nil, err
	}
	slog.Debug("unpicked", "selector", sel.Raw, "total", len(cache.PickedRevisions))
	return cache.PickedRevisions, nil
}
