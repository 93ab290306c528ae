package picker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kksharma1618/svncherrypicker/internal/core/models"
	"github.com/kksharma1618/svncherrypicker/internal/core/populate"
)

// Populate refreshes the revision cache of the current session from the
// repository. The stored cache is replaced only when every eligible
// revision was resolved. Picked ids that are still eligible survive the
// refresh; the last filter result is reset.
func (p *Picker) Populate(ctx context.Context, progress populate.Progress) (*models.Cache, error) {
	if p.source == nil {
		return nil, errors.New("no revision source configured")
	}

	session, err := p.Session()
	if err != nil {
		return nil, err
	}
	fingerprint := session.Fingerprint()

	ids, err := p.source.EligibleRevisions(ctx, session.Source, session.Destination)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible revisions: %w", err)
	}
	slog.Info("eligible revisions found", "count", len(ids))

	previous, err := p.store.LoadCache(fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	var prevRevisions map[int64]models.Revision
	if previous != nil {
		prevRevisions = previous.Revisions
	}

	result, err := populate.Run(ctx, p.source, session.Source, ids, prevRevisions, populate.Options{
		Workers:  p.opts.Workers,
		Progress: progress,
	})
	if err != nil {
		return nil, err
	}

	cache := models.NewCache(session)
	cache.Revisions = result.Revisions
	cache.PopulatedAt = p.opts.Now()
	if previous != nil {
		cache.PickedRevisions = stillEligible(previous.PickedRevisions, result.Revisions)
	}

	if err := p.saveCache(session, cache); err != nil {
		return nil, err
	}
	slog.Debug("populate finished", "reused", result.Reused, "fetched", result.Fetched)
	return cache, nil
}

func stillEligible(picked []int64, revisions map[int64]models.Revision) []int64 {
	var kept []int64
	for _, id := range picked {
		if _, ok := revisions[id]; ok {
			kept = append(kept, id)
		}
	}
	return kept
}
