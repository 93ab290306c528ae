// Package populate resolves the log metadata of eligible revisions, reusing
// previously cached entries and fetching the rest with a bounded worker pool.
package populate

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/kksharma1618/svncherrypicker/internal/core/models"
)

// DefaultWorkers is the fetch parallelism used when none is configured
const DefaultWorkers = 4

// Fetcher loads the metadata of a single revision
type Fetcher interface {
	FetchRevision(ctx context.Context, rev int64, url string) (*models.Revision, error)
}

// Progress receives one call per resolved revision, from a single goroutine
type Progress interface {
	Update(done, total int, rev int64, reused bool)
	Finish()
}

// Options configures a population run
type Options struct {
	Workers  int
	Progress Progress
}

// Result holds every resolved revision of a successful run
type Result struct {
	Revisions map[int64]models.Revision
	Reused    int
	Fetched   int
}

type fetchResult struct {
	index int
	rev   *models.Revision
	err   error
}

// Run resolves every id in ids. An entry of previous is reused when it has
// at least one changed path; everything else is fetched from url.
// The first failed fetch cancels the remaining ones and is returned as a
// *models.FetchError. No partial result is returned.
func Run(ctx context.Context, fetcher Fetcher, url string, ids []int64, previous map[int64]models.Revision, opts Options) (*Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	result := &Result{Revisions: make(map[int64]models.Revision, len(ids))}
	total := len(ids)
	done := 0

	report := func(rev int64, reused bool) {
		done++
		if opts.Progress != nil {
			opts.Progress.Update(done, total, rev, reused)
		}
	}

	var pending []int
	for i, id := range ids {
		if prev, ok := previous[id]; ok && len(prev.Paths) > 0 {
			result.Revisions[id] = prev
			result.Reused++
			report(id, true)
			continue
		}
		pending = append(pending, i)
	}
	slog.Debug("populate", "total", total, "reused", result.Reused, "to_fetch", len(pending))

	if len(pending) > 0 {
		if err := fetchAll(ctx, fetcher, url, ids, pending, workers, func(r *models.Revision) {
			result.Revisions[r.Rev] = *r
			result.Fetched++
			report(r.Rev, false)
		}); err != nil {
			return nil, err
		}
	}

	if opts.Progress != nil {
		opts.Progress.Finish()
	}
	return result, nil
}

// fetchAll runs the pool over ids[pending...]. onResult is only called
// from the collecting goroutine.
func fetchAll(ctx context.Context, fetcher Fetcher, url string, ids []int64, pending []int, workers int, onResult func(*models.Revision)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if workers > len(pending) {
		workers = len(pending)
	}

	jobs := make(chan int)
	results := make(chan fetchResult, workers)

	// Start worker pool
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					continue
				}
				rev, err := fetcher.FetchRevision(ctx, ids[idx], url)
				if err == nil && rev == nil {
					err = &models.NotFoundError{Rev: ids[idx]}
				}
				results <- fetchResult{index: idx, rev: rev, err: err}
			}
		}()
	}

	// Feed jobs until done or cancelled
	go func() {
		defer close(jobs)
		for _, idx := range pending {
			select {
			case jobs <- idx:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Fetches interrupted by our own cancel only report context.Canceled.
	// A real failure always wins over those, then the earliest revision in
	// list order, so the reported error does not depend on scheduling.
	var firstErr *fetchResult
	received := 0
	for res := range results {
		received++
		if res.err != nil {
			if firstErr == nil || outranks(res, *firstErr) {
				r := res
				firstErr = &r
			}
			cancel()
			continue
		}
		if firstErr == nil {
			onResult(res.rev)
		}
	}

	if firstErr != nil {
		return &models.FetchError{Rev: ids[firstErr.index], Err: firstErr.err}
	}
	// The feeder stopped early because the parent context was cancelled
	if received < len(pending) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return errors.New("population interrupted")
	}
	return nil
}

// outranks reports whether failure a should be reported instead of b
func outranks(a, b fetchResult) bool {
	aCanceled := errors.Is(a.err, context.Canceled)
	bCanceled := errors.Is(b.err, context.Canceled)
	if aCanceled != bCanceled {
		return bCanceled
	}
	return a.index < b.index
}
