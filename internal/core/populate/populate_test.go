package populate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/kksharma1618/svncherrypicker/internal/core/models"
)

type fakeFetcher struct {
	mu      sync.Mutex
	fail    map[int64]error
	missing map[int64]bool
	block   map[int64]bool
	fetched []int64
}

func (f *fakeFetcher) FetchRevision(ctx context.Context, rev int64, url string) (*models.Revision, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, rev)
	f.mu.Unlock()

	if f.block[rev] {
		<-ctx.Done()
		return nil, fmt.Errorf("svn log failed: %w", ctx.Err())
	}
	if err := f.fail[rev]; err != nil {
		return nil, err
	}
	if f.missing[rev] {
		return nil, nil
	}
	return &models.Revision{Rev: rev, Author: "svn", Paths: []string{url + "/file"}}, nil
}

type recordingProgress struct {
	updates  []int
	reused   int
	finished bool
}

func (p *recordingProgress) Update(done, total int, rev int64, reused bool) {
	p.updates = append(p.updates, done)
	if reused {
		p.reused++
	}
}

func (p *recordingProgress) Finish() {
	p.finished = true
}

func TestRun_ReusesEntriesWithPaths(t *testing.T) {
	fetcher := &fakeFetcher{}
	progress := &recordingProgress{}
	previous := map[int64]models.Revision{
		1: {Rev: 1, Author: "alice", Paths: []string{"/a"}},
		2: {Rev: 2, Author: "bob", Paths: nil}, // no paths, must be refetched
	}

	res, err := Run(context.Background(), fetcher, "^/trunk", []int64{1, 2, 3}, previous, Options{Workers: 2, Progress: progress})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Reused != 1 || res.Fetched != 2 {
		t.Errorf("Reused=%d Fetched=%d, want 1 and 2", res.Reused, res.Fetched)
	}
	if res.Revisions[1].Author != "alice" {
		t.Errorf("r1 should be reused, got %+v", res.Revisions[1])
	}
	if res.Revisions[2].Author != "svn" {
		t.Errorf("r2 should be refetched, got %+v", res.Revisions[2])
	}
	if len(res.Revisions) != 3 {
		t.Errorf("expected 3 revisions, got %d", len(res.Revisions))
	}

	if diff := cmp.Diff([]int{1, 2, 3}, progress.updates); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
	if progress.reused != 1 || !progress.finished {
		t.Errorf("unexpected progress state %+v", progress)
	}
}

func TestRun_FailureAbortsWithoutResult(t *testing.T) {
	boom := errors.New("connection refused")
	fetcher := &fakeFetcher{fail: map[int64]error{5: boom, 8: boom}}

	ids := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	res, err := Run(context.Background(), fetcher, "u", ids, nil, Options{Workers: 3})
	if res != nil {
		t.Errorf("expected no result on failure, got %+v", res)
	}

	var fe *models.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("FetchError should wrap the cause, got %v", err)
	}
	if fe.Rev != 5 && fe.Rev != 8 {
		t.Errorf("unexpected failing revision r%d", fe.Rev)
	}
}

func TestRun_ReportsFailureOverCancelledFetches(t *testing.T) {
	authErr := errors.New("svn: E170013: authentication failed")
	fetcher := &fakeFetcher{
		block: map[int64]bool{1: true},
		fail:  map[int64]error{2: authErr},
	}

	_, err := Run(context.Background(), fetcher, "u", []int64{1, 2}, nil, Options{Workers: 2})

	var fe *models.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Rev != 2 || !errors.Is(err, authErr) {
		t.Errorf("expected the r2 failure, got %v", err)
	}
	if errors.Is(err, context.Canceled) {
		t.Errorf("cancellation of r1 should not be reported: %v", err)
	}
}

func TestOutranks(t *testing.T) {
	failure := errors.New("svn: E160013: path not found")
	canceled := fmt.Errorf("svn log failed: %w", context.Canceled)

	tests := []struct {
		name string
		a, b fetchResult
		want bool
	}{
		{"failure over earlier cancellation", fetchResult{index: 3, err: failure}, fetchResult{index: 0, err: canceled}, true},
		{"cancellation never over failure", fetchResult{index: 0, err: canceled}, fetchResult{index: 3, err: failure}, false},
		{"earlier failure wins", fetchResult{index: 1, err: failure}, fetchResult{index: 2, err: failure}, true},
		{"later failure loses", fetchResult{index: 2, err: failure}, fetchResult{index: 1, err: failure}, false},
		{"earlier cancellation wins among cancellations", fetchResult{index: 0, err: canceled}, fetchResult{index: 1, err: canceled}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outranks(tt.a, tt.b); got != tt.want {
				t.Errorf("outranks() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRun_MissingEntry(t *testing.T) {
	fetcher := &fakeFetcher{missing: map[int64]bool{2: true}}

	_, err := Run(context.Background(), fetcher, "u", []int64{1, 2}, nil, Options{Workers: 1})

	var nf *models.NotFoundError
	if !errors.As(err, &nf) || nf.Rev != 2 {
		t.Errorf("expected NotFoundError for r2, got %v", err)
	}
}

func TestRun_Empty(t *testing.T) {
	res, err := Run(context.Background(), &fakeFetcher{}, "u", nil, nil, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Revisions) != 0 {
		t.Errorf("expected no revisions, got %d", len(res.Revisions))
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{}
	_, err := Run(ctx, fetcher, "u", []int64{1, 2, 3, 4, 5, 6}, nil, Options{Workers: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(fetcher.fetched) != 0 {
		t.Errorf("no fetch should run after cancellation, got %v", fetcher.fetched)
	}
}

func TestProgressReporter(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)

	p.Update(1, 2, 10, true)
	p.Update(2, 2, 11, false)
	p.Finish()

	out := buf.String()
	for _, want := range []string{"(1/2)", "(2/2)", "r10 cached", "r11 fetched", "2 revisions (1 cached, 1 fetched)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestProgressReporterSpinner(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)

	p.Wait("Asking svn for eligible revisions")
	time.Sleep(100 * time.Millisecond)
	p.Update(1, 1, 7, false)
	p.Finish()

	out := buf.String()
	if !strings.Contains(out, "Asking svn for eligible revisions") {
		t.Errorf("spinner message missing:\n%s", out)
	}
	spin := strings.Index(out, "\r\033[K")
	bar := strings.Index(out, "(1/1)")
	if spin < 0 || bar < 0 || spin > bar {
		t.Errorf("spinner should be cleared before the bar is drawn:\n%q", out)
	}
}

func TestSpinnerStopTwice(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "working")
	s.Start()
	s.Stop()
	s.Stop()

	if !strings.HasSuffix(buf.String(), "\r\033[K") {
		t.Errorf("expected the line to be cleared, got %q", buf.String())
	}
}
