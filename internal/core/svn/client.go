// Package svn runs the svn command line client to discover and describe
// revisions that are eligible for merging.
package svn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kksharma1618/svncherrypicker/internal/core/models"
	"github.com/kksharma1618/svncherrypicker/pkg/svnlog"
)

// Runner executes svn with the given arguments and returns its stdout
type Runner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// ExecRunner runs a real svn binary
type ExecRunner struct {
	Binary string
}

// Run executes the binary. Stderr is folded into the returned error.
func (r ExecRunner) Run(ctx context.Context, args ...string) ([]byte, error) {
	bin := r.Binary
	if bin == "" {
		bin = "svn"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// A killed process only says "signal: killed"
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s %s interrupted: %w", bin, args[0], ctxErr)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%s %s failed: %w", bin, args[0], err)
		}
		return nil, fmt.Errorf("%s %s failed: %w: %s", bin, args[0], err, msg)
	}
	return stdout.Bytes(), nil
}

// Options configures a Client
type Options struct {
	Binary   string
	Username string
	Password string
	Runner   Runner // overrides Binary when set
}

// Client talks to a Subversion repository through the svn binary
type Client struct {
	runner   Runner
	username string
	password string
}

// New creates a new client
func New(opts Options) *Client {
	runner := opts.Runner
	if runner == nil {
		runner = ExecRunner{Binary: opts.Binary}
	}
	return &Client{
		runner:   runner,
		username: opts.Username,
		password: opts.Password,
	}
}

// authArgs are appended to every invocation so svn never prompts
func (c *Client) authArgs() []string {
	args := []string{"--non-interactive"}
	if c.username != "" {
		args = append(args, "--username", c.username)
	}
	if c.password != "" {
		args = append(args, "--password", c.password)
	}
	return args
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	slog.Debug("running svn", "args", args)
	return c.runner.Run(ctx, append(args, c.authArgs()...)...)
}

// EligibleRevisions lists the revisions of source not yet merged into destination
func (c *Client) EligibleRevisions(ctx context.Context, source, destination string) ([]int64, error) {
	out, err := c.run(ctx, "mergeinfo", source, destination, "--show-revs", "eligible")
	if err != nil {
		return nil, err
	}

	revs, err := svnlog.ParseEligible(bytes.NewReader(out))
	if err != nil {
		return nil, err
	}
	slog.Debug("eligible revisions", "count", len(revs))
	return revs, nil
}

// FetchRevision loads the verbose log entry of a single revision of url.
// Returns *models.NotFoundError when svn reports no entry for it.
func (c *Client) FetchRevision(ctx context.Context, rev int64, url string) (*models.Revision, error) {
	out, err := c.run(ctx, "log", url, "--revision="+strconv.FormatInt(rev, 10), "--verbose", "--xml")
	if err != nil {
		return nil, err
	}

	entries, err := svnlog.ParseLog(bytes.NewReader(out))
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if entries[i].Revision == rev {
			return toRevision(&entries[i]), nil
		}
	}
	return nil, &models.NotFoundError{Rev: rev}
}

func toRevision(e *svnlog.LogEntry) *models.Revision {
	return &models.Revision{
		Rev:     e.Revision,
		Author:  e.Author,
		Date:    e.Date,
		Paths:   e.PathNames(),
		Message: e.Message,
	}
}

// IsNotFound reports whether err is, or wraps, a missing log entry
func IsNotFound(err error) bool {
	var nf *models.NotFoundError
	return errors.As(err, &nf)
}
