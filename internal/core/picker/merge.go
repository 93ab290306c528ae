package picker

import (
	"fmt"
	"strings"

	"github.com/cbroglie/mustache"
)

// DefaultMergeTemplate renders "svn merge -c<ids> <source> <destination>",
// omitting -c when nothing is picked.
const DefaultMergeTemplate = `svn merge {{#has_revisions}}-c{{{revisions}}} {{/has_revisions}}{{{source}}} {{{destination}}}`

// MergeCommand renders the command that merges the picked revisions from
// source into destination. The command is never executed.
func (p *Picker) MergeCommand() (string, error) {
	session, cache, err := p.loadCache()
	if err != nil {
		return "", err
	}

	templateData := map[string]interface{}{
		"source":        session.Source,
		"destination":   session.Destination,
		"base_url":      session.BaseURL,
		"revisions":     FormatIDs(cache.PickedRevisions),
		"has_revisions": len(cache.PickedRevisions) > 0,
		"count":         len(cache.PickedRevisions),
	}

	cmd, err := mustache.Render(p.opts.MergeTemplate, templateData)
	if err != nil {
		return "", fmt.Errorf("failed to render merge template: %w", err)
	}
	return strings.TrimSpace(cmd), nil
}
