package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kksharma1618/svncherrypicker/internal/core/filter"
	"github.com/kksharma1618/svncherrypicker/internal/core/models"
	"github.com/kksharma1618/svncherrypicker/internal/core/picker"
	"github.com/kksharma1618/svncherrypicker/internal/core/populate"
)

// Picker is the part of picker.Picker exposed as MCP tools
type Picker interface {
	Setup(source, destination, baseURL string) (*models.Session, error)
	Status() (*picker.Status, error)
	Populate(ctx context.Context, progress populate.Progress) (*models.Cache, error)
	FilterQuery(q filter.Query, opts picker.FilterOptions) ([]models.Revision, error)
	Picked() ([]models.Revision, error)
	Pick(selector string) ([]int64, error)
	Unpick(selector string) ([]int64, error)
	MergeCommand() (string, error)
}

// SetupSessionArgs defines arguments for the setup_session tool
type SetupSessionArgs struct {
	Source      string `json:"source" jsonschema:"description=Merge source: URL or path of the branch to merge from,required"`
	Destination string `json:"destination" jsonschema:"description=Merge destination: working copy path or URL,required"`
	BaseURL     string `json:"base_url,omitempty" jsonschema:"description=Repository root URL, informational and available to merge templates"`
}

// FilterRevisionsArgs defines arguments for the filter_revisions tool
type FilterRevisionsArgs struct {
	filter.Query
	Limit int `json:"limit,omitempty" jsonschema:"description=Max revisions to return (default: 50)"`
}

// SelectorArgs defines arguments for the pick_revisions and unpick_revisions tools
type SelectorArgs struct {
	Revisions string `json:"revisions" jsonschema:"description=Comma separated revision numbers, last or all"`
}

// RevisionResult is a revision in tool output
type RevisionResult struct {
	Rev     int64    `json:"rev"`
	Author  string   `json:"author"`
	Date    string   `json:"date"`
	Paths   []string `json:"paths"`
	Message string   `json:"message"`
}

// NewServer creates an MCP server exposing the cherry-pick workflow
func NewServer(p Picker, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"svncherrypicker",
		version,
	)

	statusTool := mcp.NewTool("get_status",
		mcp.WithDescription("Show the current session (source and destination branch), whether its revision cache is populated, and the pick list"),
	)
	s.AddTool(statusTool, makeStatusHandler(p))

	setupTool := mcp.NewTool("setup_session",
		mcp.WithDescription("Set the source and destination of the merge. Replaces the current session; caches of other sessions are kept."),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Branch to merge from, e.g. '^/trunk' or a full URL")),
		mcp.WithString("destination",
			mcp.Required(),
			mcp.Description("Working copy or branch to merge into")),
		mcp.WithString("base_url",
			mcp.Description("Repository root URL, informational and available to merge templates")),
	)
	s.AddTool(setupTool, makeSetupHandler(p))

	populateTool := mcp.NewTool("populate_revisions",
		mcp.WithDescription("Ask svn which revisions of source are not yet merged into destination and cache their log metadata. Required before filtering or picking. Can take a while on large branches."),
	)
	s.AddTool(populateTool, makePopulateHandler(p))

	filterTool := mcp.NewTool("filter_revisions",
		mcp.WithDescription("Filter the cached unmerged revisions. All given criteria must match. The matches are remembered so pick_revisions with 'last' picks them."),
		mcp.WithString("author",
			mcp.Description("Exact author name")),
		mcp.WithString("message",
			mcp.Description("Commit message: case-insensitive text, 'r:<regex>' or 'r:f:<flags>:<regex>'")),
		mcp.WithString("paths",
			mcp.Description("Changed paths: text, 'r:<regex>' or 'g:<glob>' such as 'g:**/*.go'")),
		mcp.WithString("date",
			mcp.Description("Revisions committed on this day (yyyy-mm-dd)")),
		mcp.WithString("date_before",
			mcp.Description("Revisions committed before this day (yyyy-mm-dd)")),
		mcp.WithString("date_after",
			mcp.Description("Revisions committed after this day (yyyy-mm-dd)")),
		mcp.WithNumber("rev_after",
			mcp.Description("Revisions with a greater number")),
		mcp.WithNumber("rev_before",
			mcp.Description("Revisions with a smaller number")),
		mcp.WithNumber("limit",
			mcp.Description("Max revisions to return (default: 50). The total match count is always reported.")),
	)
	s.AddTool(filterTool, makeFilterHandler(p))

	pickedTool := mcp.NewTool("get_picked_revisions",
		mcp.WithDescription("List the picked revisions with their details"),
	)
	s.AddTool(pickedTool, makePickedHandler(p))

	pickTool := mcp.NewTool("pick_revisions",
		mcp.WithDescription("Add revisions to the pick list. Accepts comma separated numbers or 'last' for the most recent filter matches. Empty returns the list unchanged."),
		mcp.WithString("revisions",
			mcp.Description("e.g. '1204,1210' or 'last'")),
	)
	s.AddTool(pickTool, makeSelectorHandler(p.Pick))

	unpickTool := mcp.NewTool("unpick_revisions",
		mcp.WithDescription("Remove revisions from the pick list. Accepts comma separated numbers, 'last' or 'all'."),
		mcp.WithString("revisions",
			mcp.Required(),
			mcp.Description("e.g. '1204', 'last' or 'all'")),
	)
	s.AddTool(unpickTool, makeSelectorHandler(p.Unpick))

	mergeTool := mcp.NewTool("get_merge_command",
		mcp.WithDescription("Build the svn merge command for the picked revisions. The command is not run."),
	)
	s.AddTool(mergeTool, makeMergeCommandHandler(p))

	return s
}

// StartServer serves the tools over stdio until the client disconnects
func StartServer(p Picker, version string) error {
	return server.ServeStdio(NewServer(p, version))
}

type toolHandler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// decodeArgs converts the raw tool arguments into args
func decodeArgs(request mcp.CallToolRequest, args any) error {
	if request.Params.Arguments == nil {
		return nil
	}
	argsBytes, err := json.Marshal(request.Params.Arguments)
	if err != nil {
		return err
	}
	return json.Unmarshal(argsBytes, args)
}

// jsonResult returns v as the tool's text content
func jsonResult(v any) (*mcp.CallToolResult, error) {
	resultJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

// errorResult reports workflow errors to the client with a hint on what to do next
func errorResult(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, models.ErrNoSession):
		return mcp.NewToolResultError("no session: call setup_session first")
	case errors.Is(err, models.ErrCachePopulationRequired), errors.Is(err, models.ErrEmptyCache):
		return mcp.NewToolResultError(err.Error() + ": call populate_revisions first")
	}
	return mcp.NewToolResultError(err.Error())
}

func toRevisionResults(revs []models.Revision) []RevisionResult {
	results := make([]RevisionResult, 0, len(revs))
	for _, r := range revs {
		paths := r.Paths
		if paths == nil {
			paths = []string{}
		}
		results = append(results, RevisionResult{
			Rev:     r.Rev,
			Author:  r.Author,
			Date:    r.Date.Format(time.RFC3339),
			Paths:   paths,
			Message: r.Message,
		})
	}
	return results
}

func makeStatusHandler(p Picker) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		st, err := p.Status()
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(st)
	}
}

func makeSetupHandler(p Picker) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args SetupSessionArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		session, err := p.Setup(args.Source, args.Destination, args.BaseURL)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(map[string]any{
			"session":     session,
			"fingerprint": session.Fingerprint(),
		})
	}
}

func makePopulateHandler(p Picker) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cache, err := p.Populate(ctx, nil)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(map[string]any{
			"revisions": len(cache.Revisions),
			"picked":    cache.PickedRevisions,
		})
	}
}

func makeFilterHandler(p Picker) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args FilterRevisionsArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		limit := args.Limit
		if limit <= 0 {
			limit = 50
		}

		revs, err := p.FilterQuery(args.Query, picker.FilterOptions{})
		if err != nil {
			return errorResult(err), nil
		}

		total := len(revs)
		if len(revs) > limit {
			revs = revs[:limit]
		}
		return jsonResult(map[string]any{
			"total":     total,
			"revisions": toRevisionResults(revs),
		})
	}
}

func makePickedHandler(p Picker) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		revs, err := p.Picked()
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(map[string]any{
			"revisions": toRevisionResults(revs),
		})
	}
}

func makeSelectorHandler(apply func(string) ([]int64, error)) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args SelectorArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		picked, err := apply(args.Revisions)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(map[string]any{
			"picked": picked,
		})
	}
}

func makeMergeCommandHandler(p Picker) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		command, err := p.MergeCommand()
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(map[string]any{
			"command": command,
		})
	}
}
