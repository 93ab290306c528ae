package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kksharma1618/svncherrypicker/internal/core/filter"
	"github.com/kksharma1618/svncherrypicker/internal/core/picker"
)

var (
	filterQuery   filter.Query
	filterDisplay string
	filterFields  string
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter the cached revisions",
	Long: `Filter the cached unmerged revisions. All given criteria must match.

The matched revisions are remembered, "pick last" adds them to the pick list.

Message and path patterns:
  text           case-insensitive substring
  r:<regex>      regular expression, e.g. "r:^fix"
  r:f:<f>:<re>   regular expression with flags i, m or s, e.g. "r:f:i:fix"
  g:<glob>       glob, paths only, e.g. "g:*.js" or "g:/trunk/docs/**"

Dates are yyyy-mm-dd (or expressions like "yesterday") and compared by
calendar day. Before/after comparisons exclude the given day.

Examples:
  svncherrypicker filter -a alice
  svncherrypicker filter -p "g:*.go" -y 2024-01-31 -c c
  svncherrypicker filter -m "r:f:i:^hotfix" -u a,m`,
	Args: cobra.NoArgs,
	RunE: runFilter,
}

func init() {
	rootCmd.AddCommand(filterCmd)
	f := filterCmd.Flags()
	f.StringVarP(&filterQuery.Author, "author", "a", "", "Filter by author, exact match")
	f.StringVarP(&filterQuery.Message, "message", "m", "", "Filter by message: text, r:<regex> or r:f:<flags>:<regex>")
	f.StringVarP(&filterQuery.Paths, "paths", "p", "", "Filter by changed paths: text, r:<regex> or g:<glob>")
	f.StringVarP(&filterQuery.DateBefore, "date-before", "z", "", "Revisions before this date (yyyy-mm-dd)")
	f.StringVarP(&filterQuery.DateAfter, "date-after", "y", "", "Revisions after this date (yyyy-mm-dd)")
	f.StringVarP(&filterQuery.Date, "date", "d", "", "Revisions on this date (yyyy-mm-dd)")
	f.Int64VarP(&filterQuery.RevAfter, "rev-after", "x", 0, "Revisions after this revision number")
	f.Int64VarP(&filterQuery.RevBefore, "rev-before", "w", 0, "Revisions before this revision number")
	f.StringVarP(&filterDisplay, "display", "c", "", `Output: "c" count, "t" table, "j" json, "y" yaml`)
	f.StringVarP(&filterFields, "fields", "u", "", `Fields to show, "a,d,p,m" = author,date,paths,message`)
}

func runFilter(cmd *cobra.Command, args []string) error {
	p, closeFn, err := openPicker(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	revs, err := p.FilterQuery(filterQuery, picker.FilterOptions{})
	if err != nil {
		return err
	}

	return renderRevisions(os.Stdout, revs, displayOr(filterDisplay), fieldsOr(filterFields), "%d matched revisions", time.Local)
}

func displayOr(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Display
}

func fieldsOr(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Fields
}
