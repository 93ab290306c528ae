package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kksharma1618/svncherrypicker/internal/core/populate"
	"github.com/kksharma1618/svncherrypicker/internal/core/svn"
)

var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Cache the revisions eligible for merging",
	Long: `Find the revisions of the source branch not yet merged into the
destination and cache their log details for fast filtering.

Revisions already cached with their changed paths are reused, the rest are
fetched with svn log. Depending on the number of eligible revisions this can
take a while. The cache is only replaced when every revision was fetched.`,
	Args: cobra.NoArgs,
	RunE: runPopulate,
}

func init() {
	rootCmd.AddCommand(populateCmd)
}

func runPopulate(cmd *cobra.Command, args []string) error {
	p, closeFn, err := openPicker(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	session, err := p.Session()
	if err != nil {
		return err
	}
	fmt.Printf("Finding unmerged revisions from %s to %s\n", session.Source, session.Destination)

	progress := populate.NewProgressReporter(os.Stdout)
	progress.Wait("Asking svn for eligible revisions")
	cache, err := p.Populate(cmd.Context(), progress)
	progress.Stop()
	if err != nil {
		fmt.Println()
		return populateError(err)
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("%d unmerged revisions found", len(cache.Revisions))))
	return nil
}

// populateError adds a hint to failures the user can act on
func populateError(err error) error {
	if svn.IsNotFound(err) {
		return fmt.Errorf("populate failed: %w (svn log has no entry for it under the source; check that the source URL is the branch root)", err)
	}
	return fmt.Errorf("populate failed: %w", err)
}
