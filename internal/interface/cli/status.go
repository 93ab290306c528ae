package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kksharma1618/svncherrypicker/internal/core/config"
	"github.com/kksharma1618/svncherrypicker/internal/core/db"
	"github.com/kksharma1618/svncherrypicker/internal/core/models"
	"github.com/kksharma1618/svncherrypicker/internal/core/picker"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session and pick list",
	Long: `Display the current session, the state of its revision cache and the
pick list. With the sqlite backend, statistics across all stored caches are
shown as well.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	p, closeFn, err := openPicker(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	st, err := p.Status()
	if errors.Is(err, models.ErrNoSession) {
		fmt.Println("No session. Run 'svncherrypicker setup <source> <destination>' first.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println("Session")
	fmt.Println("=======")
	fmt.Printf("Source:       %s\n", st.Session.Source)
	fmt.Printf("Destination:  %s\n", st.Session.Destination)
	if st.Session.BaseURL != "" {
		fmt.Printf("Base URL:     %s\n", st.Session.BaseURL)
	}
	fmt.Printf("Fingerprint:  %s\n", metaStyle.Render(st.Fingerprint))
	fmt.Println()

	if !st.Populated {
		fmt.Println("Not populated. Run 'svncherrypicker populate'.")
		return nil
	}

	fmt.Printf("Eligible revisions: %d\n", st.Revisions)
	if !st.PopulatedAt.IsZero() {
		fmt.Printf("Populated:          %s\n", humanize.Time(st.PopulatedAt))
	}
	fmt.Printf("Last filter:        %d revisions\n", len(st.LastFilter))
	fmt.Printf("Picked:             %s\n", picker.FormatIDs(st.Picked))

	if cfg.Backend == config.BackendSQLite {
		if err := printStoreStats(); err != nil {
			return err
		}
	}
	return nil
}

func printStoreStats() error {
	database, err := db.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	stats, err := database.GetStats()
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	fmt.Println()
	fmt.Println("Database Statistics")
	fmt.Println("===================")
	fmt.Printf("Caches:      %d\n", stats.TotalCaches)
	fmt.Printf("Revisions:   %d\n", stats.TotalRevisions)
	fmt.Printf("Picked:      %d\n", stats.TotalPicked)
	if !stats.OldestRevision.IsZero() {
		fmt.Printf("Oldest:      %s\n", stats.OldestRevision.Local().Format("Jan 2, 2006 3:04 PM"))
		fmt.Printf("Newest:      %s\n", stats.NewestRevision.Local().Format("Jan 2, 2006 3:04 PM"))
	}
	if stats.MostActiveAuthor != "" {
		fmt.Printf("Top author:  %s (%d revisions)\n", stats.MostActiveAuthor, stats.MostActiveAuthorCount)
	}

	if info, err := os.Stat(database.Path()); err == nil {
		fmt.Printf("Size:        %s\n", humanize.Bytes(uint64(info.Size())))
	}
	return nil
}
