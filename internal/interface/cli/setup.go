package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var setupBaseURL string

var setupCmd = &cobra.Command{
	Use:   "setup <source> <destination>",
	Short: "Set the source and destination branches",
	Long: `Set up the current session. All later commands use these values.

The source is the branch revisions are merged from (a URL or ^/path), the
destination is the working copy or URL they are merged into.

Examples:
  svncherrypicker setup ^/trunk .
  svncherrypicker setup https://svn.example.com/repo/trunk /work/release-2.x`,
	Args: cobra.ExactArgs(2),
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.Flags().StringVar(&setupBaseURL, "base-url", "", "Repository root URL (informational)")
}

func runSetup(cmd *cobra.Command, args []string) error {
	p, closeFn, err := openPicker(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	session, err := p.Setup(args[0], args[1], setupBaseURL)
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render("Current session saved"))
	fmt.Printf("Source:      %s\n", session.Source)
	fmt.Printf("Destination: %s\n", session.Destination)
	return nil
}
