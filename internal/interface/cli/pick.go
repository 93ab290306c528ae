package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	pickFullView bool
	pickDisplay  string
	pickFields   string
)

var pickCmd = &cobra.Command{
	Use:   "pick [revisions]",
	Short: "Add revisions to the pick list",
	Long: `Add revisions to the saved pick list, like items in a shopping cart.

Revisions are a comma separated list ("2,3,4") or "last" for the revisions
matched by the most recent filter. Leave empty to show the current list.

Examples:
  svncherrypicker pick 1204,1210
  svncherrypicker filter -a alice && svncherrypicker pick last
  svncherrypicker pick -f -u a,m`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPick,
}

var unpickCmd = &cobra.Command{
	Use:   "unpick <revisions>",
	Short: "Remove revisions from the pick list",
	Long: `Remove revisions from the saved pick list.

Revisions are a comma separated list ("2,3,4"), "last" for the revisions
matched by the most recent filter, or "all" to clear the list.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUnpick,
}

func init() {
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(unpickCmd)

	pickCmd.Flags().BoolVarP(&pickFullView, "full-view", "f", false, "Show the details of the picked revisions")
	pickCmd.Flags().StringVarP(&pickDisplay, "display", "c", "", `Output: "c" count, "t" table, "j" json, "y" yaml`)
	pickCmd.Flags().StringVarP(&pickFields, "fields", "u", "", `Fields to show, "a,d,p,m" = author,date,paths,message`)
}

func argOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func runPick(cmd *cobra.Command, args []string) error {
	p, closeFn, err := openPicker(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	picked, err := p.Pick(argOrEmpty(args))
	if err != nil {
		return err
	}

	if !pickFullView {
		if pickDisplay == displayCount {
			fmt.Printf("Picked revisions %d\n", len(picked))
			return nil
		}
		fmt.Println(formatPicked(picked))
		return nil
	}

	revs, err := p.Picked()
	if err != nil {
		return err
	}
	return renderRevisions(os.Stdout, revs, displayOr(pickDisplay), fieldsOr(pickFields), "Picked revisions %d", time.Local)
}

func runUnpick(cmd *cobra.Command, args []string) error {
	p, closeFn, err := openPicker(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	picked, err := p.Unpick(argOrEmpty(args))
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render("Done"))
	fmt.Println(formatPicked(picked))
	return nil
}
