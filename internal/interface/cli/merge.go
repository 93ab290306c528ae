package cli

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var mergeCopy bool

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Print the svn merge command for the picked revisions",
	Long: `Print the merge command for the current session and pick list.

The command is not run. Without picked revisions it merges everything
eligible from source to destination. The format can be changed with
merge_template in the config file.`,
	Args: cobra.NoArgs,
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	mergeCmd.Flags().BoolVar(&mergeCopy, "copy", false, "Also copy the command to the clipboard")
}

func runMerge(cmd *cobra.Command, args []string) error {
	p, closeFn, err := openPicker(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	mergeCommand, err := p.MergeCommand()
	if err != nil {
		return err
	}

	fmt.Println(mergeCommand)

	if mergeCopy {
		if err := clipboard.WriteAll(mergeCommand); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to copy to clipboard: %v\n", err)
			return nil
		}
		fmt.Println(metaStyle.Render("(copied to clipboard)"))
	}
	return nil
}
