package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kksharma1618/svncherrypicker/internal/interface/tui"
)

var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"tui"},
	Short:   "Browse and pick revisions interactively",
	Long: `Launch an interactive terminal UI over the cached unmerged revisions.
Picks made in the browser are saved immediately.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	p, closeFn, err := openPicker(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	model := tui.New(cmd.Context(), p)
	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	// An empty selector reads the saved pick list
	picked, err := p.Pick("")
	if err != nil {
		return err
	}
	fmt.Println(formatPicked(picked))
	return nil
}
