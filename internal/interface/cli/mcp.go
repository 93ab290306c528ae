package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kksharma1618/svncherrypicker/cmd/svncherrypicker/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start MCP server for assistant integration",
	Long: `Start an MCP (Model Context Protocol) server over stdio that exposes the
cherry-pick workflow as tools: session setup, populate, filter, pick, unpick
and the merge command.

Configure in your MCP client's config file:
  {
    "mcpServers": {
      "svncherrypicker": {
        "command": "svncherrypicker",
        "args": ["serve-mcp"]
      }
    }
  }
`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	p, closeFn, err := openPicker(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := mcp.StartServer(p, rootCmd.Version); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
