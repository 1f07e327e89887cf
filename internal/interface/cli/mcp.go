package cli

import (
	"fmt"

	"github.com/neilberkman/quickchat/cmd/quickchat/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start MCP server exposing chat history",
	Long: `Start an MCP (Model Context Protocol) server over stdio that lets an
MCP client list, read and search your quickchat history. The server is
read-only.

Example client configuration:
  {
    "mcpServers": {
      "quickchat": {
        "command": "quickchat",
        "args": ["serve-mcp"]
      }
    }
  }
`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	store := openStore(loadConfig())
	if err := mcp.StartServer(store, versionInfo); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
