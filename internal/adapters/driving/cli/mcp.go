package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/synqanun/synqanun-cli/internal/adapters/driving/mcp"
)

var mcpAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server so AI assistants can retrieve
law articles, judgments and fatwas from the local index.

By default the server speaks JSON-RPC over stdio. Use --addr to serve
streamable HTTP instead.

Examples:
  # Stdio mode
  synqanun mcp serve

  # HTTP mode
  synqanun mcp serve --addr 127.0.0.1:8080

Assistant configuration:
  {
    "mcpServers": {
      "synqanun": {
        "command": "/path/to/synqanun",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().StringVar(&mcpAddr, "addr", "", "HTTP listen address (empty = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	svc, err := ensureServices()
	if err != nil {
		return err
	}
	if svc.Search == nil {
		return errors.New("search service not configured")
	}

	if err := prepareIndex(cmd.Context(), cmd, svc, svc.Settings.Search.AutoIngest); err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Search:  svc.Search,
		Chunker: svc.Chunker,
		Corpus:  svc.Settings.Corpus,
	})
	if err != nil {
		return err
	}

	if mcpAddr != "" {
		cmd.PrintErrf("MCP server listening on http://%s\n", mcpAddr)
		return server.RunHTTP(cmd.Context(), mcpAddr)
	}

	// stdout belongs to the protocol
	return server.Run(cmd.Context())
}
