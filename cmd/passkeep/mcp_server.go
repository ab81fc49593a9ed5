package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forest6511/passkeep/internal/mcp"
)

func (a *app) newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Start the MCP server for AI coding assistant integration",
		Long: `Start the MCP server that lets AI coding assistants look up and create
vault entries.

The server implements the Model Context Protocol (MCP) over stdio transport.
Stored passwords are never returned in plaintext.

Available tools:
  - entry_list:        List sites and usernames (no passwords)
  - entry_exists:      Check whether a site has an entry
  - entry_get_masked:  Get an entry with its password masked (e.g. "****WXYZ")
  - password_generate: Generate a password without storing it
  - entry_add:         Generate and store a password, returns it masked

Logs go to stderr; stdout carries the protocol.

Example MCP configuration (~/.claude.json):
  {
    "mcpServers": {
      "passkeep": {
        "type": "stdio",
        "command": "/path/to/passkeep",
        "args": ["mcp-server", "--vault", "/home/me/passwords.json"]
      }
    }
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMCPServer(cmd.Context())
		},
	}
}

func (a *app) runMCPServer(ctx context.Context) error {
	server, err := mcp.NewServer(&mcp.ServerOptions{
		Store:          a.store,
		PasswordLength: a.cfg.PasswordLength,
		Logger:         a.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	// Run the server
	if err := server.Run(ctx); err != nil {
		// Don't report context canceled as an error
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}
