// Package mcp implements the MCP (Model Context Protocol) server for passkeep.
// Tools describe and create vault entries but never return a stored
// password in plaintext.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/forest6511/passkeep/internal/logging"
	"github.com/forest6511/passkeep/pkg/passgen"
	"github.com/forest6511/passkeep/pkg/vault"
)

// Implementation identity reported to clients.
const (
	ServerName    = "passkeep"
	ServerVersion = "0.1.0"
)

// Server represents the MCP server for passkeep.
type Server struct {
	server        *mcp.Server
	store         *vault.Store
	gen           *passgen.Generator
	defaultLength int
	logger        logging.Logger
}

// ServerOptions contains configuration options for the MCP server.
type ServerOptions struct {
	// Store is the vault the tools operate on. Required.
	Store *vault.Store

	// PasswordLength is used when a tool call does not ask for a length.
	// Zero means passgen.DefaultLength.
	PasswordLength int

	// Generator overrides the password source. Nil means crypto/rand.
	Generator *passgen.Generator

	// Logger receives one line per tool call. Nil discards.
	Logger logging.Logger
}

// NewServer creates a new MCP server instance.
func NewServer(opts *ServerOptions) (*Server, error) {
	if opts == nil || opts.Store == nil {
		return nil, errors.New("mcp: a vault store is required")
	}

	length := opts.PasswordLength
	if length == 0 {
		length = passgen.DefaultLength
	}
	if err := passgen.ValidateLength(length); err != nil {
		return nil, fmt.Errorf("mcp: invalid default password length: %w", err)
	}

	gen := opts.Generator
	if gen == nil {
		gen = passgen.New(nil)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s := &Server{
		server:        mcpServer,
		store:         opts.Store,
		gen:           gen,
		defaultLength: length,
		logger:        logger.With("component", "mcp"),
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "entry_list",
		Description: "List stored entries as site/app labels and usernames, optionally filtered by an exact label or glob pattern. Does NOT return passwords.",
	}, s.handleEntryList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "entry_exists",
		Description: "Check whether an entry with the given site/app label exists and how many entries share it. Does NOT return passwords.",
	}, s.handleEntryExists)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "entry_get_masked",
		Description: "Get the first entry for a site/app label with its password masked (e.g. '**********WXYZ').",
	}, s.handleEntryGetMasked)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "password_generate",
		Description: fmt.Sprintf("Generate a random password of %d to %d characters. The password is returned but NOT stored.", passgen.MinLength, passgen.MaxLength),
	}, s.handlePasswordGenerate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "entry_add",
		Description: "Generate a password for a site/app and username and store it in the vault. Only the masked password is returned.",
	}, s.handleEntryAdd)
}

// Run starts the MCP server using stdio transport.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info(ctx, "mcp server starting", "vault", s.store.Path())
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Close releases server resources. The store keeps no open handles between
// calls, so there is nothing to flush.
func (s *Server) Close() error {
	return nil
}
