package mcp

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/forest6511/passkeep/internal/cli"
	"github.com/forest6511/passkeep/pkg/passgen"
	"github.com/forest6511/passkeep/pkg/vault"
)

// EntryListInput represents input for entry_list tool.
type EntryListInput struct {
	Match string `json:"match,omitempty"`
}

// EntryListOutput represents output for entry_list tool.
type EntryListOutput struct {
	Entries []EntryInfo `json:"entries"`
}

// EntryInfo describes an entry without its password.
type EntryInfo struct {
	SiteApp        string `json:"site_app"`
	Username       string `json:"username"`
	PasswordLength int    `json:"password_length"`
}

// EntryExistsInput represents input for entry_exists tool.
type EntryExistsInput struct {
	SiteApp string `json:"site_app"`
}

// EntryExistsOutput represents output for entry_exists tool.
type EntryExistsOutput struct {
	Exists  bool   `json:"exists"`
	SiteApp string `json:"site_app"`
	Count   int    `json:"count"`
}

// EntryGetMaskedInput represents input for entry_get_masked tool.
type EntryGetMaskedInput struct {
	SiteApp string `json:"site_app"`
}

// MaskedEntryOutput represents output for entry_get_masked and entry_add.
type MaskedEntryOutput struct {
	SiteApp        string `json:"site_app"`
	Username       string `json:"username"`
	MaskedPassword string `json:"masked_password"`
	PasswordLength int    `json:"password_length"`
}

// PasswordGenerateInput represents input for password_generate tool.
type PasswordGenerateInput struct {
	Length int `json:"length,omitempty"`
}

// PasswordGenerateOutput represents output for password_generate tool.
type PasswordGenerateOutput struct {
	Password string `json:"password"`
	Length   int    `json:"length"`
}

// EntryAddInput represents input for entry_add tool.
type EntryAddInput struct {
	SiteApp  string `json:"site_app"`
	Username string `json:"username"`
	Length   int    `json:"length,omitempty"`
}

// handleEntryList handles the entry_list tool call.
func (s *Server) handleEntryList(ctx context.Context, _ *mcp.CallToolRequest, input EntryListInput) (*mcp.CallToolResult, EntryListOutput, error) {
	entries, err := s.store.ListAll()
	if err != nil {
		return nil, EntryListOutput{}, fmt.Errorf("failed to list entries: %w", err)
	}

	entries, err = cli.FilterEntries(input.Match, entries)
	if err != nil {
		return nil, EntryListOutput{}, err
	}

	// Convert to output format (no passwords!)
	output := EntryListOutput{
		Entries: make([]EntryInfo, 0, len(entries)),
	}
	for _, e := range entries {
		output.Entries = append(output.Entries, EntryInfo{
			SiteApp:        e.SiteApp,
			Username:       e.Username,
			PasswordLength: utf8.RuneCountInString(e.Password),
		})
	}

	s.logger.Debug(ctx, "entry_list", "match", input.Match, "count", len(output.Entries))
	return nil, output, nil
}

// handleEntryExists handles the entry_exists tool call.
func (s *Server) handleEntryExists(ctx context.Context, _ *mcp.CallToolRequest, input EntryExistsInput) (*mcp.CallToolResult, EntryExistsOutput, error) {
	label := cli.NormalizeLabel(input.SiteApp)
	if label == "" {
		return nil, EntryExistsOutput{}, errors.New("site_app is required")
	}

	matches, err := s.store.FindAll(label)
	if err != nil {
		return nil, EntryExistsOutput{}, fmt.Errorf("failed to look up entry: %w", err)
	}

	s.logger.Debug(ctx, "entry_exists", "site_app", label, "count", len(matches))
	return nil, EntryExistsOutput{
		Exists:  len(matches) > 0,
		SiteApp: label,
		Count:   len(matches),
	}, nil
}

// handleEntryGetMasked handles the entry_get_masked tool call.
func (s *Server) handleEntryGetMasked(ctx context.Context, _ *mcp.CallToolRequest, input EntryGetMaskedInput) (*mcp.CallToolResult, MaskedEntryOutput, error) {
	label := cli.NormalizeLabel(input.SiteApp)
	if label == "" {
		return nil, MaskedEntryOutput{}, errors.New("site_app is required")
	}

	entry, err := s.store.Find(label)
	if err != nil {
		return nil, MaskedEntryOutput{}, fmt.Errorf("failed to get entry: %w", err)
	}

	s.logger.Debug(ctx, "entry_get_masked", "site_app", label)
	return nil, maskedOutput(entry), nil
}

// handlePasswordGenerate handles the password_generate tool call.
func (s *Server) handlePasswordGenerate(ctx context.Context, _ *mcp.CallToolRequest, input PasswordGenerateInput) (*mcp.CallToolResult, PasswordGenerateOutput, error) {
	password, err := s.generate(input.Length)
	if err != nil {
		return nil, PasswordGenerateOutput{}, err
	}

	s.logger.Debug(ctx, "password_generate", "length", len(password))
	return nil, PasswordGenerateOutput{
		Password: password,
		Length:   len(password),
	}, nil
}

// handleEntryAdd handles the entry_add tool call.
func (s *Server) handleEntryAdd(ctx context.Context, _ *mcp.CallToolRequest, input EntryAddInput) (*mcp.CallToolResult, MaskedEntryOutput, error) {
	label := cli.NormalizeLabel(input.SiteApp)
	if label == "" {
		return nil, MaskedEntryOutput{}, errors.New("site_app is required")
	}

	password, err := s.generate(input.Length)
	if err != nil {
		return nil, MaskedEntryOutput{}, err
	}

	entry := vault.NewEntry(label, input.Username, password)
	if err := s.store.AppendAndPersist(entry); err != nil {
		return nil, MaskedEntryOutput{}, fmt.Errorf("failed to store entry: %w", err)
	}

	s.logger.Info(ctx, "entry added", "site_app", label, "length", len(password))
	return nil, maskedOutput(entry), nil
}

// generate produces a password of length, or of the server default when
// length is zero.
func (s *Server) generate(length int) (string, error) {
	if length == 0 {
		length = s.defaultLength
	}
	if err := passgen.ValidateLength(length); err != nil {
		return "", err
	}
	password, err := s.gen.Generate(length)
	if err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	return password, nil
}

func maskedOutput(e vault.Entry) MaskedEntryOutput {
	return MaskedEntryOutput{
		SiteApp:        e.SiteApp,
		Username:       e.Username,
		MaskedPassword: vault.MaskPassword(e.Password),
		PasswordLength: utf8.RuneCountInString(e.Password),
	}
}
