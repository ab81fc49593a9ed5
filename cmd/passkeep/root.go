package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/forest6511/passkeep/internal/config"
	"github.com/forest6511/passkeep/internal/logging"
	"github.com/forest6511/passkeep/internal/prompt"
	"github.com/forest6511/passkeep/pkg/passgen"
	"github.com/forest6511/passkeep/pkg/vault"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	// Persistent flags
	vaultPath  string
	configFile string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	store  *vault.Store
	logger logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "passkeep",
		Short: "passkeep is a small local password vault",
		Long: `Generate random passwords, store them with a site and username,
and look them up again. Entries live in a single JSON file.

Run without a command to start the interactive menu.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		// PersistentPreRunE runs before the root command and all subcommands.
		// This resolves configuration and opens the vault store.
		PersistentPreRunE: a.setup,
		RunE:              a.runMenu,
	}

	rootCmd.PersistentFlags().StringVar(&a.vaultPath, "vault", "", "Path to the vault file (default ./passwords.json)")
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: text, json")

	rootCmd.AddCommand(a.newMenuCmd())
	rootCmd.AddCommand(a.newAddCmd())
	rootCmd.AddCommand(a.newGetCmd())
	rootCmd.AddCommand(a.newListCmd())
	rootCmd.AddCommand(a.newGenerateCmd())
	rootCmd.AddCommand(a.newMCPServerCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// setup loads configuration, applies flag overrides and builds the logger
// and the store.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	// Completion scripts need no vault.
	if cmd.Name() == "completion" {
		return nil
	}

	cfg, err := config.Load(config.LoadOptions{ConfigFile: a.configFile})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("vault") {
		cfg.VaultPath = a.vaultPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	// add and generate take --length, which replaces password_length.
	if flags.Lookup("length") != nil && flags.Changed("length") {
		length, err := flags.GetInt("length")
		if err != nil {
			return err
		}
		cfg.PasswordLength = length
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger.With("session", uuid.NewString())
	a.store = vault.New(cfg.VaultPath, vault.WithLogger(a.logger.Slog()))

	a.logger.Debug(cmd.Context(), "configuration loaded",
		"command", cmd.Name(),
		"vault", cfg.VaultPath,
		"password_length", cfg.PasswordLength)
	return nil
}

// ensureSetup runs setup for code paths cobra does not run hooks for, such
// as shell completion.
func (a *app) ensureSetup(cmd *cobra.Command) error {
	if a.store != nil {
		return nil
	}
	return a.setup(cmd, nil)
}

func (a *app) newMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Start the interactive menu",
		Long: `Start the interactive menu:

  1  make a password
  2  view a password
  3  view all passwords
  4  change a password (not supported)
  q  quit`,
		Args: cobra.NoArgs,
		RunE: a.runMenu,
	}
}

func (a *app) runMenu(cmd *cobra.Command, _ []string) error {
	p := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())
	m := prompt.NewMenu(p, a.store, passgen.New(nil), a.logger)
	return m.Run(cmd.Context())
}
