package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/forest6511/passkeep/internal/cli"
	"github.com/forest6511/passkeep/internal/prompt"
	"github.com/forest6511/passkeep/pkg/passgen"
	"github.com/forest6511/passkeep/pkg/vault"
)

func (a *app) newAddCmd() *cobra.Command {
	var (
		username string
		length   int
	)

	cmd := &cobra.Command{
		Use:   "add [site]",
		Short: "Generate a password and store it",
		Long: `Generate a password for a site or application and store it.

The site and username are asked for when not given. The length defaults to
password_length from the configuration.

Examples:
  passkeep add github.com --username alice
  passkeep add bank -l 18`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("length") {
				length = a.cfg.PasswordLength
			}
			if err := passgen.ValidateLength(length); err != nil {
				return err
			}

			p := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())

			var label string
			if len(args) == 1 {
				label = cli.NormalizeLabel(args[0])
			} else {
				answer, err := p.ReadRequired("Enter the name of the site or application:")
				if err != nil {
					return inputError(err)
				}
				label = cli.NormalizeLabel(answer)
			}
			if label == "" {
				return errors.New("site must not be empty")
			}

			if !cmd.Flags().Changed("username") {
				answer, err := p.ReadLine("Enter your username for the site or application:")
				if err != nil {
					return inputError(err)
				}
				username = answer
			}

			password, err := passgen.Generate(length)
			if err != nil {
				return fmt.Errorf("failed to generate password: %w", err)
			}

			entry := vault.NewEntry(label, username, password)
			if err := a.store.AppendAndPersist(entry); err != nil {
				return fmt.Errorf("failed to save entry: %w", err)
			}
			a.logger.Info(cmd.Context(), "entry added", "site_app", label, "length", length)

			fmt.Fprintf(cmd.OutOrStdout(), "Password for %s saved.\n%s\n", label, entry)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username for the site")
	cmd.Flags().IntVarP(&length, "length", "l", 0, fmt.Sprintf("Password length (%d-%d)", passgen.MinLength, passgen.MaxLength))

	return cmd
}

// inputError turns an early end of input into a readable error.
func inputError(err error) error {
	if errors.Is(err, io.EOF) {
		return errors.New("input ended before all values were entered")
	}
	return err
}
