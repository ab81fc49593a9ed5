package main

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forest6511/passkeep/pkg/passgen"
)

const (
	defaultPasswordCount = 1
	maxPasswordCount     = 100
)

func (a *app) newGenerateCmd() *cobra.Command {
	var (
		length       int
		count        int
		copyPassword bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate random passwords without storing them",
		Long: fmt.Sprintf(`Generate cryptographically secure random passwords of %d to %d characters
drawn from letters, digits and !@#$%%^&*(){}:;. Nothing is stored.

Examples:
  # Generate a password of the configured length (16 by default)
  passkeep generate

  # Generate 5 passwords of 18 characters
  passkeep generate -l 18 -n 5

  # Generate and copy to clipboard
  passkeep generate -c`, passgen.MinLength, passgen.MaxLength),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("length") {
				length = a.cfg.PasswordLength
			}
			if err := validateGenerateFlags(length, count); err != nil {
				return err
			}

			passwords := make([]string, count)
			for i := 0; i < count; i++ {
				password, err := passgen.Generate(length)
				if err != nil {
					return fmt.Errorf("failed to generate password: %w", err)
				}
				passwords[i] = password
			}

			for _, password := range passwords {
				fmt.Fprintln(cmd.OutOrStdout(), password)
			}
			a.logger.Debug(cmd.Context(), "passwords generated", "count", count, "length", length)

			// Copy to clipboard if requested
			if copyPassword && len(passwords) > 0 {
				if err := copyToClipboard(passwords[0]); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to copy to clipboard: %v\n", err)
				} else {
					fmt.Fprintln(cmd.ErrOrStderr(), "Password copied to clipboard")
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&length, "length", "l", 0, fmt.Sprintf("Password length (%d-%d)", passgen.MinLength, passgen.MaxLength))
	cmd.Flags().IntVarP(&count, "count", "n", defaultPasswordCount, fmt.Sprintf("Number of passwords to generate (1-%d)", maxPasswordCount))
	cmd.Flags().BoolVarP(&copyPassword, "copy", "c", false, "Copy first password to clipboard (accessible to all processes)")

	return cmd
}

// validateGenerateFlags validates the generate command flags
func validateGenerateFlags(length, count int) error {
	if err := passgen.ValidateLength(length); err != nil {
		return err
	}
	if count < 1 {
		return fmt.Errorf("count must be at least 1")
	}
	if count > maxPasswordCount {
		return fmt.Errorf("count must be at most %d", maxPasswordCount)
	}
	return nil
}

// copyToClipboard copies text to the system clipboard
func copyToClipboard(text string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "linux":
		// Try xclip first, then xsel
		if _, err := exec.LookPath("xclip"); err == nil {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		} else if _, err := exec.LookPath("xsel"); err == nil {
			cmd = exec.Command("xsel", "--clipboard", "--input")
		} else {
			return fmt.Errorf("clipboard tool not found: install xclip or xsel")
		}
	case "windows":
		cmd = exec.Command("clip")
	default:
		return fmt.Errorf("clipboard not supported on %s", runtime.GOOS)
	}

	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}
