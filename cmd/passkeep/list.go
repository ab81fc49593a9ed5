package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forest6511/passkeep/internal/cli"
)

func (a *app) newListCmd() *cobra.Command {
	var (
		match         string
		showPasswords bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored entries",
		Long: `List stored entries in the order they were added. Passwords are masked
unless --show-passwords is given.

Examples:
  passkeep list
  passkeep list --match 'git*'
  passkeep list --show-passwords`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.store.ListAll()
			if err != nil {
				return err
			}

			total := len(entries)
			entries, err = cli.FilterEntries(match, entries)
			if err != nil {
				return err
			}
			a.logger.Debug(cmd.Context(), "entries listed", "total", total, "shown", len(entries))

			out := cmd.OutOrStdout()
			switch {
			case total == 0:
				fmt.Fprintln(out, "No passwords stored yet.")
				return nil
			case len(entries) == 0:
				fmt.Fprintf(out, "No entries match %q.\n", match)
				return nil
			}

			for i, e := range entries {
				if i > 0 {
					fmt.Fprintln(out)
				}
				if showPasswords {
					fmt.Fprintln(out, e)
				} else {
					fmt.Fprintln(out, e.Masked())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&match, "match", "m", "", "Only list sites matching an exact name or glob pattern")
	cmd.Flags().BoolVar(&showPasswords, "show-passwords", false, "Print passwords in plaintext")

	return cmd
}
