package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forest6511/passkeep/internal/cli"
	"github.com/forest6511/passkeep/pkg/vault"
)

func (a *app) newGetCmd() *cobra.Command {
	var (
		all          bool
		copyPassword bool
	)

	cmd := &cobra.Command{
		Use:   "get <site>",
		Short: "Show the stored password for a site",
		Long: `Show the entry stored for a site or application. The site must match
exactly. When several entries share a site the first one is shown, or all
of them with --all.

A site containing glob characters (*?[) shows every matching site in sorted
order, for example "git*".

With --copy the password goes to the clipboard and is masked on screen.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.completeLabels,
		RunE: func(cmd *cobra.Command, args []string) error {
			label := cli.NormalizeLabel(args[0])

			v, err := a.store.Load()
			if err != nil {
				return err
			}

			labels := []string{label}
			if cli.IsGlob(label) {
				if err := cli.ValidatePattern(label); err != nil {
					return err
				}
				labels, err = cli.ExpandPattern(label, v.Labels())
				if err != nil {
					return fmt.Errorf("%v: %w", err, vault.ErrEntryNotFound)
				}
			}

			var matches []vault.Entry
			for _, l := range labels {
				found := v.FindAll(l)
				if !all && len(found) > 0 {
					found = found[:1]
				}
				matches = append(matches, found...)
			}
			a.logger.Debug(cmd.Context(), "entry lookup", "site_app", label, "labels", len(labels), "matches", len(matches))

			if len(matches) == 0 {
				return fmt.Errorf("no entry for %s: %w", label, vault.ErrEntryNotFound)
			}

			out := cmd.OutOrStdout()
			for i, e := range matches {
				if i > 0 {
					fmt.Fprintln(out)
				}
				if copyPassword {
					fmt.Fprintln(out, e.Masked())
				} else {
					fmt.Fprintln(out, e)
				}
			}

			if copyPassword {
				if err := copyToClipboard(matches[0].Password); err != nil {
					return fmt.Errorf("failed to copy to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Password copied to clipboard")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show every entry for the site")
	cmd.Flags().BoolVarP(&copyPassword, "copy", "c", false, "Copy the first password to the clipboard (accessible to all processes)")

	return cmd
}
