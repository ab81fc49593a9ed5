package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/forest6511/passkeep/internal/cli"
	"github.com/forest6511/passkeep/pkg/vault"
)

// EnvCompletionEnabled turns on site name completion when set to "1".
const EnvCompletionEnabled = "PASSKEEP_COMPLETION_ENABLED"

// isDynamicCompletionEnabled checks if dynamic completion is opt-in enabled.
// Completion reads the vault file, so it is off unless asked for.
func isDynamicCompletionEnabled() bool {
	return os.Getenv(EnvCompletionEnabled) == "1"
}

// completeLabels provides site name completion (opt-in only).
// Returns empty list if:
// - Dynamic completion is disabled (default)
// - A label was already given
// - The vault cannot be read
func (a *app) completeLabels(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if !isDynamicCompletionEnabled() || len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	if err := a.ensureSetup(cmd); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	labels, err := getLabelsForCompletion(a.store, toComplete)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	return labels, cobra.ShellCompDirectiveNoFileComp
}

// getLabelsForCompletion returns the distinct site names starting with prefix.
func getLabelsForCompletion(store *vault.Store, prefix string) ([]string, error) {
	v, err := store.Load()
	if err != nil {
		return nil, err
	}
	return cli.CompleteLabels(prefix, v.Labels()), nil
}
