package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewHookCmd(version string) *cobra.Command {
	hookCmd := &cobra.Command{
		Use:    "hook",
		Short:  "Git hook management (internal)",
		Hidden: true,
	}

	runCmd := &cobra.Command{
		Use:   "run [hook-type]",
		Short: "Execute a hook handler",
		Args:  cobra.ExactArgs(1),
		RunE:  makeHookRunRunner(version),
	}

	hookCmd.AddCommand(runCmd)
	return hookCmd
}

// makeHookRunRunner builds the handler behind the installed shim. A hook
// must never break the user's commit, so every failure goes to stderr and
// the command still exits zero.
func makeHookRunRunner(version string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		hookType := args[0]
		if hookType != "post-commit" {
			return fmt.Errorf("unsupported hook type: %s", hookType)
		}

		svc, err := loadService(cmd)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "askgate hook: %v\n", err)
			return nil
		}

		if _, err := svc.CommitCorpus(cmd.Context(), "auto: post-commit"); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "askgate hook: commit corpus: %v\n", err)
		}

		if _, err := svc.Rebuild(cmd.Context()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "askgate hook: rebuild: %v\n", err)
			return nil
		}

		report, err := svc.RunGate(cmd.Context())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "askgate hook: gate: %v\n", err)
			return nil
		}

		report.Write(cmd.OutOrStdout())
		notifyUserHook(cmd, svc, report, version)
		return nil
	}
}
