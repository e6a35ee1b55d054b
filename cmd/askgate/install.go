package main

import (
	"fmt"
	"os"

	"github.com/halvard/askgate/internal"
	"github.com/spf13/cobra"
)

func NewInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install a git hook that runs the gate after each commit",
		Long:  `Install a post-commit hook in the enclosing git repository that rebuilds the index and runs the gate.`,
		RunE:  runInstall,
	}

	cmd.Flags().Bool("force", false, "Overwrite existing hook (backs up original)")

	return cmd
}

func runInstall(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	hookPath, err := internal.InstallHook(cwd, "post-commit", force)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Installed post-commit hook at %s\n", hookPath)
	return nil
}
