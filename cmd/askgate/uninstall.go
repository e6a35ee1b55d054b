package main

import (
	"fmt"
	"os"

	"github.com/halvard/askgate/internal"
	"github.com/spf13/cobra"
)

func NewUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the askgate git hook",
		Long:  `Remove the post-commit hook installed by askgate. Restores any backed-up original hook.`,
		RunE:  runUninstall,
	}
}

func runUninstall(cmd *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	if err := internal.UninstallHook(cwd, "post-commit"); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Uninstalled post-commit hook")
	return nil
}
