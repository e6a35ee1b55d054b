package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRevertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revert [revision]",
		Short: "Reset the corpus to an earlier revision",
		Long: `Reset the corpus working tree to the given revision.

The revision may be a full or abbreviated commit hash. Uncommitted
corpus changes are discarded.`,
		Args: cobra.ExactArgs(1),
		RunE: runRevert,
	}
}

func runRevert(cmd *cobra.Command, args []string) error {
	history, err := openHistoryFromCmd(cmd)
	if err != nil {
		return err
	}

	if err := history.Revert(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("revert corpus: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Corpus reset to %s\n", args[0])
	return nil
}
