package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage the passage index",
		Long:  `Build or inspect the in-memory passage index.`,
	}

	cmd.AddCommand(
		newIndexRebuildCmd(),
		newIndexStatusCmd(),
	)

	return cmd
}

func newIndexRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Build a fresh index from the corpus",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadService(cmd)
			if err != nil {
				return err
			}

			info, err := svc.Rebuild(cmd.Context())
			if err != nil {
				return fmt.Errorf("rebuild index: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Built index %s: %d passages, %s backend, %s\n",
				info.ID, info.Passages, info.Backend, info.Fingerprint)
			return nil
		},
	}
}

func newIndexStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what a build of the current corpus would contain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadService(cmd)
			if err != nil {
				return err
			}

			passages, err := svc.LoadCorpus()
			if err != nil {
				return fmt.Errorf("load corpus: %w", err)
			}

			sources := make(map[string]bool)
			for _, p := range passages {
				sources[p.Source] = true
			}

			cfg := svc.Config()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Corpus:    %s\n", svc.Workspace().CorpusPath(cfg.Corpus))
			fmt.Fprintf(out, "Documents: %d\n", len(sources))
			fmt.Fprintf(out, "Passages:  %d\n", len(passages))
			fmt.Fprintf(out, "Backend:   %s\n", cfg.Index.Backend)
			fmt.Fprintf(out, "Embedder:  %s\n", svc.Embedder().Fingerprint())
			return nil
		},
	}
}
