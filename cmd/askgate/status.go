package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show workspace status",
		Long:  `Show the workspace root, corpus summary, and the pipeline configuration in effect.`,
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	svc, err := loadService(cmd)
	if err != nil {
		return err
	}

	ws := svc.Workspace()
	cfg := svc.Config()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Workspace: %s\n", ws.Root)
	fmt.Fprintf(out, "Corpus:    %s\n", ws.CorpusPath(cfg.Corpus))
	fmt.Fprintf(out, "Embedder:  %s\n", svc.Embedder().Fingerprint())
	fmt.Fprintf(out, "Composer:  %s\n", cfg.Composer.Mode)
	fmt.Fprintf(out, "Backend:   %s\n", cfg.Index.Backend)

	passages, err := svc.LoadCorpus()
	if err != nil {
		fmt.Fprintf(out, "Documents: none (%v)\n", err)
	} else {
		sources := make(map[string]bool)
		for _, p := range passages {
			sources[p.Source] = true
		}
		fmt.Fprintf(out, "Documents: %d\n", len(sources))
		fmt.Fprintf(out, "Passages:  %d\n", len(passages))
	}

	if h := svc.History(); h != nil {
		if rev, err := h.Head(cmd.Context()); err == nil {
			fmt.Fprintf(out, "Revision:  %s\n", rev)
		}
	}
	return nil
}
