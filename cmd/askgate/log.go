package main

import (
	"encoding/json"
	"fmt"

	"github.com/halvard/askgate/internal"
	"github.com/spf13/cobra"
)

func NewLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show corpus history",
		Long:  `Show the recorded corpus revisions, newest first.`,
		RunE:  runLog,
	}

	cmd.Flags().IntP("number", "n", 10, "Limit number of commits")
	cmd.Flags().Bool("oneline", false, "Show each commit on one line")
	return cmd
}

func runLog(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("number")
	oneline, _ := cmd.Flags().GetBool("oneline")
	asJSON, _ := cmd.Flags().GetBool("json")

	history, err := openHistoryFromCmd(cmd)
	if err != nil {
		return err
	}

	commits, err := history.Log(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("get log: %w", err)
	}

	if asJSON {
		return outputCommitsJSON(cmd, commits)
	}

	for _, c := range commits {
		if oneline {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", c.Hash[:7], c.Message)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "commit %s\n", c.Hash)
			fmt.Fprintf(cmd.OutOrStdout(), "Date:   %s\n\n", c.Timestamp.Format("Mon Jan 2 15:04:05 2006 -0700"))
			fmt.Fprintf(cmd.OutOrStdout(), "    %s\n\n", c.Message)
		}
	}
	return nil
}

// openHistoryFromCmd opens corpus history without assembling the rest of
// the pipeline; log and revert need nothing else.
func openHistoryFromCmd(cmd *cobra.Command) (*internal.CorpusHistory, error) {
	ws, cfg, err := loadWorkspaceConfig(cmd)
	if err != nil {
		return nil, err
	}

	if !cfg.Index.History {
		return nil, fmt.Errorf("corpus history is disabled (enable index.history in config)")
	}

	return internal.OpenHistory(ws, ws.CorpusPath(cfg.Corpus))
}

func outputCommitsJSON(cmd *cobra.Command, commits []*internal.Commit) error {
	out := make([]map[string]any, 0, len(commits))
	for _, c := range commits {
		out = append(out, map[string]any{
			"hash":      c.Hash,
			"message":   c.Message,
			"timestamp": c.Timestamp,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
