package main

import (
	"fmt"
	"os"

	"github.com/halvard/askgate/internal"
	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a workspace",
		Long:  `Create the .askgate state directory with a default config, a corpus directory, and a starter assertion file.`,
		RunE:  runInit,
	}

	cmd.Flags().Bool("history", false, "Track the corpus in git history")
	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	withHistory, _ := cmd.Flags().GetBool("history")

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	ws := internal.NewWorkspace(cwd)
	if _, err := os.Stat(ws.StatePath); err == nil {
		return fmt.Errorf("already initialized at %s", ws.StatePath)
	}

	if err := os.MkdirAll(ws.HooksPath(), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	cfg := internal.DefaultConfig()
	cfg.Index.History = withHistory

	corpusDir := ws.CorpusPath(cfg.Corpus)
	if err := os.MkdirAll(corpusDir, 0755); err != nil {
		return fmt.Errorf("create corpus directory: %w", err)
	}

	if withHistory {
		if err := internal.InitHistory(ws, corpusDir); err != nil {
			return fmt.Errorf("init history: %w", err)
		}
	}

	if err := internal.SaveConfig(ws, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	assertions := ws.AssertionsPath(cfg.Gate.Assertions)
	if _, err := os.Stat(assertions); os.IsNotExist(err) {
		if err := internal.SaveAssertions(assertions, starterAssertions()); err != nil {
			return fmt.Errorf("write assertions: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized workspace at %s\n", ws.StatePath)
	return nil
}

// starterAssertions documents the assertion format; users replace it with
// the knowledge their corpus must keep answering.
func starterAssertions() *internal.AssertionSet {
	return &internal.AssertionSet{
		Assertions: []internal.Assertion{
			{
				Query:   "What does this corpus cover?",
				Require: []string{"corpus"},
			},
		},
	}
}
