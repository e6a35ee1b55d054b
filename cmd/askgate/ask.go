package main

import (
	"encoding/json"
	"fmt"

	"github.com/halvard/askgate/internal"
	"github.com/spf13/cobra"
)

func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question against the corpus",
		Long:  `Build the index from the corpus and answer a question from its most relevant passages.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runAsk,
	}

	cmd.Flags().BoolP("passages", "p", false, "Show the retrieved passages")
	cmd.Flags().IntP("top-k", "k", 0, "Number of passages to retrieve")
	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := args[0]
	showPassages, _ := cmd.Flags().GetBool("passages")
	asJSON, _ := cmd.Flags().GetBool("json")

	svc, err := loadService(cmd)
	if err != nil {
		return err
	}

	if _, err := svc.Rebuild(cmd.Context()); err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	answer, err := svc.Ask(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	if asJSON {
		return outputAnswerJSON(cmd, answer)
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer.Text)

	if showPassages && len(answer.Passages) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nPassages:")
		for _, sp := range answer.Passages {
			fmt.Fprintf(cmd.OutOrStdout(), "%.4f  %s\n", sp.Score, sp.Passage.ID)
		}
	}
	return nil
}

func outputAnswerJSON(cmd *cobra.Command, a *internal.Answer) error {
	passages := make([]map[string]any, 0, len(a.Passages))
	for _, sp := range a.Passages {
		passages = append(passages, map[string]any{
			"id":     sp.Passage.ID,
			"source": sp.Passage.Source,
			"score":  sp.Score,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"id":       a.ID,
		"query":    a.Query,
		"answer":   a.Text,
		"mode":     a.Mode,
		"passages": passages,
	})
}
