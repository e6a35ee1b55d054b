package main

import (
	"encoding/json"
	"fmt"

	"github.com/halvard/askgate/internal"
	"github.com/spf13/cobra"
)

func NewGateCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Run the regression gate",
		Long: `Build the index, run every assertion through the answer pipeline, and
report the verdict. Exits non-zero when any assertion fails, so CI can
block deployment on lost knowledge.`,
		RunE: makeGateRunner(version),
	}

	cmd.Flags().Bool("record", false, "Record passing answers as baselines")
	return cmd
}

func makeGateRunner(version string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		record, _ := cmd.Flags().GetBool("record")

		svc, err := loadService(cmd)
		if err != nil {
			return err
		}
		if record {
			svc.Config().Gate.Baselines = true
		}

		if _, err := svc.Rebuild(cmd.Context()); err != nil {
			return fmt.Errorf("build index: %w", err)
		}

		report, err := svc.RunGate(cmd.Context())
		if err != nil {
			return fmt.Errorf("run gate: %w", err)
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			report.Write(cmd.OutOrStdout())
		}

		notifyUserHook(cmd, svc, report, version)

		if report.Verdict == internal.VerdictFail {
			return fmt.Errorf("gate failed: %d of %d assertions failing",
				len(report.Failing()), len(report.Results))
		}
		return nil
	}
}

func notifyUserHook(cmd *cobra.Command, svc *internal.Service, report *internal.GateReport, version string) {
	extra := map[string]string{"ASKGATE_VERDICT": string(report.Verdict)}
	if err := internal.RunUserHook(cmd.Context(), svc.Workspace(), "post-gate", version, extra); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "post-gate hook: %v\n", err)
	}
}
