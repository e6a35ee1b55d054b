package main

import (
	"fmt"

	"github.com/halvard/askgate/internal"
	"github.com/spf13/cobra"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "askgate",
		Short:         "Corpus-backed question answering with a regression gate",
		Long:          `Index a text corpus, answer questions from its most relevant passages, and gate deployments on a version-controlled set of knowledge assertions.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)
	setHelpWithExternals(rootCmd)
	addSubcommands(rootCmd, version)

	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("mode", "", "Composer mode (mock|live)")
	cmd.PersistentFlags().String("corpus", "", "Corpus file or directory (overrides config)")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
}

func addSubcommands(root *cobra.Command, version string) {
	root.AddCommand(
		NewInitCmd(),
		NewAskCmd(),
		NewIndexCmd(),
		NewGateCmd(version),
		NewServeCmd(),
		NewWatchCmd(version),
		NewStatusCmd(),
		NewLogCmd(),
		NewRevertCmd(),
		NewProviderCmd(),
		NewHookCmd(version),
		NewInstallCmd(),
		NewUninstallCmd(),
	)
}

// loadService resolves the enclosing workspace and assembles the pipeline,
// honoring persistent flag overrides.
func loadService(cmd *cobra.Command) (*internal.Service, error) {
	ws, err := internal.CurrentWorkspace()
	if err != nil {
		return nil, err
	}

	cfg, err := internal.LoadConfig(ws)
	if err != nil {
		return nil, err
	}
	applyOverrides(cmd, cfg)

	svc, err := internal.NewService(cmd.Context(), ws, cfg)
	if err != nil {
		return nil, fmt.Errorf("assemble pipeline: %w", err)
	}
	return svc, nil
}

// loadWorkspaceConfig resolves the workspace and its config without
// assembling the pipeline. Commands that only touch config or history
// use this instead of loadService.
func loadWorkspaceConfig(cmd *cobra.Command) (internal.Workspace, *internal.Config, error) {
	ws, err := internal.CurrentWorkspace()
	if err != nil {
		return internal.Workspace{}, nil, err
	}

	cfg, err := internal.LoadConfig(ws)
	if err != nil {
		return internal.Workspace{}, nil, err
	}
	applyOverrides(cmd, cfg)

	return ws, cfg, nil
}

func applyOverrides(cmd *cobra.Command, cfg *internal.Config) {
	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		cfg.Composer.Mode = mode
	}
	if corpus, _ := cmd.Flags().GetString("corpus"); corpus != "" {
		cfg.Corpus = corpus
	}
	if k, err := cmd.Flags().GetInt("top-k"); err == nil && k > 0 {
		cfg.Retrieval.TopK = k
	}
}

func setHelpWithExternals(cmd *cobra.Command) {
	defaultHelp := cmd.HelpFunc()

	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		defaultHelp(c, args)
		printExternalCommands(c)
	})
}

func printExternalCommands(cmd *cobra.Command) {
	externals := listExternalCommands()
	if len(externals) == 0 {
		return
	}

	fmt.Fprintln(cmd.OutOrStdout(), "\nExternal commands (askgate-*):")
	for _, name := range externals {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
	}
}
