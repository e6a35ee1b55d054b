package main

import (
	"fmt"
	"sort"

	"github.com/halvard/askgate/internal"
	"github.com/spf13/cobra"
)

var knownProviders = map[string]bool{
	"openai":     true,
	"anthropic":  true,
	"openrouter": true,
}

func NewProviderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Manage LLM providers",
		Long:  `List, add, remove, and test the providers used for live answer composition.`,
	}

	cmd.AddCommand(
		newProviderListCmd(),
		newProviderAddCmd(),
		newProviderRemoveCmd(),
		newProviderUseCmd(),
		newProviderTestCmd(),
	)

	return cmd
}

func newProviderListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured providers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, cfg, err := loadWorkspaceConfig(cmd)
			if err != nil {
				return err
			}

			if len(cfg.Providers) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No providers configured.")
				return nil
			}

			names := make([]string, 0, len(cfg.Providers))
			for name := range cfg.Providers {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				if name == cfg.Composer.Provider {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (active)\n", name)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
			}
			return nil
		},
	}
}

func newProviderAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !knownProviders[name] {
				return fmt.Errorf("unknown provider %q (supported: anthropic, openai, openrouter)", name)
			}

			apiKey, _ := cmd.Flags().GetString("api-key")
			baseURL, _ := cmd.Flags().GetString("base-url")
			model, _ := cmd.Flags().GetString("model")

			ws, cfg, err := loadWorkspaceConfig(cmd)
			if err != nil {
				return err
			}

			if cfg.Providers == nil {
				cfg.Providers = make(map[string]internal.ProviderConfig)
			}
			cfg.Providers[name] = internal.ProviderConfig{
				APIKey:  apiKey,
				BaseURL: baseURL,
				Model:   model,
			}

			if err := internal.SaveConfig(ws, cfg); err != nil {
				return fmt.Errorf("add provider: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added provider %s\n", name)
			return nil
		},
	}

	cmd.Flags().String("api-key", "", "API key")
	cmd.Flags().String("base-url", "", "Base URL")
	cmd.Flags().String("model", "", "Model name")
	return cmd
}

func newProviderRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			ws, cfg, err := loadWorkspaceConfig(cmd)
			if err != nil {
				return err
			}

			if _, ok := cfg.Providers[name]; !ok {
				return fmt.Errorf("provider %q is not configured", name)
			}
			delete(cfg.Providers, name)
			if cfg.Composer.Provider == name {
				cfg.Composer.Provider = ""
			}

			if err := internal.SaveConfig(ws, cfg); err != nil {
				return fmt.Errorf("remove provider: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed provider %s\n", name)
			return nil
		},
	}
}

func newProviderUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Select the provider for live composition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			ws, cfg, err := loadWorkspaceConfig(cmd)
			if err != nil {
				return err
			}

			if _, ok := cfg.Providers[name]; !ok {
				return fmt.Errorf("provider %q is not configured (add it first)", name)
			}
			cfg.Composer.Provider = name

			if err := internal.SaveConfig(ws, cfg); err != nil {
				return fmt.Errorf("select provider: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Composer provider set to %s\n", name)
			return nil
		},
	}
}

func newProviderTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <name>",
		Short: "Test provider connectivity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			_, cfg, err := loadWorkspaceConfig(cmd)
			if err != nil {
				return err
			}

			pc, ok := cfg.Providers[name]
			if !ok {
				return fmt.Errorf("provider %q is not configured", name)
			}

			provider, err := internal.NewFantasyProvider(cmd.Context(), internal.FantasyConfig{
				Provider: name,
				APIKey:   pc.APIKey,
				BaseURL:  pc.BaseURL,
				Model:    pc.Model,
			})
			if err != nil {
				return fmt.Errorf("test provider: %w", err)
			}

			if _, err := provider.Complete(cmd.Context(), "Reply with the single word: ok"); err != nil {
				return fmt.Errorf("test provider: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Provider %s is working\n", name)
			return nil
		},
	}
}
