package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/trebuchet-org/lspdeploy/internal/app"
	"github.com/trebuchet-org/lspdeploy/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// flagKeys maps command line flags to viper keys. Only flags a command defines and
// the user changed are bound.
var flagKeys = map[string]string{
	"debug":              "debug",
	"non-interactive":    "non_interactive",
	"json":               "json",
	"network":            "network",
	"chain-id":           "chain_id",
	"timeout":            "timeout",
	"data-dir":           "data_dir",
	"artifacts":          "artifacts",
	"pad-linked-address": "pad_linked_address",
	"workers":            "workers",
	"seed":               "seed",
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lspdeploy",
		Short: "Deterministic LSP16/LSP23 deployments",
		Long: `lspdeploy predicts, mines, prepares and records CREATE2 deployments made through
the LSP16 UniversalFactory and the LSP23 LinkedContractsFactory.

It never signs or sends transactions: 'prepare' prints the factory call for your wallet
and 'register' records the salt once the deployment is on chain.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot)
			bindFlags(v, cmd)

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a, err := getApp(cmd); err == nil {
				stopProgress(a)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output JSON")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., lukso, lukso-testnet)")
	rootCmd.PersistentFlags().Uint64("chain-id", 0, "Chain ID to scope the registry to when no network is named")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Stop long running commands such as mine after this duration")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding used-salts.json (default .lspdeploy)")
	rootCmd.PersistentFlags().String("artifacts", "", "Directory of compiled contract artifacts (default artifacts)")
	rootCmd.PersistentFlags().Bool("pad-linked-address", false, "Append the primary address to the secondary init code as a 32-byte word")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{
		NewComputeCmd(),
		NewMineCmd(),
		NewPrepareCmd(),
		NewRegisterCmd(),
	} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		NewSaltCmd(),
		NewListCmd(),
		NewNetworksCmd(),
		NewEncodeCmd(),
	} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// bindFlags binds changed command flags to viper
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	for flag, key := range flagKeys {
		if f := cmd.Flag(flag); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// stopProgress clears a running spinner before results are printed
func stopProgress(a *app.App) {
	if s, ok := a.Sink.(interface{ Stop() }); ok {
		s.Stop()
	}
}
