package cli

import (
	"github.com/spf13/cobra"

	"github.com/trebuchet-org/lspdeploy/internal/cli/render"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List known networks and their factories",
		Long: `List the built-in LUKSO and Ethereum networks together with those configured in
lspdeploy.toml, with the factory addresses used on each.

With --check every RPC endpoint is dialed and its chain ID compared with the configured one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{CheckRPC: check})
			if err != nil {
				return err
			}
			stopProgress(app)

			if app.Config.JSON {
				networks := make([]map[string]any, 0, len(result.Networks))
				for _, n := range result.Networks {
					entry := map[string]any{
						"name":                   n.Name,
						"chainId":                n.ChainID,
						"rpcUrl":                 n.RPCURL,
						"explorerUrl":            n.ExplorerURL,
						"universalFactory":       n.UniversalFactory,
						"linkedContractsFactory": n.LinkedContractsFactory,
					}
					if check {
						entry["reachable"] = n.Reachable
						if n.Error != nil {
							entry["error"] = n.Error.Error()
						}
					}
					networks = append(networks, entry)
				}
				return render.JSON(cmd.OutOrStdout(), map[string]any{
					"current":  result.Current,
					"networks": networks,
				})
			}
			return render.NewNetworksRenderer(cmd.OutOrStdout()).RenderNetworksList(result, check)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Dial each RPC endpoint and compare chain IDs")

	return cmd
}
