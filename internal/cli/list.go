package cli

import (
	"github.com/spf13/cobra"

	"github.com/trebuchet-org/lspdeploy/internal/cli/render"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		allChains bool
		scheme    string
		contract  string
		owner     string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List salts recorded in the registry",
		Long: `List the salts recorded for completed deployments on the selected network,
or on every chain with --all-chains.

The list can be filtered by scheme, contract name and owner.`,
		Example: `  # Everything recorded on LUKSO
  lspdeploy list -n lukso

  # Every UniversalProfile deployed through LSP23, on any chain
  lspdeploy list --all-chains --scheme lsp23 --contract UniversalProfile`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListDeploymentsParams{
				AllChains: allChains,
				Contract:  contract,
				Owner:     owner,
			}
			if scheme != "" {
				if params.Scheme, err = domain.ParseScheme(scheme); err != nil {
					return err
				}
			}

			result, err := app.ListDeployments.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			stopProgress(app)

			if app.Config.JSON {
				entries := make([]map[string]any, 0, len(result.Deployments))
				for _, d := range result.Deployments {
					entries = append(entries, map[string]any{
						"chainId":  d.Key.ChainID,
						"network":  d.Network,
						"scheme":   d.Key.Scheme,
						"contract": d.Key.Contract,
						"owner":    d.Key.Owner,
						"salt":     d.Salt,
						"address":  d.Address,
						"url":      d.URL,
					})
				}
				return render.JSON(cmd.OutOrStdout(), map[string]any{
					"deployments": entries,
					"total":       result.Summary.Total,
				})
			}
			return render.NewDeploymentsRenderer(cmd.OutOrStdout()).RenderDeploymentList(result)
		},
	}

	cmd.Flags().BoolVar(&allChains, "all-chains", false, "List every chain in the registry")
	cmd.Flags().StringVar(&scheme, "scheme", "", "Filter by scheme (lsp16, lsp23)")
	cmd.Flags().StringVar(&contract, "contract", "", "Filter by contract name")
	cmd.Flags().StringVar(&owner, "owner", "", "Filter by owner")

	return cmd
}
