package cli

import (
	"github.com/spf13/cobra"

	"github.com/trebuchet-org/lspdeploy/internal/cli/render"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// NewPrepareCmd creates the prepare command
func NewPrepareCmd() *cobra.Command {
	var (
		plan  planFlags
		salt  string
		check bool
	)

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Build the factory transaction for a deployment",
		Long: `Build the unsigned factory call (to, value, data) that performs a deployment and
print it together with the predicted address(es). Nothing is signed or sent.

After the transaction is mined, record the salt with 'lspdeploy register'.`,
		Example: `  # Print the call as JSON for a wallet or script
  lspdeploy prepare -f profile.yaml --salt my-profile -n lukso --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			p, err := plan.resolve(cmd, app)
			if err != nil {
				return err
			}

			result, err := app.PrepareDeployment.Run(cmd.Context(), usecase.PrepareDeploymentParams{
				Plan:       p,
				Salt:       salt,
				CheckChain: check,
			})
			if err != nil {
				return err
			}
			stopProgress(app)

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), map[string]any{
					"network":    result.Network.Name,
					"chainId":    result.Network.ChainID,
					"derivation": render.NewDerivationJSON(result.Derivation),
					"call":       render.NewCallJSON(result.Call),
					"warnings":   result.Warnings,
				})
			}
			return render.NewDerivationRenderer(cmd.OutOrStdout()).RenderPrepared(p, result)
		},
	}

	plan.register(cmd)
	cmd.Flags().StringVar(&salt, "salt", "", "Salt (hex, number or text)")
	cmd.Flags().BoolVar(&check, "check", false, "Warn when code already exists at the predicted address")
	_ = cmd.MarkFlagRequired("salt")

	return cmd
}
