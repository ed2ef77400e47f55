package cli

import (
	"github.com/spf13/cobra"

	"github.com/trebuchet-org/lspdeploy/internal/cli/render"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var (
		plan       planFlags
		salt       string
		addresses  []string
		txHash     string
		skipVerify bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Record a completed deployment in the salt registry",
		Long: `Record the salt of a completed deployment so it is not reused for the same
contract and owner on this chain.

The address(es) are re-derived from the plan and salt. Reported addresses are compared
with the derivation and the deployment is confirmed on chain unless --skip-verify is set.`,
		Example: `  lspdeploy register -f profile.yaml --salt my-profile -n lukso --tx 0x9f1c...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			p, err := plan.resolve(cmd, app)
			if err != nil {
				return err
			}

			result, err := app.RegisterDeployment.Run(cmd.Context(), usecase.RegisterDeploymentParams{
				Plan:       p,
				Salt:       salt,
				Addresses:  addresses,
				TxHash:     txHash,
				SkipVerify: skipVerify,
			})
			if err != nil {
				return err
			}
			stopProgress(app)

			if app.Config.JSON {
				records := make([]map[string]any, 0, len(result.Records))
				for _, rec := range result.Records {
					records = append(records, map[string]any{
						"key":     rec.Key.String(),
						"address": rec.Address,
						"existed": rec.Existed,
					})
				}
				return render.JSON(cmd.OutOrStdout(), map[string]any{
					"chainId":     result.Network.ChainID,
					"salt":        result.Derivation.Salt,
					"records":     records,
					"blockNumber": result.BlockNumber,
				})
			}
			return render.NewDerivationRenderer(cmd.OutOrStdout()).RenderRegistered(result)
		},
	}

	plan.register(cmd)
	cmd.Flags().StringVar(&salt, "salt", "", "Salt used for the deployment")
	cmd.Flags().StringArrayVar(&addresses, "address", nil, "Address reported for the deployment, primary first")
	cmd.Flags().StringVar(&txHash, "tx", "", "Deployment transaction hash")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "Record without checking the chain")
	_ = cmd.MarkFlagRequired("salt")

	return cmd
}
