package cli

import (
	"github.com/spf13/cobra"

	"github.com/trebuchet-org/lspdeploy/internal/cli/render"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// NewComputeCmd creates the compute command
func NewComputeCmd() *cobra.Command {
	var (
		plan   planFlags
		salt   string
		verify bool
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the address a deployment will get",
		Long: `Compute the CREATE2 address of a deployment through the LSP16 UniversalFactory or
the LSP23 LinkedContractsFactory, without touching the chain.

The salt may be canonical hex, shorter hex (left padded), longer hex (hashed), a decimal
number or any other text (hashed).`,
		Example: `  # Clone of an implementation, initialized with an owner
  lspdeploy compute --implementation 0x52c9...b02A -a UniversalProfileInit --init-arg 0xcafe... --salt 1

  # Linked pair from a plan file, checked against the factory on LUKSO
  lspdeploy compute -f profile.yaml --salt my-profile -n lukso --verify`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			p, err := plan.resolve(cmd, app)
			if err != nil {
				return err
			}

			result, err := app.ComputeAddress.Run(cmd.Context(), usecase.ComputeAddressParams{
				Plan:   p,
				Salt:   salt,
				Verify: verify,
			})
			if err != nil {
				return err
			}
			stopProgress(app)

			if app.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), map[string]any{
					"network":    result.Network.Name,
					"chainId":    result.Network.ChainID,
					"saltInput":  result.SaltForm,
					"derivation": render.NewDerivationJSON(result.Derivation),
					"usedBy":     result.UsedBy,
					"verified":   verify && result.Verified,
				})
			}
			return render.NewDerivationRenderer(cmd.OutOrStdout()).RenderComputed(p, result)
		},
	}

	plan.register(cmd)
	cmd.Flags().StringVar(&salt, "salt", "", "Salt (hex, number or text)")
	cmd.Flags().BoolVar(&verify, "verify", false, "Ask the deployed factory for the same addresses")
	_ = cmd.MarkFlagRequired("salt")

	return cmd
}
