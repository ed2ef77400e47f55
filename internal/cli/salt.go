package cli

import (
	"github.com/spf13/cobra"

	"github.com/trebuchet-org/lspdeploy/internal/cli/render"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// NewSaltCmd creates the salt command
func NewSaltCmd() *cobra.Command {
	var allChains bool

	cmd := &cobra.Command{
		Use:   "salt <value>",
		Short: "Show how a salt normalizes and where it was used",
		Long: `Show the canonical 32-byte form of a salt and the registry scopes it is already
recorded in for the selected network, or for every chain with --all-chains.`,
		Example: `  lspdeploy salt 0x1234
  lspdeploy salt "my profile" --all-chains`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.CheckSalt.Run(cmd.Context(), usecase.CheckSaltParams{
				Salt:      args[0],
				AllChains: allChains,
			})
			if err != nil {
				return err
			}
			stopProgress(app)

			if app.Config.JSON {
				uses := make([]map[string]any, 0, len(result.Uses))
				for _, use := range result.Uses {
					uses = append(uses, map[string]any{
						"chainId":  use.Key.ChainID,
						"scheme":   use.Key.Scheme,
						"contract": use.Key.Contract,
						"owner":    use.Key.Owner,
						"address":  use.Address,
					})
				}
				return render.JSON(cmd.OutOrStdout(), map[string]any{
					"input": result.Input,
					"form":  result.Form,
					"salt":  result.Salt,
					"uses":  uses,
				})
			}
			return render.NewSaltRenderer(cmd.OutOrStdout()).RenderCheck(result)
		},
	}

	cmd.Flags().BoolVar(&allChains, "all-chains", false, "Search every chain in the registry")

	return cmd
}
