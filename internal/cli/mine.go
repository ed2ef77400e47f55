package cli

import (
	"github.com/spf13/cobra"

	"github.com/trebuchet-org/lspdeploy/internal/cli/render"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// NewMineCmd creates the mine command
func NewMineCmd() *cobra.Command {
	var (
		plan   planFlags
		prefix string
		count  int
	)

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Search for salts that give a vanity address",
		Long: `Search random salts until the primary address starts with the given hex prefix.
Each extra hex digit makes the search 16 times longer.

The search runs on every CPU unless --workers is set and stops after --timeout.
With --seed the candidates are reproducible.`,
		Example: `  # Two salts giving a profile address starting with 0xcafe
  lspdeploy mine -f profile.yaml --prefix cafe --count 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			p, err := plan.resolve(cmd, app)
			if err != nil {
				return err
			}

			result, err := app.MineSalts.Run(cmd.Context(), usecase.MineSaltsParams{
				Plan:   p,
				Prefix: prefix,
				Count:  count,
			})
			if err != nil {
				return err
			}
			stopProgress(app)

			if app.Config.JSON {
				matches := make([]render.DerivationJSON, 0, len(result.Matches))
				for _, d := range result.Matches {
					matches = append(matches, render.NewDerivationJSON(d))
				}
				return render.JSON(cmd.OutOrStdout(), map[string]any{
					"prefix":     "0x" + result.Prefix.String(),
					"matches":    matches,
					"attempts":   result.Attempts,
					"workers":    result.Workers,
					"durationMs": result.Duration.Milliseconds(),
					"incomplete": result.Incomplete,
				})
			}
			return render.NewSaltRenderer(cmd.OutOrStdout()).RenderMined(result)
		},
	}

	plan.register(cmd)
	cmd.Flags().StringVar(&prefix, "prefix", "", "Hex prefix the address must start with")
	cmd.Flags().IntVar(&count, "count", 1, "Number of salts to find")
	cmd.Flags().Int("workers", 0, "Parallel workers (default one per CPU)")
	cmd.Flags().String("seed", "", "Seed for a reproducible search")
	_ = cmd.MarkFlagRequired("prefix")

	return cmd
}
