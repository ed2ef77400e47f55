package render

import (
	"fmt"
	"io"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"

	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// DeploymentsRenderer renders recorded deployments grouped by chain
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// RenderDeploymentList renders one table per chain
func (r *DeploymentsRenderer) RenderDeploymentList(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	byChain := lo.GroupBy(result.Deployments, func(e usecase.DeploymentEntry) uint64 {
		return e.Key.ChainID
	})
	chainIDs := lo.Keys(byChain)
	slices.Sort(chainIDs)

	for _, chainID := range chainIDs {
		entries := byChain[chainID]
		fmt.Fprintf(r.out, "%s%s\n",
			chainHeader.Sprint(" chain "),
			chainHeaderBold.Sprintf(" %s (%d) ", entries[0].Network, chainID))

		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.Style().Options.DrawBorder = false
		t.Style().Options.SeparateRows = false
		t.AppendHeader(table.Row{"Scheme", "Contract", "Owner", "Salt", "Address"})
		for _, e := range entries {
			t.AppendRow(table.Row{
				e.Key.Scheme,
				e.Key.Contract,
				e.Key.Owner,
				saltStyle.Sprint(e.Salt.Hex()),
				addressStyle.Sprint(e.Address.Hex()),
			})
		}
		fmt.Fprintln(r.out, t.Render())
		fmt.Fprintln(r.out)
	}

	fmt.Fprintf(r.out, "Total: %d deployment(s) on %d chain(s)\n", result.Summary.Total, len(result.Summary.ByChain))
	return nil
}
