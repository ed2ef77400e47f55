package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// RenderNetworksList renders the configured networks and, when checked, their RPC status
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult, checked bool) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	header := table.Row{"", "Name", "Chain ID", "RPC URL", "Explorer"}
	if checked {
		header = append(header, "Status")
	}
	t.AppendHeader(header)

	for _, n := range result.Networks {
		marker := ""
		if n.Name == result.Current {
			marker = okStyle.Sprint("*")
		}
		row := table.Row{marker, n.Name, n.ChainID, n.RPCURL, n.ExplorerURL}
		if n.Error != nil && !checked {
			row = table.Row{marker, n.Name, badStyle.Sprintf("error: %v", n.Error), "", ""}
		}
		if checked {
			switch {
			case n.Reachable:
				row = append(row, okStyle.Sprint("✅ reachable"))
			case n.Error != nil:
				row = append(row, badStyle.Sprintf("❌ %v", n.Error))
			default:
				row = append(row, "")
			}
		}
		t.AppendRow(row)
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}
