package render

import (
	"fmt"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// SaltRenderer renders salt checks, mined salts and packed encodings
type SaltRenderer struct {
	out io.Writer
}

// NewSaltRenderer creates a new salt renderer
func NewSaltRenderer(out io.Writer) *SaltRenderer {
	return &SaltRenderer{out: out}
}

// RenderCheck renders the result of `salt`
func (r *SaltRenderer) RenderCheck(result *usecase.CheckSaltResult) error {
	fmt.Fprintln(r.out, keyValueTable([][2]string{
		{"Input", result.Input},
		{"Read as", string(result.Form)},
		{"Salt", saltStyle.Sprint(result.Salt.Hex())},
	}))

	if len(result.Uses) == 0 {
		fmt.Fprintln(r.out, FormatSuccess("Salt not recorded in the registry"))
		return nil
	}

	fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Salt already used %d time(s):", len(result.Uses))))
	for _, use := range result.Uses {
		fmt.Fprintf(r.out, "   %s  %s\n", use.Key, addressStyle.Sprint(use.Address.Hex()))
	}
	return nil
}

// RenderMined renders the result of `mine`
func (r *SaltRenderer) RenderMined(result *usecase.MineSaltsResult) error {
	if len(result.Matches) == 0 {
		fmt.Fprintln(r.out, "No salts found")
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	linked := result.Matches[0].HasSecondary()
	header := table.Row{"#", "Salt", "Address"}
	if linked {
		header = table.Row{"#", "Salt", "Primary", "Secondary"}
	}
	t.AppendHeader(header)
	for i, d := range result.Matches {
		row := table.Row{i + 1, saltStyle.Sprint(d.Salt.Hex()), addressStyle.Sprint(d.Primary.Hex())}
		if linked {
			row = append(row, d.Secondary.Hex())
		}
		t.AppendRow(row)
	}
	fmt.Fprintln(r.out, t.Render())

	rate := 0.0
	if secs := result.Duration.Seconds(); secs > 0 {
		rate = float64(result.Attempts) / secs
	}
	fmt.Fprintln(r.out, labelStyle.Sprintf("%d attempts in %s on %d workers (%.0f/s, %.0f expected per match)",
		result.Attempts, result.Duration.Round(time.Millisecond), result.Workers, rate, result.Expected))
	if result.Incomplete {
		fmt.Fprintln(r.out, FormatWarning("Stopped before every requested salt was found"))
	}
	return nil
}

// RenderEncoded renders the result of `encode`
func (r *SaltRenderer) RenderEncoded(result *usecase.EncodePackedResult) error {
	fmt.Fprintln(r.out, keyValueTable([][2]string{
		{"Packed", hexutil.Encode(result.Encoded)},
		{"Keccak256", saltStyle.Sprint(result.Hash.Hex())},
	}))
	return nil
}
