package render

import (
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/create2"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// DerivationJSON is the machine readable form of a derivation
type DerivationJSON struct {
	Scheme                domain.Scheme   `json:"scheme"`
	Variant               string          `json:"variant,omitempty"`
	Factory               common.Address  `json:"factory"`
	Salt                  domain.Salt     `json:"salt"`
	GeneratedSalt         common.Hash     `json:"generatedSalt"`
	Primary               common.Address  `json:"primary"`
	PrimaryInitCodeHash   common.Hash     `json:"primaryInitCodeHash"`
	Secondary             *common.Address `json:"secondary,omitempty"`
	SecondarySalt         *common.Hash    `json:"secondarySalt,omitempty"`
	SecondaryInitCodeHash *common.Hash    `json:"secondaryInitCodeHash,omitempty"`
}

// CallJSON is an unsigned factory call with hex data and a decimal value
type CallJSON struct {
	To     common.Address `json:"to"`
	Value  string         `json:"value"`
	Data   hexutil.Bytes  `json:"data"`
	Method string         `json:"method"`
}

// NewDerivationJSON converts a derivation for JSON output
func NewDerivationJSON(d *create2.Derivation) DerivationJSON {
	out := DerivationJSON{
		Scheme:              d.Scheme,
		Variant:             string(d.Variant),
		Factory:             d.Factory,
		Salt:                d.Salt,
		GeneratedSalt:       d.GeneratedSalt,
		Primary:             d.Primary,
		PrimaryInitCodeHash: d.PrimaryInitCodeHash,
	}
	if d.HasSecondary() {
		out.Secondary = &d.Secondary
		out.SecondarySalt = &d.SecondarySalt
		out.SecondaryInitCodeHash = &d.SecondaryInitCodeHash
	}
	return out
}

// NewCallJSON converts a factory call for JSON output
func NewCallJSON(call *domain.FactoryCall) CallJSON {
	value := call.Value
	if value == nil {
		value = new(big.Int)
	}
	return CallJSON{To: call.To, Value: value.String(), Data: call.Data, Method: call.Method}
}

// DerivationRenderer renders address derivations and what is done with them
type DerivationRenderer struct {
	out io.Writer
}

// NewDerivationRenderer creates a new derivation renderer
func NewDerivationRenderer(out io.Writer) *DerivationRenderer {
	return &DerivationRenderer{out: out}
}

// RenderComputed renders the result of `compute`
func (r *DerivationRenderer) RenderComputed(plan *domain.DeploymentPlan, result *usecase.ComputeAddressResult) error {
	d := result.Derivation
	sectionHeaderStyle.Fprintf(r.out, "%s on %s\n", d.Scheme.Label(), networkLabel(result.Network))
	r.renderDerivation(plan, d)
	fmt.Fprintln(r.out, keyValueTable([][2]string{{"Salt input", string(result.SaltForm)}}))

	if result.UsedBy != nil {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Salt already recorded on this chain for %s", result.UsedBy.Hex())))
	}
	if len(result.OnChain) > 0 {
		if result.Verified {
			fmt.Fprintln(r.out, FormatSuccess("Factory returns the same addresses"))
		} else {
			fmt.Fprintln(r.out, badStyle.Sprintf("❌ Factory returns %v", result.OnChain))
		}
	}
	return nil
}

// RenderPrepared renders the result of `prepare`
func (r *DerivationRenderer) RenderPrepared(plan *domain.DeploymentPlan, result *usecase.PrepareDeploymentResult) error {
	d := result.Derivation
	sectionHeaderStyle.Fprintf(r.out, "%s on %s\n", d.Scheme.Label(), networkLabel(result.Network))
	r.renderDerivation(plan, d)

	value := "0"
	if result.Call.Value != nil {
		value = result.Call.Value.String()
	}
	sectionHeaderStyle.Fprintln(r.out, "Transaction")
	fmt.Fprintln(r.out, keyValueTable([][2]string{
		{"To", result.Call.To.Hex()},
		{"Method", result.Call.Method},
		{"Value (wei)", value},
		{"Data", hexutil.Encode(result.Call.Data)},
	}))

	for _, w := range result.Warnings {
		fmt.Fprintln(r.out, FormatWarning(w))
	}
	return nil
}

// RenderRegistered renders the result of `register`
func (r *DerivationRenderer) RenderRegistered(result *usecase.RegisterDeploymentResult) error {
	for _, rec := range result.Records {
		line := fmt.Sprintf("%s recorded for %s", addressStyle.Sprint(rec.Address.Hex()), rec.Key)
		if rec.Existed {
			line = fmt.Sprintf("%s already recorded for %s", addressStyle.Sprint(rec.Address.Hex()), rec.Key)
		}
		fmt.Fprintln(r.out, FormatSuccess(line))
		if url := result.Network.AddressURL(rec.Address); url != "" {
			fmt.Fprintf(r.out, "   %s\n", labelStyle.Sprint(url))
		}
	}
	rows := [][2]string{{"Salt", saltStyle.Sprint(result.Derivation.Salt.Hex())}}
	if result.BlockNumber > 0 {
		rows = append(rows, [2]string{"Block", fmt.Sprint(result.BlockNumber)})
	}
	fmt.Fprintln(r.out, keyValueTable(rows))
	return nil
}

func (r *DerivationRenderer) renderDerivation(plan *domain.DeploymentPlan, d *create2.Derivation) {
	rows := [][2]string{
		{"Factory", d.Factory.Hex()},
		{"Salt", saltStyle.Sprint(d.Salt.Hex())},
		{"Generated salt", d.GeneratedSalt.Hex()},
	}
	if d.HasSecondary() {
		pair := plan.Spec.(domain.LinkedPair)
		rows = append(rows,
			[2]string{"Variant", string(d.Variant)},
			[2]string{"Primary (" + kindLabel(pair.Primary.Kind()) + ")", addressStyle.Sprint(d.Primary.Hex())},
			[2]string{"Primary init code hash", d.PrimaryInitCodeHash.Hex()},
			[2]string{"Secondary (" + kindLabel(pair.Secondary.Kind()) + ")", addressStyle.Sprint(d.Secondary.Hex())},
			[2]string{"Secondary init code hash", d.SecondaryInitCodeHash.Hex()},
		)
	} else {
		rows = append(rows,
			[2]string{"Kind", kindLabel(plan.Spec.Kind())},
			[2]string{"Address", addressStyle.Sprint(d.Primary.Hex())},
			[2]string{"Init code hash", d.PrimaryInitCodeHash.Hex()},
		)
	}
	fmt.Fprintln(r.out, keyValueTable(rows))
}

func networkLabel(n *domain.Network) string {
	if n.ChainID == 0 {
		return "any chain"
	}
	return fmt.Sprintf("%s (chain %d)", n.Name, n.ChainID)
}
