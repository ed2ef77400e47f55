package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/trebuchet-org/lspdeploy/internal/app"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// planFlags describes a deployment on the command line. Anything richer (initialize
// arguments for a linked pair, per-contract values) goes in a plan file.
type planFlags struct {
	file     string
	scheme   string
	contract string
	owner    string

	single deploymentFlags

	primary           deploymentFlags
	secondary         deploymentFlags
	secondaryContract string
	link              bool
	extraParams       string
	postModule        string
	postCalldata      string
	primaryFunding    string
	secondaryFunding  string
}

type deploymentFlags struct {
	kind             string
	artifact         string
	implementation   string
	bytecode         string
	constructorArgs  []string
	constructorData  string
	initMethod       string
	initArgs         []string
	initCalldata     string
	value            string
	constructorValue string
	initValue        string
}

func (p *planFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&p.file, "plan", "f", "", "YAML or JSON plan file")
	f.StringVar(&p.scheme, "scheme", "", "Factory scheme: lsp16 or lsp23 (inferred when omitted)")
	f.StringVar(&p.contract, "contract", "", "Contract identifier used in the salt registry")
	f.StringVar(&p.owner, "owner", "", "Owner address or label used in the salt registry")

	f.StringVar(&p.single.kind, "kind", "", "Deployment kind: proxy, proxy-noinit or bytecode")
	f.StringVarP(&p.single.artifact, "artifact", "a", "", "Compiled contract to deploy or to encode calls against")
	f.StringVar(&p.single.implementation, "implementation", "", "Implementation address for an ERC1167 clone")
	f.StringVar(&p.single.bytecode, "bytecode", "", "Creation bytecode (hex)")
	f.StringArrayVar(&p.single.constructorArgs, "constructor-arg", nil, "Constructor argument, repeat per argument")
	f.StringVar(&p.single.constructorData, "constructor-data", "", "ABI-encoded constructor arguments (hex)")
	f.StringVar(&p.single.initMethod, "init-method", "", "Initialize function name or signature (default initialize)")
	f.StringArrayVar(&p.single.initArgs, "init-arg", nil, "Initialize argument, repeat per argument")
	f.StringVar(&p.single.initCalldata, "init-calldata", "", "Initialize calldata (hex)")
	f.StringVar(&p.single.value, "value", "", "Value sent with the deployment (e.g. 1ether, 5gwei, 100)")
	f.StringVar(&p.single.constructorValue, "constructor-value", "", "Value forwarded to the clone constructor")
	f.StringVar(&p.single.initValue, "init-value", "", "Value forwarded to the initialize call")

	p.primary.registerLinked(f, "primary")
	p.secondary.registerLinked(f, "secondary")
	f.StringVar(&p.secondaryContract, "secondary-contract", "", "Secondary contract identifier used in the salt registry")
	f.BoolVar(&p.link, "link", false, "Append the primary address to the secondary init code or initialize calldata")
	f.StringVar(&p.extraParams, "extra-params", "", "Extra bytes appended after the primary address (hex)")
	f.StringVar(&p.postModule, "post-module", "", "Post-deployment module address")
	f.StringVar(&p.postCalldata, "post-calldata", "", "Post-deployment module calldata (hex)")
	f.StringVar(&p.primaryFunding, "primary-funding", "", "Value sent to the primary contract")
	f.StringVar(&p.secondaryFunding, "secondary-funding", "", "Value sent to the secondary contract")
}

func (d *deploymentFlags) registerLinked(f *pflag.FlagSet, role string) {
	f.StringVar(&d.artifact, role+"-artifact", "", "Compiled "+role+" contract")
	f.StringVar(&d.implementation, role+"-implementation", "", "Implementation address of the "+role+" clone")
	f.StringVar(&d.bytecode, role+"-bytecode", "", "Creation bytecode of the "+role+" contract (hex)")
	f.StringVar(&d.initCalldata, role+"-init-calldata", "", "Initialize calldata of the "+role+" clone (hex)")
}

func (d *deploymentFlags) isSet() bool {
	return d.kind != "" || d.artifact != "" || d.implementation != "" || d.bytecode != "" ||
		len(d.constructorArgs) > 0 || d.constructorData != "" || d.initMethod != "" ||
		len(d.initArgs) > 0 || d.initCalldata != "" ||
		d.value != "" || d.constructorValue != "" || d.initValue != ""
}

func (d *deploymentFlags) request() *domain.DeploymentRequest {
	if !d.isSet() {
		return nil
	}
	return &domain.DeploymentRequest{
		Kind:               domain.SpecKind(d.kind),
		Artifact:           d.artifact,
		Implementation:     d.implementation,
		Bytecode:           d.bytecode,
		ConstructorArgs:    d.constructorArgs,
		ConstructorData:    d.constructorData,
		InitializeMethod:   d.initMethod,
		InitializeArgs:     d.initArgs,
		InitializeCalldata: d.initCalldata,
		Value:              d.value,
		ConstructorValue:   d.constructorValue,
		InitializeValue:    d.initValue,
	}
}

// request builds the plan request from flags; a plan file only takes the overrides
func (p *planFlags) request() *domain.PlanRequest {
	req := &domain.PlanRequest{
		Scheme:   p.scheme,
		Contract: p.contract,
		Owner:    p.owner,
	}
	if p.file != "" {
		return req
	}

	req.Deployment = p.single.request()
	req.Primary = p.primary.request()
	req.Secondary = p.secondary.request()
	req.SecondaryContract = p.secondaryContract
	req.LinkSecondaryToPrimary = p.link
	req.ExtraSecondaryParams = p.extraParams
	req.PostDeploymentModule = p.postModule
	req.PostDeploymentCalldata = p.postCalldata
	req.PrimaryFunding = p.primaryFunding
	req.SecondaryFunding = p.secondaryFunding
	return req
}

// resolve turns the flags into a validated plan
func (p *planFlags) resolve(cmd *cobra.Command, a *app.App) (*domain.DeploymentPlan, error) {
	if p.single.isSet() && (p.primary.isSet() || p.secondary.isSet()) {
		return nil, fmt.Errorf("use either single deployment flags or --primary-*/--secondary-* flags, not both")
	}
	result, err := a.ResolvePlan.Run(cmd.Context(), usecase.ResolvePlanParams{
		PlanFile: p.file,
		Request:  p.request(),
	})
	if err != nil {
		return nil, err
	}
	return result.Plan, nil
}
