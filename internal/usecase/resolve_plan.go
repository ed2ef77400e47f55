package usecase

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/models"
)

// ResolvePlanParams contains parameters for resolving a deployment plan
type ResolvePlanParams struct {
	// PlanFile is a YAML/JSON plan. Fields set in Request override the file.
	PlanFile string
	Request  *domain.PlanRequest
}

// ResolvePlanResult contains the resolved plan and the artifacts it was built from
type ResolvePlanResult struct {
	Plan      *domain.DeploymentPlan
	Artifacts []*models.Contract
}

// ResolvePlan turns a user plan request (file or flags) into a validated DeploymentPlan:
// contract names become bytecode, textual arguments become ABI-encoded calldata and
// amounts become wei.
type ResolvePlan struct {
	contracts ContractResolver
	args      ArgumentEncoder
	loader    PlanLoader
	sink      ProgressSink
}

// NewResolvePlan creates a new ResolvePlan use case
func NewResolvePlan(
	contracts ContractResolver,
	args ArgumentEncoder,
	loader PlanLoader,
	sink ProgressSink,
) *ResolvePlan {
	return &ResolvePlan{
		contracts: contracts,
		args:      args,
		loader:    loader,
		sink:      sink,
	}
}

// Run executes the use case
func (uc *ResolvePlan) Run(ctx context.Context, params ResolvePlanParams) (*ResolvePlanResult, error) {
	req, err := uc.request(ctx, params)
	if err != nil {
		return nil, err
	}

	b := &planBuilder{ctx: ctx, uc: uc}
	plan := &domain.DeploymentPlan{Owner: strings.TrimSpace(req.Owner)}

	if req.IsLinked() {
		if plan.Spec, err = b.linked(req); err != nil {
			return nil, err
		}
		plan.Contract = lo.CoalesceOrEmpty(req.Contract, req.Primary.Artifact)
		plan.SecondaryContract = lo.CoalesceOrEmpty(req.SecondaryContract, req.Secondary.Artifact)
	} else {
		if plan.Spec, err = b.single(req.Deployment, "deployment", false); err != nil {
			return nil, err
		}
		plan.Contract = lo.CoalesceOrEmpty(req.Contract, req.Deployment.Artifact)
	}

	if plan.Scheme, err = schemeFor(req); err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	return &ResolvePlanResult{Plan: plan, Artifacts: b.artifacts}, nil
}

func (uc *ResolvePlan) request(ctx context.Context, params ResolvePlanParams) (*domain.PlanRequest, error) {
	if params.PlanFile == "" {
		if params.Request == nil {
			return nil, fmt.Errorf("nothing to deploy: pass a plan file or a contract")
		}
		req := params.Request
		if req.Deployment == nil && !req.IsLinked() {
			contract, err := uc.contracts.ResolveContract(ctx, domain.ContractQuery{Prompt: "Select a contract to deploy:"})
			if err != nil {
				return nil, fmt.Errorf("nothing to deploy: %w", err)
			}
			req.Deployment = &domain.DeploymentRequest{Artifact: contract.Key()}
			req.Contract = lo.CoalesceOrEmpty(req.Contract, contract.Name)
		}
		return req, nil
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: fmt.Sprintf("Loading plan %s", params.PlanFile),
	})
	req, err := uc.loader.LoadPlan(ctx, params.PlanFile)
	if err != nil {
		return nil, err
	}
	if o := params.Request; o != nil {
		if o.Scheme != "" {
			req.Scheme = o.Scheme
		}
		if o.Owner != "" {
			req.Owner = o.Owner
		}
		if o.Contract != "" {
			req.Contract = o.Contract
		}
	}
	return req, nil
}

// schemeFor returns the requested scheme, or infers it from the request shape
func schemeFor(req *domain.PlanRequest) (domain.Scheme, error) {
	if req.Scheme != "" {
		return domain.ParseScheme(req.Scheme)
	}
	if req.IsLinked() {
		return domain.SchemeLinkedContracts, nil
	}
	return domain.SchemeUniversalFactory, nil
}

type planBuilder struct {
	ctx       context.Context
	uc        *ResolvePlan
	artifacts []*models.Contract
}

func (b *planBuilder) linked(req *domain.PlanRequest) (domain.DeploymentSpec, error) {
	if req.Primary == nil || req.Secondary == nil {
		return nil, fmt.Errorf("a linked deployment needs both primary and secondary")
	}

	primary, err := b.single(req.Primary, "primary", true)
	if err != nil {
		return nil, err
	}
	secondary, err := b.single(req.Secondary, "secondary", true)
	if err != nil {
		return nil, err
	}

	pair := domain.LinkedPair{
		Primary:                primary,
		Secondary:              secondary,
		LinkSecondaryToPrimary: req.LinkSecondaryToPrimary,
	}
	if pair.ExtraSecondaryParams, err = hexField("extraSecondaryParams", req.ExtraSecondaryParams); err != nil {
		return nil, err
	}
	if pair.PostDeploymentCalldata, err = hexField("postDeploymentCalldata", req.PostDeploymentCalldata); err != nil {
		return nil, err
	}
	if req.PostDeploymentModule != "" {
		if pair.PostDeploymentModule, err = domain.ParseAddress(req.PostDeploymentModule); err != nil {
			return nil, fmt.Errorf("postDeploymentModule: %w", err)
		}
	}
	if pair.PrimaryFunding, err = weiField("primaryFunding", req.PrimaryFunding); err != nil {
		return nil, err
	}
	if pair.SecondaryFunding, err = weiField("secondaryFunding", req.SecondaryFunding); err != nil {
		return nil, err
	}
	return pair, nil
}

// single builds a non-linked spec from one deployment request
func (b *planBuilder) single(d *domain.DeploymentRequest, role string, linked bool) (domain.DeploymentSpec, error) {
	if d == nil {
		return nil, fmt.Errorf("%s: no deployment given", role)
	}

	var contract *models.Contract
	if d.Artifact != "" {
		var err error
		contract, err = b.uc.contracts.ResolveContract(b.ctx, domain.ContractQuery{
			Name:   d.Artifact,
			Prompt: fmt.Sprintf("Select the %s contract:", role),
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", role, err)
		}
		b.artifacts = append(b.artifacts, contract)
	}

	kind := inferKind(d, linked)
	var (
		spec domain.DeploymentSpec
		err  error
	)
	switch kind {
	case domain.SpecProxyInitializable:
		spec, err = b.proxy(d, contract)
	case domain.SpecProxyNonInitializable:
		spec, err = b.proxyNoInit(d)
	case domain.SpecRawBytecode:
		spec, err = b.bytecode(d, contract)
	default:
		err = fmt.Errorf("%w: kind %q", domain.ErrUnsupportedScheme, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", role, err)
	}
	return spec, nil
}

// inferKind uses the explicit kind, otherwise an implementation address means a clone
// and anything else is bytecode. Clones are initializable when any initialize field is
// present, and always inside a linked pair.
func inferKind(d *domain.DeploymentRequest, linked bool) domain.SpecKind {
	if d.Kind != "" {
		return d.Kind
	}
	if d.Implementation == "" {
		return domain.SpecRawBytecode
	}
	if linked || d.InitializeCalldata != "" || d.InitializeMethod != "" || len(d.InitializeArgs) > 0 {
		return domain.SpecProxyInitializable
	}
	return domain.SpecProxyNonInitializable
}

func (b *planBuilder) proxy(d *domain.DeploymentRequest, contract *models.Contract) (domain.DeploymentSpec, error) {
	impl, err := implementation(d)
	if err != nil {
		return nil, err
	}

	spec := domain.ProxyInitializable{Implementation: impl}
	switch {
	case d.InitializeCalldata != "":
		if spec.InitializeCalldata, err = hexField("initializeCalldata", d.InitializeCalldata); err != nil {
			return nil, err
		}
	case d.InitializeMethod != "" || len(d.InitializeArgs) > 0:
		if contract == nil {
			return nil, fmt.Errorf("initializeArgs need an artifact to encode against")
		}
		method := d.InitializeMethod
		if method == "" {
			method = "initialize"
		}
		if spec.InitializeCalldata, err = b.uc.args.EncodeMethodCall(contract, method, d.InitializeArgs); err != nil {
			return nil, err
		}
	default:
		spec.InitializeCalldata = []byte{}
	}

	if spec.ConstructorValue, err = weiField("constructorValue", d.ConstructorValue); err != nil {
		return nil, err
	}
	if spec.InitializeValue, err = weiField("initializeValue", d.InitializeValue); err != nil {
		return nil, err
	}
	value, err := weiField("value", d.Value)
	if err != nil {
		return nil, err
	}
	if value != nil {
		if spec.InitializeValue != nil {
			return nil, fmt.Errorf("set either value or initializeValue, not both")
		}
		spec.InitializeValue = value
	}
	return spec, nil
}

func (b *planBuilder) proxyNoInit(d *domain.DeploymentRequest) (domain.DeploymentSpec, error) {
	impl, err := implementation(d)
	if err != nil {
		return nil, err
	}
	if d.InitializeCalldata != "" || d.InitializeMethod != "" || len(d.InitializeArgs) > 0 {
		return nil, fmt.Errorf("kind %s takes no initialize call", domain.SpecProxyNonInitializable)
	}
	value, err := weiField("value", d.Value)
	if err != nil {
		return nil, err
	}
	return domain.ProxyNonInitializable{Implementation: impl, Value: value}, nil
}

func (b *planBuilder) bytecode(d *domain.DeploymentRequest, contract *models.Contract) (domain.DeploymentSpec, error) {
	var code []byte
	switch {
	case d.Bytecode != "":
		var err error
		if code, err = hexField("bytecode", d.Bytecode); err != nil {
			return nil, err
		}
	case contract != nil:
		code = contract.Bytecode
	default:
		return nil, fmt.Errorf("bytecode deployments need an artifact or bytecode")
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("empty creation bytecode")
	}

	var ctorArgs []byte
	switch {
	case d.ConstructorData != "" && len(d.ConstructorArgs) > 0:
		return nil, fmt.Errorf("set either constructorArgs or constructorData, not both")
	case d.ConstructorData != "":
		var err error
		if ctorArgs, err = hexField("constructorData", d.ConstructorData); err != nil {
			return nil, err
		}
	case len(d.ConstructorArgs) > 0 || (contract != nil && contract.HasConstructorInputs() && d.Bytecode == ""):
		if contract == nil {
			return nil, fmt.Errorf("constructorArgs need an artifact to encode against")
		}
		var err error
		if ctorArgs, err = b.uc.args.EncodeConstructorArgs(contract, d.ConstructorArgs); err != nil {
			return nil, err
		}
	}

	value, err := weiField("value", d.Value)
	if err != nil {
		return nil, err
	}

	creation := make([]byte, 0, len(code)+len(ctorArgs))
	creation = append(append(creation, code...), ctorArgs...)
	return domain.RawBytecode{CreationBytecode: creation, Value: value}, nil
}

func implementation(d *domain.DeploymentRequest) (common.Address, error) {
	if d.Implementation == "" {
		return common.Address{}, fmt.Errorf("implementation address required")
	}
	addr, err := domain.ParseAddress(d.Implementation)
	if err != nil {
		return common.Address{}, fmt.Errorf("implementation: %w", err)
	}
	return addr, nil
}

func hexField(name, value string) ([]byte, error) {
	b, err := domain.ParseHexBytes(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return b, nil
}

func weiField(name, value string) (*big.Int, error) {
	v, err := domain.ParseWei(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}
