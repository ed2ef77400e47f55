package domain

// DeploymentRequest is the user-facing description of one contract deployment, as
// written in a plan file or collected from flags. Exactly one of Artifact, Bytecode or
// Implementation names what is deployed; arguments may be given raw (hex) or as
// values encoded against the artifact ABI.
type DeploymentRequest struct {
	Kind SpecKind `yaml:"kind,omitempty" json:"kind,omitempty"`

	// Artifact is a compiled contract name. For proxies it supplies the ABI used to
	// encode InitializeArgs; for bytecode it supplies the creation code.
	Artifact       string `yaml:"artifact,omitempty" json:"artifact,omitempty"`
	Implementation string `yaml:"implementation,omitempty" json:"implementation,omitempty"`
	Bytecode       string `yaml:"bytecode,omitempty" json:"bytecode,omitempty"`

	ConstructorArgs []string `yaml:"constructorArgs,omitempty" json:"constructorArgs,omitempty"`
	ConstructorData string   `yaml:"constructorData,omitempty" json:"constructorData,omitempty"`

	InitializeMethod   string   `yaml:"initializeMethod,omitempty" json:"initializeMethod,omitempty"`
	InitializeArgs     []string `yaml:"initializeArgs,omitempty" json:"initializeArgs,omitempty"`
	InitializeCalldata string   `yaml:"initializeCalldata,omitempty" json:"initializeCalldata,omitempty"`

	Value            string `yaml:"value,omitempty" json:"value,omitempty"`
	ConstructorValue string `yaml:"constructorValue,omitempty" json:"constructorValue,omitempty"`
	InitializeValue  string `yaml:"initializeValue,omitempty" json:"initializeValue,omitempty"`
}

// PlanRequest describes a whole deployment: a single contract for lsp16 or a
// primary/secondary pair for lsp23
type PlanRequest struct {
	Scheme   string `yaml:"scheme,omitempty" json:"scheme,omitempty"`
	Contract string `yaml:"contract,omitempty" json:"contract,omitempty"`
	Owner    string `yaml:"owner,omitempty" json:"owner,omitempty"`

	Deployment *DeploymentRequest `yaml:"deployment,omitempty" json:"deployment,omitempty"`

	Primary                *DeploymentRequest `yaml:"primary,omitempty" json:"primary,omitempty"`
	Secondary              *DeploymentRequest `yaml:"secondary,omitempty" json:"secondary,omitempty"`
	SecondaryContract      string             `yaml:"secondaryContract,omitempty" json:"secondaryContract,omitempty"`
	LinkSecondaryToPrimary bool               `yaml:"linkSecondaryToPrimary,omitempty" json:"linkSecondaryToPrimary,omitempty"`
	ExtraSecondaryParams   string             `yaml:"extraSecondaryParams,omitempty" json:"extraSecondaryParams,omitempty"`
	PostDeploymentModule   string             `yaml:"postDeploymentModule,omitempty" json:"postDeploymentModule,omitempty"`
	PostDeploymentCalldata string             `yaml:"postDeploymentCalldata,omitempty" json:"postDeploymentCalldata,omitempty"`
	PrimaryFunding         string             `yaml:"primaryFunding,omitempty" json:"primaryFunding,omitempty"`
	SecondaryFunding       string             `yaml:"secondaryFunding,omitempty" json:"secondaryFunding,omitempty"`
}

// IsLinked reports whether the request describes a linked pair
func (r *PlanRequest) IsLinked() bool {
	return r.Primary != nil || r.Secondary != nil
}
