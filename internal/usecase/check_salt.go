package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/salt"
)

// CheckSaltParams contains parameters for checking a salt
type CheckSaltParams struct {
	Salt string
	// AllChains searches the registry on every chain instead of the selected network
	AllChains bool
}

// CheckSaltResult reports how a salt normalizes and where it was already used
type CheckSaltResult struct {
	Input string
	Form  salt.Form
	Salt  domain.Salt
	Uses  []SaltUse
}

// SaltUse is one registry scope the salt is recorded in
type SaltUse struct {
	Key     domain.RegistryKey
	Address common.Address
}

// CheckSalt is the use case for inspecting a salt before using it
type CheckSalt struct {
	config   *config.RuntimeConfig
	registry SaltRegistry
}

// NewCheckSalt creates a new CheckSalt use case
func NewCheckSalt(cfg *config.RuntimeConfig, registry SaltRegistry) *CheckSalt {
	return &CheckSalt{
		config:   cfg,
		registry: registry,
	}
}

// Run executes the use case
func (uc *CheckSalt) Run(ctx context.Context, params CheckSaltParams) (*CheckSaltResult, error) {
	s, err := salt.Normalize(params.Salt)
	if err != nil {
		return nil, err
	}

	result := &CheckSaltResult{
		Input: params.Salt,
		Form:  salt.Classify(params.Salt),
		Salt:  s,
	}

	filter := domain.RegistryFilter{}
	if !params.AllChains {
		filter.ChainID = uc.config.ChainID()
		if filter.ChainID == 0 {
			return result, nil
		}
	}

	scopes, err := uc.registry.Scopes(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, key := range scopes {
		salts, err := uc.registry.Salts(ctx, key)
		if err != nil {
			return nil, err
		}
		if addr, ok := salts[s]; ok {
			result.Uses = append(result.Uses, SaltUse{Key: key, Address: addr})
		}
	}

	return result, nil
}
