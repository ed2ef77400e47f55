package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"

	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/models"
)

// ResolveContract is the use case for resolving contract references
type ResolveContract struct {
	config    *config.RuntimeConfig
	contracts ContractRepository
	selector  ContractSelector
	sink      ProgressSink
}

// NewResolveContract creates a new ResolveContract use case
func NewResolveContract(
	cfg *config.RuntimeConfig,
	contracts ContractRepository,
	selector ContractSelector,
	sink ProgressSink,
) *ResolveContract {
	return &ResolveContract{
		config:    cfg,
		contracts: contracts,
		selector:  selector,
		sink:      sink,
	}
}

// ResolveContract resolves a contract query to a single artifact. An empty name or an
// ambiguous one falls back to the interactive selector unless prompts are disabled.
func (uc *ResolveContract) ResolveContract(ctx context.Context, query domain.ContractQuery) (*models.Contract, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "resolving",
		Message: fmt.Sprintf("Resolving %s", query),
		Spinner: true,
	})

	if query.Name == "" {
		return uc.pick(ctx, uc.contracts.ListContracts(ctx), query.Prompt, errors.New("contract name required"))
	}

	contract, err := uc.contracts.GetContract(ctx, query.Name)
	if err == nil {
		return contract, nil
	}

	var unknown *domain.UnknownContractErr
	if errors.As(err, &unknown) {
		suggestions := uc.suggest(ctx, query.Name)
		if len(suggestions) == 0 {
			return nil, err
		}
		prompt := fmt.Sprintf("Contract '%s' not found. Did you mean:", query.Name)
		return uc.pick(ctx, suggestions, prompt, err)
	}

	// Ambiguous name: offer every artifact carrying it
	matches := lo.Filter(uc.contracts.ListContracts(ctx), func(c *models.Contract, _ int) bool {
		return c.Name == query.Name
	})
	if len(matches) < 2 {
		return nil, err
	}
	prompt := fmt.Sprintf("Multiple contracts found for '%s'. Select one:", query.Name)
	return uc.pick(ctx, matches, prompt, err)
}

// pick delegates to the selector, or returns cause in non-interactive mode
func (uc *ResolveContract) pick(ctx context.Context, contracts []*models.Contract, prompt string, cause error) (*models.Contract, error) {
	if len(contracts) == 0 {
		return nil, fmt.Errorf("%w: no artifacts found in %s", cause, uc.config.ArtifactsDir)
	}
	if uc.selector == nil || uc.config.NonInteractive {
		return nil, cause
	}
	if prompt == "" {
		prompt = "Select a contract:"
	}

	selected, err := uc.selector.SelectContract(ctx, contracts, prompt)
	if err != nil {
		return nil, fmt.Errorf("contract selection failed: %w", err)
	}
	return selected, nil
}

// suggest returns loaded contracts whose name fuzzy-matches name, best first
func (uc *ResolveContract) suggest(ctx context.Context, name string) []*models.Contract {
	all := uc.contracts.ListContracts(ctx)
	names := lo.Map(all, func(c *models.Contract, _ int) string {
		return c.Name
	})

	var out []*models.Contract
	for _, match := range fuzzy.Find(strings.ToLower(name), lowered(names)) {
		out = append(out, all[match.Index])
	}
	return out
}

func lowered(values []string) []string {
	return lo.Map(values, func(s string, _ int) string {
		return strings.ToLower(s)
	})
}

// Ensure the use case implements the interface
var _ ContractResolver = (*ResolveContract)(nil)
