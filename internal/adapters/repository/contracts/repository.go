package contracts

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/models"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// Repository indexes compiled artifacts (Hardhat or Foundry JSON) under the artifacts directory
type Repository struct {
	artifactsDir  string
	contracts     map[string]*models.Contract   // key: "relative/path:Name"
	contractNames map[string][]*models.Contract // key: contract name, value: all contracts with that name
	log           *slog.Logger
	mu            sync.RWMutex
	indexed       bool
}

// NewRepository creates a repository over the configured artifacts directory
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	return NewRepositoryAt(cfg.ArtifactsDir, log)
}

// NewRepositoryAt creates a repository over dir
func NewRepositoryAt(dir string, log *slog.Logger) *Repository {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		artifactsDir:  dir,
		contracts:     make(map[string]*models.Contract),
		contractNames: make(map[string][]*models.Contract),
		log:           log.With("component", "artifacts"),
	}
}

// Index walks the artifacts directory once. A missing directory yields an empty index.
func (i *Repository) Index() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.indexed {
		return nil
	}

	i.contracts = make(map[string]*models.Contract)
	i.contractNames = make(map[string][]*models.Contract)

	if _, err := os.Stat(i.artifactsDir); os.IsNotExist(err) {
		i.log.Debug("artifacts directory not found", "dir", i.artifactsDir)
		i.indexed = true
		return nil
	}

	err := filepath.WalkDir(i.artifactsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}
		return i.processArtifact(path)
	})
	if err != nil {
		return fmt.Errorf("failed to index artifacts in %s: %w", i.artifactsDir, err)
	}

	i.indexed = true
	return nil
}

// processArtifact loads a single artifact file, skipping anything without creation bytecode
func (i *Repository) processArtifact(artifactPath string) error {
	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return err
	}

	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		i.log.Debug("skipping non-artifact json", "path", artifactPath, "error", err)
		return nil
	}

	if artifact.Bytecode.Object == "" || artifact.Bytecode.Object == "0x" || len(artifact.ABI) == 0 {
		return nil
	}

	bytecode, err := decodeBytecode(artifact.Bytecode.Object)
	if err != nil {
		i.log.Warn("skipping artifact with unlinked or invalid bytecode", "path", artifactPath, "error", err)
		return nil
	}

	parsed, err := abi.JSON(strings.NewReader(string(artifact.ABI)))
	if err != nil {
		i.log.Warn("skipping artifact with invalid abi", "path", artifactPath, "error", err)
		return nil
	}

	name := artifact.ContractName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(artifactPath), ".json")
	}

	relPath, err := filepath.Rel(i.artifactsDir, artifactPath)
	if err != nil {
		relPath = artifactPath
	}

	info := &models.Contract{
		Name:         name,
		ArtifactPath: relPath,
		ABI:          &parsed,
		Bytecode:     bytecode,
	}

	i.contracts[info.Key()] = info
	i.contractNames[name] = append(i.contractNames[name], info)

	i.log.Debug("indexed artifact", "name", name, "path", relPath, "bytes", len(bytecode))
	return nil
}

func decodeBytecode(object string) ([]byte, error) {
	if !strings.HasPrefix(object, "0x") {
		object = "0x" + object
	}
	return hexutil.Decode(object)
}

// GetContract retrieves a contract by name or by "path:Name" when names collide
func (i *Repository) GetContract(ctx context.Context, key string) (*models.Contract, error) {
	if err := i.Index(); err != nil {
		return nil, err
	}
	i.mu.RLock()
	defer i.mu.RUnlock()

	if contract, exists := i.contracts[key]; exists {
		return contract, nil
	}

	matches := i.contractNames[key]
	switch len(matches) {
	case 0:
		return nil, &domain.UnknownContractErr{Name: key, Available: slices.Collect(maps.Keys(i.contractNames))}
	case 1:
		return matches[0], nil
	default:
		var keys []string
		for _, c := range matches {
			keys = append(keys, c.Key())
		}
		slices.Sort(keys)
		return nil, fmt.Errorf("multiple artifacts named %s, use one of: %s", key, strings.Join(keys, ", "))
	}
}

// ListContracts returns every indexed contract sorted by name and path
func (i *Repository) ListContracts(ctx context.Context) []*models.Contract {
	if err := i.Index(); err != nil {
		i.log.Warn("failed to index artifacts", "error", err)
		return nil
	}
	i.mu.RLock()
	defer i.mu.RUnlock()

	contracts := slices.Collect(maps.Values(i.contracts))
	slices.SortFunc(contracts, func(a, b *models.Contract) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ArtifactPath, b.ArtifactPath)
	})
	return contracts
}

// Ensure Repository implements ContractRepository
var _ usecase.ContractRepository = (*Repository)(nil)
