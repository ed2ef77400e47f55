package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofrs/flock"

	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

const (
	// SaltRegistryFile is the registry file name inside the data directory
	SaltRegistryFile = "used-salts.json"
	lockSuffix       = ".lock"
	lockRetryDelay   = 10 * time.Millisecond
)

// usedSalts is the on-disk shape: chainId -> scheme -> contract -> owner -> salt -> address
type usedSalts map[string]map[string]map[string]map[string]map[string]string

// SaltRegistryAdapter implements SaltRegistry on a JSON file guarded by a lock file
type SaltRegistryAdapter struct {
	path string
	// mu serializes callers sharing this adapter; the file lock only excludes other handles
	mu   sync.Mutex
	lock *flock.Flock
	log  *slog.Logger
}

// NewSaltRegistryAdapter creates a registry in the configured data directory
func NewSaltRegistryAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *SaltRegistryAdapter {
	return NewSaltRegistryAt(filepath.Join(cfg.DataDir, SaltRegistryFile), log)
}

// NewSaltRegistryAt creates a registry backed by the file at path
func NewSaltRegistryAt(path string, log *slog.Logger) *SaltRegistryAdapter {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &SaltRegistryAdapter{
		path: path,
		lock: flock.New(path + lockSuffix),
		log:  log.With("component", "salt-registry"),
	}
}

// Path returns the registry file location
func (r *SaltRegistryAdapter) Path() string {
	return r.path
}

// Record stores salt -> addr under key
func (r *SaltRegistryAdapter) Record(ctx context.Context, key domain.RegistryKey, salt domain.Salt, addr common.Address) error {
	_, err := r.RecordAll(ctx, []domain.RegistryEntry{{Key: key, Salt: salt, Address: addr}})
	return err
}

// RecordAll stores every entry under one exclusive lock and one write. A conflict on any
// entry fails the batch before the file changes. The returned flags report which entries
// were already present.
func (r *SaltRegistryAdapter) RecordAll(ctx context.Context, entries []domain.RegistryEntry) ([]bool, error) {
	normalized := make([]domain.RegistryEntry, len(entries))
	for i, e := range entries {
		e.Key = e.Key.Normalize()
		if err := e.Key.Validate(); err != nil {
			return nil, err
		}
		normalized[i] = e
	}

	unlock, err := r.acquire(ctx, true)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := r.read()
	if err != nil {
		return nil, err
	}

	existed := make([]bool, len(normalized))
	for i, e := range normalized {
		existing, ok := data.scope(e.Key, false)[e.Salt.Hex()]
		if !ok {
			continue
		}
		if existingAddr := common.HexToAddress(existing); existingAddr != e.Address {
			return nil, &domain.RegistryConflictErr{
				Key:       e.Key,
				Salt:      e.Salt,
				Existing:  existingAddr,
				Attempted: e.Address,
			}
		}
		existed[i] = true
	}

	changed := false
	for i, e := range normalized {
		saltHex := e.Salt.Hex()
		if existed[i] {
			r.log.Debug("salt already recorded", "key", e.Key.String(), "salt", saltHex)
			continue
		}
		scope := data.scope(e.Key, true)
		if existing, ok := scope[saltHex]; ok {
			// same key and salt twice in one batch
			if common.HexToAddress(existing) != e.Address {
				return nil, &domain.RegistryConflictErr{
					Key:       e.Key,
					Salt:      e.Salt,
					Existing:  common.HexToAddress(existing),
					Attempted: e.Address,
				}
			}
			continue
		}
		scope[saltHex] = e.Address.Hex()
		changed = true
	}
	if !changed {
		return existed, nil
	}

	if err := r.write(data); err != nil {
		return nil, err
	}
	for i, e := range normalized {
		if !existed[i] {
			r.log.Debug("recorded salt", "key", e.Key.String(), "salt", e.Salt.Hex(), "address", e.Address.Hex())
		}
	}
	return existed, nil
}

// Lookup returns the addresses recorded under key, ordered by salt
func (r *SaltRegistryAdapter) Lookup(ctx context.Context, key domain.RegistryKey) ([]common.Address, error) {
	salts, err := r.Salts(ctx, key)
	if err != nil {
		return nil, err
	}

	keys := make([]domain.Salt, 0, len(salts))
	for s := range salts {
		keys = append(keys, s)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Hex() < keys[j].Hex() })

	addrs := make([]common.Address, 0, len(keys))
	for _, s := range keys {
		addrs = append(addrs, salts[s])
	}
	return addrs, nil
}

// Salts returns the salt -> address entries recorded under key
func (r *SaltRegistryAdapter) Salts(ctx context.Context, key domain.RegistryKey) (map[domain.Salt]common.Address, error) {
	key = key.Normalize()
	if err := key.Validate(); err != nil {
		return nil, err
	}

	data, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[domain.Salt]common.Address)
	for saltHex, addr := range data.scope(key, false) {
		salt, err := domain.ParseSalt(saltHex)
		if err != nil {
			r.log.Warn("skipping malformed salt in registry", "key", key.String(), "salt", saltHex)
			continue
		}
		result[salt] = common.HexToAddress(addr)
	}
	return result, nil
}

// Scopes lists every recorded key matching filter, sorted
func (r *SaltRegistryAdapter) Scopes(ctx context.Context, filter domain.RegistryFilter) ([]domain.RegistryKey, error) {
	data, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var keys []domain.RegistryKey
	for chain, schemes := range data {
		chainID, err := strconv.ParseUint(chain, 10, 64)
		if err != nil {
			r.log.Warn("skipping malformed chain id in registry", "chain", chain)
			continue
		}
		for scheme, contracts := range schemes {
			for contract, owners := range contracts {
				for owner, salts := range owners {
					if len(salts) == 0 {
						continue
					}
					key := domain.RegistryKey{
						ChainID:  chainID,
						Scheme:   domain.Scheme(scheme),
						Contract: contract,
						Owner:    owner,
					}
					if filter.Matches(key) {
						keys = append(keys, key)
					}
				}
			}
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.ChainID != b.ChainID {
			return a.ChainID < b.ChainID
		}
		return strings.Compare(a.String(), b.String()) < 0
	})
	return keys, nil
}

func (r *SaltRegistryAdapter) snapshot(ctx context.Context) (usedSalts, error) {
	unlock, err := r.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return r.read()
}

// acquire takes the exclusive lock for writers and the shared lock for readers
func (r *SaltRegistryAdapter) acquire(ctx context.Context, exclusive bool) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create registry directory: %v", domain.ErrRegistryIO, err)
	}

	r.mu.Lock()

	var (
		ok  bool
		err error
	)
	if exclusive {
		ok, err = r.lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		ok, err = r.lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		r.mu.Unlock()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to lock %s: %v", domain.ErrRegistryIO, r.lock.Path(), err)
	}
	if !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: could not lock %s", domain.ErrRegistryIO, r.lock.Path())
	}

	return func() {
		if err := r.lock.Unlock(); err != nil {
			r.log.Warn("failed to release registry lock", "error", err)
		}
		r.mu.Unlock()
	}, nil
}

func (r *SaltRegistryAdapter) read() (usedSalts, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return usedSalts{}, nil
		}
		return nil, fmt.Errorf("%w: failed to read %s: %v", domain.ErrRegistryIO, r.path, err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return usedSalts{}, nil
	}

	var data usedSalts
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", domain.ErrRegistryIO, r.path, err)
	}
	if data == nil {
		data = usedSalts{}
	}
	data.canonicalize()
	return data, nil
}

// write replaces the registry file through a synced temp file in the same directory
func (r *SaltRegistryAdapter) write(data usedSalts) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to encode registry: %v", domain.ErrRegistryIO, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %v", domain.ErrRegistryIO, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(append(encoded, '\n')); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%w: failed to write registry: %v", domain.ErrRegistryIO, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%w: failed to sync registry: %v", domain.ErrRegistryIO, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: failed to close registry: %v", domain.ErrRegistryIO, err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		cleanup()
		return fmt.Errorf("%w: failed to replace registry: %v", domain.ErrRegistryIO, err)
	}
	return nil
}

// scope returns the salt map for key, creating the path when create is set.
// A null at any level of the document counts as missing.
func (u usedSalts) scope(key domain.RegistryKey, create bool) map[string]string {
	chain := strconv.FormatUint(key.ChainID, 10)
	scheme := string(key.Scheme)

	schemes := u[chain]
	if schemes == nil {
		if !create {
			return nil
		}
		schemes = make(map[string]map[string]map[string]map[string]string)
		u[chain] = schemes
	}
	contracts := schemes[scheme]
	if contracts == nil {
		if !create {
			return nil
		}
		contracts = make(map[string]map[string]map[string]string)
		schemes[scheme] = contracts
	}
	owners := contracts[key.Contract]
	if owners == nil {
		if !create {
			return nil
		}
		owners = make(map[string]map[string]string)
		contracts[key.Contract] = owners
	}
	salts := owners[key.Owner]
	if salts == nil {
		if !create {
			return nil
		}
		salts = make(map[string]string)
		owners[key.Owner] = salts
	}
	return salts
}

// canonicalize rewrites salt keys to their lowercase 0x form so that files written by hand
// or by other tools compare equal to recorded salts. Keys that do not parse are left as is.
func (u usedSalts) canonicalize() {
	for _, schemes := range u {
		for _, contracts := range schemes {
			for _, owners := range contracts {
				for _, salts := range owners {
					for raw, addr := range salts {
						s, err := domain.ParseSalt(raw)
						if err != nil {
							continue
						}
						canonical := s.Hex()
						if canonical == raw {
							continue
						}
						delete(salts, raw)
						if _, taken := salts[canonical]; !taken {
							salts[canonical] = addr
						}
					}
				}
			}
		}
	}
}

// Ensure SaltRegistryAdapter implements SaltRegistry
var _ usecase.SaltRegistry = (*SaltRegistryAdapter)(nil)
