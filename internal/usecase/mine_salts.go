package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/create2"
)

// progressInterval is how often the attempt counter is reported while mining
const progressInterval = 250 * time.Millisecond

// MineSaltsParams contains parameters for a vanity salt search
type MineSaltsParams struct {
	Plan   *domain.DeploymentPlan
	Prefix string
	Count  int
}

// MineSaltsResult contains the salts found
type MineSaltsResult struct {
	Network  *domain.Network
	Prefix   domain.AddressPrefix
	Matches  []*create2.Derivation
	Attempts uint64
	Workers  int
	Duration time.Duration
	// Expected is the mean number of attempts per match
	Expected float64
	// Incomplete is set when the timeout or an interrupt ended the search early
	Incomplete bool
}

// MineSalts searches for salts whose primary address starts with a prefix
type MineSalts struct {
	config *config.RuntimeConfig
	miner  SaltMiner
	sink   ProgressSink
	log    *slog.Logger
}

// NewMineSalts creates a new MineSalts use case
func NewMineSalts(
	cfg *config.RuntimeConfig,
	miner SaltMiner,
	sink ProgressSink,
	log *slog.Logger,
) *MineSalts {
	return &MineSalts{
		config: cfg,
		miner:  miner,
		sink:   sink,
		log:    log,
	}
}

// Run executes the use case
func (uc *MineSalts) Run(ctx context.Context, params MineSaltsParams) (*MineSaltsResult, error) {
	if params.Count < 1 {
		return nil, fmt.Errorf("count must be at least 1, got %d", params.Count)
	}
	prefix, err := domain.ParseAddressPrefix(params.Prefix)
	if err != nil {
		return nil, err
	}
	if err := params.Plan.Validate(); err != nil {
		return nil, err
	}

	network := activeNetwork(uc.config)
	factory, err := network.Factory(params.Plan.Scheme)
	if err != nil {
		return nil, err
	}
	derive, err := create2.Deriver(params.Plan.Scheme, factory, params.Plan.Spec)
	if err != nil {
		return nil, err
	}

	if uc.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.config.Timeout)
		defer cancel()
	}

	result := &MineSaltsResult{
		Network:  network,
		Prefix:   prefix,
		Workers:  uc.miner.Workers(),
		Expected: prefix.ExpectedAttempts(),
	}

	startAttempts := uc.miner.Attempts()
	started := time.Now()
	stopReporting := uc.reportAttempts(ctx, prefix, params.Count, startAttempts)
	defer stopReporting()

	var mineErr error
	for match, err := range uc.miner.Mine(ctx, derive, params.Prefix, params.Count) {
		if err != nil {
			mineErr = err
			break
		}
		d, err := deriveWithSalt(uc.config, network, params.Plan, match.Salt)
		if err != nil {
			return nil, err
		}
		if d.Primary != match.Address {
			return nil, &domain.AddressMismatchErr{Role: "mined", Reported: match.Address, Derived: d.Primary}
		}
		result.Matches = append(result.Matches, d)
		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:    "mining",
			Current:  len(result.Matches),
			Total:    params.Count,
			Message:  fmt.Sprintf("Found %s", d.Primary.Hex()),
			Metadata: d,
		})
	}
	stopReporting()

	result.Attempts = uc.miner.Attempts() - startAttempts
	result.Duration = time.Since(started)
	uc.log.Debug("mining session ended", "matches", len(result.Matches), "attempts", result.Attempts, "duration", result.Duration)

	if mineErr != nil {
		stopped := errors.Is(mineErr, context.DeadlineExceeded) || errors.Is(mineErr, context.Canceled)
		if stopped && len(result.Matches) > 0 {
			result.Incomplete = true
			return result, nil
		}
		return nil, fmt.Errorf("mining stopped after %d attempts: %w", result.Attempts, mineErr)
	}
	return result, nil
}

// reportAttempts emits the attempt counter until the returned stop function is called
func (uc *MineSalts) reportAttempts(ctx context.Context, prefix domain.AddressPrefix, count int, base uint64) func() {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				uc.sink.OnProgress(ctx, ProgressEvent{
					Stage:   "mining",
					Total:   count,
					Message: fmt.Sprintf("Mining 0x%s… %d attempts", prefix, uc.miner.Attempts()-base),
					Spinner: true,
				})
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}
