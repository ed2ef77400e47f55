// Package miner searches for salts whose derived address starts with a given prefix.
package miner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// checkEvery is how many attempts a worker makes between context checks
const checkEvery = 256

// MinerAdapter runs a parallel random search over salts
type MinerAdapter struct {
	workers  int
	source   Source
	log      *slog.Logger
	attempts atomic.Uint64
}

// NewMinerAdapter creates a miner using the configured worker count and the
// configured seed, if any. Without a seed salts come from crypto/rand.
func NewMinerAdapter(cfg *config.RuntimeConfig, log *slog.Logger) (*MinerAdapter, error) {
	source := CryptoSource()
	if cfg.Mining.Seed != "" {
		seed, err := ParseSeed(cfg.Mining.Seed)
		if err != nil {
			return nil, err
		}
		source = SeededSource(seed)
	}
	return New(cfg.Mining.Workers, source, log), nil
}

// New creates a miner with workers goroutines (NumCPU when workers < 1)
func New(workers int, source Source, log *slog.Logger) *MinerAdapter {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if source == nil {
		source = CryptoSource()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &MinerAdapter{
		workers: workers,
		source:  source,
		log:     log.With("component", "miner"),
	}
}

// Workers returns the number of goroutines a session uses
func (m *MinerAdapter) Workers() int {
	return m.workers
}

// Attempts returns how many salts have been tried across all sessions
func (m *MinerAdapter) Attempts() uint64 {
	return m.attempts.Load()
}

// Mine returns a lazy sequence of exactly count matches. The sequence ends early when
// ctx is cancelled or the consumer stops iterating; a derivation or randomness failure
// is yielded once as an error and ends the session. Workers start when iteration starts
// and are all stopped before the iterator returns.
func (m *MinerAdapter) Mine(ctx context.Context, derive func(domain.Salt) (common.Address, error), prefix string, count int) iter.Seq2[domain.MinedSalt, error] {
	return func(yield func(domain.MinedSalt, error) bool) {
		want, err := domain.ParseAddressPrefix(prefix)
		if err != nil {
			yield(domain.MinedSalt{}, err)
			return
		}
		if count <= 0 {
			return
		}

		sessionCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		found := make(chan domain.MinedSalt)
		g, gctx := errgroup.WithContext(sessionCtx)
		for w := 0; w < m.workers; w++ {
			r := m.source(w)
			g.Go(func() error {
				return m.work(gctx, r, derive, want, found)
			})
		}

		waited := make(chan error, 1)
		go func() {
			waited <- g.Wait()
			close(found)
		}()

		m.log.Debug("mining started", "prefix", want.String(), "count", count, "workers", m.workers)

		stop := func() {
			cancel()
			for range found {
			}
		}

		n := 0
		for match := range found {
			n++
			if !yield(match, nil) {
				stop()
				m.log.Debug("mining stopped by consumer", "found", n)
				return
			}
			if n == count {
				stop()
				m.log.Debug("mining finished", "found", n, "attempts", m.Attempts())
				return
			}
		}

		err = <-waited
		switch {
		case ctx.Err() != nil:
			m.log.Debug("mining cancelled", "found", n)
			yield(domain.MinedSalt{}, ctx.Err())
		case err != nil && !errors.Is(err, context.Canceled):
			m.log.Debug("mining failed", "error", err)
			yield(domain.MinedSalt{}, err)
		}
	}
}

func (m *MinerAdapter) work(ctx context.Context, r io.Reader, derive func(domain.Salt) (common.Address, error), want domain.AddressPrefix, found chan<- domain.MinedSalt) error {
	var salt domain.Salt
	for i := 0; ; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		if _, err := io.ReadFull(r, salt[:]); err != nil {
			return fmt.Errorf("randomness source: %w", err)
		}
		addr, err := derive(salt)
		if err != nil {
			return fmt.Errorf("derive address for salt %s: %w", salt.Hex(), err)
		}
		m.attempts.Add(1)

		if !want.Matches(addr) {
			continue
		}
		select {
		case found <- domain.MinedSalt{Salt: salt, Address: addr}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

var _ usecase.SaltMiner = (*MinerAdapter)(nil)
