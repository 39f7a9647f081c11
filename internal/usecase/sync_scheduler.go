package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riftpulse/riftpulse/internal/domain/account"
	"github.com/riftpulse/riftpulse/internal/platform/logging"
)

const (
	defaultPollInterval   = 10 * time.Second
	defaultStuckThreshold = 10 * time.Minute
)

type SyncSchedulerConfig struct {
	PollInterval   time.Duration
	StuckThreshold time.Duration
	Workers        int
}

// SyncScheduler drives background synchronization. Each tick it first
// returns accounts stuck in the syncing state to pending, then claims
// pending accounts one at a time and hands them to the sync service. The
// claim is an atomic status transition, so multiple scheduler instances
// can share one database without double-syncing an account.
type SyncScheduler struct {
	accounts account.Repository
	syncer   *MatchSyncService
	cfg      SyncSchedulerConfig
	logger   *logging.Logger

	now func() time.Time
}

func NewSyncScheduler(accounts account.Repository, syncer *MatchSyncService, cfg SyncSchedulerConfig, logger *logging.Logger) *SyncScheduler {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.StuckThreshold <= 0 {
		cfg.StuckThreshold = defaultStuckThreshold
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncScheduler{
		accounts: accounts,
		syncer:   syncer,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Run blocks until ctx is cancelled. An account whose sync is interrupted
// by cancellation stays in the syncing state and is reclaimed by a later
// stuck sweep.
func (s *SyncScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "sync scheduler started",
		"poll_interval", s.cfg.PollInterval.String(),
		"stuck_threshold", s.cfg.StuckThreshold.String(),
		"workers", s.cfg.Workers,
	)

	for {
		if err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			s.logger.ErrorContext(ctx, "sync tick failed", "error", err)
		}

		select {
		case <-ctx.Done():
			s.logger.Info("sync scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single tick: sweep stuck accounts, then drain the
// pending queue.
func (s *SyncScheduler) RunOnce(ctx context.Context) error {
	if err := s.sweepStuck(ctx); err != nil {
		return err
	}
	return s.drainPending(ctx)
}

func (s *SyncScheduler) sweepStuck(ctx context.Context) error {
	cutoff := s.now().UTC().Add(-s.cfg.StuckThreshold)
	reset, err := s.accounts.ResetStuckSyncing(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("reset stuck accounts: %w", err)
	}
	if reset > 0 {
		s.logger.WarnContext(ctx, "returned stuck accounts to pending", "count", reset)
	}
	return nil
}

func (s *SyncScheduler) drainPending(ctx context.Context) error {
	if s.cfg.Workers <= 1 {
		for {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			acct, claimed, err := s.claimNext(ctx)
			if err != nil {
				return err
			}
			if !claimed {
				return nil
			}
			s.syncClaimed(ctx, acct)
		}
	}

	pool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for {
		if ctx.Err() != nil {
			break
		}
		acct, claimed, err := s.claimNext(ctx)
		if err != nil {
			workers.Wait()
			return err
		}
		if !claimed {
			break
		}

		workers.Add(1)
		if submitErr := pool.Submit(func() {
			defer workers.Done()
			s.syncClaimed(ctx, acct)
		}); submitErr != nil {
			workers.Done()
			workers.Wait()
			return fmt.Errorf("submit account to worker pool: %w", submitErr)
		}
	}
	workers.Wait()
	return ctx.Err()
}

func (s *SyncScheduler) claimNext(ctx context.Context) (account.Account, bool, error) {
	acct, claimed, err := s.accounts.ClaimNextPending(ctx)
	if err != nil {
		return account.Account{}, false, fmt.Errorf("claim pending account: %w", err)
	}
	return acct, claimed, nil
}

func (s *SyncScheduler) syncClaimed(ctx context.Context, acct account.Account) {
	if err := s.syncer.SyncAccount(ctx, acct); err != nil && ctx.Err() == nil {
		s.logger.ErrorContext(ctx, "account sync failed",
			"account_id", acct.ID,
			"error", err,
		)
	}
}
