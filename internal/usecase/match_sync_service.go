package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riftpulse/riftpulse/internal/domain/account"
	"github.com/riftpulse/riftpulse/internal/domain/match"
	"github.com/riftpulse/riftpulse/internal/domain/metrics"
	"github.com/riftpulse/riftpulse/internal/platform/logging"
)

// MatchSyncService runs a full synchronization pass for one account:
// discover new match IDs, fetch detail and timeline for each, reduce them
// to derived rows, and persist everything. A failure on a single match is
// logged and counted; it does not abort the rest of the account's sync.
type MatchSyncService struct {
	provider  MatchDataProvider
	accounts  account.Repository
	matches   match.Repository
	metrics   metrics.Repository
	discovery *MatchDiscovery
	reducer   *TimelineReducer
	logger    *logging.Logger

	// now is injectable for tests.
	now func() time.Time
}

func (s *MatchSyncService) nowUTC() time.Time {
	return s.now().UTC()
}

func NewMatchSyncService(
	provider MatchDataProvider,
	accounts account.Repository,
	matches match.Repository,
	metricsRepo metrics.Repository,
	discoveryCfg MatchDiscoveryConfig,
	logger *logging.Logger,
) *MatchSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchSyncService{
		provider:  provider,
		accounts:  accounts,
		matches:   matches,
		metrics:   metricsRepo,
		discovery: NewMatchDiscovery(provider, discoveryCfg, logger),
		reducer:   NewTimelineReducer(logger),
		logger:    logger,
		now:       time.Now,
	}
}

// SyncAccount synchronizes one already-claimed account and writes the final
// sync status back. When ctx is cancelled mid-run the account is left in
// the syncing state on purpose; the stuck sweep returns it to pending later.
func (s *MatchSyncService) SyncAccount(ctx context.Context, acct account.Account) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.SyncAccount")
	defer span.End()

	if acct.ID <= 0 {
		return fmt.Errorf("%w: account id must be greater than zero", ErrInvalidInput)
	}

	known, err := s.matches.GetExistingMatchIDs(ctx, acct.PUUID)
	if err != nil {
		return s.failSync(ctx, acct, fmt.Errorf("load existing match ids: %w", err))
	}

	newIDs, err := s.discovery.DiscoverNewMatchIDs(ctx, acct.PUUID, known, acct.LastSyncAt)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return s.failSync(ctx, acct, fmt.Errorf("discover new matches: %w", err))
	}

	if err := s.accounts.UpdateSyncProgress(ctx, acct.ID, 0, len(newIDs)); err != nil {
		return s.failSync(ctx, acct, fmt.Errorf("record sync total: %w", err))
	}

	// Discovery returns newest first; process oldest first so an
	// interrupted run leaves a contiguous history behind.
	processed, failed := 0, 0
	for i := len(newIDs) - 1; i >= 0; i-- {
		matchID := newIDs[i]
		if err := s.syncMatch(ctx, matchID); err != nil {
			if ctx.Err() != nil {
				return err
			}
			failed++
			s.logger.WarnContext(ctx, "match sync failed",
				"account_id", acct.ID,
				"match_id", matchID,
				"error", err,
			)
		}
		processed++
		if err := s.accounts.UpdateSyncProgress(ctx, acct.ID, processed, len(newIDs)); err != nil {
			return s.failSync(ctx, acct, fmt.Errorf("record sync progress: %w", err))
		}
	}

	completedAt := s.nowUTC()
	if err := s.accounts.UpdateSyncStatus(ctx, acct.ID, account.SyncStatusCompleted, &completedAt); err != nil {
		return fmt.Errorf("mark sync completed account_id=%d: %w", acct.ID, err)
	}

	s.logger.InfoContext(ctx, "account sync completed",
		"account_id", acct.ID,
		"new_matches", len(newIDs),
		"failed_matches", failed,
	)
	return nil
}

func (s *MatchSyncService) syncMatch(ctx context.Context, matchID string) error {
	detail, err := s.provider.GetMatchDetail(ctx, matchID)
	if err != nil {
		return fmt.Errorf("fetch match detail: %w", err)
	}

	timeline, err := s.provider.GetMatchTimeline(ctx, matchID)
	if err != nil && !errors.Is(err, ErrMatchNotFound) {
		return fmt.Errorf("fetch match timeline: %w", err)
	}

	records, err := s.reducer.Reduce(detail, timeline)
	if err != nil {
		return fmt.Errorf("reduce match: %w", err)
	}

	if err := s.matches.UpsertMatch(ctx, records.Match); err != nil {
		return fmt.Errorf("upsert match: %w", err)
	}
	if err := s.matches.UpsertParticipants(ctx, records.Participants); err != nil {
		return fmt.Errorf("upsert participants: %w", err)
	}
	if err := s.metrics.UpsertCheckpoints(ctx, records.Checkpoints); err != nil {
		return fmt.Errorf("upsert checkpoints: %w", err)
	}
	if err := s.metrics.UpsertParticipantMetrics(ctx, records.ParticipantMetrics); err != nil {
		return fmt.Errorf("upsert participant metrics: %w", err)
	}
	if err := s.metrics.UpsertTeamObjectives(ctx, records.TeamObjectives); err != nil {
		return fmt.Errorf("upsert team objectives: %w", err)
	}
	if err := s.metrics.UpsertParticipantObjectives(ctx, records.ParticipantObjectives); err != nil {
		return fmt.Errorf("upsert participant objectives: %w", err)
	}
	if err := s.metrics.UpsertTeamMatchMetrics(ctx, records.TeamMetrics); err != nil {
		return fmt.Errorf("upsert team metrics: %w", err)
	}
	if err := s.metrics.UpsertDuoMetrics(ctx, records.DuoMetrics); err != nil {
		return fmt.Errorf("upsert duo metrics: %w", err)
	}
	return nil
}

func (s *MatchSyncService) failSync(ctx context.Context, acct account.Account, cause error) error {
	if err := s.accounts.UpdateSyncStatus(ctx, acct.ID, account.SyncStatusFailed, nil); err != nil {
		s.logger.ErrorContext(ctx, "failed to mark sync as failed",
			"account_id", acct.ID,
			"error", err,
		)
	}
	return fmt.Errorf("sync account_id=%d: %w", acct.ID, cause)
}
