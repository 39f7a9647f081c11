package usecase

import (
	"context"
	"fmt"

	"github.com/riftpulse/riftpulse/internal/domain/account"
	"github.com/riftpulse/riftpulse/internal/domain/metrics"
)

// AccountSummaryResult pairs an account with its aggregated performance
// numbers. Matches is zero for accounts that have not completed a sync.
type AccountSummaryResult struct {
	Account account.Account
	Summary metrics.AccountSummary
}

type StatsService struct {
	accounts account.Repository
	metrics  metrics.Repository
}

func NewStatsService(accounts account.Repository, metricsRepo metrics.Repository) *StatsService {
	return &StatsService{accounts: accounts, metrics: metricsRepo}
}

func (s *StatsService) GetAccountSummary(ctx context.Context, accountID int64) (AccountSummaryResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.GetAccountSummary")
	defer span.End()

	if accountID <= 0 {
		return AccountSummaryResult{}, fmt.Errorf("%w: account id must be greater than zero", ErrInvalidInput)
	}
	acct, found, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return AccountSummaryResult{}, fmt.Errorf("get account id=%d: %w", accountID, err)
	}
	if !found {
		return AccountSummaryResult{}, fmt.Errorf("%w: account id=%d", ErrNotFound, accountID)
	}

	summary, err := s.metrics.GetAccountSummary(ctx, acct.PUUID)
	if err != nil {
		return AccountSummaryResult{}, fmt.Errorf("load account summary id=%d: %w", accountID, err)
	}
	summary.PUUID = acct.PUUID

	return AccountSummaryResult{Account: acct, Summary: summary}, nil
}
