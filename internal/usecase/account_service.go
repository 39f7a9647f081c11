package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riftpulse/riftpulse/internal/domain/account"
	"github.com/riftpulse/riftpulse/internal/platform/logging"
)

type LinkAccountInput struct {
	PUUID       string
	DisplayName string
	Region      string
}

// AccountService covers the account lifecycle: linking a new account for
// tracking, lookups, and requeueing a synced account for another pass.
type AccountService struct {
	accounts account.Repository
	logger   *logging.Logger
}

func NewAccountService(accounts account.Repository, logger *logging.Logger) *AccountService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AccountService{accounts: accounts, logger: logger}
}

// LinkAccount registers a new tracked account. It starts in the pending
// state so the scheduler picks it up on its next tick.
func (s *AccountService) LinkAccount(ctx context.Context, input LinkAccountInput) (account.Account, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.LinkAccount")
	defer span.End()

	puuid := strings.TrimSpace(input.PUUID)
	if puuid == "" {
		return account.Account{}, fmt.Errorf("%w: puuid is required", ErrInvalidInput)
	}
	region := strings.ToLower(strings.TrimSpace(input.Region))
	if region == "" {
		return account.Account{}, fmt.Errorf("%w: region is required", ErrInvalidInput)
	}

	if _, found, err := s.accounts.GetByPUUID(ctx, puuid); err != nil {
		return account.Account{}, fmt.Errorf("check existing account: %w", err)
	} else if found {
		return account.Account{}, fmt.Errorf("%w: account with this puuid is already tracked", ErrAlreadyExists)
	}

	created, err := s.accounts.Create(ctx, account.Account{
		PUUID:       puuid,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Region:      region,
		SyncStatus:  account.SyncStatusPending,
	})
	if err != nil {
		return account.Account{}, fmt.Errorf("create account: %w", err)
	}

	s.logger.InfoContext(ctx, "account linked",
		"account_id", created.ID,
		"region", created.Region,
	)
	return created, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id int64) (account.Account, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.GetAccount")
	defer span.End()

	if id <= 0 {
		return account.Account{}, fmt.Errorf("%w: account id must be greater than zero", ErrInvalidInput)
	}
	acct, found, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return account.Account{}, fmt.Errorf("get account id=%d: %w", id, err)
	}
	if !found {
		return account.Account{}, fmt.Errorf("%w: account id=%d", ErrNotFound, id)
	}
	return acct, nil
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]account.Account, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.ListAccounts")
	defer span.End()

	items, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return items, nil
}

// RequestResync queues another sync pass for an account. An account that
// is mid-sync keeps its running pass; the request is rejected instead of
// stomping on the claim.
func (s *AccountService) RequestResync(ctx context.Context, id int64) (account.Account, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.RequestResync")
	defer span.End()

	acct, err := s.GetAccount(ctx, id)
	if err != nil {
		return account.Account{}, err
	}
	if acct.SyncStatus == account.SyncStatusSyncing {
		return account.Account{}, fmt.Errorf("%w: account is currently syncing", ErrAlreadyExists)
	}

	if err := s.accounts.MarkPending(ctx, id); err != nil {
		return account.Account{}, fmt.Errorf("mark account pending id=%d: %w", id, err)
	}
	acct.SyncStatus = account.SyncStatusPending
	return acct, nil
}
