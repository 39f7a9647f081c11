package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riftpulse/riftpulse/internal/domain/account"
	"github.com/riftpulse/riftpulse/internal/infrastructure/repository/memory"
)

func TestGetAccountSummary_NotFound(t *testing.T) {
	t.Parallel()

	accounts := memory.NewAccountRepository()
	matches := memory.NewMatchRepository()
	svc := NewStatsService(accounts, memory.NewMetricsRepository(matches))

	if _, err := svc.GetAccountSummary(context.Background(), 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetAccountSummary_EmptyBeforeFirstSync(t *testing.T) {
	t.Parallel()

	accounts := memory.NewAccountRepository()
	matches := memory.NewMatchRepository()
	svc := NewStatsService(accounts, memory.NewMetricsRepository(matches))
	ctx := context.Background()

	created, err := accounts.Create(ctx, account.Account{PUUID: testPUUID(1), Region: "americas"})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	result, err := svc.GetAccountSummary(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetAccountSummary returned error: %v", err)
	}
	if result.Summary.Matches != 0 || result.Summary.Wins != 0 {
		t.Fatalf("expected empty summary, got %+v", result.Summary)
	}
	if result.Account.ID != created.ID {
		t.Fatalf("expected account echoed back, got %+v", result.Account)
	}
}

func TestGetAccountSummary_AggregatesSyncedMatches(t *testing.T) {
	t.Parallel()

	provider := &stubSyncProvider{
		pages: map[int][]string{0: {"NA1_2", "NA1_1"}},
		details: map[string]ExternalMatchDetail{
			"NA1_1": detailForMatch("NA1_1"),
			"NA1_2": detailForMatch("NA1_2"),
		},
		timelines: map[string]ExternalMatchTimeline{
			"NA1_1": {MatchID: "NA1_1", Frames: []ExternalTimelineFrame{frameAt(15, map[int]int{1: 15500})}},
			"NA1_2": {MatchID: "NA1_2"},
		},
	}
	syncSvc, accounts, _, metricsRepo := newSyncFixture(provider)
	statsSvc := NewStatsService(accounts, metricsRepo)

	acct := claimTestAccount(t, accounts)
	ctx := context.Background()
	if err := syncSvc.SyncAccount(ctx, acct); err != nil {
		t.Fatalf("SyncAccount returned error: %v", err)
	}

	result, err := statsSvc.GetAccountSummary(ctx, acct.ID)
	if err != nil {
		t.Fatalf("GetAccountSummary returned error: %v", err)
	}

	summary := result.Summary
	if summary.Matches != 2 || summary.Wins != 2 {
		t.Fatalf("expected 2 matches 2 wins, got %+v", summary)
	}
	if summary.AvgKills != 2 || summary.AvgDeaths != 2 || summary.AvgAssists != 2 {
		t.Fatalf("unexpected kda averages: %+v", summary)
	}
	// Each team scores 10 kills; 4 shares of those are the player's.
	if summary.AvgKillParticipationPct != 40 {
		t.Fatalf("expected 40%% kill participation, got %v", summary.AvgKillParticipationPct)
	}
	if summary.AvgDamageSharePct != 20 {
		t.Fatalf("expected 20%% damage share, got %v", summary.AvgDamageSharePct)
	}
	// Only NA1_1 has a minute-15 checkpoint: top lane is up 500 gold.
	if summary.AvgGoldDiffAt15 != 500 {
		t.Fatalf("expected avg gold diff 500, got %v", summary.AvgGoldDiffAt15)
	}
}
