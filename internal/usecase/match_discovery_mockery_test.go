package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	usecasemock "github.com/riftpulse/riftpulse/internal/mocks/usecase"
	"github.com/riftpulse/riftpulse/internal/platform/logging"
	"github.com/riftpulse/riftpulse/internal/usecase"
)

func TestMatchDiscovery_DiscoverNewMatchIDs_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := usecasemock.NewMatchDataProvider(t)

	discovery := usecase.NewMatchDiscovery(provider, usecase.MatchDiscoveryConfig{PageSize: 4}, logging.NewNop())
	puuid := "puuid-mockery-1"

	provider.
		On("ListMatchIDs", mock.MatchedBy(func(v context.Context) bool { return v != nil }), puuid, 0, 4, mock.Anything).
		Return([]string{"KR_40", "KR_39", "KR_38", "KR_37"}, nil).
		Once()

	known := map[string]struct{}{"KR_38": {}, "KR_37": {}}
	got, err := discovery.DiscoverNewMatchIDs(ctx, puuid, known, nil)
	if err != nil {
		t.Fatalf("discover new match ids: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected match count: got=%d want=%d", len(got), 2)
	}
	if got[0] != "KR_40" || got[1] != "KR_39" {
		t.Fatalf("unexpected match ids: got=%v", got)
	}
}

func TestMatchDiscovery_DiscoverNewMatchIDs_ProviderTimeoutUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := usecasemock.NewMatchDataProvider(t)

	discovery := usecase.NewMatchDiscovery(provider, usecase.MatchDiscoveryConfig{PageSize: 4}, logging.NewNop())
	puuid := "puuid-mockery-2"

	provider.
		On("ListMatchIDs", mock.MatchedBy(func(v context.Context) bool { return v != nil }), puuid, 0, 4, mock.Anything).
		Return(nil, usecase.ErrProviderTimeout).
		Once()

	_, err := discovery.DiscoverNewMatchIDs(ctx, puuid, nil, nil)
	if !errors.Is(err, usecase.ErrProviderTimeout) {
		t.Fatalf("expected ErrProviderTimeout, got %v", err)
	}
}
