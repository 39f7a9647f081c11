package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riftpulse/riftpulse/internal/platform/logging"
)

type stubListProvider struct {
	pages   map[int][]string
	listErr error

	calls     int
	lastSince *time.Time
}

func (p *stubListProvider) ListMatchIDs(_ context.Context, _ string, start, _ int, since *time.Time) ([]string, error) {
	p.calls++
	p.lastSince = since
	if p.listErr != nil {
		return nil, p.listErr
	}
	return p.pages[start], nil
}

func (p *stubListProvider) GetMatchDetail(context.Context, string) (ExternalMatchDetail, error) {
	return ExternalMatchDetail{}, errors.New("not implemented")
}

func (p *stubListProvider) GetMatchTimeline(context.Context, string) (ExternalMatchTimeline, error) {
	return ExternalMatchTimeline{}, errors.New("not implemented")
}

func TestDiscoverNewMatchIDs_StopsAtFirstKnownID(t *testing.T) {
	t.Parallel()

	provider := &stubListProvider{pages: map[int][]string{
		0: {"NA1_4", "NA1_3", "NA1_2", "NA1_1"},
	}}
	discovery := NewMatchDiscovery(provider, MatchDiscoveryConfig{PageSize: 4}, logging.NewNop())

	known := map[string]struct{}{"NA1_2": {}, "NA1_1": {}}
	ids, err := discovery.DiscoverNewMatchIDs(context.Background(), "puuid-1", known, nil)
	if err != nil {
		t.Fatalf("DiscoverNewMatchIDs returned error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "NA1_4" || ids[1] != "NA1_3" {
		t.Fatalf("expected [NA1_4 NA1_3], got %v", ids)
	}
	if provider.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", provider.calls)
	}
}

func TestDiscoverNewMatchIDs_PaginatesUntilShortPage(t *testing.T) {
	t.Parallel()

	provider := &stubListProvider{pages: map[int][]string{
		0: {"NA1_5", "NA1_4"},
		2: {"NA1_3", "NA1_2"},
		4: {"NA1_1"},
	}}
	discovery := NewMatchDiscovery(provider, MatchDiscoveryConfig{PageSize: 2}, logging.NewNop())

	ids, err := discovery.DiscoverNewMatchIDs(context.Background(), "puuid-1", nil, nil)
	if err != nil {
		t.Fatalf("DiscoverNewMatchIDs returned error: %v", err)
	}
	if len(ids) != 5 {
		t.Fatalf("expected 5 ids, got %v", ids)
	}
	if ids[0] != "NA1_5" || ids[4] != "NA1_1" {
		t.Fatalf("expected newest-first ordering, got %v", ids)
	}
	if provider.calls != 3 {
		t.Fatalf("expected 3 provider calls, got %d", provider.calls)
	}
}

func TestDiscoverNewMatchIDs_EmptyHistory(t *testing.T) {
	t.Parallel()

	provider := &stubListProvider{pages: map[int][]string{}}
	discovery := NewMatchDiscovery(provider, MatchDiscoveryConfig{}, logging.NewNop())

	ids, err := discovery.DiscoverNewMatchIDs(context.Background(), "puuid-1", nil, nil)
	if err != nil {
		t.Fatalf("DiscoverNewMatchIDs returned error: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no ids, got %v", ids)
	}
}

func TestDiscoverNewMatchIDs_CapsNewMatches(t *testing.T) {
	t.Parallel()

	provider := &stubListProvider{pages: map[int][]string{
		0: {"NA1_6", "NA1_5"},
		2: {"NA1_4", "NA1_3"},
		4: {"NA1_2", "NA1_1"},
	}}
	discovery := NewMatchDiscovery(provider, MatchDiscoveryConfig{PageSize: 2, MaxNewMatches: 3}, logging.NewNop())

	ids, err := discovery.DiscoverNewMatchIDs(context.Background(), "puuid-1", nil, nil)
	if err != nil {
		t.Fatalf("DiscoverNewMatchIDs returned error: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids at the cap, got %v", ids)
	}
	if provider.calls != 2 {
		t.Fatalf("expected 2 provider calls, got %d", provider.calls)
	}
}

func TestDiscoverNewMatchIDs_ForwardsSince(t *testing.T) {
	t.Parallel()

	since := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	provider := &stubListProvider{pages: map[int][]string{}}
	discovery := NewMatchDiscovery(provider, MatchDiscoveryConfig{}, logging.NewNop())

	if _, err := discovery.DiscoverNewMatchIDs(context.Background(), "puuid-1", nil, &since); err != nil {
		t.Fatalf("DiscoverNewMatchIDs returned error: %v", err)
	}
	if provider.lastSince == nil || !provider.lastSince.Equal(since) {
		t.Fatalf("expected since to be forwarded, got %v", provider.lastSince)
	}
}

func TestDiscoverNewMatchIDs_ProviderError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("rate limited")
	provider := &stubListProvider{listErr: wantErr}
	discovery := NewMatchDiscovery(provider, MatchDiscoveryConfig{}, logging.NewNop())

	_, err := discovery.DiscoverNewMatchIDs(context.Background(), "puuid-1", nil, nil)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestDiscoverNewMatchIDs_RequiresPUUID(t *testing.T) {
	t.Parallel()

	discovery := NewMatchDiscovery(&stubListProvider{}, MatchDiscoveryConfig{}, logging.NewNop())

	_, err := discovery.DiscoverNewMatchIDs(context.Background(), "  ", nil, nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
