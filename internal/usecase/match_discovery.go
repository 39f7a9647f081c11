package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riftpulse/riftpulse/internal/platform/logging"
)

const (
	defaultDiscoveryPageSize = 100
	defaultMaxNewMatches     = 500
)

type MatchDiscoveryConfig struct {
	PageSize      int
	MaxNewMatches int
}

// MatchDiscovery walks a player's match history newest first and collects
// the IDs that have not been stored yet. Pages stop as soon as a known ID
// appears, so an incremental run touches only the new head of the history.
type MatchDiscovery struct {
	provider MatchDataProvider
	cfg      MatchDiscoveryConfig
	logger   *logging.Logger
}

func NewMatchDiscovery(provider MatchDataProvider, cfg MatchDiscoveryConfig, logger *logging.Logger) *MatchDiscovery {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultDiscoveryPageSize
	}
	if cfg.MaxNewMatches <= 0 {
		cfg.MaxNewMatches = defaultMaxNewMatches
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchDiscovery{provider: provider, cfg: cfg, logger: logger}
}

// DiscoverNewMatchIDs returns the new match IDs for puuid, newest first.
// known holds the IDs already stored; since, when set, is forwarded to the
// provider to bound how far back history is fetched.
func (d *MatchDiscovery) DiscoverNewMatchIDs(ctx context.Context, puuid string, known map[string]struct{}, since *time.Time) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchDiscovery.DiscoverNewMatchIDs")
	defer span.End()

	if strings.TrimSpace(puuid) == "" {
		return nil, fmt.Errorf("%w: puuid is required", ErrInvalidInput)
	}

	var out []string
	for start := 0; ; start += d.cfg.PageSize {
		ids, err := d.provider.ListMatchIDs(ctx, puuid, start, d.cfg.PageSize, since)
		if err != nil {
			return nil, fmt.Errorf("list match ids at offset %d: %w", start, err)
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			if _, ok := known[id]; ok {
				return out, nil
			}
			out = append(out, id)
			if len(out) >= d.cfg.MaxNewMatches {
				d.logger.WarnContext(ctx, "match discovery hit cap",
					"cap", d.cfg.MaxNewMatches,
				)
				return out, nil
			}
		}

		// A short page means the history is exhausted.
		if len(ids) < d.cfg.PageSize {
			break
		}
	}
	return out, nil
}
