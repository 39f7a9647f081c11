package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riftpulse/riftpulse/internal/domain/match"
)

type MatchRepository struct {
	mu           sync.RWMutex
	matches      map[string]match.Match
	participants map[string][]match.Participant
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		matches:      make(map[string]match.Match),
		participants: make(map[string][]match.Participant),
	}
}

func (r *MatchRepository) UpsertMatch(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.matches[m.MatchID] = m
	return nil
}

func (r *MatchRepository) UpsertParticipants(_ context.Context, participants []match.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range participants {
		rows := r.participants[p.MatchID]
		replaced := false
		for idx := range rows {
			if rows[idx].PUUID == p.PUUID {
				rows[idx] = p
				replaced = true
				break
			}
		}
		if !replaced {
			rows = append(rows, p)
		}
		r.participants[p.MatchID] = rows
	}
	return nil
}

func (r *MatchRepository) GetMatch(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.matches[matchID]
	return m, ok, nil
}

func (r *MatchRepository) GetExistingMatchIDs(_ context.Context, puuid string) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]struct{})
	for matchID, rows := range r.participants {
		for _, p := range rows {
			if p.PUUID == puuid {
				out[matchID] = struct{}{}
				break
			}
		}
	}
	return out, nil
}

func (r *MatchRepository) ListRecentByPUUID(_ context.Context, puuid string, limit int) ([]match.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []match.Participant
	for _, rows := range r.participants {
		for _, p := range rows {
			if p.PUUID == puuid {
				out = append(out, p)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		left := r.matches[out[i].MatchID].GameStartedAt
		right := r.matches[out[j].MatchID].GameStartedAt
		if left.Equal(right) {
			return out[i].MatchID > out[j].MatchID
		}
		return left.After(right)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
