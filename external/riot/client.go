package riot

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riftpulse/riftpulse/internal/platform/logging"
	"github.com/riftpulse/riftpulse/internal/platform/resilience"
	"github.com/riftpulse/riftpulse/internal/usecase"
)

const (
	defaultBaseURL           = "https://americas.api.riotgames.com"
	defaultRequestsPerSecond = 15
	defaultRequestsPer2Min   = 90
	maxResponseBytes         = 6 << 20
)

var apiKeyParamRegex = regexp.MustCompile(`api_key=[^&\s"']+`)
var errRiotTransient = crerr.New("riot transient failure")

type ClientConfig struct {
	HTTPClient            *http.Client
	BaseURL               string
	APIKey                string
	Timeout               time.Duration
	MaxRetries            int
	RequestsPerSecond     int
	RequestsPerTwoMinutes int
	Logger                *logging.Logger
	CircuitBreaker        resilience.CircuitBreakerConfig
}

// Client is a rate-limited match-v5 API client. It satisfies
// usecase.MatchDataProvider.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	limiter        *resilience.SlidingWindowLimiter
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	perSecond := cfg.RequestsPerSecond
	if perSecond <= 0 {
		perSecond = defaultRequestsPerSecond
	}
	perTwoMinutes := cfg.RequestsPerTwoMinutes
	if perTwoMinutes <= 0 {
		perTwoMinutes = defaultRequestsPer2Min
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		limiter: resilience.NewSlidingWindowLimiter(
			resilience.WindowLimit{Limit: perSecond, Window: time.Second},
			resilience.WindowLimit{Limit: perTwoMinutes, Window: 2 * time.Minute},
		),
	}
}

func (c *Client) ListMatchIDs(ctx context.Context, puuid string, start, count int, since *time.Time) ([]string, error) {
	if strings.TrimSpace(puuid) == "" {
		return nil, fmt.Errorf("%w: puuid is required", usecase.ErrInvalidInput)
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be greater than zero", usecase.ErrInvalidInput)
	}

	query := map[string]string{
		"start": strconv.Itoa(maxInt(start, 0)),
		"count": strconv.Itoa(count),
	}
	if since != nil && !since.IsZero() {
		query["startTime"] = strconv.FormatInt(since.Unix(), 10)
	}

	path := "/lol/match/v5/matches/by-puuid/" + url.PathEscape(puuid) + "/ids"
	var ids []string
	if err := c.doJSON(ctx, path, query, &ids); err != nil {
		return nil, fmt.Errorf("list match ids puuid=%s: %w", abbreviatePUUID(puuid), err)
	}
	return ids, nil
}

func (c *Client) GetMatchDetail(ctx context.Context, matchID string) (usecase.ExternalMatchDetail, error) {
	if strings.TrimSpace(matchID) == "" {
		return usecase.ExternalMatchDetail{}, fmt.Errorf("%w: match id is required", usecase.ErrInvalidInput)
	}

	path := "/lol/match/v5/matches/" + url.PathEscape(matchID)
	var envelope matchEnvelope
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return usecase.ExternalMatchDetail{}, fmt.Errorf("fetch match detail match_id=%s: %w", matchID, err)
	}
	return mapMatchDetail(matchID, envelope), nil
}

func (c *Client) GetMatchTimeline(ctx context.Context, matchID string) (usecase.ExternalMatchTimeline, error) {
	if strings.TrimSpace(matchID) == "" {
		return usecase.ExternalMatchTimeline{}, fmt.Errorf("%w: match id is required", usecase.ErrInvalidInput)
	}

	path := "/lol/match/v5/matches/" + url.PathEscape(matchID) + "/timeline"
	var envelope timelineEnvelope
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return usecase.ExternalMatchTimeline{}, fmt.Errorf("fetch match timeline match_id=%s: %w", matchID, err)
	}
	return mapMatchTimeline(matchID, envelope), nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "riot circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: match data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("X-Riot-Token", c.apiKey)

		backoff := time.Duration(attempt+1) * time.Second

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if isTimeoutError(err) {
				lastErr = fmt.Errorf("%w: %s", usecase.ErrProviderTimeout, sanitizeSensitiveText(err.Error(), c.apiKey))
			} else {
				lastErr = fmt.Errorf("%w: send request: %s", errRiotTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
			}
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errRiotTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: provider status=404", usecase.ErrMatchNotFound)
			case resp.StatusCode == http.StatusTooManyRequests:
				lastErr = fmt.Errorf("%w: provider status=429", errRiotTransient)
				if wait := parseRetryAfter(resp.Header.Get("Retry-After")); wait > 0 {
					backoff = wait
				}
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errRiotTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "riot request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func mapMatchDetail(matchID string, envelope matchEnvelope) usecase.ExternalMatchDetail {
	info := envelope.Info
	startedAtMs := info.GameStartTimestamp
	if startedAtMs <= 0 {
		startedAtMs = info.GameCreation
	}

	out := usecase.ExternalMatchDetail{
		MatchID:         firstNonEmpty(envelope.Metadata.MatchID, matchID),
		QueueID:         info.QueueID,
		GameDurationSec: info.GameDuration,
		GameVersion:     strings.TrimSpace(info.GameVersion),
		Participants:    make([]usecase.ExternalParticipant, 0, len(info.Participants)),
	}
	if startedAtMs > 0 {
		out.GameStartedAt = time.UnixMilli(startedAtMs).UTC()
	}

	for _, item := range info.Participants {
		out.Participants = append(out.Participants, usecase.ExternalParticipant{
			ParticipantID:     item.ParticipantID,
			PUUID:             strings.TrimSpace(item.PUUID),
			TeamID:            item.TeamID,
			Role:              strings.ToUpper(strings.TrimSpace(item.TeamPosition)),
			Champion:          strings.TrimSpace(item.ChampionName),
			Kills:             item.Kills,
			Deaths:            item.Deaths,
			Assists:           item.Assists,
			GoldEarned:        item.GoldEarned,
			CreepScore:        item.TotalMinionsKilled + item.NeutralMinionsKilled,
			TimeDeadSec:       item.TotalTimeSpentDead,
			DamageToChampions: item.TotalDamageDealtToChampions,
			DamageTaken:       item.TotalDamageTaken,
			DamageMitigated:   item.DamageSelfMitigated,
			VisionScore:       item.VisionScore,
			Win:               item.Win,
		})
	}
	return out
}

func mapMatchTimeline(matchID string, envelope timelineEnvelope) usecase.ExternalMatchTimeline {
	out := usecase.ExternalMatchTimeline{
		MatchID:         firstNonEmpty(envelope.Metadata.MatchID, matchID),
		FrameIntervalMs: envelope.Info.FrameInterval,
		Frames:          make([]usecase.ExternalTimelineFrame, 0, len(envelope.Info.Frames)),
	}

	for _, frame := range envelope.Info.Frames {
		mapped := usecase.ExternalTimelineFrame{
			TimestampMs:       frame.Timestamp,
			ParticipantFrames: make(map[int]usecase.ExternalParticipantFrame, len(frame.ParticipantFrames)),
			Events:            make([]usecase.ExternalTimelineEvent, 0, len(frame.Events)),
		}
		for key, item := range frame.ParticipantFrames {
			idx, err := strconv.Atoi(strings.TrimSpace(key))
			if err != nil || idx <= 0 {
				continue
			}
			mapped.ParticipantFrames[idx] = usecase.ExternalParticipantFrame{
				TotalGold:           item.TotalGold,
				MinionsKilled:       item.MinionsKilled,
				JungleMinionsKilled: item.JungleMinionsKilled,
				XP:                  item.XP,
			}
		}
		for _, event := range frame.Events {
			mapped.Events = append(mapped.Events, usecase.ExternalTimelineEvent{
				Type:                    strings.ToUpper(strings.TrimSpace(event.Type)),
				TimestampMs:             event.Timestamp,
				KillerID:                event.KillerID,
				VictimID:                event.VictimID,
				AssistingParticipantIDs: append([]int(nil), event.AssistingParticipantIDs...),
				MonsterType:             strings.ToUpper(strings.TrimSpace(event.MonsterType)),
				BuildingType:            strings.ToUpper(strings.TrimSpace(event.BuildingType)),
			})
		}
		out.Frames = append(out.Frames, mapped)
	}
	return out
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errRiotTransient) || stderrors.Is(err, usecase.ErrProviderTimeout)
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeout interface{ Timeout() bool }
	return stderrors.As(err, &timeout) && timeout.Timeout()
}

func parseRetryAfter(raw string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "api_key=REDACTED")
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 256 {
		return body[:256] + "..."
	}
	return body
}

func abbreviatePUUID(puuid string) string {
	if len(puuid) <= 8 {
		return puuid
	}
	return puuid[:8] + "..."
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
