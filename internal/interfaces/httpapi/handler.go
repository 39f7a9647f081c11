package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riftpulse/riftpulse/internal/domain/account"
	"github.com/riftpulse/riftpulse/internal/domain/metrics"
	"github.com/riftpulse/riftpulse/internal/platform/logging"
	"github.com/riftpulse/riftpulse/internal/usecase"
)

type Handler struct {
	accountService *usecase.AccountService
	statsService   *usecase.StatsService
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	accountService *usecase.AccountService,
	statsService *usecase.StatsService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		accountService: accountService,
		statsService:   statsService,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type linkAccountRequest struct {
	PUUID       string `json:"puuid" validate:"required,min=8,max=128"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
	Region      string `json:"region" validate:"required,min=2,max=16"`
}

type accountDTO struct {
	ID            int64  `json:"id"`
	PUUID         string `json:"puuid"`
	DisplayName   string `json:"displayName,omitempty"`
	Region        string `json:"region"`
	SyncStatus    string `json:"syncStatus"`
	SyncProcessed int    `json:"syncProcessed"`
	SyncTotal     int    `json:"syncTotal"`
	LastSyncAt    string `json:"lastSyncAt,omitempty"`
	CreatedAtUTC  string `json:"createdAtUtc"`
	UpdatedAtUTC  string `json:"updatedAtUtc"`
}

type accountSummaryDTO struct {
	Account                 accountDTO `json:"account"`
	Matches                 int        `json:"matches"`
	Wins                    int        `json:"wins"`
	AvgKills                float64    `json:"avgKills"`
	AvgDeaths               float64    `json:"avgDeaths"`
	AvgAssists              float64    `json:"avgAssists"`
	AvgKillParticipationPct float64    `json:"avgKillParticipationPct"`
	AvgDamageSharePct       float64    `json:"avgDamageSharePct"`
	AvgVisionPerMinute      float64    `json:"avgVisionPerMinute"`
	AvgGoldDiffAt15         float64    `json:"avgGoldDiffAt15"`
}

func accountToDTO(ctx context.Context, v account.Account) accountDTO {
	ctx, span := startSpan(ctx, "httpapi.accountToDTO")
	defer span.End()

	return accountDTO{
		ID:            v.ID,
		PUUID:         v.PUUID,
		DisplayName:   v.DisplayName,
		Region:        v.Region,
		SyncStatus:    v.SyncStatus,
		SyncProcessed: v.SyncProcessed,
		SyncTotal:     v.SyncTotal,
		LastSyncAt:    formatOptionalTime(v.LastSyncAt),
		CreatedAtUTC:  v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC:  v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func accountSummaryToDTO(ctx context.Context, acct account.Account, summary metrics.AccountSummary) accountSummaryDTO {
	ctx, span := startSpan(ctx, "httpapi.accountSummaryToDTO")
	defer span.End()

	return accountSummaryDTO{
		Account:                 accountToDTO(ctx, acct),
		Matches:                 summary.Matches,
		Wins:                    summary.Wins,
		AvgKills:                summary.AvgKills,
		AvgDeaths:               summary.AvgDeaths,
		AvgAssists:              summary.AvgAssists,
		AvgKillParticipationPct: summary.AvgKillParticipationPct,
		AvgDamageSharePct:       summary.AvgDamageSharePct,
		AvgVisionPerMinute:      summary.AvgVisionPerMinute,
		AvgGoldDiffAt15:         summary.AvgGoldDiffAt15,
	}
}

func formatOptionalTime(v *time.Time) string {
	if v == nil || v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
