package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/riftpulse/riftpulse/internal/usecase"
)

func (h *Handler) LinkAccount(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LinkAccount")
	defer span.End()

	var req linkAccountRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.accountService.LinkAccount(ctx, usecase.LinkAccountInput{
		PUUID:       req.PUUID,
		DisplayName: req.DisplayName,
		Region:      req.Region,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "link account failed", "region", req.Region, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, accountToDTO(ctx, created))
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAccounts")
	defer span.End()

	items, err := h.accountService.ListAccounts(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list accounts failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]accountDTO, 0, len(items))
	for _, item := range items {
		out = append(out, accountToDTO(ctx, item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAccount")
	defer span.End()

	accountID, err := parseAccountID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	acct, err := h.accountService.GetAccount(ctx, accountID)
	if err != nil {
		h.logger.WarnContext(ctx, "get account failed", "account_id", accountID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, accountToDTO(ctx, acct))
}

func (h *Handler) RequestResync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RequestResync")
	defer span.End()

	accountID, err := parseAccountID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	acct, err := h.accountService.RequestResync(ctx, accountID)
	if err != nil {
		h.logger.WarnContext(ctx, "request resync failed", "account_id", accountID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, accountToDTO(ctx, acct))
}

func parseAccountID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("accountID"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: account id must be a positive integer", usecase.ErrInvalidInput)
	}
	return id, nil
}
