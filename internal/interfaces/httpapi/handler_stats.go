package httpapi

import (
	"net/http"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetAccountSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAccountSummary")
	defer span.End()

	accountID, err := parseAccountID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.statsService.GetAccountSummary(ctx, accountID)
	if err != nil {
		h.logger.WarnContext(ctx, "get account summary failed", "account_id", accountID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, accountSummaryToDTO(ctx, result.Account, result.Summary))
}
