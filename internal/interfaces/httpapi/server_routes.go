package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAccountRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/accounts", handler.LinkAccount)
	mux.HandleFunc("GET /v1/accounts", handler.ListAccounts)
	mux.HandleFunc("GET /v1/accounts/{accountID}", handler.GetAccount)
	mux.HandleFunc("POST /v1/accounts/{accountID}/resync", handler.RequestResync)
	mux.HandleFunc("GET /v1/accounts/{accountID}/summary", handler.GetAccountSummary)
}
