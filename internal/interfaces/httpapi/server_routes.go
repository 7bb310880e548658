package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/reconcile", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunReconciliation)))
	mux.Handle("POST /v1/internal/reconcile/matches/{matchID}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SyncMatchResult)))
	mux.Handle("POST /v1/internal/settlement/run", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSettlement)))
	mux.Handle("POST /v1/internal/settlement/quizzes/{quizID}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SettleQuiz)))
}
