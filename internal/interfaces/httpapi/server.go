package httpapi

import (
	"net/http"

	"github.com/riskibarqy/pick-ledger/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger, corsAllowedOrigins []string, adminToken string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handler.Healthz)

	mux.HandleFunc("GET /v1/picks", handler.ListPicks)
	mux.HandleFunc("GET /v1/picks/summary", handler.PickSummary)
	mux.HandleFunc("GET /v1/picks/history", handler.PickHistory)
	mux.HandleFunc("GET /v1/ledger/status", handler.LedgerStatus)

	mux.Handle("POST /v1/picks/trades", RequireAdminToken(adminToken, http.HandlerFunc(handler.ApplyTrade)))
	mux.Handle("POST /v1/ledger/refresh", RequireAdminToken(adminToken, http.HandlerFunc(handler.RefreshLedger)))
	mux.Handle("POST /v1/future/seed", RequireAdminToken(adminToken, http.HandlerFunc(handler.SeedFuture)))

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "http_path", r.URL.Path)
				writeInternalError(r.Context(), w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
