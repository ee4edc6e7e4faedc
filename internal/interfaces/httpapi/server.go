package httpapi

import (
	"net/http"

	"github.com/riskibarqy/league-auction/internal/platform/logging"
)

type RouterConfig struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	// Observer records per-route request metrics when set.
	Observer HTTPObserver
}

func NewRouter(handler *Handler, verifier TokenVerifier, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.SwaggerEnabled, cfg.MetricsHandler)
	registerPublicRoutes(mux, handler)
	registerTeamRoutes(mux, handler, verifier)
	registerAuctionRoutes(mux, handler, verifier)
	registerConsoleRoutes(mux, handler, verifier)

	return RequestTracing(
		RequestMetrics(cfg.Observer, mux,
			RequestLogging(logger,
				CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux)),
			),
		),
	)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
