package httpapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

func NewRouter(handler *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handler.healthz)
	mux.HandleFunc("GET /docs", handler.swaggerUI)
	mux.HandleFunc("GET /docs/", handler.swaggerUI)
	mux.HandleFunc("GET /docs/openapi.json", handler.swaggerSpec)

	mux.HandleFunc("POST /api/cv-event", handler.cvEvent)
	mux.HandleFunc("POST /api/check-url", handler.checkURL)
	mux.HandleFunc("POST /api/capture-bet-by-user", handler.captureBet)

	mux.HandleFunc("GET /api/pet", handler.petDisplay)
	mux.HandleFunc("POST /api/pet/adjust", handler.petAdjust)
	mux.HandleFunc("POST /api/pet/reset", handler.petReset)
	mux.HandleFunc("POST /api/pet/image", handler.petImage)

	mux.HandleFunc("POST /api/sessions", handler.sessionStart)
	mux.HandleFunc("POST /api/sessions/complete", handler.sessionComplete)
	mux.HandleFunc("POST /api/sessions/cancel", handler.sessionCancel)
	mux.HandleFunc("GET /api/sessions", handler.sessionList)

	mux.HandleFunc("POST /api/ticks", handler.tickAdd)
	mux.HandleFunc("GET /api/ticks", handler.tickList)

	mux.HandleFunc("GET /api/roasts", handler.roastHistory)
	mux.HandleFunc("GET /api/roasts/stats", handler.roastStats)

	mux.HandleFunc("POST /api/users", handler.userCreate)
	mux.HandleFunc("GET /api/users", handler.userGet)
	mux.HandleFunc("POST /api/groups", handler.groupCreate)
	mux.HandleFunc("GET /api/groups", handler.groupGet)
	mux.HandleFunc("POST /api/groups/join", handler.groupJoin)
	mux.HandleFunc("POST /api/groups/roast-level", handler.groupRoastLevel)

	return withRequestLogging(handler.logger, withCORS(withJSONContentType(mux)))
}

func withJSONContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.Header.Get("Content-Type") == "" {
			r.Header.Set("Content-Type", "application/json")
		}
		next.ServeHTTP(w, r)
	})
}

func withRequestLogging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.RequestURI()),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start).Truncate(time.Millisecond)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
