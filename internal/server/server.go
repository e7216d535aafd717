package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/casevault/backend/internal/battle"
	"github.com/casevault/backend/internal/catalog"
	"github.com/casevault/backend/internal/database"
	"github.com/casevault/backend/internal/draw"
	"github.com/casevault/backend/internal/handler"
	"github.com/casevault/backend/internal/ledger"
	"github.com/casevault/backend/internal/logger"
	"github.com/casevault/backend/internal/metrics"
	"github.com/casevault/backend/internal/sse"
)

type Server struct {
	httpServer     *http.Server
	dbPool         database.Pool
	catalogService catalog.Service
	drawService    draw.Service
	battleService  battle.Service
	ledgerService  ledger.Service
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, catalogService catalog.Service, drawService draw.Service, battleService battle.Service, ledgerService ledger.Service, sseHub *sse.Hub) *Server {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		catalogHandler := handler.NewCatalogHandler(catalogService)
		r.Route("/cases", func(r chi.Router) {
			r.Get("/", catalogHandler.HandleListCases)
			r.Get("/get", catalogHandler.HandleGetCase)
			r.Post("/publish", catalogHandler.HandlePublishCase)
		})

		drawHandler := handler.NewDrawHandler(drawService)
		r.Route("/draws", func(r chi.Router) {
			r.Post("/", drawHandler.HandleOpenDraw)
			r.Get("/get", drawHandler.HandleGetDraw)
			r.Get("/history", drawHandler.HandleGetHistory)
			r.Get("/commitment", drawHandler.HandleGetCommitment)
			r.Get("/seed", drawHandler.HandleGetSeed)
			r.Post("/verify", drawHandler.HandleVerify)
		})

		battleHandler := handler.NewBattleHandler(battleService)
		r.Route("/battles", func(r chi.Router) {
			r.Post("/", battleHandler.HandleCreateBattle)
			r.Post("/join", battleHandler.HandleJoinBattle)
			r.Get("/get", battleHandler.HandleGetBattle)
		})

		balanceHandler := handler.NewBalanceHandler(ledgerService)
		r.Route("/balance", func(r chi.Router) {
			r.Get("/", balanceHandler.HandleGetBalance)
			r.Post("/deposit", balanceHandler.HandleDeposit)
			r.Get("/ledger", balanceHandler.HandleGetLedger)
		})

		// Live drop feed
		r.Get("/feed", sse.Handler(sseHub))
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:         dbPool,
		catalogService: catalogService,
		drawService:    drawService,
		battleService:  battleService,
		ledgerService:  ledgerService,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush lets the SSE feed stream through the wrapped writer
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Health checks and metrics scrapes would swamp the log.
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, "Authorization") {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
