// Package server provides the HTTP REST API for resume scoring.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/jonathan/placify/internal/ats"
	"github.com/jonathan/placify/internal/config"
	"github.com/jonathan/placify/internal/db"
	"github.com/jonathan/placify/internal/ingestion"
	"github.com/jonathan/placify/internal/logging"
	"github.com/jonathan/placify/internal/review"
	"github.com/jonathan/placify/internal/server/middleware"
	"github.com/jonathan/placify/internal/server/ratelimit"
	"github.com/jonathan/placify/internal/similarity"
	"go.uber.org/zap"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	logger      *zap.Logger
	scorer      *ats.Scorer
	quick       *ats.QuickScorer
	comparer    *similarity.Comparer
	extractor   *ingestion.Extractor
	reviewer    *review.Reviewer
	rateLimiter *ratelimit.Limiter
	db          *db.DB
	closeReview func()

	maxShortlist         int
	shortlistConcurrency int
}

// Deps are the components a Server serves. Nil Reviewer disables
// /ats/review; nil Limiter disables rate limiting.
type Deps struct {
	Logger               *zap.Logger
	Scorer               *ats.Scorer
	Quick                *ats.QuickScorer
	Comparer             *similarity.Comparer
	Extractor            *ingestion.Extractor
	Reviewer             *review.Reviewer
	Limiter              *ratelimit.Limiter
	MaxShortlist         int
	ShortlistConcurrency int
}

// New builds a server from cfg, connecting to the database and the LLM
// when they are configured.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	scoring, err := ats.LoadConfig(cfg.ScoringConfigPath)
	if err != nil {
		return nil, err
	}
	scorer, err := ats.New(scoring)
	if err != nil {
		return nil, err
	}
	quick, err := ats.NewQuickScorer(ats.DefaultQuickConfig())
	if err != nil {
		return nil, err
	}

	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = OpenDatabase(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Info("DATABASE_URL not set, review cache disabled")
	}

	var reviewer *review.Reviewer
	closeReview := func() {}
	if cfg.ReviewEnabled() {
		reviewer, closeReview, err = NewReviewer(ctx, cfg, database, logger)
		if err != nil {
			if database != nil {
				database.Close()
			}
			return nil, err
		}
	} else {
		logger.Info("GEMINI_API_KEY not set, /ats/review disabled")
	}

	simOpts := similarity.DefaultOptions()
	simOpts.MaxEditRunes = cfg.MaxEditRunes

	s := newServer(Deps{
		Logger:               logger,
		Scorer:               scorer,
		Quick:                quick,
		Comparer:             similarity.New(simOpts),
		Extractor:            ingestion.NewExtractor(cfg.MaxUploadBytes),
		Reviewer:             reviewer,
		Limiter:              ratelimit.NewLimiter(ratelimit.FromEnv(os.LookupEnv)),
		MaxShortlist:         cfg.MaxShortlist,
		ShortlistConcurrency: cfg.ShortlistConcurrency,
	})
	s.db = database
	s.closeReview = closeReview

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second, // LLM reviews can take a while
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func newServer(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Scorer == nil {
		deps.Scorer = ats.MustNew(ats.DefaultConfig())
	}
	if deps.Quick == nil {
		deps.Quick = ats.MustNewQuickScorer(ats.DefaultQuickConfig())
	}
	if deps.Comparer == nil {
		deps.Comparer = similarity.New(similarity.DefaultOptions())
	}
	if deps.Extractor == nil {
		deps.Extractor = ingestion.NewExtractor(0)
	}
	if deps.MaxShortlist <= 0 {
		deps.MaxShortlist = config.Default().MaxShortlist
	}
	return &Server{
		logger:               deps.Logger,
		scorer:               deps.Scorer,
		quick:                deps.Quick,
		comparer:             deps.Comparer,
		extractor:            deps.Extractor,
		reviewer:             deps.Reviewer,
		rateLimiter:          deps.Limiter,
		closeReview:          func() {},
		maxShortlist:         deps.MaxShortlist,
		shortlistConcurrency: deps.ShortlistConcurrency,
	}
}

// Handler returns the routed handler wrapped in middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /ats/score", s.handleScore)
	mux.HandleFunc("POST /ats/score/upload", s.handleScoreUpload)
	mux.HandleFunc("POST /ats/quick-score", s.handleQuickScore)
	mux.HandleFunc("POST /ats/similarity", s.handleSimilarity)
	mux.HandleFunc("POST /ats/review", s.handleReview)
	mux.HandleFunc("POST /ats/shortlist", s.handleShortlist)

	return middleware.RequestID(
		middleware.Logging(s.logger)(
			middleware.CORS(
				s.withRateLimit(mux))))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close stops the rate limiter and releases the LLM client and database.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.closeReview != nil {
		s.closeReview()
	}
	if s.db != nil {
		s.db.Close()
	}
}

// withRateLimit rejects requests over the client's budget with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	if s.rateLimiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.Method, r.URL.Path)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			s.requestLogger(r).Warn("database ping failed", zap.Error(err))
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger returns the server logger tagged with the request id.
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return logging.WithFields(s.logger, logging.StringFields(
		logging.StringField{Key: logging.FieldRequestID, Value: middleware.RequestIDFromContext(r.Context())},
	)...)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps err to a status code. Server-side failures are logged
// and their details withheld from the client.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	switch {
	case status == http.StatusInternalServerError:
		s.requestLogger(r).Error("request failed", zap.Error(err))
		message = "internal server error"
	case status >= http.StatusBadGateway:
		s.requestLogger(r).Warn("upstream failure", zap.Error(err))
	}
	s.errorResponse(w, status, message)
}

// extractClientID uses the IP address from RemoteAddr.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		seconds = max(seconds, 1)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.requestLogger(r).Info("rate limit exceeded",
		zap.String("client", extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
