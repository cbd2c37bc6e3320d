package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/darkshare/darkshare/internal/auth"
	"github.com/darkshare/darkshare/internal/check"
	"github.com/darkshare/darkshare/internal/database"
	"github.com/darkshare/darkshare/internal/report"
)

// Server exposes the check service and the report store over HTTP.
type Server struct {
	store    *database.Store
	checker  *check.Service
	renderer *report.PDFRenderer
	verifier *auth.Verifier
	logger   *slog.Logger
	feed     *activityFeed
	started  time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithPDFRenderer overrides the PDF renderer. Intended for tests that
// need deterministic output.
func WithPDFRenderer(renderer *report.PDFRenderer) Option {
	return func(s *Server) {
		s.renderer = renderer
	}
}

// WithAuthVerifier enables the Telegram login endpoint. Without it the
// endpoint responds 503.
func WithAuthVerifier(verifier *auth.Verifier) Option {
	return func(s *Server) {
		s.verifier = verifier
	}
}

// New creates a Server over the given store and check service.
func New(store *database.Store, checker *check.Service, opts ...Option) *Server {
	s := &Server{
		store:    store,
		checker:  checker,
		renderer: report.NewPDFRenderer(),
		logger:   slog.Default(),
		feed:     &activityFeed{},
		started:  time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/check", s.handleCheck)
	mux.HandleFunc("GET /api/reports/{id}", s.handleGetReport)
	mux.HandleFunc("GET /api/reports/{id}/pdf", s.handleGetReportPDF)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/activity", s.handleActivity)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /api/users/{tgId}", s.handleGetUser)
	mux.HandleFunc("POST /api/auth/telegram", s.handleTelegramLogin)
	return s.logRequests(mux)
}

// Run serves the API until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		return nil
	}
}

// checkRequest is the POST /api/check body.
type checkRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// checkResponse pairs the saved report ID with the result it stores.
type checkResponse struct {
	ReportID string `json:"reportId"` //nolint:tagliatelle // camelCase matches the public API
	Result   any    `json:"result"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if v := s.checker.ValidateInput(req.Type, req.Value); !v.Valid {
		s.writeError(w, http.StatusBadRequest, v.Error)
		return
	}

	result, err := s.checker.PerformCheck(r.Context(), req.Type, req.Value)
	if err != nil {
		if errors.Is(err, check.ErrUnknownType) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("check failed", "type", req.Type, "error", err)
		s.writeError(w, http.StatusInternalServerError, "check failed")
		return
	}

	id, err := s.store.SaveReport(r.Context(), 0, result)
	if err != nil {
		s.logger.Error("failed to save report", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to save report")
		return
	}

	s.feed.add(string(result.Type), result.Target, string(result.RiskLevel), result.Timestamp)

	s.writeJSON(w, http.StatusOK, checkResponse{ReportID: id, Result: result})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.store.GetReport(r.Context(), r.PathValue("id"))
	if err != nil {
		s.logger.Error("failed to load report", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	if rep == nil {
		s.writeError(w, http.StatusNotFound, "report not found")
		return
	}
	s.writeJSON(w, http.StatusOK, rep.Result)
}

func (s *Server) handleGetReportPDF(w http.ResponseWriter, r *http.Request) {
	rep, err := s.store.GetReport(r.Context(), r.PathValue("id"))
	if err != nil {
		s.logger.Error("failed to load report", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	if rep == nil {
		s.writeError(w, http.StatusNotFound, "report not found")
		return
	}

	data := report.FromResult(rep.Result, strconv.FormatInt(rep.UserID, 10))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="darkshare-report.pdf"`)
	if err := s.renderer.Render(data, w); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.Error("failed to render pdf", "report_id", rep.ID, "error", err)
	}
}

// statsResponse is the GET /api/stats body.
type statsResponse struct {
	TotalUsers    int            `json:"totalUsers"`    //nolint:tagliatelle // camelCase matches the public API
	TotalReports  int            `json:"totalReports"`  //nolint:tagliatelle // camelCase matches the public API
	ActiveWatches int            `json:"activeWatches"` //nolint:tagliatelle // camelCase matches the public API
	ReportsByType map[string]int `json:"reportsByType"` //nolint:tagliatelle // camelCase matches the public API
	UptimeSeconds int64          `json:"uptimeSeconds"` //nolint:tagliatelle // camelCase matches the public API
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStats(r.Context())
	if err != nil {
		s.logger.Error("failed to load stats", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	s.writeJSON(w, http.StatusOK, statsResponse{
		TotalUsers:    stats.TotalUsers,
		TotalReports:  stats.TotalReports,
		ActiveWatches: stats.ActiveWatches,
		ReportsByType: stats.ReportsByType,
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	})
}

func (s *Server) handleActivity(w http.ResponseWriter, _ *http.Request) {
	entries := s.feed.recent()
	if entries == nil {
		entries = []ActivityEntry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.Leaderboard(r.Context(), 5)
	if err != nil {
		s.logger.Error("failed to load leaderboard", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}
	if entries == nil {
		entries = []database.LeaderboardEntry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

// userResponse is the GET /api/users/{tgId} body. The Telegram ID itself
// is not echoed back.
type userResponse struct {
	Username  string    `json:"username"`
	Lang      string    `json:"lang"`
	CreatedAt time.Time `json:"createdAt"` //nolint:tagliatelle // camelCase matches the public API
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUserByTelegramID(r.Context(), r.PathValue("tgId"))
	if err != nil {
		s.logger.Error("failed to load user", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		s.writeError(w, http.StatusNotFound, "user not found")
		return
	}
	s.writeJSON(w, http.StatusOK, userResponse{
		Username:  user.Username,
		Lang:      user.Lang,
		CreatedAt: user.CreatedAt,
	})
}

// handleTelegramLogin verifies a login-widget payload and registers or
// refreshes the user. All verification failures map to the same 401 body.
func (s *Server) handleTelegramLogin(w http.ResponseWriter, r *http.Request) {
	if s.verifier == nil {
		s.writeError(w, http.StatusServiceUnavailable, "login disabled")
		return
	}

	var payload map[string]string
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.verifier.Verify(payload); err != nil {
		s.logger.Warn("login rejected", "error", err)
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	tgID := payload["id"]
	if tgID == "" {
		s.writeError(w, http.StatusBadRequest, "missing id field")
		return
	}

	user, err := s.store.GetUserByTelegramID(r.Context(), tgID)
	if err != nil {
		s.logger.Error("failed to load user", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		user, err = s.store.CreateUser(r.Context(), tgID, payload["username"], "")
		if err != nil {
			s.logger.Error("failed to create user", "error", err)
			s.writeError(w, http.StatusInternalServerError, "failed to create user")
			return
		}
	} else if err := s.store.UpdateUserLogin(r.Context(), user.ID); err != nil {
		s.logger.Error("failed to update login", "error", err)
	}

	s.writeJSON(w, http.StatusOK, userResponse{
		Username:  user.Username,
		Lang:      user.Lang,
		CreatedAt: user.CreatedAt,
	})
}

// logRequests wraps the handler with structured request logging. The
// secure log handler masks any target values that end up in attributes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
