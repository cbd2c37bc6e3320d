package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/darkshare/darkshare/internal/auth"
	"github.com/darkshare/darkshare/internal/check"
	"github.com/darkshare/darkshare/internal/database"
)

func newTestServer(t *testing.T) (*Server, *database.Store) {
	t.Helper()
	store, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(store, check.NewService(check.WithLogger(logger)), WithLogger(logger))
	return srv, store
}

func postCheck(t *testing.T, handler http.Handler, typ, value string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"type": typ, "value": value})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/check", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestCheckAndFetchReport(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	handler := srv.Handler()

	w := postCheck(t, handler, "domain", "example.com")
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/check status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		ReportID string `json:"reportId"`
		Result   struct {
			Target    string `json:"target"`
			RiskScore int    `json:"riskScore"`
			RiskLevel string `json:"riskLevel"`
		} `json:"result"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ReportID == "" {
		t.Fatal("reportId is empty")
	}
	if resp.Result.Target != "example.com" {
		t.Errorf("result.target = %q, want %q", resp.Result.Target, "example.com")
	}
	if resp.Result.RiskLevel != "low" {
		t.Errorf("result.riskLevel = %q, want %q", resp.Result.RiskLevel, "low")
	}

	// Stored report round-trips through GET.
	req := httptest.NewRequest(http.MethodGet, "/api/reports/"+resp.ReportID, nil)
	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("GET /api/reports/{id} status = %d, want %d", w2.Code, http.StatusOK)
	}
	var stored struct {
		Target string `json:"target"`
	}
	if err := json.NewDecoder(w2.Body).Decode(&stored); err != nil {
		t.Fatalf("decode stored report: %v", err)
	}
	if stored.Target != "example.com" {
		t.Errorf("stored target = %q, want %q", stored.Target, "example.com")
	}
}

func TestCheckRendersPDF(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	handler := srv.Handler()

	w := postCheck(t, handler, "email", "user@mailinator.com")
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/check status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp struct {
		ReportID string `json:"reportId"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/reports/"+resp.ReportID+"/pdf", nil)
	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("GET pdf status = %d, want %d", w2.Code, http.StatusOK)
	}
	if got := w2.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q, want %q", got, "application/pdf")
	}
	if !bytes.HasPrefix(w2.Body.Bytes(), []byte("%PDF-")) {
		t.Error("response body is not a PDF")
	}
}

func TestCheckRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	handler := srv.Handler()

	w := postCheck(t, handler, "wallet", "abc")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp["error"] == "" {
		t.Error("error field is empty")
	}
}

func TestCheckRejectsUnknownType(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	w := postCheck(t, srv.Handler(), "iot", "thing")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCheckRejectsBadJSON(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/check", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestReportNotFound(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/reports/no-such-id", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	handler := srv.Handler()

	if w := postCheck(t, handler, "domain", "example.com"); w.Code != http.StatusOK {
		t.Fatalf("POST /api/check status = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var stats statsResponse
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalReports != 1 {
		t.Errorf("totalReports = %d, want 1", stats.TotalReports)
	}
	if stats.ReportsByType["domain"] != 1 {
		t.Errorf("reportsByType[domain] = %d, want 1", stats.ReportsByType["domain"])
	}
}

func TestActivityMasksTargets(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	handler := srv.Handler()

	if w := postCheck(t, handler, "email", "victim@example.com"); w.Code != http.StatusOK {
		t.Fatalf("POST /api/check status = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/activity", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var entries []ActivityEntry
	if err := json.NewDecoder(w.Body).Decode(&entries); err != nil {
		t.Fatalf("decode activity: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Target == "victim@example.com" {
		t.Error("activity feed leaked the raw target")
	}
	if entries[0].Target != "v***@example.com" {
		t.Errorf("masked target = %q, want %q", entries[0].Target, "v***@example.com")
	}
}

func TestActivityFeedBounded(t *testing.T) {
	t.Parallel()

	feed := &activityFeed{}
	now := time.Now()
	for i := 0; i < activityCap+20; i++ {
		feed.add("domain", "example.com", "low", now)
	}
	feed.mu.Lock()
	n := len(feed.entries)
	feed.mu.Unlock()
	if n != activityCap {
		t.Errorf("feed holds %d entries, want %d", n, activityCap)
	}
	if got := len(feed.recent()); got != feedSize {
		t.Errorf("recent() returned %d entries, want %d", got, feedSize)
	}
}

func TestActivityFeedTruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	feed := &activityFeed{}
	feed.add("email", "іван@укргазбанк-верифікація-безпека.com", "high", time.Now())

	entries := feed.recent()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if got, want := entries[0].Target, "і***@укргазбанк-в..."; got != want {
		t.Errorf("truncated target = %q, want %q", got, want)
	}
	if !utf8.ValidString(entries[0].Target) {
		t.Errorf("truncated target is invalid UTF-8: %q", entries[0].Target)
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("body = %q, want empty array", got)
	}
}

func TestTelegramLogin(t *testing.T) {
	t.Parallel()

	const botToken = "123456789:TESTTOKENTESTTOKENTESTTOKENTESTTOKE"

	store, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(store, check.NewService(check.WithLogger(logger)),
		WithLogger(logger),
		WithAuthVerifier(auth.NewVerifier(botToken)),
	)
	handler := srv.Handler()

	payload := map[string]string{
		"id":        "555",
		"username":  "carol",
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
	}
	payload["hash"] = auth.Sign(payload, botToken)
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/telegram", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var user userResponse
	if err := json.NewDecoder(w.Body).Decode(&user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Username != "carol" {
		t.Errorf("username = %q, want %q", user.Username, "carol")
	}

	// The user was registered.
	saved, err := store.GetUserByTelegramID(t.Context(), "555")
	if err != nil {
		t.Fatalf("GetUserByTelegramID() error = %v", err)
	}
	if saved == nil {
		t.Fatal("user was not created")
	}

	// Tampered payload is rejected.
	payload["username"] = "mallory"
	body, err = json.Marshal(payload)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/api/auth/telegram", bytes.NewReader(body))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("tampered payload status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestTelegramLoginDisabled(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/telegram", strings.NewReader("{}"))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t)
	handler := srv.Handler()

	if _, err := store.CreateUser(t.Context(), "123", "alice", "uk"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/123", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var user userResponse
	if err := json.NewDecoder(w.Body).Decode(&user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want %q", user.Username, "alice")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/users/999", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown user status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
