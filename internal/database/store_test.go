package database

import (
	"context"
	"testing"
	"time"

	"github.com/darkshare/darkshare/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testResult(typ model.CheckType, target string, score int) *model.CheckResult {
	return &model.CheckResult{
		Type:      typ,
		Target:    target,
		RiskScore: score,
		RiskLevel: model.RiskLevelForScore(score),
		Summary:   "test summary",
		Details:   map[string]any{"note": "test"},
		Findings:  []string{"finding one", "finding two"},
		Sources:   []string{"Internal heuristics"},
		Timestamp: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestOpenRequiresExistingDatabase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	opts := Options{CreateIfNotExists: false, EnableWAL: true}
	if _, err := Open(dir, opts); err == nil {
		t.Error("Open() with CreateIfNotExists=false on empty dir: want error, got nil")
	}

	// After a first open creates the file, a strict open must succeed.
	s, err := Open(dir, DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	s2, err := Open(dir, opts)
	if err != nil {
		t.Fatalf("Open() existing database error = %v", err)
	}
	_ = s2.Close()
}

func TestUserLifecycle(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "123456789", "alice", "")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if u.ID == 0 {
		t.Error("CreateUser() assigned zero ID")
	}
	if u.Lang != "uk" {
		t.Errorf("CreateUser() default lang = %q, want %q", u.Lang, "uk")
	}

	got, err := s.GetUserByTelegramID(ctx, "123456789")
	if err != nil {
		t.Fatalf("GetUserByTelegramID() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetUserByTelegramID() = nil, want user")
	}
	if got.Username != "alice" {
		t.Errorf("Username = %q, want %q", got.Username, "alice")
	}
	if got.Blocked {
		t.Error("new user unexpectedly blocked")
	}

	missing, err := s.GetUserByTelegramID(ctx, "000")
	if err != nil {
		t.Fatalf("GetUserByTelegramID() error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetUserByTelegramID(unknown) = %+v, want nil", missing)
	}

	if err := s.UpdateUserLanguage(ctx, u.ID, "en"); err != nil {
		t.Fatalf("UpdateUserLanguage() error = %v", err)
	}
	if err := s.UpdateUserLogin(ctx, u.ID); err != nil {
		t.Fatalf("UpdateUserLogin() error = %v", err)
	}
	got, err = s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.Lang != "en" {
		t.Errorf("Lang after update = %q, want %q", got.Lang, "en")
	}
	if got.LastLogin.IsZero() {
		t.Error("LastLogin is zero after UpdateUserLogin()")
	}
}

func TestDuplicateTelegramIDRejected(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "42", "first", "uk"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := s.CreateUser(ctx, "42", "second", "uk"); err == nil {
		t.Error("CreateUser() duplicate tg_id: want error, got nil")
	}
}

func TestSaveAndGetReport(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	result := testResult(model.CheckTypeEmail, "user@mailinator.com", 65)
	id, err := s.SaveReport(ctx, 0, result)
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	if id == "" {
		t.Fatal("SaveReport() returned empty ID")
	}

	r, err := s.GetReport(ctx, id)
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if r == nil {
		t.Fatal("GetReport() = nil, want report")
	}
	if r.ObjectType != "email" {
		t.Errorf("ObjectType = %q, want %q", r.ObjectType, "email")
	}
	if r.Result.Target != result.Target {
		t.Errorf("Result.Target = %q, want %q", r.Result.Target, result.Target)
	}
	if r.Result.RiskScore != 65 {
		t.Errorf("Result.RiskScore = %d, want 65", r.Result.RiskScore)
	}
	if !r.Result.Timestamp.Equal(result.Timestamp) {
		t.Errorf("Result.Timestamp = %v, want %v", r.Result.Timestamp, result.Timestamp)
	}
	if r.GeneratedAt.IsZero() {
		t.Error("GeneratedAt is zero")
	}

	missing, err := s.GetReport(ctx, "no-such-id")
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetReport(unknown) = %+v, want nil", missing)
	}
}

func TestListReportsNewestFirst(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "7", "bob", "uk")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	targets := []string{"8.8.8.8", "1.1.1.1", "9.9.9.9"}
	for _, target := range targets {
		if _, err := s.SaveReport(ctx, u.ID, testResult(model.CheckTypeIP, target, 20)); err != nil {
			t.Fatalf("SaveReport() error = %v", err)
		}
	}

	reports, err := s.ListReports(ctx, u.ID, 2)
	if err != nil {
		t.Fatalf("ListReports() error = %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("ListReports() returned %d reports, want 2", len(reports))
	}
	if reports[0].Result.Target != "9.9.9.9" {
		t.Errorf("first report target = %q, want newest %q", reports[0].Result.Target, "9.9.9.9")
	}

	all, err := s.RecentReports(ctx, 10)
	if err != nil {
		t.Fatalf("RecentReports() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("RecentReports() returned %d reports, want 3", len(all))
	}
}

func TestWatchLifecycle(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	w, err := s.CreateWatch(ctx, 1, "domain", "paypal-login.com")
	if err != nil {
		t.Fatalf("CreateWatch() error = %v", err)
	}
	if w.Status != "low" || !w.AlertsOn {
		t.Errorf("new watch = %+v, want status low and alerts on", w)
	}

	if err := s.UpdateWatchStatus(ctx, w.ID, "high"); err != nil {
		t.Fatalf("UpdateWatchStatus() error = %v", err)
	}

	watches, err := s.ListWatches(ctx, 1)
	if err != nil {
		t.Fatalf("ListWatches() error = %v", err)
	}
	if len(watches) != 1 {
		t.Fatalf("ListWatches() returned %d watches, want 1", len(watches))
	}
	if watches[0].Status != "high" {
		t.Errorf("Status = %q, want %q", watches[0].Status, "high")
	}
	if watches[0].LastCheck.IsZero() {
		t.Error("LastCheck is zero after UpdateWatchStatus()")
	}

	if err := s.DeleteWatch(ctx, w.ID); err != nil {
		t.Fatalf("DeleteWatch() error = %v", err)
	}
	watches, err = s.ListWatches(ctx, 1)
	if err != nil {
		t.Fatalf("ListWatches() error = %v", err)
	}
	if len(watches) != 0 {
		t.Errorf("ListWatches() after delete returned %d watches, want 0", len(watches))
	}
}

func TestPaymentLifecycle(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	p, err := s.CreatePayment(ctx, 1, "PRO", "9.99", "0xabc")
	if err != nil {
		t.Fatalf("CreatePayment() error = %v", err)
	}
	if p.Status != "pending" {
		t.Errorf("new payment status = %q, want %q", p.Status, "pending")
	}

	pending, err := s.PendingPayments(ctx)
	if err != nil {
		t.Fatalf("PendingPayments() error = %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("PendingPayments() returned %d payments, want 1", len(pending))
	}
	if pending[0].AmountUSDT != "9.99" {
		t.Errorf("AmountUSDT = %q, want %q", pending[0].AmountUSDT, "9.99")
	}

	if err := s.UpdatePaymentStatus(ctx, p.ID, "confirmed"); err != nil {
		t.Fatalf("UpdatePaymentStatus() error = %v", err)
	}
	pending, err = s.PendingPayments(ctx)
	if err != nil {
		t.Fatalf("PendingPayments() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("PendingPayments() after confirm returned %d payments, want 0", len(pending))
	}
}

func TestStatsAndLeaderboard(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	alice, err := s.CreateUser(ctx, "1", "alice", "uk")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	bob, err := s.CreateUser(ctx, "2", "bob", "en")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := s.SaveReport(ctx, alice.ID, testResult(model.CheckTypeDomain, "example.com", 15)); err != nil {
			t.Fatalf("SaveReport() error = %v", err)
		}
	}
	if _, err := s.SaveReport(ctx, bob.ID, testResult(model.CheckTypeWallet, "0x0000000000000000000000000000000000000000", 15)); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	if _, err := s.CreateWatch(ctx, alice.ID, "ip", "8.8.8.8"); err != nil {
		t.Fatalf("CreateWatch() error = %v", err)
	}

	stats, err := s.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalUsers != 2 {
		t.Errorf("TotalUsers = %d, want 2", stats.TotalUsers)
	}
	if stats.TotalReports != 4 {
		t.Errorf("TotalReports = %d, want 4", stats.TotalReports)
	}
	if stats.ActiveWatches != 1 {
		t.Errorf("ActiveWatches = %d, want 1", stats.ActiveWatches)
	}
	if stats.ReportsByType["domain"] != 3 {
		t.Errorf("ReportsByType[domain] = %d, want 3", stats.ReportsByType["domain"])
	}
	if stats.ReportsByType["wallet"] != 1 {
		t.Errorf("ReportsByType[wallet] = %d, want 1", stats.ReportsByType["wallet"])
	}

	entries, err := s.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("Leaderboard() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Leaderboard() returned %d entries, want 2", len(entries))
	}
	if entries[0].Username != "alice" || entries[0].Checks != 3 {
		t.Errorf("top entry = %+v, want alice with 3 checks", entries[0])
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "rfc3339",
			input: "2026-01-15T10:30:00Z",
			want:  time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "sqlite default",
			input: "2026-01-15 10:30:00",
			want:  time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "garbage",
			input: "not a timestamp",
			want:  time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := parseTimestamp(tt.input); !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
