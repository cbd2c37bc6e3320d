package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/darkshare/darkshare/internal/model"
)

// Store provides SQLite-based storage for users, reports, watches, and
// payments. It manages connection pooling and provides methods for the
// CRUD operations the bot and HTTP API need.
//
// Design decision: We use a single database file rather than one file per
// concern. The tables are small, joins between users and reports power the
// stats and leaderboard queries, and a single file keeps backup/restore a
// plain file copy.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// User is a registered account keyed by its Telegram ID.
type User struct {
	// ID is the surrogate primary key.
	ID int64

	// TelegramID is the Telegram account identifier, unique per user.
	TelegramID string

	// Username is the Telegram username, possibly empty.
	Username string

	// Lang is the preferred report language ("uk" or "en").
	Lang string

	// Blocked marks accounts locked out by an operator.
	Blocked bool

	// LastLogin is the most recent authentication time.
	LastLogin time.Time

	// CreatedAt is the registration time.
	CreatedAt time.Time
}

// Report is a persisted check result.
type Report struct {
	// ID is a UUID assigned when the report is saved.
	ID string

	// UserID references the owning user, zero for anonymous checks.
	UserID int64

	// ObjectType is the checked object type (ip, wallet, phone, ...).
	ObjectType string

	// Result is the full check result as produced by the evaluator.
	Result *model.CheckResult

	// GeneratedAt is the save time.
	GeneratedAt time.Time
}

// Watch is a standing monitor on a target.
type Watch struct {
	// ID is the surrogate primary key.
	ID int64

	// UserID references the owning user.
	UserID int64

	// ObjectType is the watched object type.
	ObjectType string

	// Value is the watched target.
	Value string

	// Status is the risk level observed at the last check.
	Status string

	// AlertsOn controls whether status changes notify the user.
	AlertsOn bool

	// LastCheck is the time of the most recent re-evaluation,
	// zero if the watch has never run.
	LastCheck time.Time
}

// Payment is a recorded tier purchase.
type Payment struct {
	// ID is the surrogate primary key.
	ID int64

	// UserID references the paying user.
	UserID int64

	// Tier is the purchased tier name.
	Tier string

	// AmountUSDT is the payment amount as a decimal string.
	AmountUSDT string

	// TxHash is the on-chain transaction hash, possibly empty.
	TxHash string

	// Status is one of "pending", "confirmed", or "rejected".
	Status string

	// CreatedAt is the submission time.
	CreatedAt time.Time
}

// Stats summarizes the store for the public stats endpoint.
type Stats struct {
	// TotalUsers is the number of registered users.
	TotalUsers int

	// TotalReports is the number of saved reports.
	TotalReports int

	// ActiveWatches is the number of watches with alerts enabled.
	ActiveWatches int

	// ReportsByType maps object type to report count.
	ReportsByType map[string]int
}

// LeaderboardEntry is one row of the check-count leaderboard.
type LeaderboardEntry struct {
	// Username is the Telegram username of the user.
	Username string

	// Checks is the number of reports the user generated.
	Checks int
}

// Open opens or creates a Store at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, "darkshare.db")

	// Check if we should create the database or require it to exist
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Build connection string
	// We use modernc.org/sqlite which uses a different connection string format.
	// When CreateIfNotExists is false, we use mode=rw to prevent creating new files.
	// When CreateIfNotExists is true, we use mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY errors under concurrent API requests.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tg_id TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL DEFAULT '',
		lang TEXT NOT NULL DEFAULT 'uk',
		blocked INTEGER NOT NULL DEFAULT 0,
		last_login TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL DEFAULT 0,
		object_type TEXT NOT NULL,
		data_json TEXT NOT NULL,
		generated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_user ON reports(user_id, generated_at);
	CREATE INDEX IF NOT EXISTS idx_reports_type ON reports(object_type);

	CREATE TABLE IF NOT EXISTS watches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		object_type TEXT NOT NULL,
		value TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'low',
		alerts_on INTEGER NOT NULL DEFAULT 1,
		last_check TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_watches_user ON watches(user_id);

	CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		tier TEXT NOT NULL,
		amount_usdt TEXT NOT NULL,
		tx_hash TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TEXT NOT NULL
	);
	`

	if _, err := s.db.ExecContext(context.Background(), schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// CreateUser inserts a new user and returns it with the assigned ID.
func (s *Store) CreateUser(ctx context.Context, telegramID, username, lang string) (*User, error) {
	if lang == "" {
		lang = "uk"
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (tg_id, username, lang, last_login, created_at) VALUES (?, ?, ?, ?, ?)`,
		telegramID, username, lang, now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user id: %w", err)
	}
	return &User{
		ID:         id,
		TelegramID: telegramID,
		Username:   username,
		Lang:       lang,
		LastLogin:  now,
		CreatedAt:  now,
	}, nil
}

// GetUserByTelegramID retrieves a user by Telegram ID.
// Returns nil (no error) when the user is not registered.
func (s *Store) GetUserByTelegramID(ctx context.Context, telegramID string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, tg_id, username, lang, blocked, last_login, created_at FROM users WHERE tg_id = ?`,
		telegramID)
	return scanUser(row)
}

// GetUser retrieves a user by surrogate ID.
// Returns nil (no error) when the user does not exist.
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, tg_id, username, lang, blocked, last_login, created_at FROM users WHERE id = ?`,
		id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var blocked int
	var lastLogin, createdAt string
	err := row.Scan(&u.ID, &u.TelegramID, &u.Username, &u.Lang, &blocked, &lastLogin, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	u.Blocked = blocked != 0
	u.LastLogin = parseTimestamp(lastLogin)
	u.CreatedAt = parseTimestamp(createdAt)
	return &u, nil
}

// UpdateUserLogin records a successful authentication.
func (s *Store) UpdateUserLogin(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// UpdateUserLanguage changes the preferred report language.
func (s *Store) UpdateUserLanguage(ctx context.Context, id int64, lang string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET lang = ? WHERE id = ?`, lang, id)
	if err != nil {
		return fmt.Errorf("failed to update language: %w", err)
	}
	return nil
}

// SaveReport persists a check result for a user (zero userID for anonymous
// checks) and returns the assigned report ID.
func (s *Store) SaveReport(ctx context.Context, userID int64, result *model.CheckResult) (string, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, user_id, object_type, data_json, generated_at) VALUES (?, ?, ?, ?, ?)`,
		id, userID, string(result.Type), string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("failed to insert report: %w", err)
	}
	return id, nil
}

// GetReport retrieves a report by ID.
// Returns nil (no error) when no report has that ID.
func (s *Store) GetReport(ctx context.Context, id string) (*Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, object_type, data_json, generated_at FROM reports WHERE id = ?`,
		id)
	var r Report
	var dataJSON, generatedAt string
	err := row.Scan(&r.ID, &r.UserID, &r.ObjectType, &dataJSON, &generatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}
	var result model.CheckResult
	if err := json.Unmarshal([]byte(dataJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report data: %w", err)
	}
	r.Result = &result
	r.GeneratedAt = parseTimestamp(generatedAt)
	return &r, nil
}

// ListReports returns a user's reports, newest first, up to limit.
func (s *Store) ListReports(ctx context.Context, userID int64, limit int) ([]*Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, object_type, data_json, generated_at FROM reports
		 WHERE user_id = ? ORDER BY generated_at DESC, rowid DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanReports(rows)
}

// RecentReports returns the most recent reports across all users, newest
// first, up to limit. The activity feed masks targets before serving these.
func (s *Store) RecentReports(ctx context.Context, limit int) ([]*Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, object_type, data_json, generated_at FROM reports
		 ORDER BY generated_at DESC, rowid DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent reports: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanReports(rows)
}

func scanReports(rows *sql.Rows) ([]*Report, error) {
	var reports []*Report
	for rows.Next() {
		var r Report
		var dataJSON, generatedAt string
		if err := rows.Scan(&r.ID, &r.UserID, &r.ObjectType, &dataJSON, &generatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		var result model.CheckResult
		if err := json.Unmarshal([]byte(dataJSON), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report data: %w", err)
		}
		r.Result = &result
		r.GeneratedAt = parseTimestamp(generatedAt)
		reports = append(reports, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return reports, nil
}

// CreateWatch inserts a standing monitor and returns it with the assigned ID.
func (s *Store) CreateWatch(ctx context.Context, userID int64, objectType, value string) (*Watch, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO watches (user_id, object_type, value) VALUES (?, ?, ?)`,
		userID, objectType, value)
	if err != nil {
		return nil, fmt.Errorf("failed to insert watch: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get watch id: %w", err)
	}
	return &Watch{
		ID:         id,
		UserID:     userID,
		ObjectType: objectType,
		Value:      value,
		Status:     "low",
		AlertsOn:   true,
	}, nil
}

// ListWatches returns a user's watches in creation order.
func (s *Store) ListWatches(ctx context.Context, userID int64) ([]*Watch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, object_type, value, status, alerts_on, last_check FROM watches
		 WHERE user_id = ? ORDER BY id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var watches []*Watch
	for rows.Next() {
		var w Watch
		var alertsOn int
		var lastCheck string
		if err := rows.Scan(&w.ID, &w.UserID, &w.ObjectType, &w.Value, &w.Status, &alertsOn, &lastCheck); err != nil {
			return nil, fmt.Errorf("failed to scan watch: %w", err)
		}
		w.AlertsOn = alertsOn != 0
		if lastCheck != "" {
			w.LastCheck = parseTimestamp(lastCheck)
		}
		watches = append(watches, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watches: %w", err)
	}
	return watches, nil
}

// UpdateWatchStatus records the outcome of a re-evaluation.
func (s *Store) UpdateWatchStatus(ctx context.Context, id int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE watches SET status = ?, last_check = ? WHERE id = ?`,
		status, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to update watch: %w", err)
	}
	return nil
}

// DeleteWatch removes a monitor.
func (s *Store) DeleteWatch(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM watches WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete watch: %w", err)
	}
	return nil
}

// CreatePayment records a tier purchase in pending state.
func (s *Store) CreatePayment(ctx context.Context, userID int64, tier, amountUSDT, txHash string) (*Payment, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (user_id, tier, amount_usdt, tx_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		userID, tier, amountUSDT, txHash, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to insert payment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get payment id: %w", err)
	}
	return &Payment{
		ID:         id,
		UserID:     userID,
		Tier:       tier,
		AmountUSDT: amountUSDT,
		TxHash:     txHash,
		Status:     "pending",
		CreatedAt:  now,
	}, nil
}

// PendingPayments returns payments awaiting operator review.
func (s *Store) PendingPayments(ctx context.Context) ([]*Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, tier, amount_usdt, tx_hash, status, created_at FROM payments
		 WHERE status = 'pending' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var payments []*Payment
	for rows.Next() {
		var p Payment
		var createdAt string
		if err := rows.Scan(&p.ID, &p.UserID, &p.Tier, &p.AmountUSDT, &p.TxHash, &p.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.CreatedAt = parseTimestamp(createdAt)
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// UpdatePaymentStatus transitions a payment to confirmed or rejected.
func (s *Store) UpdatePaymentStatus(ctx context.Context, id int64, status string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE payments SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return nil
}

// GetStats aggregates store-wide counters for the stats endpoint.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ReportsByType: make(map[string]int)}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.TotalUsers); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`).Scan(&stats.TotalReports); err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM watches WHERE alerts_on = 1`).Scan(&stats.ActiveWatches); err != nil {
		return nil, fmt.Errorf("failed to count watches: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT object_type, COUNT(*) FROM reports GROUP BY object_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports by type: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var typ string
		var count int
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		stats.ReportsByType[typ] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate type counts: %w", err)
	}
	return stats, nil
}

// Leaderboard returns the users with the most saved reports, descending,
// up to limit. Users with zero reports are omitted.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.username, COUNT(r.id) AS checks FROM users u
		 JOIN reports r ON r.user_id = u.id
		 GROUP BY u.id ORDER BY checks DESC, u.id LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Checks); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}
	return entries, nil
}

// parseTimestamp parses a timestamp string from SQLite.
// SQLite may store timestamps in various formats depending on how they
// were inserted, so we try several.
func parseTimestamp(s string) time.Time {
	timestampFormats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
