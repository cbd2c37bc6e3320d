// Package database provides SQLite-based storage for DARKSHARE.
//
// This package implements the Store, which keeps:
//   - Registered users keyed by Telegram ID
//   - Saved check reports as CheckResult JSON
//   - Standing watches and their last observed status
//   - Tier payments awaiting operator review
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
