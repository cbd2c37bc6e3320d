package server

import (
	"sync"
	"time"

	"github.com/darkshare/darkshare/internal/log"
)

// activityCap bounds the in-memory feed; feedSize is how many entries
// the endpoint serves.
const (
	activityCap = 50
	feedSize    = 10
)

// ActivityEntry is one row of the public activity feed. Targets are
// masked before they enter the feed, so the raw value never leaves the
// check path.
type ActivityEntry struct {
	Type      string    `json:"type"`
	Target    string    `json:"target"`
	RiskLevel string    `json:"riskLevel"` //nolint:tagliatelle // camelCase matches the public API
	Timestamp time.Time `json:"timestamp"`
}

// activityFeed is a bounded, newest-first list of recent checks.
type activityFeed struct {
	mu      sync.Mutex
	entries []ActivityEntry
}

// add masks the target and prepends an entry, evicting the oldest once
// the feed is full.
func (f *activityFeed) add(typ, target, riskLevel string, now time.Time) {
	masked := log.MaskTarget(target)
	if runes := []rune(masked); len(runes) > 20 {
		masked = string(runes[:17]) + "..."
	}
	entry := ActivityEntry{
		Type:      typ,
		Target:    masked,
		RiskLevel: riskLevel,
		Timestamp: now,
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append([]ActivityEntry{entry}, f.entries...)
	if len(f.entries) > activityCap {
		f.entries = f.entries[:activityCap]
	}
}

// recent returns up to feedSize entries, newest first.
func (f *activityFeed) recent() []ActivityEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.entries)
	if n > feedSize {
		n = feedSize
	}
	out := make([]ActivityEntry, n)
	copy(out, f.entries[:n])
	return out
}
