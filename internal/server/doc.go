// Package server exposes the check service over HTTP.
//
// Endpoints:
//   - POST /api/check          validate, evaluate, persist, return the result
//   - GET  /api/reports/{id}   stored check result as JSON
//   - GET  /api/reports/{id}/pdf  re-rendered PDF report
//   - GET  /api/stats          store-wide counters and uptime
//   - GET  /api/activity       recent checks with masked targets
//   - GET  /api/leaderboard    users ranked by report count
//   - GET  /api/users/{tgId}   public profile fields of a user
//   - POST /api/auth/telegram  verify a login-widget payload, upsert the user
//
// Errors are JSON objects with a single "error" field. Targets never leave
// the check path unmasked: the activity feed masks them on insertion and
// the request log relies on the secure handler.
package server
