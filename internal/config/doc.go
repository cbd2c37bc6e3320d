// Package config provides configuration structures and utilities for DarkShare.
// It defines the main configuration options for running checks, report
// generation preferences, and the HTTP API server.
package config
