// Package main provides the entry point for the DARKSHARE CLI.
//
// DARKSHARE is a risk-intelligence tool that scores IP addresses, wallet
// addresses, phone numbers, emails, domains, and URLs, and renders the
// results as text, JSON, Markdown, or PDF reports.
//
// Usage:
//
//	darkshare check --type domain example.com
//	darkshare serve
//
// See --help for all available options.
package main

// main is the entry point for DARKSHARE.
func main() {
	Execute()
}
