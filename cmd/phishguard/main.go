// Package main provides the entry point for the phishguard CLI.
//
// phishguard scores URLs for phishing likelihood. It runs as a local
// companion daemon for the browser extension, or checks URLs directly
// from the command line.
//
// Usage:
//
//	phishguard serve
//	phishguard check <url>...
//	phishguard features <url>
//
// See --help for all available options.
package main

// main is the entry point for phishguard.
func main() {
	Execute()
}
