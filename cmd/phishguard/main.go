// Package main provides the entry point for the PhishGuard CLI.
//
// PhishGuard trains a lexical phishing URL classifier from labeled CSV
// datasets and exports it as a portable inference artifact.
//
// Usage:
//
//	phishguard train <dataset.csv>
//	phishguard predict <url>
//
// See --help for all available options.
package main

// main is the entry point for PhishGuard.
func main() {
	Execute()
}
