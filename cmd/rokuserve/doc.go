// Package main hosts the rokuserve CLI entrypoint and command graph.
//
// The Cobra-based command tree covers one-shot feed builds, ledger
// reconciliation, feed inspection, and configuration scaffolding. It
// centralizes configuration resolution and logger setup so subcommands can
// stay small; the heavy lifting lives in the internal packages.
package main
