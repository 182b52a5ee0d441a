// Package daemon ties the feed builder and the HTTP server into one
// long-running process with single-instance locking and a rebuild schedule.
package daemon
