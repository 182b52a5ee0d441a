// Package feed builds the JSON catalog served to the set-top-box client.
//
// A build scans the video directory once, derives per-item metadata (title,
// release date, duration, thumbnail link) concurrently, groups items by month
// or by title theme, and publishes the result atomically. The published file
// is the only integration point with the HTTP server; the two share no
// in-memory state.
package feed
