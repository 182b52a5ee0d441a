// Package server exposes the published feed and the video library over HTTP.
//
// The streaming endpoint honors single byte ranges so set-top-box clients can
// seek; everything is served read-only straight from the filesystem with no
// per-request state.
package server
