package feed

import "errors"

var (
	// ErrScan marks a failure reading the video directory. It aborts the
	// whole build; the previously published document stays in place.
	ErrScan = errors.New("feed: scan failed")

	// ErrProbe marks a per-item metadata probe failure. The item is dropped
	// from the build; the build itself continues.
	ErrProbe = errors.New("feed: probe failed")

	// ErrThumbnail marks a per-item thumbnail failure. The item stays in the
	// feed without a thumbnail reference.
	ErrThumbnail = errors.New("feed: thumbnail failed")
)
