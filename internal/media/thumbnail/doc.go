// Package thumbnail maintains the on-disk JPEG cache served alongside the
// feed. Thumbnails are keyed by display title so regenerating the feed never
// re-runs ffmpeg for titles that already have an image.
package thumbnail
