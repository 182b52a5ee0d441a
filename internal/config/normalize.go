package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeFeed()
	c.normalizeThumbnails()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.VideosDir, err = expandPath(c.Paths.VideosDir); err != nil {
		return fmt.Errorf("paths.videos_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	// Thumbnail, feed, and ledger locations default to the output directory.
	if strings.TrimSpace(c.Paths.ThumbnailsDir) == "" {
		c.Paths.ThumbnailsDir = filepath.Join(c.Paths.OutputDir, "thumbnails")
	}
	if c.Paths.ThumbnailsDir, err = expandPath(c.Paths.ThumbnailsDir); err != nil {
		return fmt.Errorf("paths.thumbnails_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.FeedPath) == "" {
		c.Paths.FeedPath = filepath.Join(c.Paths.OutputDir, "roku_feed.json")
	}
	if c.Paths.FeedPath, err = expandPath(c.Paths.FeedPath); err != nil {
		return fmt.Errorf("paths.feed_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.ArchivePath) == "" {
		c.Paths.ArchivePath = filepath.Join(c.Paths.OutputDir, "downloaded_videos.txt")
	}
	if c.Paths.ArchivePath, err = expandPath(c.Paths.ArchivePath); err != nil {
		return fmt.Errorf("paths.archive_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	c.Server.BaseURL = strings.TrimRight(strings.TrimSpace(c.Server.BaseURL), "/")
}

func (c *Config) normalizeFeed() {
	c.Feed.ProviderName = strings.TrimSpace(c.Feed.ProviderName)
	c.Feed.Language = strings.TrimSpace(c.Feed.Language)
	c.Feed.Grouping = strings.ToLower(strings.TrimSpace(c.Feed.Grouping))
	c.Feed.FallbackReleaseDate = strings.TrimSpace(c.Feed.FallbackReleaseDate)
}

func (c *Config) normalizeThumbnails() {
	if strings.TrimSpace(c.Thumbnails.FFmpegBinary) == "" {
		c.Thumbnails.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Thumbnails.CaptureOffset) == "" {
		c.Thumbnails.CaptureOffset = defaultCaptureOffset
	}
	if strings.TrimSpace(c.Thumbnails.Size) == "" {
		c.Thumbnails.Size = defaultThumbnailSize
	}
}

func (c *Config) normalizeLogging() {
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
}
