package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var thumbnailSizePattern = regexp.MustCompile(`^\d+x\d+$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateFeed(); err != nil {
		return err
	}
	if err := c.validateThumbnails(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.VideosDir) == "" {
		return errors.New("paths.videos_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Bind == "" {
		return errors.New("server.bind must be set")
	}
	if c.Server.BaseURL == "" {
		return errors.New("server.base_url must be set")
	}
	parsed, err := url.Parse(c.Server.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("server.base_url must be an absolute URL, got %q", c.Server.BaseURL)
	}
	if err := ensurePositiveMap(map[string]int{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.idle_timeout":     c.Server.IdleTimeout,
		"server.stream_chunk_kib": c.Server.StreamChunkKiB,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateFeed() error {
	if c.Feed.ProviderName == "" {
		return errors.New("feed.provider_name must be set")
	}
	if c.Feed.Language == "" {
		return errors.New("feed.language must be set")
	}
	switch c.Feed.Grouping {
	case GroupByMonth, GroupByTheme:
	default:
		return fmt.Errorf("feed.grouping must be %q or %q, got %q", GroupByMonth, GroupByTheme, c.Feed.Grouping)
	}
	if _, err := time.Parse("2006-01-02", c.Feed.FallbackReleaseDate); err != nil {
		return fmt.Errorf("feed.fallback_release_date must be a YYYY-MM-DD date, got %q", c.Feed.FallbackReleaseDate)
	}
	if c.Feed.Workers <= 0 {
		return errors.New("feed.workers must be positive")
	}
	if c.Feed.RebuildInterval < 0 {
		return errors.New("feed.rebuild_interval must be >= 0 (0 disables periodic rebuilds)")
	}
	return nil
}

func (c *Config) validateThumbnails() error {
	if !c.Thumbnails.Enabled {
		return nil
	}
	if !thumbnailSizePattern.MatchString(c.Thumbnails.Size) {
		return fmt.Errorf("thumbnails.size must look like WIDTHxHEIGHT, got %q", c.Thumbnails.Size)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
