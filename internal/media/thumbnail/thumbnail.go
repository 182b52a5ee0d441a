package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"rokuserve/internal/logging"
)

// Cache generates one JPEG per title under a fixed directory and reuses it on
// later runs. Generation shells out to ffmpeg; a missing binary or a broken
// container surfaces as an error for that title only.
type Cache struct {
	dir    string
	binary string
	offset string
	scale  string
	logger *slog.Logger
}

// NewCache constructs a thumbnail cache writing into dir.
// size is WIDTHxHEIGHT as validated by the config package.
func NewCache(dir, binary, offset, size string, logger *slog.Logger) *Cache {
	return &Cache{
		dir:    dir,
		binary: strings.TrimSpace(binary),
		offset: strings.TrimSpace(offset),
		scale:  strings.ReplaceAll(strings.TrimSpace(size), "x", ":"),
		logger: logging.WithComponent(logger, "thumbnail-cache"),
	}
}

// Ensure returns the on-disk path of the thumbnail for title, generating it
// from videoPath when absent.
func (c *Cache) Ensure(ctx context.Context, videoPath, title string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", errors.New("thumbnail: empty title")
	}

	target := filepath.Join(c.dir, title+".jpg")
	if _, err := os.Stat(target); err == nil {
		c.logger.Debug("thumbnail cache hit", logging.String("path", target))
		return target, nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("create thumbnail directory: %w", err)
	}

	binary := c.binary
	if binary == "" {
		binary = "ffmpeg"
	}
	offset := c.offset
	if offset == "" {
		offset = "00:01:01"
	}

	args := []string{
		"-y",
		"-hide_banner", "-loglevel", "error",
		"-ss", offset,
		"-i", videoPath,
		"-frames:v", "1",
	}
	if c.scale != "" {
		args = append(args, "-vf", "scale="+c.scale)
	}
	args = append(args, target)

	cmd := exec.CommandContext(ctx, binary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		// Remove any partial frame so the next run regenerates it.
		_ = os.Remove(target)
		return "", fmt.Errorf("generate thumbnail: %w: %s", err, strings.TrimSpace(string(output)))
	}

	c.logger.Info("thumbnail generated", logging.String("path", target))
	return target, nil
}
