package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"rokuserve/internal/logging"
)

// Publish builds a fresh document and atomically replaces the persisted feed.
// When the build fails the previous file is left untouched.
func (b *Builder) Publish(ctx context.Context) (*Document, error) {
	doc, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	if err := WriteDocument(doc, b.cfg.Paths.FeedPath); err != nil {
		return nil, err
	}
	b.logger.Info("feed published",
		logging.String("path", b.cfg.Paths.FeedPath),
		logging.Int("items", doc.ItemCount()))
	return doc, nil
}

// WriteDocument serializes doc and replaces path via write-to-temp + rename,
// so concurrent readers never observe a half-written feed.
func WriteDocument(doc *Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal feed: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create feed directory: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp feed: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace feed: %w", err)
	}
	return nil
}
