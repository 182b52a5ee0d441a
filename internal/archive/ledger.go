package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"rokuserve/internal/logging"
)

// Extensions recorded in the ledger. Broader than the feed whitelist because
// the upstream downloader also produces .avi/.mov files.
var ledgerExtensions = map[string]struct{}{
	".mp4": {},
	".mkv": {},
	".avi": {},
	".mov": {},
}

// Reconcile brings the ledger up to date with the video directory: every
// title present on disk but missing from the ledger is appended once, in a
// single batch. Existing lines are never rewritten or reordered. Returns the
// number of titles appended.
//
// Running Reconcile twice without filesystem changes appends nothing the
// second time.
func Reconcile(ctx context.Context, videosDir, ledgerPath string, logger *slog.Logger) (int, error) {
	log := logging.WithComponent(logger, "archive")

	// Serialize concurrent reconcile runs so batch appends cannot interleave.
	lock := flock.New(ledgerPath + ".lock")
	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return 0, fmt.Errorf("acquire ledger lock: %w", err)
	}
	if !locked {
		return 0, fmt.Errorf("ledger %s is locked by another process", ledgerPath)
	}
	defer lock.Unlock() //nolint:errcheck

	if err := ensureLedger(ledgerPath); err != nil {
		return 0, err
	}

	existing, err := readLedger(ledgerPath)
	if err != nil {
		return 0, err
	}

	entries, err := os.ReadDir(videosDir)
	if err != nil {
		return 0, fmt.Errorf("read videos directory: %w", err)
	}

	var newTitles []string
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := ledgerExtensions[ext]; !ok {
			continue
		}
		title := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if _, ok := existing[title]; ok {
			continue
		}
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		newTitles = append(newTitles, title)
	}

	if len(newTitles) == 0 {
		log.Info("ledger already current", logging.String("path", ledgerPath))
		return 0, nil
	}

	if err := appendTitles(ledgerPath, newTitles); err != nil {
		return 0, err
	}
	log.Info("ledger updated",
		logging.String("path", ledgerPath),
		logging.Int("appended", len(newTitles)))
	return len(newTitles), nil
}

func ensureLedger(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("ensure ledger: %w", err)
	}
	return file.Close()
}

func readLedger(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	titles := make(map[string]struct{})
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			titles[line] = struct{}{}
		}
	}
	return titles, nil
}

func appendTitles(path string, titles []string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger for append: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(strings.Join(titles, "\n") + "\n"); err != nil {
		return fmt.Errorf("append ledger entries: %w", err)
	}
	return nil
}
