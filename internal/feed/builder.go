package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"rokuserve/internal/config"
	"rokuserve/internal/logging"
)

// Prober reports the playable duration of a media file.
type Prober interface {
	DurationSeconds(ctx context.Context, path string) (float64, error)
}

// Thumbnailer ensures a cached thumbnail exists for a title.
type Thumbnailer interface {
	Ensure(ctx context.Context, videoPath, title string) (string, error)
}

var videoExtensions = map[string]struct{}{
	".mp4": {},
	".mkv": {},
}

// Builder produces feed documents from the configured video directory.
type Builder struct {
	cfg    *config.Config
	prober Prober
	thumbs Thumbnailer
	logger *slog.Logger
	now    func() time.Time
}

// NewBuilder constructs a feed builder. thumbs may be nil when thumbnail
// generation is disabled; items are then published without thumbnail links.
func NewBuilder(cfg *config.Config, prober Prober, thumbs Thumbnailer, logger *slog.Logger) *Builder {
	return &Builder{
		cfg:    cfg,
		prober: prober,
		thumbs: thumbs,
		logger: logging.WithComponent(logger, "feed-builder"),
		now:    time.Now,
	}
}

// record pairs an item with its parsed release date so grouping and sorting
// never re-parse the wire string.
type record struct {
	item    Item
	release time.Time
}

// Build scans the video directory and assembles a complete document. Probe
// failures drop the affected item only; an unreadable directory fails the
// whole build.
func (b *Builder) Build(ctx context.Context) (*Document, error) {
	entries, err := os.ReadDir(b.cfg.Paths.VideosDir)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrScan, b.cfg.Paths.VideosDir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := videoExtensions[ext]; !ok {
			continue
		}
		files = append(files, entry.Name())
	}

	// Per-file work is independent; fan out across a bounded pool and join
	// into scan order before grouping.
	results := make([]*record, len(files))
	sem := make(chan struct{}, b.cfg.Feed.Workers)
	var wg sync.WaitGroup
	for i, name := range files {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}
			rec, err := b.buildItem(ctx, name)
			if err != nil {
				b.logger.Warn("item dropped", logging.String("file", name), logging.Error(err))
				return
			}
			results[i] = rec
		}(i, name)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScan, err)
	}

	kept := make([]*record, 0, len(results))
	for _, rec := range results {
		if rec != nil {
			kept = append(kept, rec)
		}
	}
	for i, rec := range kept {
		rec.item.ID = "video" + strconv.Itoa(i)
	}

	var groups []Group
	if b.cfg.Feed.Grouping == config.GroupByTheme {
		groups = b.groupByTheme(kept)
	} else {
		groups = b.groupByMonth(kept)
	}

	doc := &Document{
		ProviderName: b.cfg.Feed.ProviderName,
		Language:     b.cfg.Feed.Language,
		LastUpdated:  b.now().UTC(),
		BuildID:      uuid.NewString(),
		Groups:       groups,
	}
	b.logger.Info("feed built",
		logging.String("build_id", doc.BuildID),
		logging.Int("scanned", len(files)),
		logging.Int("items", len(kept)),
		logging.Int("groups", len(groups)))
	return doc, nil
}

func (b *Builder) buildItem(ctx context.Context, filename string) (*record, error) {
	path := filepath.Join(b.cfg.Paths.VideosDir, filename)
	title := TitleFromFilename(filename)

	release, ok := ExtractReleaseDate(title)
	if !ok {
		// Validated by config, cannot fail here.
		release, _ = time.Parse("2006-01-02", b.cfg.Feed.FallbackReleaseDate)
	}

	duration, err := b.prober.DurationSeconds(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProbe, err)
	}

	item := Item{
		Title:            title,
		ShortDescription: fmt.Sprintf("%s %s.", b.cfg.Feed.ProviderName, title),
		ReleaseDate:      release.Format("2006-01-02"),
		Genres:           append([]string{}, b.cfg.Feed.Genres...),
		Content: Content{
			Duration: int(duration),
			Videos: []VideoSource{{
				URL:       b.cfg.Server.BaseURL + "/stream/" + url.PathEscape(filename),
				Quality:   "FHD",
				VideoType: strings.ToUpper(strings.TrimPrefix(filepath.Ext(filename), ".")),
			}},
		},
		DateAdded: b.now().UTC().Format(time.RFC3339),
	}

	if b.thumbs != nil {
		if _, err := b.thumbs.Ensure(ctx, path, title); err != nil {
			// The item stays in the feed, only the thumbnail link is omitted.
			b.logger.Warn("thumbnail omitted",
				logging.String("title", title),
				logging.Error(fmt.Errorf("%w: %v", ErrThumbnail, err)))
		} else {
			item.Thumbnail = b.cfg.Server.BaseURL + "/output/thumbnails/" + url.PathEscape(title+".jpg")
		}
	}

	return &record{item: item, release: release}, nil
}

func (b *Builder) groupByMonth(records []*record) []Group {
	type bucket struct {
		label   string
		order   int
		records []*record
	}

	now := b.now()
	var buckets []*bucket
	index := make(map[string]*bucket)
	for _, rec := range records {
		key := rec.release.Format("2006-01")
		bk, ok := index[key]
		if !ok {
			bk = &bucket{label: MonthLabel(rec.release), order: monthDistance(now, rec.release)}
			index[key] = bk
			buckets = append(buckets, bk)
		}
		bk.records = append(bk.records, rec)
	}

	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].order < buckets[j].order })

	groups := make([]Group, 0, len(buckets))
	for _, bk := range buckets {
		groups = append(groups, Group{Label: bk.label, Items: sortedItems(bk.records)})
	}
	return groups
}

func (b *Builder) groupByTheme(records []*record) []Group {
	type bucket struct {
		label   string
		records []*record
	}

	// Themes keep first-seen order; matching is case- and accent-insensitive.
	var buckets []*bucket
	index := make(map[string]*bucket)
	for _, rec := range records {
		theme := ThemeKey(rec.item.Title)
		key := foldKey(theme)
		bk, ok := index[key]
		if !ok {
			bk = &bucket{label: theme}
			index[key] = bk
			buckets = append(buckets, bk)
		}
		bk.records = append(bk.records, rec)
	}

	groups := make([]Group, 0, len(buckets))
	for _, bk := range buckets {
		groups = append(groups, Group{Label: bk.label, Items: sortedItems(bk.records)})
	}
	return groups
}

// sortedItems orders records by release date descending. The sort is stable,
// so ties keep their scan order.
func sortedItems(records []*record) []Item {
	ordered := make([]*record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].release.After(ordered[j].release)
	})
	items := make([]Item, 0, len(ordered))
	for _, rec := range ordered {
		items = append(items, rec.item)
	}
	return items
}
