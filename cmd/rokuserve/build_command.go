package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rokuserve/internal/feed"
	"rokuserve/internal/media/ffprobe"
	"rokuserve/internal/media/thumbnail"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Scan the video library and publish the feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}

			var thumbs feed.Thumbnailer
			if cfg.Thumbnails.Enabled {
				thumbs = thumbnail.NewCache(
					cfg.Paths.ThumbnailsDir,
					cfg.Thumbnails.FFmpegBinary,
					cfg.Thumbnails.CaptureOffset,
					cfg.Thumbnails.Size,
					logger,
				)
			}

			builder := feed.NewBuilder(cfg, ffprobe.Client{Binary: cfg.FFprobeBinary()}, thumbs, logger)
			doc, err := builder.Publish(cmd.Context())
			if err != nil {
				return fmt.Errorf("build feed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Published %d items in %d groups to %s\n",
				doc.ItemCount(), len(doc.Groups), cfg.Paths.FeedPath)
			return nil
		},
	}
}
