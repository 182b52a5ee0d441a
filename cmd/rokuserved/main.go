package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"rokuserve/internal/config"
	"rokuserve/internal/daemon"
	"rokuserve/internal/feed"
	"rokuserve/internal/logging"
	"rokuserve/internal/media/ffprobe"
	"rokuserve/internal/media/thumbnail"
	"rokuserve/internal/server"
)

func main() {
	configFlag := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.NewWithLogFile(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}, cfg.Paths.LogDir, "rokuserved.log")
	if err != nil {
		log.Fatalf("init logger: %v", err)
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
	srv := server.New(cfg, logger)

	d, err := daemon.New(cfg, builder, srv, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("rokuserved shutting down")
	d.Stop()
}
