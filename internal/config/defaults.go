package config

const (
	defaultVideosDir           = "~/rokuserve/Videos"
	defaultOutputDir           = "~/rokuserve/output"
	defaultLogDir              = "~/.local/share/rokuserve/logs"
	defaultBind                = "0.0.0.0:3000"
	defaultBaseURL             = "http://127.0.0.1:3000"
	defaultReadTimeout         = 15
	defaultWriteTimeout        = 300
	defaultIdleTimeout         = 60
	defaultStreamChunkKiB      = 64
	defaultProviderName        = "Rokuserve Library"
	defaultLanguage            = "en"
	defaultGrouping            = GroupByMonth
	defaultFallbackReleaseDate = "2024-01-01"
	defaultFeedWorkers         = 4
	defaultRebuildInterval     = 900
	defaultFFmpegBinary        = "ffmpeg"
	defaultCaptureOffset       = "00:01:01"
	defaultThumbnailSize       = "320x240"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			VideosDir: defaultVideosDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Server: Server{
			Bind:           defaultBind,
			BaseURL:        defaultBaseURL,
			ReadTimeout:    defaultReadTimeout,
			WriteTimeout:   defaultWriteTimeout,
			IdleTimeout:    defaultIdleTimeout,
			StreamChunkKiB: defaultStreamChunkKiB,
		},
		Feed: Feed{
			ProviderName:        defaultProviderName,
			Language:            defaultLanguage,
			Grouping:            defaultGrouping,
			FallbackReleaseDate: defaultFallbackReleaseDate,
			Workers:             defaultFeedWorkers,
			RebuildInterval:     defaultRebuildInterval,
		},
		Thumbnails: Thumbnails{
			Enabled:       true,
			FFmpegBinary:  defaultFFmpegBinary,
			CaptureOffset: defaultCaptureOffset,
			Size:          defaultThumbnailSize,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
