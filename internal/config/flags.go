package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile  = flag.String("log-file", "", "Write logs to this file as well")
	flagWidth    = flag.Int("width", 0, "Window width")
	flagHeight   = flag.Int("height", 0, "Window height")
	flagMinViews = flag.Int("min-views", 0, "Hide points seen by fewer cameras")
	flagMaxRes   = flag.Int("max-res", 0, "Downscale camera images to this size")
	flagNoWatch  = flag.Bool("no-watch", false, "Do not reload camera images that change on disk")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagMinViews > 0 {
		cfg.Picking.MinViews = *flagMinViews
	}
	if *flagMaxRes > 0 {
		cfg.Images.MaxResolution = *flagMaxRes
	}
	if *flagNoWatch {
		cfg.Images.Watch = false
	}
}
