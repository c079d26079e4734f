package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("window = %dx%d, want 1280x720", cfg.Window.Width, cfg.Window.Height)
	}
	if got := cfg.Picking.ClickTimeout(); got != 200*time.Millisecond {
		t.Errorf("ClickTimeout() = %v, want 200ms", got)
	}
	if got := cfg.Picking.DoubleClickTimeout(); got != 300*time.Millisecond {
		t.Errorf("DoubleClickTimeout() = %v, want 300ms", got)
	}
	if cfg.Picking.CameraConeDeg != 0.5 || cfg.Picking.PointConeDeg != 0.5 {
		t.Errorf("cones = %v/%v, want 0.5/0.5", cfg.Picking.CameraConeDeg, cfg.Picking.PointConeDeg)
	}
	if cfg.Picking.MinViews != 2 {
		t.Errorf("MinViews = %d, want 2", cfg.Picking.MinViews)
	}
	if cfg.Index.FaceLeafSize != 256 || cfg.Index.PointLeafSize != 512 {
		t.Errorf("leaf sizes = %d/%d, want 256/512", cfg.Index.FaceLeafSize, cfg.Index.PointLeafSize)
	}
	if cfg.Images.MaxResolution != 1024 {
		t.Errorf("MaxResolution = %d, want 1024", cfg.Images.MaxResolution)
	}
	if cfg.Editor.ROIMargin != 0.03 {
		t.Errorf("ROIMargin = %v, want 0.03", cfg.Editor.ROIMargin)
	}
	if cfg.Editor.CropMinPoints != 20 {
		t.Errorf("CropMinPoints = %d, want 20", cfg.Editor.CropMinPoints)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %s, want info", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
window:
  width: 1920
  height: 1080
picking:
  min_views: 3
  double_click_timeout_ms: 400
images:
  max_resolution: 2048
  watch: false
logging:
  level: debug
  log_file: viewer.log
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile() error = %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("Width = %d, want 1920", cfg.Window.Width)
	}
	if cfg.Picking.MinViews != 3 {
		t.Errorf("MinViews = %d, want 3", cfg.Picking.MinViews)
	}
	if cfg.Picking.DoubleClickTimeout() != 400*time.Millisecond {
		t.Errorf("DoubleClickTimeout() = %v, want 400ms", cfg.Picking.DoubleClickTimeout())
	}
	if cfg.Picking.ClickTimeoutMs != 200 {
		t.Errorf("ClickTimeoutMs = %d, want default 200 kept", cfg.Picking.ClickTimeoutMs)
	}
	if cfg.Images.MaxResolution != 2048 || cfg.Images.Watch {
		t.Errorf("images = %+v, want 2048 without watch", cfg.Images)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("LogFile = %s, want viewer.log", cfg.Logging.LogFile)
	}
}

func TestLoadFromTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[index]
face_leaf_size = 128

[editor]
roi_margin = 0.05
crop_min_points = 10
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile() error = %v", err)
	}

	if cfg.Index.FaceLeafSize != 128 {
		t.Errorf("FaceLeafSize = %d, want 128", cfg.Index.FaceLeafSize)
	}
	if cfg.Index.PointLeafSize != 512 {
		t.Errorf("PointLeafSize = %d, want default 512 kept", cfg.Index.PointLeafSize)
	}
	if cfg.Editor.ROIMargin != 0.05 || cfg.Editor.CropMinPoints != 10 {
		t.Errorf("editor = %+v, want margin 0.05 and 10 points", cfg.Editor)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"config.yaml", "window:\n  width: not a number\n  invalid syntax here\n"},
		{"config.toml", "[window\nwidth = 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if err := loadFromFile(Default(), path); err == nil {
				t.Error("loadFromFile() error = nil, want parse error")
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("loadFromFile() error = nil, want error for missing file")
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Picking.MinViews = 0
	cfg.Editor.CropMinPoints = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want errors")
	}
	for _, want := range []string{"window", "min_views", "crop_min_points"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() = %q, missing %q", err, want)
		}
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Fatal("ConfigDir() returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir() = %s, want absolute path", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	if path := findConfigFile(); path != "" {
		t.Errorf("findConfigFile() = %s, want empty", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[window]\nwidth = 800\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if path := findConfigFile(); filepath.Base(path) != "config.toml" {
		t.Errorf("findConfigFile() = %s, want config.toml", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(t *testing.T, cfg *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("level = %s, want debug", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "size flags",
			setup: func() { *flagWidth, *flagHeight = 2560, 1440 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("window = %dx%d, want 2560x1440", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() { *flagWidth, *flagHeight = 0, 0 },
		},
		{
			name:  "picking and image flags",
			setup: func() { *flagMinViews, *flagMaxRes, *flagNoWatch = 4, 512, true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Picking.MinViews != 4 {
					t.Errorf("MinViews = %d, want 4", cfg.Picking.MinViews)
				}
				if cfg.Images.MaxResolution != 512 {
					t.Errorf("MaxResolution = %d, want 512", cfg.Images.MaxResolution)
				}
				if cfg.Images.Watch {
					t.Error("Watch = true, want false")
				}
			},
			teardown: func() { *flagMinViews, *flagMaxRes, *flagNoWatch = 0, 0, false },
		},
		{
			name:  "log file flag",
			setup: func() { *flagLogFile = "out.log" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.LogFile != "out.log" {
					t.Errorf("LogFile = %s, want out.log", cfg.Logging.LogFile)
				}
			},
			teardown: func() { *flagLogFile = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 1600\n  height: 900\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Window.Width != 1920 {
		t.Errorf("Width = %d, want 1920 from flag", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("Height = %d, want 900 from file", cfg.Window.Height)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Picking.MinViews = 5

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile() error = %v", err)
	}
	if loaded.Picking.MinViews != 5 {
		t.Errorf("MinViews = %d, want 5", loaded.Picking.MinViews)
	}
}
