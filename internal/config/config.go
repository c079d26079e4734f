// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window" toml:"window"`
	Picking PickingConfig `yaml:"picking" toml:"picking"`
	Index   IndexConfig   `yaml:"index" toml:"index"`
	Images  ImagesConfig  `yaml:"images" toml:"images"`
	Editor  EditorConfig  `yaml:"editor" toml:"editor"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width  int     `yaml:"width" toml:"width"`
	Height int     `yaml:"height" toml:"height"`
	VSync  bool    `yaml:"vsync" toml:"vsync"`
	FOV    float32 `yaml:"fov" toml:"fov"` // vertical, degrees
}

// PickingConfig holds ray picking and click timing settings.
type PickingConfig struct {
	ClickTimeoutMs       int     `yaml:"click_timeout_ms" toml:"click_timeout_ms"`
	DoubleClickTimeoutMs int     `yaml:"double_click_timeout_ms" toml:"double_click_timeout_ms"`
	CameraConeDeg        float32 `yaml:"camera_cone_deg" toml:"camera_cone_deg"`
	PointConeDeg         float32 `yaml:"point_cone_deg" toml:"point_cone_deg"`
	MinViews             int     `yaml:"min_views" toml:"min_views"`
}

// ClickTimeout is the longest press that counts as a click.
func (p PickingConfig) ClickTimeout() time.Duration {
	return time.Duration(p.ClickTimeoutMs) * time.Millisecond
}

// DoubleClickTimeout is the longest gap between the picks of a double-click.
func (p PickingConfig) DoubleClickTimeout() time.Duration {
	return time.Duration(p.DoubleClickTimeoutMs) * time.Millisecond
}

// IndexConfig holds spatial index settings.
type IndexConfig struct {
	FaceLeafSize  int `yaml:"face_leaf_size" toml:"face_leaf_size"`
	PointLeafSize int `yaml:"point_leaf_size" toml:"point_leaf_size"`
}

// ImagesConfig holds camera image settings.
type ImagesConfig struct {
	MaxResolution int  `yaml:"max_resolution" toml:"max_resolution"`
	Watch         bool `yaml:"watch" toml:"watch"`
}

// EditorConfig holds geometry editing settings.
type EditorConfig struct {
	ROIMargin     float32 `yaml:"roi_margin" toml:"roi_margin"` // fraction of the largest extent
	CropMinPoints int     `yaml:"crop_min_points" toml:"crop_min_points"`
	OBBIterations int     `yaml:"obb_iterations" toml:"obb_iterations"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
			FOV:    45,
		},
		Picking: PickingConfig{
			ClickTimeoutMs:       200,
			DoubleClickTimeoutMs: 300,
			CameraConeDeg:        0.5,
			PointConeDeg:         0.5,
			MinViews:             2,
		},
		Index: IndexConfig{
			FaceLeafSize:  256,
			PointLeafSize: 512,
		},
		Images: ImagesConfig{
			MaxResolution: 1024,
			Watch:         true,
		},
		Editor: EditorConfig{
			ROIMargin:     0.03,
			CropMinPoints: 20,
			OBBIterations: 32,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var err error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf(format, args...))
		}
	}
	check(c.Window.Width > 0 && c.Window.Height > 0, "window: size %dx%d must be positive", c.Window.Width, c.Window.Height)
	check(c.Window.FOV > 0 && c.Window.FOV < 180, "window: fov %v out of (0, 180)", c.Window.FOV)
	check(c.Picking.ClickTimeoutMs > 0, "picking: click_timeout_ms must be positive")
	check(c.Picking.DoubleClickTimeoutMs > 0, "picking: double_click_timeout_ms must be positive")
	check(c.Picking.CameraConeDeg > 0 && c.Picking.PointConeDeg > 0, "picking: cone angles must be positive")
	check(c.Picking.MinViews >= 1, "picking: min_views %d must be at least 1", c.Picking.MinViews)
	check(c.Index.FaceLeafSize > 0 && c.Index.PointLeafSize > 0, "index: leaf sizes must be positive")
	check(c.Images.MaxResolution >= 0, "images: max_resolution %d is negative", c.Images.MaxResolution)
	check(c.Editor.ROIMargin >= 0, "editor: roi_margin %v is negative", c.Editor.ROIMargin)
	check(c.Editor.CropMinPoints >= 1, "editor: crop_min_points %d must be at least 1", c.Editor.CropMinPoints)
	return err
}
