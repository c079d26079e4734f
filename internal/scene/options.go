package scene

import (
	"fmt"
	"time"

	"github.com/jinzhu/copier"

	"github.com/Faultbox/reconview/internal/config"
	"github.com/Faultbox/reconview/internal/editor"
	"github.com/Faultbox/reconview/internal/engine/picking"
	"github.com/Faultbox/reconview/internal/spatial"
)

// Options configure a Scene.
type Options struct {
	Picking            picking.Options
	Index              spatial.Options
	Editor             editor.Options
	ClickTimeout       time.Duration
	DoubleClickTimeout time.Duration
	// MaxResolution limits decoded camera images; 0 keeps full size.
	MaxResolution int
	// WatchImages reloads camera images that change on disk.
	WatchImages bool
}

// DefaultOptions returns the standard scene settings.
func DefaultOptions() Options {
	return Options{
		Picking:            picking.DefaultOptions(),
		Index:              spatial.DefaultOptions(),
		Editor:             editor.DefaultOptions(),
		ClickTimeout:       picking.DefaultClickTimeout,
		DoubleClickTimeout: picking.DefaultDoubleClickTimeout,
		MaxResolution:      1024,
	}
}

// OptionsFromConfig maps the viewer configuration to scene options.
// Config fields named like an option field are copied by name; settings
// the configuration does not carry keep their defaults.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	opts := DefaultOptions()

	if err := copier.Copy(&opts.Picking, &cfg.Picking); err != nil {
		return opts, fmt.Errorf("picking options: %w", err)
	}
	if err := copier.Copy(&opts.Editor, &cfg.Editor); err != nil {
		return opts, fmt.Errorf("editor options: %w", err)
	}
	opts.Editor.MinViews = cfg.Picking.MinViews
	opts.ClickTimeout = cfg.Picking.ClickTimeout()
	opts.DoubleClickTimeout = cfg.Picking.DoubleClickTimeout()

	opts.Index = spatial.Options{
		FaceSplit:  spatial.LeafSize(cfg.Index.FaceLeafSize),
		PointSplit: spatial.LeafSize(cfg.Index.PointLeafSize),
	}

	opts.MaxResolution = cfg.Images.MaxResolution
	opts.WatchImages = cfg.Images.Watch
	return opts, nil
}
