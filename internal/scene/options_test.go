package scene

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/reconview/internal/config"
)

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Picking.MinViews = 3
	cfg.Picking.PointConeDeg = 1.5
	cfg.Picking.CameraConeDeg = 2
	cfg.Picking.ClickTimeoutMs = 150
	cfg.Picking.DoubleClickTimeoutMs = 250
	cfg.Editor.ROIMargin = 0.1
	cfg.Editor.CropMinPoints = 7
	cfg.Editor.OBBIterations = 12
	cfg.Index.FaceLeafSize = 32
	cfg.Images.MaxResolution = 512
	cfg.Images.Watch = true

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, 3, opts.Picking.MinViews)
	assert.Equal(t, float32(1.5), opts.Picking.PointConeDeg)
	assert.Equal(t, float32(2), opts.Picking.CameraConeDeg)
	assert.True(t, opts.Picking.ShowFaces)
	assert.True(t, opts.Picking.ShowPoints)
	assert.True(t, opts.Picking.ShowCameras)
	assert.Equal(t, 150*time.Millisecond, opts.ClickTimeout)
	assert.Equal(t, 250*time.Millisecond, opts.DoubleClickTimeout)

	assert.Equal(t, float32(0.1), opts.Editor.ROIMargin)
	assert.Equal(t, 7, opts.Editor.CropMinPoints)
	assert.Equal(t, 12, opts.Editor.OBBIterations)
	assert.Equal(t, 3, opts.Editor.MinViews)

	assert.NotNil(t, opts.Index.FaceSplit)
	assert.Equal(t, 512, opts.MaxResolution)
	assert.True(t, opts.WatchImages)
}
