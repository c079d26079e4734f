package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/reconview/internal/geometry"
	"github.com/Faultbox/reconview/pkg/math"
)

// visibilityScene has 30 points and three cameras; seen[c] is how many of
// the points camera c observes.
func visibilityScene(seen ...int) *geometry.Snapshot {
	snap := &geometry.Snapshot{}
	for range seen {
		snap.Cameras = append(snap.Cameras, geometry.Camera{Valid: true})
	}
	for i := 0; i < 30; i++ {
		snap.Points.Points = append(snap.Points.Points, math.V3(float32(i), 0, 0))
		var views []uint32
		for c, n := range seen {
			if i < n {
				views = append(views, uint32(c))
			}
		}
		snap.Points.Views = append(snap.Points.Views, views)
	}
	return snap
}

func selectAll(f *fixture) {
	for i := 0; i < f.store.Load().Points.Len(); i++ {
		f.sel.Region.AddPoints(i)
	}
}

func TestCropToVisibilityKeepsQualifyingCameras(t *testing.T) {
	// A sees 25, B sees 5, C sees 22.
	f := newFixture(t, visibilityScene(25, 5, 22))
	selectAll(f)

	res := f.ed.CropToVisibility()
	assert.Equal(t, CropOK, res.Status)
	assert.Equal(t, []int{0, 2}, res.Cameras)
	assert.Equal(t, []int{25, 5, 22}, res.Counts)

	cams := f.store.Load().Cameras
	require.Len(t, cams, 3, "indices preserved")
	assert.True(t, cams[0].Valid)
	assert.False(t, cams[1].Valid)
	assert.True(t, cams[2].Valid)
	assert.False(t, f.indices.IsValid(), "index released for rebuild")
	assert.Empty(t, f.store.Load().PointsSeenBy(1), "hidden camera views dropped")
	assert.Equal(t, 2, f.store.Load().Points.ViewCount(0))
}

func TestCropToVisibilityInsufficient(t *testing.T) {
	f := newFixture(t, visibilityScene(25, 5, 3))
	selectAll(f)

	res := f.ed.CropToVisibility()
	assert.Equal(t, CropInsufficient, res.Status)
	assert.Equal(t, []int{0}, res.Cameras)
	assert.Equal(t, uint64(1), f.store.Generation(), "geometry untouched")
	assert.Empty(t, f.queue.jobs)
}

func TestCropToVisibilityNothingToDo(t *testing.T) {
	f := newFixture(t, visibilityScene(25, 20, 30))
	selectAll(f)

	res := f.ed.CropToVisibility()
	assert.Equal(t, CropNothingToDo, res.Status)
	assert.Len(t, res.Cameras, 3)
	assert.Equal(t, uint64(1), f.store.Generation())
}

func TestCropToVisibilityNotAttempted(t *testing.T) {
	f := newFixture(t, visibilityScene(25, 5, 22))

	res := f.ed.CropToVisibility()
	assert.Equal(t, CropNotAttempted, res.Status)
	assert.Empty(t, res.Cameras)
	assert.Equal(t, uint64(1), f.store.Generation(), "geometry untouched")
}

func TestCropToVisibilityIgnoresHiddenCameras(t *testing.T) {
	snap := visibilityScene(25, 21, 22)
	snap.Cameras[1].Valid = false
	f := newFixture(t, snap)
	selectAll(f)

	res := f.ed.CropToVisibility()
	assert.Equal(t, CropNothingToDo, res.Status)
	assert.Equal(t, []int{0, 2}, res.Cameras)
}

func TestCropStatusString(t *testing.T) {
	tests := []struct {
		s    CropStatus
		want string
	}{
		{CropNotAttempted, "not-attempted"},
		{CropOK, "ok"},
		{CropInsufficient, "insufficient"},
		{CropNothingToDo, "nothing-to-do"},
		{CropStatus(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("CropStatus(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
