package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/reconview/internal/geometry"
)

const testManifest = `
cameras:
  - name: a
    image: images/a.jpg
    width: 8
    height: 6
    k: [10, 10, 4, 3]
    r: [1, 0, 0, 0, 1, 0, 0, 0, 1]
    c: [5, 5, 5]
  - name: broken
    image: images/b.jpg
    valid: false
  - name: c
    image: images/c.jpg
    width: 8
    height: 6
    k: [10, 10, 4, 3]
    r: [1, 0, 0, 0, 1, 0, 0, 0, 1]
    c: [-5, 5, 5]
points:
  - {p: [10, 0, 0], views: [0, 2]}
  - {p: [0, 10, 0], views: [1, 2]}
mesh:
  vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0], [0, 1, 0]]
  faces: [[0, 1, 2], [0, 2, 3]]
`

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, testManifest)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Cameras, 3)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "images", "a.jpg"), m.Cameras[0].Image)
	assert.True(t, m.SceneBox().IsEmpty())

	snap, err := m.Snapshot()
	require.NoError(t, err)

	require.Len(t, snap.Cameras, 2)
	assert.Equal(t, "a", snap.Cameras[0].Name)
	assert.Equal(t, "c", snap.Cameras[1].Name)
	assert.Equal(t, 0, snap.Cameras[0].SourceIndex)
	assert.Equal(t, 2, snap.Cameras[1].SourceIndex)
	assert.True(t, snap.Cameras[1].Valid)
	assert.InDelta(t, -5, snap.Cameras[1].C.X, 1e-6)

	assert.Equal(t, [][]uint32{{0, 1}, {1}}, snap.Points.Views)
	assert.Equal(t, 2, snap.Points.Len())
	assert.Len(t, snap.Mesh.Faces, 2)
	assert.Equal(t, geometry.Face{0, 2, 3}, snap.Mesh.Faces[1])
}

func TestManifestSceneBox(t *testing.T) {
	path := writeManifest(t, "bounds: {min: [-1, -2, -3], max: [1, 2, 3]}\n")

	m, err := LoadManifest(path)
	require.NoError(t, err)

	box := m.SceneBox()
	require.False(t, box.IsEmpty())
	assert.InDelta(t, -2, box.Min.Y, 1e-6)
	assert.InDelta(t, 3, box.Max.Z, 1e-6)
}

func TestManifestErrors(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadManifest(writeManifest(t, "cameras: {not: [a list"))
	assert.Error(t, err)

	m, err := LoadManifest(writeManifest(t, "mesh:\n  vertices: [[0, 0, 0]]\n  faces: [[0, 1, 2]]\n"))
	require.NoError(t, err)
	_, err = m.Snapshot()
	assert.ErrorContains(t, err, "out of range")
}

func TestViewerIndex(t *testing.T) {
	cams := []geometry.Camera{{SourceIndex: 0}, {SourceIndex: 2}, {SourceIndex: 5}}

	assert.Equal(t, 0, viewerIndex(cams, 0))
	assert.Equal(t, 1, viewerIndex(cams, 2))
	assert.Equal(t, 2, viewerIndex(cams, 5))
	assert.Equal(t, -1, viewerIndex(cams, 1))
	assert.Equal(t, -1, viewerIndex(cams, 9))
	assert.Equal(t, -1, viewerIndex(nil, 0))
}
