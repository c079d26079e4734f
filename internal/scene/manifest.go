package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/reconview/internal/geometry"
	"github.com/Faultbox/reconview/pkg/geom"
	"github.com/Faultbox/reconview/pkg/math"
)

// Manifest is the on-disk description of a reconstruction scene.
//
//	cameras:
//	  - name: IMG_0001
//	    image: images/IMG_0001.jpg
//	    width: 4000
//	    height: 3000
//	    k: [3200, 3200, 2000, 1500]
//	    r: [1, 0, 0, 0, 1, 0, 0, 0, 1]
//	    c: [0, 0, -5]
//	points:
//	  - {p: [0.1, 0.2, 0.3], views: [0, 1]}
//	mesh:
//	  vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0]]
//	  faces: [[0, 1, 2]]
//	bounds: {min: [-1, -1, -1], max: [1, 1, 1]}
//
// Image paths are relative to the manifest. Point views list camera
// positions in the cameras array.
type Manifest struct {
	Cameras []ManifestCamera `yaml:"cameras"`
	Points  []ManifestPoint  `yaml:"points"`
	Mesh    ManifestMesh     `yaml:"mesh"`
	Bounds  *ManifestBounds  `yaml:"bounds,omitempty"`
}

// ManifestCamera is one calibrated image. A camera with valid: false has
// no usable pose and is not shown.
type ManifestCamera struct {
	Name   string     `yaml:"name"`
	Image  string     `yaml:"image"`
	Width  int        `yaml:"width"`
	Height int        `yaml:"height"`
	K      [4]float32 `yaml:"k"`
	R      [9]float32 `yaml:"r"`
	C      [3]float32 `yaml:"c"`
	Valid  *bool      `yaml:"valid,omitempty"`
}

// ManifestPoint is one point with the cameras observing it.
type ManifestPoint struct {
	P     [3]float32 `yaml:"p"`
	Views []uint32   `yaml:"views,omitempty"`
}

// ManifestMesh is an indexed triangle mesh.
type ManifestMesh struct {
	Vertices [][3]float32 `yaml:"vertices"`
	Faces    [][3]uint32  `yaml:"faces"`
}

// ManifestBounds is an optional scene box.
type ManifestBounds struct {
	Min [3]float32 `yaml:"min"`
	Max [3]float32 `yaml:"max"`
}

// LoadManifest reads a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", filepath.Base(path), err)
	}
	dir := filepath.Dir(path)
	for i := range m.Cameras {
		if img := m.Cameras[i].Image; img != "" && !filepath.IsAbs(img) {
			m.Cameras[i].Image = filepath.Join(dir, img)
		}
	}
	return &m, nil
}

// Snapshot converts the manifest to scene geometry. Only valid cameras
// are kept; point views are renumbered to the kept cameras and views of
// dropped cameras are removed.
func (m *Manifest) Snapshot() (*geometry.Snapshot, error) {
	snap := &geometry.Snapshot{}
	for i, c := range m.Cameras {
		if c.Valid != nil && !*c.Valid {
			continue
		}
		snap.Cameras = append(snap.Cameras, geometry.Camera{
			Name:        c.Name,
			ImagePath:   c.Image,
			Width:       c.Width,
			Height:      c.Height,
			K:           c.K,
			R:           math.Mat3(c.R),
			C:           math.V3(c.C[0], c.C[1], c.C[2]),
			Valid:       true,
			SourceIndex: i,
		})
	}

	if len(m.Points) > 0 {
		snap.Points.Points = make([]math.Vec3, len(m.Points))
		snap.Points.Views = make([][]uint32, len(m.Points))
		for i, p := range m.Points {
			snap.Points.Points[i] = math.V3(p.P[0], p.P[1], p.P[2])
			var views []uint32
			for _, v := range p.Views {
				if vi := viewerIndex(snap.Cameras, int(v)); vi >= 0 {
					views = append(views, uint32(vi))
				}
			}
			snap.Points.Views[i] = views
		}
	}

	snap.Mesh.Vertices = make([]math.Vec3, len(m.Mesh.Vertices))
	for i, v := range m.Mesh.Vertices {
		snap.Mesh.Vertices[i] = math.V3(v[0], v[1], v[2])
	}
	snap.Mesh.Faces = make([]geometry.Face, len(m.Mesh.Faces))
	for i, f := range m.Mesh.Faces {
		for _, v := range f {
			if int(v) >= len(m.Mesh.Vertices) {
				return nil, fmt.Errorf("face %d: vertex %d out of range", i, v)
			}
		}
		snap.Mesh.Faces[i] = geometry.Face(f)
	}
	return snap, nil
}

// SceneBox returns the optional scene box, empty when absent.
func (m *Manifest) SceneBox() geom.AABB {
	if m.Bounds == nil {
		return geom.EmptyAABB()
	}
	b := m.Bounds
	return geom.AABB{
		Min: math.V3(b.Min[0], b.Min[1], b.Min[2]),
		Max: math.V3(b.Max[0], b.Max[1], b.Max[2]),
	}
}

// viewerIndex maps a camera position in the manifest to its position among
// the shown cameras, or -1. The search runs backwards from the last
// camera, whose SourceIndex is the largest.
func viewerIndex(cameras []geometry.Camera, source int) int {
	for i := len(cameras) - 1; i >= 0; i-- {
		switch {
		case cameras[i].SourceIndex == source:
			return i
		case cameras[i].SourceIndex < source:
			return -1
		}
	}
	return -1
}
