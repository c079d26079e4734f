// Package selection tracks what the user picked (one element at a time)
// and the region of points and faces marked for editing.
package selection

import (
	"time"

	"github.com/Faultbox/reconview/pkg/math"
)

// Kind is the kind of picked element.
type Kind int

const (
	KindNone Kind = iota
	KindPoint
	KindFace
	KindCamera
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindPoint:
		return "point"
	case KindFace:
		return "face"
	case KindCamera:
		return "camera"
	default:
		return "unknown"
	}
}

// NoCamera marks an unset camera reference.
const NoCamera = -1

// Pick is the most recent single-element pick. For a face, Points holds
// the three corners followed by the hit point; for a point or a camera,
// Points[0] and Points[3] hold its position.
type Pick struct {
	Kind   Kind
	Index  int
	Points [4]math.Vec3
	Time   time.Time
}

// IsSet reports whether anything is picked.
func (p Pick) IsSet() bool {
	return p.Kind != KindNone
}

// Same reports whether p and other refer to the same element.
func (p Pick) Same(other Pick) bool {
	return p.Kind != KindNone && p.Kind == other.Kind && p.Index == other.Index
}

// HitPoint returns the picked position.
func (p Pick) HitPoint() math.Vec3 {
	return p.Points[3]
}

// State is the full selection of the scene.
type State struct {
	Pick Pick
	// NeighborCamera is the camera marked for comparison, or NoCamera.
	NeighborCamera int
	Region         Region
}

// New returns an empty selection.
func New() *State {
	return &State{NeighborCamera: NoCamera, Region: NewRegion()}
}

// SetPick replaces the pick in one step.
func (s *State) SetPick(p Pick) {
	s.Pick = p
}

// ClearPick forgets the current pick.
func (s *State) ClearPick() {
	s.Pick = Pick{}
}

// Clear forgets the pick, the neighbor camera and the region.
func (s *State) Clear() {
	s.ClearPick()
	s.NeighborCamera = NoCamera
	s.Region.Clear()
}

// Snapshot is a copy of the selection handed to the renderer.
type Snapshot struct {
	Kind           Kind
	Index          int
	Points         [4]math.Vec3
	NeighborCamera int
	RegionPoints   []int
	RegionFaces    []int
	RegionCamera   int
}

// Snapshot returns a copy that shares no memory with s.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Kind:           s.Pick.Kind,
		Index:          s.Pick.Index,
		Points:         s.Pick.Points,
		NeighborCamera: s.NeighborCamera,
		RegionPoints:   s.Region.PointIndices(),
		RegionFaces:    s.Region.FaceIndices(),
		RegionCamera:   s.Region.Camera,
	}
}
