package spatial

import (
	"sync/atomic"

	"github.com/Faultbox/reconview/internal/geometry"
)

// Options control index construction.
type Options struct {
	FaceSplit  SplitFunc
	PointSplit SplitFunc
}

// DefaultOptions splits face nodes above 256 faces and point nodes above
// 512 points.
func DefaultOptions() Options {
	return Options{
		FaceSplit:  LeafSize(DefaultFaceLeafSize),
		PointSplit: LeafSize(DefaultPointLeafSize),
	}
}

// Indices is one complete pair of indices built from a single snapshot.
type Indices struct {
	Mesh       *MeshIndex
	Points     *PointIndex
	Generation uint64
}

// IsEmpty reports whether neither index holds anything.
func (ix *Indices) IsEmpty() bool {
	return ix == nil || (ix.Mesh.Len() == 0 && ix.Points.Len() == 0)
}

// Build constructs both indices from snap.
func Build(snap *geometry.Snapshot, opts Options) *Indices {
	if opts.FaceSplit == nil {
		opts.FaceSplit = LeafSize(DefaultFaceLeafSize)
	}
	if opts.PointSplit == nil {
		opts.PointSplit = LeafSize(DefaultPointLeafSize)
	}
	return &Indices{
		Mesh:       NewMeshIndex(snap.Mesh, opts.FaceSplit),
		Points:     NewPointIndex(snap.Points, opts.PointSplit),
		Generation: snap.Generation,
	}
}

// IndexSet holds the installed indices. Readers see either the previous
// or the next complete Indices, never a partial one.
type IndexSet struct {
	cur atomic.Pointer[Indices]
}

// Build constructs indices from snap and installs them.
func (s *IndexSet) Build(snap *geometry.Snapshot, opts Options) *Indices {
	ix := Build(snap, opts)
	s.cur.Store(ix)
	return ix
}

// InstallIf installs ix only if the generation reported by current still
// matches the one ix was built from. The generation is checked again after
// the store; if it moved on meanwhile, ix is taken back out and no indices
// stay installed.
func (s *IndexSet) InstallIf(ix *Indices, current func() uint64) bool {
	if current() != ix.Generation {
		return false
	}
	s.cur.Store(ix)
	if current() == ix.Generation {
		return true
	}
	s.cur.CompareAndSwap(ix, nil)
	return false
}

// Release drops the installed indices. Calling it twice is harmless.
func (s *IndexSet) Release() {
	s.cur.Store(nil)
}

// Load returns the installed indices, or nil.
func (s *IndexSet) Load() *Indices {
	return s.cur.Load()
}

// IsValid reports whether at least one installed index is non-empty.
func (s *IndexSet) IsValid() bool {
	return !s.cur.Load().IsEmpty()
}
