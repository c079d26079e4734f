// Package imageslot implements the per-camera handoff of decoded images
// from the background worker to the interactive goroutine.
//
// A Slot is Empty, Loading or Ready. Every transition is a single
// compare-and-swap on one pointer:
//
//	Empty   -> Loading  Claim    (worker, before decoding)
//	Loading -> Ready    Fulfill  (worker, after decoding)
//	Loading -> Empty    Abandon  (worker, decode failed)
//	Ready   -> Empty    Take     (interactive, adopts the buffer)
package imageslot

import (
	"image"
	"sync/atomic"
)

// State is the observable state of a slot.
type State int

const (
	Empty State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// loading marks a claimed slot. Its address is unique, so it never compares
// equal to a decoded image.
var loading = &image.RGBA{}

// Slot holds at most one decoded image. The zero value is Empty.
type Slot struct {
	p atomic.Pointer[image.RGBA]
}

// State returns the current state.
func (s *Slot) State() State {
	switch s.p.Load() {
	case nil:
		return Empty
	case loading:
		return Loading
	default:
		return Ready
	}
}

// Claim moves Empty to Loading. It returns false if the slot is busy or
// already holds an image.
func (s *Slot) Claim() bool {
	return s.p.CompareAndSwap(nil, loading)
}

// Fulfill moves Loading to Ready with img. It returns false if the slot was
// not claimed; img is then dropped.
func (s *Slot) Fulfill(img *image.RGBA) bool {
	if img == nil || img == loading {
		return false
	}
	return s.p.CompareAndSwap(loading, img)
}

// Abandon moves Loading back to Empty.
func (s *Slot) Abandon() bool {
	return s.p.CompareAndSwap(loading, nil)
}

// Take moves Ready to Empty and hands over the image. It returns nil
// unless the slot was Ready.
func (s *Slot) Take() *image.RGBA {
	for {
		img := s.p.Load()
		if img == nil || img == loading {
			return nil
		}
		if s.p.CompareAndSwap(img, nil) {
			return img
		}
	}
}
