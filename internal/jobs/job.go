// Package jobs runs the heavy scene work (image decoding, index rebuilds)
// on a single background goroutine fed by a FIFO queue.
package jobs

import "fmt"

// Job is one unit of background work. The set of jobs is closed: LoadImage,
// RebuildIndex and Shutdown.
type Job interface {
	fmt.Stringer
	job()
}

// LoadImage decodes the image of camera ItemIndex, limited to
// MaxResolution pixels on its longest side.
type LoadImage struct {
	ItemIndex     int
	MaxResolution int
}

// RebuildIndex rebuilds the spatial indices from the current geometry.
type RebuildIndex struct{}

// Shutdown stops the worker. Jobs queued after it never run.
type Shutdown struct{}

func (LoadImage) job()    {}
func (RebuildIndex) job() {}
func (Shutdown) job()     {}

func (j LoadImage) String() string {
	return fmt.Sprintf("LoadImage(%d, %d)", j.ItemIndex, j.MaxResolution)
}

func (RebuildIndex) String() string { return "RebuildIndex" }

func (Shutdown) String() string { return "Shutdown" }
