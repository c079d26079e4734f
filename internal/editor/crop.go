package editor

import (
	"go.uber.org/zap"
)

// CropStatus is the outcome of CropToVisibility.
type CropStatus int

const (
	// CropNotAttempted means no crop ran: no points were marked.
	CropNotAttempted CropStatus = iota
	// CropOK means the cameras outside Cameras were hidden.
	CropOK
	// CropInsufficient means fewer than two cameras see enough points.
	CropInsufficient
	// CropNothingToDo means every camera sees enough points.
	CropNothingToDo
)

func (s CropStatus) String() string {
	switch s {
	case CropNotAttempted:
		return "not-attempted"
	case CropOK:
		return "ok"
	case CropInsufficient:
		return "insufficient"
	case CropNothingToDo:
		return "nothing-to-do"
	default:
		return "unknown"
	}
}

// CropResult describes a crop by visibility.
type CropResult struct {
	Status CropStatus
	// Cameras lists the qualifying cameras in index order.
	Cameras []int
	// Counts holds, per camera, how many marked points it sees.
	Counts []int
}

// CropToVisibility keeps the cameras that see at least CropMinPoints of the
// marked points and hides the others. Hiding leaves camera indices intact.
func (e *Editor) CropToVisibility() CropResult {
	snap := e.store.Load()
	points := e.sel.Region.PointIndices()
	if len(points) == 0 || len(snap.Cameras) == 0 {
		return CropResult{Status: CropNotAttempted}
	}

	counts := make([]int, len(snap.Cameras))
	for _, p := range points {
		if p >= len(snap.Points.Views) {
			continue
		}
		for _, cam := range snap.Points.Views[p] {
			if int(cam) < len(counts) {
				counts[cam]++
			}
		}
	}

	var keep []int
	valid := 0
	for i, c := range snap.Cameras {
		if !c.Valid {
			continue
		}
		valid++
		if counts[i] >= e.opts.CropMinPoints {
			keep = append(keep, i)
		}
	}

	res := CropResult{Cameras: keep, Counts: counts}
	switch {
	case len(keep) < 2:
		res.Status = CropInsufficient
	case len(keep) == valid:
		res.Status = CropNothingToDo
	default:
		res.Status = CropOK
		e.commit(snap.KeepCameras(keep))
	}
	e.log.Info("crop by visibility",
		zap.Stringer("status", res.Status),
		zap.Int("kept", len(keep)),
		zap.Int("cameras", valid))
	return res
}
