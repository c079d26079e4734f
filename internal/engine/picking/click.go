package picking

import (
	"time"

	"github.com/Faultbox/reconview/internal/selection"
	"github.com/Faultbox/reconview/pkg/math"
)

const (
	// DefaultClickTimeout is the longest press that still counts as a click.
	DefaultClickTimeout = 200 * time.Millisecond
	// DefaultDoubleClickTimeout is the longest gap between two picks of the
	// same element that makes a double-click.
	DefaultDoubleClickTimeout = 300 * time.Millisecond
)

// Mods are the keyboard modifiers held during a click.
type Mods struct {
	Alt   bool
	Ctrl  bool
	Shift bool
}

// Action is what a click asks the scene to do.
type Action int

const (
	// ActionNone leaves everything as it is.
	ActionNone Action = iota
	// ActionSelect replaces the pick with Outcome.Pick.
	ActionSelect
	// ActionClear forgets the pick: the click hit nothing.
	ActionClear
	// ActionFocus centers the view on Outcome.Point.
	ActionFocus
	// ActionCameraView looks through Outcome.Camera.
	ActionCameraView
	// ActionNeighbor marks Outcome.Camera for comparison.
	ActionNeighbor
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionSelect:
		return "select"
	case ActionClear:
		return "clear"
	case ActionFocus:
		return "focus"
	case ActionCameraView:
		return "camera-view"
	case ActionNeighbor:
		return "neighbor"
	default:
		return "unknown"
	}
}

// Outcome is the resolved meaning of a click.
type Outcome struct {
	Action Action
	Pick   selection.Pick
	Camera int
	Point  math.Vec3
}

// ClickTracker tells clicks from long presses and double-clicks.
type ClickTracker struct {
	Click       time.Duration
	DoubleClick time.Duration

	pressedAt time.Time
	pressed   bool
}

// NewClickTracker returns a tracker with the default timeouts.
func NewClickTracker() *ClickTracker {
	return &ClickTracker{Click: DefaultClickTimeout, DoubleClick: DefaultDoubleClickTimeout}
}

// Press records a button press.
func (c *ClickTracker) Press(now time.Time) {
	c.pressedAt = now
	c.pressed = true
}

// Release reports whether the release ends a click, that is the button was
// pressed no longer than the click timeout.
func (c *ClickTracker) Release(now time.Time) bool {
	if !c.pressed {
		return false
	}
	c.pressed = false
	return now.Sub(c.pressedAt) <= c.Click
}

// Resolve decides what a click does given the previous pick and the hit
// under the cursor.
//
// Hitting the element picked less than the double-click timeout ago is a
// double-click: geometry is focused, a camera is looked through, and the
// pick stays as it was. On a camera, Alt looks through it and Ctrl marks
// it as neighbor, both without changing the pick.
func (c *ClickTracker) Resolve(prev selection.Pick, hit Hit, found bool, mods Mods, now time.Time) Outcome {
	if !found {
		return Outcome{Action: ActionClear}
	}
	next := selection.Pick{Kind: hit.Kind, Index: hit.Index, Points: hit.Points, Time: now}

	if next.Same(prev) && now.Sub(prev.Time) < c.DoubleClick {
		if hit.Kind == selection.KindCamera {
			return Outcome{Action: ActionCameraView, Camera: hit.Index}
		}
		return Outcome{Action: ActionFocus, Point: next.HitPoint()}
	}

	if hit.Kind == selection.KindCamera {
		switch {
		case mods.Alt:
			return Outcome{Action: ActionCameraView, Camera: hit.Index}
		case mods.Ctrl:
			return Outcome{Action: ActionNeighbor, Camera: hit.Index}
		}
	}
	return Outcome{Action: ActionSelect, Pick: next}
}

// ButtonAction is a mouse button transition.
type ButtonAction int

const (
	ButtonPress ButtonAction = iota
	ButtonRelease
)
