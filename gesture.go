package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"lightbox/internal/lightbox"
)

type pointerKind int

const (
	pointerNone pointerKind = iota
	pointerTap
	pointerSwipe
)

// pointerResult is what one press/release pair turned out to be
type pointerResult struct {
	Kind    pointerKind
	Gesture lightbox.Gesture // for pointerSwipe
	X, Y    int              // press position, for pointerTap
}

type pointerSource int

const (
	sourceMouse pointerSource = iota
	sourceTouch
)

// SwipeRecognizer turns a left-button drag or a single-finger touch into
// either a tap or a horizontal swipe. Horizontal travel of at least threshold
// pixels, dominating vertical travel, is a swipe: leftward advances, rightward
// retreats. Short presses are taps; anything else is ignored.
type SwipeRecognizer struct {
	threshold float64

	active         bool
	source         pointerSource
	touchID        ebiten.TouchID
	startX, startY int
	lastX, lastY   int
}

// NewSwipeRecognizer creates a recognizer with the given threshold in pixels
func NewSwipeRecognizer(threshold float64) *SwipeRecognizer {
	if threshold <= 0 {
		threshold = defaultSwipeThreshold
	}
	return &SwipeRecognizer{threshold: threshold}
}

// Press starts tracking a pointer at (x, y)
func (r *SwipeRecognizer) Press(x, y int) {
	r.active = true
	r.startX, r.startY = x, y
	r.lastX, r.lastY = x, y
}

// Move updates the last known pointer position
func (r *SwipeRecognizer) Move(x, y int) {
	if r.active {
		r.lastX, r.lastY = x, y
	}
}

// Release ends tracking at (x, y) and classifies the gesture
func (r *SwipeRecognizer) Release(x, y int) pointerResult {
	if !r.active {
		return pointerResult{}
	}
	r.active = false

	dx := float64(x - r.startX)
	dy := float64(y - r.startY)

	if math.Abs(dx) >= r.threshold && math.Abs(dx) > math.Abs(dy) {
		g := lightbox.GestureRetreat
		if dx < 0 {
			g = lightbox.GestureAdvance
		}
		return pointerResult{Kind: pointerSwipe, Gesture: g}
	}

	// A tap may wobble a little; a quarter of the swipe distance is still a tap
	if math.Hypot(dx, dy) < r.threshold/4 {
		return pointerResult{Kind: pointerTap, X: r.startX, Y: r.startY}
	}
	return pointerResult{}
}

// Cancel drops the tracked pointer
func (r *SwipeRecognizer) Cancel() {
	r.active = false
}

// Poll feeds this frame's mouse and touch state into the recognizer
func (r *SwipeRecognizer) Poll(mouseEnabled bool) pointerResult {
	if !r.active {
		if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
			r.source = sourceTouch
			r.touchID = ids[0]
			r.Press(ebiten.TouchPosition(ids[0]))
			return pointerResult{}
		}
		if mouseEnabled && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			r.source = sourceMouse
			r.Press(ebiten.CursorPosition())
		}
		return pointerResult{}
	}

	switch r.source {
	case sourceTouch:
		if inpututil.IsTouchJustReleased(r.touchID) {
			return r.Release(inpututil.TouchPositionInPreviousTick(r.touchID))
		}
		r.Move(ebiten.TouchPosition(r.touchID))
	case sourceMouse:
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			return r.Release(ebiten.CursorPosition())
		}
		r.Move(ebiten.CursorPosition())
	}
	return pointerResult{}
}
