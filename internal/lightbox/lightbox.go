// Package lightbox implements the full-screen gallery viewer shared by every
// showcase page: index navigation with wraparound, neighbor preloading, an
// auto-advancing slideshow that drives platform fullscreen, and the controller
// state machine that ties them to keyboard, pointer and gesture input.
//
// Everything in this package runs on a single loop goroutine. Asynchronous work
// (image loads, preloads) reports back through callbacks that the host delivers
// on that goroutine, usually via LoopScheduler.Post.
package lightbox

import (
	"errors"
	"time"
)

// Defaults for Options.
const (
	DefaultSlideshowInterval = 3000 * time.Millisecond
	DefaultLoadingTimeout    = 500 * time.Millisecond
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrEmptyCatalog    = errors.New("catalog is empty")
	ErrClosed          = errors.New("lightbox is closed")
	ErrBusy            = errors.New("another lightbox holds the scroll lock")
)

// Intent is a user request delivered by a keyboard or pointer adapter.
type Intent int

const (
	IntentNone Intent = iota
	IntentNext
	IntentPrevious
	IntentEscape
	IntentClose
	IntentToggleSlideshow
)

func (i Intent) String() string {
	switch i {
	case IntentNext:
		return "next"
	case IntentPrevious:
		return "previous"
	case IntentEscape:
		return "escape"
	case IntentClose:
		return "close"
	case IntentToggleSlideshow:
		return "toggle_slideshow"
	default:
		return "none"
	}
}

// Gesture is the derived signal of an external swipe recognizer.
type Gesture int

const (
	GestureAdvance Gesture = iota // swipe left
	GestureRetreat                // swipe right
)

// Loader displays an image. done must be called exactly once, on the loop
// goroutine, with nil on success or the load error.
type Loader interface {
	Load(url string, done func(err error))
}

// Warmer starts a background fetch of url whose only purpose is to fill caches.
type Warmer interface {
	Warm(url string)
}

// Fullscreen is the platform fullscreen mode of the host viewport.
// Subscribe registers fn for change notifications and returns a function that
// removes it.
type Fullscreen interface {
	FullscreenEffect
	Subscribe(fn func(active bool)) (unsubscribe func())
}

// FullscreenEffect is the part of Fullscreen the slideshow drives.
type FullscreenEffect interface {
	Request() error
	Exit()
	Active() bool
}

// InputSource delivers window-level intents to registered listeners. A
// listener returns true when it consumed the intent.
type InputSource interface {
	Listen(fn func(Intent) bool) (remove func())
}

// Logger is the subset of *log.Logger used for diagnostics.
type Logger interface {
	Printf(format string, args ...any)
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}
