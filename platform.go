package main

import (
	"errors"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"lightbox/internal/lightbox"
)

var errFullscreenDisabled = errors.New("fullscreen for slideshows is disabled in the configuration")

// fullscreenSettleFrames is how long a requested mode change may take to show
// up in the window state before a mismatch counts as an external change.
const fullscreenSettleFrames = 30

// windowAPI is the part of ebiten's window handling the platform uses
type windowAPI struct {
	setFullscreen func(bool)
	isFullscreen  func() bool
	windowSize    func() (int, int)
	setWindowSize func(int, int)
}

var ebitenWindow = windowAPI{
	setFullscreen: ebiten.SetFullscreen,
	isFullscreen:  ebiten.IsFullscreen,
	windowSize:    ebiten.WindowSize,
	setWindowSize: ebiten.SetWindowSize,
}

// PlatformFullscreen is the window's fullscreen mode as seen by every
// lightbox. Changes made outside of Request and Exit (the window manager, the
// fullscreen key) are detected by Poll and reported to subscribers.
type PlatformFullscreen struct {
	win          windowAPI
	allowRequest bool

	want    bool // mode we believe the window is in
	settled bool // the window has reported want since the last change
	frames  int

	savedW, savedH int

	subs   map[int]func(bool)
	nextID int
}

// NewPlatformFullscreen creates the platform fullscreen. allowRequest controls
// whether a slideshow may switch to fullscreen.
func NewPlatformFullscreen(win windowAPI, allowRequest bool) *PlatformFullscreen {
	return &PlatformFullscreen{
		win:          win,
		allowRequest: allowRequest,
		want:         win.isFullscreen(),
		settled:      true,
		subs:         make(map[int]func(bool)),
	}
}

// Request enters fullscreen on behalf of a slideshow.
func (p *PlatformFullscreen) Request() error {
	if !p.allowRequest {
		return errFullscreenDisabled
	}
	p.set(true)
	return nil
}

// Exit leaves fullscreen.
func (p *PlatformFullscreen) Exit() {
	p.set(false)
}

// Toggle flips the mode on user request. It ignores allowRequest.
func (p *PlatformFullscreen) Toggle() {
	p.set(!p.want)
}

// Active reports whether fullscreen is engaged.
func (p *PlatformFullscreen) Active() bool {
	return p.want
}

// Subscribe registers fn for mode changes.
func (p *PlatformFullscreen) Subscribe(fn func(active bool)) func() {
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	return func() { delete(p.subs, id) }
}

// Poll compares the window state with the expected mode. Call once per frame.
func (p *PlatformFullscreen) Poll() {
	actual := p.win.isFullscreen()
	if actual == p.want {
		p.settled = true
		return
	}
	if !p.settled {
		p.frames++
		if p.frames < fullscreenSettleFrames {
			return
		}
		if p.want && !actual {
			// The window never honored our request. Nothing was engaged, so
			// there is no exit to report; a slideshow carries on windowed.
			log.Printf("Warning: Fullscreen request was not honored, staying windowed")
			p.want = false
			p.settled = true
			return
		}
	}

	debugLog("Fullscreen changed outside the viewer: %t", actual)
	p.want = actual
	p.settled = true
	p.notify(actual)
}

func (p *PlatformFullscreen) set(active bool) {
	if p.want == active {
		return
	}
	if active {
		p.savedW, p.savedH = p.win.windowSize()
	}
	p.win.setFullscreen(active)
	if !active && p.savedW > 0 && p.savedH > 0 {
		p.win.setWindowSize(p.savedW, p.savedH)
	}

	p.want = active
	p.settled = false
	p.frames = 0
	debugLog("Fullscreen set to %t", active)
	p.notify(active)
}

// SavedWindowSize returns the windowed size from before fullscreen, if any.
func (p *PlatformFullscreen) SavedWindowSize() (int, int, bool) {
	return p.savedW, p.savedH, p.savedW > 0 && p.savedH > 0
}

func (p *PlatformFullscreen) notify(active bool) {
	// Subscribers may unsubscribe while being notified
	fns := make([]func(bool), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn(active)
	}
}

// IntentRouter is the window-level listener list every lightbox registers
// with while open. Dispatch offers an intent to the most recent listener
// first.
type IntentRouter struct {
	listeners []intentListener
	nextID    int
}

type intentListener struct {
	id int
	fn func(lightbox.Intent) bool
}

// Listen registers fn and returns its removal function.
func (r *IntentRouter) Listen(fn func(lightbox.Intent) bool) func() {
	id := r.nextID
	r.nextID++
	r.listeners = append(r.listeners, intentListener{id: id, fn: fn})
	return func() {
		for i, l := range r.listeners {
			if l.id == id {
				r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers intent and reports whether a listener consumed it.
func (r *IntentRouter) Dispatch(intent lightbox.Intent) bool {
	for i := len(r.listeners) - 1; i >= 0; i-- {
		if i >= len(r.listeners) {
			continue
		}
		if r.listeners[i].fn(intent) {
			return true
		}
	}
	return false
}

// Len returns the number of registered listeners.
func (r *IntentRouter) Len() int {
	return len(r.listeners)
}
