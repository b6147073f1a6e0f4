package lightbox

import (
	"errors"
	"time"

	"lightbox/internal/catalog"
	"lightbox/internal/resolver"
)

// Options tunes controller behavior. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	SlideshowInterval time.Duration
	LoadingTimeout    time.Duration
	// EscapeExitsFullscreenFirst makes Escape leave fullscreen (and stop the
	// slideshow) before a second Escape closes the lightbox.
	EscapeExitsFullscreenFirst bool
	Logger                     Logger
}

// DefaultOptions returns the stock timings.
func DefaultOptions() Options {
	return Options{
		SlideshowInterval:          DefaultSlideshowInterval,
		LoadingTimeout:             DefaultLoadingTimeout,
		EscapeExitsFullscreenFirst: true,
	}
}

// Deps are the collaborators of a Controller. Resolver, Loader and Scheduler
// are required; the rest may be nil.
type Deps struct {
	Resolver   resolver.Resolver
	Loader     Loader
	Warmer     Warmer
	Scheduler  Scheduler
	ScrollLock *ScrollLock
	Fullscreen Fullscreen
	Input      InputSource
}

// ViewerState is the observable state of a Controller.
type ViewerState struct {
	IsOpen            bool
	CurrentIndex      int // -1 when closed
	IsLoading         bool
	IsSlideshowActive bool
	Preloaded         []int
}

// Index returns the current index and whether there is one.
func (s ViewerState) Index() (int, bool) {
	return s.CurrentIndex, s.CurrentIndex >= 0
}

// Controller is the lightbox state machine for one catalog. It owns the
// session resources (scroll lock, intent listener, fullscreen subscription,
// slideshow timer) from Open until Close and releases all of them on every
// close path.
type Controller struct {
	items []catalog.Item
	deps  Deps
	opts  Options
	log   Logger

	preload   *PreloadCache
	slideshow *Slideshow

	open            bool
	current         int
	loading         bool
	failed          bool
	slideshowActive bool
	url             string

	// generation stamps every image request; callbacks carrying an older
	// generation are stale and dropped.
	generation    uint64
	cancelTimeout func()
	removeInput   func()
	unsubscribeFS func()
}

// New creates a closed controller over items.
func New(items []catalog.Item, deps Deps, opts Options) (*Controller, error) {
	if deps.Resolver == nil {
		return nil, errors.New("lightbox: resolver is required")
	}
	if deps.Loader == nil {
		return nil, errors.New("lightbox: loader is required")
	}
	if deps.Scheduler == nil {
		return nil, errors.New("lightbox: scheduler is required")
	}
	if opts.SlideshowInterval <= 0 {
		opts.SlideshowInterval = DefaultSlideshowInterval
	}
	if opts.LoadingTimeout <= 0 {
		opts.LoadingTimeout = DefaultLoadingTimeout
	}

	log := opts.Logger
	if log == nil {
		log = discardLogger{}
	}

	c := &Controller{
		items:   items,
		deps:    deps,
		opts:    opts,
		log:     log,
		current: -1,
		preload: NewPreloadCache(items, deps.Resolver, deps.Warmer, log),
	}

	c.slideshow = NewSlideshow(deps.Scheduler, opts.SlideshowInterval, deps.Fullscreen, log)
	return c, nil
}

// Len returns the catalog length.
func (c *Controller) Len() int {
	return len(c.items)
}

// Items returns the borrowed catalog. Callers must not modify it.
func (c *Controller) Items() []catalog.Item {
	return c.items
}

// IsOpen reports whether the lightbox is showing.
func (c *Controller) IsOpen() bool {
	return c.open
}

// State returns a snapshot of the viewer state.
func (c *Controller) State() ViewerState {
	s := ViewerState{
		IsOpen:            c.open,
		CurrentIndex:      -1,
		IsLoading:         c.open && c.loading,
		IsSlideshowActive: c.open && c.slideshowActive,
		Preloaded:         c.preload.Indices(),
	}
	if c.open {
		s.CurrentIndex = c.current
	}
	return s
}

// Current returns the displayed index without building a full ViewerState.
func (c *Controller) Current() (int, bool) {
	if !c.open {
		return -1, false
	}
	return c.current, true
}

// Open shows the lightbox at index. Opening an open lightbox re-targets it
// without acquiring anything twice.
func (c *Controller) Open(index int) error {
	if len(c.items) == 0 {
		return ErrEmptyCatalog
	}
	idx, err := Jump(index, len(c.items))
	if err != nil {
		return err
	}

	if c.open {
		c.show(idx)
		return nil
	}

	if c.deps.ScrollLock != nil && !c.deps.ScrollLock.Acquire(c) {
		return ErrBusy
	}
	c.open = true
	if c.deps.Input != nil {
		c.removeInput = c.deps.Input.Listen(c.HandleIntent)
	}
	if c.deps.Fullscreen != nil {
		c.unsubscribeFS = c.deps.Fullscreen.Subscribe(c.fullscreenChanged)
	}

	c.log.Printf("lightbox: open at [%d/%d]", idx+1, len(c.items))
	c.show(idx)
	return nil
}

// Close hides the lightbox and releases every session resource.
func (c *Controller) Close() {
	if !c.open {
		return
	}

	c.stopSlideshow()
	if c.deps.Fullscreen != nil && c.deps.Fullscreen.Active() {
		c.deps.Fullscreen.Exit()
	}
	if c.unsubscribeFS != nil {
		c.unsubscribeFS()
		c.unsubscribeFS = nil
	}
	if c.removeInput != nil {
		c.removeInput()
		c.removeInput = nil
	}
	if c.cancelTimeout != nil {
		c.cancelTimeout()
		c.cancelTimeout = nil
	}
	if c.deps.ScrollLock != nil {
		c.deps.ScrollLock.Release(c)
	}

	// Anything still in flight now belongs to a dead session.
	c.generation++
	c.open = false
	c.current = -1
	c.loading = false
	c.failed = false
	c.url = ""
	c.preload.Reset()

	c.log.Printf("lightbox: closed")
}

// GoTo moves to index.
func (c *Controller) GoTo(index int) error {
	if !c.open {
		return ErrClosed
	}
	idx, err := Jump(index, len(c.items))
	if err != nil {
		return err
	}
	c.show(idx)
	return nil
}

// Next advances with wraparound. It is also the slideshow tick.
func (c *Controller) Next() {
	if !c.open {
		return
	}
	c.show(Next(c.current, len(c.items)))
}

// Previous goes back with wraparound.
func (c *Controller) Previous() {
	if !c.open {
		return
	}
	c.show(Previous(c.current, len(c.items)))
}

// ToggleSlideshow starts or stops the slideshow.
func (c *Controller) ToggleSlideshow() error {
	if !c.open {
		return ErrClosed
	}
	if c.slideshowActive {
		c.stopSlideshow()
		return nil
	}
	c.slideshowActive = true
	c.slideshow.Start(c.Next)
	c.log.Printf("lightbox: slideshow started (%s)", c.slideshow.Interval())
	return nil
}

// Escape leaves fullscreen first when it is engaged, otherwise closes.
func (c *Controller) Escape() {
	if !c.open {
		return
	}
	fs := c.deps.Fullscreen
	if c.opts.EscapeExitsFullscreenFirst && fs != nil && fs.Active() {
		c.stopSlideshow()
		if fs.Active() {
			fs.Exit()
		}
		c.log.Printf("lightbox: escape left fullscreen")
		return
	}
	c.Close()
}

// Swipe applies a gesture signal.
func (c *Controller) Swipe(g Gesture) {
	switch g {
	case GestureAdvance:
		c.Next()
	case GestureRetreat:
		c.Previous()
	}
}

// ImageClicked closes the lightbox.
func (c *Controller) ImageClicked() {
	c.Close()
}

// BackdropClicked closes the lightbox.
func (c *Controller) BackdropClicked() {
	c.Close()
}

// HandleIntent is the window-level listener registered while open.
func (c *Controller) HandleIntent(in Intent) bool {
	if !c.open {
		return false
	}
	switch in {
	case IntentNext:
		c.Next()
	case IntentPrevious:
		c.Previous()
	case IntentEscape:
		c.Escape()
	case IntentClose:
		c.Close()
	case IntentToggleSlideshow:
		_ = c.ToggleSlideshow()
	default:
		return false
	}
	return true
}

func (c *Controller) show(index int) {
	c.current = index
	c.loading = true
	c.failed = false
	c.generation++
	token := c.generation

	if c.cancelTimeout != nil {
		c.cancelTimeout()
	}
	c.cancelTimeout = c.deps.Scheduler.AfterFunc(c.opts.LoadingTimeout, func() {
		c.loadTimedOut(token)
	})

	c.url = c.deps.Resolver.Resolve(c.items[index].Locator, resolver.Fullscreen)
	c.deps.Loader.Load(c.url, func(err error) {
		c.loadFinished(token, err)
	})

	c.preload.EnsureNeighbors(index)
}

func (c *Controller) loadFinished(token uint64, err error) {
	if !c.open || token != c.generation {
		c.log.Printf("lightbox: dropping stale load result (generation %d, current %d)", token, c.generation)
		return
	}
	c.loading = false
	if c.cancelTimeout != nil {
		c.cancelTimeout()
		c.cancelTimeout = nil
	}
	if err != nil {
		c.failed = true
		c.log.Printf("lightbox: image [%d/%d] failed: %v", c.current+1, len(c.items), err)
	}
}

func (c *Controller) loadTimedOut(token uint64) {
	if !c.open || token != c.generation {
		return
	}
	if c.loading {
		c.loading = false
		c.log.Printf("lightbox: loading indicator timed out after %s", c.opts.LoadingTimeout)
	}
	c.cancelTimeout = nil
}

func (c *Controller) fullscreenChanged(active bool) {
	if active || !c.slideshowActive {
		return
	}
	c.log.Printf("lightbox: fullscreen exited externally, stopping slideshow")
	c.stopSlideshow()
}

func (c *Controller) stopSlideshow() {
	if !c.slideshowActive {
		return
	}
	c.slideshowActive = false
	c.slideshow.Stop()
}
