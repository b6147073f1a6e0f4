package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"lightbox/internal/catalog"
	"lightbox/internal/lightbox"
	"lightbox/internal/resolver"
)

var _ lightbox.Loader = (*TextureStore)(nil)

// App is the ebiten game: a set of gallery pages, each with its own lightbox,
// and the window-level services they share.
type App struct {
	config       Config
	configStatus ConfigLoadResult

	pages   []*page
	current int

	sched      *lightbox.LoopScheduler
	lock       *lightbox.ScrollLock
	fullscreen *PlatformFullscreen
	router     *IntentRouter
	textures   *TextureStore
	resolve    resolver.Resolver
	build      controllerFactory
	sortMethod int

	renderer     *Renderer
	inputHandler *InputHandler

	showHelp           bool
	overlayMessage     string
	overlayMessageTime time.Time

	screenW, screenH int
	exiting          bool
}

// appServices are the shared collaborators App wires into every page
type appServices struct {
	sched      *lightbox.LoopScheduler
	lock       *lightbox.ScrollLock
	fullscreen *PlatformFullscreen
	router     *IntentRouter
	textures   *TextureStore
	resolve    resolver.Resolver
	warmer     lightbox.Warmer // nil disables preloading
	logger     lightbox.Logger
}

// NewApp builds one page per gallery. Empty galleries are kept; their grid
// shows a message and the lightbox refuses to open. Scanned galleries follow
// the sort method; galleries from a catalog file keep their order.
func NewApp(config Config, status ConfigLoadResult, galleries []catalog.Gallery, scanned bool, svc appServices) (*App, error) {
	if len(galleries) == 0 {
		return nil, catalog.ErrNoGalleries
	}

	a := &App{
		config:       config,
		configStatus: status,
		sched:        svc.sched,
		lock:         svc.lock,
		fullscreen:   svc.fullscreen,
		router:       svc.router,
		textures:     svc.textures,
		resolve:      svc.resolve,
		sortMethod:   config.SortMethod,
		screenW:      config.WindowWidth,
		screenH:      config.WindowHeight,
	}

	opts := config.LightboxOptions()
	opts.Logger = svc.logger
	deps := lightbox.Deps{
		Resolver:   svc.resolve,
		Loader:     svc.textures,
		Warmer:     svc.warmer,
		Scheduler:  svc.sched,
		ScrollLock: svc.lock,
		Fullscreen: svc.fullscreen,
		Input:      svc.router,
	}
	a.build = func(items []catalog.Item) (*lightbox.Controller, error) {
		return lightbox.New(items, deps, opts)
	}

	for _, g := range galleries {
		p, err := newPage(g, svc.lock, a.build, scanned)
		if err != nil {
			return nil, fmt.Errorf("gallery %q: %w", g.Name, err)
		}
		a.pages = append(a.pages, p)
	}

	a.textures.ReserveThumbnails(a.grid().visibleCells())
	a.renderer = NewRenderer(a)
	keys := NewKeybindingManager(config.Keybindings)
	mouse := NewMousebindingManager(config.Mousebindings, config.MouseSettings)
	a.inputHandler = NewInputHandler(a, a, keys, mouse, NewSwipeRecognizer(config.MouseSettings.SwipeThreshold))
	return a, nil
}

func (a *App) page() *page {
	return a.pages[a.current]
}

func (a *App) grid() gridLayout {
	return computeGridLayout(a.screenW, a.screenH, a.config.ThumbnailColumns)
}

func (a *App) Update() error {
	if a.exiting {
		return ebiten.Termination
	}

	// Timers and load completions first, so input sees current state
	a.sched.RunDue(time.Now())
	a.fullscreen.Poll()

	a.inputHandler.HandleInput()
	a.page().syncSelection(a.grid())

	if a.exiting {
		return ebiten.Termination
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	a.renderer.Draw(screen)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != a.screenW || outsideHeight != a.screenH {
		a.screenW, a.screenH = outsideWidth, outsideHeight
		a.textures.ReserveThumbnails(a.grid().visibleCells())
	}
	return outsideWidth, outsideHeight
}

// Shutdown closes every lightbox and stops background decoding
func (a *App) Shutdown() {
	for _, p := range a.pages {
		p.ctrl.Close()
	}
	a.textures.Close()
}

func (a *App) saveCurrentWindowSize() {
	if a.fullscreen.Active() {
		// Save the size from before fullscreen
		if w, h, ok := a.fullscreen.SavedWindowSize(); ok {
			a.config.WindowWidth = w
			a.config.WindowHeight = h
		}
	} else {
		w, h := ebiten.WindowSize()
		a.config.WindowWidth = w
		a.config.WindowHeight = h
	}
	a.config.SortMethod = a.sortMethod
	saveConfig(a.config)
}

// RenderState

func (a *App) GetGalleryName() string { return a.page().name }

func (a *App) GetGalleryIndex() (int, int) { return a.current, len(a.pages) }

func (a *App) GetItems() []catalog.Item { return a.page().items() }

func (a *App) GetSelectedIndex() int { return a.page().selected }

func (a *App) GetScrollOffset() float64 { return a.page().scroll }

func (a *App) GetColumns() int { return a.config.ThumbnailColumns }

func (a *App) GetLightboxView() lightbox.View { return a.page().ctrl.View() }

func (a *App) IsFullscreen() bool { return a.fullscreen.Active() }

func (a *App) GetThumbnail(index int) (*ebiten.Image, error) {
	items := a.page().items()
	if index < 0 || index >= len(items) {
		return nil, lightbox.ErrIndexOutOfRange
	}
	return a.textures.Thumbnail(a.resolve.Resolve(items[index].Locator, resolver.Thumbnail))
}

func (a *App) GetFullImage(url string) (*ebiten.Image, error) {
	if url == "" {
		return nil, nil
	}
	return a.textures.Full(url)
}

func (a *App) IsShowingHelp() bool { return a.showHelp }

func (a *App) GetOverlayMessage() string { return a.overlayMessage }

func (a *App) GetOverlayMessageTime() time.Time { return a.overlayMessageTime }

func (a *App) GetFontSize() float64 { return a.config.HelpFontSize }

func (a *App) GetConfigStatus() ConfigLoadResult { return a.configStatus }

func (a *App) GetKeybindings() map[string][]string { return a.config.Keybindings }

func (a *App) GetMousebindings() map[string][]string { return a.config.Mousebindings }

// InputState

func (a *App) IsLightboxOpen() bool { return a.page().ctrl.IsOpen() }

// InputActions

func (a *App) Exit() {
	a.saveCurrentWindowSize()
	a.exiting = true
}

func (a *App) ToggleHelp() {
	a.showHelp = !a.showHelp
}

func (a *App) ToggleFullscreen() {
	a.fullscreen.Toggle()
}

func (a *App) SendIntent(intent lightbox.Intent) bool {
	return a.router.Dispatch(intent)
}

func (a *App) JumpTo(index int) {
	if err := a.page().ctrl.GoTo(index); err != nil {
		debugLog("Jump to %d ignored: %v", index, err)
	}
}

func (a *App) Swipe(g lightbox.Gesture) {
	a.page().ctrl.Swipe(g)
}

// Tap routes a click or touch that did not turn into a swipe
func (a *App) Tap(x, y int) {
	p := a.page()
	fx, fy := float64(x), float64(y)

	if !p.ctrl.IsOpen() {
		if i := a.grid().indexAt(fx, fy, p.scroll, p.ctrl.Len()); i >= 0 {
			a.openAt(i)
		}
		return
	}

	view := p.ctrl.View()
	l := computeSurfaceLayout(a.screenW, a.screenH, view.Total)
	target, dot := l.hitTest(fx, fy, displayedImageRect(a, l))
	switch target {
	case targetClose:
		p.ctrl.Close()
	case targetSlideshow:
		if err := p.ctrl.ToggleSlideshow(); err != nil {
			log.Printf("Warning: Slideshow toggle failed: %v", err)
		}
	case targetPrevious:
		p.ctrl.Previous()
	case targetNext:
		p.ctrl.Next()
	case targetDot:
		if err := p.ctrl.GoTo(dot); err != nil {
			log.Printf("Warning: Jump to %d failed: %v", dot+1, err)
		}
	case targetImage:
		p.ctrl.ImageClicked()
	default:
		p.ctrl.BackdropClicked()
	}
}

func (a *App) openAt(index int) {
	err := a.page().open(index)
	switch {
	case err == nil:
	case errors.Is(err, lightbox.ErrEmptyCatalog):
		a.ShowOverlayMessage("Gallery is empty")
	case errors.Is(err, lightbox.ErrBusy):
		a.ShowOverlayMessage("Another lightbox is open")
	default:
		log.Printf("Error: Failed to open lightbox at %d: %v", index, err)
	}
}

func (a *App) OpenSelected() {
	a.openAt(a.page().selected)
}

func (a *App) MoveSelection(dx, dy int) {
	a.page().moveSelection(dx, dy, a.grid())
}

func (a *App) SelectIndex(index int) {
	a.page().selectIndex(index, a.grid())
}

func (a *App) ScrollGrid(delta float64) {
	a.page().scrollBy(delta, a.grid())
}

func (a *App) NextGallery() {
	a.switchGallery(1)
}

func (a *App) PreviousGallery() {
	a.switchGallery(-1)
}

func (a *App) switchGallery(step int) {
	if len(a.pages) < 2 || a.lock.Locked() {
		return
	}
	if step > 0 {
		a.current = lightbox.Next(a.current, len(a.pages))
	} else {
		a.current = lightbox.Previous(a.current, len(a.pages))
	}
	a.ShowOverlayMessage(a.page().name)
}

func (a *App) CycleSortMethod() {
	if a.lock.Locked() {
		return
	}
	strategies := catalog.GetAllSortStrategies()
	next := strategies[0]
	for i, s := range strategies {
		if s.ID() == a.sortMethod {
			next = strategies[(i+1)%len(strategies)]
			break
		}
	}

	for _, p := range a.pages {
		if err := p.resort(a.build, next.ID()); err != nil {
			log.Printf("Error: Failed to sort gallery %q: %v", p.name, err)
			return
		}
	}
	a.sortMethod = next.ID()
	a.page().selectIndex(a.page().selected, a.grid())
	a.ShowOverlayMessage("Sort: " + next.Name())
}

func (a *App) ShowOverlayMessage(message string) {
	a.overlayMessage = message
	a.overlayMessageTime = time.Now()
}

func (a *App) GetTotalCount() int {
	return a.page().ctrl.Len()
}
