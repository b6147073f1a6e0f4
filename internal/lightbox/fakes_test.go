package lightbox

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lightbox/internal/catalog"
	"lightbox/internal/resolver"
)

type pendingLoad struct {
	url  string
	done func(error)
}

// fakeLoader keeps load callbacks until the test resolves them.
type fakeLoader struct {
	pending []pendingLoad
}

func (l *fakeLoader) Load(url string, done func(error)) {
	l.pending = append(l.pending, pendingLoad{url: url, done: done})
}

func (l *fakeLoader) last() pendingLoad {
	return l.pending[len(l.pending)-1]
}

// fakeWarmer counts warm requests per URL.
type fakeWarmer struct {
	calls map[string]int
}

func newFakeWarmer() *fakeWarmer {
	return &fakeWarmer{calls: make(map[string]int)}
}

func (w *fakeWarmer) Warm(url string) {
	w.calls[url]++
}

func (w *fakeWarmer) total() int {
	n := 0
	for _, c := range w.calls {
		n += c
	}
	return n
}

// fakeFullscreen notifies subscribers synchronously, like a platform that
// reports changes immediately.
type fakeFullscreen struct {
	active     bool
	requestErr error
	requests   int
	exits      int
	subs       map[int]func(bool)
	nextID     int
}

func newFakeFullscreen() *fakeFullscreen {
	return &fakeFullscreen{subs: make(map[int]func(bool))}
}

func (f *fakeFullscreen) Request() error {
	f.requests++
	if f.requestErr != nil {
		return f.requestErr
	}
	f.set(true)
	return nil
}

func (f *fakeFullscreen) Exit() {
	f.exits++
	f.set(false)
}

func (f *fakeFullscreen) Active() bool { return f.active }

func (f *fakeFullscreen) Subscribe(fn func(bool)) func() {
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	return func() { delete(f.subs, id) }
}

// exitExternally simulates the platform's own exit affordance.
func (f *fakeFullscreen) exitExternally() {
	f.set(false)
}

func (f *fakeFullscreen) set(active bool) {
	if f.active == active {
		return
	}
	f.active = active
	for _, fn := range f.subs {
		fn(active)
	}
}

// fakeInput records listeners the way a window would.
type fakeInput struct {
	listeners map[int]func(Intent) bool
	nextID    int
}

func newFakeInput() *fakeInput {
	return &fakeInput{listeners: make(map[int]func(Intent) bool)}
}

func (in *fakeInput) Listen(fn func(Intent) bool) func() {
	id := in.nextID
	in.nextID++
	in.listeners[id] = fn
	return func() { delete(in.listeners, id) }
}

func (in *fakeInput) send(i Intent) bool {
	handled := false
	for _, fn := range in.listeners {
		handled = fn(i) || handled
	}
	return handled
}

func testItems(names ...string) []catalog.Item {
	items := make([]catalog.Item, 0, len(names))
	for _, n := range names {
		items = append(items, catalog.Item{ID: n, Locator: "img/" + n + ".jpg", Title: n})
	}
	return items
}

var testResolver = resolver.Func(func(locator string, purpose resolver.Purpose) string {
	return fmt.Sprintf("https://cdn.test/%s?p=%s", locator, purpose)
})

type harness struct {
	ctrl   *Controller
	sched  *LoopScheduler
	loader *fakeLoader
	warmer *fakeWarmer
	fs     *fakeFullscreen
	input  *fakeInput
	lock   *ScrollLock
}

func newHarness(t *testing.T, items []catalog.Item, mutate ...func(*Options)) *harness {
	t.Helper()

	h := &harness{
		sched:  NewLoopScheduler(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		loader: &fakeLoader{},
		warmer: newFakeWarmer(),
		fs:     newFakeFullscreen(),
		input:  newFakeInput(),
		lock:   &ScrollLock{},
	}
	opts := DefaultOptions()
	for _, m := range mutate {
		m(&opts)
	}

	ctrl, err := New(items, Deps{
		Resolver:   testResolver,
		Loader:     h.loader,
		Warmer:     h.warmer,
		Scheduler:  h.sched,
		ScrollLock: h.lock,
		Fullscreen: h.fs,
		Input:      h.input,
	}, opts)
	require.NoError(t, err)
	h.ctrl = ctrl
	return h
}

// checkInvariants asserts the structural invariants of ViewerState.
func checkInvariants(t *testing.T, c *Controller) {
	t.Helper()
	s := c.State()
	idx, hasIndex := s.Index()
	require.Equal(t, s.IsOpen, hasIndex, "isOpen must equal currentIndex != none")
	cur, ok := c.Current()
	require.Equal(t, hasIndex, ok)
	require.Equal(t, idx, cur)
	if s.IsSlideshowActive {
		require.True(t, s.IsOpen, "slideshow implies open")
	}
	if s.IsOpen {
		require.GreaterOrEqual(t, s.CurrentIndex, 0)
		require.Less(t, s.CurrentIndex, c.Len())
	}
}

var errDecode = errors.New("decode failed")
