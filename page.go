package main

import (
	"math"

	"lightbox/internal/catalog"
	"lightbox/internal/lightbox"
)

// controllerFactory builds the lightbox for a page's current item order
type controllerFactory func(items []catalog.Item) (*lightbox.Controller, error)

// page is one gallery: its thumbnail grid and the lightbox that opens over it.
// Every page has its own controller; they share the scroll lock, so only one
// lightbox can be open at a time.
type page struct {
	name     string
	source   []catalog.Item // order as loaded
	sortable bool           // scanned galleries; catalog files keep their order
	ctrl     *lightbox.Controller
	lock     *lightbox.ScrollLock
	selected int
	scroll   float64
	wasOpen  bool
}

func newPage(g catalog.Gallery, lock *lightbox.ScrollLock, build controllerFactory, sortable bool) (*page, error) {
	ctrl, err := build(g.Items)
	if err != nil {
		return nil, err
	}
	return &page{name: g.Name, source: g.Items, sortable: sortable, ctrl: ctrl, lock: lock}, nil
}

func (p *page) items() []catalog.Item {
	return p.ctrl.Items()
}

// resort rebuilds the controller over the items in a new order. The lightbox
// must be closed; an open session is tied to the old order.
func (p *page) resort(build controllerFactory, sortMethod int) error {
	if !p.sortable {
		return nil
	}
	if p.ctrl.IsOpen() {
		return lightbox.ErrBusy
	}
	items := catalog.GetSortStrategy(sortMethod).Sort(p.source)
	ctrl, err := build(items)
	if err != nil {
		return err
	}

	// Keep the same image selected across the reorder
	var selectedID string
	if p.selected < p.ctrl.Len() {
		selectedID = p.ctrl.Items()[p.selected].ID
	}
	p.ctrl = ctrl
	p.selected = 0
	for i, it := range items {
		if it.ID == selectedID {
			p.selected = i
			break
		}
	}
	return nil
}

// scrollBy moves the grid. It does nothing while any lightbox holds the
// scroll lock.
func (p *page) scrollBy(delta float64, grid gridLayout) bool {
	if p.lock.Locked() {
		return false
	}
	next := math.Max(0, math.Min(p.scroll+delta, grid.maxScroll(p.ctrl.Len())))
	if next == p.scroll {
		return false
	}
	p.scroll = next
	return true
}

// moveSelection moves the grid cursor by columns and rows without wrapping
func (p *page) moveSelection(dx, dy int, grid gridLayout) {
	n := p.ctrl.Len()
	if n == 0 {
		return
	}
	target := p.selected + dx + dy*grid.Columns
	if target < 0 || target >= n {
		// Rows move only when the whole step fits
		if dy != 0 {
			return
		}
		target = max(0, min(target, n-1))
	}
	p.selectIndex(target, grid)
}

func (p *page) selectIndex(i int, grid gridLayout) {
	n := p.ctrl.Len()
	if i < 0 || i >= n {
		return
	}
	p.selected = i
	if !p.lock.Locked() {
		p.scroll = grid.scrollToShow(i, p.scroll, n)
	}
}

// open shows the lightbox at i and moves the grid cursor there
func (p *page) open(i int) error {
	if err := p.ctrl.Open(i); err != nil {
		return err
	}
	p.selected = i
	return nil
}

// syncSelection follows the lightbox position so the grid shows where the
// user ended up. The grid only scrolls to it once the lightbox has closed.
func (p *page) syncSelection(grid gridLayout) {
	open := p.ctrl.IsOpen()
	if i, ok := p.ctrl.Current(); ok {
		p.selected = i
	}
	if p.wasOpen && !open && !p.lock.Locked() {
		p.scroll = grid.scrollToShow(p.selected, p.scroll, p.ctrl.Len())
	}
	p.wasOpen = open
}
