package main

import "math"

type rect struct {
	X, Y, W, H float64
}

func (r rect) contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r rect) center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// fitRect scales an iw x ih image into area keeping its aspect ratio and
// centers it. Small images are only scaled up when upscale is set.
func fitRect(iw, ih int, area rect, upscale bool) (rect, float64) {
	if iw <= 0 || ih <= 0 || area.W <= 0 || area.H <= 0 {
		return rect{}, 0
	}
	scale := math.Min(area.W/float64(iw), area.H/float64(ih))
	if scale > 1 && !upscale {
		scale = 1
	}
	w, h := float64(iw)*scale, float64(ih)*scale
	return rect{X: area.X + (area.W-w)/2, Y: area.Y + (area.H-h)/2, W: w, H: h}, scale
}

// Lightbox surface geometry
const (
	surfaceTopBar    = 50.0
	surfaceBottomBar = 80.0
	surfaceSideBar   = 70.0
	dotSpacing       = 18.0
	dotRadius        = 5.0
)

type surfaceTarget int

const (
	targetBackdrop surfaceTarget = iota
	targetImage
	targetPrevious
	targetNext
	targetClose
	targetSlideshow
	targetDot
)

// surfaceLayout places the lightbox controls for a w x h screen
type surfaceLayout struct {
	Screen    rect
	ImageArea rect
	Previous  rect
	Next      rect
	Close     rect
	Slideshow rect
	Counter   rect
	Caption   rect
	Dots      []rect // empty when the catalog has too many entries to show one dot each
}

func computeSurfaceLayout(w, h, total int) surfaceLayout {
	fw, fh := float64(w), float64(h)
	l := surfaceLayout{
		Screen:    rect{W: fw, H: fh},
		ImageArea: rect{X: surfaceSideBar, Y: surfaceTopBar, W: fw - 2*surfaceSideBar, H: fh - surfaceTopBar - surfaceBottomBar},
		Previous:  rect{X: 10, Y: fh/2 - 30, W: 50, H: 60},
		Next:      rect{X: fw - 60, Y: fh/2 - 30, W: 50, H: 60},
		Close:     rect{X: fw - 50, Y: 8, W: 40, H: 34},
		Slideshow: rect{X: fw - 100, Y: 8, W: 40, H: 34},
		Counter:   rect{X: 10, Y: 8, W: 160, H: 34},
		Caption:   rect{X: surfaceSideBar, Y: fh - surfaceBottomBar + 8, W: fw - 2*surfaceSideBar, H: 30},
	}
	if l.ImageArea.W < 0 {
		l.ImageArea.W = 0
	}
	if l.ImageArea.H < 0 {
		l.ImageArea.H = 0
	}
	if total <= 1 {
		// Nowhere to go
		l.Previous, l.Next, l.Slideshow = rect{}, rect{}, rect{}
	}

	// Catalogs are small; give up on dots rather than overflow the row
	rowWidth := float64(total) * dotSpacing
	if total > 1 && rowWidth <= fw-2*surfaceSideBar {
		startX := fw/2 - rowWidth/2 + dotSpacing/2
		y := fh - 26
		for i := 0; i < total; i++ {
			cx := startX + float64(i)*dotSpacing
			// Hit boxes are the full spacing so dots are easy to click
			l.Dots = append(l.Dots, rect{X: cx - dotSpacing/2, Y: y - dotSpacing/2, W: dotSpacing, H: dotSpacing})
		}
	}
	return l
}

// hitTest returns what is under (x, y). image is the on-screen image rect;
// a zero rect means no image is displayed. For targetDot the index is returned.
func (l surfaceLayout) hitTest(x, y float64, image rect) (surfaceTarget, int) {
	switch {
	case l.Close.contains(x, y):
		return targetClose, 0
	case l.Slideshow.contains(x, y):
		return targetSlideshow, 0
	case l.Previous.contains(x, y):
		return targetPrevious, 0
	case l.Next.contains(x, y):
		return targetNext, 0
	}
	for i, d := range l.Dots {
		if d.contains(x, y) {
			return targetDot, i
		}
	}
	if image.contains(x, y) {
		return targetImage, 0
	}
	return targetBackdrop, 0
}

// Gallery page geometry
const (
	gridHeader  = 56.0
	gridPadding = 16.0
)

// gridLayout places thumbnails in columns below the gallery header
type gridLayout struct {
	Width, Height float64
	Columns       int
	Cell          float64
}

func computeGridLayout(w, h, columns int) gridLayout {
	if columns < 1 {
		columns = 1
	}
	cell := (float64(w) - gridPadding*float64(columns+1)) / float64(columns)
	if cell < 1 {
		cell = 1
	}
	return gridLayout{Width: float64(w), Height: float64(h), Columns: columns, Cell: cell}
}

// visibleCells is the most thumbnails one screen can show at any scroll
// offset, counting rows cut off at the top and bottom.
func (g gridLayout) visibleCells() int {
	rows := int(math.Ceil((g.Height-gridHeader)/(g.Cell+gridPadding))) + 1
	if rows < 1 {
		rows = 1
	}
	return rows * g.Columns
}

// cellRect returns the screen rect of thumbnail i at the given scroll offset
func (g gridLayout) cellRect(i int, scroll float64) rect {
	col := i % g.Columns
	row := i / g.Columns
	return rect{
		X: gridPadding + float64(col)*(g.Cell+gridPadding),
		Y: gridHeader + gridPadding + float64(row)*(g.Cell+gridPadding) - scroll,
		W: g.Cell,
		H: g.Cell,
	}
}

// maxScroll is the largest useful scroll offset for n thumbnails
func (g gridLayout) maxScroll(n int) float64 {
	rows := (n + g.Columns - 1) / g.Columns
	content := gridHeader + gridPadding + float64(rows)*(g.Cell+gridPadding)
	return math.Max(0, content-g.Height)
}

// indexAt returns the thumbnail under (x, y), or -1
func (g gridLayout) indexAt(x, y, scroll float64, n int) int {
	if y < gridHeader {
		return -1
	}
	for i := 0; i < n; i++ {
		if g.cellRect(i, scroll).contains(x, y) {
			return i
		}
	}
	return -1
}

// scrollToShow returns a scroll offset that keeps thumbnail i fully visible
func (g gridLayout) scrollToShow(i int, scroll float64, n int) float64 {
	r := g.cellRect(i, 0)
	top := r.Y - gridHeader - gridPadding
	bottom := r.Y + r.H + gridPadding - g.Height
	if scroll > top {
		scroll = top
	}
	if scroll < bottom {
		scroll = bottom
	}
	return math.Max(0, math.Min(scroll, g.maxScroll(n)))
}
