package main

import (
	"math"
	"testing"
)

func TestFitRect(t *testing.T) {
	area := rect{X: 0, Y: 0, W: 800, H: 600}

	tests := []struct {
		name          string
		iw, ih        int
		upscale       bool
		expected      rect
		expectedScale float64
	}{
		{"Wide image scales down", 1600, 600, false, rect{X: 0, Y: 150, W: 800, H: 300}, 0.5},
		{"Tall image scales down", 600, 1200, false, rect{X: 250, Y: 0, W: 300, H: 600}, 0.5},
		{"Small image stays", 200, 100, false, rect{X: 300, Y: 250, W: 200, H: 100}, 1},
		{"Small image upscaled", 200, 100, true, rect{X: 0, Y: 100, W: 800, H: 400}, 4},
		{"Empty image", 0, 100, false, rect{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, scale := fitRect(tt.iw, tt.ih, area, tt.upscale)
			if got != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, got)
			}
			if scale != tt.expectedScale {
				t.Errorf("Expected scale %.2f, got %.2f", tt.expectedScale, scale)
			}
		})
	}
}

func TestSurfaceHitTest(t *testing.T) {
	l := computeSurfaceLayout(1280, 800, 3)
	image := rect{X: 300, Y: 100, W: 600, H: 500}

	tests := []struct {
		name     string
		x, y     float64
		target   surfaceTarget
		dotIndex int
	}{
		{"Close button", 1250, 20, targetClose, 0},
		{"Slideshow button", 1200, 20, targetSlideshow, 0},
		{"Previous arrow", 30, 400, targetPrevious, 0},
		{"Next arrow", 1250, 400, targetNext, 0},
		{"Image", 600, 300, targetImage, 0},
		{"Backdrop beside image", 200, 300, targetBackdrop, 0},
		{"Backdrop in the top bar", 640, 20, targetBackdrop, 0},
		{"First dot", 640 - dotSpacing, 774, targetDot, 0},
		{"Middle dot", 640, 774, targetDot, 1},
		{"Last dot", 640 + dotSpacing, 774, targetDot, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, dot := l.hitTest(tt.x, tt.y, image)
			if target != tt.target {
				t.Errorf("hitTest(%.0f, %.0f) = %d, want %d", tt.x, tt.y, target, tt.target)
			}
			if target == targetDot && dot != tt.dotIndex {
				t.Errorf("Expected dot %d, got %d", tt.dotIndex, dot)
			}
		})
	}
}

func TestSurfaceLayoutSingleImage(t *testing.T) {
	l := computeSurfaceLayout(1280, 800, 1)

	if len(l.Dots) != 0 {
		t.Errorf("Expected no dots for one image, got %d", len(l.Dots))
	}
	// The arrows are gone; their area is backdrop
	if target, _ := l.hitTest(30, 400, rect{}); target != targetBackdrop {
		t.Errorf("Expected backdrop where the previous arrow would be, got %d", target)
	}
	if target, _ := l.hitTest(1250, 20, rect{}); target != targetClose {
		t.Errorf("Expected the close button to remain, got %d", target)
	}
}

func TestSurfaceLayoutTooManyDots(t *testing.T) {
	l := computeSurfaceLayout(640, 480, 200)
	if len(l.Dots) != 0 {
		t.Errorf("Expected dots to be dropped when they do not fit, got %d", len(l.Dots))
	}
}

func TestSurfaceLayoutTinyWindow(t *testing.T) {
	l := computeSurfaceLayout(100, 100, 3)
	if l.ImageArea.W < 0 || l.ImageArea.H < 0 {
		t.Errorf("Image area must not be negative: %+v", l.ImageArea)
	}
}

func TestGridLayout(t *testing.T) {
	g := computeGridLayout(1280, 800, 4)

	// (1280 - 5*16) / 4
	if g.Cell != 300 {
		t.Fatalf("Expected 300px cells, got %.1f", g.Cell)
	}

	tests := []struct {
		name     string
		x, y     float64
		scroll   float64
		expected int
	}{
		{"First cell", 100, 100, 0, 0},
		{"Second cell", 400, 100, 0, 1},
		{"Second row", 100, 400, 0, 4},
		{"Gap between cells", 320, 100, 0, -1},
		{"Header", 100, 30, 0, -1},
		{"Scrolled down one row", 100, 100, 316, 4},
		{"Past the last item", 1000, 400, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.indexAt(tt.x, tt.y, tt.scroll, 7); got != tt.expected {
				t.Errorf("indexAt(%.0f, %.0f, %.0f) = %d, want %d", tt.x, tt.y, tt.scroll, got, tt.expected)
			}
		})
	}
}

func TestGridMaxScroll(t *testing.T) {
	g := computeGridLayout(1280, 800, 4)

	if got := g.maxScroll(4); got != 0 {
		t.Errorf("One row fits without scrolling, got %.1f", got)
	}
	// 3 rows: 56 + 16 + 3*316 = 1020
	if got := g.maxScroll(12); got != 220 {
		t.Errorf("Expected max scroll 220, got %.1f", got)
	}
}

func TestGridScrollToShow(t *testing.T) {
	g := computeGridLayout(1280, 800, 4)

	tests := []struct {
		name     string
		index    int
		scroll   float64
		expected float64
	}{
		{"Visible stays put", 0, 0, 0},
		{"Below the fold scrolls down", 8, 0, 220},
		{"Above the view scrolls up", 0, 220, 0},
		{"Second row from the bottom", 4, 220, 220},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.scrollToShow(tt.index, tt.scroll, 12)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("scrollToShow(%d, %.0f) = %.1f, want %.1f", tt.index, tt.scroll, got, tt.expected)
			}
		})
	}
}

func TestGridVisibleCells(t *testing.T) {
	tests := []struct {
		name     string
		w, h     int
		columns  int
		expected int
	}{
		// 744px of grid over 316px rows: three rows plus one cut in half
		{"Default window", 1280, 800, 4, 16},
		{"Fullscreen with many columns", 1920, 1080, 12, 96},
		{"Minimum window", 400, 300, 4, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeGridLayout(tt.w, tt.h, tt.columns).visibleCells(); got != tt.expected {
				t.Errorf("visibleCells() = %d, want %d", got, tt.expected)
			}
		})
	}
}
