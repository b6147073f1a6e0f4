package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"lightbox/internal/catalog"
	"lightbox/internal/lightbox"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second
)

// RenderState provides read-only access to application state for the renderer
type RenderState interface {
	// Current page
	GetGalleryName() string
	GetGalleryIndex() (current, total int)
	GetItems() []catalog.Item
	GetSelectedIndex() int
	GetScrollOffset() float64
	GetColumns() int

	// Lightbox surface
	GetLightboxView() lightbox.View
	IsFullscreen() bool

	// Textures
	GetThumbnail(index int) (*ebiten.Image, error)
	GetFullImage(url string) (*ebiten.Image, error)

	// UI state
	IsShowingHelp() bool
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time
	GetFontSize() float64
	GetConfigStatus() ConfigLoadResult
	GetKeybindings() map[string][]string
	GetMousebindings() map[string][]string
}

// InputActions provides action methods for the input handler
type InputActions interface {
	// Application control
	Exit()
	ToggleHelp()
	ToggleFullscreen()

	// Lightbox, routed through the window-level intent listeners
	SendIntent(intent lightbox.Intent) bool
	JumpTo(index int)
	Swipe(g lightbox.Gesture)
	Tap(x, y int)

	// Gallery page
	OpenSelected()
	MoveSelection(dx, dy int)
	SelectIndex(index int)
	ScrollGrid(delta float64)
	NextGallery()
	PreviousGallery()
	CycleSortMethod()

	// Messages
	ShowOverlayMessage(message string)

	GetTotalCount() int
}

// InputState provides read-only access to input-related state
type InputState interface {
	IsLightboxOpen() bool
	IsShowingHelp() bool
}
