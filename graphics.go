package main

import (
	"bytes"
	"image/color"
	"math"
	"path"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// Global font source shared by every overlay
var globalFontSource *text.GoTextFaceSource

// InitGraphics initializes the global font source for text rendering
func InitGraphics() error {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return err
	}
	globalFontSource = s
	return nil
}

func newFace(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: globalFontSource, Size: size}
}

// DrawText draws text with specified position and color
func DrawText(screen *ebiten.Image, textString string, font *text.GoTextFace, x, y float64, textColor color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, textString, font, op)
}

// DrawTextCentered draws text centered on (cx, y)
func DrawTextCentered(screen *ebiten.Image, textString string, font *text.GoTextFace, cx, y float64, textColor color.RGBA) {
	w, _ := text.Measure(textString, font, 0)
	DrawText(screen, textString, font, cx-w/2, y, textColor)
}

// DrawFilledRect draws filled rectangles with float64 coordinates
func DrawFilledRect(screen *ebiten.Image, x, y, w, h float64, bgColor color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bgColor, false)
}

// DrawStrokeRect outlines a rectangle
func DrawStrokeRect(screen *ebiten.Image, r rect, width float64, c color.RGBA) {
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), float32(width), c, false)
}

// DrawFilledCircle draws a filled circle
func DrawFilledCircle(screen *ebiten.Image, cx, cy, radius float64, c color.RGBA) {
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(radius), c, true)
}

// drawSpinner draws the loading indicator: a ring of dots with one bright
// head that rotates with the frame counter.
func drawSpinner(screen *ebiten.Image, cx, cy float64, frame int) {
	const dots = 12
	const radius = 22.0
	head := (frame / 5) % dots
	for i := 0; i < dots; i++ {
		angle := 2 * math.Pi * float64(i) / dots
		x := cx + radius*math.Cos(angle)
		y := cy + radius*math.Sin(angle)
		fade := (i - head + dots) % dots
		alpha := uint8(255 - fade*18)
		DrawFilledCircle(screen, x, y, 3.5, color.RGBA{alpha, alpha, alpha, alpha})
	}
}

// drawBrokenImage draws the placeholder for an image that failed to load
func drawBrokenImage(screen *ebiten.Image, area rect, locator, errorMsg string) {
	width, height := 420.0, 160.0
	if area.W < width {
		width = area.W
	}
	if area.H < height {
		height = area.H
	}
	box := rect{X: area.X + (area.W-width)/2, Y: area.Y + (area.H-height)/2, W: width, H: height}

	DrawFilledRect(screen, box.X, box.Y, box.W, box.H, color.RGBA{120, 30, 30, 255})
	DrawStrokeRect(screen, box, 3, colorWhite)

	if globalFontSource == nil {
		return
	}
	font := newFace(18)

	fileText := "File: " + path.Base(locator)
	reasonText := "Reason: " + errorMsg

	// Rough estimate: 9px per character
	maxChars := int(box.W-20) / 9
	if maxChars > 3 {
		fileText = truncate(fileText, maxChars)
		reasonText = truncate(reasonText, maxChars)
	}

	DrawText(screen, "IMAGE UNAVAILABLE", font, box.X+10, box.Y+20, colorWhite)
	DrawText(screen, fileText, font, box.X+10, box.Y+60, colorWhite)
	DrawText(screen, reasonText, font, box.X+10, box.Y+95, colorWhite)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
