package main

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Common colors used in rendering
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorGray      = color.RGBA{180, 180, 180, 255}
	colorDimGray   = color.RGBA{90, 90, 90, 255}
	colorYellow    = color.RGBA{255, 255, 100, 255}
	colorCyan      = color.RGBA{100, 255, 255, 255}
	colorLightBlue = color.RGBA{200, 200, 255, 255}
	colorGreen     = color.RGBA{100, 255, 100, 255}
	colorOrange    = color.RGBA{255, 200, 100, 255}
	colorLightRed  = color.RGBA{255, 150, 150, 255}
	colorCell      = color.RGBA{40, 40, 46, 255}
	colorPage      = color.RGBA{24, 24, 28, 255}

	// Background colors for semi-transparent overlays
	bgColorLight  = color.RGBA{0, 0, 0, 128}
	bgColorMedium = color.RGBA{0, 0, 0, 160}
	bgColorDark   = color.RGBA{0, 0, 0, 200}
	bgBackdrop    = color.RGBA{0, 0, 0, 230}
)

const (
	helpPadding     = 40.0
	helpMinFontSize = 12.0
	helpMaxWarnings = 2
)

// Renderer handles all drawing operations
type Renderer struct {
	renderState RenderState
	frame       int
}

// NewRenderer creates a new Renderer
func NewRenderer(renderState RenderState) *Renderer {
	return &Renderer{renderState: renderState}
}

// Draw renders the entire screen
func (r *Renderer) Draw(screen *ebiten.Image) {
	// Clear the screen since SetScreenClearedEveryFrame(false) is enabled
	screen.Clear()
	r.frame++

	r.drawGrid(screen)

	// The surface is drawn over the page it belongs to
	if view := r.renderState.GetLightboxView(); view.Open {
		r.drawSurface(screen)
	}

	if r.renderState.IsShowingHelp() {
		r.drawHelpOverlay(screen)
	}

	if r.renderState.GetOverlayMessage() != "" && time.Since(r.renderState.GetOverlayMessageTime()) < overlayMessageDuration {
		r.drawOverlayMessage(screen)
	}
}

func (r *Renderer) font() *text.GoTextFace {
	return newFace(r.renderState.GetFontSize())
}

// drawGrid draws the gallery page: header with the gallery tabs, then the
// thumbnail grid at the current scroll offset.
func (r *Renderer) drawGrid(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	DrawFilledRect(screen, 0, 0, float64(w), float64(h), colorPage)

	items := r.renderState.GetItems()
	grid := computeGridLayout(w, h, r.renderState.GetColumns())
	scroll := r.renderState.GetScrollOffset()
	selected := r.renderState.GetSelectedIndex()

	for i := range items {
		cell := grid.cellRect(i, scroll)
		if cell.Y+cell.H < gridHeader || cell.Y > float64(h) {
			continue
		}
		DrawFilledRect(screen, cell.X, cell.Y, cell.W, cell.H, colorCell)

		thumb, err := r.renderState.GetThumbnail(i)
		switch {
		case thumb != nil:
			drawImageFitted(screen, thumb, cell, true)
		case err != nil:
			DrawTextCentered(screen, "×", newFace(cell.H/3), cell.X+cell.W/2, cell.Y+cell.H/3, colorLightRed)
		}

		if i == selected {
			DrawStrokeRect(screen, cell, 3, colorYellow)
		}
	}

	// Header last so thumbnails scrolled under it are hidden
	DrawFilledRect(screen, 0, 0, float64(w), gridHeader, bgColorDark)
	current, total := r.renderState.GetGalleryIndex()
	title := r.renderState.GetGalleryName()
	if total > 1 {
		title = fmt.Sprintf("%s  [%d/%d]", title, current+1, total)
	}
	font := r.font()
	DrawText(screen, title, font, gridPadding, gridHeader/2-font.Size/2, colorWhite)

	count := fmt.Sprintf("%d images", len(items))
	cw, _ := text.Measure(count, font, 0)
	DrawText(screen, count, font, float64(w)-cw-gridPadding, gridHeader/2-font.Size/2, colorGray)

	if len(items) == 0 {
		DrawTextCentered(screen, "No images in this gallery", font, float64(w)/2, float64(h)/2, colorGray)
	}
}

// drawImageFitted draws img scaled into area, centered, and returns where it landed
func drawImageFitted(screen, img *ebiten.Image, area rect, upscale bool) rect {
	dst, scale := fitRect(img.Bounds().Dx(), img.Bounds().Dy(), area, upscale)
	if scale == 0 {
		return rect{}
	}
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(dst.X, dst.Y)
	screen.DrawImage(img, op)
	return dst
}

// displayedImageRect is where the current full image is drawn, or a zero rect
// when there is nothing on screen yet.
func displayedImageRect(rs RenderState, l surfaceLayout) rect {
	view := rs.GetLightboxView()
	if !view.Open || view.Loading || view.Failed {
		return rect{}
	}
	img, _ := rs.GetFullImage(view.URL)
	if img == nil {
		return rect{}
	}
	dst, _ := fitRect(img.Bounds().Dx(), img.Bounds().Dy(), l.ImageArea, rs.IsFullscreen())
	return dst
}

// drawSurface draws the open lightbox: backdrop, image or its placeholder,
// navigation controls, counter, caption and position dots.
func (r *Renderer) drawSurface(screen *ebiten.Image) {
	view := r.renderState.GetLightboxView()
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	l := computeSurfaceLayout(w, h, view.Total)

	DrawFilledRect(screen, 0, 0, float64(w), float64(h), bgBackdrop)

	img, err := r.renderState.GetFullImage(view.URL)
	switch {
	case view.Loading:
		cx, cy := l.ImageArea.center()
		drawSpinner(screen, cx, cy, r.frame)
	case view.Failed:
		msg := "timed out"
		if err != nil {
			msg = err.Error()
		}
		drawBrokenImage(screen, l.ImageArea, view.Item.Locator, msg)
	case img != nil:
		drawImageFitted(screen, img, l.ImageArea, r.renderState.IsFullscreen())
	}

	font := r.font()

	if view.Total > 1 {
		r.drawArrow(screen, l.Previous, "‹", font)
		r.drawArrow(screen, l.Next, "›", font)

		play := "▶"
		if view.Slideshow {
			play = "❚❚"
		}
		r.drawButton(screen, l.Slideshow, play, font, view.Slideshow)
	}
	r.drawButton(screen, l.Close, "×", font, false)

	DrawText(screen, view.Counter(), font, l.Counter.X, l.Counter.Y+l.Counter.H/2-font.Size/2, colorWhite)

	caption := view.Item.Title
	if caption == "" {
		caption = view.Item.Locator
	}
	maxChars := int(l.Caption.W / (font.Size * 0.55))
	if maxChars > 3 {
		caption = truncate(caption, maxChars)
	}
	cx, _ := l.Caption.center()
	DrawTextCentered(screen, caption, font, cx, l.Caption.Y, colorGray)

	for i, d := range l.Dots {
		dx, dy := d.center()
		c := colorDimGray
		if i == view.Index {
			c = colorWhite
		}
		DrawFilledCircle(screen, dx, dy, dotRadius, c)
	}
}

func (r *Renderer) drawButton(screen *ebiten.Image, b rect, label string, font *text.GoTextFace, active bool) {
	bg := bgColorMedium
	if active {
		bg = color.RGBA{60, 110, 60, 200}
	}
	DrawFilledRect(screen, b.X, b.Y, b.W, b.H, bg)
	cx, cy := b.center()
	DrawTextCentered(screen, label, font, cx, cy-font.Size/2, colorWhite)
}

func (r *Renderer) drawArrow(screen *ebiten.Image, b rect, label string, font *text.GoTextFace) {
	cx, cy := b.center()
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(b.W/2), bgColorMedium, true)
	big := newFace(font.Size * 2)
	DrawTextCentered(screen, label, big, cx, cy-big.Size*0.6, colorWhite)
}

// helpRow is one line of the bindings table
type helpRow struct {
	action      string
	keys        string
	mouse       string
	description string
}

func (row helpRow) input() string {
	switch {
	case row.keys != "" && row.mouse != "":
		return row.keys + " | " + row.mouse
	case row.keys != "":
		return row.keys
	default:
		return row.mouse
	}
}

// helpRows returns every bound action, sorted by name
func (r *Renderer) helpRows() []helpRow {
	keybindings := r.renderState.GetKeybindings()
	mousebindings := r.renderState.GetMousebindings()
	descriptions := GetActionDescriptions()

	actionSet := make(map[string]bool)
	for action := range keybindings {
		actionSet[action] = true
	}
	for action := range mousebindings {
		actionSet[action] = true
	}

	rows := make([]helpRow, 0, len(actionSet))
	for action := range actionSet {
		keys, mouse := keybindings[action], mousebindings[action]
		if len(keys) == 0 && len(mouse) == 0 {
			continue
		}
		desc := descriptions[action]
		if desc == "" {
			desc = "No description available"
		}
		rows = append(rows, helpRow{
			action:      action,
			keys:        strings.Join(keys, ", "),
			mouse:       strings.Join(mouse, ", "),
			description: desc,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].action < rows[j].action })
	return rows
}

func (r *Renderer) helpWarnings() []string {
	warnings := r.renderState.GetConfigStatus().Warnings
	if len(warnings) > helpMaxWarnings {
		warnings = warnings[:helpMaxWarnings]
	}
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = "• " + truncate(w, 50)
	}
	return out
}

// helpColumns holds the measured column widths of the bindings table
type helpColumns struct {
	action, input, description float64
}

func measureHelpColumns(rows []helpRow, font *text.GoTextFace) helpColumns {
	var cols helpColumns
	for _, row := range rows {
		if w, _ := text.Measure(row.action, font, 0); w > cols.action {
			cols.action = w
		}
		if w, _ := text.Measure(row.input(), font, 0); w > cols.input {
			cols.input = w
		}
		if w, _ := text.Measure(row.description, font, 0); w > cols.description {
			cols.description = w
		}
	}
	return cols
}

// helpSize returns the space the help overlay needs at fontSize
func (r *Renderer) helpSize(fontSize float64, rows []helpRow, warnings []string, status string) (float64, float64) {
	font := newFace(fontSize)
	lineHeight := fontSize * 1.5

	height := helpPadding*2 + fontSize*2 + lineHeight*1.5
	height += float64(len(rows)) * lineHeight
	height += lineHeight * 3 // spacing, "System:", status
	height += float64(len(warnings)) * lineHeight

	cols := measureHelpColumns(rows, font)
	width := 40 + cols.action + 20 + 30 + 20 + cols.input + 20 + cols.description + helpPadding

	lines := append([]string{"HELP:", "Controls (Keyboard | Mouse):", "System:", "Config Status: " + status}, warnings...)
	for i, line := range lines {
		indent := 40.0
		if i >= 3 {
			indent = 80
		}
		if lw, _ := text.Measure(line, font, 0); lw+helpPadding*2+indent > width {
			width = lw + helpPadding*2 + indent
		}
	}
	return width, height
}

// helpFontSize finds the largest font size at which the help fits
func (r *Renderer) helpFontSize(availableWidth, availableHeight float64, rows []helpRow, warnings []string, status string) (float64, bool) {
	fits := func(size float64) bool {
		w, h := r.helpSize(size, rows, warnings, status)
		return w <= availableWidth && h <= availableHeight
	}

	maxSize := r.renderState.GetFontSize()
	if !fits(helpMinFontSize) {
		return helpMinFontSize, false
	}
	if fits(maxSize) {
		return maxSize, true
	}

	low, high := helpMinFontSize, maxSize
	for high-low > 0.5 {
		mid := (low + high) / 2
		if fits(mid) {
			low = mid
		} else {
			high = mid
		}
	}
	return low, true
}

func (r *Renderer) drawHelpOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())

	rows := r.helpRows()
	warnings := r.helpWarnings()
	status := r.renderState.GetConfigStatus().Status

	fontSize, ok := r.helpFontSize(w-helpPadding*2, h-helpPadding*2, rows, warnings, status)
	if !ok {
		r.drawMarginTooSmallMessage(screen)
		return
	}

	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)
	DrawFilledRect(screen, helpPadding, helpPadding, w-helpPadding*2, h-helpPadding*2, bgColorMedium)

	font := newFace(fontSize)
	lineHeight := fontSize * 1.5
	left := helpPadding + 20

	y := helpPadding + 30
	DrawText(screen, "HELP:", font, left, y, colorWhite)
	y += fontSize * 2
	DrawText(screen, "Controls (Keyboard | Mouse):", font, left, y, colorWhite)
	y += lineHeight * 1.5

	cols := measureHelpColumns(rows, font)
	actionX := helpPadding + 40
	arrowX := actionX + cols.action + 20
	inputX := arrowX + 30
	descX := inputX + cols.input + 20

	for _, row := range rows {
		DrawText(screen, row.action, font, actionX, y, colorLightBlue)
		DrawText(screen, "→", font, arrowX, y, colorWhite)

		// Keyboard in yellow, mouse in cyan
		x := inputX
		if row.keys != "" {
			DrawText(screen, row.keys, font, x, y, colorYellow)
			kw, _ := text.Measure(row.keys, font, 0)
			x += kw
		}
		if row.keys != "" && row.mouse != "" {
			DrawText(screen, " | ", font, x, y, colorWhite)
			sw, _ := text.Measure(" | ", font, 0)
			x += sw
		}
		if row.mouse != "" {
			DrawText(screen, row.mouse, font, x, y, colorCyan)
		}

		DrawText(screen, row.description, font, descX, y, colorGray)
		y += lineHeight
	}

	y += lineHeight
	DrawText(screen, "System:", font, left, y, colorWhite)
	y += lineHeight

	statusColor := colorGreen
	if status == "Warning" || status == "Error" {
		statusColor = colorOrange
	}
	DrawText(screen, "Config Status: "+status, font, helpPadding+40, y, statusColor)
	y += lineHeight

	for _, warning := range warnings {
		DrawText(screen, warning, font, helpPadding+40, y, colorLightRed)
		y += lineHeight
	}
}

// drawMarginTooSmallMessage displays Fermat's margin joke when help cannot fit
func (r *Renderer) drawMarginTooSmallMessage(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)

	font := newFace(16)
	message := "Hanc marginis exiguitas non caperet."
	subtitle := "(This margin is too small to contain it.)"

	_, mh := text.Measure(message, font, 0)
	y := h/2 - mh/2
	DrawTextCentered(screen, message, font, w/2, y, colorWhite)
	DrawTextCentered(screen, subtitle, font, w/2, y+mh+10, colorGray)
}

func (r *Renderer) drawOverlayMessage(screen *ebiten.Image) {
	font := r.font()
	message := r.renderState.GetOverlayMessage()

	tw, th := text.Measure(message, font, 0)
	padding := 20.0
	boxW, boxH := tw+padding*2, th+padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxW) / 2
	boxY := (float64(screen.Bounds().Dy()) - boxH) / 2

	DrawFilledRect(screen, boxX, boxY, boxW, boxH, bgColorDark)
	DrawText(screen, message, font, boxX+padding, boxY+padding, colorWhite)
}
