package main

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	defaultSwipeThreshold  = 50 // pixels
	defaultGridScrollSpeed = 60 // pixels per wheel notch
)

// MouseSettings contains mouse-specific configuration
type MouseSettings struct {
	EnableMouse      bool    `json:"enable_mouse"`
	WheelSensitivity float64 `json:"wheel_sensitivity"`
	WheelInverted    bool    `json:"wheel_inverted"`
	SwipeThreshold   float64 `json:"swipe_threshold"`   // pixels of horizontal travel that make a drag a swipe
	GridScrollSpeed  float64 `json:"grid_scroll_speed"` // pixels per wheel notch on the gallery page
}

// MouseCombination represents a mouse action with optional modifiers
type MouseCombination struct {
	Button      ebiten.MouseButton
	IsWheel     bool
	WheelDeltaX float64
	WheelDeltaY float64
	Shift       bool
	Ctrl        bool
	Alt         bool
}

// mouseState reads buttons and the wheel. Tests replace it.
type mouseState struct {
	justPressed func(ebiten.MouseButton) bool
	wheel       func() (float64, float64)
	keyPressed  func(ebiten.Key) bool
}

var ebitenMouseState = mouseState{
	justPressed: inpututil.IsMouseButtonJustPressed,
	wheel:       ebiten.Wheel,
	keyPressed:  ebiten.IsKeyPressed,
}

// MousebindingManager handles dynamic mouse binding processing.
// Left button clicks are not bindable: they belong to the gesture recognizer,
// which tells taps from swipes.
type MousebindingManager struct {
	mousebindings map[string][]string
	parsed        map[string][]MouseCombination
	settings      MouseSettings
	mouse         mouseState
}

// NewMousebindingManager creates a new MousebindingManager
func NewMousebindingManager(mousebindings map[string][]string, settings MouseSettings) *MousebindingManager {
	mm := &MousebindingManager{settings: settings, mouse: ebitenMouseState}
	mm.UpdateMousebindings(mousebindings)
	return mm
}

// getMouseMapping returns a mapping from string mouse actions to Ebiten mouse buttons
func getMouseMapping() map[string]ebiten.MouseButton {
	return map[string]ebiten.MouseButton{
		"RightClick":  ebiten.MouseButtonRight,
		"MiddleClick": ebiten.MouseButtonMiddle,
		"Back":        ebiten.MouseButton3, // Back button (side button)
		"Forward":     ebiten.MouseButton4, // Forward button (side button)
	}
}

// parseMouseString parses a mouse string like "Alt+RightClick" or "WheelUp" into a MouseCombination
func parseMouseString(mouseStr string) (MouseCombination, error) {
	if mouseStr == "" {
		return MouseCombination{}, fmt.Errorf("empty mouse string")
	}
	parts := strings.Split(mouseStr, "+")
	actionName := parts[len(parts)-1]

	var combination MouseCombination
	switch actionName {
	case "WheelUp":
		combination = MouseCombination{IsWheel: true, WheelDeltaY: 1.0}
	case "WheelDown":
		combination = MouseCombination{IsWheel: true, WheelDeltaY: -1.0}
	case "WheelLeft":
		combination = MouseCombination{IsWheel: true, WheelDeltaX: -1.0}
	case "WheelRight":
		combination = MouseCombination{IsWheel: true, WheelDeltaX: 1.0}
	default:
		button, exists := getMouseMapping()[actionName]
		if !exists {
			return MouseCombination{}, fmt.Errorf("unknown mouse action: %s", actionName)
		}
		combination.Button = button
	}

	for _, modifier := range parts[:len(parts)-1] {
		switch strings.ToLower(modifier) {
		case "shift":
			combination.Shift = true
		case "ctrl":
			combination.Ctrl = true
		case "alt":
			combination.Alt = true
		default:
			return MouseCombination{}, fmt.Errorf("unknown modifier: %s", modifier)
		}
	}

	return combination, nil
}

// validateMousebindings checks the format of every binding and rejects conflicts
func validateMousebindings(mousebindings map[string][]string) error {
	seen := make(map[MouseCombination]string)
	for action, mouseStrings := range mousebindings {
		if !isKnownAction(action) {
			return fmt.Errorf("unknown action '%s'", action)
		}
		for _, mouseStr := range mouseStrings {
			combination, err := parseMouseString(mouseStr)
			if err != nil {
				return fmt.Errorf("invalid mouse binding '%s' for action '%s': %w", mouseStr, action, err)
			}
			if existing, ok := seen[combination]; ok {
				return fmt.Errorf("mouse conflict: '%s' is bound to both '%s' and '%s'", mouseStr, existing, action)
			}
			seen[combination] = action
		}
	}
	return nil
}

// isMouseActionTriggered checks if a mouse combination is currently being triggered
func (mm *MousebindingManager) isMouseActionTriggered(combination MouseCombination) bool {
	if !mm.settings.EnableMouse {
		return false
	}

	if mm.mouse.keyPressed(ebiten.KeyShift) != combination.Shift ||
		mm.mouse.keyPressed(ebiten.KeyControl) != combination.Ctrl ||
		mm.mouse.keyPressed(ebiten.KeyAlt) != combination.Alt {
		return false
	}

	if combination.IsWheel {
		wheelX, wheelY := mm.wheel()
		if combination.WheelDeltaX != 0 {
			return combination.WheelDeltaX*wheelX > 0
		}
		return combination.WheelDeltaY*wheelY > 0
	}

	return mm.mouse.justPressed(combination.Button)
}

// wheel returns this frame's wheel movement after sensitivity and inversion
func (mm *MousebindingManager) wheel() (float64, float64) {
	wheelX, wheelY := mm.mouse.wheel()
	if mm.settings.WheelInverted {
		wheelY = -wheelY
	}
	return wheelX * mm.settings.WheelSensitivity, wheelY * mm.settings.WheelSensitivity
}

// GridScroll returns the gallery page scroll for this frame, in pixels.
// Positive values scroll down.
func (mm *MousebindingManager) GridScroll() float64 {
	if !mm.settings.EnableMouse {
		return 0
	}
	_, wheelY := mm.wheel()
	return -wheelY * mm.settings.GridScrollSpeed
}

// CheckAction checks if any mouse binding for the given action is triggered
func (mm *MousebindingManager) CheckAction(action string) bool {
	return mm.checkAction(action, true)
}

func (mm *MousebindingManager) checkAction(action string, includeWheel bool) bool {
	for _, combination := range mm.parsed[action] {
		if combination.IsWheel && !includeWheel {
			continue
		}
		if mm.isMouseActionTriggered(combination) {
			return true
		}
	}
	return false
}

// ExecuteAction executes the given action using the InputActions interface
func (mm *MousebindingManager) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	if !mm.CheckAction(action) {
		return false
	}

	return globalActionExecutor.ExecuteAction(action, inputActions, inputState)
}

// ExecuteButtonAction is ExecuteAction without wheel bindings. The gallery
// page uses the wheel for scrolling.
func (mm *MousebindingManager) ExecuteButtonAction(action string, inputActions InputActions, inputState InputState) bool {
	if !mm.checkAction(action, false) {
		return false
	}

	return globalActionExecutor.ExecuteAction(action, inputActions, inputState)
}

// GetMousebindings returns the current mouse bindings map (for display purposes)
func (mm *MousebindingManager) GetMousebindings() map[string][]string {
	return mm.mousebindings
}

// UpdateMousebindings replaces the bindings, skipping entries that do not parse
func (mm *MousebindingManager) UpdateMousebindings(mousebindings map[string][]string) {
	mm.mousebindings = mousebindings
	mm.parsed = make(map[string][]MouseCombination, len(mousebindings))
	for action, mouseStrings := range mousebindings {
		for _, mouseStr := range mouseStrings {
			if combination, err := parseMouseString(mouseStr); err == nil {
				mm.parsed[action] = append(mm.parsed[action], combination)
			}
		}
	}
}

// GetSettings returns the current mouse settings
func (mm *MousebindingManager) GetSettings() MouseSettings {
	return mm.settings
}

// GetDefaultMouseSettings returns the default mouse settings
func GetDefaultMouseSettings() MouseSettings {
	return MouseSettings{
		EnableMouse:      true,
		WheelSensitivity: 1.0,
		WheelInverted:    false,
		SwipeThreshold:   defaultSwipeThreshold,
		GridScrollSpeed:  defaultGridScrollSpeed,
	}
}
