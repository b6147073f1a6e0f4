package main

// InputHandler handles keyboard, mouse and pointer gesture input
type InputHandler struct {
	inputActions        InputActions
	inputState          InputState
	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager
	// pointer classifies this frame's pointer input; tests replace it
	pointer func(mouseEnabled bool) pointerResult
}

// NewInputHandler creates a new InputHandler
func NewInputHandler(inputActions InputActions, inputState InputState, keybindingManager *KeybindingManager, mousebindingManager *MousebindingManager, gestures *SwipeRecognizer) *InputHandler {
	return &InputHandler{
		inputActions:        inputActions,
		inputState:          inputState,
		keybindingManager:   keybindingManager,
		mousebindingManager: mousebindingManager,
		pointer:             gestures.Poll,
	}
}

// HandleInput processes all input for the current frame
// Returns true if any input was processed, false otherwise
func (h *InputHandler) HandleInput() bool {
	inputProcessed := false

	inputProcessed = h.handleKeys() || inputProcessed
	inputProcessed = h.handleMouseButtons() || inputProcessed
	inputProcessed = h.handleGridScroll() || inputProcessed
	inputProcessed = h.handlePointer() || inputProcessed

	return inputProcessed
}

func (h *InputHandler) handleKeys() bool {
	inputProcessed := false
	for _, action := range actionNames() {
		// An earlier action may have closed the lightbox or switched pages;
		// later actions see the new surface.
		if h.keybindingManager.ExecuteAction(action, h.inputActions, h.inputState) {
			inputProcessed = true
		}
	}
	return inputProcessed
}

// handleMouseButtons runs mouse bindings. Wheel bindings only apply to the
// lightbox; on the gallery page the wheel scrolls the grid instead.
func (h *InputHandler) handleMouseButtons() bool {
	settings := h.mousebindingManager.GetSettings()
	if !settings.EnableMouse {
		return false
	}

	lightboxOpen := h.inputState.IsLightboxOpen()
	inputProcessed := false
	for _, action := range actionNames() {
		var handled bool
		if lightboxOpen {
			handled = h.mousebindingManager.ExecuteAction(action, h.inputActions, h.inputState)
		} else {
			handled = h.mousebindingManager.ExecuteButtonAction(action, h.inputActions, h.inputState)
		}
		inputProcessed = handled || inputProcessed
	}
	return inputProcessed
}

func (h *InputHandler) handleGridScroll() bool {
	if !h.mousebindingManager.GetSettings().EnableMouse || h.inputState.IsLightboxOpen() {
		return false
	}
	delta := h.mousebindingManager.GridScroll()
	if delta == 0 {
		return false
	}
	h.inputActions.ScrollGrid(delta)
	return true
}

func (h *InputHandler) handlePointer() bool {
	result := h.pointer(h.mousebindingManager.GetSettings().EnableMouse)
	switch result.Kind {
	case pointerSwipe:
		if !h.inputState.IsLightboxOpen() {
			return false
		}
		h.inputActions.Swipe(result.Gesture)
	case pointerTap:
		if h.inputState.IsShowingHelp() {
			h.inputActions.ToggleHelp()
			return true
		}
		h.inputActions.Tap(result.X, result.Y)
	default:
		return false
	}
	return true
}
