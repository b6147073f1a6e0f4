package main

import "lightbox/internal/lightbox"

// ActionExecutor provides centralized action execution logic
// shared by KeybindingManager and MousebindingManager.
//
// The same action means different things on the two surfaces: "next" moves
// the lightbox forward while it is open and moves the grid selection otherwise.
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteAction executes the given action using the InputActions interface.
// It returns false when the action does not apply to the current surface.
func (ae *ActionExecutor) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	switch action {
	case "exit":
		inputActions.Exit()
		return true
	case "help":
		inputActions.ToggleHelp()
		return true
	case "fullscreen":
		inputActions.ToggleFullscreen()
		return true
	}

	if inputState.IsLightboxOpen() {
		return ae.executeLightboxAction(action, inputActions)
	}
	return ae.executeGridAction(action, inputActions, inputState)
}

func (ae *ActionExecutor) executeLightboxAction(action string, inputActions InputActions) bool {
	switch action {
	case "next":
		return inputActions.SendIntent(lightbox.IntentNext)
	case "previous":
		return inputActions.SendIntent(lightbox.IntentPrevious)
	case "escape":
		return inputActions.SendIntent(lightbox.IntentEscape)
	case "close":
		return inputActions.SendIntent(lightbox.IntentClose)
	case "toggle_slideshow":
		return inputActions.SendIntent(lightbox.IntentToggleSlideshow)
	case "jump_first":
		inputActions.JumpTo(0)
	case "jump_last":
		total := inputActions.GetTotalCount()
		if total > 0 {
			inputActions.JumpTo(total - 1)
		}
	default:
		return false
	}
	return true
}

func (ae *ActionExecutor) executeGridAction(action string, inputActions InputActions, inputState InputState) bool {
	switch action {
	case "escape":
		if !inputState.IsShowingHelp() {
			return false
		}
		inputActions.ToggleHelp()
	case "next":
		inputActions.MoveSelection(1, 0)
	case "previous":
		inputActions.MoveSelection(-1, 0)
	case "select_down":
		inputActions.MoveSelection(0, 1)
	case "select_up":
		inputActions.MoveSelection(0, -1)
	case "jump_first":
		inputActions.SelectIndex(0)
	case "jump_last":
		inputActions.SelectIndex(inputActions.GetTotalCount() - 1)
	case "open":
		inputActions.OpenSelected()
	case "next_gallery":
		inputActions.NextGallery()
	case "previous_gallery":
		inputActions.PreviousGallery()
	case "cycle_sort":
		inputActions.CycleSortMethod()
	default:
		return false
	}
	return true
}

// globalActionExecutor is the global instance of ActionExecutor used throughout the application
var globalActionExecutor = NewActionExecutor()
