package main

// ActionDefinition defines an action with its default keybindings, mouse bindings, and description
type ActionDefinition struct {
	Name         string
	Keys         []string
	MouseActions []string
	Description  string
}

// actionDefinitions contains all action definitions with default keybindings, mouse bindings, and descriptions.
// Escape is owned by the lightbox; quitting uses Q only.
var actionDefinitions = []ActionDefinition{
	{"exit", []string{"KeyQ"}, []string{}, "Quit application"},
	{"help", []string{"Shift+Slash"}, []string{"Alt+RightClick"}, "Show/hide help"},
	{"escape", []string{"Escape"}, []string{"RightClick"}, "Leave fullscreen, then close the lightbox"},
	{"close", []string{"KeyX"}, []string{}, "Close the lightbox"},
	{"open", []string{"Enter", "NumpadEnter"}, []string{}, "Open the selected thumbnail"},
	{"next", []string{"ArrowRight", "Space", "KeyN"}, []string{"WheelDown", "Forward"}, "Next image (wraps around)"},
	{"previous", []string{"ArrowLeft", "Backspace", "KeyP"}, []string{"WheelUp", "Back"}, "Previous image (wraps around)"},
	{"select_up", []string{"ArrowUp"}, []string{}, "Move the grid selection up"},
	{"select_down", []string{"ArrowDown"}, []string{}, "Move the grid selection down"},
	{"jump_first", []string{"Home"}, []string{}, "First image"},
	{"jump_last", []string{"End"}, []string{}, "Last image"},
	{"toggle_slideshow", []string{"KeyS"}, []string{"MiddleClick"}, "Start/stop the slideshow"},
	{"fullscreen", []string{"KeyF"}, []string{}, "Toggle fullscreen"},
	{"next_gallery", []string{"Tab"}, []string{}, "Next gallery"},
	{"previous_gallery", []string{"Shift+Tab"}, []string{}, "Previous gallery"},
	{"cycle_sort", []string{"Shift+KeyS"}, []string{}, "Cycle sort method of scanned galleries"},
}

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = append([]string(nil), action.Keys...)
	}
	return keybindings
}

// GetDefaultMousebindings returns a map of action names to their default mouse bindings
func GetDefaultMousebindings() map[string][]string {
	mousebindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		mousebindings[action.Name] = append([]string(nil), action.MouseActions...)
	}
	return mousebindings
}

func isKnownAction(name string) bool {
	for _, action := range actionDefinitions {
		if action.Name == name {
			return true
		}
	}
	return false
}

// actionNames returns every action in definition order.
func actionNames() []string {
	names := make([]string, 0, len(actionDefinitions))
	for _, action := range actionDefinitions {
		names = append(names, action.Name)
	}
	return names
}
