package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lightbox/internal/catalog"
	"lightbox/internal/lightbox"
)

// Window size constants
const (
	defaultWidth  = 1280
	defaultHeight = 800
	minWidth      = 400
	minHeight     = 300
)

// Slideshow and loading limits, in milliseconds
const (
	minSlideshowIntervalMs = 1000
	maxSlideshowIntervalMs = 60000
	minLoadingTimeoutMs    = 100
	maxLoadingTimeoutMs    = 10000
)

// getDefaultKeybindings returns the default keybinding configuration
func getDefaultKeybindings() map[string][]string {
	return GetDefaultKeybindings()
}

// validateKeybindings validates the keybindings configuration
func validateKeybindings(keybindings map[string][]string) error {
	keyToAction := make(map[string]string)
	validKeys := getValidKeyNames()

	for action, keys := range keybindings {
		if !isKnownAction(action) {
			return fmt.Errorf("unknown action '%s'", action)
		}
		for _, keyStr := range keys {
			if err := validateKeyString(keyStr, validKeys); err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %w", keyStr, action, err)
			}

			// Modifier order does not matter, so compare the normalized form
			normalized := normalizeKeyString(keyStr)
			if existingAction, exists := keyToAction[normalized]; exists {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[normalized] = action
		}
	}

	return nil
}

// validateKeyString validates a single key string format
func validateKeyString(keyStr string, validKeys map[string]bool) error {
	if keyStr == "" {
		return fmt.Errorf("empty key string")
	}
	parts := strings.Split(keyStr, "+")

	keyName := parts[len(parts)-1]
	if !validKeys[keyName] {
		return fmt.Errorf("unknown key: %s", keyName)
	}

	for _, modifier := range parts[:len(parts)-1] {
		switch strings.ToLower(modifier) {
		case "shift", "ctrl", "alt":
		default:
			return fmt.Errorf("unknown modifier: %s", modifier)
		}
	}

	return nil
}

func normalizeKeyString(keyStr string) string {
	parts := strings.Split(keyStr, "+")
	var shift, ctrl, alt bool
	for _, modifier := range parts[:len(parts)-1] {
		switch strings.ToLower(modifier) {
		case "shift":
			shift = true
		case "ctrl":
			ctrl = true
		case "alt":
			alt = true
		}
	}
	return fmt.Sprintf("%t|%t|%t|%s", shift, ctrl, alt, parts[len(parts)-1])
}

// getValidKeyNames returns a set of valid key names
func getValidKeyNames() map[string]bool {
	valid := make(map[string]bool)
	for name := range getKeyMapping() {
		valid[name] = true
	}
	return valid
}

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

type Config struct {
	WindowWidth  int  `json:"window_width"`
	WindowHeight int  `json:"window_height"`
	Fullscreen   bool `json:"fullscreen"`

	// Lightbox behavior
	SlideshowIntervalMs        int  `json:"slideshow_interval_ms"`
	LoadingTimeoutMs           int  `json:"loading_timeout_ms"`
	EscapeExitsFullscreenFirst bool `json:"escape_exits_fullscreen_first"`
	SlideshowFullscreen        bool `json:"slideshow_fullscreen"`

	// Caching
	PreloadEnabled   bool `json:"preload_enabled"`
	FetchCacheSize   int  `json:"fetch_cache_size"`
	TextureCacheSize int  `json:"texture_cache_size"`

	// Catalog and delivery
	SortMethod int    `json:"sort_method"`
	CDNBaseURL string `json:"cdn_base_url"`
	CDNFormat  string `json:"cdn_format"`
	CDNQuality int    `json:"cdn_quality"`

	// Gallery page and overlays
	ThumbnailColumns int     `json:"thumbnail_columns"`
	HelpFontSize     float64 `json:"help_font_size"`

	Keybindings   map[string][]string `json:"keybindings"`
	Mousebindings map[string][]string `json:"mousebindings"`
	MouseSettings MouseSettings       `json:"mouse_settings"`
}

// SlideshowInterval returns the configured interval as a duration.
func (c Config) SlideshowInterval() time.Duration {
	return time.Duration(c.SlideshowIntervalMs) * time.Millisecond
}

// LoadingTimeout returns the configured loading indicator timeout.
func (c Config) LoadingTimeout() time.Duration {
	return time.Duration(c.LoadingTimeoutMs) * time.Millisecond
}

// LightboxOptions maps the configuration onto controller options.
func (c Config) LightboxOptions() lightbox.Options {
	opts := lightbox.DefaultOptions()
	opts.SlideshowInterval = c.SlideshowInterval()
	opts.LoadingTimeout = c.LoadingTimeout()
	opts.EscapeExitsFullscreenFirst = c.EscapeExitsFullscreenFirst
	return opts
}

func defaultConfig() Config {
	return Config{
		WindowWidth:                defaultWidth,
		WindowHeight:               defaultHeight,
		Fullscreen:                 false,
		SlideshowIntervalMs:        int(lightbox.DefaultSlideshowInterval / time.Millisecond),
		LoadingTimeoutMs:           int(lightbox.DefaultLoadingTimeout / time.Millisecond),
		EscapeExitsFullscreenFirst: true,
		SlideshowFullscreen:        true,
		PreloadEnabled:             true,
		FetchCacheSize:             64,
		TextureCacheSize:           32,
		SortMethod:                 catalog.SortNatural,
		CDNQuality:                 80,
		ThumbnailColumns:           4,
		HelpFontSize:               20.0,
		Keybindings:                getDefaultKeybindings(),
		Mousebindings:              GetDefaultMousebindings(),
		MouseSettings:              GetDefaultMouseSettings(),
	}
}

func getConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "lightbox.json"
	}
	return filepath.Join(homeDir, ".lightbox.json")
}

func loadConfig() ConfigLoadResult {
	return loadConfigFromPath(getConfigPath())
}

func loadConfigFromPath(configPath string) ConfigLoadResult {
	config := defaultConfig()

	result := ConfigLoadResult{
		Config:   config,
		HasError: false,
		Warnings: []string{},
		Status:   "OK",
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		result.Status = "Default"
		return result
	}

	// Drop the default bindings first so that a file listing bindings replaces
	// them instead of merging into the default slices.
	config.Keybindings = nil
	config.Mousebindings = nil
	if err := json.Unmarshal(data, &config); err != nil {
		log.Printf("Warning: Invalid config file %s, using defaults: %v", configPath, err)
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	if config.WindowWidth < minWidth {
		config.WindowWidth = defaultWidth
	}
	if config.WindowHeight < minHeight {
		config.WindowHeight = defaultHeight
	}

	config.SlideshowIntervalMs = clampInt(config.SlideshowIntervalMs, minSlideshowIntervalMs, maxSlideshowIntervalMs)
	config.LoadingTimeoutMs = clampInt(config.LoadingTimeoutMs, minLoadingTimeoutMs, maxLoadingTimeoutMs)

	if config.FetchCacheSize < 1 {
		config.FetchCacheSize = 64
	} else if config.FetchCacheSize > 512 {
		config.FetchCacheSize = 512
	}
	if config.TextureCacheSize < 4 {
		config.TextureCacheSize = 32
	} else if config.TextureCacheSize > 256 {
		config.TextureCacheSize = 256
	}

	if config.SortMethod < catalog.SortNatural || config.SortMethod > catalog.SortEntryOrder {
		config.SortMethod = catalog.SortNatural
	}

	if config.CDNQuality < 1 || config.CDNQuality > 100 {
		config.CDNQuality = 80
	}
	config.CDNFormat = strings.ToLower(strings.TrimSpace(config.CDNFormat))

	if config.ThumbnailColumns < 1 {
		config.ThumbnailColumns = 4
	} else if config.ThumbnailColumns > 12 {
		config.ThumbnailColumns = 12
	}

	// Minimum 12px for readability
	if config.HelpFontSize <= 12.0 {
		config.HelpFontSize = 20.0
	}

	if config.MouseSettings.SwipeThreshold <= 0 {
		config.MouseSettings.SwipeThreshold = defaultSwipeThreshold
	}
	if config.MouseSettings.WheelSensitivity <= 0 {
		config.MouseSettings.WheelSensitivity = 1.0
	}
	if config.MouseSettings.GridScrollSpeed <= 0 {
		config.MouseSettings.GridScrollSpeed = defaultGridScrollSpeed
	}

	if config.Keybindings == nil {
		config.Keybindings = getDefaultKeybindings()
	} else {
		for action, defaultKeys := range getDefaultKeybindings() {
			if _, exists := config.Keybindings[action]; !exists {
				config.Keybindings[action] = defaultKeys
			}
		}

		if err := validateKeybindings(config.Keybindings); err != nil {
			log.Printf("Warning: Invalid keybindings detected, using defaults: %v", err)
			config.Keybindings = getDefaultKeybindings()
			result.Status = "Warning"
			result.Warnings = append(result.Warnings, fmt.Sprintf("Keybinding errors: %v", err))
		}
	}

	if config.Mousebindings == nil {
		config.Mousebindings = GetDefaultMousebindings()
	} else {
		for action, defaults := range GetDefaultMousebindings() {
			if _, exists := config.Mousebindings[action]; !exists {
				config.Mousebindings[action] = defaults
			}
		}

		if err := validateMousebindings(config.Mousebindings); err != nil {
			log.Printf("Warning: Invalid mouse bindings detected, using defaults: %v", err)
			config.Mousebindings = GetDefaultMousebindings()
			result.Status = "Warning"
			result.Warnings = append(result.Warnings, fmt.Sprintf("Mouse binding errors: %v", err))
		}
	}

	result.Config = config
	return result
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func saveConfig(config Config) {
	saveConfigToPath(config, getConfigPath())
}

func saveConfigToPath(config Config, configPath string) {
	// Don't save if size is too small
	if config.WindowWidth < minWidth || config.WindowHeight < minHeight {
		log.Printf("Warning: Not saving config with invalid window size: %dx%d",
			config.WindowWidth, config.WindowHeight)
		return
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		log.Printf("Error: Failed to marshal config: %v", err)
		return
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		log.Printf("Error: Failed to save config to %s: %v", configPath, err)
	}
}
