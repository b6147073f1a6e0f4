package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"lightbox/internal/catalog"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), ".lightbox.json")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name              string
		configJSON        string
		expectedWidth     int
		expectedHeight    int
		expectedInterval  time.Duration
		expectedTimeout   time.Duration
		expectedEscape    bool
		expectedColumns   int
		expectedSortOrder int
	}{
		{
			name: "Valid config",
			configJSON: `{
				"window_width": 1000,
				"window_height": 800,
				"slideshow_interval_ms": 5000,
				"loading_timeout_ms": 750,
				"escape_exits_fullscreen_first": false,
				"thumbnail_columns": 6,
				"sort_method": 2
			}`,
			expectedWidth:     1000,
			expectedHeight:    800,
			expectedInterval:  5 * time.Second,
			expectedTimeout:   750 * time.Millisecond,
			expectedEscape:    false,
			expectedColumns:   6,
			expectedSortOrder: catalog.SortEntryOrder,
		},
		{
			name:              "Width too small",
			configJSON:        `{"window_width": 200, "window_height": 600}`,
			expectedWidth:     defaultWidth,
			expectedHeight:    600,
			expectedInterval:  3 * time.Second,
			expectedTimeout:   500 * time.Millisecond,
			expectedEscape:    true,
			expectedColumns:   4,
			expectedSortOrder: catalog.SortNatural,
		},
		{
			name:              "Height too small",
			configJSON:        `{"window_width": 800, "window_height": 100}`,
			expectedWidth:     800,
			expectedHeight:    defaultHeight,
			expectedInterval:  3 * time.Second,
			expectedTimeout:   500 * time.Millisecond,
			expectedEscape:    true,
			expectedColumns:   4,
			expectedSortOrder: catalog.SortNatural,
		},
		{
			name: "Timings clamped",
			configJSON: `{
				"slideshow_interval_ms": 10,
				"loading_timeout_ms": 999999
			}`,
			expectedWidth:     defaultWidth,
			expectedHeight:    defaultHeight,
			expectedInterval:  time.Second,
			expectedTimeout:   10 * time.Second,
			expectedEscape:    true,
			expectedColumns:   4,
			expectedSortOrder: catalog.SortNatural,
		},
		{
			name: "Out of range columns and sort method",
			configJSON: `{
				"thumbnail_columns": 50,
				"sort_method": 9
			}`,
			expectedWidth:     defaultWidth,
			expectedHeight:    defaultHeight,
			expectedInterval:  3 * time.Second,
			expectedTimeout:   500 * time.Millisecond,
			expectedEscape:    true,
			expectedColumns:   12,
			expectedSortOrder: catalog.SortNatural,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loadConfigFromPath(writeConfig(t, tt.configJSON))
			config := result.Config

			if result.Status != "OK" {
				t.Errorf("Expected status OK, got %s (%v)", result.Status, result.Warnings)
			}
			if config.WindowWidth != tt.expectedWidth {
				t.Errorf("Expected width %d, got %d", tt.expectedWidth, config.WindowWidth)
			}
			if config.WindowHeight != tt.expectedHeight {
				t.Errorf("Expected height %d, got %d", tt.expectedHeight, config.WindowHeight)
			}
			if config.SlideshowInterval() != tt.expectedInterval {
				t.Errorf("Expected interval %s, got %s", tt.expectedInterval, config.SlideshowInterval())
			}
			if config.LoadingTimeout() != tt.expectedTimeout {
				t.Errorf("Expected loading timeout %s, got %s", tt.expectedTimeout, config.LoadingTimeout())
			}
			if config.EscapeExitsFullscreenFirst != tt.expectedEscape {
				t.Errorf("Expected EscapeExitsFullscreenFirst %t, got %t", tt.expectedEscape, config.EscapeExitsFullscreenFirst)
			}
			if config.ThumbnailColumns != tt.expectedColumns {
				t.Errorf("Expected %d columns, got %d", tt.expectedColumns, config.ThumbnailColumns)
			}
			if config.SortMethod != tt.expectedSortOrder {
				t.Errorf("Expected sort method %d, got %d", tt.expectedSortOrder, config.SortMethod)
			}
		})
	}
}

func TestLightboxOptionsFromConfig(t *testing.T) {
	config := defaultConfig()
	config.SlideshowIntervalMs = 4500
	config.LoadingTimeoutMs = 250
	config.EscapeExitsFullscreenFirst = false

	opts := config.LightboxOptions()
	if opts.SlideshowInterval != 4500*time.Millisecond {
		t.Errorf("Expected interval 4.5s, got %s", opts.SlideshowInterval)
	}
	if opts.LoadingTimeout != 250*time.Millisecond {
		t.Errorf("Expected timeout 250ms, got %s", opts.LoadingTimeout)
	}
	if opts.EscapeExitsFullscreenFirst {
		t.Error("Expected EscapeExitsFullscreenFirst to be false")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nonexistent.json")

	result := loadConfigFromPath(configPath)

	if result.Status != "Default" {
		t.Errorf("Expected status Default, got %s", result.Status)
	}
	if !reflect.DeepEqual(result.Config, defaultConfig()) {
		t.Errorf("Default config mismatch.\nExpected: %+v\nGot: %+v", defaultConfig(), result.Config)
	}
	if result.Config.SlideshowIntervalMs != 3000 || result.Config.LoadingTimeoutMs != 500 {
		t.Errorf("Unexpected default timings: %d / %d", result.Config.SlideshowIntervalMs, result.Config.LoadingTimeoutMs)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name           string
		configJSON     string
		expectedStatus string
		warning        string
	}{
		{"Invalid JSON", `{"window_width": `, "Error", "Invalid config file"},
		{"Key conflict", `{"keybindings": {"next": ["KeyQ"]}}`, "Warning", "Keybinding errors"},
		{"Unknown action", `{"keybindings": {"rotate_left": ["KeyL"]}}`, "Warning", "Keybinding errors"},
		{"Unknown key", `{"keybindings": {"next": ["KeyNope"]}}`, "Warning", "Keybinding errors"},
		{"Bad modifier", `{"keybindings": {"next": ["Super+KeyN"]}}`, "Warning", "Keybinding errors"},
		{"Unknown mouse action", `{"mousebindings": {"next": ["LeftClick"]}}`, "Warning", "Mouse binding errors"},
		{"Mouse conflict", `{"mousebindings": {"close": ["MiddleClick"]}}`, "Warning", "Mouse binding errors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loadConfigFromPath(writeConfig(t, tt.configJSON))

			if result.Status != tt.expectedStatus {
				t.Errorf("Expected status %s, got %s", tt.expectedStatus, result.Status)
			}
			if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], tt.warning) {
				t.Errorf("Expected a warning containing %q, got %v", tt.warning, result.Warnings)
			}
			if !reflect.DeepEqual(result.Config.Keybindings, GetDefaultKeybindings()) {
				t.Errorf("Expected default keybindings after an error, got %v", result.Config.Keybindings)
			}
		})
	}
}

func TestLoadConfigFillsMissingBindings(t *testing.T) {
	result := loadConfigFromPath(writeConfig(t, `{"keybindings": {"exit": ["Ctrl+KeyQ"]}}`))

	if result.Status != "OK" {
		t.Fatalf("Expected status OK, got %s (%v)", result.Status, result.Warnings)
	}
	if got := result.Config.Keybindings["exit"]; !reflect.DeepEqual(got, []string{"Ctrl+KeyQ"}) {
		t.Errorf("Expected exit to be rebound, got %v", got)
	}
	if got := result.Config.Keybindings["next"]; !reflect.DeepEqual(got, GetDefaultKeybindings()["next"]) {
		t.Errorf("Expected default next bindings, got %v", got)
	}
	if !reflect.DeepEqual(result.Config.Mousebindings, GetDefaultMousebindings()) {
		t.Errorf("Expected default mouse bindings, got %v", result.Config.Mousebindings)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".lightbox.json")

	config := defaultConfig()
	config.WindowWidth = 1600
	config.WindowHeight = 900
	config.SlideshowIntervalMs = 8000
	config.CDNBaseURL = "https://cdn.example.com/assets/"
	saveConfigToPath(config, configPath)

	result := loadConfigFromPath(configPath)
	if result.Status != "OK" {
		t.Fatalf("Expected status OK, got %s (%v)", result.Status, result.Warnings)
	}
	if !reflect.DeepEqual(result.Config, config) {
		t.Errorf("Round trip mismatch.\nExpected: %+v\nGot: %+v", config, result.Config)
	}
}

func TestSaveConfigRejectsTinyWindow(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".lightbox.json")

	config := defaultConfig()
	config.WindowWidth = 10
	saveConfigToPath(config, configPath)

	if _, err := os.Stat(configPath); !os.IsNotExist(err) {
		t.Errorf("Expected no config file to be written, stat returned %v", err)
	}
}

func TestLoadGalleriesFromArgs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}

	galleries, err := loadGalleries("", "", []string{dir}, catalog.SortNatural)
	if err != nil {
		t.Fatalf("loadGalleries failed: %v", err)
	}
	if len(galleries) != 1 {
		t.Fatalf("Expected 1 gallery, got %d", len(galleries))
	}
	if galleries[0].Name != filepath.Base(dir) {
		t.Errorf("Expected gallery name %s, got %s", filepath.Base(dir), galleries[0].Name)
	}

	var names []string
	for _, it := range galleries[0].Items {
		names = append(names, filepath.Base(it.Locator))
	}
	if !reflect.DeepEqual(names, []string{"a.jpg", "b.png"}) {
		t.Errorf("Expected [a.jpg b.png], got %v", names)
	}
}

func TestLoadGalleriesFromCatalog(t *testing.T) {
	catalogPath := filepath.Join(t.TempDir(), "site.yaml")
	doc := `galleries:
  - name: Portfolio
    items:
      - locator: work/one.jpg
      - locator: work/two.jpg
        title: Second
  - name: Studio
    items:
      - locator: https://images.example.com/studio.png
`
	if err := os.WriteFile(catalogPath, []byte(doc), 0644); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}

	tests := []struct {
		name      string
		only      string
		wantNames []string
		wantErr   bool
	}{
		{"All galleries", "", []string{"Portfolio", "Studio"}, false},
		{"Filtered", "studio", []string{"Studio"}, false},
		{"Unknown gallery", "Archive", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			galleries, err := loadGalleries(catalogPath, tt.only, nil, catalog.SortNatural)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("loadGalleries failed: %v", err)
			}
			var names []string
			for _, g := range galleries {
				names = append(names, g.Name)
			}
			if !reflect.DeepEqual(names, tt.wantNames) {
				t.Errorf("Expected %v, got %v", tt.wantNames, names)
			}
		})
	}
}

func TestLoadGalleriesNeedsInput(t *testing.T) {
	if _, err := loadGalleries("", "", nil, catalog.SortNatural); err == nil {
		t.Error("Expected an error without catalog or paths")
	}
}

func TestNewResolver(t *testing.T) {
	config := defaultConfig()

	local, err := newResolver(config, "/srv/site")
	if err != nil {
		t.Fatalf("newResolver failed: %v", err)
	}
	if got := local.Resolve("img/a.jpg", "full"); got != "file:///srv/site/img/a.jpg" {
		t.Errorf("Expected a file URL, got %s", got)
	}

	config.CDNBaseURL = "https://cdn.example.com/assets/"
	cdn, err := newResolver(config, "")
	if err != nil {
		t.Fatalf("newResolver with CDN failed: %v", err)
	}
	if got := cdn.Resolve("img/a.jpg", "full"); !strings.HasPrefix(got, "https://cdn.example.com/assets/img/a.jpg?") {
		t.Errorf("Expected a CDN URL, got %s", got)
	}

	config.CDNBaseURL = "ftp://cdn.example.com/"
	if _, err := newResolver(config, ""); err == nil {
		t.Error("Expected an error for a non-http CDN")
	}
}
