package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"lightbox/internal/catalog"
	"lightbox/internal/fetch"
	"lightbox/internal/lightbox"
	"lightbox/internal/resolver"
)

var debugMode bool

func debugLog(format string, args ...any) {
	if debugMode {
		log.Printf("DEBUG: "+format, args...)
	}
}

// debugLogger hands debugLog to packages that take a Printf logger
type debugLogger struct{}

func (debugLogger) Printf(format string, args ...any) {
	debugLog(format, args...)
}

// loadGalleries reads the catalog file when one is given, otherwise scans the
// arguments into a single gallery named after the first of them.
func loadGalleries(catalogPath, only string, args []string, sortMethod int) ([]catalog.Gallery, error) {
	var galleries []catalog.Gallery
	if catalogPath != "" {
		g, err := catalog.LoadFile(catalogPath)
		if err != nil {
			return nil, err
		}
		galleries = g
	} else {
		if len(args) == 0 {
			return nil, errors.New("no catalog or image paths specified")
		}
		items, err := catalog.Scan(args, sortMethod)
		if err != nil {
			return nil, err
		}
		name := filepath.Base(filepath.Clean(args[0]))
		if len(args) > 1 {
			name = fmt.Sprintf("%s (+%d)", name, len(args)-1)
		}
		galleries = []catalog.Gallery{{Name: name, Items: items}}
	}

	if only != "" {
		g, ok := catalog.Find(galleries, only)
		if !ok {
			names := make([]string, len(galleries))
			for i, g := range galleries {
				names[i] = g.Name
			}
			return nil, fmt.Errorf("gallery %q not found (have: %s)", only, strings.Join(names, ", "))
		}
		galleries = []catalog.Gallery{g}
	}
	return galleries, nil
}

// newResolver routes local paths to the filesystem and everything else to
// the CDN when one is configured.
func newResolver(config Config, root string) (resolver.Resolver, error) {
	auto := resolver.Auto{Local: resolver.Local{Root: root}}
	if config.CDNBaseURL == "" {
		return auto, nil
	}
	cdn, err := resolver.NewCDN(resolver.CDNOptions{
		BaseURL:        config.CDNBaseURL,
		Format:         config.CDNFormat,
		Quality:        config.CDNQuality,
		ThumbnailWidth: thumbnailWidth(config),
		ViewportWidth:  config.WindowWidth,
	})
	if err != nil {
		return nil, err
	}
	auto.CDN = cdn
	return auto, nil
}

// thumbnailWidth is the decoded size of one grid cell at the configured
// window width
func thumbnailWidth(config Config) int {
	return int(computeGridLayout(config.WindowWidth, config.WindowHeight, config.ThumbnailColumns).Cell)
}

func main() {
	catalogPath := flag.String("catalog", "", "catalog file (.json, .yaml) listing galleries")
	only := flag.String("gallery", "", "show only the named gallery")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	debugMode = *debug || os.Getenv("LIGHTBOX_DEBUG") == "1"

	if err := InitGraphics(); err != nil {
		log.Fatal(err)
	}

	configResult := loadConfig()
	config := configResult.Config
	debugLog("Config status: %s", configResult.Status)

	galleries, err := loadGalleries(*catalogPath, *only, flag.Args(), config.SortMethod)
	if err != nil {
		log.Fatal(err)
	}

	root := ""
	if *catalogPath != "" {
		root = filepath.Dir(*catalogPath)
	}
	resolve, err := newResolver(config, root)
	if err != nil {
		log.Fatalf("Error: Invalid CDN configuration: %v", err)
	}

	fetcher, err := fetch.New(fetch.Options{
		CacheSize: config.FetchCacheSize,
		Timeout:   30 * time.Second,
		Logger:    debugLogger{},
	})
	if err != nil {
		log.Fatal(err)
	}

	sched := lightbox.NewLoopScheduler(time.Now())
	textures, err := NewTextureStore(fetcher, sched.Post, config.TextureCacheSize, config.TextureCacheSize, thumbnailWidth(config))
	if err != nil {
		log.Fatal(err)
	}

	svc := appServices{
		sched:      sched,
		lock:       &lightbox.ScrollLock{},
		fullscreen: NewPlatformFullscreen(ebitenWindow, config.SlideshowFullscreen),
		router:     &IntentRouter{},
		textures:   textures,
		resolve:    resolve,
		logger:     debugLogger{},
	}
	if config.PreloadEnabled {
		svc.warmer = fetcher
	}

	app, err := NewApp(config, configResult, galleries, *catalogPath == "", svc)
	if err != nil {
		log.Fatal(err)
	}
	defer app.Shutdown()

	ebiten.SetWindowTitle("Lightbox")
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowSizeLimits(minWidth, minHeight, -1, -1)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetScreenClearedEveryFrame(false)
	if config.Fullscreen {
		svc.fullscreen.Toggle()
	}

	if err := ebiten.RunGame(app); err != nil {
		log.Printf("Error: %v", err)
	}

	stats := fetcher.Stats()
	debugLog("Fetch stats: %d requests, %d fetches, %d hits, %d failures",
		stats.Requests, stats.Fetches, stats.Hits, stats.Failures)
}
