package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"runtime"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// byteSource is the part of fetch.Client the store needs
type byteSource interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// textureKind separates thumbnails from full renditions. A local resolver
// returns the same URL for both, so the kind is part of the cache key.
type textureKind int

const (
	textureFull textureKind = iota
	textureThumbnail
)

type textureKey struct {
	url  string
	kind textureKind
}

// textureCache is one bounded set of textures plus the failures remembered
// alongside them
type textureCache struct {
	textures *lru.Cache[textureKey, *ebiten.Image]
	failures *lru.Cache[textureKey, error]
	capacity int
}

func newTextureCache(size int) (*textureCache, error) {
	textures, err := lru.NewWithEvict[textureKey, *ebiten.Image](size, func(_ textureKey, img *ebiten.Image) {
		if img != nil {
			img.Deallocate()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("creating texture cache: %w", err)
	}
	failures, err := lru.New[textureKey, error](size)
	if err != nil {
		return nil, fmt.Errorf("creating failure cache: %w", err)
	}
	return &textureCache{textures: textures, failures: failures, capacity: size}, nil
}

// grow raises the capacity to at least size. It never shrinks.
func (c *textureCache) grow(size int) bool {
	if size <= c.capacity {
		return false
	}
	c.textures.Resize(size)
	c.failures.Resize(size)
	c.capacity = size
	return true
}

// TextureStore decodes fetched images into GPU textures. Decoding runs on
// worker goroutines; results are handed back through post so that textures
// are created and callbacks run on the game loop.
//
// Full images and thumbnails are cached separately. The grid asks for every
// visible thumbnail each frame, so the thumbnail cache must hold at least one
// screen of them; see ReserveThumbnails.
//
// TextureStore implements lightbox.Loader.
type TextureStore struct {
	src        byteSource
	post       func(func())
	thumbWidth int

	full   *textureCache
	thumbs *textureCache

	// inflight is touched only on the game loop
	inflight map[textureKey][]func(error)

	// newTexture converts decoded images; tests replace it
	newTexture func(image.Image) *ebiten.Image

	workers sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewTextureStore creates a store holding up to cacheSize full images and
// thumbCacheSize thumbnails.
func NewTextureStore(src byteSource, post func(func()), cacheSize, thumbCacheSize, thumbWidth int) (*TextureStore, error) {
	full, err := newTextureCache(cacheSize)
	if err != nil {
		return nil, err
	}
	thumbs, err := newTextureCache(thumbCacheSize)
	if err != nil {
		return nil, fmt.Errorf("thumbnails: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &TextureStore{
		src:        src,
		post:       post,
		thumbWidth: thumbWidth,
		full:       full,
		thumbs:     thumbs,
		inflight:   make(map[textureKey][]func(error)),
		newTexture: func(img image.Image) *ebiten.Image { return ebiten.NewImageFromImage(img) },
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Load displays url in full resolution. done is always called through post,
// never synchronously.
func (s *TextureStore) Load(url string, done func(error)) {
	s.request(textureKey{url: url, kind: textureFull}, done)
}

// Full returns the decoded texture for url or the error that prevented it.
// Both are nil while the image is still loading.
func (s *TextureStore) Full(url string) (*ebiten.Image, error) {
	return s.lookup(textureKey{url: url, kind: textureFull})
}

// Thumbnail returns the thumbnail texture for url, starting a load on first
// use. Both results are nil while the image is still loading.
func (s *TextureStore) Thumbnail(url string) (*ebiten.Image, error) {
	key := textureKey{url: url, kind: textureThumbnail}
	img, err := s.lookup(key)
	if img == nil && err == nil {
		s.request(key, nil)
	}
	return img, err
}

// ReserveThumbnails makes room for at least n thumbnails
func (s *TextureStore) ReserveThumbnails(n int) {
	if s.thumbs.grow(n) {
		debugLog("Thumbnail cache grown to %d", n)
	}
}

// ThumbnailCapacity is the number of thumbnails kept before eviction.
func (s *TextureStore) ThumbnailCapacity() int {
	return s.thumbs.capacity
}

// Close stops pending decodes and waits for the workers.
func (s *TextureStore) Close() {
	s.cancel()
	s.workers.Wait()
}

func (s *TextureStore) cache(kind textureKind) *textureCache {
	if kind == textureThumbnail {
		return s.thumbs
	}
	return s.full
}

func (s *TextureStore) lookup(key textureKey) (*ebiten.Image, error) {
	c := s.cache(key.kind)
	if img, ok := c.textures.Get(key); ok {
		return img, nil
	}
	if err, ok := c.failures.Get(key); ok {
		return nil, err
	}
	return nil, nil
}

func (s *TextureStore) request(key textureKey, done func(error)) {
	c := s.cache(key.kind)
	if _, ok := c.textures.Get(key); ok {
		debugLog("Texture HIT: %s", key.url)
		s.finish(done, nil)
		return
	}
	if err, ok := c.failures.Get(key); ok {
		s.finish(done, err)
		return
	}

	waiters, loading := s.inflight[key]
	s.inflight[key] = append(waiters, done)
	if loading {
		return
	}

	s.workers.Add(1)
	go func() {
		defer s.workers.Done()
		img, err := s.decode(key)
		s.post(func() { s.complete(key, img, err) })
	}()
}

func (s *TextureStore) finish(done func(error), err error) {
	if done != nil {
		s.post(func() { done(err) })
	}
}

func (s *TextureStore) decode(key textureKey) (image.Image, error) {
	data, err := s.src.Get(s.ctx, key.url)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key.url, err)
	}

	if key.kind == textureThumbnail && s.thumbWidth > 0 {
		img = imaging.Fit(img, s.thumbWidth, s.thumbWidth, imaging.Box)
	}
	return img, nil
}

func (s *TextureStore) complete(key textureKey, img image.Image, err error) {
	waiters := s.inflight[key]
	delete(s.inflight, key)

	c := s.cache(key.kind)
	if err != nil {
		c.failures.Add(key, err)
		if key.kind == textureFull {
			log.Printf("Error: Failed to load image %s: %v", key.url, err)
		} else {
			debugLog("Thumbnail failed for %s: %v", key.url, err)
		}
	} else {
		c.textures.Add(key, s.newTexture(img))

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		debugLog("Texture MISS: %s, decoded and cached (cache: %d items, memory: %dMB)",
			key.url, c.textures.Len(), mem.Alloc/1024/1024)
	}

	for _, done := range waiters {
		if done != nil {
			done(err)
		}
	}
}
