package lightbox

import (
	"sort"

	"lightbox/internal/catalog"
	"lightbox/internal/resolver"
)

// PreloadCache remembers which catalog indices already had their fullscreen
// asset requested, so each one is fetched at most once per session. It never
// evicts: catalogs are small (a few dozen items), and the index set is bounded
// by the catalog length.
type PreloadCache struct {
	items   []catalog.Item
	resolve resolver.Resolver
	warm    Warmer
	log     Logger
	seen    map[int]struct{}
}

// NewPreloadCache returns an empty cache over items. A nil warm records indices
// without fetching anything.
func NewPreloadCache(items []catalog.Item, resolve resolver.Resolver, warm Warmer, log Logger) *PreloadCache {
	if log == nil {
		log = discardLogger{}
	}
	return &PreloadCache{
		items:   items,
		resolve: resolve,
		warm:    warm,
		log:     log,
		seen:    make(map[int]struct{}),
	}
}

// Ensure requests the fullscreen asset of index unless that already happened.
// It reports whether a fetch was issued. Out-of-range indices are ignored.
func (p *PreloadCache) Ensure(index int) bool {
	if index < 0 || index >= len(p.items) {
		return false
	}
	if _, ok := p.seen[index]; ok {
		return false
	}
	p.seen[index] = struct{}{}

	url := p.resolve.Resolve(p.items[index].Locator, resolver.Fullscreen)
	if p.warm != nil {
		p.warm.Warm(url)
	}
	p.log.Printf("preload: [%d/%d] %s", index+1, len(p.items), url)
	return true
}

// EnsureNeighbors preloads the indices before and after current, with wraparound.
func (p *PreloadCache) EnsureNeighbors(current int) {
	n := len(p.items)
	if n <= 1 {
		return
	}
	p.Ensure(Previous(current, n))
	p.Ensure(Next(current, n))
}

// Has reports whether index was already requested.
func (p *PreloadCache) Has(index int) bool {
	_, ok := p.seen[index]
	return ok
}

// Len returns the number of requested indices.
func (p *PreloadCache) Len() int {
	return len(p.seen)
}

// Indices returns the requested indices in ascending order.
func (p *PreloadCache) Indices() []int {
	out := make([]int, 0, len(p.seen))
	for i := range p.seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Reset forgets every requested index.
func (p *PreloadCache) Reset() {
	clear(p.seen)
}
