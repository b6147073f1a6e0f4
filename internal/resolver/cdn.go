package resolver

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	defaultQuality          = 80
	defaultThumbnailQuality = 60
	defaultThumbnailWidth   = 400
	defaultViewportWidth    = 1280
)

// DefaultWidths are the width tiers rendered by the image CDN.
var DefaultWidths = []int{640, 960, 1280, 1920, 2560}

// CDNOptions configures a CDN resolver.
type CDNOptions struct {
	BaseURL        string // e.g. https://cdn.example.com/assets/
	Format         string // requested output format (webp, avif, jpg); empty keeps the source format
	Quality        int    // quality for full and fullscreen purposes (1-100)
	Widths         []int  // width tiers; DefaultWidths when empty
	ThumbnailWidth int
	ViewportWidth  int // width of the host viewport in pixels, fixed for the session
}

// CDN builds URLs that carry width, quality and format hints as query parameters
// (w, q, fm).
type CDN struct {
	base           *url.URL
	format         string
	quality        int
	widths         []int
	thumbnailWidth int
	viewportWidth  int
}

// NewCDN validates opts and returns a CDN resolver.
func NewCDN(opts CDNOptions) (*CDN, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("cdn base url is empty")
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing cdn base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("cdn base url must be http or https, got %q", base.Scheme)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	c := &CDN{
		base:           base,
		format:         strings.ToLower(opts.Format),
		quality:        opts.Quality,
		thumbnailWidth: opts.ThumbnailWidth,
		viewportWidth:  opts.ViewportWidth,
	}
	if c.quality < 1 || c.quality > 100 {
		c.quality = defaultQuality
	}
	if c.thumbnailWidth <= 0 {
		c.thumbnailWidth = defaultThumbnailWidth
	}
	if c.viewportWidth <= 0 {
		c.viewportWidth = defaultViewportWidth
	}

	widths := opts.Widths
	if len(widths) == 0 {
		widths = DefaultWidths
	}
	for _, w := range widths {
		if w > 0 {
			c.widths = append(c.widths, w)
		}
	}
	if len(c.widths) == 0 {
		return nil, errors.New("cdn width tiers must contain a positive width")
	}
	sort.Ints(c.widths)

	return c, nil
}

// Width returns the target width chosen for purpose.
func (c *CDN) Width(purpose Purpose) int {
	switch purpose {
	case Thumbnail:
		return c.thumbnailWidth
	case Fullscreen:
		return c.widths[len(c.widths)-1]
	default:
		// Smallest tier that still covers the viewport.
		for _, w := range c.widths {
			if w >= c.viewportWidth {
				return w
			}
		}
		return c.widths[len(c.widths)-1]
	}
}

// Resolve implements Resolver.
func (c *CDN) Resolve(locator string, purpose Purpose) string {
	var u *url.URL
	if isRemote(locator) {
		parsed, err := url.Parse(locator)
		if err != nil {
			return locator
		}
		u = parsed
	} else {
		ref := &url.URL{Path: strings.TrimPrefix(locator, "/")}
		u = c.base.ResolveReference(ref)
	}

	quality := c.quality
	if purpose == Thumbnail {
		quality = defaultThumbnailQuality
	}

	q := u.Query()
	q.Set("w", strconv.Itoa(c.Width(purpose)))
	q.Set("q", strconv.Itoa(quality))
	if c.format != "" {
		q.Set("fm", c.format)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
