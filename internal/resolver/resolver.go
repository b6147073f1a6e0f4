// Package resolver turns stored image locators into delivery URLs.
//
// A resolver must be deterministic for a given (locator, purpose) pair for the
// lifetime of a session: preloading is keyed by catalog index and relies on the
// same URL coming back every time.
package resolver

import (
	"net/url"
	"strings"
)

// Purpose describes what a resolved image is going to be used for.
type Purpose string

const (
	Thumbnail  Purpose = "thumbnail"
	Full       Purpose = "full"
	Fullscreen Purpose = "fullscreen"
)

// Valid reports whether p is one of the known purposes.
func (p Purpose) Valid() bool {
	switch p {
	case Thumbnail, Full, Fullscreen:
		return true
	default:
		return false
	}
}

// Resolver maps a locator and a purpose to a URL.
type Resolver interface {
	Resolve(locator string, purpose Purpose) string
}

// Func adapts a plain function to the Resolver interface.
type Func func(locator string, purpose Purpose) string

func (f Func) Resolve(locator string, purpose Purpose) string {
	return f(locator, purpose)
}

// Auto routes remote locators to a CDN resolver and filesystem or archive
// locators to a Local resolver.
type Auto struct {
	CDN   *CDN // nil when no CDN is configured
	Local Local
}

// Resolve implements Resolver.
//
// Routing rules:
//   - http(s) locators go through the CDN when one is configured, otherwise
//     they are returned unchanged
//   - archive entries and absolute filesystem paths are always local
//   - any other relative locator goes to the CDN if configured, local otherwise
func (a Auto) Resolve(locator string, purpose Purpose) string {
	if isRemote(locator) {
		if a.CDN != nil {
			return a.CDN.Resolve(locator, purpose)
		}
		return locator
	}
	if a.CDN != nil && !a.Local.IsLocal(locator) {
		return a.CDN.Resolve(locator, purpose)
	}
	return a.Local.Resolve(locator, purpose)
}

func isRemote(locator string) bool {
	u, err := url.Parse(locator)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}
