package lightbox

import (
	"fmt"

	"lightbox/internal/catalog"
)

// View is everything the viewer surface needs to draw one frame. The surface
// renders it and dispatches intents back; it owns no navigation or timers.
type View struct {
	Open      bool
	Index     int
	Total     int
	Item      catalog.Item
	URL       string // fullscreen rendition of Item
	Loading   bool
	Failed    bool
	Slideshow bool
}

// Counter formats the position as "3 / 12".
func (v View) Counter() string {
	if !v.Open {
		return ""
	}
	return fmt.Sprintf("%d / %d", v.Index+1, v.Total)
}

// View returns the current surface model. A closed controller returns a zero
// View with Total set.
func (c *Controller) View() View {
	v := View{Total: len(c.items)}
	if !c.open {
		return v
	}
	v.Open = true
	v.Index = c.current
	v.Item = c.items[c.current]
	v.URL = c.url
	v.Loading = c.loading
	v.Failed = c.failed
	v.Slideshow = c.slideshowActive
	return v
}
