package lightbox

import "time"

// Slideshow invokes a tick callback at a fixed interval and, as a best-effort
// side effect, engages fullscreen while it runs. The tick logic does not depend
// on the effect: a nil effect gives a plain interval timer.
type Slideshow struct {
	sched    Scheduler
	interval time.Duration
	fx       FullscreenEffect
	log      Logger
	cancel   func()
}

// NewSlideshow creates a stopped slideshow.
func NewSlideshow(sched Scheduler, interval time.Duration, fx FullscreenEffect, log Logger) *Slideshow {
	if interval <= 0 {
		interval = DefaultSlideshowInterval
	}
	if log == nil {
		log = discardLogger{}
	}
	return &Slideshow{sched: sched, interval: interval, fx: fx, log: log}
}

// Interval returns the tick period.
func (s *Slideshow) Interval() time.Duration {
	return s.interval
}

// Running reports whether the timer is active.
func (s *Slideshow) Running() bool {
	return s.cancel != nil
}

// Start begins calling onTick every interval. Starting a running slideshow
// only restarts the interval. A rejected fullscreen request is logged and the
// slideshow runs windowed.
func (s *Slideshow) Start(onTick func()) {
	if s.cancel != nil {
		s.cancel()
		s.cancel = s.sched.Every(s.interval, onTick)
		return
	}

	if s.fx != nil && !s.fx.Active() {
		if err := s.fx.Request(); err != nil {
			s.log.Printf("slideshow: fullscreen request rejected, continuing windowed: %v", err)
		}
	}
	s.cancel = s.sched.Every(s.interval, onTick)
}

// Stop cancels the timer and leaves fullscreen if it is engaged. Stopping a
// stopped slideshow does nothing.
func (s *Slideshow) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil

	if s.fx != nil && s.fx.Active() {
		s.fx.Exit()
	}
}
