package lightbox

import (
	"sync"
	"time"
)

// Scheduler runs callbacks on the loop goroutine.
type Scheduler interface {
	// AfterFunc runs fn once, d after now. The returned function cancels it.
	AfterFunc(d time.Duration, fn func()) (cancel func())
	// Every runs fn every d until cancelled.
	Every(d time.Duration, fn func()) (cancel func())
	// Post queues fn to run on the loop goroutine. Safe for concurrent use.
	Post(fn func())
}

type timer struct {
	due       time.Time
	period    time.Duration
	seq       uint64
	fn        func()
	cancelled bool
}

// LoopScheduler is a Scheduler driven explicitly by its owner: the host calls
// RunDue once per frame with the wall clock, tests call Advance with a virtual
// duration. Timers fire in due order, ties in creation order. Only Post may be
// called from other goroutines.
type LoopScheduler struct {
	now    time.Time
	timers []*timer
	seq    uint64

	mu     sync.Mutex
	posted []func()
}

// NewLoopScheduler returns a scheduler whose clock starts at start.
func NewLoopScheduler(start time.Time) *LoopScheduler {
	return &LoopScheduler{now: start}
}

// Now returns the scheduler's current time.
func (s *LoopScheduler) Now() time.Time {
	return s.now
}

func (s *LoopScheduler) add(d, period time.Duration, fn func()) func() {
	s.seq++
	t := &timer{due: s.now.Add(d), period: period, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return func() { t.cancelled = true }
}

func (s *LoopScheduler) AfterFunc(d time.Duration, fn func()) func() {
	if d < 0 {
		d = 0
	}
	return s.add(d, 0, fn)
}

func (s *LoopScheduler) Every(d time.Duration, fn func()) func() {
	if d <= 0 {
		panic("lightbox: non-positive interval for Every")
	}
	return s.add(d, d, fn)
}

func (s *LoopScheduler) Post(fn func()) {
	s.mu.Lock()
	s.posted = append(s.posted, fn)
	s.mu.Unlock()
}

// Pending returns the number of live timers.
func (s *LoopScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d as if every frame in between ran:
// periodic timers fire once per elapsed period.
func (s *LoopScheduler) Advance(d time.Duration) {
	s.run(s.now.Add(d), true)
}

// RunDue runs posted callbacks and every timer due at or before now. Timers
// created by callbacks run in the same pass if they fall due. A periodic
// timer that missed several periods, after a stalled frame for instance,
// fires once and resumes on its next period after now.
func (s *LoopScheduler) RunDue(now time.Time) {
	s.run(now, false)
}

func (s *LoopScheduler) run(now time.Time, catchUp bool) {
	s.drainPosted()

	for {
		t := s.nextDue(now)
		if t == nil {
			break
		}
		if t.due.After(s.now) {
			s.now = t.due
		}
		if t.period > 0 {
			t.due = t.due.Add(t.period)
			if !catchUp && !t.due.After(now) {
				missed := now.Sub(t.due)/t.period + 1
				t.due = t.due.Add(missed * t.period)
			}
		} else {
			t.cancelled = true
		}
		t.fn()
		s.drainPosted()
	}

	if now.After(s.now) {
		s.now = now
	}
	s.compact()
}

func (s *LoopScheduler) nextDue(now time.Time) *timer {
	var best *timer
	for _, t := range s.timers {
		if t.cancelled || t.due.After(now) {
			continue
		}
		if best == nil || t.due.Before(best.due) || (t.due.Equal(best.due) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (s *LoopScheduler) drainPosted() {
	for {
		s.mu.Lock()
		posted := s.posted
		s.posted = nil
		s.mu.Unlock()

		if len(posted) == 0 {
			return
		}
		for _, fn := range posted {
			fn()
		}
	}
}

func (s *LoopScheduler) compact() {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.timers); i++ {
		s.timers[i] = nil
	}
	s.timers = live
}
