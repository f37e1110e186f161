package playback

import "time"

// ScheduleFunc schedules fn to run on the host's next frame tick and returns
// a cancel function. Injecting it keeps the loop testable without a real
// display surface.
type ScheduleFunc func(fn func()) (cancel func())

// DisplaySchedule returns a ScheduleFunc backed by a wall-clock timer at the
// given frame interval.
func DisplaySchedule(interval time.Duration) ScheduleFunc {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return func(fn func()) func() {
		timer := time.AfterFunc(interval, fn)
		return func() { timer.Stop() }
	}
}

// Scheduler drives the per-frame render loop. It has two states: Stopped and
// Running. While running, at most one frame callback is pending at any time;
// stopping cancels the pending callback so no stale frame fires afterwards.
type Scheduler struct {
	schedule ScheduleFunc
	running  bool
	cancel   func()
}

func NewScheduler(schedule ScheduleFunc) *Scheduler {
	if schedule == nil {
		schedule = DisplaySchedule(0)
	}
	return &Scheduler{schedule: schedule}
}

// Start begins the loop, invoking frame once per scheduled tick. Starting a
// running scheduler is a no-op.
func (s *Scheduler) Start(frame func()) {
	if s.running {
		return
	}
	s.running = true
	s.tick(frame)
}

func (s *Scheduler) tick(frame func()) {
	if !s.running {
		return
	}
	frame()
	if !s.running {
		// frame itself may have stopped the loop
		return
	}
	s.cancel = s.schedule(func() { s.tick(frame) })
}

// Stop halts the loop and cancels any pending frame callback.
func (s *Scheduler) Stop() {
	s.running = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool {
	return s.running
}
