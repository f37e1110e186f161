package playback

import "testing"

// manualSchedule queues callbacks and fires them only when the test says so,
// so loop behavior is observable step by step.
type manualSchedule struct {
	pending  []func()
	canceled int
}

func (m *manualSchedule) fn() ScheduleFunc {
	return func(fn func()) func() {
		i := len(m.pending)
		m.pending = append(m.pending, fn)
		return func() {
			if m.pending[i] != nil {
				m.pending[i] = nil
				m.canceled++
			}
		}
	}
}

// fire runs the oldest live callback, if any.
func (m *manualSchedule) fire() bool {
	for i, fn := range m.pending {
		if fn != nil {
			m.pending[i] = nil
			fn()
			return true
		}
	}
	return false
}

func (m *manualSchedule) live() int {
	n := 0
	for _, fn := range m.pending {
		if fn != nil {
			n++
		}
	}
	return n
}

func TestSchedulerStartRunsFrameImmediately(t *testing.T) {
	ms := &manualSchedule{}
	s := NewScheduler(ms.fn())

	frames := 0
	s.Start(func() { frames++ })

	if frames != 1 {
		t.Fatalf("frames = %d, want 1 after Start", frames)
	}
	if !s.Running() {
		t.Error("scheduler must be running after Start")
	}
	if ms.live() != 1 {
		t.Errorf("pending callbacks = %d, want exactly 1", ms.live())
	}
}

func TestSchedulerOnePendingCallbackPerTick(t *testing.T) {
	ms := &manualSchedule{}
	s := NewScheduler(ms.fn())

	frames := 0
	s.Start(func() { frames++ })

	for i := 0; i < 5; i++ {
		if !ms.fire() {
			t.Fatalf("no pending callback on tick %d", i)
		}
		if ms.live() != 1 {
			t.Fatalf("pending callbacks = %d after tick %d, want 1", ms.live(), i)
		}
	}
	if frames != 6 {
		t.Errorf("frames = %d, want 6", frames)
	}
}

func TestSchedulerStartWhileRunningIsNoop(t *testing.T) {
	ms := &manualSchedule{}
	s := NewScheduler(ms.fn())

	frames := 0
	s.Start(func() { frames++ })
	s.Start(func() { frames += 100 })

	if frames != 1 {
		t.Errorf("frames = %d, second Start must not run a frame", frames)
	}
	if ms.live() != 1 {
		t.Errorf("pending callbacks = %d, want 1", ms.live())
	}
}

func TestSchedulerStopCancelsPending(t *testing.T) {
	ms := &manualSchedule{}
	s := NewScheduler(ms.fn())

	frames := 0
	s.Start(func() { frames++ })
	s.Stop()

	if s.Running() {
		t.Error("scheduler must not be running after Stop")
	}
	if ms.canceled != 1 {
		t.Errorf("canceled = %d, want 1", ms.canceled)
	}
	if ms.fire() {
		t.Error("no callback should survive Stop")
	}
	if frames != 1 {
		t.Errorf("frames = %d, want 1", frames)
	}
}

func TestSchedulerStopFromInsideFrame(t *testing.T) {
	ms := &manualSchedule{}
	s := NewScheduler(ms.fn())

	frames := 0
	s.Start(func() {
		frames++
		if frames == 2 {
			s.Stop()
		}
	})

	ms.fire() // second frame stops the loop
	if s.Running() {
		t.Error("scheduler must be stopped")
	}
	if ms.live() != 0 {
		t.Errorf("pending callbacks = %d, want 0 after in-frame Stop", ms.live())
	}
	if ms.fire() {
		t.Error("stopped loop must not have queued another tick")
	}
	if frames != 2 {
		t.Errorf("frames = %d, want 2", frames)
	}
}

func TestSchedulerRestart(t *testing.T) {
	ms := &manualSchedule{}
	s := NewScheduler(ms.fn())

	frames := 0
	s.Start(func() { frames++ })
	s.Stop()
	s.Start(func() { frames++ })

	if frames != 2 {
		t.Errorf("frames = %d, want 2 after restart", frames)
	}
	if ms.live() != 1 {
		t.Errorf("pending callbacks = %d, want 1", ms.live())
	}

	ms.fire()
	if frames != 3 {
		t.Errorf("frames = %d, want 3", frames)
	}
}

func TestSchedulerStopIdempotent(t *testing.T) {
	s := NewScheduler((&manualSchedule{}).fn())
	s.Stop()
	s.Stop()
	if s.Running() {
		t.Error("never-started scheduler must not be running")
	}
}
