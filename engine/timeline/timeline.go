// Package timeline provides the single cooperative execution context the viewer runs on.
//
// Work reaches the timeline two ways: tasks posted from any goroutine, and frame callbacks armed for the next
// display refresh. The owner drives the timeline by calling Step once per refresh. Nothing posted to or armed on
// the timeline ever runs concurrently with anything else on it.
package timeline

import (
	"log/slog"
	"sync"
	"time"
)

// Handle identifies an armed frame callback. The zero Handle is never issued.
type Handle uint64

type frame struct {
	handle Handle
	fn     func(now time.Time)
}

type timelineImpl struct {
	mu *sync.Mutex

	tasks    []func()
	frames   []frame
	nextID   Handle
	disposed bool
	stepping bool
	steps    uint64
	logger   *slog.Logger
}

// Timeline is a single-threaded task and frame scheduler.
type Timeline interface {
	// Post queues fn to run on the timeline. Safe to call from any goroutine.
	// Posts after Dispose are dropped.
	//
	// Parameters:
	//   - fn: the task
	//
	// Returns:
	//   - bool: false if the task was dropped
	Post(fn func()) bool

	// RequestFrame arms fn to run on the next Step that begins after this call.
	//
	// Parameters:
	//   - fn: the frame callback, receiving the step time
	//
	// Returns:
	//   - Handle: the handle to cancel the frame with, zero if the timeline is disposed
	RequestFrame(fn func(now time.Time)) Handle

	// Cancel revokes an armed frame. Cancelling a frame that already ran or was never armed is a no-op.
	//
	// Parameters:
	//   - h: the frame handle
	//
	// Returns:
	//   - bool: true if a pending frame was revoked
	Cancel(h Handle) bool

	// Step runs one refresh: every task posted before the step in FIFO order, then every frame armed before the
	// step in arming order. Tasks posted and frames armed during the step wait for the next one.
	// Re-entrant calls from inside a step are ignored.
	//
	// Parameters:
	//   - now: the refresh time passed to frame callbacks
	Step(now time.Time)

	// Pending returns the number of queued tasks and armed frames.
	//
	// Returns:
	//   - tasks: queued tasks
	//   - frames: armed frames
	Pending() (tasks, frames int)

	// Steps returns the number of completed steps.
	Steps() uint64

	// Dispose drops everything queued and rejects future posts and frames.
	Dispose()

	// Disposed reports whether Dispose has been called.
	Disposed() bool
}

var _ Timeline = &timelineImpl{}

// NewTimeline creates an empty Timeline.
//
// Parameters:
//   - options: variadic list of TimelineBuilderOption functions
//
// Returns:
//   - Timeline: a new timeline
func NewTimeline(options ...TimelineBuilderOption) Timeline {
	t := &timelineImpl{
		mu:     &sync.Mutex{},
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *timelineImpl) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed {
		t.logger.Debug("timeline disposed, task dropped")
		return false
	}
	t.tasks = append(t.tasks, fn)
	return true
}

func (t *timelineImpl) RequestFrame(fn func(now time.Time)) Handle {
	if fn == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed {
		return 0
	}
	t.nextID++
	t.frames = append(t.frames, frame{handle: t.nextID, fn: fn})
	return t.nextID
}

func (t *timelineImpl) Cancel(h Handle) bool {
	if h == 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, f := range t.frames {
		if f.handle == h {
			t.frames = append(t.frames[:i], t.frames[i+1:]...)
			return true
		}
	}
	return false
}

func (t *timelineImpl) Step(now time.Time) {
	t.mu.Lock()
	if t.disposed || t.stepping {
		t.mu.Unlock()
		return
	}
	t.stepping = true
	tasks := t.tasks
	t.tasks = nil
	cutoff := t.nextID
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.stepping = false
		t.steps++
		t.mu.Unlock()
	}()

	for _, task := range tasks {
		if t.Disposed() {
			return
		}
		task()
	}

	for {
		f, ok := t.nextFrame(cutoff)
		if !ok {
			return
		}
		f.fn(now)
	}
}

func (t *timelineImpl) Pending() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tasks), len(t.frames)
}

func (t *timelineImpl) Steps() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.steps
}

func (t *timelineImpl) Dispose() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disposed = true
	t.tasks = nil
	t.frames = nil
}

func (t *timelineImpl) Disposed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disposed
}

// --- internal helpers ---

// nextFrame removes and returns the oldest armed frame issued at or before cutoff. Frames stay queued until they
// are claimed so that a frame cancelled by an earlier callback in the same step never runs.
func (t *timelineImpl) nextFrame(cutoff Handle) (frame, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed || len(t.frames) == 0 || t.frames[0].handle > cutoff {
		return frame{}, false
	}
	f := t.frames[0]
	t.frames = t.frames[1:]
	return f, true
}
