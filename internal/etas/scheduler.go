package etas

import (
	"container/heap"
	"math/rand/v2"
)

// Event is one realized earthquake: simulated occurrence time and magnitude.
// Events are emitted in strictly increasing time order (almost surely, since
// all waiting times are continuous draws).
type Event struct {
	Time      float64
	Magnitude float64
}

// scheduler merges two lanes of pending occurrences - the scalar next
// background time and a min-heap of active excitation sources - into one
// globally time-ordered event stream.
//
// Each call to next consumes exactly three uniform variates, in this order:
//  1. redraw of the lane that fired (background redraw, or re-arm of the
//     popped source with the advanced lower bound);
//  2. magnitude of the new event;
//  3. spawn attempt for the new event's own excitation source.
//
// This fixed per-event draw count is what makes seeded runs reproducible;
// do not reorder or conditionally skip draws.
type scheduler struct {
	proc    process
	rng     *rand.Rand
	t       float64 // current simulated time
	nextBG  float64 // background lane: next pending occurrence
	sources sourceHeap
}

// newScheduler initializes the state at the time origin: no active sources,
// background lane armed with a draw from lower bound t = 0.
func newScheduler(proc process, rng *rand.Rand) *scheduler {
	s := &scheduler{proc: proc, rng: rng}
	s.nextBG = proc.nextBackground(rng.Float64(), 0)
	return s
}

// next produces the next event of the process. There is no terminal state -
// the process runs indefinitely and the caller bounds the run length.
func (s *scheduler) next() Event {
	if len(s.sources) == 0 || s.nextBG < s.sources[0].tnext {
		// Background event. Advance the clock, then re-arm the lane.
		s.t = s.nextBG
		s.nextBG = s.proc.nextBackground(s.rng.Float64(), s.t)
	} else {
		// Offspring event from the earliest active source. Re-arm the source
		// in place when a finite next candidate exists, retire it otherwise.
		src := s.sources[0]
		s.t = src.tnext
		if tnext, ok := s.proc.nextOccurrence(s.rng.Float64(), src.ti, src.mag, s.t); ok {
			s.sources[0].tnext = tnext
			heap.Fix(&s.sources, 0)
		} else {
			heap.Pop(&s.sources)
		}
	}

	m := s.proc.drawMagnitude(s.rng.Float64())

	// The new earthquake may spawn its own excitation source.
	if tnext, ok := s.proc.nextOccurrence(s.rng.Float64(), s.t, m, s.t); ok {
		heap.Push(&s.sources, source{ti: s.t, mag: m, tnext: tnext})
	}

	return Event{Time: s.t, Magnitude: m}
}

// active reports the number of not-yet-retired excitation sources. The
// population fluctuates with the branching ratio but stays finite in
// expectation while the process is subcritical.
func (s *scheduler) active() int {
	return len(s.sources)
}
