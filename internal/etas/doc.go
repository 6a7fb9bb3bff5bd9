// Package etas simulates synthetic earthquake catalogs from a temporal
// Epidemic-Type Aftershock Sequence (ETAS) point process: a self-exciting
// Hawkes process with a homogeneous Poisson background, Omori-Utsu power-law
// triggering, and a truncated Gutenberg-Richter magnitude distribution.
//
// ARCHITECTURE:
//
// Branching-Process Simulation:
// Every earthquake may spawn an excitation source, a lane of candidate
// future offspring rooted at that event. The scheduler merges the background
// lane and all active sources into one strictly time-ordered stream by
// keeping a min-heap of per-source candidate times next to a scalar "next
// background occurrence". The offspring tree is unbounded in principle, so
// sources are expanded lazily: each source carries exactly one pending
// candidate time and is re-armed only when that candidate is realized.
//
// Inversion Sampling:
// All waiting times and magnitudes come from closed-form inverses of the
// relevant survival functions. There is no rejection or thinning loop -
// every draw either yields a finite time or the well-defined "no further
// occurrence", so once parameters validate the simulation cannot fail.
//
// CRITICAL PATTERNS:
//
// Fixed Draw Order:
// The scheduler consumes exactly three uniform variates per produced event,
// always in the same order: one to redraw the lane that fired (background
// redraw or source re-arm), one for the new event's magnitude, one for the
// new event's own spawn attempt. Seeded runs are reproducible only because
// this order never varies; see scheduler_test.go.
//
// Single Writer:
// The whole process is an inherently serial stochastic recurrence. The heap
// and the background lane are owned exclusively by the scheduler; nothing
// here is safe for concurrent use, and nothing needs to be.
package etas
