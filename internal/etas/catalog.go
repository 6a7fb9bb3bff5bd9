package etas

import "math/rand/v2"

// Catalog is a simulated earthquake catalog: two equal-length sequences of
// occurrence times and magnitudes, ordered by time.
type Catalog struct {
	Times      []float64
	Magnitudes []float64
}

// Len returns the number of events in the catalog.
func (c Catalog) Len() int {
	return len(c.Times)
}

// Generate simulates the ETAS process and fills the caller-allocated mags
// and times buffers, in increasing-time order, with len(times) events.
//
// The first nskip events are produced and discarded. This burn-in lets the
// active-source population reach a representative state instead of starting
// from the artificial empty-queue condition at time zero; it is a plain
// fixed-count discard, not a stationarity test.
//
// The pseudo-random generator is a PCG seeded deterministically from seed,
// consumed in a fixed order (see scheduler): identical parameters, seed,
// nskip and buffer length reproduce the identical catalog bit-for-bit.
//
// Errors: INVALID_PARAMETER for out-of-range process parameters,
// SIZE_MISMATCH when the two buffers differ in length. Both are raised
// before the first draw; the buffers are left untouched on failure.
func Generate(par Params, nskip int, seed uint64, mags, times []float64) error {
	proc, err := newProcess(par)
	if err != nil {
		return err
	}
	if len(mags) != len(times) {
		return newSizeMismatch(len(mags), len(times))
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	s := newScheduler(proc, rng)

	for n := 0; n < nskip; n++ {
		s.next()
	}
	for i := range times {
		ev := s.next()
		times[i] = ev.Time
		mags[i] = ev.Magnitude
	}
	return nil
}

// Simulate is the allocating convenience wrapper around Generate.
func Simulate(par Params, n, nskip int, seed uint64) (Catalog, error) {
	cat := Catalog{
		Times:      make([]float64, n),
		Magnitudes: make([]float64, n),
	}
	if err := Generate(par, nskip, seed, cat.Magnitudes, cat.Times); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}
