package etas

import "math"

// The samplers below all use the inversion method: one fresh uniform(0,1)
// draw q mapped through the closed-form inverse of the relevant survival
// function. No rejection or thinning is needed because the Omori-Utsu
// power-law intensity integrates in closed form.

// nextBackground returns the next background occurrence after the lower
// bound tl. Background events form a homogeneous Poisson process of rate
// mu0, so the waiting time is exponential.
func (pr *process) nextBackground(q, tl float64) float64 {
	return tl - math.Log(q)/pr.mu0
}

// drawMagnitude returns a magnitude from the Gutenberg-Richter law truncated
// to [Mmin, Mmax] (an exponential with rate beta restricted to the interval).
func (pr *process) drawMagnitude(q float64) float64 {
	return pr.mmin - math.Log(1.0-q*pr.gutenbergSpan)/pr.beta
}

// excitation is the magnitude-dependent productivity scaling f(M) of a
// source: earthquakes above the reference magnitude trigger more offspring.
func (pr *process) excitation(m float64) float64 {
	return math.Exp(pr.beta * (m - pr.mref))
}

// tailIntensity is the integral of a source's Omori-Utsu intensity from the
// lower bound tl to infinity:
//
//	Λ_∞ = f(Mi) * Tref * FK / (p-1) * ((tl - ti + c)/Tref)^(1-p)
//
// With fk = K/Tref^p the Tref factors cancel and this equals
// K * (tl - ti + c)^(1-p) / (p-1), the tail mass of the triggering kernel.
func (pr *process) tailIntensity(ti, tl, mi float64) float64 {
	onemp := 1.0 - pr.p
	return -pr.excitation(mi) * pr.tref * pr.fk / onemp *
		math.Pow((tl-ti+pr.c)/pr.tref, onemp)
}

// nextOccurrence inverts the conditional survival function of a source's
// non-homogeneous Poisson process from tl onward, conditioned on no earlier
// occurrence since tl. The second return is false when the draw falls in the
// survival tail exp(-Λ_∞): the source produces no further descendant within
// finite time and must be retired.
func (pr *process) nextOccurrence(q, ti, mi, tl float64) (float64, bool) {
	if q <= math.Exp(-pr.tailIntensity(ti, tl, mi)) {
		return 0, false
	}

	// A factor Tref^(1-p) is extracted from the outer logarithm. The first
	// summand already carries that exponent, so dividing by Tref suffices.
	// For the second summand note K = fk * Tref^p, hence
	// (1/K) / Tref^(1-p) = 1 / (fk * Tref).
	onemp := 1.0 - pr.p
	return ti - pr.c + pr.tref*math.Exp(
		1.0/onemp*math.Log(
			math.Pow((tl-ti+pr.c)/pr.tref, onemp)-
				onemp/(pr.excitation(mi)*pr.fk*pr.tref)*math.Log(q),
		),
	), true
}
