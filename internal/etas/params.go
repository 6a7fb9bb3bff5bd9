package etas

import "math"

// refTimeScale is the reference time scale Tref used to normalize the
// Omori-Utsu productivity constant. All power expressions operate on time
// differences divided by Tref, which keeps intermediate values dimensionless
// and well-scaled. The value is arbitrary but must stay fixed; 1.0 means
// "one caller time unit".
const refTimeScale = 1.0

// Params are the user-facing inputs of the temporal ETAS process.
//
// Rates and times must share one consistent unit system: Mu0 is events per
// time unit, C is in time units, and the emitted catalog times are in the
// same unit. The package itself is agnostic to the concrete unit.
type Params struct {
	// Mu0 is the homogeneous Poisson background rate (events per time unit).
	Mu0 float64

	// MMin and MMax bound the truncated Gutenberg-Richter magnitude
	// distribution. MMin < MMax is required.
	MMin float64
	MMax float64

	// Beta is the Gutenberg-Richter exponential rate (> 0).
	Beta float64

	// P is the Omori-Utsu power-law exponent (> 1, strictly).
	P float64

	// C is the Omori-Utsu time offset (> 0, in time units).
	C float64

	// MRef is the reference magnitude that normalizes the magnitude-dependent
	// productivity scaling exp(Beta*(M - MRef)).
	MRef float64

	// OffspringFraction is the branching ratio: the expected number of direct
	// offspring per earthquake. Must lie in [0,1); at 1 the branching process
	// turns critical and the expected catalog size diverges.
	OffspringFraction float64
}

// Validate checks the parameter ranges the simulation depends on.
// Returns a ParamError with code INVALID_PARAMETER on the first violation.
func (p Params) Validate() error {
	if p.MMin >= p.MMax {
		return newInvalidParameter("MMin", "Mmin >= Mmax")
	}
	if p.P <= 1.0 {
		return newInvalidParameter("P", "p <= 1")
	}
	if p.OffspringFraction >= 1.0 {
		return newInvalidParameter("OffspringFraction", "unstable process (branching ratio >= 1)")
	}
	if p.OffspringFraction < 0.0 {
		return newInvalidParameter("OffspringFraction", "branching ratio needs to be non-negative")
	}
	return nil
}

// Productivity returns the Omori-Utsu productivity constant implied by the
// parameter set: the normalization at which the expected number of direct
// offspring per earthquake equals OffspringFraction. Zero branching ratio
// yields zero productivity.
func (p Params) Productivity() (float64, error) {
	pr, err := newProcess(p)
	if err != nil {
		return 0, err
	}
	return pr.fk, nil
}

// process holds the normalized quantities the samplers work with, computed
// once per run.
//
// fk is the frequency K / Tref^p derived from the K of Ogata (1988) and the
// reference time scale. Working with fk instead of K itself avoids carrying
// fractional time units through the power expressions.
type process struct {
	mu0  float64
	tref float64
	c    float64
	beta float64
	mref float64
	p    float64
	mmin float64
	mmax float64
	fk   float64

	// gutenbergSpan caches 1 - exp(-beta*(Mmax-Mmin)), the truncation mass
	// of the magnitude distribution, reused on every magnitude draw.
	gutenbergSpan float64
}

// newProcess validates the inputs and derives the productivity constant fk
// such that the expected number of direct offspring per earthquake,
// integrated over all future time and the magnitude distribution, equals
// OffspringFraction.
func newProcess(par Params) (process, error) {
	if err := par.Validate(); err != nil {
		return process{}, err
	}

	pr := process{
		mu0:           par.Mu0,
		tref:          refTimeScale,
		c:             par.C,
		beta:          par.Beta,
		mref:          par.MRef,
		p:             par.P,
		mmin:          par.MMin,
		mmax:          par.MMax,
		gutenbergSpan: 1.0 - math.Exp(-par.Beta*(par.MMax-par.MMin)),
	}
	pr.fk = par.OffspringFraction * criticalFK(pr)
	return pr, nil
}

// criticalFK is the productivity constant at which the branching process
// turns critical (one expected offspring per earthquake):
//
//	(p-1) * c^(p-1) * (1 - exp(-beta*(Mmax-Mmin)))
//	  / (beta * exp(beta*(Mmin-Mr)) * (Mmax-Mmin))
//	  / Tref^p
//
// The c^(p-1)/Tref^p factor is evaluated as exp(p*log(c/Tref))/c so only the
// dimensionless ratio c/Tref is ever raised to a power.
func criticalFK(pr process) float64 {
	return (pr.p - 1.0) *
		math.Exp(pr.p*math.Log(pr.c/pr.tref)) / pr.c *
		pr.gutenbergSpan /
		(pr.beta * math.Exp(pr.beta*(pr.mmin-pr.mref)) * (pr.mmax - pr.mmin))
}
