package localize

import "math"

// quantizeEps is the offset the simulator adds before taking the logarithm.
const quantizeEps = 1.0e-10

// displayStep is the precision of the distances printed by the simulator.
const displayStep = 0.1

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64
	Max float64
}

// Mid returns the centre of the interval.
func (r Range) Mid() float64 { return (r.Min + r.Max) / 2 }

// HalfWidth returns half the interval length.
func (r Range) HalfWidth() float64 { return (r.Max - r.Min) / 2 }

// Contains reports whether v lies in the interval.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// QuantizeDistance reproduces the simulator's distance noise model: the
// logarithm of the distance is rounded to qstep, and the result is printed
// with one decimal.
func QuantizeDistance(dist, qstep float64) float64 {
	k := math.Round(math.Log(dist+quantizeEps) / qstep)
	return math.Round(math.Exp(k*qstep)/displayStep) * displayStep
}

// UnquantizeDistance maps a reported distance to the interval of true
// distances that could have produced it.
func UnquantizeDistance(seen, qstep float64) Range {
	lo := math.Max(seen-displayStep/2, quantizeEps)
	hi := seen + displayStep/2

	kmin := math.Ceil(math.Log(lo) / qstep)
	kmax := math.Floor(math.Log(hi) / qstep)
	if kmin > kmax {
		k := math.Round(math.Log(seen+quantizeEps) / qstep)
		kmin, kmax = k, k
	}

	return Range{
		Min: math.Max(0, math.Exp((kmin-0.5)*qstep)-quantizeEps),
		Max: math.Exp((kmax+0.5)*qstep) - quantizeEps,
	}
}

// UnquantizeDirection maps a reported direction (degrees, rounded to step)
// to its interval.
func UnquantizeDirection(seen, step float64) Range {
	return Range{Min: seen - step/2, Max: seen + step/2}
}
