// Package estimator predicts how long the rest of a benchmark run will take.
//
// It collects (input bytes, wall time) samples in arrival order, fits either a
// linear (a + b*n) or a power-law (k*n^p) model to the first few of them, and
// sums per-job predictions into an ETA. A fit is only ever replaced, never
// merged with an earlier one.
package estimator

import "math"

// refitPoints are the sample counts at which a caller should refit.
var refitPoints = map[int]bool{6: true, 15: true, 16: true}

// Estimator holds the ordered samples and at most one current fit.
//
// It is not safe for concurrent mutation; a single owner must feed it.
type Estimator struct {
	samples []Sample
	fit     *FitResult
}

// New creates an empty, unfit estimator.
func New() *Estimator {
	return &Estimator{}
}

// AddSample appends a sample. Samples with a non-positive size or a negative
// or non-finite time are dropped silently.
func (e *Estimator) AddSample(s Sample) {
	if !s.valid() {
		return
	}
	e.samples = append(e.samples, s)
}

// Len returns the number of accepted samples.
func (e *Estimator) Len() int {
	return len(e.samples)
}

// Samples returns a copy of the accepted samples in arrival order.
func (e *Estimator) Samples() []Sample {
	out := make([]Sample, len(e.samples))
	copy(out, e.samples)
	return out
}

// Fit returns the current fit, or nil when unfit.
func (e *Estimator) Fit() *FitResult {
	return e.fit
}

// FitFromFirstN fits both models to the first max(2, n) usable samples and
// stores the better one. With fewer than 2 usable samples the estimator
// becomes unfit and nil is returned.
func (e *Estimator) FitFromFirstN(n int) *FitResult {
	usable := make([]Sample, 0, len(e.samples))
	for _, s := range e.samples {
		if s.usable() {
			usable = append(usable, s)
		}
	}

	if len(usable) < 2 {
		e.fit = nil
		return nil
	}

	if n < 2 {
		n = 2
	}
	if n < len(usable) {
		usable = usable[:n]
	}

	x := make([]float64, len(usable))
	y := make([]float64, len(usable))
	for i, s := range usable {
		x[i] = float64(s.InputBytes)
		y[i] = s.WallTime
	}

	e.fit = selectModel(fitLinear(x, y), fitPower(x, y))
	return e.fit
}

// PredictTime returns the predicted seconds to process inputBytes.
// ok is false when unfit or inputBytes is not positive.
func (e *Estimator) PredictTime(inputBytes int64) (seconds float64, ok bool) {
	if e.fit == nil || inputBytes <= 0 {
		return 0, false
	}

	t := e.fit.Eval(float64(inputBytes))
	if math.IsNaN(t) {
		return 0, false
	}
	// A fitted line can dip below zero for small inputs.
	if t < 0 {
		t = 0
	}
	return t, true
}

// EstimateRemaining sums predictions over sizes, skipping unpredictable ones.
// ok is false when unfit or when no size could be predicted.
func (e *Estimator) EstimateRemaining(sizes []int64) (seconds float64, ok bool) {
	if e.fit == nil {
		return 0, false
	}

	var total float64
	for _, n := range sizes {
		t, predicted := e.PredictTime(n)
		if !predicted {
			continue
		}
		ok = true
		total += t
	}

	if !ok {
		return 0, false
	}
	return total, true
}

// ShouldRefit reports whether the sample count sits on the refit cadence
// (a coarse fit at 6 samples, refinement at 15 and 16).
func (e *Estimator) ShouldRefit() bool {
	return refitPoints[len(e.samples)]
}
