package estimator

import "math"

// powerMargin is how much better (in R²) a power-law fit must be before it
// displaces the linear one.
const powerMargin = 0.02

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// rSquared returns the coefficient of determination, floored at 0.
// A constant y (no variance) yields 0.
func rSquared(y, yhat []float64) float64 {
	ybar := mean(y)

	var ssTot, ssRes float64
	for i := range y {
		ssTot += (y[i] - ybar) * (y[i] - ybar)
		ssRes += (y[i] - yhat[i]) * (y[i] - yhat[i])
	}

	if ssTot <= 0 {
		return 0
	}
	return math.Max(0, 1-ssRes/ssTot)
}

// leastSquares solves y = a + b*x.
func leastSquares(x, y []float64) (a, b float64) {
	xbar := mean(x)
	ybar := mean(y)

	var sxx, sxy float64
	for i := range x {
		dx := x[i] - xbar
		sxx += dx * dx
		sxy += dx * (y[i] - ybar)
	}

	// All x equal: flat line through the mean.
	if sxx <= 0 {
		return ybar, 0
	}

	b = sxy / sxx
	a = ybar - b*xbar
	return a, b
}

// fitLinear fits time = a + b*bytes.
func fitLinear(x, y []float64) *FitResult {
	a, b := leastSquares(x, y)

	yhat := make([]float64, len(x))
	for i, xi := range x {
		yhat[i] = a + b*xi
	}

	return &FitResult{
		Model:  ModelTypeLinear,
		Params: [2]float64{a, b},
		R2:     rSquared(y, yhat),
	}
}

// fitPower fits time = k * bytes^p in log-log space.
// Returns nil if any x or y is not positive.
func fitPower(x, y []float64) *FitResult {
	lx := make([]float64, len(x))
	ly := make([]float64, len(y))
	for i := range x {
		if x[i] <= 0 || y[i] <= 0 {
			return nil
		}
		lx[i] = math.Log(x[i])
		ly[i] = math.Log(y[i])
	}

	lnK, p := leastSquares(lx, ly)
	k := math.Exp(lnK)

	yhat := make([]float64, len(x))
	for i, xi := range x {
		yhat[i] = k * math.Pow(xi, p)
	}

	return &FitResult{
		Model:  ModelTypePower,
		Params: [2]float64{k, p},
		R2:     rSquared(y, yhat),
	}
}

// selectModel prefers linear unless power is clearly better.
func selectModel(linear, power *FitResult) *FitResult {
	if power != nil && power.R2 > linear.R2+powerMargin {
		return power
	}
	return linear
}
