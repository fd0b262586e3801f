package estimator

import "math"

// ModelType represents the shape of a fitted timing model.
type ModelType string

const (
	// ModelTypeLinear - time = a + b*bytes.
	ModelTypeLinear ModelType = "linear"
	// ModelTypePower - time = k * bytes^p.
	ModelTypePower ModelType = "power"
)

// IsValid checks if the model type is valid.
func (m ModelType) IsValid() bool {
	switch m {
	case ModelTypeLinear, ModelTypePower:
		return true
	}
	return false
}

// String returns string representation.
func (m ModelType) String() string {
	return string(m)
}

// Sample is one benchmark observation.
type Sample struct {
	// InputBytes is the uncompressed size of the item(s) being compressed.
	InputBytes int64 `json:"input_bytes"`
	// WallTime is the wall clock time spent, in seconds.
	WallTime float64 `json:"wall_time_s"`
	// OutputBytes is the compressed size, 0 if unknown.
	OutputBytes int64 `json:"output_bytes,omitempty"`
}

// valid reports whether the sample may be stored at all.
func (s Sample) valid() bool {
	if s.InputBytes <= 0 {
		return false
	}
	if math.IsNaN(s.WallTime) || math.IsInf(s.WallTime, 0) {
		return false
	}
	return s.WallTime >= 0
}

// usable reports whether the sample may take part in a fit.
func (s Sample) usable() bool {
	return s.InputBytes > 0 && s.WallTime > 0
}

// FitResult is the outcome of one fit. It is never modified after creation.
//
// Params holds (a, b) for linear and (k, p) for power.
type FitResult struct {
	Model  ModelType  `json:"model"`
	Params [2]float64 `json:"params"`
	R2     float64    `json:"r2"`
}

// Eval evaluates the model at x without clamping.
func (f *FitResult) Eval(x float64) float64 {
	switch f.Model {
	case ModelTypeLinear:
		return f.Params[0] + f.Params[1]*x
	case ModelTypePower:
		return f.Params[0] * math.Pow(x, f.Params[1])
	default:
		return math.NaN()
	}
}
