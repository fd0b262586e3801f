package estimator

import (
	"math"
	"testing"
)

func feedLinear(e *Estimator, sizes []int64, a, b float64) {
	for _, n := range sizes {
		e.AddSample(Sample{InputBytes: n, WallTime: a + b*float64(n)})
	}
}

func TestEstimator_NewIsUnfit(t *testing.T) {
	e := New()
	if e.Fit() != nil {
		t.Error("expected no fit on a new estimator")
	}
	if e.Len() != 0 {
		t.Errorf("expected 0 samples, got %d", e.Len())
	}
	if _, ok := e.PredictTime(1000); ok {
		t.Error("expected no prediction while unfit")
	}
	if _, ok := e.EstimateRemaining([]int64{1000}); ok {
		t.Error("expected no estimate while unfit")
	}
}

func TestEstimator_AddSampleRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		sample Sample
		accept bool
	}{
		{"valid", Sample{InputBytes: 10, WallTime: 0.1}, true},
		{"zero time", Sample{InputBytes: 10, WallTime: 0}, true},
		{"zero bytes", Sample{InputBytes: 0, WallTime: 0.1}, false},
		{"negative bytes", Sample{InputBytes: -5, WallTime: 0.1}, false},
		{"negative time", Sample{InputBytes: 10, WallTime: -0.1}, false},
		{"nan time", Sample{InputBytes: 10, WallTime: math.NaN()}, false},
		{"inf time", Sample{InputBytes: 10, WallTime: math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			e.AddSample(tt.sample)
			got := e.Len() == 1
			if got != tt.accept {
				t.Errorf("expected accept=%v, got %v", tt.accept, got)
			}
		})
	}
}

func TestEstimator_SamplesKeepArrivalOrder(t *testing.T) {
	e := New()
	for _, n := range []int64{30, 10, 20} {
		e.AddSample(Sample{InputBytes: n, WallTime: 0.01})
	}

	samples := e.Samples()
	want := []int64{30, 10, 20}
	for i, s := range samples {
		if s.InputBytes != want[i] {
			t.Errorf("sample %d: expected %d bytes, got %d", i, want[i], s.InputBytes)
		}
	}

	// Returned slice is a copy.
	samples[0].InputBytes = 999
	if e.Samples()[0].InputBytes != 30 {
		t.Error("Samples must return a copy")
	}
}

func TestEstimator_FitNeedsTwoUsableSamples(t *testing.T) {
	e := New()
	e.AddSample(Sample{InputBytes: 100, WallTime: 0.5})
	// Zero time is stored but not usable for fitting.
	e.AddSample(Sample{InputBytes: 200, WallTime: 0})

	if fit := e.FitFromFirstN(6); fit != nil {
		t.Fatalf("expected nil fit, got %+v", fit)
	}
	if e.Fit() != nil {
		t.Error("expected estimator to stay unfit")
	}
}

func TestEstimator_FitClearsPreviousFitWhenInsufficient(t *testing.T) {
	e := New()
	feedLinear(e, []int64{100, 200, 300}, 0.1, 0.001)
	if e.FitFromFirstN(6) == nil {
		t.Fatal("expected a fit")
	}

	// A fresh estimator with too few samples drops back to unfit.
	e2 := New()
	e2.fit = e.Fit()
	e2.AddSample(Sample{InputBytes: 100, WallTime: 0.1})
	if e2.FitFromFirstN(6) != nil {
		t.Error("expected nil fit")
	}
	if e2.Fit() != nil {
		t.Error("expected fit to be cleared")
	}
}

func TestEstimator_LinearScenario(t *testing.T) {
	e := New()
	// t = 0.05 + 2e-6 * n
	feedLinear(e, []int64{10_000, 50_000, 100_000, 200_000, 400_000, 800_000}, 0.05, 2e-6)

	fit := e.FitFromFirstN(6)
	if fit == nil {
		t.Fatal("expected a fit")
	}
	if fit.Model != ModelTypeLinear {
		t.Errorf("expected linear model, got %s", fit.Model)
	}
	if math.Abs(fit.R2-1) > 1e-9 {
		t.Errorf("expected r2 ~1, got %f", fit.R2)
	}

	pred, ok := e.PredictTime(300_000)
	if !ok {
		t.Fatal("expected a prediction")
	}
	expected := 0.05 + 2e-6*300_000
	if math.Abs(pred-expected) > 0.05 {
		t.Errorf("expected %f, got %f", expected, pred)
	}
}

func TestEstimator_PowerScenario(t *testing.T) {
	e := New()
	sizes := []int64{5_000, 20_000, 80_000, 200_000, 600_000, 1_200_000}
	// t = 1e-4 * n^0.5
	for _, n := range sizes {
		e.AddSample(Sample{InputBytes: n, WallTime: 1e-4 * math.Pow(float64(n), 0.5)})
	}

	fit := e.FitFromFirstN(6)
	if fit == nil {
		t.Fatal("expected a fit")
	}
	if fit.Model != ModelTypePower {
		t.Errorf("expected power model, got %s", fit.Model)
	}

	pred, ok := e.PredictTime(500_000)
	if !ok {
		t.Fatal("expected a prediction")
	}
	ratio := pred / (1e-4 * math.Pow(500_000, 0.5))
	if ratio < 0.5 || ratio > 1.5 {
		t.Errorf("prediction ratio out of range: %f", ratio)
	}
}

func TestEstimator_NearLinearPowerStaysLinear(t *testing.T) {
	e := New()
	sizes := []int64{5_000, 20_000, 80_000, 200_000, 600_000, 1_200_000}
	// t = 1e-4 * n^0.9; power is better but not by the margin.
	for _, n := range sizes {
		e.AddSample(Sample{InputBytes: n, WallTime: 1e-4 * math.Pow(float64(n), 0.9)})
	}

	fit := e.FitFromFirstN(6)
	if fit == nil {
		t.Fatal("expected a fit")
	}
	if fit.Model != ModelTypeLinear {
		t.Errorf("expected linear model, got %s", fit.Model)
	}

	pred, _ := e.PredictTime(500_000)
	ratio := pred / (1e-4 * math.Pow(500_000, 0.9))
	if ratio < 0.5 || ratio > 1.5 {
		t.Errorf("prediction ratio out of range: %f", ratio)
	}
}

func TestEstimator_FitUsesFirstNOnly(t *testing.T) {
	e := New()
	feedLinear(e, []int64{100, 200, 300}, 0, 0.01)
	// Outliers after the window must not influence the fit.
	feedLinear(e, []int64{400, 500}, 100, 0)

	fit := e.FitFromFirstN(3)
	if fit == nil {
		t.Fatal("expected a fit")
	}
	if math.Abs(fit.Params[1]-0.01) > 1e-9 {
		t.Errorf("expected slope 0.01, got %f", fit.Params[1])
	}
}

func TestEstimator_FitMinimumWindowIsTwo(t *testing.T) {
	e := New()
	feedLinear(e, []int64{100, 200, 300}, 0, 0.01)
	feedLinear(e, []int64{400}, 50, 0)

	for _, n := range []int{-1, 0, 1} {
		fit := e.FitFromFirstN(n)
		if fit == nil {
			t.Fatalf("n=%d: expected a fit", n)
		}
		if math.Abs(fit.Params[1]-0.01) > 1e-9 {
			t.Errorf("n=%d: expected slope from first two samples, got %f", n, fit.Params[1])
		}
	}
}

func TestEstimator_RefitReplacesFit(t *testing.T) {
	e := New()
	feedLinear(e, []int64{100, 200}, 0, 0.01)
	first := e.FitFromFirstN(2)

	feedLinear(e, []int64{300, 400}, 0, 0.05)
	second := e.FitFromFirstN(4)

	if first == second {
		t.Fatal("expected a new fit value")
	}
	if e.Fit() != second {
		t.Error("expected current fit to be the latest")
	}
	if math.Abs(first.Params[1]-0.01) > 1e-9 {
		t.Error("earlier fit must not change")
	}
}

func TestEstimator_ConstantSizeUsesMean(t *testing.T) {
	e := New()
	for _, y := range []float64{1, 2, 3} {
		e.AddSample(Sample{InputBytes: 100, WallTime: y})
	}

	fit := e.FitFromFirstN(3)
	if fit == nil {
		t.Fatal("expected a fit")
	}
	if fit.Model != ModelTypeLinear {
		t.Fatalf("expected linear, got %s", fit.Model)
	}
	if fit.Params[1] != 0 || math.Abs(fit.Params[0]-2) > 1e-12 {
		t.Errorf("expected intercept 2 slope 0, got %v", fit.Params)
	}
}

func TestEstimator_PredictClampsNegative(t *testing.T) {
	e := New()
	// t = -1 + 0.01 * n, negative for n < 100
	feedLinear(e, []int64{200, 300, 400}, -1, 0.01)
	e.FitFromFirstN(3)

	pred, ok := e.PredictTime(10)
	if !ok {
		t.Fatal("expected a prediction")
	}
	if pred != 0 {
		t.Errorf("expected clamped 0, got %f", pred)
	}

	if _, ok := e.PredictTime(0); ok {
		t.Error("expected no prediction for zero bytes")
	}
}

func TestEstimator_EstimateRemainingSumsPredictions(t *testing.T) {
	e := New()
	feedLinear(e, []int64{10_000, 20_000, 30_000, 40_000, 50_000, 60_000}, 0, 0.001)
	e.FitFromFirstN(6)

	remaining := []int64{1_000, 2_000, 3_000}
	total, ok := e.EstimateRemaining(remaining)
	if !ok {
		t.Fatal("expected an estimate")
	}

	var sum float64
	for _, n := range remaining {
		p, _ := e.PredictTime(n)
		sum += p
	}
	if math.Abs(total-sum) > 1e-9 {
		t.Errorf("expected %f, got %f", sum, total)
	}
	if math.Abs(total-6.0) > 1e-6 {
		t.Errorf("expected 6.0, got %f", total)
	}
}

func TestEstimator_EstimateRemainingPartial(t *testing.T) {
	e := New()
	feedLinear(e, []int64{100, 200, 300}, 0, 0.01)
	e.FitFromFirstN(3)

	total, ok := e.EstimateRemaining([]int64{0, -1, 100})
	if !ok {
		t.Fatal("expected a partial estimate")
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("expected 1.0, got %f", total)
	}

	if _, ok := e.EstimateRemaining([]int64{0, -1}); ok {
		t.Error("expected no estimate when nothing is predictable")
	}
	if _, ok := e.EstimateRemaining(nil); ok {
		t.Error("expected no estimate for empty input")
	}
}

func TestEstimator_EstimateRemainingMonotone(t *testing.T) {
	e := New()
	feedLinear(e, []int64{10_000, 50_000, 100_000, 200_000, 400_000, 800_000}, 0.05, 2e-6)
	e.FitFromFirstN(6)

	small, _ := e.EstimateRemaining([]int64{10_000, 10_000})
	big, _ := e.EstimateRemaining([]int64{100_000, 100_000})
	if big <= small {
		t.Errorf("expected %f > %f", big, small)
	}
}

func TestEstimator_ShouldRefitCadence(t *testing.T) {
	e := New()
	for i := 1; i <= 20; i++ {
		e.AddSample(Sample{InputBytes: int64(10_000 + i), WallTime: 0.005})
		want := i == 6 || i == 15 || i == 16
		if got := e.ShouldRefit(); got != want {
			t.Errorf("at %d samples: expected %v, got %v", i, want, got)
		}
	}
}

func TestEstimator_RejectedSamplesDoNotAdvanceCadence(t *testing.T) {
	e := New()
	for i := 0; i < 5; i++ {
		e.AddSample(Sample{InputBytes: 100, WallTime: 0.01})
	}
	e.AddSample(Sample{InputBytes: 0, WallTime: 0.01})
	if e.ShouldRefit() {
		t.Error("rejected sample must not count")
	}
	e.AddSample(Sample{InputBytes: 100, WallTime: 0.01})
	if !e.ShouldRefit() {
		t.Error("expected refit at 6 accepted samples")
	}
}
