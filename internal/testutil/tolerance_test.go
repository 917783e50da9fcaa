package testutil

import "testing"

func TestArgMax(t *testing.T) {
	if got := ArgMax(nil); got != -1 {
		t.Fatalf("ArgMax(nil) = %d, want -1", got)
	}
	if got := ArgMax([]float64{1, 5, 5, 2}); got != 1 {
		t.Fatalf("ArgMax = %d, want 1", got)
	}
}

func TestRequireHelpersPass(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{1, 2}, []float64{1, 2.0000001}, 1e-6)
	RequireFinite(t, []float64{0, -1, 1e300})
}
