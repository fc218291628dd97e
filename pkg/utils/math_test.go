package utils

import (
	"math"
	"testing"
)

func TestNormalizeL2(t *testing.T) {
	v := []float32{3, 4}
	if !NormalizeL2(v) {
		t.Fatal("expected normalization to happen")
	}
	if math.Abs(L2Norm(v)-1.0) > 1e-6 {
		t.Errorf("norm after normalize = %f", L2Norm(v))
	}
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("unexpected components: %v", v)
	}
}

func TestNormalizeL2_ZeroVector(t *testing.T) {
	v := []float32{0, 0, 0}
	if NormalizeL2(v) {
		t.Error("zero vector must not normalize")
	}
	for _, c := range v {
		if c != 0 {
			t.Errorf("zero vector changed: %v", v)
		}
	}
}
