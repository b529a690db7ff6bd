package looper

import "testing"

func TestQuantize(t *testing.T) {
	step := 0.5 / 4 // beat_length 0.5s (bpm 120), quantize 4

	tests := []struct {
		name  string
		clock float64
		want  float64
	}{
		{"below midpoint snaps down", 0.137, 0.125},
		{"above midpoint snaps up", 0.200, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Quantize(tt.clock, step)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Quantize(%v, %v) = %v, want %v", tt.clock, step, got, tt.want)
			}
		})
	}
}

func TestSnapToGridIdempotent(t *testing.T) {
	step := 0.125
	for _, c := range []float64{0.0, 0.049, 0.063, 0.2, -0.01, 1.9999} {
		once := snapToGrid(c, step)
		twice := snapToGrid(once, step)
		if once != twice {
			t.Errorf("snapToGrid(%v) = %v, snapToGrid(that) = %v, want idempotent", c, once, twice)
		}
	}
}

func TestSnapToGridZeroStep(t *testing.T) {
	if got := snapToGrid(0.42, 0); got != 0.42 {
		t.Errorf("snapToGrid(0.42, 0) = %v, want 0.42 (no-op)", got)
	}
}
