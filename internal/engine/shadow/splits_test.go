package shadow

import (
	gomath "math"
	"testing"
)

func TestComputeSplitsInvariants(t *testing.T) {
	tests := []struct {
		name           string
		near, far, max float32
		splits         int
		factor         float32
	}{
		{"demo", 0.1, 50000, 2048, 5, 2.4},
		{"linear", 1, 100, 1000, 4, 0},
		{"half", 0.5, 300, 300, 3, 0.5},
		{"single", 0.1, 10, 10, 1, 1},
		{"max splits", 0.01, 1e5, 500, MaxSplits, 0.8},
		{"far below pssm distance", 0.1, 50, 2048, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSplits(tt.near, tt.far, tt.max, tt.splits, tt.factor)
			if len(got) != tt.splits+1 {
				t.Fatalf("len = %d, want %d", len(got), tt.splits+1)
			}
			if got[0] != tt.near {
				t.Errorf("first boundary = %v, want %v", got[0], tt.near)
			}
			want := min(tt.far, tt.max)
			if got[tt.splits] != want {
				t.Errorf("last boundary = %v, want %v", got[tt.splits], want)
			}
			for i := 1; i < len(got); i++ {
				if got[i] <= got[i-1] {
					t.Errorf("boundaries not strictly increasing at %d: %v", i, got)
				}
			}
		})
	}
}

func TestComputeSplitsLinear(t *testing.T) {
	near, far := float32(1), float32(101)
	got := ComputeSplits(near, far, 1000, 4, 0)

	for i, b := range got {
		want := near + (far-near)*float32(i)/4
		if !approx(b, want, 1e-4) {
			t.Errorf("boundary %d = %v, want %v", i, b, want)
		}
	}
}

func TestComputeSplitsLogarithmic(t *testing.T) {
	near, far := float32(0.1), float32(2048)
	got := ComputeSplits(near, far, far, 5, 1)

	for i, b := range got {
		want := float32(0.1 * gomath.Pow(2048/0.1, float64(i)/5))
		if !approx(b, want, want*1e-5) {
			t.Errorf("boundary %d = %v, want %v", i, b, want)
		}
	}
}

func TestComputeSplitsClampsFactor(t *testing.T) {
	above := ComputeSplits(0.1, 2048, 2048, 5, 2.4)
	one := ComputeSplits(0.1, 2048, 2048, 5, 1)
	below := ComputeSplits(0.1, 2048, 2048, 5, -3)
	zero := ComputeSplits(0.1, 2048, 2048, 5, 0)

	for i := range one {
		if above[i] != one[i] {
			t.Errorf("factor 2.4 boundary %d = %v, want %v", i, above[i], one[i])
		}
		if below[i] != zero[i] {
			t.Errorf("factor -3 boundary %d = %v, want %v", i, below[i], zero[i])
		}
	}
}

func TestComputeSplitsDegenerateRange(t *testing.T) {
	tests := []struct {
		name        string
		near, far   float32
		maxDistance float32
		splits      int
		wantLast    float32
	}{
		{name: "collapsed", near: 5, far: 5, maxDistance: 1000, splits: 4},
		{name: "inverted", near: 10, far: 2, maxDistance: 1000, splits: 4},
		{name: "zero near", near: 0, far: 100, maxDistance: 1000, splits: 4},
		// The minimum depth per split wins over the distance bound.
		{name: "distance below near", near: 0.1, far: 2048, maxDistance: 0.05, splits: 8, wantLast: 0.108},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSplits(tt.near, tt.far, tt.maxDistance, tt.splits, 0.7)
			for i := 1; i < len(got); i++ {
				if !(got[i] > got[i-1]) {
					t.Errorf("boundaries not strictly increasing: %v", got)
				}
			}
			for _, b := range got {
				if gomath.IsNaN(float64(b)) || gomath.IsInf(float64(b), 0) {
					t.Fatalf("non-finite boundary in %v", got)
				}
			}
			if tt.wantLast != 0 && !approx(got[tt.splits], tt.wantLast, 1e-6) {
				t.Errorf("last boundary = %v, want %v", got[tt.splits], tt.wantLast)
			}
		})
	}
}
