package stagger

import (
	"math"
	"testing"

	"github.com/mhuels/posterforge/pkg/errors"
)

const epsilon = 1e-9

func TestParseKind(t *testing.T) {
	for _, s := range []string{"none", "alternating", "staircase"} {
		if _, err := ParseKind(s); err != nil {
			t.Errorf("ParseKind(%q) = %v, want nil", s, err)
		}
	}

	_, err := ParseKind("wave")
	if !errors.Is(err, errors.ErrCodeInvalidStagger) {
		t.Errorf("ParseKind(wave) error = %v, want INVALID_STAGGER", err)
	}
}

func TestNoneAlwaysZero(t *testing.T) {
	p := Policy{Kind: None, Step: 0.3}
	for i := 0; i < 5; i++ {
		if got := p.Offset(i, 5); got != 0 {
			t.Errorf("Offset(%d, 5) = %v, want 0", i, got)
		}
	}
}

func TestAlternatingSumsToZero(t *testing.T) {
	p := Policy{Kind: Alternating, Step: 0.3}

	for _, n := range []int{1, 2, 3, 4, 5, 6, 7, 8} {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += p.Offset(i, n)
		}
		if math.Abs(sum) > epsilon {
			t.Errorf("alternating offsets for n=%d sum to %v, want 0", n, sum)
		}
	}
}

func TestAlternatingPattern(t *testing.T) {
	p := Policy{Kind: Alternating, Step: 0.3}

	// Even group: pure +-step with zero mean.
	if got := p.Offset(0, 4); !approx(got, -0.3) {
		t.Errorf("Offset(0, 4) = %v, want -0.3", got)
	}
	if got := p.Offset(1, 4); !approx(got, 0.3) {
		t.Errorf("Offset(1, 4) = %v, want 0.3", got)
	}

	// Odd group: mean of -step/3 gets subtracted.
	if got := p.Offset(0, 3); !approx(got, -0.3+0.1) {
		t.Errorf("Offset(0, 3) = %v, want -0.2", got)
	}
	if got := p.Offset(1, 3); !approx(got, 0.3+0.1) {
		t.Errorf("Offset(1, 3) = %v, want 0.4", got)
	}
}

func TestStaircaseRamp(t *testing.T) {
	p := Policy{Kind: Staircase, Step: 0.5}

	tests := []struct {
		n    int
		want []float64
	}{
		{1, []float64{0}},
		{3, []float64{-0.5, 0, 0.5}},
		{4, []float64{-0.75, -0.25, 0.25, 0.75}},
		{5, []float64{-1, -0.5, 0, 0.5, 1}},
	}

	for _, tt := range tests {
		for i, want := range tt.want {
			if got := p.Offset(i, tt.n); !approx(got, want) {
				t.Errorf("Offset(%d, %d) = %v, want %v", i, tt.n, got, want)
			}
		}
	}
}

func TestStaircaseArithmeticAndSymmetric(t *testing.T) {
	p := Policy{Kind: Staircase, Step: 0.3}

	for _, n := range []int{2, 3, 4, 7} {
		for i := 0; i < n-1; i++ {
			diff := p.Offset(i+1, n) - p.Offset(i, n)
			if !approx(diff, 0.3) {
				t.Errorf("n=%d: common difference at %d = %v, want 0.3", n, i, diff)
			}
		}
		for i := 0; i < n; i++ {
			if !approx(p.Offset(i, n), -p.Offset(n-1-i, n)) {
				t.Errorf("n=%d: offsets not symmetric about 0 at index %d", n, i)
			}
		}
	}
}

func TestDegenerateGroupSize(t *testing.T) {
	for _, kind := range []Kind{None, Alternating, Staircase} {
		p := Policy{Kind: kind, Step: 0.3}
		if got := p.Offset(0, 0); got != 0 {
			t.Errorf("%s: Offset(0, 0) = %v, want 0", kind, got)
		}
		if got := p.Offset(0, -1); got != 0 {
			t.Errorf("%s: Offset(0, -1) = %v, want 0", kind, got)
		}
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}
