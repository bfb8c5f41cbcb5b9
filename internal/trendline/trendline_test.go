package trendline

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestLinearProject(t *testing.T) {
	tests := []struct {
		name     string
		points   []float64
		expected float64
	}{
		{"perfect_line", []float64{10, 20, 30}, 40},
		{"two_points", []float64{100, 200}, 300},
		{"flat_series", []float64{50, 50, 50}, 50},
		{"declining_series", []float64{30, 20, 10}, 0},
		{"single_point_returns_last", []float64{42}, 42},
		{"empty_returns_zero", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Linear{}.Project(tt.points)
			if !almostEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestLinearProjectNoisySeries(t *testing.T) {
	// OLS over [12, 19, 32]: slope = 10, intercept = 1, projection = 41.
	got := Linear{}.Project([]float64{12, 19, 32})
	if !almostEqual(got, 41) {
		t.Errorf("expected 41, got %v", got)
	}
}

func TestLogarithmicProject(t *testing.T) {
	t.Run("exact_log_series", func(t *testing.T) {
		// y = 5*ln(x) + 2 sampled at x = 1, 2, 3.
		points := []float64{
			5*math.Log(1) + 2,
			5*math.Log(2) + 2,
			5*math.Log(3) + 2,
		}
		expected := 5*math.Log(4) + 2

		got := Logarithmic{}.Project(points)
		if !almostEqual(got, expected) {
			t.Errorf("expected %v, got %v", expected, got)
		}
	})

	t.Run("constant_series_does_not_blow_up", func(t *testing.T) {
		got := Logarithmic{}.Project([]float64{70, 70, 70})
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("expected finite projection, got %v", got)
		}
		if !almostEqual(got, 70) {
			t.Errorf("expected 70, got %v", got)
		}
	})

	t.Run("single_point_returns_last", func(t *testing.T) {
		got := Logarithmic{}.Project([]float64{13})
		if got != 13 {
			t.Errorf("expected 13, got %v", got)
		}
	})
}

func TestPolynomialProject(t *testing.T) {
	t.Run("exact_quadratic", func(t *testing.T) {
		// y = x^2 sampled at x = 1, 2, 3 projects to 16 at x = 4.
		got := Polynomial{Order: 2}.Project([]float64{1, 4, 9})
		if !almostEqual(got, 16) {
			t.Errorf("expected 16, got %v", got)
		}
	})

	t.Run("quadratic_with_linear_terms", func(t *testing.T) {
		// y = 2x^2 - 3x + 5 sampled at x = 1, 2, 3.
		got := Polynomial{Order: 2}.Project([]float64{4, 7, 14})
		if !almostEqual(got, 25) {
			t.Errorf("expected 25, got %v", got)
		}
	})

	t.Run("two_points_falls_back_to_linear", func(t *testing.T) {
		// The quadratic system is singular with two points; the linear
		// projection over [10, 20] is 30.
		got := Polynomial{Order: 2}.Project([]float64{10, 20})
		if !almostEqual(got, 30) {
			t.Errorf("expected 30, got %v", got)
		}
	})

	t.Run("single_point_returns_last", func(t *testing.T) {
		got := Polynomial{Order: 2}.Project([]float64{99})
		if got != 99 {
			t.Errorf("expected 99, got %v", got)
		}
	})
}

func TestParse(t *testing.T) {
	t.Run("linear", func(t *testing.T) {
		m, err := Parse("linear", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.Name() != "linear" {
			t.Errorf("expected linear, got %s", m.Name())
		}
	})

	t.Run("logarithmic", func(t *testing.T) {
		m, err := Parse("logarithmic", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.Name() != "logarithmic" {
			t.Errorf("expected logarithmic, got %s", m.Name())
		}
	})

	t.Run("polynomial_defaults_to_order_2", func(t *testing.T) {
		m, err := Parse("polynomial", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		poly, ok := m.(Polynomial)
		if !ok {
			t.Fatalf("expected Polynomial, got %T", m)
		}
		if poly.Order != 2 {
			t.Errorf("expected order 2, got %d", poly.Order)
		}
	})

	t.Run("polynomial_order_3_rejected", func(t *testing.T) {
		order := 3
		_, err := Parse("polynomial", &order)
		if !errors.Is(err, ErrUnsupportedOrder) {
			t.Errorf("expected ErrUnsupportedOrder, got %v", err)
		}
	})

	t.Run("unknown_method", func(t *testing.T) {
		_, err := Parse("exponential", nil)
		if !errors.Is(err, ErrUnknownMethod) {
			t.Errorf("expected ErrUnknownMethod, got %v", err)
		}
	})
}

func TestProjectIdempotent(t *testing.T) {
	points := []float64{120, 180, 260}
	for _, m := range []Method{Linear{}, Logarithmic{}, Polynomial{Order: 2}} {
		first := m.Project(points)
		second := m.Project(points)
		if first != second {
			t.Errorf("%s: repeated projection drifted: %v vs %v", m.Name(), first, second)
		}
	}
}
