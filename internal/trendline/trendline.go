// Package trendline fits curves to short historical series and projects the
// next point. Fits are closed-form least-squares over at most a few points;
// degenerate inputs fall back to the last known value instead of
// extrapolating.
package trendline

import (
	"errors"
	"fmt"
	"math"
)

// singularEpsilon bounds the normal-equation denominator below which a fit is
// treated as singular.
const singularEpsilon = 1e-10

// ErrUnsupportedOrder is returned for polynomial orders other than 2. A cubic
// through at most three points is underdetermined, so order 3 is rejected at
// the interface rather than silently approximated.
var ErrUnsupportedOrder = errors.New("trendline: only polynomial order 2 is supported")

// ErrUnknownMethod is returned for unrecognized method names.
var ErrUnknownMethod = errors.New("trendline: unknown method")

// Method projects the next point of a historical series. Points are ordered
// oldest first and assigned x = 1..n; the projection is evaluated at x = n+1.
// Every method returns the last known value when fewer than two points are
// given, and 0 for an empty series.
type Method interface {
	Name() string
	Project(points []float64) float64
}

// Parse resolves a method by name. For "polynomial", order selects the
// polynomial degree; a nil order defaults to 2 and any other degree is
// rejected with ErrUnsupportedOrder.
func Parse(name string, order *int) (Method, error) {
	switch name {
	case "linear":
		return Linear{}, nil
	case "logarithmic":
		return Logarithmic{}, nil
	case "polynomial":
		o := 2
		if order != nil {
			o = *order
		}
		if o != 2 {
			return nil, ErrUnsupportedOrder
		}
		return Polynomial{Order: o}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// lastValue is the degenerate-series projection: the series' final point, or
// 0 for an empty series.
func lastValue(points []float64) float64 {
	if len(points) == 0 {
		return 0
	}
	return points[len(points)-1]
}

// Linear fits y = slope*x + intercept by ordinary least squares.
type Linear struct{}

// Name implements Method.
func (Linear) Name() string { return "linear" }

// Project implements Method.
func (Linear) Project(points []float64) float64 {
	if len(points) < 2 {
		return lastValue(points)
	}

	n := float64(len(points))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range points {
		x := float64(i + 1)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if math.Abs(denom) < singularEpsilon {
		return lastValue(points)
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n
	return slope*(n+1) + intercept
}

// Logarithmic fits y = a*ln(x) + b by least squares.
type Logarithmic struct{}

// Name implements Method.
func (Logarithmic) Name() string { return "logarithmic" }

// Project implements Method.
func (Logarithmic) Project(points []float64) float64 {
	if len(points) < 2 {
		return lastValue(points)
	}

	n := float64(len(points))
	var sumLnX, sumY, sumLnXY, sumLnXX float64
	for i, y := range points {
		lnX := math.Log(float64(i + 1))
		sumLnX += lnX
		sumY += y
		sumLnXY += lnX * y
		sumLnXX += lnX * lnX
	}

	denom := n*sumLnXX - sumLnX*sumLnX
	if math.Abs(denom) < singularEpsilon {
		return lastValue(points)
	}

	a := (n*sumLnXY - sumLnX*sumY) / denom
	b := (sumY - a*sumLnX) / n
	return a*math.Log(n+1) + b
}

// Polynomial fits y = a*x^2 + b*x + c through the least-squares normal
// equations. When the system's determinant is near zero the fit falls back
// to linear.
type Polynomial struct {
	Order int
}

// Name implements Method.
func (Polynomial) Name() string { return "polynomial" }

// Project implements Method.
func (p Polynomial) Project(points []float64) float64 {
	if len(points) < 2 {
		return lastValue(points)
	}

	n := float64(len(points))
	var s1, s2, s3, s4 float64
	var sy, sxy, sxxy float64
	for i, y := range points {
		x := float64(i + 1)
		x2 := x * x
		s1 += x
		s2 += x2
		s3 += x2 * x
		s4 += x2 * x2
		sy += y
		sxy += x * y
		sxxy += x2 * y
	}

	// Normal equations for [a b c]:
	//   s4*a + s3*b + s2*c = sxxy
	//   s3*a + s2*b + s1*c = sxy
	//   s2*a + s1*b +  n*c = sy
	det := s4*(s2*n-s1*s1) - s3*(s3*n-s1*s2) + s2*(s3*s1-s2*s2)
	if math.Abs(det) < singularEpsilon {
		return Linear{}.Project(points)
	}

	detA := sxxy*(s2*n-s1*s1) - s3*(sxy*n-s1*sy) + s2*(sxy*s1-s2*sy)
	detB := s4*(sxy*n-s1*sy) - sxxy*(s3*n-s1*s2) + s2*(s3*sy-s2*sxy)
	detC := s4*(s2*sy-sxy*s1) - s3*(s3*sy-sxy*s2) + sxxy*(s3*s1-s2*s2)

	a := detA / det
	b := detB / det
	c := detC / det

	x := n + 1
	return a*x*x + b*x + c
}
