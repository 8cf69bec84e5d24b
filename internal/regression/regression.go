// Package regression provides stateless least-squares fitting over ordered
// (x, y) pairs. Callers own their data; nothing here keeps state between
// calls.
package regression

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PolyFit fits a polynomial of the given degree to the points by least
// squares and returns the coefficients lowest order first, so that
// y ≈ c[0] + c[1]*x + ... + c[degree]*x^degree.
func PolyFit(xs, ys []float64, degree int) ([]float64, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("mismatched sample lengths: %d x values, %d y values", len(xs), len(ys))
	}
	if degree < 1 {
		return nil, fmt.Errorf("degree must be at least 1, got %d", degree)
	}
	if len(xs) < degree+1 {
		return nil, fmt.Errorf("need at least %d points for degree %d fit, got %d", degree+1, degree, len(xs))
	}

	// Vandermonde design matrix, solved via QR.
	a := mat.NewDense(len(xs), degree+1, nil)
	for i, x := range xs {
		v := 1.0
		for j := 0; j <= degree; j++ {
			a.Set(i, j, v)
			v *= x
		}
	}
	b := mat.NewVecDense(len(ys), ys)

	var qr mat.QR
	qr.Factorize(a)

	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, b); err != nil {
		return nil, fmt.Errorf("least squares solve failed: %w", err)
	}

	coeffs := make([]float64, degree+1)
	for i := range coeffs {
		coeffs[i] = sol.AtVec(i)
	}
	return coeffs, nil
}

// PolyEval evaluates a polynomial with coefficients lowest order first at x.
func PolyEval(coeffs []float64, x float64) float64 {
	y := 0.0
	for i := len(coeffs) - 1; i >= 0; i-- {
		y = y*x + coeffs[i]
	}
	return y
}

// LinearFit fits y ≈ alpha + beta*x by simple least squares.
func LinearFit(xs, ys []float64) (alpha, beta float64) {
	return stat.LinearRegression(xs, ys, nil, false)
}

// RSquared computes the coefficient of determination of the polynomial fit
// against the observed points, clamped to [0, 1]. When all observations are
// identical (zero total variance) it returns 0.
func RSquared(xs, ys, coeffs []float64) float64 {
	meanY := stat.Mean(ys, nil)
	ssRes := 0.0
	ssTot := 0.0
	for i, x := range xs {
		resid := ys[i] - PolyEval(coeffs, x)
		ssRes += resid * resid
		dev := ys[i] - meanY
		ssTot += dev * dev
	}
	if ssTot == 0 {
		return 0
	}
	return Clamp01(1 - ssRes/ssTot)
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// PopStdDev returns the population standard deviation, 0 for fewer than two
// values.
func PopStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.PopStdDev(values, nil)
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
