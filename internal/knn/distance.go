package knn

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var ErrDimensionMismatch = errors.New("vectors dimension is not equal")

// DistanceFunc measures how far apart two evidence vectors are.
type DistanceFunc func(a, b []float64) (float64, error)

const (
	MetricEuclidean = "euclidean"
	MetricManhattan = "manhattan"
	MetricChebyshev = "chebyshev"
)

// Euclidean is the L2 distance.
func Euclidean(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	return floats.Distance(a, b, 2), nil
}

// Manhattan is the L1 distance.
func Manhattan(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	return floats.Distance(a, b, 1), nil
}

// Chebyshev is the L-infinity distance.
func Chebyshev(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	return floats.Distance(a, b, math.Inf(1)), nil
}

// DistanceFuncFor resolves a metric name.
func DistanceFuncFor(name string) (DistanceFunc, error) {
	switch name {
	case MetricEuclidean, "":
		return Euclidean, nil
	case MetricManhattan:
		return Manhattan, nil
	case MetricChebyshev:
		return Chebyshev, nil
	default:
		return nil, fmt.Errorf("unknown distance metric: %s", name)
	}
}
