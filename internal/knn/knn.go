// Package knn provides a k-nearest-neighbour classifier over raw numeric
// feature vectors.
//
// Fitting only keeps references to the training data; all work happens at
// prediction time with a brute-force scan. Features are not scaled or
// weighted.
package knn

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"
)

var (
	ErrNotFitted      = errors.New("classifier has not been fitted")
	ErrNoExamples     = errors.New("at least one training example is required")
	ErrLengthMismatch = errors.New("features and labels differ in length")
	ErrInvalidK       = errors.New("k must be at least 1")
	ErrNonFinite      = errors.New("feature is NaN or infinite")
)

// Classifier is fitted on labelled vectors and predicts labels for new ones.
type Classifier interface {
	Fit(features [][]float64, labels []int) error
	Predict(features [][]float64) ([]int, error)
}

type Option func(*KNN)

// WithK sets the number of neighbours that vote.
func WithK(k int) Option {
	return func(c *KNN) {
		c.k = k
	}
}

// WithDistance sets the distance metric.
func WithDistance(fn DistanceFunc) Option {
	return func(c *KNN) {
		c.distFunc = fn
	}
}

// KNN is a brute-force k-nearest-neighbour classifier. It is immutable once
// fitted apart from a later call to Fit.
type KNN struct {
	k        int
	distFunc DistanceFunc
	features [][]float64
	labels   []int
}

var _ Classifier = (*KNN)(nil)

// New creates an unfitted classifier; by default k=1 with Euclidean distance.
func New(opts ...Option) (*KNN, error) {
	c := &KNN{k: 1, distFunc: Euclidean}
	for _, opt := range opts {
		opt(c)
	}
	if c.k < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidK, c.k)
	}
	if c.distFunc == nil {
		c.distFunc = Euclidean
	}
	return c, nil
}

// Train returns a 1-nearest-neighbour classifier fitted on the given data.
func Train(features [][]float64, labels []int) (*KNN, error) {
	c, err := New()
	if err != nil {
		return nil, err
	}
	if err := c.Fit(features, labels); err != nil {
		return nil, err
	}
	return c, nil
}

// K returns the number of voting neighbours.
func (c *KNN) K() int {
	return c.k
}

// Len returns the number of stored training examples.
func (c *KNN) Len() int {
	return len(c.features)
}

// Fit stores the training set. The slices are referenced, not copied.
func (c *KNN) Fit(features [][]float64, labels []int) error {
	if len(features) != len(labels) {
		return fmt.Errorf("%w: %d features, %d labels", ErrLengthMismatch, len(features), len(labels))
	}
	if len(features) == 0 {
		return ErrNoExamples
	}
	for i, vec := range features {
		if err := checkFinite(vec); err != nil {
			return fmt.Errorf("training example %d: %w", i, err)
		}
	}
	c.features = features
	c.labels = labels

	log.Debug().
		Int("examples", len(features)).
		Int("k", c.k).
		Msg("Classifier fitted")
	return nil
}

// Predict labels each query vector.
func (c *KNN) Predict(features [][]float64) ([]int, error) {
	if len(c.features) == 0 {
		return nil, ErrNotFitted
	}
	out := make([]int, len(features))
	for i, vec := range features {
		label, err := c.predictOne(vec)
		if err != nil {
			return nil, fmt.Errorf("predict example %d: %w", i, err)
		}
		out[i] = label
	}
	return out, nil
}

type neighbour struct {
	idx  int
	dist float64
}

func (c *KNN) predictOne(vec []float64) (int, error) {
	if err := checkFinite(vec); err != nil {
		return 0, err
	}
	if c.k == 1 {
		return c.nearest(vec)
	}

	nb, err := c.neighbours(vec)
	if err != nil {
		return 0, err
	}
	return c.vote(nb), nil
}

// nearest returns the label of the closest training vector; the earliest one
// wins on equal distance.
func (c *KNN) nearest(vec []float64) (int, error) {
	best := -1
	var bestDist float64
	for i, train := range c.features {
		d, err := c.distFunc(vec, train)
		if err != nil {
			return 0, fmt.Errorf("unable to compute distance to training example %d: %w", i, err)
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return c.labels[best], nil
}

// neighbours returns up to k training examples ordered by distance.
func (c *KNN) neighbours(vec []float64) ([]neighbour, error) {
	all := make([]neighbour, len(c.features))
	for i, train := range c.features {
		d, err := c.distFunc(vec, train)
		if err != nil {
			return nil, fmt.Errorf("unable to compute distance to training example %d: %w", i, err)
		}
		all[i] = neighbour{idx: i, dist: d}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].dist < all[j].dist
	})
	if len(all) > c.k {
		all = all[:c.k]
	}
	return all, nil
}

// vote picks the most common label; ties go to the tied label whose member
// is nearest.
func (c *KNN) vote(nb []neighbour) int {
	counts := make(map[int]int)
	first := make(map[int]int)
	for rank, n := range nb {
		l := c.labels[n.idx]
		if _, ok := first[l]; !ok {
			first[l] = rank
		}
		counts[l]++
	}

	best, bestCount := 0, -1
	for l, cnt := range counts {
		if cnt > bestCount || (cnt == bestCount && first[l] < first[best]) {
			best, bestCount = l, cnt
		}
	}
	return best
}

// checkFinite rejects vectors that would make every distance comparison false.
func checkFinite(vec []float64) error {
	for j, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: index %d", ErrNonFinite, j)
		}
	}
	return nil
}
