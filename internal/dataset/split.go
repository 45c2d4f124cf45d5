package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// DefaultTestSize is the fraction of examples held out for evaluation.
const DefaultTestSize = 0.4

var (
	ErrInvalidTestSize = errors.New("test size must be between 0 and 1 (exclusive)")
	ErrTooFewExamples  = errors.New("not enough examples to split")
)

// Splitter divides a dataset into training and test subsets.
type Splitter interface {
	Split(ds Dataset) (train, test Dataset, err error)
}

// RandomSplit shuffles the examples and holds out ceil(TestSize*n) of them.
type RandomSplit struct {
	TestSize float64
	Rand     *rand.Rand
}

// NewRandomSplit creates a RandomSplit seeded with seed.
func NewRandomSplit(testSize float64, seed int64) *RandomSplit {
	return &RandomSplit{TestSize: testSize, Rand: rand.New(rand.NewSource(seed))}
}

func (s *RandomSplit) Split(ds Dataset) (Dataset, Dataset, error) {
	if err := checkTestSize(s.TestSize); err != nil {
		return Dataset{}, Dataset{}, err
	}
	n := ds.Len()
	nTest, err := testCount(n, s.TestSize)
	if err != nil {
		return Dataset{}, Dataset{}, err
	}

	perm := s.Rand.Perm(n)
	return ds.Subset(perm[nTest:]), ds.Subset(perm[:nTest]), nil
}

// StratifiedSplit applies the RandomSplit rule within each label so both
// subsets keep the class balance of the input.
type StratifiedSplit struct {
	TestSize float64
	Rand     *rand.Rand
}

// NewStratifiedSplit creates a StratifiedSplit seeded with seed.
func NewStratifiedSplit(testSize float64, seed int64) *StratifiedSplit {
	return &StratifiedSplit{TestSize: testSize, Rand: rand.New(rand.NewSource(seed))}
}

func (s *StratifiedSplit) Split(ds Dataset) (Dataset, Dataset, error) {
	if err := checkTestSize(s.TestSize); err != nil {
		return Dataset{}, Dataset{}, err
	}

	// Negatives first so the class order is fixed for a given seed.
	byClass := [2][]int{}
	for i, l := range ds.Labels {
		if l != 0 && l != 1 {
			return Dataset{}, Dataset{}, fmt.Errorf("example %d: invalid label %d", i, l)
		}
		byClass[l] = append(byClass[l], i)
	}

	var trainIdx, testIdx []int
	for _, idx := range byClass {
		if len(idx) == 0 {
			continue
		}
		s.Rand.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		nTest := int(math.Ceil(s.TestSize * float64(len(idx))))
		if nTest == len(idx) && len(idx) > 1 {
			nTest--
		}
		testIdx = append(testIdx, idx[:nTest]...)
		trainIdx = append(trainIdx, idx[nTest:]...)
	}
	if len(trainIdx) == 0 || len(testIdx) == 0 {
		return Dataset{}, Dataset{}, fmt.Errorf("%w: %d", ErrTooFewExamples, ds.Len())
	}

	return ds.Subset(trainIdx), ds.Subset(testIdx), nil
}

func checkTestSize(size float64) error {
	if size <= 0 || size >= 1 || math.IsNaN(size) {
		return fmt.Errorf("%w, got %v", ErrInvalidTestSize, size)
	}
	return nil
}

func testCount(n int, size float64) (int, error) {
	nTest := int(math.Ceil(size * float64(n)))
	if nTest < 1 || n-nTest < 1 {
		return 0, fmt.Errorf("%w: %d", ErrTooFewExamples, n)
	}
	return nTest, nil
}
