package dataset

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// indexedDataset stores each example's index in Administrative so subsets can
// be traced back to the input.
func indexedDataset(n int, positive func(i int) bool) Dataset {
	ds := Dataset{}
	for i := 0; i < n; i++ {
		ds.Records = append(ds.Records, Record{Administrative: i})
		label := 0
		if positive(i) {
			label = 1
		}
		ds.Labels = append(ds.Labels, label)
	}
	return ds
}

func indicesOf(ds Dataset) []int {
	out := make([]int, ds.Len())
	for i, r := range ds.Records {
		out[i] = r.Administrative
	}
	return out
}

func TestRandomSplit(t *testing.T) {
	ds := indexedDataset(10, func(i int) bool { return i%2 == 0 })

	train, test, err := NewRandomSplit(DefaultTestSize, 42).Split(ds)
	require.NoError(t, err)
	assert.Equal(t, 6, train.Len())
	assert.Equal(t, 4, test.Len())

	all := append(indicesOf(train), indicesOf(test)...)
	sort.Ints(all)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)

	// labels travel with their records
	for _, sub := range []Dataset{train, test} {
		for i, r := range sub.Records {
			want := 0
			if r.Administrative%2 == 0 {
				want = 1
			}
			assert.Equal(t, want, sub.Labels[i])
		}
	}
}

func TestRandomSplit_Reproducible(t *testing.T) {
	ds := indexedDataset(50, func(i int) bool { return i < 10 })

	train1, test1, err := NewRandomSplit(0.3, 7).Split(ds)
	require.NoError(t, err)
	train2, test2, err := NewRandomSplit(0.3, 7).Split(ds)
	require.NoError(t, err)

	assert.Equal(t, indicesOf(train1), indicesOf(train2))
	assert.Equal(t, indicesOf(test1), indicesOf(test2))
	assert.Equal(t, 15, test1.Len())
}

func TestRandomSplit_Errors(t *testing.T) {
	ds := indexedDataset(5, func(i int) bool { return i == 0 })

	for _, size := range []float64{0, 1, -0.1, 1.5} {
		_, _, err := NewRandomSplit(size, 1).Split(ds)
		assert.True(t, errors.Is(err, ErrInvalidTestSize), "size %v", size)
	}

	_, _, err := NewRandomSplit(0.5, 1).Split(indexedDataset(1, func(int) bool { return true }))
	assert.True(t, errors.Is(err, ErrTooFewExamples))

	_, _, err = NewRandomSplit(0.5, 1).Split(Dataset{})
	assert.True(t, errors.Is(err, ErrTooFewExamples))
}

func TestStratifiedSplit(t *testing.T) {
	ds := indexedDataset(10, func(i int) bool { return i < 5 })

	train, test, err := NewStratifiedSplit(0.5, 3).Split(ds)
	require.NoError(t, err)

	assert.Equal(t, 5, train.Len()-train.Positives()+test.Len()-test.Positives())
	assert.Equal(t, 2, train.Positives())
	assert.Equal(t, 3, test.Positives())
	assert.Equal(t, 2, train.Len()-train.Positives())
	assert.Equal(t, 3, test.Len()-test.Positives())

	all := append(indicesOf(train), indicesOf(test)...)
	sort.Ints(all)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)
}

func TestStratifiedSplit_KeepsTrainingExampleForSmallClass(t *testing.T) {
	ds := indexedDataset(6, func(i int) bool { return i < 2 })

	train, test, err := NewStratifiedSplit(0.9, 3).Split(ds)
	require.NoError(t, err)
	assert.Equal(t, 1, train.Positives())
	assert.Equal(t, 1, test.Positives())
}

func TestStratifiedSplit_InvalidLabel(t *testing.T) {
	ds := indexedDataset(4, func(int) bool { return false })
	ds.Labels[2] = 3

	_, _, err := NewStratifiedSplit(0.5, 1).Split(ds)
	require.Error(t, err)
}
