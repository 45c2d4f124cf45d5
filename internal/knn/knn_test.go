package knn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrain_RecoversTrainingLabels(t *testing.T) {
	features := [][]float64{
		{0, 0, 0},
		{0.5, 0.1, 0},
		{10, 10, 10},
		{9.5, 10.2, 10},
	}
	labels := []int{0, 0, 1, 1}

	model, err := Train(features, labels)
	require.NoError(t, err)
	assert.Equal(t, 1, model.K())
	assert.Equal(t, 4, model.Len())

	got, err := model.Predict(features)
	require.NoError(t, err)
	assert.Equal(t, labels, got)
}

func TestKNN_PredictNearest(t *testing.T) {
	model, err := Train(
		[][]float64{{0, 0}, {10, 0}, {0, 10}},
		[]int{0, 1, 1},
	)
	require.NoError(t, err)

	got, err := model.Predict([][]float64{{1, 1}, {9, 1}, {1, 8}, {4.9, 0}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1, 0}, got)
}

func TestKNN_TieGoesToEarliestExample(t *testing.T) {
	model, err := Train([][]float64{{0}, {2}}, []int{1, 0})
	require.NoError(t, err)

	got, err := model.Predict([][]float64{{1}})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)
}

func TestKNN_RawFeaturesAreNotScaled(t *testing.T) {
	// The large second feature dominates the distance.
	model, err := Train(
		[][]float64{{0, 1000}, {100, 0}},
		[]int{1, 0},
	)
	require.NoError(t, err)

	got, err := model.Predict([][]float64{{0, 400}})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, got)
}

func TestKNN_MajorityVote(t *testing.T) {
	features := [][]float64{{0}, {1}, {2}, {3}, {100}}
	labels := []int{1, 0, 0, 1, 1}

	model, err := New(WithK(3))
	require.NoError(t, err)
	require.NoError(t, model.Fit(features, labels))

	got, err := model.Predict([][]float64{{0.9}, {99}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, got)
}

func TestKNN_VoteTieGoesToNearestLabel(t *testing.T) {
	model, err := New(WithK(2), WithDistance(Manhattan))
	require.NoError(t, err)
	require.NoError(t, model.Fit([][]float64{{0}, {3}}, []int{0, 1}))

	got, err := model.Predict([][]float64{{2}})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)
}

func TestKNN_KLargerThanTrainingSet(t *testing.T) {
	model, err := New(WithK(10))
	require.NoError(t, err)
	require.NoError(t, model.Fit([][]float64{{0}, {1}, {5}}, []int{1, 1, 0}))

	got, err := model.Predict([][]float64{{5}})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)
}

func TestKNN_Errors(t *testing.T) {
	_, err := New(WithK(0))
	assert.ErrorIs(t, err, ErrInvalidK)

	model, err := New()
	require.NoError(t, err)

	_, err = model.Predict([][]float64{{1}})
	assert.ErrorIs(t, err, ErrNotFitted)

	assert.ErrorIs(t, model.Fit(nil, nil), ErrNoExamples)
	assert.ErrorIs(t, model.Fit([][]float64{{1}, {2}}, []int{1}), ErrLengthMismatch)

	_, err = Train([][]float64{{1}}, []int{0, 1})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	require.NoError(t, model.Fit([][]float64{{1, 2}}, []int{1}))
	_, err = model.Predict([][]float64{{1}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestKNN_RejectsNonFiniteFeatures(t *testing.T) {
	nan := math.NaN()

	_, err := Train([][]float64{{nan, 0}, {0, 0}, {100, 100}}, []int{1, 0, 0})
	assert.ErrorIs(t, err, ErrNonFinite)

	model, err := Train([][]float64{{0, 0}, {100, 100}}, []int{0, 1})
	require.NoError(t, err)

	_, err = model.Predict([][]float64{{0, 0}, {math.Inf(1), 0}})
	assert.ErrorIs(t, err, ErrNonFinite)

	got, err := model.Predict([][]float64{{0, 0}, {100, 100}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, got)
}
