// Package evaluation scores binary predictions against true labels.
package evaluation

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch means labels and predictions are not index-aligned.
	ErrLengthMismatch = errors.New("labels and predictions differ in length")
	// ErrInvalidLabel means a label or prediction is outside {0, 1}.
	ErrInvalidLabel = errors.New("label must be 0 or 1")
	// ErrNoPositives means sensitivity is undefined: the truth has no 1s.
	ErrNoPositives = errors.New("no positive labels to compute sensitivity")
	// ErrNoNegatives means specificity is undefined: the truth has no 0s.
	ErrNoNegatives = errors.New("no negative labels to compute specificity")
)

// Confusion holds the counts of a binary confusion matrix.
type Confusion struct {
	TruePositives  int
	FalseNegatives int
	TrueNegatives  int
	FalsePositives int
}

// NewConfusion tallies index-aligned labels and predictions.
func NewConfusion(labels, predictions []int) (Confusion, error) {
	var c Confusion
	if len(labels) != len(predictions) {
		return c, fmt.Errorf("%w: %d labels, %d predictions", ErrLengthMismatch, len(labels), len(predictions))
	}

	for i, label := range labels {
		prediction := predictions[i]
		if !valid(label) {
			return Confusion{}, fmt.Errorf("%w: label %d at index %d", ErrInvalidLabel, label, i)
		}
		if !valid(prediction) {
			return Confusion{}, fmt.Errorf("%w: prediction %d at index %d", ErrInvalidLabel, prediction, i)
		}

		switch {
		case label == 1 && prediction == 1:
			c.TruePositives++
		case label == 1:
			c.FalseNegatives++
		case prediction == 0:
			c.TrueNegatives++
		default:
			c.FalsePositives++
		}
	}
	return c, nil
}

func valid(v int) bool {
	return v == 0 || v == 1
}

// Positives is the number of examples whose true label is 1.
func (c Confusion) Positives() int {
	return c.TruePositives + c.FalseNegatives
}

// Negatives is the number of examples whose true label is 0.
func (c Confusion) Negatives() int {
	return c.TrueNegatives + c.FalsePositives
}

func (c Confusion) Correct() int {
	return c.TruePositives + c.TrueNegatives
}

func (c Confusion) Incorrect() int {
	return c.FalsePositives + c.FalseNegatives
}

// Sensitivity is the true positive rate.
func (c Confusion) Sensitivity() (float64, error) {
	if c.Positives() == 0 {
		return 0, ErrNoPositives
	}
	return float64(c.TruePositives) / float64(c.Positives()), nil
}

// Specificity is the true negative rate.
func (c Confusion) Specificity() (float64, error) {
	if c.Negatives() == 0 {
		return 0, ErrNoNegatives
	}
	return float64(c.TrueNegatives) / float64(c.Negatives()), nil
}

// Evaluate returns the sensitivity and specificity of predictions. It fails
// rather than report a rate whose denominator is zero.
func Evaluate(labels, predictions []int) (sensitivity, specificity float64, err error) {
	_, sensitivity, specificity, err = score(labels, predictions)
	return sensitivity, specificity, err
}

// score tallies the confusion matrix and both rates.
func score(labels, predictions []int) (Confusion, float64, float64, error) {
	c, err := NewConfusion(labels, predictions)
	if err != nil {
		return Confusion{}, 0, 0, err
	}
	sensitivity, err := c.Sensitivity()
	if err != nil {
		return Confusion{}, 0, 0, err
	}
	specificity, err := c.Specificity()
	if err != nil {
		return Confusion{}, 0, 0, err
	}
	return c, sensitivity, specificity, nil
}
