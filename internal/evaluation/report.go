package evaluation

import (
	"fmt"
	"io"
)

// Report is the outcome of evaluating a classifier on a test set.
type Report struct {
	Correct     int     `json:"correct"`
	Incorrect   int     `json:"incorrect"`
	Sensitivity float64 `json:"sensitivity"`
	Specificity float64 `json:"specificity"`
}

// NewReport evaluates predictions and builds the report. No report is
// produced if either rate is undefined.
func NewReport(labels, predictions []int) (Report, error) {
	c, sensitivity, specificity, err := score(labels, predictions)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Correct:     c.Correct(),
		Incorrect:   c.Incorrect(),
		Sensitivity: sensitivity,
		Specificity: specificity,
	}, nil
}

// Print writes the four-line summary.
func (r Report) Print(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Correct: %d\nIncorrect: %d\nTrue Positive Rate: %.2f%%\nTrue Negative Rate: %.2f%%\n",
		r.Correct, r.Incorrect, 100*r.Sensitivity, 100*r.Specificity)
	return err
}
