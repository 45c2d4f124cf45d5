// Package dataset loads labelled shopping-session data and splits it into
// training and test subsets.
//
// Each CSV row is converted into a typed Record whose Vector method yields the
// 17 numeric features in a fixed order, plus a binary Label taken from the
// Revenue column. Loading is all-or-nothing: any malformed row fails the load.
package dataset

import (
	"errors"
	"fmt"
)

// NumFeatures is the length of every evidence vector.
const NumFeatures = 17

// Column names of the input file.
const (
	ColAdministrative         = "Administrative"
	ColAdministrativeDuration = "Administrative_Duration"
	ColInformational          = "Informational"
	ColInformationalDuration  = "Informational_Duration"
	ColProductRelated         = "ProductRelated"
	ColProductRelatedDuration = "ProductRelated_Duration"
	ColBounceRates            = "BounceRates"
	ColExitRates              = "ExitRates"
	ColPageValues             = "PageValues"
	ColSpecialDay             = "SpecialDay"
	ColMonth                  = "Month"
	ColOperatingSystems       = "OperatingSystems"
	ColBrowser                = "Browser"
	ColRegion                 = "Region"
	ColTrafficType            = "TrafficType"
	ColVisitorType            = "VisitorType"
	ColWeekend                = "Weekend"
	ColRevenue                = "Revenue"
)

const (
	returningVisitor = "Returning_Visitor"
	falseLiteral     = "FALSE"
)

// FeatureNames lists the feature columns in evidence-vector order.
var FeatureNames = []string{
	ColAdministrative,
	ColAdministrativeDuration,
	ColInformational,
	ColInformationalDuration,
	ColProductRelated,
	ColProductRelatedDuration,
	ColBounceRates,
	ColExitRates,
	ColPageValues,
	ColSpecialDay,
	ColMonth,
	ColOperatingSystems,
	ColBrowser,
	ColRegion,
	ColTrafficType,
	ColVisitorType,
	ColWeekend,
}

// RequiredColumns is FeatureNames followed by the label column.
var RequiredColumns = append(append([]string{}, FeatureNames...), ColRevenue)

// months as spelled in the source data ("June" is not abbreviated).
var months = []string{"Jan", "Feb", "Mar", "Apr", "May", "June", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ErrUnknownMonth is returned for a month label outside Jan..Dec.
var ErrUnknownMonth = errors.New("unknown month")

// Label is the purchase outcome of a session: 1 if it ended in revenue.
type Label = int

// Record is one shopping session.
type Record struct {
	Administrative         int
	AdministrativeDuration float64
	Informational          int
	InformationalDuration  float64
	ProductRelated         int
	ProductRelatedDuration float64
	BounceRates            float64
	ExitRates              float64
	PageValues             float64
	SpecialDay             float64
	// Month is 0 (January) .. 11 (December).
	Month            int
	OperatingSystems int
	Browser          int
	Region           int
	TrafficType      int
	// VisitorType is 1 for returning visitors.
	VisitorType int
	Weekend     int
}

// Vector returns the evidence vector of the record, ordered as FeatureNames.
func (r Record) Vector() []float64 {
	return []float64{
		float64(r.Administrative),
		r.AdministrativeDuration,
		float64(r.Informational),
		r.InformationalDuration,
		float64(r.ProductRelated),
		r.ProductRelatedDuration,
		r.BounceRates,
		r.ExitRates,
		r.PageValues,
		r.SpecialDay,
		float64(r.Month),
		float64(r.OperatingSystems),
		float64(r.Browser),
		float64(r.Region),
		float64(r.TrafficType),
		float64(r.VisitorType),
		float64(r.Weekend),
	}
}

// ParseMonth maps a month label to its zero-based index.
func ParseMonth(s string) (int, error) {
	for i, m := range months {
		if s == m {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMonth, s)
}

// ParseVisitorType returns 1 only for the literal "Returning_Visitor".
func ParseVisitorType(s string) int {
	if s == returningVisitor {
		return 1
	}
	return 0
}

// ParseFlag returns 0 only for the literal "FALSE". Used for Weekend.
func ParseFlag(s string) int {
	if s == falseLiteral {
		return 0
	}
	return 1
}

// ParseLabel converts a Revenue value into a Label.
func ParseLabel(s string) Label {
	return ParseFlag(s)
}

// Dataset is an ordered, index-aligned sequence of records and labels.
type Dataset struct {
	Records []Record
	Labels  []Label
}

// Len returns the number of examples.
func (d Dataset) Len() int {
	return len(d.Records)
}

// Features returns the evidence matrix, one row per record.
func (d Dataset) Features() [][]float64 {
	out := make([][]float64, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Vector()
	}
	return out
}

// Subset returns the examples at the given indices, in that order.
func (d Dataset) Subset(idx []int) Dataset {
	sub := Dataset{
		Records: make([]Record, len(idx)),
		Labels:  make([]Label, len(idx)),
	}
	for i, j := range idx {
		sub.Records[i] = d.Records[j]
		sub.Labels[i] = d.Labels[j]
	}
	return sub
}

// Positives counts examples labelled 1.
func (d Dataset) Positives() int {
	n := 0
	for _, l := range d.Labels {
		if l == 1 {
			n++
		}
	}
	return n
}
