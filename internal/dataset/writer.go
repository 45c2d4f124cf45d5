package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

const (
	newVisitor  = "New_Visitor"
	trueLiteral = "TRUE"
)

// Write encodes ds as CSV with a RequiredColumns header, in the format Read
// accepts.
func Write(w io.Writer, ds Dataset) error {
	if len(ds.Records) != len(ds.Labels) {
		return fmt.Errorf("dataset has %d records and %d labels", len(ds.Records), len(ds.Labels))
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(RequiredColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range ds.Records {
		if r.Month < 0 || r.Month >= len(months) {
			return fmt.Errorf("record %d: %w: index %d", i, ErrUnknownMonth, r.Month)
		}
		row := []string{
			strconv.Itoa(r.Administrative),
			formatFloat(r.AdministrativeDuration),
			strconv.Itoa(r.Informational),
			formatFloat(r.InformationalDuration),
			strconv.Itoa(r.ProductRelated),
			formatFloat(r.ProductRelatedDuration),
			formatFloat(r.BounceRates),
			formatFloat(r.ExitRates),
			formatFloat(r.PageValues),
			formatFloat(r.SpecialDay),
			months[r.Month],
			strconv.Itoa(r.OperatingSystems),
			strconv.Itoa(r.Browser),
			strconv.Itoa(r.Region),
			strconv.Itoa(r.TrafficType),
			visitorLiteral(r.VisitorType),
			flagLiteral(r.Weekend),
			flagLiteral(ds.Labels[i]),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func visitorLiteral(v int) string {
	if v == 1 {
		return returningVisitor
	}
	return newVisitor
}

func flagLiteral(v int) string {
	if v == 0 {
		return falseLiteral
	}
	return trueLiteral
}
