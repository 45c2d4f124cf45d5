package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrDuplicateColumn is returned when a required column appears twice.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrEmptyValue is returned for a blank cell in a required column.
	ErrEmptyValue = errors.New("empty value")
	// ErrNonFinite is returned for NaN or infinite numeric values.
	ErrNonFinite = errors.New("value is not a finite number")
)

// ParseError reports a row that could not be converted.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %s: cannot parse %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads a dataset from the CSV file at path.
func Load(path string) (Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	ds, err := Read(file)
	if err != nil {
		return Dataset{}, fmt.Errorf("load %s: %w", path, err)
	}

	log.Info().
		Str("file", path).
		Int("rows", ds.Len()).
		Int("positives", ds.Positives()).
		Msg("CSV data loaded successfully")

	return ds, nil
}

// Read parses a CSV stream with a header row into a Dataset. Rows keep their
// input order.
func Read(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	indices := make(map[string]int, len(header))
	counts := make(map[string]int, len(header))
	for i, col := range header {
		indices[col] = i
		counts[col]++
	}
	for _, col := range RequiredColumns {
		if counts[col] == 0 {
			return Dataset{}, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
		if counts[col] > 1 {
			return Dataset{}, fmt.Errorf("%w: %s", ErrDuplicateColumn, col)
		}
	}

	var ds Dataset
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("failed to read CSV row: %w", err)
		}

		line, _ := reader.FieldPos(0)
		p := rowParser{row: row, indices: indices, line: line}
		rec := p.record()
		label := p.label()
		if p.err != nil {
			return Dataset{}, p.err
		}

		ds.Records = append(ds.Records, rec)
		ds.Labels = append(ds.Labels, label)
	}

	return ds, nil
}

// rowParser converts one CSV row, keeping the first error it hits.
type rowParser struct {
	row     []string
	indices map[string]int
	line    int
	err     error
}

func (p *rowParser) value(col string) string {
	if p.err != nil {
		return ""
	}
	v := p.row[p.indices[col]]
	if v == "" {
		p.err = &ParseError{Line: p.line, Column: col, Err: ErrEmptyValue}
	}
	return v
}

func (p *rowParser) parseInt(col string) int {
	v := p.value(col)
	if p.err != nil {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.err = &ParseError{Line: p.line, Column: col, Value: v, Err: err}
	}
	return n
}

func (p *rowParser) parseFloat(col string) float64 {
	v := p.value(col)
	if p.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.err = &ParseError{Line: p.line, Column: col, Value: v, Err: err}
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		p.err = &ParseError{Line: p.line, Column: col, Value: v, Err: ErrNonFinite}
		return 0
	}
	return f
}

func (p *rowParser) month() int {
	v := p.value(ColMonth)
	if p.err != nil {
		return 0
	}
	m, err := ParseMonth(v)
	if err != nil {
		p.err = &ParseError{Line: p.line, Column: ColMonth, Value: v, Err: ErrUnknownMonth}
	}
	return m
}

func (p *rowParser) record() Record {
	return Record{
		Administrative:         p.parseInt(ColAdministrative),
		AdministrativeDuration: p.parseFloat(ColAdministrativeDuration),
		Informational:          p.parseInt(ColInformational),
		InformationalDuration:  p.parseFloat(ColInformationalDuration),
		ProductRelated:         p.parseInt(ColProductRelated),
		ProductRelatedDuration: p.parseFloat(ColProductRelatedDuration),
		BounceRates:            p.parseFloat(ColBounceRates),
		ExitRates:              p.parseFloat(ColExitRates),
		PageValues:             p.parseFloat(ColPageValues),
		SpecialDay:             p.parseFloat(ColSpecialDay),
		Month:                  p.month(),
		OperatingSystems:       p.parseInt(ColOperatingSystems),
		Browser:                p.parseInt(ColBrowser),
		Region:                 p.parseInt(ColRegion),
		TrafficType:            p.parseInt(ColTrafficType),
		VisitorType:            ParseVisitorType(p.value(ColVisitorType)),
		Weekend:                ParseFlag(p.value(ColWeekend)),
	}
}

func (p *rowParser) label() Label {
	return ParseLabel(p.value(ColRevenue))
}
