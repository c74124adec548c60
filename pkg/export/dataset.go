// Package export renders tabular datasets as CSV or PDF documents.
package export

import "fmt"

// Dataset defines tabular export content. Every row has one value per header.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewDataset starts a dataset with the given column headers.
func NewDataset(title string, headers ...string) *Dataset {
	return &Dataset{Title: title, Headers: headers}
}

// AddRow appends a row, padding or truncating it to the header width.
func (d *Dataset) AddRow(values ...string) {
	row := make([]string, len(d.Headers))
	copy(row, values)
	d.Rows = append(d.Rows, row)
}

func (d *Dataset) validate(kind string) error {
	if d == nil || len(d.Headers) == 0 {
		return fmt.Errorf("%s requires at least one header", kind)
	}
	return nil
}
