// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package dataset

import "fmt"

// Table is the shared dataset threaded through the pipeline stages.
// Records are fixed at load time; stages extend the table by adding
// derived columns in a strict linear order. Reading a column before its
// producing stage has run returns ErrSchema.
type Table struct {
	Records []Record

	numeric     map[string][]float64
	categorical map[string][]string

	// numOrder and catOrder preserve column addition order so that
	// feature matrices are assembled deterministically.
	numOrder []string
	catOrder []string
}

// NewTable wraps loaded records in an empty feature table.
func NewTable(records []Record) *Table {
	return &Table{
		Records:     records,
		numeric:     make(map[string][]float64),
		categorical: make(map[string][]string),
	}
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.Records)
}

// AddNumeric adds a derived numeric column. The column must not already
// exist and must cover every record.
func (t *Table) AddNumeric(name string, vals []float64) error {
	if err := t.checkAdd(name, len(vals)); err != nil {
		return err
	}
	t.numeric[name] = vals
	t.numOrder = append(t.numOrder, name)
	return nil
}

// AddCategorical adds a derived categorical column. The column must not
// already exist and must cover every record.
func (t *Table) AddCategorical(name string, vals []string) error {
	if err := t.checkAdd(name, len(vals)); err != nil {
		return err
	}
	t.categorical[name] = vals
	t.catOrder = append(t.catOrder, name)
	return nil
}

func (t *Table) checkAdd(name string, n int) error {
	if _, ok := t.numeric[name]; ok {
		return fmt.Errorf("%w: column %q already exists", ErrSchema, name)
	}
	if _, ok := t.categorical[name]; ok {
		return fmt.Errorf("%w: column %q already exists", ErrSchema, name)
	}
	if n != len(t.Records) {
		return fmt.Errorf("%w: column %q has %d values for %d records", ErrSchema, name, n, len(t.Records))
	}
	return nil
}

// Numeric returns a derived numeric column.
func (t *Table) Numeric(name string) ([]float64, error) {
	vals, ok := t.numeric[name]
	if !ok {
		return nil, fmt.Errorf("%w: numeric column %q not present", ErrSchema, name)
	}
	return vals, nil
}

// Categorical returns a derived categorical column.
func (t *Table) Categorical(name string) ([]string, error) {
	vals, ok := t.categorical[name]
	if !ok {
		return nil, fmt.Errorf("%w: categorical column %q not present", ErrSchema, name)
	}
	return vals, nil
}

// NumericNames returns derived numeric column names in addition order.
func (t *Table) NumericNames() []string {
	out := make([]string, len(t.numOrder))
	copy(out, t.numOrder)
	return out
}

// CategoricalNames returns derived categorical column names in addition order.
func (t *Table) CategoricalNames() []string {
	out := make([]string, len(t.catOrder))
	copy(out, t.catOrder)
	return out
}

// TrainIdx returns the indices of train-partition records.
func (t *Table) TrainIdx() []int {
	return t.labelIdx(LabelTrain)
}

// TestIdx returns the indices of test-partition records.
func (t *Table) TestIdx() []int {
	return t.labelIdx(LabelTest)
}

func (t *Table) labelIdx(label Label) []int {
	var idx []int
	for i := range t.Records {
		if t.Records[i].Label == label {
			idx = append(idx, i)
		}
	}
	return idx
}
