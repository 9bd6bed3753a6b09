// Package report writes annotated genes as CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/multierr"

	"github.com/yumyai/neighbourann/pkg/model"
)

var (
	baseColumns       = []string{"seq_value", "seq_length", "gene", "product", "length", "start_pos", "end_pos"}
	resistanceColumns = []string{"RGI_prediction_type", "family"}
)

// Header returns the report columns. The resistance columns are present only when noRGI is false.
func Header(noRGI bool) []string {
	cols := append([]string{}, baseColumns...)
	if !noRGI {
		cols = append(cols, resistanceColumns...)
	}
	return cols
}

// Row renders g with the same columns as Header(noRGI).
func Row(g model.GeneRecord, noRGI bool) []string {
	row := []string{
		g.SeqValue,
		strconv.Itoa(g.SeqLength),
		g.Gene,
		g.Product,
		strconv.Itoa(g.Length),
		strconv.Itoa(g.Start),
		strconv.Itoa(g.End),
	}
	if !noRGI {
		row = append(row, g.PredictionType, g.Family)
	}
	return row
}

// Writer owns one report file. The column set is fixed at construction.
type Writer struct {
	path  string
	noRGI bool
	file  *os.File
	csv   *csv.Writer
	rows  int
}

// NewWriter creates or truncates the report at path.
func NewWriter(path string, noRGI bool) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &Writer{
		path:  path,
		noRGI: noRGI,
		file:  f,
		csv:   csv.NewWriter(f),
	}, nil
}

func (w *Writer) Path() string { return w.path }

// Rows is the number of data rows written so far.
func (w *Writer) Rows() int { return w.rows }

func (w *Writer) WriteHeader() error {
	if err := w.csv.Write(Header(w.noRGI)); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}
	return nil
}

func (w *Writer) Write(g model.GeneRecord) error {
	if err := w.csv.Write(Row(g, w.noRGI)); err != nil {
		return fmt.Errorf("failed to write report row: %w", err)
	}
	w.rows++
	return nil
}

func (w *Writer) WriteRun(run model.AnnotationRun) error {
	for _, g := range run {
		if err := w.Write(g); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes the file. It always closes, and reports flush and close errors together.
func (w *Writer) Close() error {
	w.csv.Flush()
	return multierr.Append(w.csv.Error(), w.file.Close())
}
