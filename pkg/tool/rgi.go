package tool

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/yumyai/neighbourann/logger"
	"github.com/yumyai/neighbourann/pkg/model"
)

var rgiRequiredColumns = []string{"ORF_ID", "Best_Hit_ARO", "Cut_Off", "AMR Gene Family"}

// RGI runs the Resistance Gene Identifier on protein input.
type RGI struct {
	Exec Executor
	Bin  string
}

func NewRGI(exec Executor, bin string) *RGI {
	return &RGI{Exec: exec, Bin: bin}
}

func (r *RGI) args(req PredictRequest) []string {
	args := []string{
		"main",
		"--input_sequence", req.ProteinPath,
		"--output_file", req.OutputStem,
		"--input_type", "protein",
		"--clean",
	}
	if req.IncludeLoose {
		args = append(args, "--include_loose")
	}
	return args
}

func (r *RGI) OutputFiles(stem string) []string {
	return []string{stem + ".txt", stem + ".json"}
}

func (r *RGI) Predict(ctx context.Context, req PredictRequest) ([]model.ResistancePrediction, error) {
	if _, err := r.Exec.Run(ctx, r.Bin, r.args(req)...); err != nil {
		return nil, err
	}

	preds, err := ParseRGITable(req.OutputStem + ".txt")
	if err != nil {
		return nil, err
	}

	logger.Debug("RGI finished", zap.String("stem", req.OutputStem), zap.Int("predictions", len(preds)))
	return preds, nil
}

// ParseRGITable reads the tab separated RGI report. Only the columns the
// report needs are decoded; they must all be present in the header.
func ParseRGITable(path string) ([]model.ResistancePrediction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read RGI output: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Path: path, Msg: "empty file"}
	}
	if err != nil {
		return nil, &ParseError{Path: path, Msg: "header", Err: err}
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}
	for _, col := range rgiRequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &ParseError{Path: path, Msg: fmt.Sprintf("missing column %q", col)}
		}
	}

	var preds []model.ResistancePrediction
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Path: path, Msg: fmt.Sprintf("line %d", line), Err: err}
		}

		row := make(map[string]interface{}, len(rgiRequiredColumns))
		for _, col := range rgiRequiredColumns {
			if i := index[col]; i < len(record) {
				row[col] = record[i]
			}
		}

		var p model.ResistancePrediction
		if err := mapstructure.Decode(row, &p); err != nil {
			return nil, &ParseError{Path: path, Msg: fmt.Sprintf("line %d", line), Err: err}
		}
		preds = append(preds, p)
	}

	return preds, nil
}
