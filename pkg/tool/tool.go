// Package tool wraps the external genome annotator and resistance predictor
// behind narrow interfaces.
package tool

import (
	"context"

	"github.com/yumyai/neighbourann/pkg/model"
)

type AnnotateRequest struct {
	GenomePath string // single record FASTA
	OutDir     string // dedicated directory, created by the tool
	Prefix     string
}

// AnnotatorResult holds the genes in annotator order and the protein FASTA the
// predictor consumes.
type AnnotatorResult struct {
	Genes       []model.GeneRecord
	ProteinPath string
}

type PredictRequest struct {
	ProteinPath  string
	OutputStem   string // the predictor appends its own extensions
	IncludeLoose bool
}

type GenomeAnnotator interface {
	Annotate(ctx context.Context, req AnnotateRequest) (*AnnotatorResult, error)
}

type ResistancePredictor interface {
	Predict(ctx context.Context, req PredictRequest) ([]model.ResistancePrediction, error)
	// OutputFiles lists the files Predict leaves behind for a stem.
	OutputFiles(stem string) []string
}
