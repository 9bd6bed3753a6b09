// Package annotate runs the genome annotator and resistance predictor per
// sequence and fans a sequence file out over them.
package annotate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/yumyai/neighbourann/internal/util"
	"github.com/yumyai/neighbourann/logger"
	"github.com/yumyai/neighbourann/pkg/model"
	"github.com/yumyai/neighbourann/pkg/tool"
)

const (
	fileStampLayout = "2006-01-02_15-04-05"
	dirStampLayout  = "2006-01-02_15-04"
)

// SequenceAnnotator produces the annotated genes of one sequence.
type SequenceAnnotator interface {
	AnnotateSequence(ctx context.Context, seq, description, outputDir string, noRGI, includeLoose bool) (model.AnnotationRun, error)
}

type Annotator struct {
	Genome     tool.GenomeAnnotator
	Resistance tool.ResistancePredictor

	// CleanupTempFiles removes the annotator directory and predictor files
	// once the records are built.
	CleanupTempFiles bool

	// RunID namespaces the temporary sequence directories of one process.
	RunID string

	now func() time.Time
	pid int
}

func NewAnnotator(genome tool.GenomeAnnotator, resistance tool.ResistancePredictor, cleanup bool) *Annotator {
	return &Annotator{
		Genome:           genome,
		Resistance:       resistance,
		CleanupTempFiles: cleanup,
		now:              time.Now,
		pid:              os.Getpid(),
	}
}

func (a *Annotator) AnnotateSequence(ctx context.Context, seq, description, outputDir string, noRGI, includeLoose bool) (model.AnnotationRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !noRGI && a.Resistance == nil {
		return nil, errors.New("resistance annotation requested but no predictor configured")
	}

	now := a.now()
	baktaDir := filepath.Join(outputDir, fmt.Sprintf("bakta_dir_%s_%d_%s", description, a.pid, now.Format(dirStampLayout)))

	res, err := a.runGenome(ctx, seq, description, baktaDir, now)
	if err != nil {
		return nil, err
	}

	// the annotator is not trusted to echo the sequence back
	seqValue := model.CleanSequence(seq)
	genes := model.AnnotationRun(res.Genes)
	for i := range genes {
		genes[i].SeqValue = seqValue
		genes[i].SeqLength = len(seqValue)
	}

	if !noRGI {
		preds, err := a.runResistance(ctx, res.ProteinPath, description, outputDir, includeLoose, now)
		if err != nil {
			return nil, err
		}
		n := JoinPredictions(genes, preds)
		logger.Debug("Joined resistance predictions",
			zap.String("sequence", description),
			zap.Int("predictions", len(preds)),
			zap.Int("matched", n))
	}

	if a.CleanupTempFiles {
		util.RemoveAllLogged(baktaDir)
	}

	return genes, nil
}

// runGenome writes seq to a throwaway FASTA and annotates it. The FASTA and its
// directory are gone when this returns.
func (a *Annotator) runGenome(ctx context.Context, seq, description, baktaDir string, now time.Time) (*tool.AnnotatorResult, error) {
	tmpDir, err := os.MkdirTemp("", "neighbourann-"+a.RunID+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}
	defer util.RemoveAllLogged(tmpDir)

	fastaPath, err := model.WriteFasta(seq, tmpDir, model.DefaultFastaComment, "temp_"+now.Format(fileStampLayout)+description)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", description, err)
	}

	res, err := a.Genome.Annotate(ctx, tool.AnnotateRequest{
		GenomePath: fastaPath,
		OutDir:     baktaDir,
		Prefix:     "neighbourhood_" + description,
	})
	if err != nil {
		return nil, fmt.Errorf("genome annotation of %s: %w", description, err)
	}
	return res, nil
}

func (a *Annotator) runResistance(ctx context.Context, proteinPath, description, outputDir string, includeLoose bool, now time.Time) ([]model.ResistancePrediction, error) {
	if !util.FileExists(proteinPath) {
		return nil, fmt.Errorf("protein file of %s: %w: %s", description, os.ErrNotExist, proteinPath)
	}

	rgiDir := filepath.Join(outputDir, "rgi_dir")
	if err := os.MkdirAll(rgiDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", rgiDir, err)
	}
	stem := filepath.Join(rgiDir, "rgi_output_"+description+"_"+now.Format(dirStampLayout))

	preds, err := a.Resistance.Predict(ctx, tool.PredictRequest{
		ProteinPath:  proteinPath,
		OutputStem:   stem,
		IncludeLoose: includeLoose,
	})
	if err != nil {
		return nil, fmt.Errorf("resistance prediction of %s: %w", description, err)
	}

	if a.CleanupTempFiles {
		for _, f := range a.Resistance.OutputFiles(stem) {
			util.RemoveFileLogged(f)
		}
	}
	return preds, nil
}
