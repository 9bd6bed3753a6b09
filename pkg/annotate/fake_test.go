package annotate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/yumyai/neighbourann/pkg/model"
	"github.com/yumyai/neighbourann/pkg/tool"
)

// fakeGenome reads the sequence back from the FASTA it is given and answers
// with genes built by genesFor.
type fakeGenome struct {
	mu       sync.Mutex
	requests []tool.AnnotateRequest
	seen     []string // sequences in call order
	genesFor func(seq string) []model.GeneRecord
	delayFor func(seq string) time.Duration
	failOn   string
}

func (f *fakeGenome) Annotate(ctx context.Context, req tool.AnnotateRequest) (*tool.AnnotatorResult, error) {
	raw, err := os.ReadFile(req.GenomePath)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(raw), "\n")
	if len(lines) < 2 || lines[0] != model.DefaultFastaComment {
		return nil, fmt.Errorf("unexpected fasta %q", raw)
	}
	seq := lines[1]

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.seen = append(f.seen, seq)
	f.mu.Unlock()

	if f.delayFor != nil {
		select {
		case <-time.After(f.delayFor(seq)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.failOn != "" && seq == f.failOn {
		return nil, &tool.ToolError{Tool: "bakta", Err: fmt.Errorf("exit status 1")}
	}

	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return nil, err
	}
	faa := filepath.Join(req.OutDir, req.Prefix+".faa")
	if err := os.WriteFile(faa, []byte(">p\nMK\n"), 0o644); err != nil {
		return nil, err
	}

	var genes []model.GeneRecord
	if f.genesFor != nil {
		genes = f.genesFor(seq)
	}
	return &tool.AnnotatorResult{Genes: genes, ProteinPath: faa}, nil
}

// fakeResistance writes the usual output files and returns preds.
type fakeResistance struct {
	mu       sync.Mutex
	requests []tool.PredictRequest
	preds    []model.ResistancePrediction
	err      error
}

func (f *fakeResistance) Predict(ctx context.Context, req tool.PredictRequest) ([]model.ResistancePrediction, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.OutputFiles(req.OutputStem) {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			return nil, err
		}
	}
	return append([]model.ResistancePrediction{}, f.preds...), nil
}

func (f *fakeResistance) OutputFiles(stem string) []string {
	return []string{stem + ".txt", stem + ".json"}
}

// genesBySequence gives each sequence len(seq)%3+1 genes with tags derived from the sequence.
func genesBySequence(seq string) []model.GeneRecord {
	n := len(seq)%3 + 1
	genes := make([]model.GeneRecord, n)
	for i := range genes {
		genes[i] = model.GeneRecord{
			LocusTag: fmt.Sprintf("%s_%05d", seq, (i+1)*5),
			Gene:     fmt.Sprintf("g%d", i+1),
			Product:  "hypothetical protein",
			Start:    i*100 + 1,
			End:      i*100 + 90,
			Length:   90,
			SeqValue: "echoed by tool",
		}
	}
	return genes
}
